package usecase

import (
	"strings"

	"github.com/andrevc1/leadsync/internal/entity"
)

// NormalizeFields maps raw form entries to an upper-cased name -> first
// value map. Malformed entries (no name) are skipped, never rejected.
func NormalizeFields(fieldData []entity.FieldEntry) map[string]string {
	fields := make(map[string]string, len(fieldData))
	for _, f := range fieldData {
		if f.Name == "" {
			continue
		}
		value := ""
		if len(f.Values) > 0 {
			value = f.Values[0]
		}
		fields[strings.ToUpper(f.Name)] = value
	}
	return fields
}

func DeriveName(fields map[string]string) string {
	if v := fields["FULL_NAME"]; v != "" {
		return v
	}
	if v := fields["EMAIL"]; v != "" {
		return v
	}
	return "Unknown"
}

func DeriveEmail(fields map[string]string) string {
	return fields["EMAIL"]
}

func DerivePhone(fields map[string]string) string {
	if v := fields["PHONE_NUMBER"]; v != "" {
		return v
	}
	return fields["PHONE"]
}
