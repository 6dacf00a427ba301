package meta

import (
	"errors"
	"fmt"
)

// Graph error_subcode that means "application request limit reached, retry
// later". The only throttling signal the sync loop reacts to.
const rateLimitSubcode = 80005

type APIError struct {
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	Subcode    int    `json:"error_subcode"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api error %d (subcode %d): %s", e.Code, e.Subcode, e.Message)
}

// IsRateLimit reports whether err is the throttling signal from the Graph
// API, as opposed to any other transient failure.
func IsRateLimit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Subcode == rateLimitSubcode
}
