package entity

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateLead is returned by the store when the unique index on
// lead_id rejects an insert. The ingestion engine treats it as a dedup.
var ErrDuplicateLead = errors.New("lead already exists")

const (
	SourcePull = "pull"
	SourcePush = "push"
)

// FieldEntry is one raw form field exactly as the remote source sent it.
// Kept verbatim on the lead for audit.
type FieldEntry struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Lead struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	PageID       string            `json:"page_id"`
	LeadID       string            `json:"lead_id"` // dedup key, unique across the store
	FormID       string            `json:"form_id"`
	CampaignID   string            `json:"campaign_id"`
	CreatedTime  string            `json:"created_time"` // timestamp from the remote source, not ours
	FieldData    []FieldEntry      `json:"field_data"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Source       string            `json:"source"` // pull | push
	Processed    bool              `json:"processed"`
	CreatedAt    time.Time         `json:"created_at"`
}

type LeadRepositoryInterface interface {
	Exists(ctx context.Context, leadID string) (bool, error)
	Create(ctx context.Context, lead *Lead) error
	ListByUser(ctx context.Context, userID, campaignID string, limit int) ([]Lead, error)
}
