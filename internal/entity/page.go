package entity

import (
	"context"
	"errors"
)

var ErrPageNotFound = errors.New("page not found")

// Page carries the access credential used against the remote lead source.
// Owned by the auth flow; the sync core only reads it.
type Page struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	PageID            string `json:"page_id"` // external id, unique
	PageName          string `json:"page_name"`
	PageAccessToken   string `json:"-"`
	WebhookSubscribed bool   `json:"webhook_subscribed"`
	IsActive          bool   `json:"is_active"`
}

type PageRepositoryInterface interface {
	ListActiveByUser(ctx context.Context, userID string) ([]Page, error)
	ListUnsubscribed(ctx context.Context) ([]Page, error)
	ListActiveUserIDs(ctx context.Context) ([]string, error)
	FindByPageID(ctx context.Context, pageID string) (*Page, error)
	Upsert(ctx context.Context, p *Page) error
	MarkSubscribed(ctx context.Context, pageID string) error
}
