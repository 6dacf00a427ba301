package entity

import (
	"context"
	"errors"
	"time"
)

var ErrCampaignNotFound = errors.New("campaign not found")

type Campaign struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AdAccountID   string    `json:"ad_account_id"`
	AdAccountName string    `json:"ad_account_name,omitempty"`
	CampaignID    string    `json:"campaign_id"` // unique, stable id from the ad platform
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	Objective     string    `json:"objective,omitempty"`
	LeadsCount    int       `json:"leads_count"` // monotonically non-decreasing
	LastUpdated   time.Time `json:"last_updated"`
}

type CampaignRepositoryInterface interface {
	FindByID(ctx context.Context, campaignID, userID string) (*Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]Campaign, error)
	Upsert(ctx context.Context, c *Campaign) error
	IncrementLeadsCount(ctx context.Context, campaignID string) error
}
