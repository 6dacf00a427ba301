package entity

import "context"

type AdAccount struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	AdAccountID     string `json:"ad_account_id"` // external id, unique
	AdAccountName   string `json:"ad_account_name"`
	UserAccessToken string `json:"-"`
	IsActive        bool   `json:"is_active"`
}

type AdAccountRepositoryInterface interface {
	ListActiveByUser(ctx context.Context, userID string) ([]AdAccount, error)
	Upsert(ctx context.Context, a *AdAccount) error
}
