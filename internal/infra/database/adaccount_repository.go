package database

import (
	"context"
	"database/sql"

	"github.com/andrevc1/leadsync/internal/entity"
)

type AdAccountRepository struct {
	DB *sql.DB
}

func NewAdAccountRepository(db *sql.DB) *AdAccountRepository {
	return &AdAccountRepository{DB: db}
}

func (r *AdAccountRepository) ListActiveByUser(ctx context.Context, userID string) ([]entity.AdAccount, error) {
	query := `
		SELECT id, user_id, ad_account_id, ad_account_name, user_access_token, is_active
		FROM ad_accounts
		WHERE user_id = $1 AND is_active = TRUE
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []entity.AdAccount
	for rows.Next() {
		var a entity.AdAccount
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.AdAccountID, &a.AdAccountName, &a.UserAccessToken, &a.IsActive,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AdAccountRepository) Upsert(ctx context.Context, a *entity.AdAccount) error {
	query := `
		INSERT INTO ad_accounts (user_id, ad_account_id, ad_account_name, user_access_token, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (ad_account_id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			ad_account_name = EXCLUDED.ad_account_name,
			user_access_token = EXCLUDED.user_access_token,
			is_active = TRUE
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, a.UserID, a.AdAccountID, a.AdAccountName, a.UserAccessToken).Scan(&a.ID)
}
