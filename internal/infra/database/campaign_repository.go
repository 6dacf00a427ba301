package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrevc1/leadsync/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) FindByID(ctx context.Context, campaignID, userID string) (*entity.Campaign, error) {
	query := `
		SELECT id, user_id, ad_account_id, ad_account_name, campaign_id,
		       name, status, objective, leads_count, last_updated
		FROM campaigns
		WHERE campaign_id = $1 AND user_id = $2
	`

	var c entity.Campaign
	err := r.DB.QueryRowContext(ctx, query, campaignID, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.AdAccountID,
		&c.AdAccountName,
		&c.CampaignID,
		&c.Name,
		&c.Status,
		&c.Objective,
		&c.LeadsCount,
		&c.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID string) ([]entity.Campaign, error) {
	query := `
		SELECT id, user_id, ad_account_id, ad_account_name, campaign_id,
		       name, status, objective, leads_count, last_updated
		FROM campaigns
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []entity.Campaign
	for rows.Next() {
		var c entity.Campaign
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.AdAccountID, &c.AdAccountName, &c.CampaignID,
			&c.Name, &c.Status, &c.Objective, &c.LeadsCount, &c.LastUpdated,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Upsert(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campaigns
			(user_id, ad_account_id, ad_account_name, campaign_id, name, status, objective, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (campaign_id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			ad_account_id = EXCLUDED.ad_account_id,
			ad_account_name = EXCLUDED.ad_account_name,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			objective = EXCLUDED.objective,
			last_updated = NOW()
		RETURNING id
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		c.UserID,
		c.AdAccountID,
		c.AdAccountName,
		c.CampaignID,
		c.Name,
		c.Status,
		c.Objective,
	).Scan(&c.ID)
}

// IncrementLeadsCount bumps leads_count by exactly one. Called only after a
// successful first insert of a lead, never on a dedup.
func (r *CampaignRepository) IncrementLeadsCount(ctx context.Context, campaignID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns
		 SET leads_count = leads_count + 1, last_updated = NOW()
		 WHERE campaign_id = $1`,
		campaignID,
	)
	return err
}
