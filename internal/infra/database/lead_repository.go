package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andrevc1/leadsync/internal/entity"
)

const pgUniqueViolation = "23505"

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Exists(ctx context.Context, leadID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM leads WHERE lead_id = $1)`, leadID,
	).Scan(&exists)
	return exists, err
}

// Create inserts exactly once. The unique index on lead_id is the single
// coordination point between the pull and push paths; a violation comes
// back as entity.ErrDuplicateLead so callers can treat the race as a dedup.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	fieldData, err := json.Marshal(lead.FieldData)
	if err != nil {
		return err
	}
	customFields, err := json.Marshal(lead.CustomFields)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads
			(user_id, page_id, lead_id, form_id, campaign_id, created_time,
			 field_data, custom_fields, name, email, phone, source, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err = r.DB.QueryRowContext(
		ctx,
		query,
		lead.UserID,
		lead.PageID,
		lead.LeadID,
		lead.FormID,
		lead.CampaignID,
		lead.CreatedTime,
		fieldData,
		customFields,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Source,
		lead.Processed,
	).Scan(&lead.ID, &lead.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entity.ErrDuplicateLead
		}
		return err
	}
	return nil
}

func (r *LeadRepository) ListByUser(ctx context.Context, userID, campaignID string, limit int) ([]entity.Lead, error) {
	query := `
		SELECT id, user_id, page_id, lead_id, form_id, campaign_id, created_time,
		       field_data, custom_fields, name, email, phone, source, processed, created_at
		FROM leads
		WHERE user_id = $1 AND ($2 = '' OR campaign_id = $2)
		ORDER BY created_time DESC
		LIMIT $3
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		var (
			lead         entity.Lead
			fieldData    []byte
			customFields []byte
		)
		if err := rows.Scan(
			&lead.ID, &lead.UserID, &lead.PageID, &lead.LeadID, &lead.FormID,
			&lead.CampaignID, &lead.CreatedTime, &fieldData, &customFields,
			&lead.Name, &lead.Email, &lead.Phone, &lead.Source, &lead.Processed,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(fieldData) > 0 {
			if err := json.Unmarshal(fieldData, &lead.FieldData); err != nil {
				return nil, err
			}
		}
		if len(customFields) > 0 {
			if err := json.Unmarshal(customFields, &lead.CustomFields); err != nil {
				return nil, err
			}
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
