package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrevc1/leadsync/internal/entity"
)

type PageRepository struct {
	DB *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{DB: db}
}

const pageColumns = `id, user_id, page_id, page_name, page_access_token, webhook_subscribed, is_active`

func (r *PageRepository) ListActiveByUser(ctx context.Context, userID string) ([]entity.Page, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE user_id = $1 AND is_active = TRUE`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPages(rows)
}

func (r *PageRepository) ListUnsubscribed(ctx context.Context) ([]entity.Page, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE is_active = TRUE AND webhook_subscribed = FALSE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPages(rows)
}

func (r *PageRepository) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM pages WHERE is_active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PageRepository) FindByPageID(ctx context.Context, pageID string) (*entity.Page, error) {
	var p entity.Page
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE page_id = $1`, pageID,
	).Scan(&p.ID, &p.UserID, &p.PageID, &p.PageName, &p.PageAccessToken, &p.WebhookSubscribed, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepository) Upsert(ctx context.Context, p *entity.Page) error {
	query := `
		INSERT INTO pages (user_id, page_id, page_name, page_access_token, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (page_id)
		DO UPDATE SET
			user_id = EXCLUDED.user_id,
			page_name = EXCLUDED.page_name,
			page_access_token = EXCLUDED.page_access_token,
			is_active = TRUE
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.UserID, p.PageID, p.PageName, p.PageAccessToken).Scan(&p.ID)
}

func (r *PageRepository) MarkSubscribed(ctx context.Context, pageID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE pages SET webhook_subscribed = TRUE WHERE page_id = $1`, pageID)
	return err
}

func scanPages(rows *sql.Rows) ([]entity.Page, error) {
	var pages []entity.Page
	for rows.Next() {
		var p entity.Page
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.PageID, &p.PageName,
			&p.PageAccessToken, &p.WebhookSubscribed, &p.IsActive,
		); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}
