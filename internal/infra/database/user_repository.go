package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andrevc1/leadsync/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*entity.User, error) {
	var u entity.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, name, email, meta_user_id, created_at FROM users WHERE user_id = $1`,
		userID,
	).Scan(&u.ID, &u.UserID, &u.Name, &u.Email, &u.MetaUserID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (user_id, name, email, meta_user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			meta_user_id = EXCLUDED.meta_user_id
		RETURNING id, created_at
	`
	return r.DB.QueryRowContext(ctx, query, u.UserID, u.Name, u.Email, u.MetaUserID).Scan(&u.ID, &u.CreatedAt)
}
