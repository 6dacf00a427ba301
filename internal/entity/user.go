package entity

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"` // tenant id, e.g. "vendor_123"
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	MetaUserID string    `json:"meta_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*User, error)
	Upsert(ctx context.Context, u *User) error
}
