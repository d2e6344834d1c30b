package repository

import (
	"context"
	"database/sql"

	"flex_report/internal/models"
)

// Users stores API accounts.
type Users interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Repository groups the stores backed by the SQLite database.
type Repository struct {
	Users Users
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(db),
	}
}
