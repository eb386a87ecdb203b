package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/exchange-admin/internal/domain"
)

// UserRepo reads customer profiles for notification delivery.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	var (
		u      domain.User
		phone  sql.NullString
		status string
	)
	err := r.db.QueryRowContext(ctx, `
		select id, email, phone, first_name, last_name, kyc_level, kyc_status, created_at, updated_at
		from users where id = $1
	`, userID).Scan(&u.UserID, &u.Email, &phone, &u.FirstName, &u.LastName, &u.KYCLevel, &status, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if phone.Valid && phone.String != "" {
		p := phone.String
		u.Phone = &p
	}
	u.KYCStatus = domain.KYCStatus(status)
	return &u, nil
}
