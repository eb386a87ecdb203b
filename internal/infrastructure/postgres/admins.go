package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/exchange-admin/internal/domain"
)

const adminColumns = `id, email, password_hash, role, coalesce(two_factor_secret, ''), two_factor_enabled, last_login_at, last_login_ip`

// AdminRepo reads admin rows from the shared users table.
type AdminRepo struct {
	db *sql.DB
}

func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `select `+adminColumns+` from users where lower(email) = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanAdmin(row)
}

func (r *AdminRepo) GetByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `select `+adminColumns+` from users where id = $1`, adminID)
	return scanAdmin(row)
}

// RecordLogin stamps the last successful login time and client address.
func (r *AdminRepo) RecordLogin(ctx context.Context, adminID, ip string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`update users set last_login_at = $2, last_login_ip = $3, updated_at = $2 where id = $1`,
		adminID, at, nullString(ip))
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrNotFound)
}

func scanAdmin(row *sql.Row) (*domain.Admin, error) {
	var (
		a      domain.Admin
		role   string
		lastAt sql.NullTime
		lastIP sql.NullString
	)
	err := row.Scan(&a.AdminID, &a.Email, &a.PasswordHash, &role, &a.TwoFactorSecret, &a.TwoFactorEnabled, &lastAt, &lastIP)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		slog.Warn("account has unrecognised role", "user_id", a.AdminID, "role", role)
	}
	a.Role = r
	if lastAt.Valid {
		t := lastAt.Time
		a.LastLoginAt = &t
	}
	if lastIP.Valid {
		ip := lastIP.String
		a.LastLoginIP = &ip
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
