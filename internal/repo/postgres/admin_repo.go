package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

type AdminRepo struct{ db DB }

func NewAdminRepo(db DB) *AdminRepo { return &AdminRepo{db: db} }

const adminCols = `id, email, password_hash, reset_token, reset_token_expiry, created_at`

func (r *AdminRepo) CreateAdmin(ctx context.Context, email, passwordHash string) (*domain.Admin, error) {
	const q = `INSERT INTO admins (email, password_hash) VALUES ($1,$2)
  RETURNING ` + adminCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanAdmin(r.db.QueryRow(ctx, q, email, passwordHash))
	if err != nil {
		return nil, storeErr("admins.create", err)
	}
	return a, nil
}

func (r *AdminRepo) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a, err := scanAdmin(r.db.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("admins.find_by_email", err)
	}
	return a, nil
}

func (r *AdminRepo) SetResetToken(ctx context.Context, email, token string, expiry time.Time) (bool, error) {
	const q = `UPDATE admins SET reset_token=$2, reset_token_expiry=$3 WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, email, token, expiry)
	if err != nil {
		return false, storeErr("admins.set_reset_token", err)
	}
	return ct.RowsAffected() > 0, nil
}

// ResetPassword swaps the hash and clears the token in one statement, so a
// token can only be spent once even under concurrent resets.
func (r *AdminRepo) ResetPassword(ctx context.Context, email, token, newHash string, now time.Time) (bool, error) {
	const q = `UPDATE admins
  SET password_hash=$3, reset_token=NULL, reset_token_expiry=NULL
  WHERE email=$1 AND reset_token=$2 AND reset_token_expiry > $4`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, email, token, newHash, now)
	if err != nil {
		return false, storeErr("admins.reset_password", err)
	}
	return ct.RowsAffected() > 0, nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.ResetToken, &a.ResetTokenExpiry, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
