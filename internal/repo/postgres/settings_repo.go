package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

type SettingsRepo struct{ db DB }

func NewSettingsRepo(db DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Settings returns the doctor's stored settings, or nil when nothing has
// been configured yet. Callers apply their own defaults.
func (r *SettingsRepo) Settings(ctx context.Context, doctorID string) (*domain.DoctorSettings, error) {
	const q = `SELECT doctor_id, base_price, booking_message, is_message_enabled
  FROM doctor_settings WHERE doctor_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.DoctorSettings
	err := r.db.QueryRow(ctx, q, doctorID).Scan(
		&s.DoctorID, &s.BasePrice, &s.BookingMessage, &s.MessageEnabled,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("settings.get", err)
	}
	return &s, nil
}

func (r *SettingsRepo) UpsertBasePrice(ctx context.Context, doctorID string, basePrice float64) error {
	const q = `INSERT INTO doctor_settings (doctor_id, base_price)
  VALUES ($1,$2)
  ON CONFLICT (doctor_id) DO UPDATE SET base_price=$2, updated_at=now()`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.Exec(ctx, q, doctorID, basePrice); err != nil {
		return storeErr("settings.upsert_price", err)
	}
	return nil
}

func (r *SettingsRepo) UpsertMessage(ctx context.Context, doctorID, message string, enabled bool) error {
	const q = `INSERT INTO doctor_settings (doctor_id, booking_message, is_message_enabled)
  VALUES ($1,$2,$3)
  ON CONFLICT (doctor_id) DO UPDATE SET booking_message=$2, is_message_enabled=$3, updated_at=now()`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.Exec(ctx, q, doctorID, message, enabled); err != nil {
		return storeErr("settings.upsert_message", err)
	}
	return nil
}
