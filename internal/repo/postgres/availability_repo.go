package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

type AvailabilityRepo struct{ db DB }

func NewAvailabilityRepo(db DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

const availabilityCols = `id, doctor_id, from_date, to_date,
start_minutes, end_minutes, slot_duration, break_duration, price_per_slot,
created_at, updated_at`

func (r *AvailabilityRepo) CreateWindow(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	const q = `INSERT INTO availability (
    doctor_id, from_date, to_date,
    start_minutes, end_minutes, slot_duration, break_duration, price_per_slot
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  RETURNING ` + availabilityCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, q,
		w.DoctorID, w.FromDate, w.ToDate,
		w.StartMinutes, w.EndMinutes, w.SlotDuration, w.BreakDur, w.PricePerSlot,
	)
	out, err := scanWindow(row)
	if err != nil {
		return nil, storeErr("availability.create", err)
	}
	return out, nil
}

// WindowForDate returns the window covering the given day, or nil when the
// day falls outside every configured range.
func (r *AvailabilityRepo) WindowForDate(ctx context.Context, doctorID string, date time.Time) (*domain.AvailabilityWindow, error) {
	const q = `SELECT ` + availabilityCols + ` FROM availability
  WHERE doctor_id=$1 AND from_date <= $2 AND to_date >= $2
  ORDER BY from_date LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	w, err := scanWindow(r.db.QueryRow(ctx, q, doctorID, date))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("availability.window_for_date", err)
	}
	return w, nil
}

// OverlappingWindow returns any window whose date range intersects
// [from, to], or nil when the range is free.
func (r *AvailabilityRepo) OverlappingWindow(ctx context.Context, doctorID string, from, to time.Time) (*domain.AvailabilityWindow, error) {
	const q = `SELECT ` + availabilityCols + ` FROM availability
  WHERE doctor_id=$1 AND from_date <= $3 AND to_date >= $2
  LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	w, err := scanWindow(r.db.QueryRow(ctx, q, doctorID, from, to))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("availability.overlapping", err)
	}
	return w, nil
}

func (r *AvailabilityRepo) ListWindows(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error) {
	const q = `SELECT ` + availabilityCols + ` FROM availability
  WHERE doctor_id=$1 ORDER BY from_date`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, q, doctorID)
	if err != nil {
		return nil, storeErr("availability.list", err)
	}
	defer rows.Close()

	var out []domain.AvailabilityWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, storeErr("availability.list", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func (r *AvailabilityRepo) DeleteWindow(ctx context.Context, doctorID string, id int64) (bool, error) {
	const q = `DELETE FROM availability WHERE doctor_id=$1 AND id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, doctorID, id)
	if err != nil {
		return false, storeErr("availability.delete", err)
	}
	return ct.RowsAffected() > 0, nil
}

func scanWindow(row pgx.Row) (*domain.AvailabilityWindow, error) {
	var w domain.AvailabilityWindow
	err := row.Scan(
		&w.ID, &w.DoctorID, &w.FromDate, &w.ToDate,
		&w.StartMinutes, &w.EndMinutes, &w.SlotDuration, &w.BreakDur, &w.PricePerSlot,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
