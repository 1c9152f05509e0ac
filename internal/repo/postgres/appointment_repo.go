package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

type AppointmentRepo struct{ db DB }

func NewAppointmentRepo(db DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const appointmentCols = `id, first_name, last_name, phone, email,
appointment_date, start_minutes, end_minutes, price, coupon_code,
meeting_link, status,
rebooking_code, rebooking_valid_from, rebooking_valid_until, rebooking_used,
created_at`

func (r *AppointmentRepo) CreateAppointment(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	const q = `INSERT INTO appointments (
    first_name, last_name, phone, email,
    appointment_date, start_minutes, end_minutes, price, coupon_code,
    meeting_link, status
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  RETURNING ` + appointmentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, q,
		a.FirstName, a.LastName, a.Phone, a.Email,
		a.Date, a.Slot.StartMinutes, a.Slot.EndMinutes, a.Price, a.CouponCode,
		a.MeetingLink, a.Status,
	)
	out, err := scanAppointment(row)
	if err != nil {
		return nil, storeErr("appointments.create", err)
	}
	return out, nil
}

func (r *AppointmentRepo) AttachRebookingCredit(ctx context.Context, appointmentID int64, credit domain.RebookingCredit) error {
	const q = `UPDATE appointments
  SET rebooking_code=$2, rebooking_valid_from=$3, rebooking_valid_until=$4, rebooking_used=FALSE
  WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, appointmentID, credit.Code, credit.ValidFrom, credit.ValidUntil)
	if err != nil {
		return storeErr("appointments.attach_rebooking", err)
	}
	if ct.RowsAffected() == 0 {
		return storeErr("appointments.attach_rebooking", pgx.ErrNoRows)
	}
	return nil
}

// ConsumeRebookingCredit marks a live credit used. The conditional update
// means concurrent redemptions of the same code leave exactly one winner.
func (r *AppointmentRepo) ConsumeRebookingCredit(ctx context.Context, code, email, phone string, now time.Time) (bool, error) {
	const q = `UPDATE appointments SET rebooking_used=TRUE
  WHERE rebooking_code=$1 AND rebooking_used=FALSE
    AND email=$2 AND phone=$3
    AND rebooking_valid_from <= $4 AND rebooking_valid_until >= $4`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, code, email, phone, now)
	if err != nil {
		return false, storeErr("appointments.consume_rebooking", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *AppointmentRepo) PendingRangesByDate(ctx context.Context, date time.Time) ([]domain.TimeRange, error) {
	const q = `SELECT start_minutes, end_minutes FROM appointments
  WHERE appointment_date=$1 AND status='pending'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, q, date)
	if err != nil {
		return nil, storeErr("appointments.pending_ranges", err)
	}
	defer rows.Close()

	var out []domain.TimeRange
	for rows.Next() {
		var tr domain.TimeRange
		if err := rows.Scan(&tr.StartMinutes, &tr.EndMinutes); err != nil {
			return nil, storeErr("appointments.pending_ranges", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// ExpireOverdue flips pending appointments whose slot start has passed on
// today's clock. The date bound is inclusive so same-day slots expire too.
func (r *AppointmentRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE appointments SET status='expired'
  WHERE status='pending' AND appointment_date <= $1 AND start_minutes < $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nowMinutes := now.Hour()*60 + now.Minute()

	ct, err := r.db.Exec(ctx, q, today, nowMinutes)
	if err != nil {
		return 0, storeErr("appointments.expire_overdue", err)
	}
	return ct.RowsAffected(), nil
}

func (r *AppointmentRepo) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	const q = `SELECT ` + appointmentCols + ` FROM appointments ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, storeErr("appointments.list", err)
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, storeErr("appointments.list", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) DeleteAppointments(ctx context.Context, ids []int64) (int64, error) {
	const q = `DELETE FROM appointments WHERE id = ANY($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.db.Exec(ctx, q, ids)
	if err != nil {
		return 0, storeErr("appointments.delete", err)
	}
	return ct.RowsAffected(), nil
}

func (r *AppointmentRepo) CountBookedSince(ctx context.Context, since time.Time) (int64, error) {
	const q = `SELECT count(*) FROM appointments WHERE created_at >= $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	if err := r.db.QueryRow(ctx, q, since).Scan(&n); err != nil {
		return 0, storeErr("appointments.count_since", err)
	}
	return n, nil
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var (
		a          domain.Appointment
		code       *string
		validFrom  *time.Time
		validUntil *time.Time
		used       bool
	)
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Phone, &a.Email,
		&a.Date, &a.Slot.StartMinutes, &a.Slot.EndMinutes, &a.Price, &a.CouponCode,
		&a.MeetingLink, &a.Status,
		&code, &validFrom, &validUntil, &used,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if code != nil && validFrom != nil && validUntil != nil {
		a.Rebooking = &domain.RebookingCredit{
			Code:       *code,
			ValidFrom:  *validFrom,
			ValidUntil: *validUntil,
			Used:       used,
		}
	}
	return &a, nil
}
