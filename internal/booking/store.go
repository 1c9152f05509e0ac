package booking

import (
	"context"
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

// Store is the persistence surface the booking flow depends on. Credential
// consumption (ConsumeCoupon, ConsumeRebookingCredit) must be a conditional
// atomic update on the used flag so that exactly one of any number of
// concurrent callers redeeming the same code succeeds.
type Store interface {
	// WindowForDate returns the availability window covering the date for
	// the doctor, or nil when none does.
	WindowForDate(ctx context.Context, doctorID string, date time.Time) (*domain.AvailabilityWindow, error)
	// Settings returns the doctor's settings row, or nil when absent.
	Settings(ctx context.Context, doctorID string) (*domain.DoctorSettings, error)
	// PendingRangesByDate returns the time ranges of all pending
	// appointments on the date.
	PendingRangesByDate(ctx context.Context, date time.Time) ([]domain.TimeRange, error)

	// ConsumeCoupon marks the unused coupon with this code used and returns
	// it, or nil when no unused coupon matches.
	ConsumeCoupon(ctx context.Context, code string) (*domain.Coupon, error)
	// ConsumeRebookingCredit marks the credit used when code, booker
	// identity, and validity window all match an unused credit.
	ConsumeRebookingCredit(ctx context.Context, code, email, phone string, now time.Time) (bool, error)

	CreateAppointment(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	AttachRebookingCredit(ctx context.Context, appointmentID int64, credit domain.RebookingCredit) error

	// ExpireOverdue flips every pending appointment satisfying Overdue to
	// expired and returns how many it touched.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	DeleteAppointments(ctx context.Context, ids []int64) (int64, error)
	CountBookedSince(ctx context.Context, since time.Time) (int64, error)

	// InTx runs fn against a transactional view of the store; fn's writes
	// commit together or not at all.
	InTx(ctx context.Context, fn func(Store) error) error
}
