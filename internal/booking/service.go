package booking

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/schedule"
	"github.com/kakunuriMahesh/doctor-appointments/internal/utils"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/events"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
)

const meetingLinkPlaceholder = "https://meet.google.com/xyz"

// Fallback prices when no settings row exists. The slot listing and the
// booking path have always defaulted differently; both values are part of the
// existing contract.
const (
	slotsFallbackPrice   = 1000
	bookingFallbackPrice = 1200
)

// Service is the booking use case: slot listing, appointment creation with
// code redemption, the lazy expiry sweep, and admin-facing listing/deletion.
type Service struct {
	store    Store
	bus      events.Publisher
	doctorID string
	now      func() time.Time
}

func NewService(store Store, bus events.Publisher, doctorID string) *Service {
	return &Service{store: store, bus: bus, doctorID: doctorID, now: time.Now}
}

// SlotsForDate generates the day's grid from the covering availability
// window (or the fallback plan) and drops slots already held by pending
// appointments.
func (s *Service) SlotsForDate(ctx context.Context, dateStr string) ([]schedule.SlotDTO, error) {
	date, err := parseDate(dateStr, "date")
	if err != nil {
		return nil, err
	}

	w, err := s.store.WindowForDate(ctx, s.doctorID, date)
	if err != nil {
		return nil, err
	}
	var cfg schedule.GridConfig
	if w != nil {
		cfg = schedule.FromWindow(w)
	} else {
		base := float64(slotsFallbackPrice)
		settings, err := s.store.Settings(ctx, s.doctorID)
		if err != nil {
			return nil, err
		}
		if settings != nil {
			base = settings.BasePrice
		}
		cfg = schedule.Fallback(base)
	}

	booked, err := s.store.PendingRangesByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	free := schedule.Unbooked(schedule.Generate(cfg), booked)
	out := make([]schedule.SlotDTO, 0, len(free))
	for _, sl := range free {
		out = append(out, sl.DTO())
	}
	return out, nil
}

// Book creates a pending appointment. The whole write path runs in one
// transaction: a failed redemption persists no appointment, and a failed
// persist consumes no coupon or credit.
func (s *Service) Book(ctx context.Context, req *domain.BookAppointmentReq) (*domain.Appointment, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.AppointmentDate, "appointmentDate")
	if err != nil {
		return nil, err
	}
	slot, err := domain.ParseTimeRange(req.AppointmentTime)
	if err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(req.Email)
	phone := strings.TrimSpace(req.Phone)
	now := s.now()

	var appt *domain.Appointment
	err = s.store.InTx(ctx, func(tx Store) error {
		w, err := tx.WindowForDate(ctx, s.doctorID, date)
		if err != nil {
			return err
		}
		var base float64
		if w != nil {
			// The chosen duration comes from the submitted label, so a
			// non-standard range prices by the window's per-minute rate.
			base = w.PriceFor(slot.DurationMinutes())
		} else {
			base = bookingFallbackPrice
			settings, err := tx.Settings(ctx, s.doctorID)
			if err != nil {
				return err
			}
			if settings != nil {
				base = settings.BasePrice
			}
		}

		price, err := Redeem(ctx, tx, base, req.CouponCode, email, phone, now)
		if err != nil {
			return err
		}

		a := &domain.Appointment{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			Phone:       phone,
			Email:       email,
			Date:        date,
			Slot:        slot,
			Price:       price,
			CouponCode:  strings.TrimSpace(req.CouponCode),
			MeetingLink: meetingLinkPlaceholder,
			Status:      domain.AppointmentPending,
		}
		a, err = tx.CreateAppointment(ctx, a)
		if err != nil {
			return err
		}

		if price > 0 {
			credit := NewRebookingCredit(date, slot)
			if err := tx.AttachRebookingCredit(ctx, a.ID, credit); err != nil {
				return err
			}
			a.Rebooking = &credit
		}
		appt = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishBooked(ctx, appt)
	return appt, nil
}

// ListAppointments sweeps overdue pending appointments to expired, then
// returns everything newest-first.
func (s *Service) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	now := s.now()
	swept, err := s.store.ExpireOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	if swept > 0 {
		logger.InfoContext(ctx, "expired overdue appointments", "count", swept)
		if s.bus != nil {
			ev := events.AppointmentExpiredEvent{Count: swept, SweptAt: now, DoctorID: s.doctorID}
			if err := s.bus.Publish(ctx, events.AppointmentExpired, ev); err != nil {
				logger.ErrorContext(ctx, "failed to publish expiry event", "error", err)
			}
		}
	}
	return s.store.ListAppointments(ctx)
}

// DeleteAppointments removes the given appointments and returns how many
// existed.
func (s *Service) DeleteAppointments(ctx context.Context, ids []int64) (int64, error) {
	deleted, err := s.store.DeleteAppointments(ctx, ids)
	if err != nil {
		return 0, err
	}
	if deleted > 0 && s.bus != nil {
		ev := events.AppointmentDeletedEvent{IDs: ids, DeletedAt: s.now()}
		if err := s.bus.Publish(ctx, events.AppointmentDeleted, ev); err != nil {
			logger.ErrorContext(ctx, "failed to publish delete event", "error", err)
		}
	}
	return deleted, nil
}

// BookingMessage renders the booking-volume banner when enabled, with
// "{count}" replaced by the number of appointments booked in the last 24h.
func (s *Service) BookingMessage(ctx context.Context) (string, bool, error) {
	settings, err := s.store.Settings(ctx, s.doctorID)
	if err != nil {
		return "", false, err
	}
	if settings == nil || !settings.MessageEnabled || settings.BookingMessage == "" {
		return "", false, nil
	}
	count, err := s.store.CountBookedSince(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		return "", false, err
	}
	msg := strings.ReplaceAll(settings.BookingMessage, "{count}", strconv.FormatInt(count, 10))
	return msg, true, nil
}

func (s *Service) publishBooked(ctx context.Context, a *domain.Appointment) {
	if s.bus == nil {
		return
	}
	ev := events.AppointmentBookedEvent{
		AppointmentID:   a.ID,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		AppointmentDate: a.Date.Format(domain.DateLayout),
		AppointmentTime: a.Slot.Label(),
		Price:           a.Price,
		MeetingLink:     a.MeetingLink,
		CreatedAt:       a.CreatedAt,
	}
	if a.Rebooking != nil {
		ev.RebookingCode = a.Rebooking.Code
	}
	if err := s.bus.Publish(ctx, events.AppointmentBooked, ev); err != nil {
		logger.ErrorContext(ctx, "failed to publish booked event", "error", err, "appointment_id", a.ID)
	}
}

func validateBookingRequest(req *domain.BookAppointmentReq) error {
	required := []struct{ name, value string }{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"phone", req.Phone},
		{"email", req.Email},
		{"appointmentDate", req.AppointmentDate},
		{"appointmentTime", req.AppointmentTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &domain.ValidationError{Field: f.name}
		}
	}
	if !utils.IsValidEmail(req.Email) {
		return domain.Invalid("email", "invalid email address")
	}
	return nil
}

func parseDate(s, field string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "must be YYYY-MM-DD")
	}
	return date, nil
}
