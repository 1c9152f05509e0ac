package booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

// fakeStore is an in-memory Store. Credential consumption mimics the
// conditional updates: one winner per code.
type fakeStore struct {
	window   *domain.AvailabilityWindow
	settings *domain.DoctorSettings
	coupons  map[string]*domain.Coupon
	pending  []domain.TimeRange

	appts  []domain.Appointment
	nextID int64

	expireCount int64
	booked24h   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{coupons: make(map[string]*domain.Coupon), nextID: 1}
}

func (f *fakeStore) WindowForDate(_ context.Context, _ string, date time.Time) (*domain.AvailabilityWindow, error) {
	if f.window != nil && f.window.Covers(date) {
		return f.window, nil
	}
	return nil, nil
}

func (f *fakeStore) Settings(context.Context, string) (*domain.DoctorSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) PendingRangesByDate(context.Context, time.Time) ([]domain.TimeRange, error) {
	return f.pending, nil
}

func (f *fakeStore) ConsumeCoupon(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok || c.IsUsed {
		return nil, nil
	}
	c.IsUsed = true
	return c, nil
}

func (f *fakeStore) ConsumeRebookingCredit(_ context.Context, code, email, phone string, now time.Time) (bool, error) {
	for i := range f.appts {
		a := &f.appts[i]
		if a.Rebooking == nil || a.Rebooking.Used || a.Rebooking.Code != code {
			continue
		}
		if a.Email != email || a.Phone != phone {
			continue
		}
		if now.Before(a.Rebooking.ValidFrom) || now.After(a.Rebooking.ValidUntil) {
			continue
		}
		a.Rebooking.Used = true
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	saved := *a
	saved.ID = f.nextID
	saved.CreatedAt = time.Now()
	f.nextID++
	f.appts = append(f.appts, saved)
	return &saved, nil
}

func (f *fakeStore) AttachRebookingCredit(_ context.Context, id int64, credit domain.RebookingCredit) error {
	for i := range f.appts {
		if f.appts[i].ID == id {
			c := credit
			f.appts[i].Rebooking = &c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for i := range f.appts {
		a := &f.appts[i]
		if a.Status == domain.AppointmentPending && Overdue(a.Date, a.Slot, now) {
			a.Status = domain.AppointmentExpired
			n++
		}
	}
	f.expireCount = n
	return n, nil
}

func (f *fakeStore) ListAppointments(context.Context) ([]domain.Appointment, error) {
	out := make([]domain.Appointment, len(f.appts))
	copy(out, f.appts)
	return out, nil
}

func (f *fakeStore) DeleteAppointments(_ context.Context, ids []int64) (int64, error) {
	var kept []domain.Appointment
	var deleted int64
	for _, a := range f.appts {
		drop := false
		for _, id := range ids {
			if a.ID == id {
				drop = true
				break
			}
		}
		if drop {
			deleted++
		} else {
			kept = append(kept, a)
		}
	}
	f.appts = kept
	return deleted, nil
}

func (f *fakeStore) CountBookedSince(context.Context, time.Time) (int64, error) {
	return f.booked24h, nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error { return fn(f) }

func testService(store *fakeStore, now time.Time) *Service {
	svc := NewService(store, nil, domain.DefaultDoctorID)
	svc.now = func() time.Time { return now }
	return svc
}

func validReq() *domain.BookAppointmentReq {
	return &domain.BookAppointmentReq{
		FirstName:       "Asha",
		LastName:        "Rao",
		Phone:           "+15550001111",
		Email:           "asha@example.com",
		AppointmentDate: "2026-09-10",
		AppointmentTime: "9:00 - 9:30",
	}
}

func testWindow() *domain.AvailabilityWindow {
	return &domain.AvailabilityWindow{
		DoctorID:     domain.DefaultDoctorID,
		FromDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local),
		ToDate:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.Local),
		StartMinutes: 9 * 60,
		EndMinutes:   12 * 60,
		SlotDuration: 30,
		BreakDur:     0,
		PricePerSlot: 200,
	}
}

func TestBookPricesFromWindow(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	svc := testService(store, time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local))

	appt, err := svc.Book(context.Background(), validReq())
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Price != 200 {
		t.Fatalf("price = %v, want 200", appt.Price)
	}
	if appt.Status != domain.AppointmentPending {
		t.Fatalf("status = %q", appt.Status)
	}
	if appt.MeetingLink == "" {
		t.Fatal("meeting link not set")
	}
	if appt.Rebooking == nil {
		t.Fatal("paid booking must carry a rebooking credit")
	}
	if !strings.HasPrefix(appt.Rebooking.Code, "REBOOK-") {
		t.Fatalf("credit code = %q", appt.Rebooking.Code)
	}
	wantFrom := time.Date(2026, 9, 10, 9, 30, 0, 0, time.Local)
	if !appt.Rebooking.ValidFrom.Equal(wantFrom) {
		t.Fatalf("credit validFrom = %v, want %v", appt.Rebooking.ValidFrom, wantFrom)
	}
	if !appt.Rebooking.ValidUntil.Equal(wantFrom.Add(14 * 24 * time.Hour)) {
		t.Fatalf("credit validUntil = %v", appt.Rebooking.ValidUntil)
	}
}

func TestBookAppliesCoupon(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	store.coupons["DISCOUNT20-ABC123"] = &domain.Coupon{Code: "DISCOUNT20-ABC123", DiscountPercentage: 20}
	svc := testService(store, time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local))

	req := validReq()
	req.CouponCode = "DISCOUNT20-ABC123"
	appt, err := svc.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Price != 160 {
		t.Fatalf("price = %v, want 160", appt.Price)
	}
	if !store.coupons["DISCOUNT20-ABC123"].IsUsed {
		t.Fatal("coupon not consumed")
	}
	if appt.Rebooking == nil {
		t.Fatal("discounted but still paid booking must carry a credit")
	}
}

func TestBookCouponIsOneShot(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	store.coupons["DISCOUNT20-ABC123"] = &domain.Coupon{Code: "DISCOUNT20-ABC123", DiscountPercentage: 20}
	svc := testService(store, time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local))

	req := validReq()
	req.CouponCode = "DISCOUNT20-ABC123"
	if _, err := svc.Book(context.Background(), req); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := validReq()
	second.AppointmentTime = "10:00 - 10:30"
	second.CouponCode = "DISCOUNT20-ABC123"
	if _, err := svc.Book(context.Background(), second); err != domain.ErrInvalidCode {
		t.Fatalf("second redemption err = %v, want ErrInvalidCode", err)
	}
}

func TestBookWithRebookingCreditIsFree(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	svc := testService(store, now)

	first, err := svc.Book(context.Background(), validReq())
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Rebook inside the credit's validity window.
	later := first.Rebooking.ValidFrom.Add(time.Hour)
	svc = testService(store, later)

	req := validReq()
	req.AppointmentDate = "2026-09-15"
	req.AppointmentTime = "10:00 - 10:30"
	req.CouponCode = first.Rebooking.Code
	appt, err := svc.Book(context.Background(), req)
	if err != nil {
		t.Fatalf("rebooking: %v", err)
	}
	if appt.Price != 0 {
		t.Fatalf("rebooked price = %v, want 0", appt.Price)
	}
	if appt.Rebooking != nil {
		t.Fatal("free booking must not issue a new credit")
	}
}

func TestBookRebookingCreditRequiresIdentity(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
	svc := testService(store, now)

	first, err := svc.Book(context.Background(), validReq())
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	svc = testService(store, first.Rebooking.ValidFrom.Add(time.Hour))
	req := validReq()
	req.Email = "someone.else@example.com"
	req.AppointmentDate = "2026-09-15"
	req.CouponCode = first.Rebooking.Code
	if _, err := svc.Book(context.Background(), req); err != domain.ErrInvalidCode {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestBookInvalidCode(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	svc := testService(store, time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local))

	req := validReq()
	req.CouponCode = "NOSUCHCODE"
	if _, err := svc.Book(context.Background(), req); err != domain.ErrInvalidCode {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
	if len(store.appts) != 0 {
		t.Fatal("failed redemption must not persist an appointment")
	}
}

func TestBookValidatesRequiredFields(t *testing.T) {
	store := newFakeStore()
	svc := testService(store, time.Now())

	req := validReq()
	req.FirstName = "  "
	_, err := svc.Book(context.Background(), req)
	verr, ok := err.(*domain.ValidationError)
	if !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Field != "firstName" {
		t.Fatalf("field = %q, want firstName", verr.Field)
	}
}

func TestBookFallbackPriceWithoutWindowOrSettings(t *testing.T) {
	store := newFakeStore()
	svc := testService(store, time.Now())

	appt, err := svc.Book(context.Background(), validReq())
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Price != 1200 {
		t.Fatalf("price = %v, want booking fallback 1200", appt.Price)
	}
}

func TestSlotsForDateFiltersPending(t *testing.T) {
	store := newFakeStore()
	store.window = testWindow()
	store.pending = []domain.TimeRange{{StartMinutes: 9 * 60, EndMinutes: 9*60 + 30}}
	svc := testService(store, time.Now())

	slots, err := svc.SlotsForDate(context.Background(), "2026-09-10")
	if err != nil {
		t.Fatalf("SlotsForDate: %v", err)
	}
	// Window 9:00-12:00 with 30-minute slots is 6 slots, one booked.
	if len(slots) != 5 {
		t.Fatalf("got %d slots, want 5", len(slots))
	}
	for _, s := range slots {
		if s.Time == "9:00 - 9:30" {
			t.Fatal("booked slot still offered")
		}
	}
}

func TestSlotsForDateFallbackUsesSettingsPrice(t *testing.T) {
	store := newFakeStore()
	store.settings = &domain.DoctorSettings{DoctorID: domain.DefaultDoctorID, BasePrice: 750}
	svc := testService(store, time.Now())

	slots, err := svc.SlotsForDate(context.Background(), "2026-09-10")
	if err != nil {
		t.Fatalf("SlotsForDate: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	if slots[0].Price != 750 {
		t.Fatalf("price = %v, want 750", slots[0].Price)
	}
}

func TestListAppointmentsSweepsOverdue(t *testing.T) {
	store := newFakeStore()
	store.appts = []domain.Appointment{
		{
			ID:     1,
			Date:   time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local),
			Slot:   domain.TimeRange{StartMinutes: 9 * 60, EndMinutes: 9*60 + 30},
			Status: domain.AppointmentPending,
		},
		{
			ID:     2,
			Date:   time.Date(2026, 9, 20, 0, 0, 0, 0, time.Local),
			Slot:   domain.TimeRange{StartMinutes: 9 * 60, EndMinutes: 9*60 + 30},
			Status: domain.AppointmentPending,
		},
	}
	store.nextID = 3
	svc := testService(store, time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local))

	appts, err := svc.ListAppointments(context.Background())
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if appts[0].Status != domain.AppointmentExpired {
		t.Fatalf("past appointment status = %q, want expired", appts[0].Status)
	}
	if appts[1].Status != domain.AppointmentPending {
		t.Fatalf("future appointment status = %q, want pending", appts[1].Status)
	}
}

func TestBookingMessageReplacesCount(t *testing.T) {
	store := newFakeStore()
	store.settings = &domain.DoctorSettings{
		DoctorID:       domain.DefaultDoctorID,
		BookingMessage: "{count} appointments booked in the last day",
		MessageEnabled: true,
	}
	store.booked24h = 7
	svc := testService(store, time.Now())

	msg, enabled, err := svc.BookingMessage(context.Background())
	if err != nil {
		t.Fatalf("BookingMessage: %v", err)
	}
	if !enabled {
		t.Fatal("message should be enabled")
	}
	if msg != "7 appointments booked in the last day" {
		t.Fatalf("msg = %q", msg)
	}
}

func TestBookingMessageDisabled(t *testing.T) {
	store := newFakeStore()
	svc := testService(store, time.Now())

	_, enabled, err := svc.BookingMessage(context.Background())
	if err != nil {
		t.Fatalf("BookingMessage: %v", err)
	}
	if enabled {
		t.Fatal("no settings row must read as disabled")
	}
}

func TestDeleteAppointments(t *testing.T) {
	store := newFakeStore()
	store.appts = []domain.Appointment{{ID: 1}, {ID: 2}}
	store.nextID = 3
	svc := testService(store, time.Now())

	deleted, err := svc.DeleteAppointments(context.Background(), []int64{1, 99})
	if err != nil {
		t.Fatalf("DeleteAppointments: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	if len(store.appts) != 1 || store.appts[0].ID != 2 {
		t.Fatalf("remaining = %+v", store.appts)
	}
}
