package domain_test

import (
	"testing"
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

func TestClockLabel(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{9 * 60, "9:00"},
		{9*60 + 5, "9:05"},
		{13*60 + 30, "13:30"},
		{0, "0:00"},
	}
	for _, c := range cases {
		if got := domain.ClockLabel(c.minutes); got != c.want {
			t.Errorf("ClockLabel(%d) = %q, want %q", c.minutes, got, c.want)
		}
	}
}

func TestLabelHourNotZeroPadded(t *testing.T) {
	tr := domain.TimeRange{StartMinutes: 9 * 60, EndMinutes: 9*60 + 30}
	if got := tr.Label(); got != "9:00 - 9:30" {
		t.Fatalf("Label() = %q, want %q", got, "9:00 - 9:30")
	}
}

func TestParseTimeRangeRoundTrip(t *testing.T) {
	tr, err := domain.ParseTimeRange("9:00 - 9:30")
	if err != nil {
		t.Fatalf("ParseTimeRange: %v", err)
	}
	if tr.StartMinutes != 540 || tr.EndMinutes != 570 {
		t.Fatalf("got %+v, want 540..570", tr)
	}
	if tr.Label() != "9:00 - 9:30" {
		t.Fatalf("round trip label = %q", tr.Label())
	}
	if tr.DurationMinutes() != 30 {
		t.Fatalf("duration = %d, want 30", tr.DurationMinutes())
	}
}

func TestParseTimeRangeAcceptsPaddedHours(t *testing.T) {
	padded, err := domain.ParseTimeRange("09:00 - 09:30")
	if err != nil {
		t.Fatalf("ParseTimeRange: %v", err)
	}
	plain, _ := domain.ParseTimeRange("9:00 - 9:30")
	if padded != plain {
		t.Fatalf("padded %+v != plain %+v", padded, plain)
	}
}

func TestParseTimeRangeRejectsBadInput(t *testing.T) {
	for _, s := range []string{"", "9:00", "9:00-9:30", "9:30 - 9:00", "9:00 - 9:00", "24:00 - 25:00", "abc - def"} {
		if _, err := domain.ParseTimeRange(s); err == nil {
			t.Errorf("ParseTimeRange(%q) accepted", s)
		}
	}
}

func TestEndAtAnchorsOnDate(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	tr := domain.TimeRange{StartMinutes: 10 * 60, EndMinutes: 10*60 + 45}
	end := tr.EndAt(date)
	if end.Hour() != 10 || end.Minute() != 45 || end.Day() != 10 {
		t.Fatalf("EndAt = %v", end)
	}
}

func TestWindowPriceScalesWithDuration(t *testing.T) {
	w := domain.AvailabilityWindow{SlotDuration: 30, PricePerSlot: 100}
	if got := w.PriceFor(30); got != 100 {
		t.Fatalf("PriceFor(30) = %v, want 100", got)
	}
	if got := w.PriceFor(60); got != 200 {
		t.Fatalf("PriceFor(60) = %v, want 200", got)
	}
}

func TestCouponDiscounted(t *testing.T) {
	c := domain.Coupon{DiscountPercentage: 20}
	if got := c.Discounted(200); got != 160 {
		t.Fatalf("Discounted(200) = %v, want 160", got)
	}
}
