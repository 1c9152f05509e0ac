package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
)

func TestOverdue(t *testing.T) {
	slot := domain.TimeRange{StartMinutes: 10 * 60, EndMinutes: 10*60 + 30}
	day := func(d int) time.Time { return time.Date(2026, 9, d, 0, 0, 0, 0, time.Local) }

	cases := []struct {
		name string
		date time.Time
		now  time.Time
		want bool
	}{
		{"future day", day(11), time.Date(2026, 9, 10, 23, 0, 0, 0, time.Local), false},
		{"today before start", day(10), time.Date(2026, 9, 10, 9, 0, 0, 0, time.Local), false},
		{"today after start", day(10), time.Date(2026, 9, 10, 10, 1, 0, 0, time.Local), true},
		{"today at start", day(10), time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local), false},
		// The clock comparison applies on past days too: yesterday's 10:00
		// slot is not overdue at 9:00 this morning.
		{"yesterday, clock before start", day(9), time.Date(2026, 9, 10, 9, 0, 0, 0, time.Local), false},
		{"yesterday, clock after start", day(9), time.Date(2026, 9, 10, 10, 30, 0, 0, time.Local), true},
	}
	for _, c := range cases {
		if got := Overdue(c.date, slot, c.now); got != c.want {
			t.Errorf("%s: Overdue = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNewRebookingCredit(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	slot := domain.TimeRange{StartMinutes: 9 * 60, EndMinutes: 9*60 + 30}

	credit := NewRebookingCredit(date, slot)
	if !strings.HasPrefix(credit.Code, "REBOOK-") || len(credit.Code) != len("REBOOK-")+6 {
		t.Fatalf("code = %q", credit.Code)
	}
	wantFrom := time.Date(2026, 9, 10, 9, 30, 0, 0, time.Local)
	if !credit.ValidFrom.Equal(wantFrom) {
		t.Fatalf("validFrom = %v, want %v", credit.ValidFrom, wantFrom)
	}
	if !credit.ValidUntil.Equal(wantFrom.Add(14 * 24 * time.Hour)) {
		t.Fatalf("validUntil = %v", credit.ValidUntil)
	}
	if credit.Used {
		t.Fatal("new credit must be unused")
	}
}

func TestRebookingCreditCodesAreUnique(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	slot := domain.TimeRange{StartMinutes: 540, EndMinutes: 570}
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		c := NewRebookingCredit(date, slot)
		if seen[c.Code] {
			t.Fatalf("duplicate code %q", c.Code)
		}
		seen[c.Code] = true
	}
}
