package schedule_test

import (
	"testing"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/schedule"
)

func TestGenerateSimpleWindow(t *testing.T) {
	w := &domain.AvailabilityWindow{
		StartMinutes: 9 * 60,
		EndMinutes:   10 * 60,
		SlotDuration: 30,
		BreakDur:     0,
		PricePerSlot: 100,
	}
	slots := schedule.Generate(schedule.FromWindow(w))
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	want := []string{"9:00 - 9:30", "9:30 - 10:00"}
	for i, s := range slots {
		dto := s.DTO()
		if dto.Time != want[i] {
			t.Errorf("slot %d time = %q, want %q", i, dto.Time, want[i])
		}
		if dto.Price != 100 {
			t.Errorf("slot %d price = %v, want 100", i, dto.Price)
		}
		if dto.Duration != 30 {
			t.Errorf("slot %d duration = %v, want 30", i, dto.Duration)
		}
	}
}

func TestGenerateDropsTrailingPartialSlot(t *testing.T) {
	cfg := schedule.GridConfig{
		StartMinutes: 9 * 60,
		EndMinutes:   9*60 + 50,
		SlotDuration: 30,
		BreakDur:     0,
		Price:        100,
	}
	slots := schedule.Generate(cfg)
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1 (9:30-10:00 overruns closing)", len(slots))
	}
	if got := slots[0].Range.Label(); got != "9:00 - 9:30" {
		t.Fatalf("slot = %q", got)
	}
}

func TestGenerateStepsOverBreaks(t *testing.T) {
	cfg := schedule.GridConfig{
		StartMinutes: 9 * 60,
		EndMinutes:   11 * 60,
		SlotDuration: 45,
		BreakDur:     15,
		Price:        50,
	}
	slots := schedule.Generate(cfg)
	want := []string{"9:00 - 9:45", "10:00 - 10:45"}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(slots), len(want))
	}
	for i, s := range slots {
		if got := s.Range.Label(); got != want[i] {
			t.Errorf("slot %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestFallbackGrid(t *testing.T) {
	slots := schedule.Generate(schedule.Fallback(1000))
	// 09:00-17:00 with 45+15 minute steps: starts on each hour 9..16.
	if len(slots) != 8 {
		t.Fatalf("got %d slots, want 8", len(slots))
	}
	if got := slots[0].Range.Label(); got != "9:00 - 9:45" {
		t.Fatalf("first slot = %q", got)
	}
	if got := slots[7].Range.Label(); got != "16:00 - 16:45" {
		t.Fatalf("last slot = %q", got)
	}
	for _, s := range slots {
		if s.Price != 1000 {
			t.Fatalf("flat price = %v, want 1000", s.Price)
		}
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	if got := schedule.Generate(schedule.GridConfig{SlotDuration: 0}); got != nil {
		t.Fatalf("zero duration produced %v", got)
	}
	if got := schedule.Generate(schedule.GridConfig{SlotDuration: 30, BreakDur: -1}); got != nil {
		t.Fatalf("negative break produced %v", got)
	}
}
