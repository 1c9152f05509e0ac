// Package schedule generates and filters bookable time slots. Everything in
// this package is pure: callers load the availability configuration and the
// day's bookings, this package does the arithmetic.
package schedule

import "github.com/kakunuriMahesh/doctor-appointments/internal/domain"

// Slot is a candidate bookable interval with its price.
type Slot struct {
	Range    domain.TimeRange
	Duration int // minutes
	Price    float64
}

// SlotDTO is the wire shape: {"time":"9:00 - 9:30","duration":30,"price":100}.
type SlotDTO struct {
	Time     string  `json:"time"`
	Duration int     `json:"duration"`
	Price    float64 `json:"price"`
}

func (s Slot) DTO() SlotDTO {
	return SlotDTO{Time: s.Range.Label(), Duration: s.Duration, Price: s.Price}
}

// GridConfig is the day plan a grid is generated from. For a configured
// window the slot price is the window's per-minute rate times the slot
// duration, which reduces to PricePerSlot; the fallback day plan carries a
// flat price instead (FlatPrice true) that ignores duration entirely.
type GridConfig struct {
	StartMinutes int
	EndMinutes   int
	SlotDuration int
	BreakDur     int
	Price        float64
	FlatPrice    bool
}

// Fallback is the day plan used when no availability window covers the date:
// 09:00-17:00, 45-minute slots with 15-minute breaks, flat base price.
func Fallback(basePrice float64) GridConfig {
	return GridConfig{
		StartMinutes: 9 * 60,
		EndMinutes:   17 * 60,
		SlotDuration: 45,
		BreakDur:     15,
		Price:        basePrice,
		FlatPrice:    true,
	}
}

// FromWindow builds the day plan for a configured availability window.
func FromWindow(w *domain.AvailabilityWindow) GridConfig {
	return GridConfig{
		StartMinutes: w.StartMinutes,
		EndMinutes:   w.EndMinutes,
		SlotDuration: w.SlotDuration,
		BreakDur:     w.BreakDur,
		Price:        w.PriceFor(w.SlotDuration),
	}
}

// Generate walks the day from start to end in steps of slot+break and emits
// every slot that still ends on or before closing time. A trailing partial
// slot is dropped, not shortened; the leftover minutes go unused. The result
// is ordered by start time.
func Generate(cfg GridConfig) []Slot {
	if cfg.SlotDuration <= 0 || cfg.BreakDur < 0 {
		return nil
	}
	var slots []Slot
	for cur := cfg.StartMinutes; cur < cfg.EndMinutes; cur += cfg.SlotDuration + cfg.BreakDur {
		end := cur + cfg.SlotDuration
		if end > cfg.EndMinutes {
			continue
		}
		slots = append(slots, Slot{
			Range:    domain.TimeRange{StartMinutes: cur, EndMinutes: end},
			Duration: cfg.SlotDuration,
			Price:    cfg.Price,
		})
	}
	return slots
}
