package domain

import "time"

// DefaultDoctorID is the provider identity of this single-tenant deployment.
// Kept as a configuration value so a second tenant is a config change, not a
// schema change.
const DefaultDoctorID = "doctor1"

// AvailabilityWindow configures the bookable day for an inclusive date range.
// Ranges for the same doctor must not overlap.
type AvailabilityWindow struct {
	ID       int64
	DoctorID string

	FromDate time.Time // inclusive, local midnight
	ToDate   time.Time // inclusive, local midnight

	StartMinutes int // daily opening, minutes from midnight
	EndMinutes   int // daily closing
	SlotDuration int // minutes, > 0
	BreakDur     int // minutes between slots, >= 0

	PricePerSlot float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether the window's date range includes the given day.
func (w *AvailabilityWindow) Covers(date time.Time) bool {
	return !date.Before(w.FromDate) && !date.After(w.ToDate)
}

// PriceFor scales the per-slot price to an arbitrary duration using the
// window's per-minute rate. For a standard slot this reduces to PricePerSlot;
// it diverges only when a booking carries a non-standard time range.
func (w *AvailabilityWindow) PriceFor(durationMinutes int) float64 {
	return w.PricePerSlot / float64(w.SlotDuration) * float64(durationMinutes)
}

type AvailabilityDTO struct {
	ID            int64   `json:"id"`
	DoctorID      string  `json:"doctorId"`
	FromDate      string  `json:"fromDate"`
	ToDate        string  `json:"toDate"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	SlotDuration  int     `json:"slotDuration"`
	BreakDuration int     `json:"breakDuration"`
	PricePerSlot  float64 `json:"pricePerSlot"`
}

func (w *AvailabilityWindow) DTO() AvailabilityDTO {
	return AvailabilityDTO{
		ID:            w.ID,
		DoctorID:      w.DoctorID,
		FromDate:      w.FromDate.Format(DateLayout),
		ToDate:        w.ToDate.Format(DateLayout),
		StartTime:     ClockLabel(w.StartMinutes),
		EndTime:       ClockLabel(w.EndMinutes),
		SlotDuration:  w.SlotDuration,
		BreakDuration: w.BreakDur,
		PricePerSlot:  w.PricePerSlot,
	}
}

// DoctorSettings carries the flat fallback price used outside any
// availability window, plus the optional booking-volume banner.
type DoctorSettings struct {
	DoctorID       string  `json:"doctorId"`
	BasePrice      float64 `json:"basePrice"`
	BookingMessage string  `json:"bookingMessage"`
	MessageEnabled bool    `json:"isMessageEnabled"`
}
