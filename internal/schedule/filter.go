package schedule

import "github.com/kakunuriMahesh/doctor-appointments/internal/domain"

// Unbooked removes every slot already taken by a pending appointment on the
// same date. Matching is on the structured time range, so a slot is blocked
// exactly when an appointment occupies the same start and end minutes;
// expired appointments never block a slot (callers pass pending ones only).
func Unbooked(slots []Slot, booked []domain.TimeRange) []Slot {
	if len(booked) == 0 {
		return slots
	}
	taken := make(map[domain.TimeRange]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}
	free := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if _, ok := taken[s.Range]; ok {
			continue
		}
		free = append(free, s)
	}
	return free
}
