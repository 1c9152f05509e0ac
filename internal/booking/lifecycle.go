package booking

import (
	"time"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/utils"
)

// An appointment only ever moves pending -> expired. Expiry is swept lazily
// on each listing request, never by a background timer.

const rebookingValidity = 14 * 24 * time.Hour

// Overdue is the expiry predicate: the appointment's day is on or before
// today AND its start time-of-day is before the current clock time. The
// second clause applies regardless of the day, so an evening appointment from
// yesterday stays pending until the clock passes its start time today; the
// postgres sweep mirrors this exactly.
func Overdue(date time.Time, slot domain.TimeRange, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.After(today) {
		return false
	}
	return slot.StartMinutes < now.Hour()*60+now.Minute()
}

// NewRebookingCredit issues the follow-up credit for a paid booking: a fresh
// one-shot code valid from the slot's end on the appointment day for 14 days.
// Free bookings never get one, which is what stops free rebookings chaining.
func NewRebookingCredit(date time.Time, slot domain.TimeRange) domain.RebookingCredit {
	from := slot.EndAt(date)
	return domain.RebookingCredit{
		Code:       "REBOOK-" + utils.RandomCode(6),
		ValidFrom:  from,
		ValidUntil: from.Add(rebookingValidity),
	}
}
