package domain

import (
	"strconv"
	"strings"
	"time"
)

// TimeRange is a time-of-day interval in minutes from midnight. It is the
// structured form of the "H:MM - H:MM" labels exchanged on the wire; all
// slot/appointment matching happens on this form, never on the strings.
type TimeRange struct {
	StartMinutes int
	EndMinutes   int
}

func (t TimeRange) DurationMinutes() int { return t.EndMinutes - t.StartMinutes }

// Label renders the wire format. Hours are not zero-padded, minutes are:
// 09:00-09:30 renders as "9:00 - 9:30". Stored appointments and generated
// slots must agree on this rendering bit for bit.
func (t TimeRange) Label() string {
	return ClockLabel(t.StartMinutes) + " - " + ClockLabel(t.EndMinutes)
}

// ClockLabel renders minutes-from-midnight as "H:MM".
func ClockLabel(minutes int) string {
	m := minutes % 60
	label := strconv.Itoa(minutes/60) + ":"
	if m < 10 {
		label += "0"
	}
	return label + strconv.Itoa(m)
}

// ParseClock accepts "H:MM" or "HH:MM" and returns minutes from midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := splitClock(strings.TrimSpace(s))
	if !ok {
		return 0, Invalid("time", "must be HH:MM")
	}
	return h*60 + m, nil
}

// ParseTimeRange accepts "H:MM - H:MM" with the end strictly after the start.
func ParseTimeRange(label string) (TimeRange, error) {
	parts := strings.Split(label, " - ")
	if len(parts) != 2 {
		return TimeRange{}, Invalid("appointmentTime", `must be "HH:MM - HH:MM"`)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return TimeRange{}, Invalid("appointmentTime", "invalid start time")
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return TimeRange{}, Invalid("appointmentTime", "invalid end time")
	}
	if end <= start {
		return TimeRange{}, Invalid("appointmentTime", "end must be after start")
	}
	return TimeRange{StartMinutes: start, EndMinutes: end}, nil
}

func splitClock(s string) (h, m int, ok bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(s[:i])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err = strconv.Atoi(s[i+1:])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// At anchors the range's start on the given calendar day.
func (t TimeRange) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, t.StartMinutes, 0, 0, date.Location())
}

// EndAt anchors the range's end on the given calendar day.
func (t TimeRange) EndAt(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, t.EndMinutes, 0, 0, date.Location())
}
