package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending AppointmentStatus = "pending"
	AppointmentExpired AppointmentStatus = "expired"
)

// RebookingCredit is a one-shot free-booking entitlement attached to a paid
// appointment. It is bound to the booker's email+phone and a validity window.
type RebookingCredit struct {
	Code       string
	ValidFrom  time.Time
	ValidUntil time.Time
	Used       bool
}

type Appointment struct {
	ID        int64
	FirstName string
	LastName  string
	Phone     string
	Email     string

	Date time.Time // calendar day of the appointment, local midnight
	Slot TimeRange

	Price       float64
	CouponCode  string
	MeetingLink string
	Status      AppointmentStatus

	Rebooking *RebookingCredit

	CreatedAt time.Time
}

const DateLayout = "2006-01-02"

// BookAppointmentReq is the booking request body. Field names follow the
// existing client contract (camelCase).
type BookAppointmentReq struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	CouponCode      string `json:"couponCode,omitempty"`
}

type AppointmentDTO struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	AppointmentDate string  `json:"appointmentDate"`
	AppointmentTime string  `json:"appointmentTime"`
	Price           float64 `json:"price"`
	CouponCode      string  `json:"couponCode,omitempty"`
	MeetingLink     string  `json:"meetingLink"`
	Status          string  `json:"status"`

	RebookingCode       string     `json:"rebookingCode,omitempty"`
	RebookingValidFrom  *time.Time `json:"rebookingValidFrom,omitempty"`
	RebookingValidUntil *time.Time `json:"rebookingValidUntil,omitempty"`
	RebookingUsed       bool       `json:"rebookingUsed"`

	CreatedAt time.Time `json:"createdAt"`
}

func (a *Appointment) DTO() AppointmentDTO {
	dto := AppointmentDTO{
		ID:              a.ID,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Phone:           a.Phone,
		Email:           a.Email,
		AppointmentDate: a.Date.Format(DateLayout),
		AppointmentTime: a.Slot.Label(),
		Price:           a.Price,
		CouponCode:      a.CouponCode,
		MeetingLink:     a.MeetingLink,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
	if a.Rebooking != nil {
		dto.RebookingCode = a.Rebooking.Code
		from, until := a.Rebooking.ValidFrom, a.Rebooking.ValidUntil
		dto.RebookingValidFrom = &from
		dto.RebookingValidUntil = &until
		dto.RebookingUsed = a.Rebooking.Used
	}
	return dto
}
