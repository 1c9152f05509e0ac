package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/booking"
	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/http/response"
	"github.com/kakunuriMahesh/doctor-appointments/pkg/logger"
)

type AppointmentsHandler struct {
	Svc *booking.Service
}

func NewAppointmentsHandler(svc *booking.Service) *AppointmentsHandler {
	return &AppointmentsHandler{Svc: svc}
}

// RegisterPublic mounts the endpoints the booking page calls without a token.
func (h *AppointmentsHandler) RegisterPublic(r chi.Router) {
	r.Get("/slots/{date}", h.slots)
	r.Get("/booking-message", h.bookingMessage)
}

// RegisterProtected mounts the JWT-guarded endpoints. idem guards the
// booking POST against client retries.
func (h *AppointmentsHandler) RegisterProtected(r chi.Router, idem func(http.Handler) http.Handler) {
	r.With(idem).Post("/appointment", h.book)
	r.Get("/appointments", h.list)
	r.Delete("/appointment", h.delete)
}

func (h *AppointmentsHandler) slots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Svc.SlotsForDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeBookingError(w, r, err, "Failed to fetch slots")
		return
	}
	response.JSON(w, http.StatusOK, slots)
}

func (h *AppointmentsHandler) bookingMessage(w http.ResponseWriter, r *http.Request) {
	msg, enabled, err := h.Svc.BookingMessage(r.Context())
	if err != nil {
		writeBookingError(w, r, err, "Failed to fetch booking message")
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"enabled": enabled,
	})
}

func (h *AppointmentsHandler) book(w http.ResponseWriter, r *http.Request) {
	var req domain.BookAppointmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	appt, err := h.Svc.Book(r.Context(), &req)
	if err != nil {
		writeBookingError(w, r, err, "Failed to book appointment")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"message":     "Appointment booked",
		"appointment": appt.DTO(),
	})
}

func (h *AppointmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	appts, err := h.Svc.ListAppointments(r.Context())
	if err != nil {
		writeBookingError(w, r, err, "Failed to fetch appointments")
		return
	}
	out := make([]domain.AppointmentDTO, 0, len(appts))
	for i := range appts {
		out = append(out, appts[i].DTO())
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *AppointmentsHandler) delete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.IDs) == 0 {
		response.BadRequest(w, "ids are required")
		return
	}

	deleted, err := h.Svc.DeleteAppointments(r.Context(), in.IDs)
	if err != nil {
		writeBookingError(w, r, err, "Failed to delete appointments")
		return
	}
	if deleted == 0 {
		response.NotFound(w, "No appointments found to delete")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Appointment(s) deleted"})
}

// writeBookingError maps service errors onto the shared envelope: validation
// to 400, bad codes to 400 with their historical message, the rest to 500.
func writeBookingError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Error())
	case errors.Is(err, domain.ErrInvalidCode):
		response.WriteError(w, http.StatusBadRequest,
			"Invalid or expired re-booking code, or re-booking not yet valid", response.CodeInvalidCode)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, fallback)
	default:
		logger.ErrorContext(r.Context(), "request failed", "error", err)
		response.InternalError(w, fallback)
	}
}
