package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/http/response"
)

type AvailabilityStore interface {
	CreateWindow(ctx context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	OverlappingWindow(ctx context.Context, doctorID string, from, to time.Time) (*domain.AvailabilityWindow, error)
	ListWindows(ctx context.Context, doctorID string) ([]domain.AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, doctorID string, id int64) (bool, error)
}

type AvailabilityHandler struct {
	Store    AvailabilityStore
	DoctorID string
}

func NewAvailabilityHandler(store AvailabilityStore, doctorID string) *AvailabilityHandler {
	return &AvailabilityHandler{Store: store, DoctorID: doctorID}
}

func (h *AvailabilityHandler) Register(r chi.Router) {
	r.Post("/availability", h.create)
	r.Get("/availability", h.list)
	r.Delete("/availability/{id}", h.delete)
}

func (h *AvailabilityHandler) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DoctorID      string   `json:"doctorId"`
		FromDate      string   `json:"fromDate"`
		ToDate        string   `json:"toDate"`
		StartTime     string   `json:"startTime"`
		EndTime       string   `json:"endTime"`
		SlotDuration  *int     `json:"slotDuration"`
		BreakDuration *int     `json:"breakDuration"`
		PricePerSlot  *float64 `json:"pricePerSlot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil ||
		in.DoctorID == "" || in.FromDate == "" || in.ToDate == "" ||
		in.StartTime == "" || in.EndTime == "" ||
		in.SlotDuration == nil || in.BreakDuration == nil || in.PricePerSlot == nil {
		response.BadRequest(w, "doctorId, fromDate, toDate, startTime, endTime, slotDuration, breakDuration and pricePerSlot are required")
		return
	}

	fromDate, err1 := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(in.FromDate), time.Local)
	toDate, err2 := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(in.ToDate), time.Local)
	if err1 != nil || err2 != nil {
		response.BadRequest(w, "Dates must be YYYY-MM-DD")
		return
	}
	if toDate.Before(fromDate) {
		response.BadRequest(w, "To date must be on or after from date")
		return
	}

	startMinutes, err1 := domain.ParseClock(in.StartTime)
	endMinutes, err2 := domain.ParseClock(in.EndTime)
	if err1 != nil || err2 != nil {
		response.BadRequest(w, "Times must be HH:MM")
		return
	}
	if startMinutes >= endMinutes {
		response.BadRequest(w, "End time must be after start time")
		return
	}

	if *in.SlotDuration <= 0 || *in.BreakDuration < 0 || *in.PricePerSlot <= 0 {
		response.BadRequest(w, "Invalid numeric values")
		return
	}

	overlap, err := h.Store.OverlappingWindow(r.Context(), in.DoctorID, fromDate, toDate)
	if err != nil {
		response.InternalError(w, "Failed to set availability")
		return
	}
	if overlap != nil {
		response.BadRequest(w, "Availability range overlaps with an existing range")
		return
	}

	window := &domain.AvailabilityWindow{
		DoctorID:     in.DoctorID,
		FromDate:     fromDate,
		ToDate:       toDate,
		StartMinutes: startMinutes,
		EndMinutes:   endMinutes,
		SlotDuration: *in.SlotDuration,
		BreakDur:     *in.BreakDuration,
		PricePerSlot: *in.PricePerSlot,
	}
	saved, err := h.Store.CreateWindow(r.Context(), window)
	if err != nil {
		response.InternalError(w, "Failed to set availability")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"message":      "Availability set",
		"availability": saved.DTO(),
	})
}

func (h *AvailabilityHandler) list(w http.ResponseWriter, r *http.Request) {
	windows, err := h.Store.ListWindows(r.Context(), h.DoctorID)
	if err != nil {
		response.InternalError(w, "Failed to fetch availabilities")
		return
	}
	out := make([]domain.AvailabilityDTO, 0, len(windows))
	for i := range windows {
		out = append(out, windows[i].DTO())
	}
	response.JSON(w, http.StatusOK, out)
}

func (h *AvailabilityHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid availability id")
		return
	}
	deleted, err := h.Store.DeleteWindow(r.Context(), h.DoctorID, id)
	if err != nil {
		response.InternalError(w, "Failed to delete availability")
		return
	}
	if !deleted {
		response.NotFound(w, "Availability not found")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Availability deleted"})
}
