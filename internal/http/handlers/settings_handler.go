package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/http/response"
)

type SettingsStore interface {
	Settings(ctx context.Context, doctorID string) (*domain.DoctorSettings, error)
	UpsertBasePrice(ctx context.Context, doctorID string, basePrice float64) error
	UpsertMessage(ctx context.Context, doctorID, message string, enabled bool) error
}

// Defaults reported when no settings row exists yet.
const defaultBasePrice = 1000

type SettingsHandler struct {
	Store    SettingsStore
	DoctorID string
}

func NewSettingsHandler(store SettingsStore, doctorID string) *SettingsHandler {
	return &SettingsHandler{Store: store, DoctorID: doctorID}
}

func (h *SettingsHandler) Register(r chi.Router) {
	r.Post("/settings/price", h.updatePrice)
	r.Post("/settings/message", h.updateMessage)
	r.Get("/settings", h.getSettings)
}

func (h *SettingsHandler) updatePrice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DoctorID  string   `json:"doctorId"`
		BasePrice *float64 `json:"basePrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.DoctorID == "" || in.BasePrice == nil {
		response.BadRequest(w, "doctorId and basePrice are required")
		return
	}
	if *in.BasePrice <= 0 {
		response.BadRequest(w, "Base price must be a positive number")
		return
	}
	if err := h.Store.UpsertBasePrice(r.Context(), in.DoctorID, *in.BasePrice); err != nil {
		response.InternalError(w, "Failed to update price")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Price updated"})
}

func (h *SettingsHandler) updateMessage(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DoctorID         string `json:"doctorId"`
		BookingMessage   string `json:"bookingMessage"`
		IsMessageEnabled bool   `json:"isMessageEnabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.DoctorID == "" {
		response.BadRequest(w, "doctorId is required")
		return
	}
	if in.IsMessageEnabled && in.BookingMessage == "" {
		response.BadRequest(w, "Message is required when enabled")
		return
	}
	if err := h.Store.UpsertMessage(r.Context(), in.DoctorID, in.BookingMessage, in.IsMessageEnabled); err != nil {
		response.InternalError(w, "Failed to update message")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Message updated"})
}

func (h *SettingsHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.Settings(r.Context(), h.DoctorID)
	if err != nil {
		response.InternalError(w, "Failed to fetch settings")
		return
	}
	if settings == nil {
		settings = &domain.DoctorSettings{
			DoctorID:       h.DoctorID,
			BasePrice:      defaultBasePrice,
			BookingMessage: "",
			MessageEnabled: false,
		}
	}
	response.JSON(w, http.StatusOK, settings)
}
