package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kakunuriMahesh/doctor-appointments/internal/domain"
	"github.com/kakunuriMahesh/doctor-appointments/internal/http/handlers"
)

type mockSettingsStore struct {
	settings *domain.DoctorSettings
}

func (m *mockSettingsStore) Settings(context.Context, string) (*domain.DoctorSettings, error) {
	return m.settings, nil
}

func (m *mockSettingsStore) UpsertBasePrice(_ context.Context, doctorID string, basePrice float64) error {
	if m.settings == nil {
		m.settings = &domain.DoctorSettings{DoctorID: doctorID}
	}
	m.settings.BasePrice = basePrice
	return nil
}

func (m *mockSettingsStore) UpsertMessage(_ context.Context, doctorID, message string, enabled bool) error {
	if m.settings == nil {
		m.settings = &domain.DoctorSettings{DoctorID: doctorID}
	}
	m.settings.BookingMessage = message
	m.settings.MessageEnabled = enabled
	return nil
}

func newSettingsServer(store *mockSettingsStore) *httptest.Server {
	h := handlers.NewSettingsHandler(store, domain.DefaultDoctorID)
	r := chi.NewRouter()
	h.Register(r)
	return httptest.NewServer(r)
}

func TestUpdatePrice(t *testing.T) {
	store := &mockSettingsStore{}
	srv := newSettingsServer(store)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/settings/price", map[string]any{
		"doctorId":  "doctor1",
		"basePrice": 1500,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.settings == nil || store.settings.BasePrice != 1500 {
		t.Fatalf("settings = %+v", store.settings)
	}
}

func TestUpdatePriceRejectsNonPositive(t *testing.T) {
	srv := newSettingsServer(&mockSettingsStore{})
	defer srv.Close()

	for _, price := range []float64{0, -10} {
		resp := postJSON(t, srv.URL+"/settings/price", map[string]any{
			"doctorId":  "doctor1",
			"basePrice": price,
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("price %v: status = %d, want 400", price, resp.StatusCode)
		}
	}
}

func TestUpdateMessageRequiresTextWhenEnabled(t *testing.T) {
	srv := newSettingsServer(&mockSettingsStore{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/settings/message", map[string]any{
		"doctorId":         "doctor1",
		"bookingMessage":   "",
		"isMessageEnabled": true,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetSettingsDefaults(t *testing.T) {
	srv := newSettingsServer(&mockSettingsStore{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/settings")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["basePrice"] != float64(1000) {
		t.Fatalf("default basePrice = %v, want 1000", body["basePrice"])
	}
	if body["isMessageEnabled"] != false {
		t.Fatalf("default isMessageEnabled = %v", body["isMessageEnabled"])
	}
}
