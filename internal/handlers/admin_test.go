package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ardalan81/elyassi-exchange/internal/cache"
	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/rates"
)

func TestAdminListAppointments(t *testing.T) {
	s, h := newTestServer(t)
	seedAppointment(t, s, models.Appointment{ID: "old", Email: "a@x.com", Date: openDate, TimeSlot: "09:00", Status: models.StatusConfirmed, CreatedAt: 1})
	seedAppointment(t, s, models.Appointment{ID: "new", Email: "b@x.com", Date: openDate, TimeSlot: "10:00", Status: models.StatusCanceled, CreatedAt: 2})

	rec := doJSON(t, h, http.MethodGet, "/api/admin/appointments", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Appointments) != 2 {
		t.Fatalf("expected both appointments, got %d", len(resp.Appointments))
	}
	// Newest first, canceled ones included.
	if resp.Appointments[0].ID != "new" || resp.Appointments[1].ID != "old" {
		t.Fatalf("unexpected order: %+v", resp.Appointments)
	}
}

func TestAdminUpdateAppointment(t *testing.T) {
	s, h := newTestServer(t)
	appointment := createBooking(t, h, openDate, "09:00")

	rec := doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+appointment.ID, map[string]string{
		"status":   models.StatusRescheduled,
		"date":     otherDate,
		"timeSlot": "12:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp appointmentResponse
	decodeBody(t, rec, &resp)
	if resp.Appointment.Status != models.StatusRescheduled || resp.Appointment.Date != otherDate || resp.Appointment.TimeSlot != "12:00" {
		t.Fatalf("unexpected appointment: %+v", resp.Appointment)
	}

	// Partial update keeps the untouched fields.
	rec = doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+appointment.ID, map[string]string{
		"status": models.StatusCanceled,
	})
	decodeBody(t, rec, &resp)
	if resp.Appointment.Status != models.StatusCanceled || resp.Appointment.Date != otherDate {
		t.Fatalf("partial update lost fields: %+v", resp.Appointment)
	}

	if counts := fetchAvailability(t, s, otherDate); counts["12:00"] != 0 {
		t.Fatalf("canceled appointment still reserved: %v", counts)
	}
}

func TestAdminUpdateUnknownID(t *testing.T) {
	_, h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPatch, "/api/admin/appointments/nope", map[string]string{
		"status": models.StatusCanceled,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp appointmentResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "appointment not found" {
		t.Fatalf("unexpected error: %q", resp.Error)
	}
}

func TestAdminUpdateValidation(t *testing.T) {
	_, h := newTestServer(t)
	appointment := createBooking(t, h, openDate, "09:00")

	rec := doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+appointment.ID, map[string]string{
		"status": "archived",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+appointment.ID, map[string]string{
		"timeSlot": "23:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown slot, got %d", rec.Code)
	}
}

func TestAdminUpdateCapacity(t *testing.T) {
	s, h := newTestServer(t)
	setSlotCapacity(t, s, 1)
	first := createBooking(t, h, openDate, "09:00")
	second := createBooking(t, h, openDate, "10:00")

	// Moving into a full foreign slot fails.
	rec := doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+second.ID, map[string]string{
		"timeSlot": "09:00",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	// Re-asserting an appointment's own slot does not count against itself.
	rec = doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+first.ID, map[string]string{
		"date":     openDate,
		"timeSlot": "09:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected self-move to succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	// Closed dates stay off limits to admins too.
	rec = doJSON(t, h, http.MethodPatch, "/api/admin/appointments/"+first.ID, map[string]string{
		"date": friday,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on closed date, got %d", rec.Code)
	}
}

func TestGetRatesEndpoint(t *testing.T) {
	s, h := newTestServer(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rates":                 map[string]float64{"IRR": 100, "USD": 1, "EUR": 0.9},
			"time_last_update_unix": 1700000000,
		})
	}))
	t.Cleanup(upstream.Close)
	s.Quoter = rates.NewQuoter(upstream.URL, cache.NewNoop(), time.Minute)

	rec := doJSON(t, h, http.MethodGet, "/api/rates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp rates.QuoteSet
	decodeBody(t, rec, &resp)
	if len(resp.Rates) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(resp.Rates))
	}
	if resp.UpdatedAt != 1700000000*1000 {
		t.Fatalf("unexpected updatedAt: %d", resp.UpdatedAt)
	}
}

func TestGetRatesUpstreamFailure(t *testing.T) {
	s, h := newTestServer(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(upstream.Close)
	s.Quoter = rates.NewQuoter(upstream.URL, cache.NewNoop(), time.Minute)

	rec := doJSON(t, h, http.MethodGet, "/api/rates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upstream failure must still answer 200, got %d", rec.Code)
	}
	var resp rates.QuoteSet
	decodeBody(t, rec, &resp)
	if len(resp.Rates) != 0 {
		t.Fatalf("expected empty quote set, got %d", len(resp.Rates))
	}
	if resp.UpdatedAt == 0 {
		t.Fatalf("expected a timestamp on the degraded response")
	}
}
