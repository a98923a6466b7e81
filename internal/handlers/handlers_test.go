package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ardalan81/elyassi-exchange/internal/cache"
	"github.com/Ardalan81/elyassi-exchange/internal/config"
	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/notifications"
	"github.com/Ardalan81/elyassi-exchange/internal/store"
	"github.com/Ardalan81/elyassi-exchange/internal/validation"
)

// 2026-03-02 is a Monday, 2026-03-06 a Friday (default closed weekday).
const (
	openDate  = "2026-03-02"
	otherDate = "2026-03-03"
	friday    = "2026-03-06"
)

type stubMailer struct {
	events []notifications.Event
}

func (m *stubMailer) SendAppointmentEmail(appointment models.Appointment, event notifications.Event) string {
	m.events = append(m.events, event)
	return notifications.StatusSent
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	dir := t.TempDir()

	documentStore := store.New(filepath.Join(dir, "store.json"))
	if err := documentStore.Ensure(); err != nil {
		t.Fatalf("ensure store: %v", err)
	}

	s := &Server{
		Cfg: &config.Config{
			ClosedWeekdays:  []int{5},
			UploadsDir:      filepath.Join(dir, "uploads"),
			CacheTTLSeconds: 60,
			PublicBaseURL:   "http://localhost:3000",
		},
		Store: documentStore,
		Val:   validation.New(),
		Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cache: cache.NewMemory(64, time.Minute),
	}

	r := chi.NewRouter()
	r.Get("/api/config", s.GetConfig)
	r.Get("/api/blocked-dates", s.ListBlockedDates)
	r.Post("/api/blocked-dates", s.CreateBlockedDate)
	r.Delete("/api/blocked-dates/{date}", s.DeleteBlockedDate)
	r.Get("/api/availability", s.GetAvailability)
	r.Post("/api/appointments", s.CreateAppointment)
	r.Get("/api/appointments/search", s.SearchAppointments)
	r.Get("/api/appointments/{id}", s.GetAppointment)
	r.Patch("/api/appointments/{id}/reschedule", s.RescheduleAppointment)
	r.Post("/api/appointments/{id}/cancel", s.CancelAppointment)
	r.Get("/api/queue", s.GetQueue)
	r.Get("/api/admin/appointments", s.AdminListAppointments)
	r.Patch("/api/admin/appointments/{id}", s.AdminUpdateAppointment)
	r.Get("/api/rates", s.GetRates)

	return s, r
}

func setSlotCapacity(t *testing.T, s *Server, capacity int) {
	t.Helper()
	err := s.Store.Mutate(func(doc *models.Document) error {
		doc.Settings.SlotCapacity = capacity
		return nil
	})
	if err != nil {
		t.Fatalf("set capacity: %v", err)
	}
}

func seedAppointment(t *testing.T, s *Server, appointment models.Appointment) {
	t.Helper()
	err := s.Store.Mutate(func(doc *models.Document) error {
		doc.Appointments = append(doc.Appointments, appointment)
		return nil
	})
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
}

type appointmentResponse struct {
	Appointment models.Appointment `json:"appointment"`
	EmailStatus string             `json:"emailStatus"`
	Error       string             `json:"error"`
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func bookingForm(t *testing.T, h http.Handler, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, "documentFile", "passport.png"))
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("png-bytes"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func defaultBookingFields(date, timeSlot string) map[string]string {
	return map[string]string{
		"firstName":      "Sara",
		"lastName":       "Elyassi",
		"email":          "sara@example.com",
		"documentType":   models.DocumentTypePassport,
		"documentNumber": "P1234567",
		"date":           date,
		"timeSlot":       timeSlot,
	}
}

func createBooking(t *testing.T, h http.Handler, date, timeSlot string) models.Appointment {
	t.Helper()
	rec := bookingForm(t, h, defaultBookingFields(date, timeSlot))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp appointmentResponse
	decodeBody(t, rec, &resp)
	return resp.Appointment
}

func fetchAvailability(t *testing.T, s *Server, date string) map[string]int {
	t.Helper()
	doc, err := s.Store.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	counts := make(map[string]int)
	for _, appointment := range doc.Appointments {
		if appointment.Date == date && appointment.Status != models.StatusCanceled {
			counts[appointment.TimeSlot]++
		}
	}
	return counts
}
