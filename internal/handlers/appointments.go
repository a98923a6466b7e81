package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/notifications"
	"github.com/Ardalan81/elyassi-exchange/internal/schedule"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
	"github.com/Ardalan81/elyassi-exchange/internal/upload"
)

var (
	errClosedDate      = errors.New("selected date is closed")
	errSlotFull        = errors.New("selected time slot is full")
	errInvalidToken    = errors.New("invalid token")
	errAlreadyCanceled = errors.New("appointment already canceled")
)

type CreateAppointmentRequest struct {
	FirstName      string `validate:"required"`
	LastName       string `validate:"required"`
	Email          string `validate:"required,email"`
	DocumentType   string `validate:"required,oneof=passport national_id"`
	DocumentNumber string `validate:"required"`
	Date           string `validate:"required,date"`
	TimeSlot       string `validate:"required,slot"`
}

func (s *Server) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		log.Warn("appointments create: invalid multipart form")
		transport.WriteError(w, http.StatusBadRequest, "upload failed", nil)
		return
	}

	req := CreateAppointmentRequest{
		FirstName:      strings.TrimSpace(r.FormValue("firstName")),
		LastName:       strings.TrimSpace(r.FormValue("lastName")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		DocumentType:   r.FormValue("documentType"),
		DocumentNumber: strings.TrimSpace(r.FormValue("documentNumber")),
		Date:           r.FormValue("date"),
		TimeSlot:       r.FormValue("timeSlot"),
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("appointments create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	file, header, err := r.FormFile("documentFile")
	if err != nil {
		log.Warn("appointments create: missing document file")
		transport.WriteError(w, http.StatusBadRequest, "document file is required", nil)
		return
	}
	defer file.Close()

	documentFile, err := upload.SaveDocument(s.Cfg.UploadsDir, file, header)
	if err != nil {
		if errors.Is(err, upload.ErrFileTooLarge) || errors.Is(err, upload.ErrInvalidFileType) {
			log.Warn("appointments create: rejected upload", slog.String("reason", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error("appointments create: upload error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	now := time.Now().UnixMilli()
	appointment := models.Appointment{
		ID:             uuid.NewString(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		DocumentFile:   documentFile,
		ManageToken:    uuid.NewString(),
		Date:           req.Date,
		TimeSlot:       req.TimeSlot,
		Status:         models.StatusConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.Store.Mutate(func(doc *models.Document) error {
		availability := schedule.ComputeAvailability(req.Date, doc, s.Cfg.ClosedWeekdays)
		if availability.Closed {
			return errClosedDate
		}
		if availability.ReservedCounts[req.TimeSlot] >= doc.Settings.SlotCapacity {
			return errSlotFull
		}
		doc.Appointments = append(doc.Appointments, appointment)
		return nil
	})
	if err != nil {
		s.writeLifecycleError(w, log, "appointments create", err)
		return
	}

	s.invalidateAvailability(r.Context(), appointment.Date)
	emailStatus := s.notify(appointment, notifications.EventCreated)

	log.Info("appointments create: booked",
		slog.String("appointment_id", appointment.ID),
		slog.String("date", appointment.Date),
		slog.String("time_slot", appointment.TimeSlot),
		slog.String("email_status", emailStatus),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"appointment": appointment,
		"emailStatus": emailStatus,
	})
}

func (s *Server) GetAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	token := r.URL.Query().Get("token")
	if token == "" {
		log.Warn("appointments get: missing token")
		transport.WriteError(w, http.StatusBadRequest, "token is required", nil)
		return
	}

	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("appointments get: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	appointment, ok := findByToken(doc, id, token)
	if !ok {
		// Token mismatch and unknown id are indistinguishable on purpose.
		log.Warn("appointments get: invalid token", slog.String("appointment_id", id))
		transport.WriteError(w, http.StatusNotFound, errInvalidToken.Error(), nil)
		return
	}

	log.Info("appointments get: ok", slog.String("appointment_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointment": appointment})
}

type RescheduleRequest struct {
	Token    string `json:"token" validate:"required"`
	Date     string `json:"date" validate:"required,date"`
	TimeSlot string `json:"timeSlot" validate:"required,slot"`
}

func (s *Server) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	var req RescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("appointments reschedule: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("appointments reschedule: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	var updated models.Appointment
	var previousDate string
	err := s.Store.Mutate(func(doc *models.Document) error {
		appointment := lookupByToken(doc, id, req.Token)
		if appointment == nil {
			return errInvalidToken
		}
		if appointment.Status == models.StatusCanceled {
			return errAlreadyCanceled
		}

		availability := schedule.ComputeAvailability(req.Date, doc, s.Cfg.ClosedWeekdays)
		if availability.Closed {
			return errClosedDate
		}
		count := availability.ReservedCounts[req.TimeSlot]
		// The requester's own reservation does not count against the target
		// slot when the slot is unchanged.
		if appointment.Date == req.Date && appointment.TimeSlot == req.TimeSlot {
			count--
		}
		if count >= doc.Settings.SlotCapacity {
			return errSlotFull
		}

		previousDate = appointment.Date
		appointment.Date = req.Date
		appointment.TimeSlot = req.TimeSlot
		appointment.Status = models.StatusRescheduled
		appointment.UpdatedAt = time.Now().UnixMilli()
		updated = *appointment
		return nil
	})
	if err != nil {
		s.writeLifecycleError(w, log, "appointments reschedule", err)
		return
	}

	s.invalidateAvailability(r.Context(), previousDate, updated.Date)
	emailStatus := s.notify(updated, notifications.EventRescheduled)

	log.Info("appointments reschedule: ok",
		slog.String("appointment_id", updated.ID),
		slog.String("date", updated.Date),
		slog.String("time_slot", updated.TimeSlot),
		slog.String("email_status", emailStatus),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment": updated,
		"emailStatus": emailStatus,
	})
}

type CancelRequest struct {
	Token string `json:"token" validate:"required"`
}

func (s *Server) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	var req CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("appointments cancel: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("appointments cancel: missing token")
		transport.WriteError(w, http.StatusBadRequest, "token is required", nil)
		return
	}

	var updated models.Appointment
	err := s.Store.Mutate(func(doc *models.Document) error {
		appointment := lookupByToken(doc, id, req.Token)
		if appointment == nil {
			return errInvalidToken
		}
		if appointment.Status == models.StatusCanceled {
			return errAlreadyCanceled
		}
		appointment.Status = models.StatusCanceled
		appointment.UpdatedAt = time.Now().UnixMilli()
		updated = *appointment
		return nil
	})
	if err != nil {
		s.writeLifecycleError(w, log, "appointments cancel", err)
		return
	}

	s.invalidateAvailability(r.Context(), updated.Date)
	emailStatus := s.notify(updated, notifications.EventCanceled)

	log.Info("appointments cancel: ok",
		slog.String("appointment_id", updated.ID),
		slog.String("email_status", emailStatus),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment": updated,
		"emailStatus": emailStatus,
	})
}

func (s *Server) SearchAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		log.Warn("appointments search: missing email")
		transport.WriteError(w, http.StatusBadRequest, "email is required", nil)
		return
	}

	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("appointments search: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	matches := make([]models.Appointment, 0)
	for _, appointment := range doc.Appointments {
		if strings.EqualFold(appointment.Email, email) {
			matches = append(matches, appointment)
		}
	}
	if len(matches) == 0 {
		log.Info("appointments search: no match")
		transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointment": nil})
		return
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CreatedAt > matches[j].CreatedAt })
	latest := matches[0]

	queue := schedule.ActiveQueue(doc.Appointments)
	var queuePosition interface{} = "Not in queue"
	if pos := schedule.QueuePosition(queue, latest.ID); pos > 0 {
		queuePosition = pos
	}

	log.Info("appointments search: ok", slog.String("appointment_id", latest.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment":   latest,
		"queuePosition": queuePosition,
	})
}

func (s *Server) writeLifecycleError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errInvalidToken):
		log.Warn(op + ": invalid token")
		transport.WriteError(w, http.StatusNotFound, errInvalidToken.Error(), nil)
	case errors.Is(err, errClosedDate):
		log.Warn(op + ": date closed")
		transport.WriteError(w, http.StatusConflict, errClosedDate.Error(), nil)
	case errors.Is(err, errSlotFull):
		log.Warn(op + ": slot full")
		transport.WriteError(w, http.StatusConflict, errSlotFull.Error(), nil)
	case errors.Is(err, errAlreadyCanceled):
		log.Warn(op + ": already canceled")
		transport.WriteError(w, http.StatusConflict, errAlreadyCanceled.Error(), nil)
	case errors.Is(err, errAppointmentNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, errAppointmentNotFound.Error(), nil)
	default:
		log.Error(op+": store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
	}
}

func findByToken(doc *models.Document, id, token string) (models.Appointment, bool) {
	for _, appointment := range doc.Appointments {
		if appointment.ID == id && appointment.ManageToken == token {
			return appointment, true
		}
	}
	return models.Appointment{}, false
}

func lookupByToken(doc *models.Document, id, token string) *models.Appointment {
	for i := range doc.Appointments {
		if doc.Appointments[i].ID == id && doc.Appointments[i].ManageToken == token {
			return &doc.Appointments[i]
		}
	}
	return nil
}
