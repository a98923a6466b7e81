package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/notifications"
	"github.com/Ardalan81/elyassi-exchange/internal/schedule"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
)

var errAppointmentNotFound = errors.New("appointment not found")

func (s *Server) AdminListAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("admin appointments list: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	appointments := make([]models.Appointment, len(doc.Appointments))
	copy(appointments, doc.Appointments)
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].CreatedAt > appointments[j].CreatedAt
	})

	log.Info("admin appointments list: ok", slog.Int("count", len(appointments)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointments": appointments})
}

type AdminUpdateRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=confirmed rescheduled canceled"`
	Date     string `json:"date" validate:"omitempty,date"`
	TimeSlot string `json:"timeSlot" validate:"omitempty,slot"`
}

// AdminUpdateAppointment edits status, date and/or slot by id alone. The
// weaker trust boundary is deliberate: this sits behind the admin router.
func (s *Server) AdminUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")

	var req AdminUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("admin appointments update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin appointments update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	var updated models.Appointment
	var previousDate string
	err := s.Store.Mutate(func(doc *models.Document) error {
		var appointment *models.Appointment
		for i := range doc.Appointments {
			if doc.Appointments[i].ID == id {
				appointment = &doc.Appointments[i]
				break
			}
		}
		if appointment == nil {
			return errAppointmentNotFound
		}

		if req.Date != "" || req.TimeSlot != "" {
			nextDate := appointment.Date
			if req.Date != "" {
				nextDate = req.Date
			}
			nextSlot := appointment.TimeSlot
			if req.TimeSlot != "" {
				nextSlot = req.TimeSlot
			}

			if schedule.IsClosedDate(nextDate, doc.BlockedDates, s.Cfg.ClosedWeekdays) {
				return errClosedDate
			}
			availability := schedule.ComputeAvailability(nextDate, doc, s.Cfg.ClosedWeekdays)
			count := availability.ReservedCounts[nextSlot]
			if appointment.Date == nextDate && appointment.TimeSlot == nextSlot {
				count--
			}
			if count >= doc.Settings.SlotCapacity {
				return errSlotFull
			}

			previousDate = appointment.Date
			appointment.Date = nextDate
			appointment.TimeSlot = nextSlot
		}

		if req.Status != "" {
			appointment.Status = req.Status
		}
		appointment.UpdatedAt = time.Now().UnixMilli()
		updated = *appointment
		return nil
	})
	if err != nil {
		s.writeLifecycleError(w, log, "admin appointments update", err)
		return
	}

	s.invalidateAvailability(r.Context(), previousDate, updated.Date)
	emailStatus := s.notify(updated, notifications.EventUpdated)

	log.Info("admin appointments update: ok",
		slog.String("appointment_id", updated.ID),
		slog.String("status", updated.Status),
		slog.String("email_status", emailStatus),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment": updated,
		"emailStatus": emailStatus,
	})
}
