package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Ardalan81/elyassi-exchange/internal/cache"
	"github.com/Ardalan81/elyassi-exchange/internal/config"
	"github.com/Ardalan81/elyassi-exchange/internal/middleware"
	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/notifications"
	"github.com/Ardalan81/elyassi-exchange/internal/rates"
	"github.com/Ardalan81/elyassi-exchange/internal/store"
	"github.com/Ardalan81/elyassi-exchange/internal/validation"
)

type AppointmentMailer interface {
	SendAppointmentEmail(appointment models.Appointment, event notifications.Event) string
}

type Server struct {
	Cfg    *config.Config
	Store  *store.Store
	Val    *validation.Validator
	Log    *slog.Logger
	Cache  cache.Cache
	Mailer AppointmentMailer
	Quoter *rates.Quoter
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}

// notify is best-effort: the outcome string is reported to the caller and
// never rolls back the mutation that triggered it.
func (s *Server) notify(appointment models.Appointment, event notifications.Event) string {
	if s.Mailer == nil {
		return notifications.StatusNotConfigured
	}
	return s.Mailer.SendAppointmentEmail(appointment, event)
}
