package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ardalan81/elyassi-exchange/internal/models"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
)

type BlockedDateRequest struct {
	Date string `json:"date" validate:"required,date"`
}

func (s *Server) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("blocked dates list: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"blockedDates": doc.BlockedDates})
}

func (s *Server) CreateBlockedDate(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req BlockedDateRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("blocked dates create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("blocked dates create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	var blocked []string
	err := s.Store.Mutate(func(doc *models.Document) error {
		for _, date := range doc.BlockedDates {
			if date == req.Date {
				blocked = doc.BlockedDates
				return nil
			}
		}
		doc.BlockedDates = append(doc.BlockedDates, req.Date)
		blocked = doc.BlockedDates
		return nil
	})
	if err != nil {
		log.Error("blocked dates create: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	s.invalidateAvailability(r.Context(), req.Date)
	log.Info("blocked dates create: ok", slog.String("date", req.Date))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"blockedDates": blocked})
}

func (s *Server) DeleteBlockedDate(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	date := chi.URLParam(r, "date")
	if date == "" {
		log.Warn("blocked dates delete: missing date")
		transport.WriteError(w, http.StatusBadRequest, "date is required", nil)
		return
	}

	var blocked []string
	err := s.Store.Mutate(func(doc *models.Document) error {
		kept := doc.BlockedDates[:0]
		for _, item := range doc.BlockedDates {
			if item != date {
				kept = append(kept, item)
			}
		}
		doc.BlockedDates = kept
		blocked = doc.BlockedDates
		return nil
	})
	if err != nil {
		log.Error("blocked dates delete: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	s.invalidateAvailability(r.Context(), date)
	log.Info("blocked dates delete: ok", slog.String("date", date))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"blockedDates": blocked})
}
