package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Ardalan81/elyassi-exchange/internal/schedule"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
)

type availabilityQuery struct {
	Date string `validate:"required,date"`
}

func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	q := availabilityQuery{Date: r.URL.Query().Get("date")}
	if err := s.Val.Struct(q); err != nil {
		log.Warn("availability: invalid query")
		transport.WriteError(w, http.StatusBadRequest, "date is required", validationDetails(s.Val.ValidationErrors(err)))
		return
	}

	cacheKey := "availability:" + q.Date
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("availability: cache hit", slog.String("date", q.Date))
			writeCachedJSON(w, http.StatusOK, cached)
			return
		}
	}

	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("availability: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	availability := schedule.ComputeAvailability(q.Date, doc, s.Cfg.ClosedWeekdays)

	if s.Cache != nil {
		if payload, err := encodeJSON(availability); err == nil {
			_ = s.Cache.Set(r.Context(), cacheKey, payload, time.Duration(s.Cfg.CacheTTLSeconds)*time.Second)
		}
	}

	log.Info("availability: ok", slog.String("date", q.Date), slog.Bool("closed", availability.Closed))
	transport.WriteJSON(w, http.StatusOK, availability)
}
