package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Ardalan81/elyassi-exchange/internal/schedule"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
)

func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("config: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timeSlots":      schedule.TimeSlots,
		"closedWeekdays": s.Cfg.ClosedWeekdays,
		"slotCapacity":   doc.Settings.SlotCapacity,
	})
}
