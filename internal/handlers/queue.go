package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Ardalan81/elyassi-exchange/internal/schedule"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
)

func (s *Server) GetQueue(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("queue: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"queue": schedule.ActiveQueue(doc.Appointments),
		"stats": schedule.Stats(doc.Appointments),
	})
}
