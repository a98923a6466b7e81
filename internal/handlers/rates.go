package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Ardalan81/elyassi-exchange/internal/rates"
	"github.com/Ardalan81/elyassi-exchange/internal/transport"
)

func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	showAll := r.URL.Query().Get("all") == "1"

	doc, err := s.Store.Snapshot()
	if err != nil {
		log.Error("rates: store error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "store error", nil)
		return
	}

	quotes, err := s.Quoter.Quotes(r.Context(), showAll, doc.Settings)
	if err != nil {
		// Upstream trouble degrades to an empty quote set, never an error.
		log.Warn("rates: upstream error", slog.String("error", err.Error()))
		transport.WriteJSON(w, http.StatusOK, rates.QuoteSet{
			UpdatedAt: time.Now().UnixMilli(),
			Rates:     []rates.Quote{},
		})
		return
	}

	log.Info("rates: ok", slog.Bool("all", showAll), slog.Int("count", len(quotes.Rates)))
	transport.WriteJSON(w, http.StatusOK, quotes)
}
