package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"trackarr/internal/store"
)

// StatsResponse is one user's aggregate counters. CompletionRate is omitted
// for an empty collection, where no rate is defined.
type StatsResponse struct {
	TotalShows     int      `json:"total_shows"`
	SeasonsWatched int      `json:"seasons_watched"`
	Completed      int      `json:"completed"`
	Ongoing        int      `json:"ongoing"`
	Behind         int      `json:"behind"`
	CompletionRate *float64 `json:"completion_rate,omitempty"`
}

// StatsHandler serves per-user collection statistics.
type StatsHandler struct {
	store  store.Store
	logger *logrus.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(st store.Store, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{store: st, logger: logger}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute stats")
		writeError(w, http.StatusInternalServerError, "failed to compute stats", h.logger)
		return
	}

	resp := StatsResponse{
		TotalShows:     stats.TotalShows,
		SeasonsWatched: stats.SeasonsWatched,
		Completed:      stats.Completed,
		Ongoing:        stats.Ongoing,
		Behind:         stats.Behind,
	}
	if rate, ok := stats.CompletionRate(); ok {
		resp.CompletionRate = &rate
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}
