package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"trackarr/internal/store"
)

// StatusHandler reports service-wide aggregates across all users.
type StatusHandler struct {
	store  store.Store
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(st store.Store, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{store: st, logger: logger}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list users")
		writeError(w, http.StatusInternalServerError, "failed to read store", h.logger)
		return
	}

	totalShows := 0
	for _, userID := range users {
		stats, err := h.store.Stats(userID)
		if err != nil {
			h.logger.WithError(err).WithField("user_id", userID).Error("Failed to compute stats")
			continue
		}
		totalShows += stats.TotalShows
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":        len(users),
		"total_shows":  totalShows,
		"store_status": "ok",
	}, h.logger)
}
