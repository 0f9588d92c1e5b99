package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"trackarr/internal/models"
	"trackarr/internal/store"
	"trackarr/internal/views"
)

// ReminderEntry is one upcoming premiere in API form.
type ReminderEntry struct {
	Name       string `json:"name"`
	NextSeason int    `json:"next_season"`
	Date       string `json:"date"`
	DaysUntil  int    `json:"days_until"`
}

// RemindersHandler serves the upcoming-premiere window for one user.
type RemindersHandler struct {
	store      store.Store
	windowDays int
	now        func() time.Time
	logger     *logrus.Logger
}

// NewRemindersHandler creates a new reminders handler
func NewRemindersHandler(st store.Store, windowDays int, logger *logrus.Logger) *RemindersHandler {
	return &RemindersHandler{store: st, windowDays: windowDays, now: time.Now, logger: logger}
}

func (h *RemindersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	collection, err := h.store.GetAll(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load collection")
		writeError(w, http.StatusInternalServerError, "failed to load reminders", h.logger)
		return
	}

	entries := []ReminderEntry{}
	for _, rem := range views.Reminders(collection, h.now(), h.windowDays) {
		entries = append(entries, ReminderEntry{
			Name:       rem.Show.Name,
			NextSeason: rem.NextSeason,
			Date:       rem.Date.Format(models.DateLayout),
			DaysUntil:  rem.DaysUntil,
		})
	}
	writeJSON(w, http.StatusOK, entries, h.logger)
}
