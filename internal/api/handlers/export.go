package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"trackarr/internal/export"
	"trackarr/internal/store"
)

// ExportHandler serves one user's collection as a CSV download.
type ExportHandler struct {
	store  store.Store
	now    func() time.Time
	logger *logrus.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(st store.Store, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{store: st, now: time.Now, logger: logger}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	collection, err := h.store.GetAll(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load collection")
		writeError(w, http.StatusInternalServerError, "failed to load shows", h.logger)
		return
	}
	if len(collection) == 0 {
		writeError(w, http.StatusNotFound, "no data to export", h.logger)
		return
	}

	raw, err := export.CSV(collection)
	if err != nil {
		h.logger.WithError(err).Error("Failed to export collection")
		writeError(w, http.StatusInternalServerError, "failed to export shows", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		h.logger.WithError(err).Error("Failed to write export")
	}
}
