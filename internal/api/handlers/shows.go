package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"trackarr/internal/models"
	"trackarr/internal/store"
	"trackarr/internal/views"
)

// ShowsHandler serves the filtered list views and the in-collection search.
type ShowsHandler struct {
	store  store.Store
	logger *logrus.Logger
}

// NewShowsHandler creates a new shows handler
func NewShowsHandler(st store.Store, logger *logrus.Logger) *ShowsHandler {
	return &ShowsHandler{store: st, logger: logger}
}

// List handles GET /api/users/{id}/shows with an optional view parameter.
func (h *ShowsHandler) List(w http.ResponseWriter, r *http.Request) {
	collection, ok := h.collection(w, r)
	if !ok {
		return
	}

	view := views.ListType(r.URL.Query().Get("view"))
	if view == "" {
		view = views.ListAll
	}

	shows, ok := views.List(collection, view)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown view: "+string(view), h.logger)
		return
	}
	h.writeShows(w, shows)
}

// Search handles GET /api/users/{id}/shows/search with a required q parameter.
func (h *ShowsHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "q is required", h.logger)
		return
	}

	collection, ok := h.collection(w, r)
	if !ok {
		return
	}
	h.writeShows(w, views.Search(collection, term))
}

func (h *ShowsHandler) collection(w http.ResponseWriter, r *http.Request) (models.Collection, bool) {
	collection, err := h.store.GetAll(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to load collection")
		writeError(w, http.StatusInternalServerError, "failed to load shows", h.logger)
		return nil, false
	}
	return collection, true
}

func (h *ShowsHandler) writeShows(w http.ResponseWriter, shows []*models.TrackedShow) {
	if shows == nil {
		shows = []*models.TrackedShow{}
	}
	writeJSON(w, http.StatusOK, shows, h.logger)
}
