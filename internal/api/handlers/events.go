package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"trackarr/internal/dialogue"
)

// EventRequest is one dialogue step: either a tapped action or a typed
// message, never both.
type EventRequest struct {
	Action string `json:"action,omitempty"`
	Text   string `json:"text,omitempty"`
}

// EventsHandler feeds user events into the dialogue engine and returns the
// screen to render next.
type EventsHandler struct {
	engine *dialogue.Engine
	logger *logrus.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(engine *dialogue.Engine, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{engine: engine, logger: logger}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required", h.logger)
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	var screen *dialogue.Screen
	switch {
	case req.Action != "" && req.Text != "":
		writeError(w, http.StatusBadRequest, "send either action or text, not both", h.logger)
		return
	case req.Action != "":
		screen = h.engine.Command(r.Context(), userID, req.Action)
	case req.Text != "":
		screen = h.engine.Text(r.Context(), userID, req.Text)
	default:
		writeError(w, http.StatusBadRequest, "action or text is required", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, screen, h.logger)
}
