// Package session exposes chat-session creation over HTTP.
package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meteormadness/backend/internal/locale"
	"github.com/meteormadness/backend/internal/model/impact"
	"github.com/meteormadness/backend/internal/service/rag"
	sessionService "github.com/meteormadness/backend/internal/service/session"
	"github.com/meteormadness/backend/pkg/utils"
)

// Handler creates sessions from simulation consequence zones.
type Handler struct {
	registry *sessionService.Registry
	rag      *rag.Service
}

// New creates a session handler. rag may be nil when retrieval is not
// configured; session creation works without it.
func New(registry *sessionService.Registry, ragSvc *rag.Service) *Handler {
	return &Handler{registry: registry, rag: ragSvc}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mitigation-chat/session", h.handleCreateSession)
}

type createSessionRequest struct {
	Locale       string                   `json:"locale"`
	Consequences []impact.ConsequenceZone `json:"consequences"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	traceID := utils.TraceID()

	var payload createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc := locale.Parse(payload.Locale)
	summary := impact.Summarize(payload.Consequences)
	facts := impact.KeyFacts(payload.Consequences)

	sess := h.registry.Create(loc, summary, facts)

	// Index vectors best-effort; session creation never fails on it.
	if h.rag != nil {
		if _, err := h.rag.IndexImpactContext(r.Context(), sess, payload.Consequences); err != nil {
			slog.Warn("vector upsert failed", "traceId", traceID, "sessionId", sess.ID, "error", err)
		}
	}

	slog.Info("session created",
		"traceId", traceID, "sessionId", sess.ID, "locale", loc, "zones", len(payload.Consequences))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID})
}
