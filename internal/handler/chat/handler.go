// Package chat exposes the non-streaming mitigation-chat endpoint.
package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meteormadness/backend/internal/locale"
	chatModel "github.com/meteormadness/backend/internal/model/chat"
	"github.com/meteormadness/backend/internal/model/impact"
	"github.com/meteormadness/backend/internal/service/ai"
	"github.com/meteormadness/backend/pkg/utils"
)

// Handler answers mitigation questions through the resilient invoker.
type Handler struct {
	invoker *ai.Invoker
}

// New creates a chat handler. invoker may be nil when the completion
// credential is missing; requests then fail fast with 503.
func New(invoker *ai.Invoker) *Handler {
	return &Handler{invoker: invoker}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mitigation-chat", h.handleChat)
}

type chatRequest struct {
	Message      string                   `json:"message"`
	History      []chatModel.Message      `json:"history"`
	Consequences []impact.ConsequenceZone `json:"consequences"`
	Locale       string                   `json:"locale"`
}

type chatResponse struct {
	Reply   string              `json:"reply"`
	History []chatModel.Message `json:"history"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	traceID := utils.TraceID()

	if h.invoker == nil {
		slog.Error("missing completion credential", "traceId", traceID)
		utils.RespondError(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		slog.Warn("invalid message", "traceId", traceID)
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	loc := locale.Parse(payload.Locale)
	m := locale.For(loc)
	summary := impact.Summarize(payload.Consequences)

	slog.Info("chat start",
		"traceId", traceID, "locale", loc, "historyLen", len(payload.History), "zones", len(payload.Consequences))

	system := ai.SystemPrompt(loc, ai.PromptContext{
		AppContext:          ai.AppContext,
		SpecialInstructions: m.MitigationInstructions,
	})
	composed := fmt.Sprintf("%s %s\n\n%s", m.ConsequencesLead, summary, payload.Message)

	result, history := h.invoker.InvokeWithHistory(r.Context(), composed, payload.History, ai.InvokeConfig{
		Temperature:   0.3,
		MaxTokens:     150,
		SystemMessage: system,
	})

	if !result.Success {
		slog.Error("chat failure",
			"traceId", traceID, "error", result.Err,
			"durationMs", time.Since(start).Milliseconds(), "retriesUsed", result.Metadata.RetriesUsed)
		utils.RespondError(w, http.StatusInternalServerError, result.Err)
		return
	}

	slog.Info("chat success",
		"traceId", traceID, "durationMs", time.Since(start).Milliseconds(),
		"retriesUsed", result.Metadata.RetriesUsed, "historyLen", len(history))
	utils.RespondJSON(w, http.StatusOK, chatResponse{Reply: result.Data, History: history})
}
