// Package stream relays upstream completion tokens to the browser as
// Server-Sent Events.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meteormadness/backend/internal/locale"
	chatModel "github.com/meteormadness/backend/internal/model/chat"
	"github.com/meteormadness/backend/internal/model/impact"
	"github.com/meteormadness/backend/internal/service/ai"
	"github.com/meteormadness/backend/internal/service/rag"
	sessionService "github.com/meteormadness/backend/internal/service/session"
	"github.com/meteormadness/backend/pkg/utils"
)

// Streaming requests favor short, cheap answers over long plans.
const (
	streamTemperature = 0.3
	streamMaxTokens   = 120
)

// Handler orchestrates one streaming answer per request: session
// lookup, prompt composition with best-effort retrieval, upstream
// stream, sanitized token relay.
type Handler struct {
	client   *ai.Client
	registry *sessionService.Registry
	rag      *rag.Service
	model    string
}

// New creates a stream handler. client may be nil when the completion
// credential is missing (requests fail fast with 503); rag may be nil
// when retrieval is not configured.
func New(client *ai.Client, registry *sessionService.Registry, ragSvc *rag.Service, model string) *Handler {
	if model == "" {
		model = ai.DefaultModel
	}
	return &Handler{client: client, registry: registry, rag: ragSvc, model: model}
}

// RegisterRoutes mounts the streaming routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mitigation-chat/stream", h.handleStream)
}

type streamRequest struct {
	Message      string                   `json:"message"`
	History      []chatModel.Message      `json:"history"`
	Consequences []impact.ConsequenceZone `json:"consequences"`
	SessionID    string                   `json:"sessionId"`
	Locale       string                   `json:"locale"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	traceID := utils.TraceID()

	// Fail fast on a missing credential, before any upstream work.
	if h.client == nil {
		slog.Error("missing completion credential", "traceId", traceID)
		utils.RespondError(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var payload streamRequest
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
	messages, augmented := h.composeMessages(r.Context(), traceID, loc, payload)

	slog.Info("stream start",
		"traceId", traceID, "locale", loc, "historyLen", len(payload.History),
		"sessionId", payload.SessionID, "augmented", augmented)

	stream, err := h.client.StreamChatCompletion(r.Context(), &ai.ChatRequest{
		Model:       h.model,
		Messages:    messages,
		Temperature: streamTemperature,
		MaxTokens:   streamMaxTokens,
	})
	if err != nil {
		// Connection-phase failure: structured error, no stream opened.
		slog.Error("upstream connect failed", "traceId", traceID, "error", err)
		utils.RespondError(w, http.StatusBadGateway, "failed to connect AI")
		return
	}
	defer stream.Close()

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"traceId": traceID})

	for {
		token, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			if errors.Is(recvErr, context.Canceled) {
				slog.Info("stream aborted by client", "traceId", traceID)
				return
			}
			// Mid-stream failure: best-effort signal, partial output
			// already sent stands.
			slog.Error("stream error", "traceId", traceID, "error", recvErr)
			utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": recvErr.Error()})
			return
		}

		token = ai.SanitizeToken(token)
		if token == "" {
			continue
		}
		utils.SendSSEEvent(w, flusher, "token", token)
	}

	utils.SendSSERaw(w, flusher, "done", "[DONE]")
	slog.Info("stream done", "traceId", traceID, "durationMs", time.Since(start).Milliseconds())
}

// composeMessages builds the ordered message list: greeting shortcut,
// base system prompt, retrieved context, consequence summary, key
// facts, history, then the user question. The second return reports
// whether retrieval augmentation succeeded.
func (h *Handler) composeMessages(ctx context.Context, traceID string, loc locale.Locale, payload streamRequest) ([]chatModel.Message, bool) {
	m := locale.For(loc)

	sess, found := h.registry.Get(payload.SessionID)
	summary := sess.ContextSummary
	if !found {
		// Degraded mode: summarize caller-supplied zones instead.
		summary = impact.Summarize(payload.Consequences)
	}

	base := ai.SystemPrompt(loc, ai.PromptContext{
		AppContext:          ai.AppContext,
		SpecialInstructions: m.MitigationInstructions,
	})

	messages := make([]chatModel.Message, 0, len(payload.History)+6)
	if ai.IsGreeting(payload.Message) {
		messages = append(messages, chatModel.SystemMessage(m.GreetingInstruction))
	}
	messages = append(messages, chatModel.SystemMessage(base))

	augmented := false
	if found && h.rag != nil {
		block, err := h.rag.RetrievedContext(ctx, sess.ID, loc, payload.Message)
		switch {
		case err != nil:
			// Retrieval is best-effort; proceed base-only.
			slog.Warn("rag failed", "traceId", traceID, "sessionId", sess.ID, "error", err)
		case block != "":
			messages = append(messages, chatModel.SystemMessage(block))
			augmented = true
		}
	}

	messages = append(messages, chatModel.SystemMessage(m.ConsequencesLead+" "+summary))
	if found && sess.KeyFacts != "" {
		messages = append(messages, chatModel.SystemMessage(m.KeyFactsLead+" "+sess.KeyFacts))
	}

	messages = append(messages, payload.History...)
	messages = append(messages, chatModel.UserMessage(payload.Message))
	return messages, augmented
}
