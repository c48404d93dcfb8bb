package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meteormadness/backend/internal/locale"
	chatModel "github.com/meteormadness/backend/internal/model/chat"
	"github.com/meteormadness/backend/internal/model/impact"
	"github.com/meteormadness/backend/internal/service/ai"
	sessionService "github.com/meteormadness/backend/internal/service/session"
)

type sseEvent struct {
	name string
	data string
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			}
		}
		if ev.name == "" {
			t.Fatalf("SSE block without event name: %q", block)
		}
		events = append(events, ev)
	}
	return events
}

// upstreamSSE fakes the completion API: it records each request body and
// answers with the scripted delta tokens followed by [DONE].
func upstreamSSE(t *testing.T, tokens []string, lastBody *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read upstream request: %v", err)
		}
		if lastBody != nil {
			*lastBody = body
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, token := range tokens {
			chunk, _ := json.Marshal(map[string]any{
				"choices": []map[string]any{{"delta": map[string]string{"content": token}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func postStream(t *testing.T, h *Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/mitigation-chat/stream", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.handleStream(rec, req)
	return rec
}

func TestStreamFailsFastWithoutClient(t *testing.T) {
	h := New(nil, sessionService.NewRegistry(), nil, "")

	rec := postStream(t, h, map[string]string{"message": "help"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without credential, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AI service not configured") {
		t.Fatalf("unexpected error body: %q", rec.Body.String())
	}
}

func TestStreamRejectsEmptyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an invalid request")
	}))
	defer srv.Close()

	client, err := ai.NewClient(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient err: %v", err)
	}
	h := New(client, sessionService.NewRegistry(), nil, "")

	rec := postStream(t, h, map[string]string{"message": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", rec.Code)
	}
}

func TestStreamRelaysTokensInOrder(t *testing.T) {
	srv := upstreamSSE(t, []string{"A", "B", "C"}, nil)
	defer srv.Close()

	client, err := ai.NewClient(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("NewClient err: %v", err)
	}
	h := New(client, sessionService.NewRegistry(), nil, "")

	rec := postStream(t, h, map[string]string{"message": "what should residents do?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/event-stream") {
		t.Fatalf("unexpected content type: %q", got)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) != 5 {
		t.Fatalf("expected start + 3 tokens + done, got %d events: %+v", len(events), events)
	}

	if events[0].name != "start" || !strings.Contains(events[0].data, "traceId") {
		t.Fatalf("unexpected start event: %+v", events[0])
	}
	for i, want := range []string{"A", "B", "C"} {
		ev := events[i+1]
		if ev.name != "token" {
			t.Fatalf("event %d is %q, want token", i+1, ev.name)
		}
		var token string
		if err := json.Unmarshal([]byte(ev.data), &token); err != nil {
			t.Fatalf("token data not a JSON string: %q", ev.data)
		}
		if token != want {
			t.Fatalf("token %d = %q, want %q", i, token, want)
		}
	}
	if events[4].name != "done" || events[4].data != "[DONE]" {
		t.Fatalf("unexpected done event: %+v", events[4])
	}
}

func TestStreamSanitizesTokens(t *testing.T) {
	srv := upstreamSSE(t, []string{"**evacuate**", "`now`", "***"}, nil)
	defer srv.Close()

	client, _ := ai.NewClient(srv.URL, "test-key")
	h := New(client, sessionService.NewRegistry(), nil, "")

	rec := postStream(t, h, map[string]string{"message": "plan?"})
	events := parseSSE(t, rec.Body.String())

	var tokens []string
	for _, ev := range events {
		if ev.name != "token" {
			continue
		}
		var token string
		if err := json.Unmarshal([]byte(ev.data), &token); err != nil {
			t.Fatalf("bad token data: %q", ev.data)
		}
		tokens = append(tokens, token)
	}

	// The all-markup token collapses to empty and is dropped.
	if len(tokens) != 2 || tokens[0] != "evacuate" || tokens[1] != "now" {
		t.Fatalf("unexpected sanitized tokens: %v", tokens)
	}
}

func TestStreamUpstreamConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded","type":"server_error"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := ai.NewClient(srv.URL, "test-key")
	h := New(client, sessionService.NewRegistry(), nil, "")

	rec := postStream(t, h, map[string]string{"message": "plan?"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on connection-phase failure, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "event:") {
		t.Fatalf("no SSE events expected on connect failure: %q", rec.Body.String())
	}
}

func TestStreamInjectsSessionSummary(t *testing.T) {
	var upstreamBody []byte
	srv := upstreamSSE(t, []string{"ok"}, &upstreamBody)
	defer srv.Close()

	client, _ := ai.NewClient(srv.URL, "test-key")
	registry := sessionService.NewRegistry()

	zones := []impact.ConsequenceZone{
		{Name: "Blast Zone", Severity: impact.SeveritySevere, RadiusKm: 12.4, Casualties: 40},
	}
	sess := registry.Create(locale.English, impact.Summarize(zones), impact.KeyFacts(zones))

	h := New(client, registry, nil, "")
	rec := postStream(t, h, map[string]any{
		"message":   "What should residents do?",
		"sessionId": sess.ID,
		"locale":    "en",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var req ai.ChatRequest
	if err := json.Unmarshal(upstreamBody, &req); err != nil {
		t.Fatalf("unmarshal upstream request: %v", err)
	}
	if !req.Stream {
		t.Fatal("upstream request must be a streaming request")
	}

	var joined strings.Builder
	for _, m := range req.Messages {
		if m.Role == chatModel.RoleSystem {
			joined.WriteString(m.Content)
			joined.WriteString("\n")
		}
	}
	for _, want := range []string{"Blast Zone", "12.4", "severe"} {
		if !strings.Contains(joined.String(), want) {
			t.Fatalf("system prompt missing %q:\n%s", want, joined.String())
		}
	}
}

func TestComposeMessagesGreetingShortcut(t *testing.T) {
	h := New(nil, sessionService.NewRegistry(), nil, "")

	messages, augmented := h.composeMessages(context.Background(), "t", locale.Portuguese, streamRequest{Message: "oi"})
	if augmented {
		t.Fatal("no retrieval configured, augmented must be false")
	}
	if len(messages) < 3 {
		t.Fatalf("expected greeting + base + summary + user, got %d messages", len(messages))
	}
	m := locale.For(locale.Portuguese)
	if messages[0].Role != chatModel.RoleSystem || messages[0].Content != m.GreetingInstruction {
		t.Fatalf("greeting instruction must lead: %+v", messages[0])
	}
	last := messages[len(messages)-1]
	if last.Role != chatModel.RoleUser || last.Content != "oi" {
		t.Fatalf("user message must be last: %+v", last)
	}
}

func TestComposeMessagesOrderWithSession(t *testing.T) {
	registry := sessionService.NewRegistry()
	sess := registry.Create(locale.English, "summary sentence", "fact line")
	h := New(nil, registry, nil, "")

	history := []chatModel.Message{
		chatModel.UserMessage("earlier question"),
		chatModel.AssistantMessage("earlier answer"),
	}
	messages, _ := h.composeMessages(context.Background(), "t", locale.English, streamRequest{
		Message:   "what next?",
		SessionID: sess.ID,
		History:   history,
	})

	m := locale.For(locale.English)
	if len(messages) != 6 {
		t.Fatalf("expected base + summary + facts + 2 history + user, got %d", len(messages))
	}
	if !strings.Contains(messages[1].Content, "summary sentence") || !strings.HasPrefix(messages[1].Content, m.ConsequencesLead) {
		t.Fatalf("summary paragraph wrong: %+v", messages[1])
	}
	if !strings.Contains(messages[2].Content, "fact line") {
		t.Fatalf("key facts paragraph wrong: %+v", messages[2])
	}
	if messages[3].Content != "earlier question" || messages[4].Content != "earlier answer" {
		t.Fatal("history must precede the user message in order")
	}
	if messages[5].Content != "what next?" {
		t.Fatalf("user message must be last: %+v", messages[5])
	}
}

func TestComposeMessagesDegradedWithoutSession(t *testing.T) {
	h := New(nil, sessionService.NewRegistry(), nil, "")

	zones := []impact.ConsequenceZone{
		{Name: "Thermal Zone", Severity: impact.SeverityModerate, RadiusKm: 25, Casualties: 10},
	}
	messages, _ := h.composeMessages(context.Background(), "t", locale.English, streamRequest{
		Message:      "help",
		SessionID:    "expired",
		Consequences: zones,
	})

	var found bool
	for _, m := range messages {
		if strings.Contains(m.Content, "Thermal Zone") {
			found = true
		}
	}
	if !found {
		t.Fatal("caller-supplied zones must feed the summary when the session is unknown")
	}
}
