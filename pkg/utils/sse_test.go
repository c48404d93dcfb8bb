package utils

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendSSEEventFraming(t *testing.T) {
	rec := httptest.NewRecorder()

	SendSSEEvent(rec, rec, "token", "A")
	if got := rec.Body.String(); got != "event: token\ndata: \"A\"\n\n" {
		t.Fatalf("unexpected framing: %q", got)
	}
}

func TestSendSSERawFraming(t *testing.T) {
	rec := httptest.NewRecorder()

	SendSSERaw(rec, rec, "done", "[DONE]")
	if got := rec.Body.String(); got != "event: done\ndata: [DONE]\n\n" {
		t.Fatalf("unexpected framing: %q", got)
	}
}

func TestSetupSSEHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	SetupSSEHeaders(rec)
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/event-stream") {
		t.Fatalf("unexpected content type: %q", got)
	}
	if rec.Header().Get("X-Accel-Buffering") != "no" {
		t.Fatal("proxy buffering must be disabled")
	}
}

func TestTraceID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := TraceID()
		if len(id) != 8 {
			t.Fatalf("expected 8-char trace id, got %q", id)
		}
		for _, r := range id {
			if !strings.ContainsRune(traceIDChars, r) {
				t.Fatalf("unexpected character %q in trace id %q", r, id)
			}
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Fatal("trace ids should not all collide")
	}
}
