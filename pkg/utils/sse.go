package utils

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
)

// SetupSSEHeaders sets the Server-Sent Events response headers and
// disables intermediary buffering.
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// SendSSEEvent sends a typed SSE event with a JSON-encoded payload.
func SendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal sse event data", "event", event, "error", err)
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	flusher.Flush()
}

// SendSSERaw sends a typed SSE event with a raw data payload, for
// protocol markers that are not JSON.
func SendSSERaw(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

const traceIDChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// TraceID returns an 8-character alphanumeric token for log
// correlation. Not an authorization token.
func TraceID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = traceIDChars[rand.Intn(len(traceIDChars))]
	}
	return string(b)
}
