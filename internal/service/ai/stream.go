package ai

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TokenStream is a lazy, finite, non-restartable sequence of delta
// tokens decoded from an upstream SSE response. Recv blocks on the
// transport and returns tokens in arrival order; io.EOF marks the end
// of the stream.
type TokenStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	done   bool
}

func newTokenStream(body io.ReadCloser) *TokenStream {
	return &TokenStream{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

// Recv returns the next non-empty delta token. Only incremental deltas
// are consumed; complete-snapshot events are ignored so content is
// never emitted twice. An upstream [DONE] marker and a silent
// transport close both end the stream as io.EOF.
func (s *TokenStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			s.done = true
			if err == io.EOF {
				// Upstream closed without [DONE]; treat as completion.
				return "", io.EOF
			}
			return "", fmt.Errorf("failed to read stream: %w", err)
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			s.done = true
			return "", io.EOF
		}

		var chunk ChatResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Non-JSON payload; ignore.
			continue
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
			continue
		}

		if token := chunk.Choices[0].Delta.Content; token != "" {
			return token, nil
		}
	}
}

// Close releases the underlying transport. Safe to call after EOF.
func (s *TokenStream) Close() error {
	s.done = true
	return s.body.Close()
}
