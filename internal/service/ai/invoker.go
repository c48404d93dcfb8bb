package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meteormadness/backend/internal/model/chat"
)

// ChatCompleter is the single-call completion dependency the invoker
// wraps. *Client satisfies it; tests substitute fakes.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// InvokeConfig governs one resilient invocation. Zero values fall back
// to the invoker's defaults.
type InvokeConfig struct {
	Retries       int
	Timeout       time.Duration
	Temperature   float64
	MaxTokens     int
	Model         string
	SystemMessage string
}

// DefaultInvokeConfig returns the process-wide invocation defaults.
func DefaultInvokeConfig() InvokeConfig {
	return InvokeConfig{
		Retries:     3,
		Timeout:     30 * time.Second,
		Temperature: 0.7,
		MaxTokens:   4096,
		Model:       DefaultModel,
	}
}

// InvokeMetadata is populated on every outcome, success or failure.
type InvokeMetadata struct {
	Model       string        `json:"model"`
	Duration    time.Duration `json:"duration"`
	RetriesUsed int           `json:"retriesUsed"`
}

// InvokeResult carries the completion text or the last error after
// retries were exhausted. The invoker never transforms response
// content; it only governs attempt count and timing.
type InvokeResult struct {
	Success  bool           `json:"success"`
	Data     string         `json:"data,omitempty"`
	Err      string         `json:"error,omitempty"`
	Usage    *Usage         `json:"usage,omitempty"`
	Metadata InvokeMetadata `json:"metadata"`
}

const defaultBackoffBase = time.Second

// Invoker wraps a ChatCompleter with timeout and bounded
// exponential-backoff retry.
type Invoker struct {
	client      ChatCompleter
	defaults    InvokeConfig
	backoffBase time.Duration
}

// InvokerOption configures an Invoker.
type InvokerOption func(*Invoker)

// WithBackoffBase overrides the base backoff delay (1s by default).
func WithBackoffBase(d time.Duration) InvokerOption {
	return func(inv *Invoker) {
		if d > 0 {
			inv.backoffBase = d
		}
	}
}

// NewInvoker creates an invoker around the given client. Zero fields
// in defaults are filled from DefaultInvokeConfig.
func NewInvoker(client ChatCompleter, defaults InvokeConfig, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		client:      client,
		defaults:    mergeConfig(DefaultInvokeConfig(), defaults),
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke runs a single-prompt completion through the retry machinery.
func (inv *Invoker) Invoke(ctx context.Context, prompt string, cfg InvokeConfig) InvokeResult {
	cfg = mergeConfig(inv.defaults, cfg)

	messages := make([]chat.Message, 0, 2)
	if cfg.SystemMessage != "" {
		messages = append(messages, chat.SystemMessage(cfg.SystemMessage))
	}
	messages = append(messages, chat.UserMessage(prompt))

	return inv.run(ctx, messages, cfg)
}

// InvokeWithHistory runs a completion over prior turns plus the new
// message. On success the returned history includes the new user turn
// and the assistant reply; on failure the input history is returned
// unchanged.
func (inv *Invoker) InvokeWithHistory(ctx context.Context, message string, history []chat.Message, cfg InvokeConfig) (InvokeResult, []chat.Message) {
	cfg = mergeConfig(inv.defaults, cfg)

	messages := make([]chat.Message, 0, len(history)+2)
	if cfg.SystemMessage != "" {
		messages = append(messages, chat.SystemMessage(cfg.SystemMessage))
	}
	messages = append(messages, history...)
	messages = append(messages, chat.UserMessage(message))

	result := inv.run(ctx, messages, cfg)
	if !result.Success {
		return result, history
	}

	updated := make([]chat.Message, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated, chat.UserMessage(message), chat.AssistantMessage(result.Data))
	return result, updated
}

func (inv *Invoker) run(ctx context.Context, messages []chat.Message, cfg InvokeConfig) InvokeResult {
	start := time.Now()

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= cfg.Retries; attempt++ {
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		resp, err := inv.client.CreateChatCompletion(attemptCtx, &ChatRequest{
			Model:       cfg.Model,
			Messages:    messages,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
				err = fmt.Errorf("no valid choice in completion response")
			} else {
				return InvokeResult{
					Success: true,
					Data:    resp.Choices[0].Message.Content,
					Usage:   resp.Usage,
					Metadata: InvokeMetadata{
						Model:       cfg.Model,
						Duration:    time.Since(start),
						RetriesUsed: attempts - 1,
					},
				}
			}
		}
		lastErr = err

		if attempt == cfg.Retries {
			break
		}

		backoff := inv.backoffBase << (attempt - 1)
		slog.Warn("completion attempt failed, backing off",
			"attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			lastErr = ctx.Err()
			attempt = cfg.Retries
		}
	}

	return InvokeResult{
		Success: false,
		Err:     lastErr.Error(),
		Metadata: InvokeMetadata{
			Model:       cfg.Model,
			Duration:    time.Since(start),
			RetriesUsed: attempts - 1,
		},
	}
}

func mergeConfig(base, override InvokeConfig) InvokeConfig {
	merged := base
	if override.Retries > 0 {
		merged.Retries = override.Retries
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}
	if override.Temperature != 0 {
		merged.Temperature = override.Temperature
	}
	if override.MaxTokens > 0 {
		merged.MaxTokens = override.MaxTokens
	}
	if override.Model != "" {
		merged.Model = override.Model
	}
	if override.SystemMessage != "" {
		merged.SystemMessage = override.SystemMessage
	}
	return merged
}
