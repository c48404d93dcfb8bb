package chat

import (
	"time"

	"github.com/meteormadness/backend/internal/locale"
)

// Session pairs a locale with summarized impact context for one
// analysis episode. Sessions are immutable after creation and live
// only for the process lifetime.
type Session struct {
	ID             string        `json:"id"`
	Locale         locale.Locale `json:"locale"`
	ContextSummary string        `json:"contextSummary"`
	KeyFacts       string        `json:"keyFacts,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}
