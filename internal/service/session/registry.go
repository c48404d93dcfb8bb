// Package session maps opaque identifiers to the impact context a
// conversation was created with.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meteormadness/backend/internal/locale"
	"github.com/meteormadness/backend/internal/model/chat"
)

// DefaultMaxSessions bounds registry growth under sustained load.
const DefaultMaxSessions = 1000

// Registry owns the in-memory session map. Sessions are immutable
// after creation and evicted FIFO once the cap is reached; there is no
// update or delete operation.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]chat.Session
	order       []string
	maxSessions int
	onEvict     func(id string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxSessions overrides the session cap. Values below 1 fall back
// to the default.
func WithMaxSessions(n int) Option {
	return func(r *Registry) {
		if n >= 1 {
			r.maxSessions = n
		}
	}
}

// WithEvictionHook registers a callback fired with the id of every
// evicted session, so callers can release per-session resources such
// as vector collections.
func WithEvictionHook(fn func(id string)) Option {
	return func(r *Registry) {
		r.onEvict = fn
	}
}

// NewRegistry bootstraps an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions:    make(map[string]chat.Session),
		maxSessions: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create provisions a session with a fresh unique identifier.
func (r *Registry) Create(loc locale.Locale, contextSummary, keyFacts string) chat.Session {
	sess := chat.Session{
		ID:             uuid.NewString(),
		Locale:         loc,
		ContextSummary: contextSummary,
		KeyFacts:       keyFacts,
		CreatedAt:      time.Now().UTC(),
	}

	var evicted []string
	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.order = append(r.order, sess.ID)
	for len(r.order) > r.maxSessions {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, oldest)
		evicted = append(evicted, oldest)
	}
	r.mu.Unlock()

	if r.onEvict != nil {
		for _, id := range evicted {
			r.onEvict(id)
		}
	}
	return sess
}

// Get looks up a session by identifier. The second return reports
// whether the session exists, so callers can fall back to
// request-supplied context instead of failing.
func (r *Registry) Get(id string) (chat.Session, bool) {
	if id == "" {
		return chat.Session{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Len reports how many sessions are currently stored.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
