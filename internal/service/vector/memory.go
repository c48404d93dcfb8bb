package vector

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore keeps each session's records in insertion order so query
// ties and iteration stay deterministic.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Record
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]Record)}
}

// Upsert replaces records sharing an id in place and appends new ones.
func (s *MemoryStore) Upsert(_ context.Context, sessionID string, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.sessions[sessionID]
	index := make(map[string]int, len(existing))
	for i, r := range existing {
		index[r.ID] = i
	}

	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			existing[i] = r
			continue
		}
		existing = append(existing, r)
		index[r.ID] = len(existing) - 1
	}

	s.sessions[sessionID] = existing
	return len(existing), nil
}

// Query ranks the session's records by cosine similarity against the
// query embedding. Both sides are L2-normalized at query time.
func (s *MemoryStore) Query(_ context.Context, sessionID string, embedding []float32, topK int) ([]QueryResult, error) {
	s.mu.RLock()
	records := s.sessions[sessionID]
	scored := make([]QueryResult, 0, len(records))

	q := normalize(embedding)
	for _, r := range records {
		scored = append(scored, QueryResult{
			ID:       r.ID,
			Document: r.Document,
			Distance: 1 - dot(q, normalize(r.Embedding)),
			Metadata: r.Metadata,
		})
	}
	s.mu.RUnlock()

	// Stable sort keeps insertion order among equal similarities.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	if topK >= 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// Clear removes the session's collection; unknown sessions are a no-op.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1
	}

	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x) / norm
	}
	return out
}
