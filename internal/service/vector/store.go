// Package vector provides per-session nearest-neighbor storage over
// small embedding vectors.
package vector

import "context"

// Record is one stored document with its embedding. IDs are unique
// within a session: upserting an existing id replaces the record in
// place.
type Record struct {
	ID        string
	Embedding []float32
	Document  string
	Metadata  map[string]any
}

// QueryResult is a retrieval hit. Distance is 1 - cosine similarity,
// so lower means more similar.
type QueryResult struct {
	ID       string
	Document string
	Distance float64
	Metadata map[string]any
}

// Store is the four-operation vector memory contract. A durable
// backend can substitute for the in-memory implementation as long as
// it honors the same semantics.
type Store interface {
	// Upsert replaces records sharing an id and appends new ones,
	// returning the resulting size of the session's collection.
	Upsert(ctx context.Context, sessionID string, records []Record) (int, error)

	// Query returns up to topK records ranked by ascending distance.
	// Sessions holding fewer than topK records return all of them.
	Query(ctx context.Context, sessionID string, embedding []float32, topK int) ([]QueryResult, error)

	// Clear removes the session's entire collection. Clearing an
	// unknown session is a no-op.
	Clear(ctx context.Context, sessionID string) error
}
