// Package rag indexes impact context into the vector store and builds
// the retrieved-context prompt block for a question.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/meteormadness/backend/internal/embedding"
	"github.com/meteormadness/backend/internal/locale"
	"github.com/meteormadness/backend/internal/model/chat"
	"github.com/meteormadness/backend/internal/model/impact"
	"github.com/meteormadness/backend/internal/service/vector"
)

// topKHits bounds how many retrieval hits feed the prompt.
const topKHits = 4

// Service glues the embedder and the vector store. Retrieval augments
// answer quality but is never on the critical path for availability;
// callers treat every error here as best-effort.
type Service struct {
	store    vector.Store
	embedder embedding.Embedder
}

// NewService creates a retrieval service.
func NewService(store vector.Store, embedder embedding.Embedder) *Service {
	return &Service{store: store, embedder: embedder}
}

// IndexImpactContext embeds and upserts the session's context summary
// plus one document per consequence zone, returning the resulting
// collection size.
func (s *Service) IndexImpactContext(ctx context.Context, sess chat.Session, zones []impact.ConsequenceZone) (int, error) {
	docs := make([]vector.Record, 0, len(zones)+1)
	docs = append(docs, vector.Record{
		ID:       sess.ID + ":summary",
		Document: sess.ContextSummary,
		Metadata: map[string]any{"type": "summary", "locale": string(sess.Locale)},
	})
	for i, z := range zones {
		docs = append(docs, vector.Record{
			ID:       fmt.Sprintf("%s:zone:%d", sess.ID, i),
			Document: z.Document(),
			Metadata: map[string]any{
				"type":       "zone",
				"index":      i,
				"name":       z.Name,
				"severity":   z.Severity,
				"radiusKm":   z.RadiusKm,
				"casualties": z.Casualties,
			},
		})
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Document
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed impact context: %w", err)
	}
	for i := range docs {
		docs[i].Embedding = vectors[i]
	}

	count, err := s.store.Upsert(ctx, sess.ID, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert impact context: %w", err)
	}
	return count, nil
}

// RetrievedContext queries the session's vectors with the question and
// formats the hits as a localized bulleted block. An empty string with
// nil error means the session simply has nothing stored.
func (s *Service) RetrievedContext(ctx context.Context, sessionID string, loc locale.Locale, question string) (string, error) {
	vectors, err := s.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}

	hits, err := s.store.Query(ctx, sessionID, vectors[0], topKHits)
	if err != nil {
		return "", fmt.Errorf("failed to query vectors: %w", err)
	}
	if len(hits) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString(locale.For(loc).RetrievedContextLead)
	for _, h := range hits {
		b.WriteString("\n- ")
		b.WriteString(h.Document)
	}
	return b.String(), nil
}

// ClearSession drops the session's vectors; used by the registry's
// eviction hook.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
