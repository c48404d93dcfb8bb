// Package embedding provides text embedding generation for retrieval
// augmentation.
package embedding

import "context"

// Embedder turns text into fixed-length vectors. Implementations call
// an external provider; failures propagate as hard errors and callers
// decide whether retrieval is best-effort.
type Embedder interface {
	// EmbedBatch generates one vector per input text, same order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the embedding model name in use.
	Model() string
}
