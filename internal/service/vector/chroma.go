package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ChromaStore implements Store against a Chroma HTTP server. Each
// session maps to its own collection so Clear can drop it wholesale.
type ChromaStore struct {
	baseURL    string
	httpClient *http.Client
}

// NewChromaStore creates a Chroma-backed store.
func NewChromaStore(baseURL string, timeout time.Duration) *ChromaStore {
	return &ChromaStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chromaCollection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type chromaAddRequest struct {
	IDs        []string         `json:"ids"`
	Documents  []string         `json:"documents,omitempty"`
	Metadatas  []map[string]any `json:"metadatas,omitempty"`
	Embeddings [][]float32      `json:"embeddings,omitempty"`
}

type chromaQueryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results,omitempty"`
}

type chromaQueryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Distances [][]float64        `json:"distances,omitempty"`
	Metadatas [][]map[string]any `json:"metadatas,omitempty"`
}

func (s *ChromaStore) collectionName(sessionID string) string {
	return "impact_" + sessionID
}

// Upsert ensures the session's collection and upserts the records.
// Chroma does not report collection sizes on upsert, so the count
// endpoint is consulted afterwards.
func (s *ChromaStore) Upsert(ctx context.Context, sessionID string, records []Record) (int, error) {
	coll, err := s.ensureCollection(ctx, s.collectionName(sessionID))
	if err != nil {
		return 0, err
	}

	add := chromaAddRequest{
		IDs:        make([]string, len(records)),
		Documents:  make([]string, len(records)),
		Metadatas:  make([]map[string]any, len(records)),
		Embeddings: make([][]float32, len(records)),
	}
	for i, r := range records {
		add.IDs[i] = r.ID
		add.Documents[i] = r.Document
		add.Metadatas[i] = r.Metadata
		add.Embeddings[i] = r.Embedding
	}

	if err := s.post(ctx, fmt.Sprintf("/api/v1/collections/%s/upsert", coll.ID), add, nil); err != nil {
		return 0, fmt.Errorf("chroma upsert failed: %w", err)
	}

	var count int
	if err := s.get(ctx, fmt.Sprintf("/api/v1/collections/%s/count", coll.ID), &count); err != nil {
		return 0, fmt.Errorf("chroma count failed: %w", err)
	}
	return count, nil
}

// Query runs a similarity query against the session's collection.
func (s *ChromaStore) Query(ctx context.Context, sessionID string, embedding []float32, topK int) ([]QueryResult, error) {
	coll, err := s.getCollection(ctx, s.collectionName(sessionID))
	if err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, nil
	}

	var resp chromaQueryResponse
	q := chromaQueryRequest{QueryEmbeddings: [][]float32{embedding}, NResults: topK}
	if err := s.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", coll.ID), q, &resp); err != nil {
		return nil, fmt.Errorf("chroma query failed: %w", err)
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	results := make([]QueryResult, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		r := QueryResult{ID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			r.Document = resp.Documents[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			r.Distance = resp.Distances[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			r.Metadata = resp.Metadatas[0][i]
		}
		results = append(results, r)
	}
	return results, nil
}

// Clear deletes the session's collection; a missing collection is a
// no-op.
func (s *ChromaStore) Clear(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		s.baseURL+"/api/v1/collections/"+url.PathEscape(s.collectionName(sessionID)), nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chroma delete failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("chroma delete failed with status %d", resp.StatusCode)
	}
	return nil
}

func (s *ChromaStore) getCollection(ctx context.Context, name string) (*chromaCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/api/v1/collections/by_name?name="+url.QueryEscape(name), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chroma get collection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chroma get collection failed with status %d", resp.StatusCode)
	}

	var coll chromaCollection
	if err := json.NewDecoder(resp.Body).Decode(&coll); err != nil {
		return nil, fmt.Errorf("chroma returned invalid JSON: %w", err)
	}
	return &coll, nil
}

func (s *ChromaStore) ensureCollection(ctx context.Context, name string) (*chromaCollection, error) {
	coll, err := s.getCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if coll != nil {
		return coll, nil
	}

	var created chromaCollection
	if err := s.post(ctx, "/api/v1/collections", map[string]any{"name": name}, &created); err != nil {
		return nil, fmt.Errorf("chroma create collection failed: %w", err)
	}
	return &created, nil
}

func (s *ChromaStore) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *ChromaStore) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
