package vectordb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/drp-labs/spokesbot/schema"
)

// MemoryStore is an in-process vector store. It backs local deployments and
// tests, where a Milvus instance is not worth running.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]schema.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]schema.Document)}
}

func (s *MemoryStore) AddDocs(ctx context.Context, docs []schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("document has no id")
		}
		s.docs[doc.ID] = doc
	}
	return nil
}

func (s *MemoryStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	if opts == nil {
		opts = &schema.SearchOptions{}
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = 10
	}

	s.mu.RLock()
	results := make([]schema.SearchResult, 0, len(s.docs))
	for _, doc := range s.docs {
		if opts.DocType != "" && doc.DocType != opts.DocType {
			continue
		}
		score := cosineSimilarity(vector, doc.Vector)
		if opts.Threshold > 0 && score < opts.Threshold {
			continue
		}
		results = append(results, schema.SearchResult{Document: doc, Score: score})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (s *MemoryStore) ListDocs(ctx context.Context, limit int) ([]schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]schema.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	return docs, nil
}

func (s *MemoryStore) DeleteDocs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.docs, id)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
