package knowledge

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// DefaultTopK is how many passages a query returns unless configured.
const DefaultTopK = 3

// MemoryStore keeps embedded passages in memory and answers queries by cosine
// similarity.
type MemoryStore struct {
	embedder Embedder
	topK     int
	logger   *logging.Logger

	mu       sync.RWMutex
	passages []passage
}

type passage struct {
	content   string
	embedding []float32
}

func NewMemoryStore(embedder Embedder, topK int, logger *logging.Logger) *MemoryStore {
	if embedder == nil {
		panic("knowledge: embedder cannot be nil")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryStore{embedder: embedder, topK: topK, logger: logger}
}

// AddDocuments embeds and stores the non-blank contents.
func (s *MemoryStore) AddDocuments(ctx context.Context, contents []string) error {
	docs := make([]string, 0, len(contents))
	for _, c := range contents {
		if strings.TrimSpace(c) != "" {
			docs = append(docs, strings.TrimSpace(c))
		}
	}
	if len(docs) == 0 {
		return nil
	}

	vectors, err := s.embedder.Embed(ctx, docs)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return errors.New("knowledge: embedding response size mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, vec := range vectors {
		s.passages = append(s.passages, passage{content: docs[i], embedding: vec})
	}
	s.logger.Info("knowledge: documents added", "added", len(docs), "total", len(s.passages))
	return nil
}

// Len reports how many passages are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages)
}

// Query returns up to topK passages ranked by similarity to query.
func (s *MemoryStore) Query(ctx context.Context, query string) ([]string, error) {
	if s.Len() == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVec := vectors[0]

	type scored struct {
		score   float64
		content string
	}

	s.mu.RLock()
	results := make([]scored, 0, len(s.passages))
	for _, p := range s.passages {
		results = append(results, scored{score: cosineSimilarity(queryVec, p.embedding), content: p.content})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	limit := min(s.topK, len(results))
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = results[i].content
	}
	return out, nil
}

// Retrieve returns the best passages joined by blank lines, or "" when the
// store is empty.
func (s *MemoryStore) Retrieve(ctx context.Context, query string) (string, error) {
	passages, err := s.Query(ctx, query)
	if err != nil {
		return "", err
	}
	return strings.Join(passages, "\n\n"), nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
