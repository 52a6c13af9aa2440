package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			return nil, errors.New("no stub vector for " + text)
		}
		out[i] = vec
	}
	return out, nil
}

func TestMemoryStore_RetrieveRanksByCosine(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"We turn every ball from Vermont maple.":    {1, 0, 0},
		"Orders ship within five business days.":    {0, 1, 0},
		"Rivertown was founded in 1952 by Ida Mae.": {0, 0, 1},
		"Walnut spheres are finished with beeswax.": {0.8, 0, 0.2},
		"what wood do you use?":                     {0.9, 0.1, 0},
	}}
	store := NewMemoryStore(embedder, 2, logging.Discard())

	require.NoError(t, store.AddDocuments(context.Background(), []string{
		"We turn every ball from Vermont maple.",
		"Orders ship within five business days.",
		"Rivertown was founded in 1952 by Ida Mae.",
		"Walnut spheres are finished with beeswax.",
		"   ",
	}))
	assert.Equal(t, 4, store.Len())

	got, err := store.Retrieve(context.Background(), "what wood do you use?")
	require.NoError(t, err)
	assert.Equal(t, "We turn every ball from Vermont maple.\n\nWalnut spheres are finished with beeswax.", got)
}

func TestMemoryStore_EmptyStoreSkipsEmbedding(t *testing.T) {
	embedder := &stubEmbedder{}
	store := NewMemoryStore(embedder, 0, logging.Discard())

	got, err := store.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, embedder.calls)
}

func TestMemoryStore_EmbeddingError(t *testing.T) {
	store := NewMemoryStore(&stubEmbedder{err: errors.New("throttled")}, 3, logging.Discard())

	err := store.AddDocuments(context.Background(), []string{"a"})
	assert.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 1}, []float32{2, 2}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}
