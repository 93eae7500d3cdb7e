package metric

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/vaani-ai/vaani/pkg/provider/embeddings"
)

// SemanticScorer computes the semantic distance between two strings:
// 1 − cosine_similarity(embedding(hypothesis), embedding(reference)).
// The result lies in [0, 2]; 0 means identical meaning.
//
// WER and CER penalize every lexical deviation equally, so a model that
// paraphrases or reorders correctly scores the same as one that hallucinates.
// Semantic distance separates the two.
//
// The embedding backend is injected at construction — there is no hidden
// global model. Use [NewSemanticScorer] when the provider already exists, or
// [NewLazySemanticScorer] to defer the (expensive) provider construction
// until first use; the lazy path is guarded so the provider is constructed at
// most once per scorer even under concurrent callers.
type SemanticScorer struct {
	build func() (embeddings.Provider, error)

	once     sync.Once
	provider embeddings.Provider
	err      error
}

// NewSemanticScorer returns a scorer over an already-constructed provider.
func NewSemanticScorer(p embeddings.Provider) *SemanticScorer {
	return &SemanticScorer{build: func() (embeddings.Provider, error) {
		return p, nil
	}}
}

// NewLazySemanticScorer returns a scorer that constructs its provider on
// first use via build. Construction failures are remembered and returned from
// every subsequent call — semantic distance has no fallback metric, so the
// failure is surfaced to the caller rather than degraded silently.
func NewLazySemanticScorer(build func() (embeddings.Provider, error)) *SemanticScorer {
	return &SemanticScorer{build: build}
}

// Distance returns 1 − cosine similarity between the embeddings of
// hypothesis and reference.
func (s *SemanticScorer) Distance(ctx context.Context, hypothesis, reference string) (float64, error) {
	s.once.Do(func() {
		s.provider, s.err = s.build()
		if s.err == nil && s.provider == nil {
			s.err = fmt.Errorf("semdist: provider constructor returned nil")
		}
	})
	if s.err != nil {
		return 0, fmt.Errorf("semdist: embeddings provider unavailable: %w", s.err)
	}

	vecs, err := s.provider.EmbedBatch(ctx, []string{hypothesis, reference})
	if err != nil {
		return 0, fmt.Errorf("semdist: embed: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("semdist: expected 2 embeddings, got %d", len(vecs))
	}

	cos, err := cosineSimilarity(vecs[0], vecs[1])
	if err != nil {
		return 0, fmt.Errorf("semdist: %w", err)
	}
	return 1 - cos, nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty embedding vector")
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
