// Package similarity provides exact nearest-neighbour ranking for stores
// that keep embeddings locally and have no native vector index.
package similarity

import (
	"math"
	"sort"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Mismatched lengths and zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Score maps a cosine similarity onto [0, 1] as (1+cos)/2, the scale Atlas
// reports as vectorSearchScore. Thresholds are compared against this value
// on every backend.
func Score(cosine float64) float64 {
	return (1 + cosine) / 2
}

// CosineThreshold converts a threshold on the Score scale back to a raw
// cosine, for indexes that filter on cosine directly.
func CosineThreshold(threshold float64) float64 {
	return 2*threshold - 1
}

// Candidate is a stored chunk paired with its embedding.
type Candidate struct {
	Chunk     domain.Chunk
	Embedding []float32
}

// Rank scores every candidate against query and returns the hits a vector
// index would: best first, capped at the limit, then filtered by threshold.
// Ties keep the candidates' original order.
func Rank(query []float32, candidates []Candidate, opts domain.SearchOptions) []domain.SearchHit {
	opts = opts.WithDefaults()

	hits := make([]domain.SearchHit, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, domain.SearchHit{
			Chunk: c.Chunk,
			Score: Score(Cosine(query, c.Embedding)),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	limit := opts.Limit
	if opts.Candidates < limit {
		limit = opts.Candidates
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	filtered := hits[:0]
	for _, h := range hits {
		if h.Score >= opts.Threshold {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
