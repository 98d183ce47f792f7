// Package similarity provides vector similarity scoring and ranking.
package similarity

import (
	"math"
	"sort"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value in [-1, 1]. Vectors of different lengths, empty vectors
// and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push identical vectors a hair past the bounds.
	return math.Max(-1, math.Min(1, sim))
}

// Candidate is a stored vector that can be ranked against a query.
type Candidate struct {
	ID     string
	Vector []float32
}

// Match is a ranked candidate.
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// TopK ranks candidates by similarity to query, highest first, skipping ids
// in exclude. Ties keep candidate order. A k of zero or less returns every
// match.
func TopK(query []float32, candidates []Candidate, k int, exclude []string) []Match {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if skip[c.ID] {
			continue
		}
		matches = append(matches, Match{ID: c.ID, Score: CosineSimilarity(query, c.Vector)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
