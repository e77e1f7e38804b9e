package memory

import (
	"math"
	"sort"

	"research-crew/internal/domain/entity"
)

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// rank scores items against the query and keeps the best limit matches.
// Ties keep insertion order.
func rank(items []entity.MemoryItem, query []float32, limit int) []entity.MemoryMatch {
	matches := make([]entity.MemoryMatch, 0, len(items))
	for _, it := range items {
		matches = append(matches, entity.MemoryMatch{Item: it, Score: cosine(it.Embedding, query)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
