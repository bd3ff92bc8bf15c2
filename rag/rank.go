package rag

import (
	"slices"

	"github.com/SaiNageswarS/go-collection-boot/ds"
)

// Reciprocal-rank fusion parameters. Rank-based fusion sidesteps the scale
// mismatch between BM25 and cosine scores; the constant k dampens the gap
// between the top ranks.
const (
	rrfK               = 60
	textSearchWeight   = 1.0
	vectorSearchWeight = 1.0
)

// rankByPosition converts an ordered hit list into id -> 1-based rank,
// keeping the first (best) position for duplicate ids.
func rankByPosition(ids []string) map[string]int {
	ranks := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, seen := ranks[id]; !seen {
			ranks[id] = i + 1
		}
	}
	return ranks
}

// fuseRanks merges the two engines' rankings with RRF,
// score(id) = sum of weight_e / (rrfK + rank_e(id)), and returns the top
// limit ids, best first.
func fuseRanks(textRanks, vectorRanks map[string]int, limit int) []string {
	combined := make(map[string]float64)
	for id, r := range textRanks {
		combined[id] = textSearchWeight / float64(rrfK+r)
	}
	for id, r := range vectorRanks {
		combined[id] += vectorSearchWeight / float64(rrfK+r)
	}

	type pair struct {
		id    string
		score float64
	}

	h := ds.NewMinHeap(func(a, b pair) bool { return a.score < b.score })
	for id, sc := range combined {
		h.Push(pair{id, sc})
		if h.Len() > limit {
			h.Pop()
		}
	}

	sorted := h.ToSortedSlice()
	ids := make([]string, 0, len(sorted))
	for _, p := range sorted {
		ids = append(ids, p.id)
	}
	slices.Reverse(ids) // highest score first
	return ids
}
