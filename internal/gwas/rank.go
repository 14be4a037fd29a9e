package gwas

import "sort"

// RankByPValue returns the topN most significant items, sorted by p-value
// ascending. Items without a parseable p-value are dropped before ranking.
// The sort is stable so records tied on p-value keep their upstream order.
func RankByPValue(items []map[string]any, topN int) []map[string]any {
	type ranked struct {
		item map[string]any
		p    float64
	}

	candidates := make([]ranked, 0, len(items))
	for _, item := range items {
		if p, ok := PValue(item); ok {
			candidates = append(candidates, ranked{item: item, p: p})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].p < candidates[j].p
	})

	if topN > 0 && topN < len(candidates) {
		candidates = candidates[:topN]
	}

	out := make([]map[string]any, len(candidates))
	for i, c := range candidates {
		out[i] = c.item
	}
	return out
}
