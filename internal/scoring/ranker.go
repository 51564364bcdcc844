package scoring

import "sort"

// Rank orders tasks by rating, highest first. Equal ratings keep their input
// order. The input slice is left untouched.
func Rank(scored []ScoredTask) []ScoredTask {
	order := RankOrder(scored)
	out := make([]ScoredTask, len(order))
	for i, idx := range order {
		out[i] = scored[idx]
	}
	return out
}

// RankOrder returns the input indices of scored in ranked order.
func RankOrder(scored []ScoredTask) []int {
	order := make([]int, len(scored))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scored[order[i]].Rating > scored[order[j]].Rating
	})
	return order
}
