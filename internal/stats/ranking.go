package stats

import (
	"sort"

	"github.com/verte-zerg/shuttle/internal/model"
)

// BusiestCorners returns the top N corner indexes by pick count.
func BusiestCorners(aggs []model.CornerAggregate, n int) []int {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.CornerAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Picks == items[j].Picks {
			return items[i].Corner < items[j].Corner
		}
		return items[i].Picks > items[j].Picks
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Corner)
	}
	return out
}

// LeastVisitedCorner returns the corner with the fewest recorded picks,
// counting corners absent from aggs as zero. Returns -1 when aggs is empty.
func LeastVisitedCorner(aggs []model.CornerAggregate) int {
	if len(aggs) == 0 {
		return -1
	}
	var picks [model.NumCorners]int
	for _, agg := range aggs {
		if agg.Corner >= 0 && agg.Corner < model.NumCorners {
			picks[agg.Corner] = agg.Picks
		}
	}
	best := 0
	for i := 1; i < model.NumCorners; i++ {
		if picks[i] < picks[best] {
			best = i
		}
	}
	return best
}
