package bpptree

import "kvindex/bpptree/index"

// Stats walks the leaf chain once from head, computing size, leaf count,
// average utilization, and model coverage.
func (t *Tree[K, V]) Stats() index.Stats {
	var (
		size, leaves, leavesWithModels int
		utilizationSum                 float64
	)
	for l := t.head; l != nil; l = l.next {
		size += l.liveCount
		leaves++
		utilizationSum += float64(l.liveCount) / float64(l.cap)
		if l.model.trained {
			leavesWithModels++
		}
	}

	stats := index.Stats{
		Size:             size,
		Leaves:           leaves,
		Height:           height[K, V](t.root),
		LeavesWithModels: leavesWithModels,
	}
	if leaves > 0 {
		stats.AvgUtilization = utilizationSum / float64(leaves)
	}
	if total := t.hits + t.misses; total > 0 {
		stats.HasModelHitRate = true
		stats.ModelHitRate = float64(t.hits) / float64(total)
	}
	return stats
}
