package scheduler

import (
	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// BruteForceScheduler enumerates candidate active-timestamp subsets in
// increasing size and returns the first feasible one, so its active-slot
// count is the exact optimum. It is the reference oracle for the other
// schedulers; its cost is exponential in the timeline and it should only be
// run on small pools.
type BruteForceScheduler struct{}

// Process computes an optimal schedule, or infeasibility, for any pool
// variant at concurrency g.
func (BruteForceScheduler) Process(p pool.AbstractPool, g int) (schedule.Schedule, error) {
	if err := checkConcurrency(g); err != nil {
		return schedule.Schedule{}, err
	}

	jobs := p.Jobs()
	if totalDuration(jobs) == 0 {
		return schedule.Feasible(nil, buildEntries(jobs, nil)), nil
	}

	slots := candidateSlots(jobs)
	for size := 1; size <= len(slots); size++ {
		subset := make([]int, 0, size)
		if perJob, ok := searchSubsets(jobs, slots, subset, 0, size, g); ok {
			active := interval.MergeTimestamps(usedSlots(perJob))
			return schedule.Feasible(active, buildEntries(jobs, perJob)), nil
		}
	}
	return schedule.Infeasible(), nil
}

// searchSubsets walks size-element subsets of slots in lexicographic order
// and reports the first one admitting a full assignment.
func searchSubsets(jobs []pool.Job, slots, subset []int, from, size, g int) (map[int][]int, bool) {
	if len(subset) == size {
		return assignOn(jobs, subset, g)
	}
	// Not enough slots left to complete the subset.
	for i := from; i <= len(slots)-(size-len(subset)); i++ {
		if perJob, ok := searchSubsets(jobs, slots, append(subset, slots[i]), i+1, size, g); ok {
			return perJob, ok
		}
	}
	return nil, false
}
