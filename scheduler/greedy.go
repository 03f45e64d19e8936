package scheduler

import (
	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// activeSet tracks the currently open timestamps during the greedy
// deactivation sweep. The two greedy variants differ only in this
// representation, so they return identical schedules.
type activeSet interface {
	slots() []int
	remove(t int)
	restore(t int)
}

// greedyProcess is the shared greedy 2-approximation for jobs with arbitrary
// integer durations. It opens the whole candidate universe, confirms
// feasibility once, then sweeps timestamps in increasing order and closes
// every slot the pool can do without, keeping the latest slots alive. The
// surviving set is inclusion-minimal, which bounds it within twice the
// optimal active time, and the initial check makes infeasibility reporting
// exact.
func greedyProcess(p pool.AbstractPool, g int, mk func(universe []int) activeSet) (schedule.Schedule, error) {
	if err := checkConcurrency(g); err != nil {
		return schedule.Schedule{}, err
	}

	jobs := p.Jobs()
	if totalDuration(jobs) == 0 {
		return schedule.Feasible(nil, buildEntries(jobs, nil)), nil
	}

	universe := candidateSlots(jobs)
	if _, ok := assignOn(jobs, universe, g); !ok {
		return schedule.Infeasible(), nil
	}

	open := mk(universe)
	for _, t := range universe {
		open.remove(t)
		if _, ok := assignOn(jobs, open.slots(), g); !ok {
			open.restore(t)
		}
	}

	final := open.slots()
	perJob, _ := assignOn(jobs, final, g)
	active := interval.MergeTimestamps(final)
	return schedule.Feasible(active, buildEntries(jobs, perJob)), nil
}

// GreedyScheduler is the timestamp-granular greedy 2-approximation: the open
// set is a dense table indexed by timestamp.
type GreedyScheduler struct{}

// Process schedules any contiguous- or multi-interval pool at concurrency g.
func (GreedyScheduler) Process(p pool.AbstractPool, g int) (schedule.Schedule, error) {
	return greedyProcess(p, g, func(universe []int) activeSet {
		return newDenseActiveSet(universe)
	})
}

type denseActiveSet struct {
	base int
	mask []bool
}

func newDenseActiveSet(universe []int) *denseActiveSet {
	base := universe[0]
	mask := make([]bool, universe[len(universe)-1]-base+1)
	for _, t := range universe {
		mask[t-base] = true
	}
	return &denseActiveSet{base: base, mask: mask}
}

func (s *denseActiveSet) slots() []int {
	slots := []int{}
	for i, isOpen := range s.mask {
		if isOpen {
			slots = append(slots, s.base+i)
		}
	}
	return slots
}

func (s *denseActiveSet) remove(t int)  { s.mask[t-s.base] = false }
func (s *denseActiveSet) restore(t int) { s.mask[t-s.base] = true }
