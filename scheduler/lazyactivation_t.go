package scheduler

import (
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// LazyActivationSchedulerT is the dense-array variant of lazy activation:
// loads, open flags and per-slot assignments are indexed directly by
// timestamp, giving O(n*T) behaviour over a horizon of T timestamps. Exact
// for unit-duration jobs.
type LazyActivationSchedulerT struct{}

// Process schedules a pool of unit-duration jobs with contiguous windows at
// concurrency g, minimising the number of active timestamps.
func (LazyActivationSchedulerT) Process(p pool.AbstractPool, g int) (schedule.Schedule, error) {
	return lazyProcess(p, g, func(horizon int) lazyState {
		return newDenseLazyState(horizon)
	})
}

type denseLazyState struct {
	opened []bool
	loads  []int
	at     [][]int
}

func newDenseLazyState(horizon int) *denseLazyState {
	return &denseLazyState{
		opened: make([]bool, horizon),
		loads:  make([]int, horizon),
		at:     make([][]int, horizon),
	}
}

func (s *denseLazyState) open(t int) { s.opened[t] = true }

func (s *denseLazyState) load(t int) int { return s.loads[t] }

func (s *denseLazyState) assign(jobID, t int) {
	s.loads[t]++
	s.at[t] = append(s.at[t], jobID)
}

func (s *denseLazyState) unassign(jobID, t int) {
	s.loads[t]--
	for i, id := range s.at[t] {
		if id == jobID {
			s.at[t] = append(s.at[t][:i], s.at[t][i+1:]...)
			return
		}
	}
}

func (s *denseLazyState) jobsAt(t int) []int { return s.at[t] }

func (s *denseLazyState) latestOpenWithCapacity(lo, hi, g int) (int, bool) {
	for t := hi; t >= lo; t-- {
		if s.opened[t] && s.loads[t] < g {
			return t, true
		}
	}
	return 0, false
}

func (s *denseLazyState) openSlotsDesc(lo, hi int) []int {
	slots := []int{}
	for t := hi; t >= lo; t-- {
		if s.opened[t] {
			slots = append(slots, t)
		}
	}
	return slots
}

func (s *denseLazyState) latestClosed(lo, hi int) (int, bool) {
	for t := hi; t >= lo; t-- {
		if !s.opened[t] {
			return t, true
		}
	}
	return 0, false
}

func (s *denseLazyState) openSlots() []int {
	slots := []int{}
	for t, isOpen := range s.opened {
		if isOpen {
			slots = append(slots, t)
		}
	}
	return slots
}
