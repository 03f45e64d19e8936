package scheduler

import (
	"sort"

	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// LazyActivationSchedulerNLogN is the tree-structured variant of lazy
// activation: open slots live in a sorted list navigated by binary search,
// and closed-timestamp lookups go through a path-compressed disjoint-set
// over activated slots. Same policy as the T variant, so both return
// identical schedules.
type LazyActivationSchedulerNLogN struct{}

// Process schedules a pool of unit-duration jobs with contiguous windows at
// concurrency g, minimising the number of active timestamps.
func (LazyActivationSchedulerNLogN) Process(p pool.AbstractPool, g int) (schedule.Schedule, error) {
	return lazyProcess(p, g, func(int) lazyState {
		return newTreeLazyState()
	})
}

type treeLazyState struct {
	opens []int
	loads map[int]int
	at    map[int][]int
	// next[t] is a hint toward the latest closed timestamp at or below t,
	// maintained union-find style; hints are revalidated on lookup so a
	// later activation of the hinted slot stays correct.
	next map[int]int
}

func newTreeLazyState() *treeLazyState {
	return &treeLazyState{
		loads: map[int]int{},
		at:    map[int][]int{},
		next:  map[int]int{},
	}
}

func (s *treeLazyState) isOpen(t int) bool {
	i := sort.SearchInts(s.opens, t)
	return i < len(s.opens) && s.opens[i] == t
}

func (s *treeLazyState) open(t int) {
	i := sort.SearchInts(s.opens, t)
	s.opens = append(s.opens, 0)
	copy(s.opens[i+1:], s.opens[i:])
	s.opens[i] = t
	s.next[t] = t - 1
}

func (s *treeLazyState) load(t int) int { return s.loads[t] }

func (s *treeLazyState) assign(jobID, t int) {
	s.loads[t]++
	s.at[t] = append(s.at[t], jobID)
}

func (s *treeLazyState) unassign(jobID, t int) {
	s.loads[t]--
	occupants := s.at[t]
	for i, id := range occupants {
		if id == jobID {
			s.at[t] = append(occupants[:i], occupants[i+1:]...)
			return
		}
	}
}

func (s *treeLazyState) jobsAt(t int) []int { return s.at[t] }

func (s *treeLazyState) latestOpenWithCapacity(lo, hi, g int) (int, bool) {
	for i := sort.SearchInts(s.opens, hi+1) - 1; i >= 0 && s.opens[i] >= lo; i-- {
		if s.loads[s.opens[i]] < g {
			return s.opens[i], true
		}
	}
	return 0, false
}

func (s *treeLazyState) openSlotsDesc(lo, hi int) []int {
	slots := []int{}
	for i := sort.SearchInts(s.opens, hi+1) - 1; i >= 0 && s.opens[i] >= lo; i-- {
		slots = append(slots, s.opens[i])
	}
	return slots
}

// findClosed returns the latest closed timestamp at or below t.
func (s *treeLazyState) findClosed(t int) int {
	if t < 0 {
		return -1
	}
	if !s.isOpen(t) {
		return t
	}
	root := s.findClosed(s.next[t])
	s.next[t] = root
	return root
}

func (s *treeLazyState) latestClosed(lo, hi int) (int, bool) {
	t := s.findClosed(hi)
	if t < lo {
		return 0, false
	}
	return t, true
}

func (s *treeLazyState) openSlots() []int {
	return append([]int(nil), s.opens...)
}
