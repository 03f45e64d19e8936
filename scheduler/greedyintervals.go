package scheduler

import (
	"sort"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// GreedyIntervalsScheduler is the interval-granular greedy 2-approximation:
// the open set is kept as a sorted list of maximal contiguous batches that
// split when a timestamp is closed and merge back when one is restored.
// Agrees with GreedyScheduler on every input.
type GreedyIntervalsScheduler struct{}

// Process schedules any contiguous- or multi-interval pool at concurrency g.
func (GreedyIntervalsScheduler) Process(p pool.AbstractPool, g int) (schedule.Schedule, error) {
	return greedyProcess(p, g, func(universe []int) activeSet {
		return &intervalActiveSet{batches: interval.MergeTimestamps(universe)}
	})
}

type intervalActiveSet struct {
	batches []interval.TimeInterval
}

func (s *intervalActiveSet) slots() []int {
	slots := []int{}
	for _, b := range s.batches {
		for t := b.Start; t <= b.End; t++ {
			slots = append(slots, t)
		}
	}
	return slots
}

// remove splits the batch containing t, dropping the empty sides.
func (s *intervalActiveSet) remove(t int) {
	i := sort.Search(len(s.batches), func(i int) bool { return s.batches[i].End >= t })
	if i == len(s.batches) || !s.batches[i].Contains(t) {
		return
	}
	b := s.batches[i]
	replacement := []interval.TimeInterval{}
	if b.Start < t {
		replacement = append(replacement, interval.New(b.Start, t-1))
	}
	if t < b.End {
		replacement = append(replacement, interval.New(t+1, b.End))
	}
	rest := append(replacement, s.batches[i+1:]...)
	s.batches = append(s.batches[:i], rest...)
}

// restore reopens t, merging with adjacent batches.
func (s *intervalActiveSet) restore(t int) {
	i := sort.Search(len(s.batches), func(i int) bool { return s.batches[i].End >= t-1 })
	mergeLeft := i < len(s.batches) && s.batches[i].End == t-1
	right := i
	if mergeLeft {
		right = i + 1
	}
	mergeRight := right < len(s.batches) && s.batches[right].Start == t+1

	switch {
	case mergeLeft && mergeRight:
		s.batches[i].End = s.batches[right].End
		s.batches = append(s.batches[:right], s.batches[right+1:]...)
	case mergeLeft:
		s.batches[i].End = t
	case mergeRight:
		s.batches[right].Start = t
	default:
		s.batches = append(s.batches, interval.TimeInterval{})
		copy(s.batches[right+1:], s.batches[right:])
		s.batches[right] = interval.New(t, t)
	}
}
