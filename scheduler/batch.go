package scheduler

import (
	"sort"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// BatchScheduler is specialised to fixed-length pools: every job runs for
// the same number of contiguous timestamps, so a schedule is a set of
// disjoint batches of that length, each hosting up to g jobs. Jobs are
// packed earliest deadline first into the latest batch that fits, opening
// new batches as late as possible.
type BatchScheduler struct{}

// Process schedules a fixed-length pool at concurrency g.
func (BatchScheduler) Process(p *pool.FixedLengthJobPool, g int) (schedule.Schedule, error) {
	if err := checkConcurrency(g); err != nil {
		return schedule.Schedule{}, err
	}

	length := p.Length()
	jobs := p.Jobs()
	order := append([]pool.Job(nil), jobs...)
	sort.SliceStable(order, func(a, b int) bool {
		if order[a].Deadline() != order[b].Deadline() {
			return order[a].Deadline() < order[b].Deadline()
		}
		return order[a].ID < order[b].ID
	})

	type batch struct {
		start int
		count int
	}
	batches := []batch{}
	jobBatch := map[int]int{}

	overlaps := func(start int) bool {
		for _, b := range batches {
			if start <= b.start+length-1 && b.start <= start+length-1 {
				return true
			}
		}
		return false
	}

	for _, j := range order {
		r, d := j.Release(), j.Deadline()

		best := -1
		for i, b := range batches {
			if b.start >= r && b.start+length-1 <= d && b.count < g {
				if best == -1 || b.start > batches[best].start {
					best = i
				}
			}
		}
		if best >= 0 {
			batches[best].count++
			jobBatch[j.ID] = batches[best].start
			continue
		}

		placed := false
		for s := d - length + 1; s >= r; s-- {
			if !overlaps(s) {
				batches = append(batches, batch{start: s, count: 1})
				jobBatch[j.ID] = s
				placed = true
				break
			}
		}
		if !placed {
			return schedule.Infeasible(), nil
		}
	}

	slots := []int{}
	for _, b := range batches {
		for t := b.start; t <= b.start+length-1; t++ {
			slots = append(slots, t)
		}
	}
	entries := make([]schedule.Entry, 0, len(jobs))
	for _, j := range jobs {
		start := jobBatch[j.ID]
		entries = append(entries, schedule.Entry{
			Job:                j,
			ExecutionIntervals: []interval.TimeInterval{interval.New(start, start+length-1)},
		})
	}
	return schedule.Feasible(interval.MergeTimestamps(slots), entries), nil
}
