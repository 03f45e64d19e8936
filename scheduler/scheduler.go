// Package scheduler implements the active-time scheduling algorithms: exact
// solvers, matching and degree-constrained-subgraph reductions, lazy
// activation, greedy 2-approximations, and LP rounding. Every scheduler
// consumes a job pool, never mutates it, and returns a fresh Schedule;
// infeasibility is a normal result while errors are reserved for caller bugs
// and solver breakdown.
package scheduler

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bitfold/activetime/internal/maxflow"
	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

var (
	// ErrConcurrency reports a concurrency bound below 1.
	ErrConcurrency = errors.New("concurrency must be at least 1")
	// ErrUnsupportedPool reports a pool variant outside a scheduler's domain.
	ErrUnsupportedPool = errors.New("pool variant not supported by this scheduler")
	// ErrLPFailure reports a linear-program solver breakdown, as opposed to
	// a well-posed but infeasible program.
	ErrLPFailure = errors.New("linear program solver failure")
)

func checkConcurrency(g int) error {
	if g < 1 {
		return errors.Wrapf(ErrConcurrency, "got %d", g)
	}
	return nil
}

// candidateSlots returns the sorted union of availability timestamps over
// all jobs that actually need to run.
func candidateSlots(jobs []pool.Job) []int {
	seen := map[int]bool{}
	for _, j := range jobs {
		if j.Duration == 0 {
			continue
		}
		for _, iv := range j.Availability {
			for t := iv.Start; t <= iv.End; t++ {
				seen[t] = true
			}
		}
	}
	slots := make([]int, 0, len(seen))
	for t := range seen {
		slots = append(slots, t)
	}
	sort.Ints(slots)
	return slots
}

func totalDuration(jobs []pool.Job) int {
	total := 0
	for _, j := range jobs {
		total += j.Duration
	}
	return total
}

// requireUnitDurations rejects pools outside the unit-job domain.
func requireUnitDurations(jobs []pool.Job) error {
	for _, j := range jobs {
		if j.Duration > 1 {
			return errors.Wrapf(ErrUnsupportedPool, "job %d has duration %d, unit jobs required", j.ID, j.Duration)
		}
	}
	return nil
}

// assignOn gives each positive-duration job Duration distinct timestamps
// among the open slots, at most g jobs per slot, via max-flow. It returns
// the per-job sorted timestamps, or ok=false when no full assignment exists.
func assignOn(jobs []pool.Job, open []int, g int) (map[int][]int, bool) {
	demand := totalDuration(jobs)
	if demand == 0 {
		return map[int][]int{}, true
	}

	slotIndex := make(map[int]int, len(open))
	for i, t := range open {
		slotIndex[t] = i
	}

	// Vertices: 0 source, 1..n jobs, n+1..n+len(open) slots, last sink.
	positive := make([]pool.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Duration > 0 {
			positive = append(positive, j)
		}
	}
	n := len(positive)
	source, sink := 0, n+len(open)+1
	g2 := maxflow.New(sink + 1)

	type jobEdge struct {
		id   int
		slot int
	}
	jobEdges := make([][]jobEdge, n)
	for i, j := range positive {
		g2.AddEdge(source, i+1, j.Duration)
		for _, iv := range j.Availability {
			for t := iv.Start; t <= iv.End; t++ {
				si, ok := slotIndex[t]
				if !ok {
					continue
				}
				id := g2.AddEdge(i+1, n+1+si, 1)
				jobEdges[i] = append(jobEdges[i], jobEdge{id: id, slot: t})
			}
		}
	}
	for i := range open {
		g2.AddEdge(n+1+i, sink, g)
	}

	if g2.Flow(source, sink) != demand {
		return nil, false
	}

	perJob := make(map[int][]int, n)
	for i, j := range positive {
		for _, e := range jobEdges[i] {
			if g2.EdgeFlow(e.id) > 0 {
				perJob[j.ID] = append(perJob[j.ID], e.slot)
			}
		}
	}
	return perJob, true
}

// trivialEntries returns an empty entry for every zero-duration job in the
// pool, in insertion order.
func trivialEntries(jobs []pool.Job) []schedule.Entry {
	entries := []schedule.Entry{}
	for _, j := range jobs {
		if j.Duration == 0 {
			entries = append(entries, schedule.Entry{
				Job:                j,
				ExecutionIntervals: []interval.TimeInterval{},
			})
		}
	}
	return entries
}

// buildEntries assembles one entry per pool job in insertion order, merging
// each job's assigned timestamps into execution intervals. Jobs without an
// assignment (zero duration) get an empty interval list.
func buildEntries(jobs []pool.Job, perJob map[int][]int) []schedule.Entry {
	entries := make([]schedule.Entry, 0, len(jobs))
	for _, j := range jobs {
		entries = append(entries, schedule.Entry{
			Job:                j,
			ExecutionIntervals: interval.MergeTimestamps(perJob[j.ID]),
		})
	}
	return entries
}

// usedSlots returns the sorted union of assigned timestamps.
func usedSlots(perJob map[int][]int) []int {
	seen := map[int]bool{}
	for _, ts := range perJob {
		for _, t := range ts {
			seen[t] = true
		}
	}
	slots := make([]int, 0, len(seen))
	for t := range seen {
		slots = append(slots, t)
	}
	sort.Ints(slots)
	return slots
}
