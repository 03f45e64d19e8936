package scheduler

import (
	"github.com/bitfold/activetime/internal/blossom"
	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// The concurrency-2 schedulers for jobs with arbitrary durations reduce
// active-time minimisation to maximum matching on a degree-constrained
// subgraph gadget. Each positive-duration job contributes one copy per
// required timestamp; every (job, slot) incidence routes through a
// two-vertex edge gadget so a job occupies a slot at most once; each slot
// contributes two copies joined by an internal edge. With D total duration,
// P incidences and U candidate slots, a valid schedule on k active slots is
// a matching of size D + P + U - k, so maximising the matching minimises k.
// Seeding from a max-flow assignment keeps every job copy matched through
// augmentation, so the extracted schedule saturates all jobs.

// DegreeConstrainedSubgraphScheduler schedules multi-interval pools at
// concurrency 2 by finding a b-matching that gives each job exactly its
// duration in distinct timestamps and each timestamp at most two jobs.
type DegreeConstrainedSubgraphScheduler struct{}

// Process schedules a multi-interval pool at concurrency 2.
func (DegreeConstrainedSubgraphScheduler) Process(p pool.AbstractPool) (schedule.Schedule, error) {
	return degreeConstrainedSolve(p)
}

// UpperDegreeConstrainedSubgraphScheduler runs the same solver as
// DegreeConstrainedSubgraphScheduler: every job must receive its full
// duration, and the matching minimises the number of timestamps carrying any
// matched edge. The degree bounds are not relaxed to upper bounds. It serves
// as the concurrency-2 reference the approximation schedulers are measured
// against.
type UpperDegreeConstrainedSubgraphScheduler struct{}

// Process schedules a multi-interval pool at concurrency 2.
func (UpperDegreeConstrainedSubgraphScheduler) Process(p pool.AbstractPool) (schedule.Schedule, error) {
	return degreeConstrainedSolve(p)
}

func degreeConstrainedSolve(p pool.AbstractPool) (schedule.Schedule, error) {
	jobs := p.Jobs()
	if totalDuration(jobs) == 0 {
		return schedule.Feasible(nil, buildEntries(jobs, nil)), nil
	}

	slots := candidateSlots(jobs)
	perJob, ok := assignOn(jobs, slots, 2)
	if !ok {
		return schedule.Infeasible(), nil
	}

	positive := make([]pool.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Duration > 0 {
			positive = append(positive, j)
		}
	}
	slotIndex := make(map[int]int, len(slots))
	for i, t := range slots {
		slotIndex[t] = i
	}

	// Vertex layout: job copies, then incidence gadgets, then slot copies.
	type incidence struct {
		job  int // index into positive
		slot int // index into slots
		e1   int
		e2   int
	}
	vertices := 0
	copyBase := make([]int, len(positive))
	for i, j := range positive {
		copyBase[i] = vertices
		vertices += j.Duration
	}
	incidences := []incidence{}
	incidenceAt := map[[2]int]int{} // (job, slot) -> index into incidences
	for ji, j := range positive {
		for _, iv := range j.Availability {
			for t := iv.Start; t <= iv.End; t++ {
				inc := incidence{job: ji, slot: slotIndex[t], e1: vertices, e2: vertices + 1}
				incidenceAt[[2]int{ji, inc.slot}] = len(incidences)
				incidences = append(incidences, inc)
				vertices += 2
			}
		}
	}
	slotBase := vertices
	copyA := func(i int) int { return slotBase + 2*i }
	copyB := func(i int) int { return slotBase + 2*i + 1 }
	vertices += 2 * len(slots)

	adj := make([][]int, vertices)
	link := func(a, b int) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for _, inc := range incidences {
		j := positive[inc.job]
		for c := 0; c < j.Duration; c++ {
			link(copyBase[inc.job]+c, inc.e1)
		}
		link(inc.e1, inc.e2)
		link(inc.e2, copyA(inc.slot))
		link(inc.e2, copyB(inc.slot))
	}
	for i := range slots {
		link(copyA(i), copyB(i))
	}

	// Seed from the flow assignment: every job copy and every gadget vertex
	// starts matched, and augmentation can only grow the matching.
	seed := make([]int, vertices)
	for i := range seed {
		seed[i] = -1
	}
	pair := func(a, b int) {
		seed[a] = b
		seed[b] = a
	}
	occupancy := make([]int, len(slots))
	seeded := map[int]bool{}
	for ji, j := range positive {
		for c, t := range perJob[j.ID] {
			si := slotIndex[t]
			idx := incidenceAt[[2]int{ji, si}]
			inc := incidences[idx]
			pair(copyBase[ji]+c, inc.e1)
			target := copyA(si)
			if occupancy[si] > 0 {
				target = copyB(si)
			}
			occupancy[si]++
			pair(inc.e2, target)
			seeded[idx] = true
		}
	}
	for idx, inc := range incidences {
		if !seeded[idx] {
			pair(inc.e1, inc.e2)
		}
	}
	for i := range slots {
		if occupancy[i] == 0 {
			pair(copyA(i), copyB(i))
		}
	}

	match := blossom.MaxMatching(adj, seed)

	assigned := map[int][]int{}
	used := []int{}
	usedSeen := map[int]bool{}
	for _, inc := range incidences {
		partner := match[inc.e2]
		if partner != copyA(inc.slot) && partner != copyB(inc.slot) {
			continue
		}
		t := slots[inc.slot]
		assigned[positive[inc.job].ID] = append(assigned[positive[inc.job].ID], t)
		if !usedSeen[t] {
			usedSeen[t] = true
			used = append(used, t)
		}
	}
	return schedule.Feasible(interval.MergeTimestamps(used), buildEntries(jobs, assigned)), nil
}
