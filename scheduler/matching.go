package scheduler

import (
	"github.com/bitfold/activetime/internal/blossom"
	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// MatchingScheduler schedules unit-duration jobs with arbitrary availability
// sets at concurrency 2, exactly. Feasibility is a max-flow saturation check;
// minimality comes from maximum matching on a gadget graph with two copies
// per candidate slot joined by an internal edge: with U candidate slots and n
// unit jobs a matching of size n + U - k corresponds to a schedule on k
// active slots, so a maximum matching that keeps every job matched minimises
// the active time. The matching is seeded from the flow assignment, and
// augmenting paths never unmatch a matched vertex, so saturation survives.
type MatchingScheduler struct{}

// Process schedules a pool of unit-duration jobs at concurrency 2.
func (MatchingScheduler) Process(p pool.AbstractPool) (schedule.Schedule, error) {
	jobs := p.Jobs()
	if err := requireUnitDurations(jobs); err != nil {
		return schedule.Schedule{}, err
	}
	if totalDuration(jobs) == 0 {
		return schedule.Feasible(nil, buildEntries(jobs, nil)), nil
	}

	slots := candidateSlots(jobs)
	perJob, ok := assignOn(jobs, slots, 2)
	if !ok {
		return schedule.Infeasible(), nil
	}

	unit := make([]pool.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Duration == 1 {
			unit = append(unit, j)
		}
	}

	n := len(unit)
	slotIndex := make(map[int]int, len(slots))
	for i, t := range slots {
		slotIndex[t] = i
	}
	copyA := func(i int) int { return n + 2*i }
	copyB := func(i int) int { return n + 2*i + 1 }

	adj := make([][]int, n+2*len(slots))
	link := func(a, b int) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for ji, j := range unit {
		for _, iv := range j.Availability {
			for t := iv.Start; t <= iv.End; t++ {
				si := slotIndex[t]
				link(ji, copyA(si))
				link(ji, copyB(si))
			}
		}
	}
	for i := range slots {
		link(copyA(i), copyB(i))
	}

	// Seed with the flow assignment: matched vertices only ever stay
	// matched under augmentation.
	seed := make([]int, len(adj))
	for i := range seed {
		seed[i] = -1
	}
	occupancy := make([]int, len(slots))
	for ji, j := range unit {
		t := perJob[j.ID][0]
		si := slotIndex[t]
		target := copyA(si)
		if occupancy[si] > 0 {
			target = copyB(si)
		}
		occupancy[si]++
		seed[ji] = target
		seed[target] = ji
	}
	for i := range slots {
		if occupancy[i] == 0 {
			seed[copyA(i)] = copyB(i)
			seed[copyB(i)] = copyA(i)
		}
	}

	match := blossom.MaxMatching(adj, seed)

	assigned := map[int][]int{}
	used := []int{}
	for i, t := range slots {
		hosts := false
		for _, c := range []int{copyA(i), copyB(i)} {
			if partner := match[c]; partner >= 0 && partner < n {
				assigned[unit[partner].ID] = append(assigned[unit[partner].ID], t)
				hosts = true
			}
		}
		if hosts {
			used = append(used, t)
		}
	}
	return schedule.Feasible(interval.MergeTimestamps(used), buildEntries(jobs, assigned)), nil
}
