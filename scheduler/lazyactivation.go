package scheduler

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// lazyState is the slot bookkeeping behind lazy activation. The two
// scheduler variants differ only in how they answer these queries; the
// policy in lazyProcess is shared, so both variants return identical
// schedules.
type lazyState interface {
	open(t int)
	load(t int) int
	assign(jobID, t int)
	unassign(jobID, t int)
	// jobsAt returns the jobs assigned to t in assignment order.
	jobsAt(t int) []int
	// latestOpenWithCapacity returns the latest open slot in [lo, hi] with
	// load below g.
	latestOpenWithCapacity(lo, hi, g int) (int, bool)
	// openSlotsDesc returns the open slots in [lo, hi], latest first.
	openSlotsDesc(lo, hi int) []int
	// latestClosed returns the latest closed timestamp in [lo, hi].
	latestClosed(lo, hi int) (int, bool)
	// openSlots returns every open slot in increasing order.
	openSlots() []int
}

// lazyProcess runs the lazy-activation discipline for unit jobs: earliest
// deadline first, reuse the latest open slot with spare capacity, displace
// earlier assignments through open slots when possible, and only then
// activate the rightmost closed timestamp that can relieve the blocked set.
// When even that fails the pool is infeasible and the partial schedule built
// so far is surfaced alongside the infeasibility flag.
func lazyProcess(p pool.AbstractPool, g int, mk func(horizon int) lazyState) (schedule.Schedule, error) {
	if err := checkConcurrency(g); err != nil {
		return schedule.Schedule{}, err
	}
	jobs := p.Jobs()
	if err := requireUnitDurations(jobs); err != nil {
		return schedule.Schedule{}, err
	}
	for _, j := range jobs {
		if len(j.Availability) > 1 {
			return schedule.Schedule{}, errors.Wrapf(ErrUnsupportedPool, "job %d has multi-interval availability", j.ID)
		}
	}

	unit := make([]pool.Job, 0, len(jobs))
	horizon := 0
	for _, j := range jobs {
		if j.Duration == 0 {
			continue
		}
		if len(j.Availability) == 0 {
			// A unit job that can never run: infeasible before any
			// activation happens.
			return schedule.PartialInfeasible([]interval.TimeInterval{}, trivialEntries(jobs)), nil
		}
		unit = append(unit, j)
		if j.Deadline()+1 > horizon {
			horizon = j.Deadline() + 1
		}
	}
	sort.SliceStable(unit, func(a, b int) bool {
		ja, jb := unit[a], unit[b]
		if ja.Deadline() != jb.Deadline() {
			return ja.Deadline() < jb.Deadline()
		}
		if ja.Release() != jb.Release() {
			return ja.Release() < jb.Release()
		}
		return ja.ID < jb.ID
	})

	st := mk(horizon)
	byID := make(map[int]pool.Job, len(unit))
	for _, j := range unit {
		byID[j.ID] = j
	}
	assigned := map[int]int{}

	feasible := true
	for _, j := range unit {
		if !placeUnitJob(st, byID, assigned, j, g) {
			feasible = false
			break
		}
	}

	active := interval.MergeTimestamps(st.openSlots())
	entries := make([]schedule.Entry, 0, len(jobs))
	for _, j := range jobs {
		t, ok := assigned[j.ID]
		switch {
		case j.Duration == 0:
			entries = append(entries, schedule.Entry{Job: j, ExecutionIntervals: []interval.TimeInterval{}})
		case ok:
			entries = append(entries, schedule.Entry{Job: j, ExecutionIntervals: []interval.TimeInterval{interval.New(t, t)}})
		}
	}
	if !feasible {
		return schedule.PartialInfeasible(active, entries), nil
	}
	return schedule.Feasible(active, entries), nil
}

// placeUnitJob assigns j to a slot, opening new timestamps only when neither
// reuse nor displacement can make room. Each loop iteration opens a slot, so
// the loop terminates.
func placeUnitJob(st lazyState, byID map[int]pool.Job, assigned map[int]int, j pool.Job, g int) bool {
	r, d := j.Release(), j.Deadline()
	for {
		if t, ok := st.latestOpenWithCapacity(r, d, g); ok {
			st.assign(j.ID, t)
			assigned[j.ID] = t
			return true
		}
		search := &displacementSearch{
			st:          st,
			byID:        byID,
			assigned:    assigned,
			g:           g,
			visitedSlot: map[int]bool{},
			visitedJob:  map[int]bool{j.ID: true},
		}
		if search.try(j) {
			return true
		}
		lo, hi := search.windowUnion(j)
		t, ok := st.latestClosed(lo, hi)
		if !ok {
			return false
		}
		st.open(t)
	}
}

// displacementSearch looks for an augmenting chain of reassignments through
// the open slots. Slots are explored latest first; assigned jobs per slot in
// assignment order.
type displacementSearch struct {
	st          lazyState
	byID        map[int]pool.Job
	assigned    map[int]int
	g           int
	visitedSlot map[int]bool
	visitedJob  map[int]bool
}

func (s *displacementSearch) try(j pool.Job) bool {
	r, d := j.Release(), j.Deadline()
	for _, t := range s.st.openSlotsDesc(r, d) {
		if s.visitedSlot[t] || s.st.load(t) >= s.g {
			continue
		}
		s.visitedSlot[t] = true
		s.st.assign(j.ID, t)
		s.assigned[j.ID] = t
		return true
	}
	for _, t := range s.st.openSlotsDesc(r, d) {
		if s.visitedSlot[t] {
			continue
		}
		s.visitedSlot[t] = true
		occupants := append([]int(nil), s.st.jobsAt(t)...)
		for _, kid := range occupants {
			if s.visitedJob[kid] {
				continue
			}
			s.visitedJob[kid] = true
			if s.try(s.byID[kid]) {
				s.st.unassign(kid, t)
				s.st.assign(j.ID, t)
				s.assigned[j.ID] = t
				return true
			}
		}
	}
	return false
}

// windowUnion returns the hull of the windows of every job reached by the
// failed search, including j itself. A new activation must land inside it.
func (s *displacementSearch) windowUnion(j pool.Job) (int, int) {
	lo, hi := j.Release(), j.Deadline()
	for id := range s.visitedJob {
		k := s.byID[id]
		if k.Release() < lo {
			lo = k.Release()
		}
		if k.Deadline() > hi {
			hi = k.Deadline()
		}
	}
	return lo, hi
}
