package scheduler

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// DefaultRoundingTolerance is the slack applied to the y >= 1/2 rounding
// threshold to absorb simplex round-off: a slot opens when its relaxed
// activation reaches 0.5 - DefaultRoundingTolerance.
const DefaultRoundingTolerance = 1e-9

// LinearProgrammingRoundedScheduler solves the active-time LP relaxation
// with gonum's simplex and rounds it into an integral 2-approximation.
//
// Variables x[j,t] in [0,1] for every (job, available slot) pair and y[t] in
// [0,1] per slot; each job's x-row sums to its duration, per-slot load is at
// most g*y[t], and x[j,t] <= y[t]. The objective minimises the sum of y.
// Every slot with y at least 1/2 (minus Tolerance) is opened; if the opened
// set admits no assignment the remaining slots are opened in decreasing y
// (ties by increasing timestamp) until one does, which always terminates
// because a feasible relaxation has an integral assignment on the full
// candidate set.
type LinearProgrammingRoundedScheduler struct {
	// Tolerance overrides DefaultRoundingTolerance when positive.
	Tolerance float64
}

// Process schedules any pool variant at concurrency g. Solver breakdown is
// reported as an ErrLPFailure-wrapped error, distinct from infeasibility.
func (s LinearProgrammingRoundedScheduler) Process(p pool.AbstractPool, g int) (schedule.Schedule, error) {
	if err := checkConcurrency(g); err != nil {
		return schedule.Schedule{}, err
	}

	jobs := p.Jobs()
	if totalDuration(jobs) == 0 {
		return schedule.Feasible(nil, buildEntries(jobs, nil)), nil
	}
	for _, j := range jobs {
		if j.Duration > j.AvailableSlots() {
			return schedule.Infeasible(), nil
		}
	}

	tolerance := s.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultRoundingTolerance
	}

	slots := candidateSlots(jobs)
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

	// Variable layout: one x per (job, slot) incidence, then one y per slot.
	type incidence struct {
		job  int
		slot int
	}
	incidences := []incidence{}
	for ji, j := range positive {
		for _, iv := range j.Availability {
			for t := iv.Start; t <= iv.End; t++ {
				incidences = append(incidences, incidence{job: ji, slot: slotIndex[t]})
			}
		}
	}
	nx := len(incidences)
	nVars := nx + len(slots)
	yVar := func(slot int) int { return nx + slot }

	c := make([]float64, nVars)
	for i := range slots {
		c[yVar(i)] = 1
	}

	// Inequalities G v <= h: per-slot load, per-incidence coupling, y caps,
	// and non-negativity (Convert treats variables as free).
	rows := len(slots) + nx + len(slots) + nVars
	G := mat.NewDense(rows, nVars, nil)
	h := make([]float64, rows)
	row := 0
	for i := range slots {
		for xi, inc := range incidences {
			if inc.slot == i {
				G.Set(row, xi, 1)
			}
		}
		G.Set(row, yVar(i), -float64(g))
		row++
	}
	for xi, inc := range incidences {
		G.Set(row, xi, 1)
		G.Set(row, yVar(inc.slot), -1)
		row++
	}
	for i := range slots {
		G.Set(row, yVar(i), 1)
		h[row] = 1
		row++
	}
	for v := 0; v < nVars; v++ {
		G.Set(row, v, -1)
		row++
	}

	// Equalities A v = b: each job receives exactly its duration.
	A := mat.NewDense(len(positive), nVars, nil)
	b := make([]float64, len(positive))
	for xi, inc := range incidences {
		A.Set(inc.job, xi, 1)
	}
	for ji, j := range positive {
		b[ji] = float64(j.Duration)
	}

	cStd, aStd, bStd := lp.Convert(c, G, h, A, b)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, 0, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return schedule.Infeasible(), nil
		}
		return schedule.Schedule{}, errors.Wrap(ErrLPFailure, err.Error())
	}

	y := make([]float64, len(slots))
	for i := range slots {
		v := yVar(i)
		y[i] = xStd[v] - xStd[nVars+v]
	}

	open := []int{}
	closed := []int{}
	for i, t := range slots {
		if y[i] >= 0.5-tolerance {
			open = append(open, t)
		} else {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(a, b int) bool {
		ya, yb := y[slotIndex[closed[a]]], y[slotIndex[closed[b]]]
		if ya != yb {
			return ya > yb
		}
		return closed[a] < closed[b]
	})

	perJob, ok := assignOn(jobs, open, g)
	for !ok {
		if len(closed) == 0 {
			return schedule.Infeasible(), nil
		}
		open = append(open, closed[0])
		closed = closed[1:]
		perJob, ok = assignOn(jobs, open, g)
	}

	active := interval.MergeTimestamps(usedSlots(perJob))
	return schedule.Feasible(active, buildEntries(jobs, perJob)), nil
}
