package schedule

import (
	"github.com/pkg/errors"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
)

// checkIntervalList verifies that intervals are well-formed, strictly
// ordered, and pairwise disjoint. When gapped is true, adjacent intervals
// are also rejected, which is the stronger requirement on active intervals.
func checkIntervalList(intervals []interval.TimeInterval, gapped bool) error {
	for i, iv := range intervals {
		if iv.Start > iv.End {
			return errors.Errorf("interval %d has start %d after end %d", i, iv.Start, iv.End)
		}
		if i == 0 {
			continue
		}
		prev := intervals[i-1]
		if gapped {
			if prev.End+1 >= iv.Start {
				return errors.Errorf("interval %d touches or overlaps its predecessor", i)
			}
		} else if prev.End >= iv.Start {
			return errors.Errorf("interval %d overlaps its predecessor", i)
		}
	}
	return nil
}

// Validate checks a feasible schedule against the pool it was produced from
// and the concurrency bound g:
//
//   - active intervals are ordered, disjoint, and non-adjacent;
//   - every execution timestamp is covered by an active interval;
//   - at most g jobs execute at any timestamp;
//   - each job's execution intervals lie inside its availability and cover
//     exactly its duration;
//   - every pool job appears exactly once.
//
// Infeasible schedules are vacuously valid.
func Validate(s Schedule, p pool.AbstractPool, g int) error {
	if !s.AllJobsScheduled {
		return nil
	}
	if s.ActiveTimeIntervals == nil || s.JobSchedules == nil {
		return errors.New("feasible schedule with nil fields")
	}
	if err := checkIntervalList(s.ActiveTimeIntervals, true); err != nil {
		return errors.Wrap(err, "active intervals")
	}

	active := map[int]bool{}
	for _, iv := range s.ActiveTimeIntervals {
		for t := iv.Start; t <= iv.End; t++ {
			active[t] = true
		}
	}

	if len(s.JobSchedules) != p.Size() {
		return errors.Errorf("%d job schedules for %d jobs", len(s.JobSchedules), p.Size())
	}

	seen := map[int]bool{}
	running := map[int]int{}
	for _, entry := range s.JobSchedules {
		if seen[entry.Job.ID] {
			return errors.Errorf("job %d scheduled twice", entry.Job.ID)
		}
		seen[entry.Job.ID] = true

		if err := checkIntervalList(entry.ExecutionIntervals, false); err != nil {
			return errors.Wrapf(err, "job %d execution intervals", entry.Job.ID)
		}
		if got := interval.TotalDuration(entry.ExecutionIntervals); got != entry.Job.Duration {
			return errors.Errorf("job %d executes %d timestamps, duration is %d", entry.Job.ID, got, entry.Job.Duration)
		}
		for _, iv := range entry.ExecutionIntervals {
			for t := iv.Start; t <= iv.End; t++ {
				if !active[t] {
					return errors.Errorf("job %d executes at inactive timestamp %d", entry.Job.ID, t)
				}
				if !entry.Job.Available(t) {
					return errors.Errorf("job %d executes outside its availability at %d", entry.Job.ID, t)
				}
				running[t]++
			}
		}
	}

	for _, j := range p.Jobs() {
		if !seen[j.ID] {
			return errors.Errorf("job %d missing from the schedule", j.ID)
		}
	}
	for t, n := range running {
		if n > g {
			return errors.Errorf("%d jobs running at %d, concurrency is %d", n, t, g)
		}
	}
	return nil
}

func checkApproximation(a, b Schedule, p pool.AbstractPool, g, factor int) error {
	if a.AllJobsScheduled != b.AllJobsScheduled {
		return errors.Errorf("feasibility mismatch: %v vs %v", a.AllJobsScheduled, b.AllJobsScheduled)
	}
	if !a.AllJobsScheduled {
		return nil
	}
	if err := Validate(a, p, g); err != nil {
		return errors.Wrap(err, "first schedule")
	}
	if err := Validate(b, p, g); err != nil {
		return errors.Wrap(err, "second schedule")
	}

	da, db := a.ActiveDuration(), b.ActiveDuration()
	if da == db {
		return nil
	}
	if da > db*factor || db > da*factor {
		return errors.Errorf("active durations %d and %d differ by more than a factor of %d", da, db, factor)
	}
	return nil
}

// CheckEquality verifies that two schedules agree on feasibility and, when
// feasible, are both valid with equal total active durations.
func CheckEquality(a, b Schedule, p pool.AbstractPool, g int) error {
	return checkApproximation(a, b, p, g, 1)
}

// Check2Approximation verifies that two schedules agree on feasibility and,
// when feasible, are both valid with active durations within a factor of two.
func Check2Approximation(a, b Schedule, p pool.AbstractPool, g int) error {
	return checkApproximation(a, b, p, g, 2)
}
