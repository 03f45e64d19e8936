// Package schedule defines the scheduler result type and the validation and
// comparison utilities the test harness and feasibility-guided generators
// build on.
package schedule

import (
	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
)

// Entry records where a single job executes. ExecutionIntervals are ordered,
// disjoint, lie within the job's availability, and cover exactly
// Job.Duration timestamps. A zero-duration job carries an empty list.
type Entry struct {
	Job                pool.Job
	ExecutionIntervals []interval.TimeInterval
}

// Schedule is the outcome of a scheduling run. When AllJobsScheduled is
// false the remaining fields are best-effort at most: they may be nil, and
// consumers must not treat them as a valid schedule.
type Schedule struct {
	AllJobsScheduled    bool
	ActiveTimeIntervals []interval.TimeInterval
	JobSchedules        []Entry
}

// Feasible builds a feasible schedule, normalising nil slices to empty ones
// so feasible results always carry non-nil fields.
func Feasible(active []interval.TimeInterval, entries []Entry) Schedule {
	if active == nil {
		active = []interval.TimeInterval{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return Schedule{
		AllJobsScheduled:    true,
		ActiveTimeIntervals: active,
		JobSchedules:        entries,
	}
}

// Infeasible builds an infeasible schedule with no partial data.
func Infeasible() Schedule {
	return Schedule{}
}

// PartialInfeasible builds an infeasible schedule that still surfaces the
// partial assignment constructed before the contradiction was found.
func PartialInfeasible(active []interval.TimeInterval, entries []Entry) Schedule {
	return Schedule{
		AllJobsScheduled:    false,
		ActiveTimeIntervals: active,
		JobSchedules:        entries,
	}
}

// ActiveDuration returns the total number of active timestamps.
func (s Schedule) ActiveDuration() int {
	return interval.TotalDuration(s.ActiveTimeIntervals)
}
