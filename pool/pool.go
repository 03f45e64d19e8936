// Package pool holds the job model and the append-only job pools consumed by
// the schedulers. Pools validate their inputs at AddJob time: malformed jobs
// are caller bugs and are rejected with an error, while schedulability is
// never decided here.
package pool

import (
	"github.com/pkg/errors"

	"github.com/bitfold/activetime/interval"
)

// Job is a unit of work to schedule. Availability is a normalized (ordered,
// disjoint, non-adjacent) list of intervals during which the job may run;
// Duration is the number of distinct timestamps it must occupy. ID is the
// insertion index within its pool and is stable for reporting.
type Job struct {
	ID           int
	Availability []interval.TimeInterval
	Duration     int
}

// Release returns the earliest available timestamp. Only meaningful for jobs
// with non-empty availability.
func (j Job) Release() int {
	return j.Availability[0].Start
}

// Deadline returns the latest available timestamp. Only meaningful for jobs
// with non-empty availability.
func (j Job) Deadline() int {
	return j.Availability[len(j.Availability)-1].End
}

// AvailableSlots returns the total number of timestamps the job may run on.
func (j Job) AvailableSlots() int {
	return interval.TotalDuration(j.Availability)
}

// Available reports whether the job may run at timestamp t.
func (j Job) Available(t int) bool {
	for _, iv := range j.Availability {
		if iv.Contains(t) {
			return true
		}
		if t < iv.Start {
			break
		}
	}
	return false
}

// AbstractPool is the read surface schedulers consume.
type AbstractPool interface {
	// Jobs returns the jobs in insertion order. Callers must not modify
	// the returned slice.
	Jobs() []Job
	// Size returns the number of jobs in the pool.
	Size() int
}

type basePool struct {
	jobs []Job
}

func (p *basePool) Jobs() []Job { return p.jobs }

func (p *basePool) Size() int { return len(p.jobs) }

// Pop removes and returns the most recently added job. It exists for
// feasibility-guided generation, which backtracks over the last insertion.
func (p *basePool) Pop() (Job, bool) {
	if len(p.jobs) == 0 {
		return Job{}, false
	}
	last := p.jobs[len(p.jobs)-1]
	p.jobs = p.jobs[:len(p.jobs)-1]
	return last, true
}

func (p *basePool) append(availability []interval.TimeInterval, duration int) {
	p.jobs = append(p.jobs, Job{
		ID:           len(p.jobs),
		Availability: availability,
		Duration:     duration,
	})
}

func checkWindow(release, deadline int) error {
	if release < 0 {
		return errors.Errorf("release %d is negative", release)
	}
	if deadline < release {
		return errors.Errorf("deadline %d precedes release %d", deadline, release)
	}
	return nil
}

// normalizeIntervals validates that the availability intervals are
// well-formed, ordered, and disjoint, and merges adjacent ones so downstream
// code sees canonical availability.
func normalizeIntervals(intervals []interval.TimeInterval) ([]interval.TimeInterval, error) {
	normalized := []interval.TimeInterval{}
	for i, iv := range intervals {
		if err := checkWindow(iv.Start, iv.End); err != nil {
			return nil, errors.Wrapf(err, "availability interval %d", i)
		}
		if len(normalized) == 0 {
			normalized = append(normalized, iv)
			continue
		}
		prev := &normalized[len(normalized)-1]
		switch {
		case iv.Start <= prev.End:
			return nil, errors.Errorf("availability interval %d overlaps or is out of order", i)
		case iv.Start == prev.End+1:
			prev.End = iv.End
		default:
			normalized = append(normalized, iv)
		}
	}
	return normalized, nil
}

// JobPool holds jobs with a contiguous availability window and an arbitrary
// integer duration.
type JobPool struct {
	basePool
}

// NewJobPool returns an empty JobPool.
func NewJobPool() *JobPool { return &JobPool{} }

// AddJob appends a job available on [release, deadline] needing duration
// distinct timestamps.
func (p *JobPool) AddJob(release, deadline, duration int) error {
	if err := checkWindow(release, deadline); err != nil {
		return err
	}
	window := deadline - release + 1
	if duration < 0 || duration > window {
		return errors.Errorf("duration %d outside [0, %d]", duration, window)
	}
	p.append([]interval.TimeInterval{interval.New(release, deadline)}, duration)
	return nil
}

// UnitJobPool holds unit-duration jobs with contiguous windows.
type UnitJobPool struct {
	basePool
}

// NewUnitJobPool returns an empty UnitJobPool.
func NewUnitJobPool() *UnitJobPool { return &UnitJobPool{} }

// AddJob appends a unit-duration job available on [release, deadline].
func (p *UnitJobPool) AddJob(release, deadline int) error {
	if err := checkWindow(release, deadline); err != nil {
		return err
	}
	p.append([]interval.TimeInterval{interval.New(release, deadline)}, 1)
	return nil
}

// FixedLengthJobPool holds jobs that all run for the same number of
// contiguous timestamps. Windows may be wider than the fixed length but
// never narrower.
type FixedLengthJobPool struct {
	basePool
	length int
}

// NewFixedLengthJobPool returns an empty pool whose jobs all run length
// contiguous timestamps. length must be positive.
func NewFixedLengthJobPool(length int) *FixedLengthJobPool {
	if length < 1 {
		length = 1
	}
	return &FixedLengthJobPool{length: length}
}

// Length returns the pool-wide fixed job length.
func (p *FixedLengthJobPool) Length() int { return p.length }

// AddJob appends a fixed-length job available on [release, deadline]. The
// window must fit at least one placement of the fixed length.
func (p *FixedLengthJobPool) AddJob(release, deadline int) error {
	if err := checkWindow(release, deadline); err != nil {
		return err
	}
	if deadline-release+1 < p.length {
		return errors.Errorf("window [%d, %d] is shorter than the fixed length %d", release, deadline, p.length)
	}
	p.append([]interval.TimeInterval{interval.New(release, deadline)}, p.length)
	return nil
}

// JobPoolMI holds jobs whose availability is a union of disjoint intervals.
type JobPoolMI struct {
	basePool
}

// NewJobPoolMI returns an empty JobPoolMI.
func NewJobPoolMI() *JobPoolMI { return &JobPoolMI{} }

// AddJob appends a job available on the given ordered disjoint intervals,
// needing duration distinct timestamps from their union.
func (p *JobPoolMI) AddJob(intervals []interval.TimeInterval, duration int) error {
	normalized, err := normalizeIntervals(intervals)
	if err != nil {
		return err
	}
	if total := interval.TotalDuration(normalized); duration < 0 || duration > total {
		return errors.Errorf("duration %d outside [0, %d]", duration, total)
	}
	p.append(normalized, duration)
	return nil
}

// UnitJobPoolMI holds unit-duration jobs with multi-interval availability.
// A job with empty availability is accepted; it simply has no feasible
// schedule.
type UnitJobPoolMI struct {
	basePool
}

// NewUnitJobPoolMI returns an empty UnitJobPoolMI.
func NewUnitJobPoolMI() *UnitJobPoolMI { return &UnitJobPoolMI{} }

// AddJob appends a unit-duration job available on the given ordered disjoint
// intervals.
func (p *UnitJobPoolMI) AddJob(intervals []interval.TimeInterval) error {
	normalized, err := normalizeIntervals(intervals)
	if err != nil {
		return err
	}
	p.append(normalized, 1)
	return nil
}
