// Package parser loads job descriptions from CSV and JSON files and filters
// them with boolean expressions before they are handed to a scheduler.
package parser

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
)

// Pool kinds accepted in job files.
const (
	KindInterval          = "interval"
	KindUnit              = "unit"
	KindFixedLength       = "fixed_length"
	KindMultiInterval     = "multi_interval"
	KindUnitMultiInterval = "unit_multi_interval"
)

// JobSpec is one job row as read from a file. Contiguous kinds use
// Release/Deadline; multi-interval kinds use Intervals as [start, end]
// pairs.
type JobSpec struct {
	Release   int      `json:"release"`
	Deadline  int      `json:"deadline"`
	Duration  int      `json:"duration"`
	Intervals [][2]int `json:"intervals,omitempty"`
}

// Length returns the window length for contiguous specs.
func (s JobSpec) Length() int { return s.Deadline - s.Release + 1 }

// JobFile is the JSON job-file layout: a pool kind, the fixed length for
// fixed-length pools, and the job rows.
type JobFile struct {
	Kind        string    `json:"kind"`
	FixedLength int       `json:"fixed_length,omitempty"`
	Jobs        []JobSpec `json:"jobs"`
}

// LoadJobFile reads and decodes a JSON job file.
func LoadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read job file %q", path)
	}
	var file JobFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "decode job file %q", path)
	}
	if file.Kind == "" {
		file.Kind = KindInterval
	}
	return &file, nil
}

// BuildPool materialises the job file into the pool variant its kind names.
func (f *JobFile) BuildPool() (pool.AbstractPool, error) {
	switch f.Kind {
	case KindInterval:
		p := pool.NewJobPool()
		for i, s := range f.Jobs {
			if err := p.AddJob(s.Release, s.Deadline, s.Duration); err != nil {
				return nil, errors.Wrapf(err, "job %d", i)
			}
		}
		return p, nil
	case KindUnit:
		p := pool.NewUnitJobPool()
		for i, s := range f.Jobs {
			if err := p.AddJob(s.Release, s.Deadline); err != nil {
				return nil, errors.Wrapf(err, "job %d", i)
			}
		}
		return p, nil
	case KindFixedLength:
		if f.FixedLength < 1 {
			return nil, errors.Errorf("fixed_length pool needs a positive length, got %d", f.FixedLength)
		}
		p := pool.NewFixedLengthJobPool(f.FixedLength)
		for i, s := range f.Jobs {
			if err := p.AddJob(s.Release, s.Deadline); err != nil {
				return nil, errors.Wrapf(err, "job %d", i)
			}
		}
		return p, nil
	case KindMultiInterval:
		p := pool.NewJobPoolMI()
		for i, s := range f.Jobs {
			if err := p.AddJob(toIntervals(s.Intervals), s.Duration); err != nil {
				return nil, errors.Wrapf(err, "job %d", i)
			}
		}
		return p, nil
	case KindUnitMultiInterval:
		p := pool.NewUnitJobPoolMI()
		for i, s := range f.Jobs {
			if err := p.AddJob(toIntervals(s.Intervals)); err != nil {
				return nil, errors.Wrapf(err, "job %d", i)
			}
		}
		return p, nil
	}
	return nil, errors.Errorf("unknown pool kind %q", f.Kind)
}

func toIntervals(pairs [][2]int) []interval.TimeInterval {
	intervals := make([]interval.TimeInterval, 0, len(pairs))
	for _, pair := range pairs {
		intervals = append(intervals, interval.New(pair[0], pair[1]))
	}
	return intervals
}
