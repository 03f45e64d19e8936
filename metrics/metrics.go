// Package metrics tracks driver-level counters and computes per-schedule
// statistics.
package metrics

import (
	"expvar"
	"sync"

	"github.com/bitfold/activetime/schedule"
)

// Metrics holds the process-wide run counters.
type Metrics struct {
	RunsTotal       *expvar.Int
	FeasibleRuns    *expvar.Int
	InfeasibleRuns  *expvar.Int
	ActiveSlotsLast *expvar.Int
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the singleton metrics instance.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			RunsTotal:       expvar.NewInt("runs_total"),
			FeasibleRuns:    expvar.NewInt("runs_feasible_total"),
			InfeasibleRuns:  expvar.NewInt("runs_infeasible_total"),
			ActiveSlotsLast: expvar.NewInt("active_slots_last"),
		}
	})
	return instance
}

// Record updates the counters for one completed run.
func (m *Metrics) Record(s schedule.Schedule) {
	m.RunsTotal.Add(1)
	if s.AllJobsScheduled {
		m.FeasibleRuns.Add(1)
		m.ActiveSlotsLast.Set(int64(s.ActiveDuration()))
	} else {
		m.InfeasibleRuns.Add(1)
	}
}

// Stats summarises a single feasible schedule.
type Stats struct {
	ActiveSlots int
	BusyUnits   int
	Utilization float64
	Jobs        int
}

// Collect computes schedule statistics at concurrency g. BusyUnits counts
// executed job-timestamps and Utilization relates them to the capacity of
// the active slots.
func Collect(s schedule.Schedule, g int) Stats {
	if !s.AllJobsScheduled {
		return Stats{}
	}
	busy := 0
	for _, entry := range s.JobSchedules {
		busy += entry.Job.Duration
	}
	stats := Stats{
		ActiveSlots: s.ActiveDuration(),
		BusyUnits:   busy,
		Jobs:        len(s.JobSchedules),
	}
	if capacity := stats.ActiveSlots * g; capacity > 0 {
		stats.Utilization = float64(busy) / float64(capacity)
	}
	return stats
}
