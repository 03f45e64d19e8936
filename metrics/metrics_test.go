package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfold/activetime/interval"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

func feasibleSchedule(t *testing.T) schedule.Schedule {
	t.Helper()
	p := pool.NewJobPool()
	require.NoError(t, p.AddJob(1, 4, 2))
	require.NoError(t, p.AddJob(3, 8, 2))
	jobs := p.Jobs()
	return schedule.Feasible(
		[]interval.TimeInterval{interval.New(3, 4)},
		[]schedule.Entry{
			{Job: jobs[0], ExecutionIntervals: []interval.TimeInterval{interval.New(3, 4)}},
			{Job: jobs[1], ExecutionIntervals: []interval.TimeInterval{interval.New(3, 4)}},
		},
	)
}

func TestCollect(t *testing.T) {
	stats := Collect(feasibleSchedule(t), 2)

	assert.Equal(t, 2, stats.ActiveSlots)
	assert.Equal(t, 4, stats.BusyUnits)
	assert.Equal(t, 2, stats.Jobs)
	assert.Equal(t, 1.0, stats.Utilization)
}

func TestCollectInfeasible(t *testing.T) {
	assert.Equal(t, Stats{}, Collect(schedule.Infeasible(), 2))
}

func TestRecord(t *testing.T) {
	m := Get()
	runs := m.RunsTotal.Value()
	feasible := m.FeasibleRuns.Value()
	infeasible := m.InfeasibleRuns.Value()

	m.Record(feasibleSchedule(t))
	m.Record(schedule.Infeasible())

	assert.Equal(t, runs+2, m.RunsTotal.Value())
	assert.Equal(t, feasible+1, m.FeasibleRuns.Value())
	assert.Equal(t, infeasible+1, m.InfeasibleRuns.Value())
	assert.Equal(t, int64(2), m.ActiveSlotsLast.Value())
}

func TestGetReturnsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
