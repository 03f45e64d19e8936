package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfold/activetime/generator"
	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
	"github.com/bitfold/activetime/scheduler"
)

func TestLinearProgrammingEmpty(t *testing.T) {
	s, err := scheduler.LinearProgrammingRoundedScheduler{}.Process(pool.NewJobPool(), 2)
	require.NoError(t, err)

	assert.True(t, s.AllJobsScheduled)
	assert.Empty(t, s.ActiveTimeIntervals)
	assert.Empty(t, s.JobSchedules)

	jobPool := pool.NewJobPool()
	addJobs(t, jobPool, [][3]int{{1, 5, 0}, {3, 7, 0}})

	s, err = scheduler.LinearProgrammingRoundedScheduler{}.Process(jobPool, 2)
	require.NoError(t, err)

	assert.True(t, s.AllJobsScheduled)
	assert.Empty(t, s.ActiveTimeIntervals)
	assert.Len(t, s.JobSchedules, 2)
}

func TestLinearProgrammingSimpleExample(t *testing.T) {
	jobPool := pool.NewJobPool()
	addJobs(t, jobPool, [][3]int{{1, 4, 2}, {3, 8, 2}, {10, 11, 2}})

	s, err := scheduler.LinearProgrammingRoundedScheduler{}.Process(jobPool, 2)
	require.NoError(t, err)

	assert.True(t, s.AllJobsScheduled)
	assert.NoError(t, schedule.Validate(s, jobPool, 2))
	// The optimum is 4 active timestamps; rounding may at most double it.
	assert.LessOrEqual(t, s.ActiveDuration(), 8)
}

func TestLinearProgrammingInfeasible(t *testing.T) {
	jobPool := pool.NewJobPool()
	addJobs(t, jobPool, [][3]int{{1, 2, 2}, {1, 2, 2}})

	s, err := scheduler.LinearProgrammingRoundedScheduler{}.Process(jobPool, 1)
	require.NoError(t, err)

	assert.False(t, s.AllJobsScheduled)
	assert.Nil(t, s.ActiveTimeIntervals)
	assert.Nil(t, s.JobSchedules)
}

func TestLinearProgrammingAgainstBruteForce(t *testing.T) {
	rng := newRand(43)
	for i := 0; i < 60; i++ {
		maxLength := 1 + rng.Intn(5)
		maxT := 4 + rng.Intn(5)
		g := 1 + rng.Intn(3)
		numberOfJobs := 1 + rng.Intn(maxT/maxLength*g+1)

		jobPool := generator.Uniform(rng, numberOfJobs, maxT, [2]int{1, maxLength}, [2]int{1, maxLength})

		want, err := scheduler.BruteForceScheduler{}.Process(jobPool, g)
		require.NoError(t, err)
		got, err := scheduler.LinearProgrammingRoundedScheduler{}.Process(jobPool, g)
		require.NoError(t, err)

		check2Approximation(t, want, got, jobPool, g)
	}
}

func TestLinearProgrammingAgainstLazyActivation(t *testing.T) {
	rng := newRand(47)
	for i := 0; i < 40; i++ {
		maxLength := 1 + rng.Intn(4)
		maxT := 15 + rng.Intn(10)
		g := 1 + rng.Intn(3)
		numberOfJobs := 1 + rng.Intn(maxT)

		jobPool := generator.Uniform(rng, numberOfJobs, maxT, [2]int{1, maxLength}, [2]int{1, 1})

		want, err := scheduler.LazyActivationSchedulerT{}.Process(jobPool, g)
		require.NoError(t, err)
		got, err := scheduler.LinearProgrammingRoundedScheduler{}.Process(jobPool, g)
		require.NoError(t, err)

		check2Approximation(t, want, got, jobPool, g)
	}
}

func TestLinearProgrammingAgainstUpperDegreeConstrained(t *testing.T) {
	rng := newRand(53)
	for i := 0; i < 30; i++ {
		maxLength := 5 + rng.Intn(4)
		maxT := 15 + rng.Intn(10)
		numberOfJobs := 1 + rng.Intn(maxT/maxLength*2+1)

		jobPool := generator.Uniform(rng, numberOfJobs, maxT, [2]int{1, maxLength}, [2]int{1, maxLength})

		want, err := scheduler.UpperDegreeConstrainedSubgraphScheduler{}.Process(jobPool)
		require.NoError(t, err)
		got, err := scheduler.LinearProgrammingRoundedScheduler{}.Process(jobPool, 2)
		require.NoError(t, err)

		check2Approximation(t, want, got, jobPool, 2)
	}
}
