package scheduler_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfold/activetime/pool"
	"github.com/bitfold/activetime/schedule"
)

// The cross-validation sweeps mirror the reference harness: draw a random
// pool, run two schedulers, and require agreement on feasibility plus active
// durations within the allowed factor. Seeds are fixed so failures reproduce.

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func checkEquality(t *testing.T, a, b schedule.Schedule, p pool.AbstractPool, g int) {
	t.Helper()
	require.NoError(t, schedule.CheckEquality(a, b, p, g))
}

func check2Approximation(t *testing.T, a, b schedule.Schedule, p pool.AbstractPool, g int) {
	t.Helper()
	require.NoError(t, schedule.Check2Approximation(a, b, p, g))
}

func addJobs(t *testing.T, p *pool.JobPool, jobs [][3]int) {
	t.Helper()
	for _, j := range jobs {
		require.NoError(t, p.AddJob(j[0], j[1], j[2]))
	}
}

func addUnitJobs(t *testing.T, p *pool.UnitJobPool, jobs [][2]int) {
	t.Helper()
	for _, j := range jobs {
		require.NoError(t, p.AddJob(j[0], j[1]))
	}
}
