package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfold/activetime/interval"
)

func TestJobPoolAddJob(t *testing.T) {
	p := NewJobPool()
	require.NoError(t, p.AddJob(1, 4, 2))
	require.NoError(t, p.AddJob(3, 8, 0))

	assert.Equal(t, 2, p.Size())
	jobs := p.Jobs()
	assert.Equal(t, 0, jobs[0].ID)
	assert.Equal(t, 1, jobs[1].ID)
	assert.Equal(t, []interval.TimeInterval{interval.New(1, 4)}, jobs[0].Availability)
	assert.Equal(t, 2, jobs[0].Duration)
}

func TestJobPoolRejectsBadInput(t *testing.T) {
	p := NewJobPool()
	assert.Error(t, p.AddJob(-1, 4, 1))
	assert.Error(t, p.AddJob(5, 4, 1))
	assert.Error(t, p.AddJob(1, 4, -1))
	assert.Error(t, p.AddJob(1, 4, 5))
	assert.Equal(t, 0, p.Size())
}

func TestUnitJobPool(t *testing.T) {
	p := NewUnitJobPool()
	require.NoError(t, p.AddJob(2, 2))
	assert.Equal(t, 1, p.Jobs()[0].Duration)
	assert.Error(t, p.AddJob(3, 2))
}

func TestFixedLengthJobPool(t *testing.T) {
	p := NewFixedLengthJobPool(2)
	assert.Equal(t, 2, p.Length())

	require.NoError(t, p.AddJob(1, 4))
	assert.Equal(t, 2, p.Jobs()[0].Duration)

	assert.Error(t, p.AddJob(3, 3), "window shorter than the fixed length")
}

func TestJobPoolMI(t *testing.T) {
	p := NewJobPoolMI()
	require.NoError(t, p.AddJob([]interval.TimeInterval{
		interval.New(1, 2),
		interval.New(4, 5),
	}, 3))

	j := p.Jobs()[0]
	assert.Equal(t, 4, j.AvailableSlots())
	assert.True(t, j.Available(2))
	assert.False(t, j.Available(3))
	assert.Equal(t, 1, j.Release())
	assert.Equal(t, 5, j.Deadline())
}

func TestJobPoolMIMergesAdjacentIntervals(t *testing.T) {
	p := NewJobPoolMI()
	require.NoError(t, p.AddJob([]interval.TimeInterval{
		interval.New(1, 2),
		interval.New(3, 4),
	}, 1))

	assert.Equal(t, []interval.TimeInterval{interval.New(1, 4)}, p.Jobs()[0].Availability)
}

func TestJobPoolMIRejectsOverlapAndDisorder(t *testing.T) {
	p := NewJobPoolMI()
	assert.Error(t, p.AddJob([]interval.TimeInterval{
		interval.New(1, 3),
		interval.New(2, 5),
	}, 1))
	assert.Error(t, p.AddJob([]interval.TimeInterval{
		interval.New(4, 5),
		interval.New(1, 2),
	}, 1))
	assert.Error(t, p.AddJob([]interval.TimeInterval{interval.New(1, 2)}, 3))
}

func TestUnitJobPoolMIAllowsEmptyAvailability(t *testing.T) {
	p := NewUnitJobPoolMI()
	require.NoError(t, p.AddJob(nil))

	j := p.Jobs()[0]
	assert.Equal(t, 1, j.Duration)
	assert.Equal(t, 0, j.AvailableSlots())
}

func TestPop(t *testing.T) {
	p := NewJobPool()
	require.NoError(t, p.AddJob(1, 4, 2))
	require.NoError(t, p.AddJob(5, 9, 1))

	last, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, last.ID)
	assert.Equal(t, 1, p.Size())

	_, ok = p.Pop()
	require.True(t, ok)
	_, ok = p.Pop()
	assert.False(t, ok)
}
