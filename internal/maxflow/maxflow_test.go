package maxflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleEdge(t *testing.T) {
	g := New(2)
	e := g.AddEdge(0, 1, 3)
	assert.Equal(t, 3, g.Flow(0, 1))
	assert.Equal(t, 3, g.EdgeFlow(e))
}

func TestDiamond(t *testing.T) {
	// s -> {a, b} -> t with unit capacities.
	g := New(4)
	g.AddEdge(0, 1, 1)
	g.AddEdge(0, 2, 1)
	g.AddEdge(1, 3, 1)
	g.AddEdge(2, 3, 1)
	assert.Equal(t, 2, g.Flow(0, 3))
}

func TestBottleneck(t *testing.T) {
	g := New(4)
	g.AddEdge(0, 1, 5)
	g.AddEdge(1, 2, 2)
	g.AddEdge(2, 3, 5)
	assert.Equal(t, 2, g.Flow(0, 3))
}

func TestAugmentingPathRequired(t *testing.T) {
	// The classic cross network: a greedy first path must be re-routed.
	g := New(6)
	g.AddEdge(0, 1, 1)
	g.AddEdge(0, 2, 1)
	g.AddEdge(1, 3, 1)
	g.AddEdge(1, 4, 1)
	g.AddEdge(2, 3, 1)
	g.AddEdge(3, 5, 1)
	g.AddEdge(4, 5, 1)
	assert.Equal(t, 2, g.Flow(0, 5))
}

func TestDisconnected(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1, 4)
	assert.Equal(t, 0, g.Flow(0, 2))
}
