package blossom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graph(n int, edges [][2]int) [][]int {
	adj := make([][]int, n)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	return adj
}

func checkMatching(t *testing.T, adj [][]int, match []int) {
	t.Helper()
	for v, partner := range match {
		if partner == -1 {
			continue
		}
		require.Equal(t, v, match[partner], "matching is not symmetric")
		found := false
		for _, to := range adj[v] {
			if to == partner {
				found = true
			}
		}
		require.True(t, found, "matched pair %d-%d is not an edge", v, partner)
	}
}

func TestPath(t *testing.T) {
	adj := graph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	match := MaxMatching(adj, nil)
	checkMatching(t, adj, match)
	assert.Equal(t, 2, Size(match))
}

func TestOddCycle(t *testing.T) {
	adj := graph(5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}})
	match := MaxMatching(adj, nil)
	checkMatching(t, adj, match)
	assert.Equal(t, 2, Size(match))
}

func TestTwoTrianglesWithBridge(t *testing.T) {
	adj := graph(6, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{2, 3},
	})
	match := MaxMatching(adj, nil)
	checkMatching(t, adj, match)
	assert.Equal(t, 3, Size(match))
}

func TestBlossomAugmentationThroughSeed(t *testing.T) {
	// Seeding the bridge edge leaves one free pair in each triangle;
	// augmentation must complete a perfect matching around the seeded edge.
	adj := graph(6, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{2, 3},
	})
	seed := []int{-1, -1, 3, 2, -1, -1}
	match := MaxMatching(adj, seed)
	checkMatching(t, adj, match)
	assert.Equal(t, 3, Size(match))
}

func TestSeedStaysMatched(t *testing.T) {
	adj := graph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	seed := []int{-1, 2, 1, -1}
	match := MaxMatching(adj, seed)
	checkMatching(t, adj, match)
	assert.Equal(t, 2, Size(match))
	for v, partner := range seed {
		if partner != -1 {
			assert.NotEqual(t, -1, match[v], "seeded vertex %d became unmatched", v)
		}
	}
}

func TestStarGraph(t *testing.T) {
	adj := graph(4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
	match := MaxMatching(adj, nil)
	checkMatching(t, adj, match)
	assert.Equal(t, 1, Size(match))
}

func TestEmptyGraph(t *testing.T) {
	match := MaxMatching(make([][]int, 3), nil)
	assert.Equal(t, []int{-1, -1, -1}, match)
}
