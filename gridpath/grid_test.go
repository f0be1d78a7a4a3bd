package gridpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineGrid(points ...Point) *Grid {
	g := NewGrid()
	for _, p := range points {
		g.Add(Satellite{Pos: p, Type: "RS", Direction: "E"})
	}
	return g
}

func TestNeighbors(t *testing.T) {
	g := lineGrid(Point{0, 0}, Point{1, 0}, Point{0, 1})
	assert.ElementsMatch(t, []Point{{1, 0}, {0, 1}}, g.Neighbors(Point{0, 0}))
	assert.Equal(t, []Point{{0, 0}}, g.Neighbors(Point{1, 0}))
	assert.Empty(t, g.Neighbors(Point{5, 5}))
}

func TestShortestPathPrefersIntraOrbit(t *testing.T) {
	// two ways from (0,0) to (2,0): straight along the orbit (cost 2) or
	// detouring through the neighboring plane (cost 6)
	g := lineGrid(
		Point{0, 0}, Point{1, 0}, Point{2, 0},
		Point{0, 1}, Point{1, 1}, Point{2, 1},
	)
	path := g.ShortestPath(Point{0, 0}, Point{2, 0})
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 0}}, path)
}

func TestShortestPathCrossesOrbitsWhenForced(t *testing.T) {
	g := lineGrid(Point{0, 0}, Point{0, 1}, Point{1, 1}, Point{1, 2})
	path := g.ShortestPath(Point{0, 0}, Point{1, 2})
	assert.Equal(t, []Point{{0, 0}, {0, 1}, {1, 1}, {1, 2}}, path)
}

func TestShortestPathNoRoute(t *testing.T) {
	g := lineGrid(Point{0, 0}, Point{5, 5})
	assert.Nil(t, g.ShortestPath(Point{0, 0}, Point{5, 5}))
	assert.Nil(t, g.ShortestPath(Point{9, 9}, Point{0, 0}), "unknown source")
}

func TestShortestPathTrivial(t *testing.T) {
	g := lineGrid(Point{3, 3})
	assert.Equal(t, []Point{{3, 3}}, g.ShortestPath(Point{3, 3}, Point{3, 3}))
}

func TestClosestCompute(t *testing.T) {
	g := NewGrid()
	g.Add(Satellite{Pos: Point{0, 0}, Type: "RS"})
	g.Add(Satellite{Pos: Point{1, 0}, Type: "RS"})
	g.Add(Satellite{Pos: Point{2, 0}, Type: TypeCompute, ComputeCapacity: 100})
	g.Add(Satellite{Pos: Point{0, 1}, Type: TypeCompute, ComputeCapacity: 50})

	// (2,0) is one intra-orbit hop away (cost 1); (0,1) needs a plane
	// change and costs 3
	cs, ok := g.ClosestCompute(Point{1, 0})
	require.True(t, ok)
	assert.Equal(t, Point{2, 0}, cs)
}

func TestClosestComputeFromComputeNode(t *testing.T) {
	g := NewGrid()
	g.Add(Satellite{Pos: Point{0, 0}, Type: TypeCompute})
	cs, ok := g.ClosestCompute(Point{0, 0})
	require.True(t, ok)
	assert.Equal(t, Point{0, 0}, cs)
}

func TestClosestComputeNone(t *testing.T) {
	g := lineGrid(Point{0, 0}, Point{1, 0})
	_, ok := g.ClosestCompute(Point{0, 0})
	assert.False(t, ok)
	_, ok = g.ClosestCompute(Point{9, 9})
	assert.False(t, ok)
}

func TestReadInput(t *testing.T) {
	input := `3
0 0 RS E 0
1 0 RS E 0
2 0 CS W 100
2
1 0 0 2 0
2 0 0
`
	grid, queries, err := ReadInput(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, grid.Len())

	s, ok := grid.At(Point{2, 0})
	require.True(t, ok)
	assert.Equal(t, TypeCompute, s.Type)
	assert.Equal(t, 100, s.ComputeCapacity)

	require.Len(t, queries, 2)
	assert.Equal(t, Query{Kind: 1, Source: Point{0, 0}, Target: Point{2, 0}}, queries[0])
	assert.Equal(t, Query{Kind: 2, Source: Point{0, 0}}, queries[1])
}

func TestReadInputErrors(t *testing.T) {
	cases := map[string]string{
		"bad count":      "x\n",
		"short sat line": "1\n0 0 RS\n",
		"truncated":      "2\n0 0 RS E 0\n",
		"bad query":      "1\n0 0 RS E 0\n1\n3 0 0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ReadInput(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestRunQueries(t *testing.T) {
	grid, queries, err := ReadInput(strings.NewReader(`3
0 0 RS E 0
1 0 RS E 0
2 0 CS W 100
3
1 0 0 2 0
2 1 0
1 0 0 9 9
`))
	require.NoError(t, err)

	var out strings.Builder
	RunQueries(grid, queries, &out)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Shortest path from (0,0) to (2,0): (0,0) -> (1,0) -> (2,0)", lines[0])
	assert.Equal(t, "Closest Compute Satellite to (1,0): (2,0)", lines[1])
	assert.Equal(t, "No path found between (0,0) and (9,9).", lines[2])
}
