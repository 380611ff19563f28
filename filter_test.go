package roadgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjNodes(t *testing.T, explorer EdgeExplorer, node int) []int {
	t.Helper()
	var out []int
	for _, a := range collect(t, explorer, node) {
		out = append(out, a.Adj)
	}
	return out
}

func TestAccessFilter(t *testing.T) {
	g, l := newTestGraph(t)

	// 0 -> 1 one way, 0 <-> 2 both ways, 3 -> 0 one way, 0 - 4 closed
	oneway := mustEdge(t, g, 0, 1)
	require.NoError(t, oneway.SetBool(l.car, true))
	both := mustEdge(t, g, 0, 2)
	require.NoError(t, both.SetBool(l.car, true))
	require.NoError(t, both.SetReverseBool(l.car, true))
	in := mustEdge(t, g, 3, 0)
	require.NoError(t, in.SetBool(l.car, true))
	mustEdge(t, g, 0, 4)

	assert.Equal(t, []int{1, 2}, adjNodes(t, g.CreateEdgeExplorer(OutEdges(l.car)), 0))
	assert.Equal(t, []int{2, 3}, adjNodes(t, g.CreateEdgeExplorer(InEdges(l.car)), 0))
	assert.Equal(t, []int{1, 2, 3}, adjNodes(t, g.CreateEdgeExplorer(AllAccessEdges(l.car)), 0))
	assert.Equal(t, []int{1, 2, 3, 4}, adjNodes(t, g.CreateEdgeExplorer(), 0))
	assert.Equal(t, []int{1, 2, 3, 4}, adjNodes(t, g.CreateEdgeExplorer(AllEdges), 0))

	// seen from the other end the directions flip
	assert.Empty(t, adjNodes(t, g.CreateEdgeExplorer(OutEdges(l.car)), 1))
	assert.Equal(t, []int{0}, adjNodes(t, g.CreateEdgeExplorer(InEdges(l.car)), 1))
	assert.Equal(t, []int{0}, adjNodes(t, g.CreateEdgeExplorer(OutEdges(l.car)), 3))

	assert.Equal(t, "access(car_access, fwd=true, bwd=false)", OutEdges(l.car).String())
}

func TestAnd(t *testing.T) {
	g, l := newTestGraph(t)
	for i := 1; i <= 4; i++ {
		e := mustEdge(t, g, 0, i)
		require.NoError(t, e.SetBool(l.car, true))
	}

	even := EdgeFilterFunc(func(s EdgeIteratorState) bool { return s.AdjNode()%2 == 0 })
	assert.Equal(t, []int{2, 4}, adjNodes(t, g.CreateEdgeExplorer(OutEdges(l.car), even), 0))
	assert.Equal(t, []int{2, 4}, adjNodes(t, g.CreateEdgeExplorer(nil, even, nil), 0))
	assert.Empty(t, adjNodes(t, g.CreateEdgeExplorer(InEdges(l.car), even), 0))

	assert.True(t, And().Accept(nil))
	assert.True(t, And(nil).Accept(nil))
}

func TestAccessFilter_NilValue(t *testing.T) {
	g, _ := newTestGraph(t)
	mustEdge(t, g, 0, 1)

	assert.Empty(t, adjNodes(t, g.CreateEdgeExplorer(OutEdges(nil)), 0))
	assert.Empty(t, adjNodes(t, g.CreateEdgeExplorer(AllAccessEdges(nil)), 1))
	assert.Equal(t, "access(<nil>, fwd=false, bwd=true)", InEdges(nil).String())
}

func TestEdgeExplorer_FilteredIteratorAttributes(t *testing.T) {
	g, l := newTestGraph(t)
	for i, e := range [][2]int{{0, 1}, {2, 0}, {0, 3}, {4, 0}} {
		s := mustEdge(t, g, e[0], e[1])
		require.NoError(t, s.SetBool(l.car, true))
		require.NoError(t, s.SetReverseBool(l.car, i == 1))
		require.NoError(t, s.SetDecimal(l.speed, float64(10*(i+1))))
		require.NoError(t, s.SetEnum(l.class, "primary"))
	}

	it, err := g.CreateEdgeExplorer(OutEdges(l.car)).SetBaseNode(0)
	require.NoError(t, err)

	var seen []int
	for it.Next() {
		seen = append(seen, it.AdjNode())
		s, err := g.EdgeIteratorState(it.Edge(), it.AdjNode())
		require.NoError(t, err)

		assert.True(t, it.GetBool(l.car))
		assert.Equal(t, s.GetBool(l.car), it.GetBool(l.car))
		assert.Equal(t, s.GetReverseBool(l.car), it.GetReverseBool(l.car))
		assert.InDelta(t, s.GetDecimal(l.speed), it.GetDecimal(l.speed), 1e-9)
		assert.InDelta(t, s.GetReverseDecimal(l.speed), it.GetReverseDecimal(l.speed), 1e-9)
		assert.Equal(t, "primary", it.GetEnum(l.class))

		require.NoError(t, it.SetDecimal(l.speed, 50))
		require.NoError(t, it.SetEnum(l.class, "residential"))
	}
	// 2 -> 0 is open both ways, 4 -> 0 only towards 0
	assert.Equal(t, []int{1, 2, 3}, seen)

	for edge, adj := range map[int]int{0: 1, 1: 2, 2: 3} {
		s, err := g.EdgeIteratorState(edge, adj)
		require.NoError(t, err)
		assert.InDelta(t, 50, s.GetDecimal(l.speed), 1e-9, "edge %d", edge)
		assert.Equal(t, "residential", s.GetEnum(l.class), "edge %d", edge)
	}
	s, err := g.EdgeIteratorState(3, AnyNode)
	require.NoError(t, err)
	assert.InDelta(t, 40, s.GetDecimal(l.speed), 1e-9)
	assert.Equal(t, "primary", s.GetEnum(l.class))
}
