package roadgraph

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(problems []Problem) []ProblemKind {
	var out []ProblemKind
	for _, p := range problems {
		out = append(out, p.Kind)
	}
	return out
}

func TestValidate_Clean(t *testing.T) {
	g, _ := newTestGraph(t, func(b Builder) Builder { return b.SegmentSize(128) })
	rng := rand.New(rand.NewPCG(7, 7))
	for range 2000 {
		a, b := rng.IntN(300), rng.IntN(300)
		if a != b {
			mustEdge(t, g, a, b)
		}
	}
	g.Freeze()

	for _, workers := range []int{0, 1, 3, 16} {
		problems, err := Validate(t.Context(), g, workers)
		require.NoError(t, err)
		assert.Empty(t, problems, "workers %d", workers)
	}
}

func TestValidate_Corruption(t *testing.T) {
	setup := func(t *testing.T) *BaseGraph {
		g, _ := newTestGraph(t)
		mustEdge(t, g, 0, 1) // 0
		mustEdge(t, g, 1, 2) // 1
		mustEdge(t, g, 2, 0) // 2
		return g
	}
	setEdge := func(g *BaseGraph, edge int, field int64, v int32) {
		g.edgeDA.SetInt(g.edges.Pointer(edge)+field, v)
	}
	setNode := func(g *BaseGraph, node int, field int64, v int32) {
		g.nodeDA.SetInt(g.nodes.Pointer(node)+field, v)
	}

	tests := []struct {
		name    string
		corrupt func(g *BaseGraph)
		want    []ProblemKind
	}{
		{
			name: "self loop record",
			// edge 0 becomes 1-1: node 0 loses it and node 1 follows the wrong link
			corrupt: func(g *BaseGraph) { setEdge(g, 0, edgeNodeA, 1) },
			want: []ProblemKind{
				ProblemChainMismatch, ProblemChainMismatch, ProblemSelfLoop,
				ProblemUnlinked, ProblemUnlinked,
			},
		},
		{
			name:    "cycle",
			corrupt: func(g *BaseGraph) { setEdge(g, 1, edgeLinkB, 1) },
			want:    []ProblemKind{ProblemCycle, ProblemUnlinked},
		},
		{
			name:    "dangling link",
			corrupt: func(g *BaseGraph) { setEdge(g, 0, edgeLinkA, 42) },
			want:    []ProblemKind{ProblemEdgeOutOfRange, ProblemUnlinked},
		},
		{
			name:    "tail",
			corrupt: func(g *BaseGraph) { setNode(g, 2, nodeTail, 1) },
			want:    []ProblemKind{ProblemTailMismatch},
		},
		{
			name:    "node out of range",
			corrupt: func(g *BaseGraph) { setEdge(g, 2, edgeNodeB, 9) },
			want:    []ProblemKind{ProblemChainMismatch, ProblemNodeOutOfRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := setup(t)
			tt.corrupt(g)
			problems, err := Validate(t.Context(), g, 2)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, kinds(problems), "%v", problems)
		})
	}
}

func TestValidate_Canceled(t *testing.T) {
	g, _ := newTestGraph(t)
	for i := range 20_000 {
		mustEdge(t, g, i, i+1)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := Validate(ctx, g, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidate_Metrics(t *testing.T) {
	m := &BasicMetricsCollector{}
	g, _ := newTestGraph(t, func(b Builder) Builder { return b.Metrics(m) })
	mustEdge(t, g, 0, 1)
	g.edgeDA.SetInt(g.edges.Pointer(0)+edgeNodeB, 0)

	problems, err := Validate(t.Context(), g, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, problems)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats.ValidateCount)
	assert.Equal(t, int64(len(problems)), stats.ValidateProblems)
	assert.Contains(t, problems[0].String(), string(problems[0].Kind))
}
