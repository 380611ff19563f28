package roadgraph

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentArrays(components []*roaring.Bitmap) [][]uint32 {
	out := make([][]uint32, len(components))
	for i, c := range components {
		out[i] = c.ToArray()
	}
	return out
}

func TestSubnetworks(t *testing.T) {
	g, l := newTestGraph(t)
	// {0,1,2} {3,4} {5,6} and 7 reachable only over a closed edge
	for _, e := range [][2]int{{0, 1}, {1, 2}, {3, 4}, {6, 5}} {
		s := mustEdge(t, g, e[0], e[1])
		require.NoError(t, s.SetBool(l.car, true))
	}
	mustEdge(t, g, 2, 7)

	components, err := Subnetworks(g, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{0, 1, 2, 7}, {3, 4}, {5, 6}}, componentArrays(components))

	components, err = Subnetworks(g, AllAccessEdges(l.car))
	require.NoError(t, err)
	assert.Equal(t, [][]uint32{{0, 1, 2}, {3, 4}, {5, 6}, {7}}, componentArrays(components))

	// one-way edges still connect weakly
	components, err = Subnetworks(g, OutEdges(l.car))
	require.NoError(t, err)
	assert.Len(t, components, 4)
}

func TestSubnetworks_NotInitialized(t *testing.T) {
	l := newTestLayout(t)
	g := NewBuilder(l.em).MustBuild()
	defer g.Close()

	_, err := Subnetworks(g, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}
