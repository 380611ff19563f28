package roadgraph

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// CreateEdgeKey encodes an edge and a direction into one integer:
// edge*2 for the stored direction and edge*2+1 for the reverse.
func CreateEdgeKey(edge int, reverse bool) int {
	key := edge << 1
	if reverse {
		key++
	}
	return key
}

// EdgeFromEdgeKey returns the edge of key.
func EdgeFromEdgeKey(key int) int { return key >> 1 }

// IsReverseEdgeKey reports whether key denotes the reverse direction.
func IsReverseEdgeKey(key int) bool { return key&1 == 1 }

// ReverseEdgeKey returns the key of the opposite direction.
func ReverseEdgeKey(key int) int { return key ^ 1 }

// GetCommonNode returns the single node shared by edgeA and edgeB. It fails
// with ErrNoCommonNode if they share none and with ErrAmbiguousCommonNode if
// they connect the same two nodes. The result does not depend on argument
// order.
func GetCommonNode(g *BaseGraph, edgeA, edgeB int) (int, error) {
	a, err := g.EdgeIteratorState(edgeA, AnyNode)
	if err != nil {
		return 0, err
	}
	b, err := g.EdgeIteratorState(edgeB, AnyNode)
	if err != nil {
		return 0, err
	}

	baseA, adjA := a.BaseNode(), a.AdjNode()
	baseB, adjB := b.BaseNode(), b.AdjNode()

	switch {
	case baseA == baseB && adjA == adjB, baseA == adjB && adjA == baseB:
		return 0, fmt.Errorf("%w: edges %d and %d", ErrAmbiguousCommonNode, edgeA, edgeB)
	case baseA == baseB || baseA == adjB:
		return baseA, nil
	case adjA == baseB || adjA == adjB:
		return adjA, nil
	}
	return 0, fmt.Errorf("%w: edges %d and %d", ErrNoCommonNode, edgeA, edgeB)
}

// GetAdjNode returns the end of edge opposite to base.
func GetAdjNode(g *BaseGraph, edge, base int) (int, error) {
	s, err := g.EdgeIteratorState(edge, AnyNode)
	if err != nil {
		return 0, err
	}
	switch base {
	case s.BaseNode():
		return s.AdjNode(), nil
	case s.AdjNode():
		return s.BaseNode(), nil
	}
	return 0, fmt.Errorf("%w: node %d is not an endpoint of edge %d", ErrInvalid, base, edge)
}

// GetEdge returns the first edge from base to adj, positioned with adj as
// adjacent node.
func GetEdge(g *BaseGraph, base, adj int) (EdgeIteratorState, error) {
	it, err := g.CreateEdgeExplorer().SetBaseNode(base)
	if err != nil {
		return nil, err
	}
	for it.Next() {
		if it.AdjNode() == adj {
			return it.Detach(false), nil
		}
	}
	return nil, fmt.Errorf("%w: %d-%d", ErrNoEdge, base, adj)
}

// Neighbors returns the adjacent nodes explorer yields for node.
func Neighbors(explorer EdgeExplorer, node int) (*roaring.Bitmap, error) {
	it, err := explorer.SetBaseNode(node)
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	for it.Next() {
		bm.Add(uint32(it.AdjNode()))
	}
	return bm, nil
}

// EdgeIDs returns the edges explorer yields for node.
func EdgeIDs(explorer EdgeExplorer, node int) (*roaring.Bitmap, error) {
	it, err := explorer.SetBaseNode(node)
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	for it.Next() {
		bm.Add(uint32(it.Edge()))
	}
	return bm, nil
}

// Count consumes it and returns the number of edges it yielded.
func Count(it EdgeIterator) int {
	n := 0
	for it.Next() {
		n++
	}
	return n
}
