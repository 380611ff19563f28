package roadgraph

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/roadgraph/internal/unionfind"
)

// Subnetworks returns the weakly connected components of the graph formed by
// the edges filter accepts, largest first. Ties are ordered by smallest node.
// Nodes without accepted edges form single-node components.
func Subnetworks(g *BaseGraph, filter EdgeFilter) ([]*roaring.Bitmap, error) {
	if err := g.checkReadable(); err != nil {
		return nil, err
	}

	n := g.Nodes()
	uf := unionfind.New(n)
	explorer := g.CreateEdgeExplorer(filter)
	for node := range n {
		it, err := explorer.SetBaseNode(node)
		if err != nil {
			return nil, err
		}
		for it.Next() {
			uf.Union(int32(node), int32(it.AdjNode()))
		}
	}

	byRoot := make(map[int32]*roaring.Bitmap)
	var components []*roaring.Bitmap
	for node := range n {
		root := uf.Find(int32(node))
		bm, ok := byRoot[root]
		if !ok {
			bm = roaring.New()
			byRoot[root] = bm
			components = append(components, bm)
		}
		bm.Add(uint32(node))
	}

	slices.SortStableFunc(components, func(a, b *roaring.Bitmap) int {
		if ca, cb := a.GetCardinality(), b.GetCardinality(); ca != cb {
			if ca > cb {
				return -1
			}
			return 1
		}
		return int(a.Minimum()) - int(b.Minimum())
	})
	return components, nil
}
