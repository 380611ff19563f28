package roadgraph

// EdgeExplorer walks the adjacency chain of one node at a time.
// An explorer is not safe for concurrent use; create one per goroutine.
type EdgeExplorer interface {
	// SetBaseNode positions the explorer at node and returns its iterator.
	// The iterator is the same instance on every call.
	SetBaseNode(node int) (EdgeIterator, error)
}

// EdgeIterator is a cursor over the edges accepted by the explorer's filter.
// Its state methods describe the current edge with node as base.
type EdgeIterator interface {
	EdgeIteratorState
	Next() bool
}

// CreateEdgeExplorer returns an explorer yielding the edges accepted by all
// filters. Without filters every edge is yielded.
func (g *BaseGraph) CreateEdgeExplorer(filters ...EdgeFilter) EdgeExplorer {
	return &edgeExplorer{
		it: edgeIterator{
			edgeState: edgeState{g: g, flags: newRecordFlags(g)},
			filter:    And(filters...),
			next:      noEdge,
		},
	}
}

type edgeExplorer struct {
	it edgeIterator
}

func (x *edgeExplorer) SetBaseNode(node int) (EdgeIterator, error) {
	it := &x.it
	g := it.g
	if err := g.checkReadable(); err != nil {
		return nil, err
	}
	if err := g.checkNode(node); err != nil {
		return nil, err
	}
	it.node = node
	it.next = g.nodeDA.GetInt(g.nodes.Pointer(node) + nodeHead)
	it.edge = -1
	return it, nil
}

type edgeIterator struct {
	edgeState
	filter EdgeFilter
	node   int
	next   int32
}

func (it *edgeIterator) Next() bool {
	g := it.g
	if g.closed {
		return false
	}
	for it.next != noEdge {
		edge := int(it.next)
		ptr := g.edges.Pointer(edge)
		a := int(g.edgeDA.GetInt(ptr + edgeNodeA))

		it.edge = edge
		it.ptr = ptr
		it.flags.ptr = ptr + edgeFlags
		it.base = it.node
		if a == it.node {
			it.reverse = false
			it.adj = int(g.edgeDA.GetInt(ptr + edgeNodeB))
			it.next = g.edgeDA.GetInt(ptr + edgeLinkA)
		} else {
			it.reverse = true
			it.adj = a
			it.next = g.edgeDA.GetInt(ptr + edgeLinkB)
		}

		if it.filter.Accept(it) {
			return true
		}
	}
	return false
}
