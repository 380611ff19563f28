package roadgraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/roadgraph/ev"
	"github.com/hupe1980/roadgraph/internal/conv"
	"github.com/hupe1980/roadgraph/storage"
)

// BaseGraph stores a directed multigraph in three record tables: nodes,
// edges and way geometry. Every node heads a singly linked chain through the
// edges touching it; new edges are appended at the chain tail.
//
// A BaseGraph has a single writer. Once the build phase is over (see Freeze)
// any number of goroutines may read it, each with its own explorer.
type BaseGraph struct {
	em        *ev.Manager
	dir       storage.Directory
	ownsDir   bool
	is3D      bool
	flagWords int
	logger    *Logger
	metrics   MetricsCollector

	nodes    *storage.RecordTable
	edges    *storage.RecordTable
	geometry *storage.RecordTable
	nodeDA   storage.DataAccess
	edgeDA   storage.DataAccess
	geoDA    storage.DataAccess

	initialized bool
	frozen      bool
	closed      bool
}

// Create allocates empty tables sized for about expectedNodes nodes.
func (g *BaseGraph) Create(expectedNodes int) error {
	err := g.create(expectedNodes)
	g.logger.LogCreate(context.Background(), expectedNodes, err)
	return err
}

func (g *BaseGraph) create(expectedNodes int) error {
	switch {
	case g.closed:
		return ErrClosed
	case g.initialized:
		return ErrAlreadyInitialized
	case expectedNodes < 0:
		return fmt.Errorf("%w: expected nodes %d", ErrInvalid, expectedNodes)
	}

	if err := g.nodes.Create(expectedNodes); err != nil {
		return g.abandon(err)
	}
	if err := g.edges.Create(expectedNodes); err != nil {
		return g.abandon(err)
	}
	if err := g.geometry.Create(max(expectedNodes, 64)); err != nil {
		return g.abandon(err)
	}
	// word 0 marks "no geometry"
	if _, err := g.geometry.Add(1); err != nil {
		return g.abandon(err)
	}

	g.syncHeaders()
	g.initialized = true
	return nil
}

// LoadExisting opens a previously flushed graph. It reports false if the
// directory is not durable or holds no graph.
func (g *BaseGraph) LoadExisting() (bool, error) {
	ok, err := g.loadExisting()
	g.logger.LogLoad(context.Background(), ok, g.Nodes(), g.Edges(), err)
	return ok, err
}

func (g *BaseGraph) loadExisting() (bool, error) {
	switch {
	case g.closed:
		return false, ErrClosed
	case g.initialized:
		return false, ErrAlreadyInitialized
	case !g.nodeDA.Type().IsStoring():
		return false, nil
	}

	ok, err := g.nodes.LoadExisting()
	if err != nil {
		return false, g.abandon(err)
	}
	if !ok {
		return false, nil
	}
	for _, t := range []*storage.RecordTable{g.edges, g.geometry} {
		ok, err := t.LoadExisting()
		if err != nil {
			return false, g.abandon(err)
		}
		if !ok {
			return false, g.abandon(fmt.Errorf("%w: table %s is missing", ErrCorrupt, t.DataAccess().Name()))
		}
	}

	if err := g.checkHeaders(); err != nil {
		return false, g.abandon(err)
	}

	g.initialized = true
	return true, nil
}

// headers returns the current headers of the nodes, edges and geometry
// tables without writing them.
func (g *BaseGraph) headers() [3][storage.HeaderInts]int32 {
	fp := int32(g.em.Fingerprint())
	dim := int32(g.Dimension())

	nodes, edges, geo := g.nodes.Header(), g.edges.Header(), g.geometry.Header()
	nodes[headerDimension] = dim
	nodes[headerFingerprint] = fp
	edges[headerFlagWords] = int32(g.flagWords)
	edges[headerFingerprint] = fp
	geo[headerDimension] = dim
	return [3][storage.HeaderInts]int32{nodes, edges, geo}
}

func (g *BaseGraph) syncHeaders() {
	headers := g.headers()
	for i, t := range g.tables() {
		for slot, v := range headers[i] {
			t.DataAccess().SetHeader(slot, v)
		}
	}
}

func (g *BaseGraph) checkHeaders() error {
	if dim := int(g.nodeDA.GetHeader(headerDimension)); dim != g.Dimension() {
		return fmt.Errorf("%w: stored dimension %d, configured %d", ErrLayoutMismatch, dim, g.Dimension())
	}
	if dim := int(g.geoDA.GetHeader(headerDimension)); dim != g.Dimension() {
		return fmt.Errorf("%w: stored geometry dimension %d, configured %d", ErrLayoutMismatch, dim, g.Dimension())
	}
	if words := int(g.edgeDA.GetHeader(headerFlagWords)); words != g.flagWords {
		return fmt.Errorf("%w: stored %d flag words, configured %d", ErrLayoutMismatch, words, g.flagWords)
	}
	fp := int32(g.em.Fingerprint())
	if g.nodeDA.GetHeader(headerFingerprint) != fp || g.edgeDA.GetHeader(headerFingerprint) != fp {
		return fmt.Errorf("%w: attribute layout differs from %s", ErrLayoutMismatch, g.em.Describe())
	}
	if g.geometry.Len() < 1 {
		return fmt.Errorf("%w: geometry table is empty", ErrCorrupt)
	}
	return nil
}

// Edge creates an edge from a to b and appends it to both adjacency chains.
// Node ids beyond Nodes grow the node table. The edge is either created
// completely or not at all.
func (g *BaseGraph) Edge(a, b int) (EdgeIteratorState, error) {
	start := time.Now()
	s, err := g.edge(a, b)
	g.metrics.RecordEdge(time.Since(start), err)
	if err != nil {
		if errors.Is(err, ErrCapacity) {
			g.logger.WithNode(max(a, b)).Warn("edge rejected", "edges", g.Edges(), "error", err)
		}
		return nil, err
	}
	return s, nil
}

func (g *BaseGraph) edge(a, b int) (*edgeState, error) {
	if err := g.checkWritable(); err != nil {
		return nil, err
	}
	if a < 0 || b < 0 {
		return nil, &NodeOutOfRangeError{Node: min(a, b), Nodes: g.Nodes()}
	}
	if a == b {
		return nil, fmt.Errorf("%w: node %d", ErrSelfLoop, a)
	}

	if _, err := conv.IntToInt32(max(a, b)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacity, err)
	}
	edge := g.edges.Len()
	id, err := conv.IntToInt32(edge)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacity, err)
	}
	if err := g.edges.Reserve(edge); err != nil {
		return nil, translateError(err)
	}
	if err := g.ensureNode(max(a, b)); err != nil {
		return nil, err
	}
	if err := g.edges.EnsureIndex(edge); err != nil {
		return nil, translateError(err)
	}

	ptr := g.edges.Pointer(edge)
	g.edgeDA.SetInt(ptr+edgeNodeA, int32(a))
	g.edgeDA.SetInt(ptr+edgeNodeB, int32(b))
	g.edgeDA.SetInt(ptr+edgeLinkA, noEdge)
	g.edgeDA.SetInt(ptr+edgeLinkB, noEdge)
	g.edgeDA.SetInt(ptr+edgeDistance, 0)
	g.edgeDA.SetInt(ptr+edgeGeoLow, 0)
	g.edgeDA.SetInt(ptr+edgeGeoHigh, 0)
	for i := range g.flagWords {
		g.edgeDA.SetInt(ptr+edgeFlags+int64(i)*4, 0)
	}

	g.appendToChain(a, id)
	g.appendToChain(b, id)

	s := &edgeState{g: g}
	s.init(edge, false)
	return s, nil
}

// ensureNode grows the node table so that node exists. New nodes have empty
// chains.
func (g *BaseGraph) ensureNode(node int) error {
	first := g.nodes.Len()
	if node < first {
		return nil
	}
	if err := g.nodes.EnsureIndex(node); err != nil {
		return translateError(err)
	}
	for n := first; n <= node; n++ {
		ptr := g.nodes.Pointer(n)
		g.nodeDA.SetInt(ptr+nodeHead, noEdge)
		g.nodeDA.SetInt(ptr+nodeTail, noEdge)
		g.nodeDA.SetInt(ptr+nodeLat, 0)
		g.nodeDA.SetInt(ptr+nodeLon, 0)
		if g.is3D {
			g.nodeDA.SetInt(ptr+nodeEle, 0)
		}
	}
	return nil
}

func (g *BaseGraph) appendToChain(node int, edge int32) {
	nodePtr := g.nodes.Pointer(node)
	tail := g.nodeDA.GetInt(nodePtr + nodeTail)
	if tail == noEdge {
		g.nodeDA.SetInt(nodePtr+nodeHead, edge)
	} else {
		g.edgeDA.SetInt(g.linkPos(int(tail), node), edge)
	}
	g.nodeDA.SetInt(nodePtr+nodeTail, edge)
}

// linkPos returns the position of the link field that continues node's
// chain after edge.
func (g *BaseGraph) linkPos(edge, node int) int64 {
	ptr := g.edges.Pointer(edge)
	if int(g.edgeDA.GetInt(ptr+edgeNodeA)) == node {
		return ptr + edgeLinkA
	}
	return ptr + edgeLinkB
}

// Nodes returns the number of nodes.
func (g *BaseGraph) Nodes() int { return g.nodes.Len() }

// Edges returns the number of edges.
func (g *BaseGraph) Edges() int { return g.edges.Len() }

// EdgeIteratorState returns a state for edge. With adjNode set to AnyNode the
// state has the stored direction, otherwise adjNode must be an endpoint and
// becomes the state's adjacent node.
func (g *BaseGraph) EdgeIteratorState(edge, adjNode int) (EdgeIteratorState, error) {
	if err := g.checkReadable(); err != nil {
		return nil, err
	}
	if err := g.checkEdge(edge); err != nil {
		return nil, err
	}
	s := &edgeState{g: g}
	s.init(edge, false)
	switch adjNode {
	case AnyNode, s.adj:
	case s.base:
		s.init(edge, true)
	default:
		return nil, fmt.Errorf("%w: node %d is not an endpoint of edge %d", ErrInvalid, adjNode, edge)
	}
	return s, nil
}

// EdgeIteratorStateForKey returns the state of the edge and direction encoded
// in key.
func (g *BaseGraph) EdgeIteratorStateForKey(key int) (EdgeIteratorState, error) {
	if err := g.checkReadable(); err != nil {
		return nil, err
	}
	edge := EdgeFromEdgeKey(key)
	if err := g.checkEdge(edge); err != nil {
		return nil, err
	}
	s := &edgeState{g: g}
	s.init(edge, IsReverseEdgeKey(key))
	return s, nil
}

// NodeAccess returns the coordinate accessor.
func (g *BaseGraph) NodeAccess() *NodeAccess {
	return &NodeAccess{g: g}
}

// EncodingManager returns the attribute layout.
func (g *BaseGraph) EncodingManager() *ev.Manager { return g.em }

// Directory returns the directory holding the tables.
func (g *BaseGraph) Directory() storage.Directory { return g.dir }

// Is3D reports whether nodes carry an elevation.
func (g *BaseGraph) Is3D() bool { return g.is3D }

// Dimension returns 3 for graphs with elevation, else 2.
func (g *BaseGraph) Dimension() int {
	if g.is3D {
		return 3
	}
	return 2
}

// Freeze ends the build phase. Afterwards Edge, SetNode and SetWayGeometry
// fail with ErrFrozen and concurrent readers are safe. Attribute setters
// remain usable.
func (g *BaseGraph) Freeze() { g.frozen = true }

// IsFrozen reports whether Freeze was called.
func (g *BaseGraph) IsFrozen() bool { return g.frozen }

// IsInitialized reports whether Create or LoadExisting succeeded.
func (g *BaseGraph) IsInitialized() bool { return g.initialized }

// IsClosed reports whether the graph is closed.
func (g *BaseGraph) IsClosed() bool { return g.closed }

// Flush persists all tables. It is a no-op for transient directories.
func (g *BaseGraph) Flush() error {
	start := time.Now()
	err := g.flush()
	d := time.Since(start)
	g.metrics.RecordFlush(d, err)
	g.logger.LogFlush(context.Background(), g.Nodes(), g.Edges(), d, err)
	return err
}

func (g *BaseGraph) flush() error {
	if err := g.checkReadable(); err != nil {
		return err
	}
	g.syncHeaders()
	return translateError(errors.Join(
		g.nodes.Flush(),
		g.edges.Flush(),
		g.geometry.Flush(),
	))
}

// Close releases all tables. A directory created by the builder is closed
// too. Close is idempotent.
func (g *BaseGraph) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if err := g.release(); err != nil {
		g.logger.Error("close failed", "error", err)
		return translateError(err)
	}
	return nil
}

func (g *BaseGraph) release() error {
	var errs []error
	for _, t := range []*storage.RecordTable{g.nodes, g.edges, g.geometry} {
		if t != nil {
			errs = append(errs, t.Close())
		}
	}
	if g.ownsDir {
		errs = append(errs, g.dir.Close())
	}
	return errors.Join(errs...)
}

// Capacity returns the allocated bytes of all tables.
func (g *BaseGraph) Capacity() int64 {
	return g.nodeDA.Capacity() + g.edgeDA.Capacity() + g.geoDA.Capacity()
}

func (g *BaseGraph) String() string {
	return fmt.Sprintf("BaseGraph{dir: %v, 3D: %t, nodes: %d, edges: %d, flags: %d words}",
		g.dir, g.is3D, g.Nodes(), g.Edges(), g.flagWords)
}

func (g *BaseGraph) checkReadable() error {
	switch {
	case g.closed:
		return ErrClosed
	case !g.initialized:
		return ErrNotInitialized
	}
	return nil
}

func (g *BaseGraph) checkWritable() error {
	if err := g.checkReadable(); err != nil {
		return err
	}
	if g.frozen {
		return ErrFrozen
	}
	return nil
}

func (g *BaseGraph) checkEdge(edge int) error {
	if edge < 0 || edge >= g.Edges() {
		return &EdgeOutOfRangeError{Edge: edge, Edges: g.Edges()}
	}
	return nil
}

func (g *BaseGraph) checkNode(node int) error {
	if node < 0 || node >= g.Nodes() {
		return &NodeOutOfRangeError{Node: node, Nodes: g.Nodes()}
	}
	return nil
}
