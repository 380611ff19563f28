package roadgraph

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// ProblemKind classifies a structural problem found by Validate.
type ProblemKind string

const (
	// ProblemEdgeOutOfRange: a chain references a nonexistent edge.
	ProblemEdgeOutOfRange ProblemKind = "edge_out_of_range"
	// ProblemChainMismatch: a chain contains an edge that does not touch the node.
	ProblemChainMismatch ProblemKind = "chain_mismatch"
	// ProblemCycle: a chain never terminates.
	ProblemCycle ProblemKind = "cycle"
	// ProblemTailMismatch: the stored chain tail is not the last chain element.
	ProblemTailMismatch ProblemKind = "tail_mismatch"
	// ProblemSelfLoop: an edge record has equal endpoints.
	ProblemSelfLoop ProblemKind = "self_loop"
	// ProblemNodeOutOfRange: an edge record references a nonexistent node.
	ProblemNodeOutOfRange ProblemKind = "node_out_of_range"
	// ProblemUnlinked: an edge is missing from the chain of one endpoint.
	ProblemUnlinked ProblemKind = "unlinked"
)

// Problem is one structural defect. Node or Edge is -1 when not applicable.
type Problem struct {
	Kind   ProblemKind
	Node   int
	Edge   int
	Detail string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s node=%d edge=%d: %s", p.Kind, p.Node, p.Edge, p.Detail)
}

const validateCheckEvery = 4096

// Validate scans all adjacency chains and edge records with the given number
// of goroutines (GOMAXPROCS if workers <= 0). It only reads, so it may run
// concurrently with explorers once the graph is frozen. Problems are sorted
// by node, edge and kind.
func Validate(ctx context.Context, g *BaseGraph, workers int) ([]Problem, error) {
	start := time.Now()
	problems, err := validate(ctx, g, workers)
	g.metrics.RecordValidate(len(problems), time.Since(start), err)
	g.logger.LogValidate(ctx, len(problems), err)
	return problems, err
}

type validateResult struct {
	problems []Problem
	seenA    *roaring.Bitmap
	seenB    *roaring.Bitmap
}

func validate(ctx context.Context, g *BaseGraph, workers int) ([]Problem, error) {
	if err := g.checkReadable(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	nodes, edges := g.Nodes(), g.Edges()
	results := make([]validateResult, workers)

	eg, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		eg.Go(func() error {
			r := &results[w]
			r.seenA, r.seenB = roaring.New(), roaring.New()
			i := 0
			for node := w; node < nodes; node += workers {
				if i++; i%validateCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				r.problems = g.checkChain(node, r.problems, r.seenA, r.seenB)
			}
			for edge := w; edge < edges; edge += workers {
				if i++; i%validateCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				r.problems = g.checkEdgeRecord(edge, r.problems)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var problems []Problem
	seenA, seenB := roaring.New(), roaring.New()
	for _, r := range results {
		problems = append(problems, r.problems...)
		seenA.Or(r.seenA)
		seenB.Or(r.seenB)
	}

	for edge := range edges {
		ptr := g.edges.Pointer(edge)
		a := int(g.edgeDA.GetInt(ptr + edgeNodeA))
		b := int(g.edgeDA.GetInt(ptr + edgeNodeB))
		if a >= 0 && a < nodes && !seenA.Contains(uint32(edge)) {
			problems = append(problems, Problem{Kind: ProblemUnlinked, Node: a, Edge: edge, Detail: "missing from chain"})
		}
		if b >= 0 && b < nodes && a != b && !seenB.Contains(uint32(edge)) {
			problems = append(problems, Problem{Kind: ProblemUnlinked, Node: b, Edge: edge, Detail: "missing from chain"})
		}
	}

	slices.SortFunc(problems, func(x, y Problem) int {
		return cmp.Or(
			cmp.Compare(x.Node, y.Node),
			cmp.Compare(x.Edge, y.Edge),
			cmp.Compare(x.Kind, y.Kind),
		)
	})
	return problems, nil
}

func (g *BaseGraph) checkChain(node int, problems []Problem, seenA, seenB *roaring.Bitmap) []Problem {
	edges := g.Edges()
	ptr := g.nodes.Pointer(node)
	tail := g.nodeDA.GetInt(ptr + nodeTail)

	last := noEdge
	steps := 0
	for e := g.nodeDA.GetInt(ptr + nodeHead); e != noEdge; {
		if e < 0 || int(e) >= edges {
			return append(problems, Problem{Kind: ProblemEdgeOutOfRange, Node: node, Edge: int(e),
				Detail: fmt.Sprintf("after edge %d", last)})
		}
		if steps++; steps > edges {
			return append(problems, Problem{Kind: ProblemCycle, Node: node, Edge: int(e),
				Detail: fmt.Sprintf("chain longer than %d edges", edges)})
		}

		ep := g.edges.Pointer(int(e))
		switch node {
		case int(g.edgeDA.GetInt(ep + edgeNodeA)):
			seenA.Add(uint32(e))
			last, e = e, g.edgeDA.GetInt(ep+edgeLinkA)
		case int(g.edgeDA.GetInt(ep + edgeNodeB)):
			seenB.Add(uint32(e))
			last, e = e, g.edgeDA.GetInt(ep+edgeLinkB)
		default:
			return append(problems, Problem{Kind: ProblemChainMismatch, Node: node, Edge: int(e),
				Detail: "edge does not touch node"})
		}
	}

	if last != tail {
		problems = append(problems, Problem{Kind: ProblemTailMismatch, Node: node, Edge: int(tail),
			Detail: fmt.Sprintf("last chain edge is %d", last)})
	}
	return problems
}

func (g *BaseGraph) checkEdgeRecord(edge int, problems []Problem) []Problem {
	nodes := g.Nodes()
	ptr := g.edges.Pointer(edge)
	a := int(g.edgeDA.GetInt(ptr + edgeNodeA))
	b := int(g.edgeDA.GetInt(ptr + edgeNodeB))

	if a == b {
		problems = append(problems, Problem{Kind: ProblemSelfLoop, Node: a, Edge: edge, Detail: "equal endpoints"})
	}
	for _, n := range []int{a, b} {
		if n < 0 || n >= nodes {
			problems = append(problems, Problem{Kind: ProblemNodeOutOfRange, Node: n, Edge: edge,
				Detail: fmt.Sprintf("node count %d", nodes)})
		}
	}
	return problems
}
