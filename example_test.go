package roadgraph_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/roadgraph"
	"github.com/hupe1980/roadgraph/blobstore"
	"github.com/hupe1980/roadgraph/ev"
)

// Example_builder demonstrates creating an in-memory graph with the fluent builder.
func Example_builder() {
	em, err := ev.NewManager(ev.VehicleAccess("car"), ev.NewRoadClass())
	if err != nil {
		log.Fatal(err)
	}

	g, err := roadgraph.NewBuilder(em).
		Set3D(true).     // store elevation
		SegmentSize(128). // small segments
		Build()
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	if err := g.Create(100); err != nil {
		log.Fatal(err)
	}

	fmt.Println(g)
	// Output: BaseGraph{dir: RAM(), 3D: true, nodes: 0, edges: 0, flags: 1 words}
}

// Example_explorer demonstrates walking the edges around a node.
func Example_explorer() {
	car := ev.VehicleAccess("car")
	em, err := ev.NewManager(car)
	if err != nil {
		log.Fatal(err)
	}
	g := roadgraph.NewBuilder(em).MustBuild()
	defer g.Close()
	if err := g.Create(10); err != nil {
		log.Fatal(err)
	}

	for _, e := range [][2]int{{0, 1}, {2, 0}, {0, 3}} {
		s, err := g.Edge(e[0], e[1])
		if err != nil {
			log.Fatal(err)
		}
		if err := s.SetBool(car, true); err != nil {
			log.Fatal(err)
		}
	}

	explorer := g.CreateEdgeExplorer(roadgraph.OutEdges(car))
	it, err := explorer.SetBaseNode(0)
	if err != nil {
		log.Fatal(err)
	}
	for it.Next() {
		fmt.Println(it)
	}
	// Output:
	// 0 0-1
	// 2 0-3
}

// Example_commonNode demonstrates edge keys and the common node of two edges.
func Example_commonNode() {
	em, err := ev.NewManager(ev.VehicleAccess("car"))
	if err != nil {
		log.Fatal(err)
	}
	g := roadgraph.NewBuilder(em).MustBuild()
	defer g.Close()
	if err := g.Create(10); err != nil {
		log.Fatal(err)
	}

	a, _ := g.Edge(0, 1)
	b, _ := g.Edge(2, 1)

	node, err := roadgraph.GetCommonNode(g, a.Edge(), b.Edge())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("common node:", node)
	fmt.Println("keys:", roadgraph.CreateEdgeKey(b.Edge(), false), roadgraph.CreateEdgeKey(b.Edge(), true))
	// Output:
	// common node: 1
	// keys: 2 3
}

// Example_wayGeometry demonstrates storing pillar nodes on an edge.
func Example_wayGeometry() {
	em, err := ev.NewManager(ev.VehicleAccess("car"))
	if err != nil {
		log.Fatal(err)
	}
	g := roadgraph.NewBuilder(em).MustBuild()
	defer g.Close()
	if err := g.Create(2); err != nil {
		log.Fatal(err)
	}

	e, err := g.Edge(0, 1)
	if err != nil {
		log.Fatal(err)
	}
	na := g.NodeAccess()
	_ = na.SetNode(0, 52.5, 13.4, 0)
	_ = na.SetNode(1, 52.6, 13.5, 0)
	if err := e.SetWayGeometry([]roadgraph.Point{{Lat: 52.55, Lon: 13.45}}); err != nil {
		log.Fatal(err)
	}

	for _, p := range e.Detach(true).FetchWayGeometry(roadgraph.FetchAll) {
		fmt.Printf("%.2f,%.2f\n", p.Lat, p.Lon)
	}
	// Output:
	// 52.60,13.50
	// 52.55,13.45
	// 52.50,13.40
}

// Example_snapshot demonstrates uploading a graph to a blob store and
// restoring it.
func Example_snapshot() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	em, err := ev.NewManager(ev.VehicleAccess("car"))
	if err != nil {
		log.Fatal(err)
	}
	g := roadgraph.NewBuilder(em).MustBuild()
	defer g.Close()
	if err := g.Create(3); err != nil {
		log.Fatal(err)
	}
	_, _ = g.Edge(0, 1)
	_, _ = g.Edge(1, 2)

	if err := g.Snapshot(ctx, store, "2024-06-01"); err != nil {
		log.Fatal(err)
	}

	// restoring needs a manager with the same layout
	em2, err := ev.NewManager(ev.VehicleAccess("car"))
	if err != nil {
		log.Fatal(err)
	}
	restored, err := roadgraph.RestoreLatest(ctx, store, roadgraph.NewBuilder(em2))
	if err != nil {
		log.Fatal(err)
	}
	defer restored.Close()

	fmt.Println(restored.Nodes(), restored.Edges())
	// Output: 3 2
}
