// Package roadgraph provides the topology storage of a road routing engine.
//
// A BaseGraph keeps nodes and edges in fixed-size records on segmented,
// growable data accesses (see package storage). Every node heads a singly
// linked chain through the edges touching it, so adjacency is walked without
// per-node allocations. Edge attributes are bit-packed into a few flag words
// whose layout is defined by an ev.Manager.
//
// # Quick Start
//
//	car := ev.VehicleAccess("car")
//	speed := ev.VehicleSpeed("car", 5, 5, true)
//	em, _ := ev.NewManager(car, speed)
//
//	g, _ := roadgraph.NewBuilder(em).Build()
//	defer g.Close()
//	_ = g.Create(100)
//
//	e, _ := g.Edge(0, 1)
//	_ = e.SetBool(car, true)
//	_ = e.SetDistance(120)
//
//	explorer := g.CreateEdgeExplorer(roadgraph.OutEdges(car))
//	it, _ := explorer.SetBaseNode(0)
//	for it.Next() {
//	    fmt.Println(it.Edge(), it.AdjNode())
//	}
//
// # Storage
//
// The builder's directory decides where tables live:
//
//	storage.NewRAMDirectory("", false)          // transient
//	storage.NewRAMDirectory("/data/g", true)    // in memory, persisted on Flush
//	storage.NewMMapDirectory("/data/g")         // memory mapped files
//
// Durable graphs are reopened with LoadExisting instead of Create.
//
// # Edge Keys
//
// CreateEdgeKey packs an edge id and a direction into one int: edge*2 for
// the stored direction, edge*2+1 for the reverse. GetCommonNode resolves the
// node shared by two edges and rejects disjoint and parallel edges.
//
// # Snapshots
//
// Snapshot uploads all tables to a blobstore.BlobStore (local, memory, MinIO,
// S3) and Restore rebuilds a graph from it:
//
//	store := blobstore.NewLocalStore("/backups/graph")
//	_ = g.Snapshot(ctx, store, "2024-06-01")
//	g2, _ := roadgraph.RestoreLatest(ctx, store, roadgraph.NewBuilder(em))
//
// # Concurrency
//
// A graph has a single writer. After Freeze (or any external barrier ending
// the build phase) it may be read from many goroutines, each with its own
// explorer. Explorers are not safe for concurrent use.
package roadgraph
