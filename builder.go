package roadgraph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/roadgraph/ev"
	"github.com/hupe1980/roadgraph/storage"
)

// Builder is an immutable fluent builder for BaseGraph instances.
// Each method returns a new builder with the updated configuration.
//
// Example:
//
//	g, err := roadgraph.NewBuilder(em).
//	    Dir(storage.NewMMapDirectory("/var/lib/graph")).
//	    Set3D(true).
//	    Build()
type Builder struct {
	em          *ev.Manager
	dir         storage.Directory
	is3D        bool
	segmentSize int
	flagBudget  int
	logger      *Logger
	metrics     MetricsCollector
}

// NewBuilder creates a builder for graphs storing the attributes of em.
func NewBuilder(em *ev.Manager) Builder {
	return Builder{
		em:         em,
		flagBudget: DefaultFlagBudget,
	}
}

// Dir sets the directory holding the graph tables. Without one the graph
// lives in a private RAM directory.
func (b Builder) Dir(dir storage.Directory) Builder {
	b.dir = dir
	return b
}

// Set3D enables node elevation.
func (b Builder) Set3D(is3D bool) Builder {
	b.is3D = is3D
	return b
}

// SegmentSize sets the segment size in bytes for all tables. Values <= 0
// select the directory default.
func (b Builder) SegmentSize(bytes int) Builder {
	b.segmentSize = bytes
	return b
}

// FlagBudget sets the number of attribute bits reserved per edge.
func (b Builder) FlagBudget(bits int) Builder {
	b.flagBudget = bits
	return b
}

// Logger sets the logger.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector.
func (b Builder) Metrics(m MetricsCollector) Builder {
	b.metrics = m
	return b
}

// Build creates the graph. The graph must be initialized with Create or
// LoadExisting before use.
func (b Builder) Build() (*BaseGraph, error) {
	if b.em == nil {
		return nil, fmt.Errorf("%w: nil encoding manager", ErrInvalid)
	}
	if b.flagBudget <= 0 {
		return nil, fmt.Errorf("%w: flag budget %d", ErrInvalid, b.flagBudget)
	}
	budgetWords := (b.flagBudget + 31) / 32
	if b.em.Bits() > b.flagBudget || b.em.Words() > budgetWords {
		return nil, fmt.Errorf("%w: layout needs %d bits in %d words, budget is %d bits",
			ErrCapacity, b.em.Bits(), b.em.Words(), b.flagBudget)
	}

	logger := b.logger
	if logger == nil {
		logger = NoopLogger()
	}
	metrics := b.metrics
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	g := &BaseGraph{
		em:        b.em,
		dir:       b.dir,
		is3D:      b.is3D,
		flagWords: b.em.Words(),
		logger:    logger,
		metrics:   metrics,
	}
	if g.dir == nil {
		g.dir = storage.NewRAMDirectory("", false, storage.WithLogger(logger.Logger))
		g.ownsDir = true
	}
	g.logger = logger.WithGraph(g.dir.Location())

	create := func(name string, recordSize int) (*storage.RecordTable, error) {
		var (
			da  storage.DataAccess
			err error
		)
		if b.segmentSize > 0 {
			da, err = g.dir.CreateWith(name, g.dir.DefaultType(), b.segmentSize)
		} else {
			da, err = g.dir.Create(name)
		}
		if err != nil {
			return nil, err
		}
		return storage.NewRecordTable(da, recordSize)
	}

	var err error
	if g.nodes, err = create(nodesTable, nodeRecordSize(b.is3D)); err != nil {
		return nil, g.abandon(err)
	}
	if g.edges, err = create(edgesTable, edgeRecordSize(g.flagWords)); err != nil {
		return nil, g.abandon(err)
	}
	if g.geometry, err = create(geometryTable, 4); err != nil {
		return nil, g.abandon(err)
	}
	g.nodeDA = g.nodes.DataAccess()
	g.edgeDA = g.edges.DataAccess()
	g.geoDA = g.geometry.DataAccess()

	return g, nil
}

// MustBuild creates the graph, panicking on error.
func (b Builder) MustBuild() *BaseGraph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

// abandon releases everything acquired so far and marks the graph closed.
func (g *BaseGraph) abandon(err error) error {
	g.closed = true
	return errors.Join(translateError(err), g.release())
}
