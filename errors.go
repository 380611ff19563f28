package roadgraph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/roadgraph/ev"
	"github.com/hupe1980/roadgraph/storage"
)

// Error categories. Errors caused by arguments, lifecycle or stored data match
// exactly one of them with errors.Is; IO errors are returned as is.
var (
	// ErrInvalid marks structurally invalid input: self-loops, unknown ids,
	// zero or several common nodes, out-of-range attribute values.
	ErrInvalid = errors.New("invalid argument")
	// ErrState marks operations that are not allowed in the current lifecycle state.
	ErrState = errors.New("invalid state")
	// ErrCapacity marks exhausted bit or memory budgets.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrCorrupt marks persisted data that fails validation.
	ErrCorrupt = errors.New("corrupt graph data")
)

var (
	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = fmt.Errorf("%w: self-loop edge", ErrInvalid)
	// ErrNoCommonNode is returned by GetCommonNode for disjoint edges.
	ErrNoCommonNode = fmt.Errorf("%w: edges have no common node", ErrInvalid)
	// ErrAmbiguousCommonNode is returned by GetCommonNode for edges that share both nodes.
	ErrAmbiguousCommonNode = fmt.Errorf("%w: edges share both nodes", ErrInvalid)
	// ErrNoEdge is returned when two nodes are not connected.
	ErrNoEdge = fmt.Errorf("%w: no edge between nodes", ErrInvalid)
	// ErrNotFound is returned when a snapshot does not exist.
	ErrNotFound = fmt.Errorf("%w: not found", ErrInvalid)

	// ErrNotInitialized is returned when the graph is used before Create or LoadExisting.
	ErrNotInitialized = fmt.Errorf("%w: graph not initialized", ErrState)
	// ErrAlreadyInitialized is returned by a second Create or LoadExisting.
	ErrAlreadyInitialized = fmt.Errorf("%w: graph already initialized", ErrState)
	// ErrClosed is returned after Close.
	ErrClosed = fmt.Errorf("%w: graph closed", ErrState)
	// ErrFrozen is returned by topology mutations after Freeze.
	ErrFrozen = fmt.Errorf("%w: graph frozen", ErrState)
	// ErrLayoutMismatch is returned when stored data was written with a
	// different attribute layout or dimension.
	ErrLayoutMismatch = fmt.Errorf("%w: layout mismatch", ErrState)
)

// NodeOutOfRangeError indicates a node id outside [0, Nodes).
type NodeOutOfRangeError struct {
	Node  int
	Nodes int
}

func (e *NodeOutOfRangeError) Error() string {
	return fmt.Sprintf("node %d out of range [0, %d)", e.Node, e.Nodes)
}

func (e *NodeOutOfRangeError) Unwrap() error { return ErrInvalid }

// EdgeOutOfRangeError indicates an edge id outside [0, Edges).
type EdgeOutOfRangeError struct {
	Edge  int
	Edges int
}

func (e *EdgeOutOfRangeError) Error() string {
	return fmt.Sprintf("edge %d out of range [0, %d)", e.Edge, e.Edges)
}

func (e *EdgeOutOfRangeError) Unwrap() error { return ErrInvalid }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var rse *storage.RecordSizeError
	if errors.As(err, &rse) {
		return fmt.Errorf("%w: %w", ErrLayoutMismatch, err)
	}

	switch {
	case errors.Is(err, storage.ErrCapacity):
		return fmt.Errorf("%w: %w", ErrCapacity, err)
	case errors.Is(err, storage.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	case errors.Is(err, storage.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, storage.ErrAlreadyCreated):
		return fmt.Errorf("%w: %w", ErrAlreadyInitialized, err)
	case errors.Is(err, storage.ErrNotCreated):
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	case errors.Is(err, storage.ErrInvalidConfig), errors.Is(err, storage.ErrExists):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	case errors.Is(err, ev.ErrValueOutOfRange),
		errors.Is(err, ev.ErrNotInitialized),
		errors.Is(err, ev.ErrUnknownValue),
		errors.Is(err, ev.ErrInvalidLayout):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return err
}
