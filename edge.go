package roadgraph

import (
	"fmt"

	"github.com/hupe1980/roadgraph/ev"
	"github.com/hupe1980/roadgraph/storage"
)

// EdgeIteratorState is a direction-aware view of one edge. The base node is
// the node the edge was reached from, the adjacent node the other end.
// Two-direction attributes read through a reversed state return the stored
// backward value. Once the graph is closed getters return zero values and
// setters fail with ErrClosed.
type EdgeIteratorState interface {
	Edge() int
	// EdgeKey encodes the edge and the direction of this state.
	EdgeKey() int
	ReverseEdgeKey() int
	BaseNode() int
	AdjNode() int

	// Distance returns the edge length in meters.
	Distance() float64
	SetDistance(meters float64) error

	GetBool(enc *ev.BooleanEncodedValue) bool
	SetBool(enc *ev.BooleanEncodedValue, v bool) error
	GetReverseBool(enc *ev.BooleanEncodedValue) bool
	SetReverseBool(enc *ev.BooleanEncodedValue, v bool) error

	GetDecimal(enc *ev.DecimalEncodedValue) float64
	SetDecimal(enc *ev.DecimalEncodedValue, v float64) error
	GetReverseDecimal(enc *ev.DecimalEncodedValue) float64
	SetReverseDecimal(enc *ev.DecimalEncodedValue, v float64) error

	GetEnum(enc *ev.EnumEncodedValue) string
	SetEnum(enc *ev.EnumEncodedValue, name string) error

	GetInt(enc *ev.IntEncodedValue) int
	SetInt(enc *ev.IntEncodedValue, v int) error

	// FetchWayGeometry returns the points of the edge in the direction of
	// this state.
	FetchWayGeometry(mode FetchMode) []Point
	// SetWayGeometry stores the pillar points between base and adjacent
	// node, given in the direction of this state.
	SetWayGeometry(points []Point) error

	// Detach returns an independent copy, reversed if reverse is set.
	Detach(reverse bool) EdgeIteratorState

	String() string
}

// recordFlags exposes the attribute words of one edge record to encoded
// values. A word index outside the layout is a programming error and panics.
// Reads from a closed store return 0.
type recordFlags struct {
	da    storage.DataAccess
	ptr   int64
	words int
}

func newRecordFlags(g *BaseGraph) recordFlags {
	return recordFlags{da: g.edgeDA, words: g.flagWords}
}

func (f *recordFlags) check(i int) {
	if i < 0 || i >= f.words {
		panic(fmt.Sprintf("roadgraph: flag word %d outside layout of %d words", i, f.words))
	}
}

func (f *recordFlags) Word(i int) int32 {
	f.check(i)
	if f.da.IsClosed() {
		return 0
	}
	return f.da.GetInt(f.ptr + int64(i)*4)
}

func (f *recordFlags) SetWord(i int, v int32) {
	f.check(i)
	f.da.SetInt(f.ptr+int64(i)*4, v)
}

type edgeState struct {
	g       *BaseGraph
	edge    int
	base    int
	adj     int
	reverse bool
	ptr     int64
	flags   recordFlags
}

var _ EdgeIteratorState = (*edgeState)(nil)

func (s *edgeState) init(edge int, reverse bool) {
	g := s.g
	s.edge = edge
	s.reverse = reverse
	s.ptr = g.edges.Pointer(edge)
	a := int(g.edgeDA.GetInt(s.ptr + edgeNodeA))
	b := int(g.edgeDA.GetInt(s.ptr + edgeNodeB))
	if reverse {
		s.base, s.adj = b, a
	} else {
		s.base, s.adj = a, b
	}
	s.flags = newRecordFlags(g)
	s.flags.ptr = s.ptr + edgeFlags
}

func (s *edgeState) Edge() int           { return s.edge }
func (s *edgeState) EdgeKey() int        { return CreateEdgeKey(s.edge, s.reverse) }
func (s *edgeState) ReverseEdgeKey() int { return CreateEdgeKey(s.edge, !s.reverse) }
func (s *edgeState) BaseNode() int       { return s.base }
func (s *edgeState) AdjNode() int        { return s.adj }

func (s *edgeState) Distance() float64 {
	if s.g.closed {
		return 0
	}
	return float64(s.g.edgeDA.GetInt(s.ptr+edgeDistance)) / distanceFactor
}

func (s *edgeState) SetDistance(meters float64) error {
	if s.g.closed {
		return ErrClosed
	}
	v, err := distanceToInt(meters)
	if err != nil {
		return err
	}
	s.g.edgeDA.SetInt(s.ptr+edgeDistance, v)
	return nil
}

func (s *edgeState) GetBool(enc *ev.BooleanEncodedValue) bool {
	return enc.GetBool(s.reverse, &s.flags)
}

func (s *edgeState) SetBool(enc *ev.BooleanEncodedValue, v bool) error {
	return s.setBool(enc, s.reverse, v)
}

func (s *edgeState) GetReverseBool(enc *ev.BooleanEncodedValue) bool {
	return enc.GetBool(!s.reverse, &s.flags)
}

func (s *edgeState) SetReverseBool(enc *ev.BooleanEncodedValue, v bool) error {
	return s.setBool(enc, !s.reverse, v)
}

func (s *edgeState) setBool(enc *ev.BooleanEncodedValue, reverse, v bool) error {
	if err := ownedValue(s.g, enc); err != nil {
		return err
	}
	return translateError(enc.SetBool(reverse, &s.flags, v))
}

func (s *edgeState) GetDecimal(enc *ev.DecimalEncodedValue) float64 {
	return enc.GetDecimal(s.reverse, &s.flags)
}

func (s *edgeState) SetDecimal(enc *ev.DecimalEncodedValue, v float64) error {
	return s.setDecimal(enc, s.reverse, v)
}

func (s *edgeState) GetReverseDecimal(enc *ev.DecimalEncodedValue) float64 {
	return enc.GetDecimal(!s.reverse, &s.flags)
}

func (s *edgeState) SetReverseDecimal(enc *ev.DecimalEncodedValue, v float64) error {
	return s.setDecimal(enc, !s.reverse, v)
}

func (s *edgeState) setDecimal(enc *ev.DecimalEncodedValue, reverse bool, v float64) error {
	if err := ownedValue(s.g, enc); err != nil {
		return err
	}
	return translateError(enc.SetDecimal(reverse, &s.flags, v))
}

func (s *edgeState) GetEnum(enc *ev.EnumEncodedValue) string {
	return enc.GetEnum(s.reverse, &s.flags)
}

func (s *edgeState) SetEnum(enc *ev.EnumEncodedValue, name string) error {
	if err := ownedValue(s.g, enc); err != nil {
		return err
	}
	return translateError(enc.SetEnum(s.reverse, &s.flags, name))
}

func (s *edgeState) GetInt(enc *ev.IntEncodedValue) int {
	return enc.GetInt(s.reverse, &s.flags)
}

func (s *edgeState) SetInt(enc *ev.IntEncodedValue, v int) error {
	if err := ownedValue(s.g, enc); err != nil {
		return err
	}
	return translateError(enc.SetInt(s.reverse, &s.flags, v))
}

func (s *edgeState) Detach(reverse bool) EdgeIteratorState {
	d := &edgeState{g: s.g}
	d.init(s.edge, s.reverse != reverse)
	return d
}

func (s *edgeState) String() string {
	return fmt.Sprintf("%d %d-%d", s.edge, s.base, s.adj)
}

func ownedValue[T interface {
	comparable
	ev.EncodedValue
}](g *BaseGraph, enc T) error {
	if g.closed {
		return ErrClosed
	}
	var zero T
	if enc == zero {
		return fmt.Errorf("%w: nil encoded value", ErrInvalid)
	}
	if !g.em.Owns(enc) {
		return fmt.Errorf("%w: %s is not part of the graph layout", ErrInvalid, enc.Name())
	}
	return nil
}
