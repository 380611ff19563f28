package roadgraph

import (
	"fmt"

	"github.com/hupe1980/roadgraph/ev"
)

// EdgeFilter decides whether an explorer yields an edge.
type EdgeFilter interface {
	Accept(s EdgeIteratorState) bool
}

// EdgeFilterFunc adapts a function to EdgeFilter.
type EdgeFilterFunc func(s EdgeIteratorState) bool

// Accept calls f(s).
func (f EdgeFilterFunc) Accept(s EdgeIteratorState) bool { return f(s) }

// AllEdges accepts every edge.
var AllEdges EdgeFilter = EdgeFilterFunc(func(EdgeIteratorState) bool { return true })

// AccessFilter accepts edges that are accessible in the selected directions
// of traversal, based on a boolean access attribute. A filter over a nil
// attribute accepts nothing.
type AccessFilter struct {
	enc *ev.BooleanEncodedValue
	fwd bool
	bwd bool
}

// OutEdges accepts edges that can be traveled away from the base node.
func OutEdges(enc *ev.BooleanEncodedValue) *AccessFilter {
	return &AccessFilter{enc: enc, fwd: true}
}

// InEdges accepts edges that can be traveled towards the base node.
func InEdges(enc *ev.BooleanEncodedValue) *AccessFilter {
	return &AccessFilter{enc: enc, bwd: true}
}

// AllAccessEdges accepts edges accessible in at least one direction.
func AllAccessEdges(enc *ev.BooleanEncodedValue) *AccessFilter {
	return &AccessFilter{enc: enc, fwd: true, bwd: true}
}

// Accept implements EdgeFilter.
func (f *AccessFilter) Accept(s EdgeIteratorState) bool {
	if f.enc == nil {
		return false
	}
	return f.fwd && s.GetBool(f.enc) || f.bwd && s.GetReverseBool(f.enc)
}

func (f *AccessFilter) String() string {
	name := "<nil>"
	if f.enc != nil {
		name = f.enc.Name()
	}
	return fmt.Sprintf("access(%s, fwd=%t, bwd=%t)", name, f.fwd, f.bwd)
}

type andFilter []EdgeFilter

func (fs andFilter) Accept(s EdgeIteratorState) bool {
	for _, f := range fs {
		if !f.Accept(s) {
			return false
		}
	}
	return true
}

// And accepts edges accepted by every filter. nil filters are ignored and no
// filters accept everything.
func And(filters ...EdgeFilter) EdgeFilter {
	var fs andFilter
	for _, f := range filters {
		if f != nil {
			fs = append(fs, f)
		}
	}
	switch len(fs) {
	case 0:
		return AllEdges
	case 1:
		return fs[0]
	default:
		return fs
	}
}
