package ev

import (
	"fmt"
	"math"
	"slices"
)

// BooleanEncodedValue is a one-bit value.
type BooleanEncodedValue struct {
	IntEncodedValue
}

// NewBoolean creates a boolean value.
func NewBoolean(name string, twoDirections bool) *BooleanEncodedValue {
	return &BooleanEncodedValue{IntEncodedValue: *NewInt(name, 1, twoDirections)}
}

// GetBool reads the flag.
func (v *BooleanEncodedValue) GetBool(reverse bool, f Flags) bool {
	return v.GetInt(reverse, f) == 1
}

// SetBool writes the flag.
func (v *BooleanEncodedValue) SetBool(reverse bool, f Flags, b bool) error {
	if b {
		return v.SetInt(reverse, f, 1)
	}
	return v.SetInt(reverse, f, 0)
}

// DecimalEncodedValue stores non-negative decimals as multiples of a factor.
type DecimalEncodedValue struct {
	IntEncodedValue
	factor float64
}

// NewDecimal creates a decimal value with bits width and the given factor.
func NewDecimal(name string, bits int, factor float64, twoDirections bool) *DecimalEncodedValue {
	return &DecimalEncodedValue{IntEncodedValue: *NewInt(name, bits, twoDirections), factor: factor}
}

// Factor returns the step between two storable values.
func (v *DecimalEncodedValue) Factor() float64 { return v.factor }

// MaxDecimal returns the largest storable value.
func (v *DecimalEncodedValue) MaxDecimal() float64 { return float64(v.mask) * v.factor }

// GetDecimal reads the value.
func (v *DecimalEncodedValue) GetDecimal(reverse bool, f Flags) float64 {
	return float64(v.GetInt(reverse, f)) * v.factor
}

// SetDecimal rounds value to the nearest multiple of the factor and writes it.
func (v *DecimalEncodedValue) SetDecimal(reverse bool, f Flags, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s=%v", ErrValueOutOfRange, v.name, value)
	}
	scaled := math.Round(value / v.factor)
	if scaled < 0 || scaled > float64(v.mask) {
		return fmt.Errorf("%w: %s=%v, max %v", ErrValueOutOfRange, v.name, value, v.MaxDecimal())
	}
	return v.SetInt(reverse, f, int(scaled))
}

// EnumEncodedValue stores an index into a fixed list of names.
type EnumEncodedValue struct {
	IntEncodedValue
	names []string
}

// NewEnum creates an enum value. The first name is the default (zero) value.
func NewEnum(name string, names ...string) *EnumEncodedValue {
	bits := 1
	for (1 << bits) < len(names) {
		bits++
	}
	return &EnumEncodedValue{IntEncodedValue: *NewInt(name, bits, false), names: slices.Clone(names)}
}

// Names returns the enum names in index order.
func (v *EnumEncodedValue) Names() []string { return slices.Clone(v.names) }

// Index returns the index of name.
func (v *EnumEncodedValue) Index(name string) (int, bool) {
	i := slices.Index(v.names, name)
	return i, i >= 0
}

// GetEnum reads the enum name.
func (v *EnumEncodedValue) GetEnum(reverse bool, f Flags) string {
	i := v.GetInt(reverse, f)
	if i >= len(v.names) {
		return ""
	}
	return v.names[i]
}

// SetEnum writes the enum name.
func (v *EnumEncodedValue) SetEnum(reverse bool, f Flags, name string) error {
	i, ok := v.Index(name)
	if !ok {
		return fmt.Errorf("%w: %s has no value %q", ErrValueOutOfRange, v.name, name)
	}
	return v.SetInt(reverse, f, i)
}

// RoadClass names, in storage order.
var RoadClassNames = []string{
	"other", "motorway", "trunk", "primary", "secondary", "tertiary",
	"residential", "unclassified", "service", "road", "track", "bridleway",
	"steps", "cycleway", "path", "living_street", "footway", "pedestrian",
	"platform", "corridor",
}

// NewRoadClass creates the "road_class" enum.
func NewRoadClass() *EnumEncodedValue {
	return NewEnum("road_class", RoadClassNames...)
}

// VehicleAccess creates the two-direction "<vehicle>_access" flag.
func VehicleAccess(vehicle string) *BooleanEncodedValue {
	return NewBoolean(vehicle+"_access", true)
}

// VehicleSpeed creates the "<vehicle>_speed" decimal.
func VehicleSpeed(vehicle string, bits int, factor float64, twoDirections bool) *DecimalEncodedValue {
	return NewDecimal(vehicle+"_speed", bits, factor, twoDirections)
}
