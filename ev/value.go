package ev

import (
	"fmt"
	"math"
)

// MaxBits is the widest value that fits into one flag word.
const MaxBits = 32

// Flags is the word-addressed storage an encoded value reads from and writes to.
type Flags interface {
	Word(i int) int32
	SetWord(i int, v int32)
}

// EncodedValue is implemented by all value kinds.
type EncodedValue interface {
	Name() string
	Bits() int
	TwoDirections() bool
	base() *IntEncodedValue
}

type slot struct {
	word  int
	shift uint
}

// IntEncodedValue stores an unsigned integer of a fixed bit width. It is the
// building block of the other kinds and can be used directly.
type IntEncodedValue struct {
	name   string
	bits   int
	twoDir bool
	mask   uint32

	fwd, bwd slot
	ready    bool
}

// NewInt creates an unsigned integer value of bits width.
func NewInt(name string, bits int, twoDirections bool) *IntEncodedValue {
	var mask uint32
	if bits >= MaxBits {
		mask = math.MaxUint32
	} else if bits > 0 {
		mask = uint32(1)<<bits - 1
	}
	return &IntEncodedValue{name: name, bits: bits, twoDir: twoDirections, mask: mask}
}

func (v *IntEncodedValue) Name() string           { return v.name }
func (v *IntEncodedValue) Bits() int              { return v.bits }
func (v *IntEncodedValue) TwoDirections() bool    { return v.twoDir }
func (v *IntEncodedValue) base() *IntEncodedValue { return v }

// MaxInt returns the largest storable integer.
func (v *IntEncodedValue) MaxInt() int { return int(v.mask) }

// Slots returns the number of slots (1 or 2) the value occupies.
func (v *IntEncodedValue) Slots() int {
	if v.twoDir {
		return 2
	}
	return 1
}

func (v *IntEncodedValue) slot(reverse bool) slot {
	if reverse && v.twoDir {
		return v.bwd
	}
	return v.fwd
}

// GetInt reads the value. reverse selects the backward slot of a two-direction
// value and is ignored otherwise.
func (v *IntEncodedValue) GetInt(reverse bool, f Flags) int {
	s := v.slot(reverse)
	return int((uint32(f.Word(s.word)) >> s.shift) & v.mask)
}

// SetInt writes the value.
func (v *IntEncodedValue) SetInt(reverse bool, f Flags, value int) error {
	if !v.ready {
		return fmt.Errorf("%w: %s", ErrNotInitialized, v.name)
	}
	if value < 0 || value > int(v.mask) {
		return fmt.Errorf("%w: %s=%d, max %d", ErrValueOutOfRange, v.name, value, v.mask)
	}
	s := v.slot(reverse)
	w := uint32(f.Word(s.word))
	w = w&^(v.mask<<s.shift) | uint32(value)<<s.shift
	f.SetWord(s.word, int32(w))
	return nil
}

func (v *IntEncodedValue) String() string {
	return fmt.Sprintf("%s|bits=%d|twoDir=%t", v.name, v.bits, v.twoDir)
}
