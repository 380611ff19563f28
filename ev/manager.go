package ev

import (
	"fmt"
	"strings"

	"github.com/hupe1980/roadgraph/internal/hash"
)

// Manager owns a set of encoded values and their assignment to flag words.
type Manager struct {
	values []EncodedValue
	byName map[string]EncodedValue
	words  int
	bits   int
}

// NewManager validates values and assigns each a slot. A value is placed in
// the current word if it fits, otherwise at the start of the next word.
// Values can belong to one manager only.
func NewManager(values ...EncodedValue) (*Manager, error) {
	m := &Manager{byName: make(map[string]EncodedValue, len(values))}

	word, used := 0, 0
	place := func(b *IntEncodedValue) slot {
		if used+b.bits > MaxBits {
			word++
			used = 0
		}
		s := slot{word: word, shift: uint(used)}
		used += b.bits
		m.bits += b.bits
		return s
	}

	for _, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: nil encoded value", ErrInvalidLayout)
		}
		b := v.base()
		if b.name == "" || strings.ContainsAny(b.name, "|,") {
			return nil, fmt.Errorf("%w: invalid name %q", ErrInvalidLayout, b.name)
		}
		if b.bits < 1 || b.bits > MaxBits {
			return nil, fmt.Errorf("%w: %s has %d bits, want 1..%d", ErrInvalidLayout, b.name, b.bits, MaxBits)
		}
		if d, ok := v.(*DecimalEncodedValue); ok && !(d.factor > 0) {
			return nil, fmt.Errorf("%w: %s has factor %v", ErrInvalidLayout, b.name, d.factor)
		}
		if e, ok := v.(*EnumEncodedValue); ok && len(e.names) == 0 {
			return nil, fmt.Errorf("%w: %s has no names", ErrInvalidLayout, b.name)
		}
		if _, dup := m.byName[b.name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidLayout, b.name)
		}
		if b.ready {
			return nil, fmt.Errorf("%w: %s already belongs to a manager", ErrInvalidLayout, b.name)
		}

		m.byName[b.name] = v
		m.values = append(m.values, v)
	}

	for _, v := range m.values {
		b := v.base()
		b.fwd = place(b)
		if b.twoDir {
			b.bwd = place(b)
		}
		b.ready = true
	}

	if m.bits > 0 {
		m.words = word + 1
	}
	return m, nil
}

// Words returns the number of 32-bit flag words per edge.
func (m *Manager) Words() int { return m.words }

// Bits returns the number of used bits.
func (m *Manager) Bits() int { return m.bits }

// Values returns the registered values in layout order.
func (m *Manager) Values() []EncodedValue {
	out := make([]EncodedValue, len(m.values))
	copy(out, m.values)
	return out
}

// Has reports whether name is registered.
func (m *Manager) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Owns reports whether v itself (not just its name) belongs to m.
func (m *Manager) Owns(v EncodedValue) bool {
	if v == nil {
		return false
	}
	got, ok := m.byName[v.Name()]
	return ok && got.base() == v.base()
}

// Boolean returns the boolean value called name.
func (m *Manager) Boolean(name string) (*BooleanEncodedValue, error) {
	return lookup[*BooleanEncodedValue](m, name)
}

// Decimal returns the decimal value called name.
func (m *Manager) Decimal(name string) (*DecimalEncodedValue, error) {
	return lookup[*DecimalEncodedValue](m, name)
}

// Enum returns the enum value called name.
func (m *Manager) Enum(name string) (*EnumEncodedValue, error) {
	return lookup[*EnumEncodedValue](m, name)
}

// Int returns the integer value called name.
func (m *Manager) Int(name string) (*IntEncodedValue, error) {
	return lookup[*IntEncodedValue](m, name)
}

func lookup[T EncodedValue](m *Manager, name string) (T, error) {
	var zero T
	v, ok := m.byName[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrUnknownValue, name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q has type %T", ErrUnknownValue, name, v)
	}
	return t, nil
}

// Describe returns a canonical description of the layout.
func (m *Manager) Describe() string {
	var sb strings.Builder
	for i, v := range m.values {
		if i > 0 {
			sb.WriteByte(',')
		}
		b := v.base()
		fmt.Fprintf(&sb, "%s|%T|%d|%t|%d:%d", b.name, v, b.bits, b.twoDir, b.fwd.word, b.fwd.shift)
	}
	return sb.String()
}

// Fingerprint returns a checksum of Describe, stored with persisted graphs to
// detect a reopen with a different layout.
func (m *Manager) Fingerprint() uint32 {
	return hash.CRC32C([]byte(m.Describe()))
}

func (m *Manager) String() string {
	return fmt.Sprintf("ev.Manager{values=%d, bits=%d, words=%d}", len(m.values), m.bits, m.words)
}
