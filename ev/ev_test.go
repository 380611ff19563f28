package ev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type words []int32

func (w words) Word(i int) int32       { return w[i] }
func (w words) SetWord(i int, v int32) { w[i] = v }

func TestManager_Layout(t *testing.T) {
	access := VehicleAccess("car")
	speed := VehicleSpeed("car", 5, 5, true)
	footSpeed := VehicleSpeed("foot", 4, 1, true)
	rc := NewRoadClass()

	em, err := NewManager(access, speed, footSpeed, rc)
	require.NoError(t, err)

	// 2 + 10 + 8 + 5 bits
	assert.Equal(t, 25, em.Bits())
	assert.Equal(t, 1, em.Words())
	assert.True(t, em.Has("car_access"))
	assert.False(t, em.Has("bike_access"))
	assert.Len(t, em.Values(), 4)
	assert.Equal(t, 5, rc.Bits())
}

func TestManager_NoStraddle(t *testing.T) {
	a := NewInt("a", 20, false)
	b := NewInt("b", 20, false)
	c := NewInt("c", 32, true)

	em, err := NewManager(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, 4, em.Words())

	f := make(words, em.Words())
	require.NoError(t, a.SetInt(false, f, a.MaxInt()))
	require.NoError(t, b.SetInt(false, f, 12345))
	require.NoError(t, c.SetInt(false, f, c.MaxInt()))
	require.NoError(t, c.SetInt(true, f, 7))

	assert.Equal(t, 1<<20-1, a.GetInt(false, f))
	assert.Equal(t, 12345, b.GetInt(false, f))
	assert.Equal(t, c.MaxInt(), c.GetInt(false, f))
	assert.Equal(t, 7, c.GetInt(true, f))
}

func TestManager_Invalid(t *testing.T) {
	_, err := NewManager(NewBoolean("", false))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewManager(NewInt("wide", 33, false))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewManager(NewBoolean("x", false), NewBoolean("x", true))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewManager(NewDecimal("speed", 5, 0, false))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewManager(NewEnum("empty"))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	shared := NewBoolean("shared", false)
	_, err = NewManager(shared)
	require.NoError(t, err)
	_, err = NewManager(shared)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestBoolean_Directions(t *testing.T) {
	twoDir := NewBoolean("car_access", true)
	oneDir := NewBoolean("ferry", false)
	em, err := NewManager(twoDir, oneDir)
	require.NoError(t, err)

	f := make(words, em.Words())
	require.NoError(t, twoDir.SetBool(false, f, true))
	assert.True(t, twoDir.GetBool(false, f))
	assert.False(t, twoDir.GetBool(true, f))

	require.NoError(t, oneDir.SetBool(false, f, true))
	assert.True(t, oneDir.GetBool(true, f), "reverse is ignored for one-direction values")

	require.NoError(t, twoDir.SetBool(false, f, false))
	assert.False(t, twoDir.GetBool(false, f))
	assert.True(t, oneDir.GetBool(false, f))
}

func TestDecimal(t *testing.T) {
	speed := NewDecimal("car_speed", 5, 5, true)
	_, err := NewManager(speed)
	require.NoError(t, err)

	f := make(words, 1)
	require.NoError(t, speed.SetDecimal(false, f, 62))
	require.NoError(t, speed.SetDecimal(true, f, 10))
	assert.InDelta(t, 60.0, speed.GetDecimal(false, f), 1e-9)
	assert.InDelta(t, 10.0, speed.GetDecimal(true, f), 1e-9)
	assert.InDelta(t, 155.0, speed.MaxDecimal(), 1e-9)

	assert.ErrorIs(t, speed.SetDecimal(false, f, 160), ErrValueOutOfRange)
	assert.ErrorIs(t, speed.SetDecimal(false, f, -5), ErrValueOutOfRange)
	assert.InDelta(t, 60.0, speed.GetDecimal(false, f), 1e-9, "failed set leaves value untouched")
}

func TestEnum(t *testing.T) {
	rc := NewRoadClass()
	_, err := NewManager(rc)
	require.NoError(t, err)

	f := make(words, 1)
	assert.Equal(t, "other", rc.GetEnum(false, f))
	require.NoError(t, rc.SetEnum(false, f, "primary"))
	assert.Equal(t, "primary", rc.GetEnum(false, f))
	assert.ErrorIs(t, rc.SetEnum(false, f, "highway_to_hell"), ErrValueOutOfRange)

	i, ok := rc.Index("track")
	assert.True(t, ok)
	assert.Equal(t, 10, i)
}

func TestUnassignedValue(t *testing.T) {
	v := NewBoolean("loose", false)
	assert.ErrorIs(t, v.SetBool(false, make(words, 1), true), ErrNotInitialized)
}

func TestManager_Lookup(t *testing.T) {
	em, err := NewManager(VehicleAccess("foot"), VehicleSpeed("foot", 4, 1, true), NewRoadClass())
	require.NoError(t, err)

	_, err = em.Boolean("foot_access")
	require.NoError(t, err)
	_, err = em.Decimal("foot_speed")
	require.NoError(t, err)
	_, err = em.Enum("road_class")
	require.NoError(t, err)

	_, err = em.Decimal("foot_access")
	assert.ErrorIs(t, err, ErrUnknownValue)
	_, err = em.Boolean("car_access")
	assert.ErrorIs(t, err, ErrUnknownValue)
}

func TestManager_Fingerprint(t *testing.T) {
	a, err := NewManager(VehicleAccess("car"), VehicleSpeed("car", 5, 5, true))
	require.NoError(t, err)
	b, err := NewManager(VehicleAccess("car"), VehicleSpeed("car", 5, 5, true))
	require.NoError(t, err)
	c, err := NewManager(VehicleAccess("car"), VehicleSpeed("car", 6, 5, true))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Contains(t, a.String(), "words=1")
}

func TestManager_Owns(t *testing.T) {
	access := VehicleAccess("car")
	em, err := NewManager(access)
	require.NoError(t, err)

	other := VehicleAccess("car")
	_, err = NewManager(other)
	require.NoError(t, err)

	assert.True(t, em.Owns(access))
	assert.False(t, em.Owns(other), "same name, different value")
	assert.False(t, em.Owns(NewBoolean("bike_access", false)))
	assert.False(t, em.Owns(nil))
}
