package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTable(t *testing.T) {
	dir := newTestDirectory(t, RAM)
	da, err := dir.CreateWith("edges", RAM, 128)
	require.NoError(t, err)

	table, err := NewRecordTable(da, 20)
	require.NoError(t, err)
	require.NoError(t, table.Create(2))
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 20, table.RecordSize())

	first, err := table.Add(1)
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	first, err = table.Add(30)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 31, table.Len())
	assert.GreaterOrEqual(t, da.Capacity(), table.Pointer(31))

	require.NoError(t, table.EnsureIndex(10), "existing index")
	assert.Equal(t, 31, table.Len())

	require.NoError(t, table.EnsureIndex(99))
	assert.Equal(t, 100, table.Len())
	assert.Equal(t, int64(99*20), table.Pointer(99))

	// Records spread over many 128 byte segments stay addressable.
	for i := range table.Len() {
		da.SetInt(table.Pointer(i)+16, int32(i))
	}
	for i := range table.Len() {
		require.Equal(t, int32(i), da.GetInt(table.Pointer(i)+16))
	}
}

func TestRecordTable_InvalidSize(t *testing.T) {
	dir := newTestDirectory(t, RAM)
	da, err := dir.Create("x")
	require.NoError(t, err)

	_, err = NewRecordTable(da, 6)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewRecordTable(da, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRecordTable_FlushLoad(t *testing.T) {
	location := t.TempDir()

	dir := NewMMapDirectory(location)
	da, err := dir.Create("nodes")
	require.NoError(t, err)
	table, err := NewRecordTable(da, 16)
	require.NoError(t, err)
	require.NoError(t, table.Create(10))
	_, err = table.Add(7)
	require.NoError(t, err)
	require.NoError(t, table.Flush())
	require.NoError(t, dir.Close())

	dir = NewMMapDirectory(location)
	defer dir.Close()
	da, err = dir.Create("nodes")
	require.NoError(t, err)

	wrong, err := NewRecordTable(da, 20)
	require.NoError(t, err)
	_, err = wrong.LoadExisting()
	assert.ErrorIs(t, err, ErrCorrupt)
	var rse *RecordSizeError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, 16, rse.Stored)
	assert.Equal(t, 20, rse.Want)

	dir2 := NewMMapDirectory(location)
	defer dir2.Close()
	da2, err := dir2.Create("nodes")
	require.NoError(t, err)
	table, err = NewRecordTable(da2, 16)
	require.NoError(t, err)
	ok, err := table.LoadExisting()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, table.Len())
}

func TestRecordTable_Reserve(t *testing.T) {
	dir := newTestDirectory(t, RAM)
	da, err := dir.CreateWith("nodes", RAM, 128)
	require.NoError(t, err)
	table, err := NewRecordTable(da, 16)
	require.NoError(t, err)
	require.NoError(t, table.Create(1))

	require.NoError(t, table.Reserve(40))
	assert.Equal(t, 0, table.Len())
	assert.GreaterOrEqual(t, da.Capacity(), table.Pointer(41))

	assert.ErrorIs(t, table.Reserve(1<<31-1), ErrCapacity)
}

func TestRecordTable_CreateFrom(t *testing.T) {
	src := newTestDirectory(t, RAM)
	da, err := src.CreateWith("edges", RAM, 128)
	require.NoError(t, err)
	table, err := NewRecordTable(da, 8)
	require.NoError(t, err)
	require.NoError(t, table.Create(1))
	_, err = table.Add(50)
	require.NoError(t, err)
	for i := range table.Len() {
		da.SetInt(table.Pointer(i)+4, int32(i*3))
	}
	table.SyncHeader()

	raw, err := Encode(da, CompressionZSTD)
	require.NoError(t, err)
	img, err := Decode(raw)
	require.NoError(t, err)

	dst := newTestDirectory(t, RAM)
	da2, err := dst.CreateWith("edges", RAM, 1024)
	require.NoError(t, err)
	restored, err := NewRecordTable(da2, 8)
	require.NoError(t, err)
	require.NoError(t, restored.CreateFrom(img))

	require.Equal(t, 50, restored.Len())
	for i := range restored.Len() {
		require.Equal(t, int32(i*3), da2.GetInt(restored.Pointer(i)+4))
	}

	da3, err := dst.CreateWith("other", RAM, 128)
	require.NoError(t, err)
	wrong, err := NewRecordTable(da3, 12)
	require.NoError(t, err)
	assert.ErrorIs(t, wrong.CreateFrom(img), ErrCorrupt)
}
