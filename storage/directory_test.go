package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_Create(t *testing.T) {
	dir := NewMMapDirectory(t.TempDir())
	defer dir.Close()

	assert.Equal(t, MMAP, dir.DefaultType())

	_, err := dir.Create("edges")
	require.NoError(t, err)

	_, err = dir.Create("edges")
	assert.ErrorIs(t, err, ErrExists)

	_, err = dir.Create("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = dir.Create("../escape")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	ram, err := dir.CreateWith("scratch", RAM, 256)
	require.NoError(t, err)
	assert.Equal(t, RAM, ram.Type())

	da, ok := dir.Get("edges")
	require.True(t, ok)
	assert.Equal(t, "edges", da.Name())
}

func TestDirectory_StoringNeedsLocation(t *testing.T) {
	dir := NewRAMDirectory("", true)
	defer dir.Close()

	_, err := dir.Create("edges")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = dir.CreateWith("edges", RAM, 0)
	assert.NoError(t, err)
}

func TestDirectory_Remove(t *testing.T) {
	location := t.TempDir()
	dir := NewMMapDirectory(location)
	defer dir.Close()

	da, err := dir.Create("geometry")
	require.NoError(t, err)
	require.NoError(t, da.Create(10))
	_, err = os.Stat(filepath.Join(location, "geometry"))
	require.NoError(t, err)

	require.NoError(t, dir.Remove("geometry"))
	assert.True(t, da.IsClosed())
	_, err = os.Stat(filepath.Join(location, "geometry"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, dir.Remove("never-created"))
}

func TestDirectory_Close(t *testing.T) {
	dir := NewRAMDirectory(t.TempDir(), true)

	a, err := dir.Create("a")
	require.NoError(t, err)
	require.NoError(t, a.Create(1))
	b, err := dir.Create("b")
	require.NoError(t, err)

	require.NoError(t, dir.Close())
	require.NoError(t, dir.Close())
	assert.True(t, a.IsClosed())
	assert.True(t, b.IsClosed())

	_, err = dir.Create("c")
	assert.ErrorIs(t, err, ErrClosed)
}
