package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "graph")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "nodes")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.WriteAt([]byte("head"), 4)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(16))
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(16), info.Size())
	assert.NotZero(t, f.Fd())
	assert.Equal(t, fpath, f.Name())

	buf := make([]byte, 4)
	_, err = f.ReadAt(buf, 4)
	require.NoError(t, err)
	assert.Equal(t, "head", string(buf))
	require.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nodes", entries[0].Name())

	renamed := filepath.Join(dir, "nodes.old")
	require.NoError(t, lfs.Rename(fpath, renamed))
	require.NoError(t, lfs.Remove(renamed))
	_, err = lfs.Stat(renamed)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_Rules(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)

	ffs.AddRule("edges", Fault{FailOnOpen: true})
	_, err := ffs.OpenFile(filepath.Join(tmp, "edges"), os.O_CREATE|os.O_RDWR, 0o644)
	assert.ErrorIs(t, err, ErrInjected)
	assert.Zero(t, ffs.OpenHandles())

	ffs.AddRule("nodes", Fault{FailOnTruncate: true, FailOnSync: true})
	f, err := ffs.OpenFile(filepath.Join(tmp, "nodes"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	assert.Equal(t, 1, ffs.OpenHandles())
	assert.ErrorIs(t, f.Truncate(128), ErrInjected)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	require.NoError(t, f.Close())
	assert.Zero(t, ffs.OpenHandles())
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("geometry", Fault{FailAfterBytes: 5})

	f, err := ffs.OpenFile(filepath.Join(tmp, "geometry"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = f.WriteAt([]byte("!"), 5)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_CloseFaultStillReleases(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("x", Fault{FailOnClose: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "x"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), ErrInjected)
	assert.Zero(t, ffs.OpenHandles())

	ffs.ClearRules()
	f, err = ffs.OpenFile(filepath.Join(tmp, "x"), os.O_RDWR, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
