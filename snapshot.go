package roadgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/roadgraph/blobstore"
	"github.com/hupe1980/roadgraph/internal/hash"
	"github.com/hupe1980/roadgraph/resource"
	"github.com/hupe1980/roadgraph/storage"
)

const (
	// CurrentName is the blob holding the prefix of the latest snapshot.
	CurrentName = "CURRENT"

	manifestName    = "manifest.json"
	manifestVersion = 1
	tableSuffix     = ".rgda"
)

// Snapshot manifest, stored as JSON next to the table blobs.
type manifest struct {
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	Nodes       int             `json:"nodes"`
	Edges       int             `json:"edges"`
	Is3D        bool            `json:"is_3d"`
	FlagWords   int             `json:"flag_words"`
	Fingerprint uint32          `json:"fingerprint"`
	Layout      string          `json:"layout"`
	Tables      []manifestTable `json:"tables"`
}

type manifestTable struct {
	Name        string `json:"name"`
	Blob        string `json:"blob"`
	Size        int64  `json:"size"`
	CRC32C      uint32 `json:"crc32c"`
	SegmentSize int    `json:"segment_size"`
	Records     int    `json:"records"`
}

func snapshotPrefix(prefix string) (string, error) {
	p := strings.Trim(path.Clean("/"+prefix), "/")
	if p == "" || p == CurrentName {
		return "", fmt.Errorf("%w: snapshot prefix %q", ErrInvalid, prefix)
	}
	return p, nil
}

func (g *BaseGraph) tables() []*storage.RecordTable {
	return []*storage.RecordTable{g.nodes, g.edges, g.geometry}
}

// Snapshot uploads all tables and a manifest under prefix, then points
// CURRENT at prefix. Tables are encoded and uploaded concurrently. Snapshot
// only reads the graph, so snapshots of a frozen graph may run concurrently;
// the graph must not be modified while Snapshot runs.
func (g *BaseGraph) Snapshot(ctx context.Context, store blobstore.BlobStore, prefix string, opts ...SnapshotOption) error {
	start := time.Now()
	n, err := g.snapshot(ctx, store, prefix, opts)
	g.metrics.RecordSnapshot(n, time.Since(start), err)
	g.logger.LogSnapshot(ctx, prefix, n, err)
	return err
}

func (g *BaseGraph) snapshot(ctx context.Context, store blobstore.BlobStore, prefix string, opts []SnapshotOption) (int64, error) {
	o := defaultSnapshotOptions()
	for _, fn := range opts {
		fn(&o)
	}

	if err := g.checkReadable(); err != nil {
		return 0, err
	}
	prefix, err := snapshotPrefix(prefix)
	if err != nil {
		return 0, err
	}
	tables := g.tables()
	headers := g.headers()
	entries := make([]manifestTable, len(tables))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, t := range tables {
		eg.Go(func() error {
			da := t.DataAccess()
			raw, err := storage.EncodeWithHeader(da, headers[i], o.compression)
			if err != nil {
				return translateError(err)
			}
			name := path.Join(prefix, da.Name()+tableSuffix)
			if err := upload(egCtx, store, name, raw, o.rc); err != nil {
				return fmt.Errorf("upload %s: %w", name, err)
			}
			entries[i] = manifestTable{
				Name:        da.Name(),
				Blob:        name,
				Size:        int64(len(raw)),
				CRC32C:      hash.CRC32C(raw),
				SegmentSize: da.SegmentSize(),
				Records:     t.Len(),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	m := manifest{
		Version:     manifestVersion,
		CreatedAt:   time.Now().UTC(),
		Nodes:       g.Nodes(),
		Edges:       g.Edges(),
		Is3D:        g.is3D,
		FlagWords:   g.flagWords,
		Fingerprint: g.em.Fingerprint(),
		Layout:      g.em.Describe(),
		Tables:      entries,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := store.Put(ctx, path.Join(prefix, manifestName), data); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}
	total += int64(len(data))

	if o.updateCurrent {
		if err := store.Put(ctx, CurrentName, []byte(prefix)); err != nil {
			return total, fmt.Errorf("update %s: %w", CurrentName, err)
		}
	}
	return total, nil
}

func upload(ctx context.Context, store blobstore.BlobStore, name string, raw []byte, rc *resource.Controller) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(resource.NewRateLimitedWriter(ctx, w, rc), bytes.NewReader(raw)); err != nil {
		return errors.Join(err, blobstore.Abort(w))
	}
	if err := w.Sync(); err != nil {
		return errors.Join(err, blobstore.Abort(w))
	}
	return w.Close()
}

// Snapshots returns the prefixes of all snapshots in store, sorted.
func Snapshots(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var prefixes []string
	for _, name := range names {
		if dir, file := path.Split(name); file == manifestName && dir != "" {
			prefixes = append(prefixes, strings.TrimSuffix(dir, "/"))
		}
	}
	return prefixes, nil
}

// Restore builds a graph with b and fills it from the snapshot under prefix.
// The builder's layout and dimension must match the snapshot; its segment
// size may differ.
func Restore(ctx context.Context, store blobstore.BlobStore, prefix string, b Builder, opts ...SnapshotOption) (*BaseGraph, error) {
	start := time.Now()
	g, err := restore(ctx, store, prefix, b, opts)

	logger, metrics := b.logger, b.metrics
	if logger == nil {
		logger = NoopLogger()
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	metrics.RecordRestore(time.Since(start), err)
	if err != nil {
		logger.LogRestore(ctx, prefix, 0, 0, err)
		return nil, err
	}
	logger.LogRestore(ctx, prefix, g.Nodes(), g.Edges(), nil)
	return g, nil
}

// RestoreLatest restores the snapshot CURRENT points at.
func RestoreLatest(ctx context.Context, store blobstore.BlobStore, b Builder, opts ...SnapshotOption) (*BaseGraph, error) {
	raw, err := blobstore.ReadAll(ctx, store, CurrentName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, CurrentName, err)
		}
		return nil, err
	}
	return Restore(ctx, store, strings.TrimSpace(string(raw)), b, opts...)
}

func restore(ctx context.Context, store blobstore.BlobStore, prefix string, b Builder, opts []SnapshotOption) (*BaseGraph, error) {
	o := defaultSnapshotOptions()
	for _, fn := range opts {
		fn(&o)
	}

	prefix, err := snapshotPrefix(prefix)
	if err != nil {
		return nil, err
	}
	m, err := readManifest(ctx, store, prefix)
	if err != nil {
		return nil, err
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := g.checkManifest(m); err != nil {
		return nil, g.abandon(err)
	}

	tables := g.tables()
	byName := make(map[string]manifestTable, len(m.Tables))
	for _, e := range m.Tables {
		byName[e.Name] = e
	}
	entries := make([]manifestTable, len(tables))
	for i, t := range tables {
		e, ok := byName[t.DataAccess().Name()]
		if !ok {
			return nil, g.abandon(fmt.Errorf("%w: snapshot %s has no table %s", ErrCorrupt, prefix, t.DataAccess().Name()))
		}
		entries[i] = e
	}
	raws := make([][]byte, len(tables))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, e := range entries {
		eg.Go(func() error {
			raw, err := download(egCtx, store, e.Blob, o.rc)
			if errors.Is(err, blobstore.ErrNotFound) {
				return fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			if err != nil {
				return fmt.Errorf("download %s: %w", e.Blob, err)
			}
			if int64(len(raw)) != e.Size {
				return fmt.Errorf("%w: %s has %d bytes, want %d", ErrCorrupt, e.Blob, len(raw), e.Size)
			}
			if err := hash.Verify(e.Blob, raw, e.CRC32C); err != nil {
				return fmt.Errorf("%w: %w", ErrCorrupt, err)
			}
			raws[i] = raw
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, g.abandon(err)
	}

	for i, t := range tables {
		img, err := storage.Decode(raws[i])
		if err != nil {
			return nil, g.abandon(err)
		}
		raws[i] = nil
		if err := t.CreateFrom(img); err != nil {
			return nil, g.abandon(err)
		}
	}

	if err := g.checkHeaders(); err != nil {
		return nil, g.abandon(err)
	}
	if g.Nodes() != m.Nodes || g.Edges() != m.Edges {
		return nil, g.abandon(fmt.Errorf("%w: restored %d nodes and %d edges, manifest has %d and %d",
			ErrCorrupt, g.Nodes(), g.Edges(), m.Nodes, m.Edges))
	}
	g.initialized = true
	return g, nil
}

func readManifest(ctx context.Context, store blobstore.BlobStore, prefix string) (*manifest, error) {
	name := path.Join(prefix, manifestName)
	raw, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: snapshot %s: %w", ErrNotFound, prefix, err)
		}
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("%w: %s has version %d", ErrCorrupt, name, m.Version)
	}
	return &m, nil
}

func (g *BaseGraph) checkManifest(m *manifest) error {
	switch {
	case m.Is3D != g.is3D:
		return fmt.Errorf("%w: snapshot 3D=%t, configured 3D=%t", ErrLayoutMismatch, m.Is3D, g.is3D)
	case m.FlagWords != g.flagWords:
		return fmt.Errorf("%w: snapshot has %d flag words, configured %d", ErrLayoutMismatch, m.FlagWords, g.flagWords)
	case m.Fingerprint != g.em.Fingerprint():
		return fmt.Errorf("%w: snapshot layout %q", ErrLayoutMismatch, m.Layout)
	}
	return nil
}

func download(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	r, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(resource.NewRateLimitedReader(ctx, r, rc))
}
