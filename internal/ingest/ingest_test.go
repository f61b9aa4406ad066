package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zonelib/zonelib/internal/library"
)

// stubProber returns a fixed duration, or an error when set.
type stubProber struct {
	duration int64
	err      error
}

func (p *stubProber) DurationMillis(ctx context.Context, path string) (int64, error) {
	return p.duration, p.err
}

type memAdapter struct {
	entries []*library.Entry
}

func (m *memAdapter) Load() ([]*library.Entry, error) { return m.entries, nil }
func (m *memAdapter) Save(entries []*library.Entry) error {
	m.entries = entries
	return nil
}

func newTestIngestor(t *testing.T, prober *stubProber) (*Ingestor, *library.Store, string) {
	t.Helper()
	store, err := library.NewStore(&memAdapter{})
	require.NoError(t, err)
	mediaDir := t.TempDir()
	return New(store, prober, mediaDir, nil), store, mediaDir
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("media bytes"), 0644))
	return path
}

func TestCommit(t *testing.T) {
	ing, store, mediaDir := newTestIngestor(t, &stubProber{duration: 4200})
	src := writeSource(t, "clip.mp4")

	e, err := ing.Commit(context.Background(), src, "Demo")
	require.NoError(t, err)

	assert.NotEmpty(t, e.MediaID)
	assert.Equal(t, "Demo", e.Title)
	assert.Equal(t, e.MediaID+".mp4", e.Filename)
	assert.Equal(t, int64(4200), e.Duration)
	assert.Empty(t, e.Tags)
	assert.NotNil(t, e.Tags, "tags must serialize as [], not null")
	assert.Empty(t, e.Subtitle)

	// Source moved, not copied.
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source file should be gone")
	_, err = os.Stat(filepath.Join(mediaDir, e.Filename))
	assert.NoError(t, err, "managed file should exist")

	got, err := store.Get(e.MediaID)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestCommit_ProbeFailureDefaultsToZero(t *testing.T) {
	ing, _, _ := newTestIngestor(t, &stubProber{err: errors.New("ffprobe exploded")})
	src := writeSource(t, "clip.mp3")

	e, err := ing.Commit(context.Background(), src, "Broken Probe")
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.Duration)
}

func TestCommit_MoveFailureCreatesNoEntry(t *testing.T) {
	ing, store, _ := newTestIngestor(t, &stubProber{})

	_, err := ing.Commit(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), "Ghost")
	require.ErrorIs(t, err, ErrMoveFailed)
	assert.Zero(t, store.Len(), "no entry may exist for a failed ingestion")
}

func TestCommit_UniqueIDs(t *testing.T) {
	ing, store, _ := newTestIngestor(t, &stubProber{})

	seen := map[string]bool{}
	for range 10 {
		src := writeSource(t, "clip.mp4")
		e, err := ing.Commit(context.Background(), src, "Dup")
		require.NoError(t, err)
		assert.False(t, seen[e.MediaID], "media id reused: %s", e.MediaID)
		seen[e.MediaID] = true
	}
	assert.Equal(t, 10, store.Len())
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "Holiday Mix", TitleFromFilename("/dump/music/Holiday Mix.mp3"))
	assert.Equal(t, "clip", TitleFromFilename("clip.mp4"))
}

func TestScanDump(t *testing.T) {
	ing, store, mediaDir := newTestIngestor(t, &stubProber{duration: 1000})

	dump := filepath.Join(mediaDir, "dump", "nested")
	require.NoError(t, os.MkdirAll(dump, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dump, "Song One.mp3"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dump, "Clip Two.MP4"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dump, "notes.txt"), []byte("x"), 0644))

	entries, err := ing.ScanDump(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, store.Len())

	titles := map[string]bool{}
	for _, e := range entries {
		titles[e.Title] = true
	}
	assert.True(t, titles["Song One"])
	assert.True(t, titles["Clip Two"])
}

// Concurrent commits each flush; the last persisted snapshot must contain
// every committed entry.
func TestScanDump_PersistsAllCommits(t *testing.T) {
	adapter := &memAdapter{}
	store, err := library.NewStore(adapter)
	require.NoError(t, err)
	mediaDir := t.TempDir()
	ing := New(store, &stubProber{duration: 1000}, mediaDir, nil)

	dump := ing.DumpDir()
	require.NoError(t, os.MkdirAll(dump, 0755))
	const n = 12
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("track %02d.mp3", i)
		require.NoError(t, os.WriteFile(filepath.Join(dump, name), []byte("x"), 0644))
	}

	entries, err := ing.ScanDump(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, n)
	require.Equal(t, n, store.Len())

	require.Len(t, adapter.entries, n, "persisted document is missing commits")
	persisted := map[string]bool{}
	for _, e := range adapter.entries {
		persisted[e.MediaID] = true
	}
	for _, e := range entries {
		assert.True(t, persisted[e.MediaID], "entry %s not in persisted document", e.MediaID)
	}
}

func TestScanDump_MissingDumpDir(t *testing.T) {
	ing, store, _ := newTestIngestor(t, &stubProber{})

	entries, err := ing.ScanDump(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, store.Len())
}
