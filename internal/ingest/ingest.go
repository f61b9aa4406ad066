// Package ingest turns external artifacts (uploads, dump files, downloads)
// into managed library entries.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/zonelib/zonelib/internal/library"
	"github.com/zonelib/zonelib/internal/probe"
)

// Ingestor commits local files into the managed media directory and the
// entry store.
type Ingestor struct {
	store    *library.Store
	prober   probe.Prober
	mediaDir string
	log      *slog.Logger
}

// New creates an ingestor writing media files under mediaDir.
func New(store *library.Store, prober probe.Prober, mediaDir string, log *slog.Logger) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	return &Ingestor{
		store:    store,
		prober:   prober,
		mediaDir: mediaDir,
		log:      log.With("component", "ingest"),
	}
}

// MediaPath resolves a managed filename to its filesystem path.
func (i *Ingestor) MediaPath(filename string) string {
	return filepath.Join(i.mediaDir, filename)
}

// DumpDir is the directory scanned by bulk local import.
func (i *Ingestor) DumpDir() string {
	return filepath.Join(i.mediaDir, "dump")
}

// Commit moves a local file into managed storage under a fresh media id,
// probes its duration, and records the new entry. The source file is gone
// afterwards. A probe failure is not fatal: duration stays 0.
func (i *Ingestor) Commit(ctx context.Context, srcPath, title string) (*library.Entry, error) {
	mediaID := uuid.NewString()
	filename := mediaID + filepath.Ext(srcPath)
	dest := i.MediaPath(filename)

	if err := moveFile(srcPath, dest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}

	duration, err := i.prober.DurationMillis(ctx, dest)
	if err != nil {
		i.log.Warn("duration probe failed", "path", dest, "error", err)
		duration = 0
	}

	e := &library.Entry{
		MediaID:  mediaID,
		Title:    title,
		Filename: filename,
		Duration: duration,
		Tags:     []string{},
	}
	i.store.Put(e)
	if err := i.store.Flush(); err != nil {
		i.log.Error("flush after commit failed", "mediaId", mediaID, "error", err)
	}

	i.log.Info("committed", "mediaId", mediaID, "title", title, "duration_ms", duration)
	return e, nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy content: %w", err)
	}
	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// TitleFromFilename derives an upload title from a file's base name.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
