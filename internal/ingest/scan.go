package ingest

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zonelib/zonelib/internal/library"
)

// scanWorkers bounds concurrent commits during a dump scan; each commit runs
// an ffprobe process.
const scanWorkers = 4

// dumpExtensions are the media types picked up by the bulk local import.
var dumpExtensions = map[string]bool{
	".mp3": true,
	".mp4": true,
}

// ScanDump walks the dump directory recursively and commits every media file
// found, deriving titles from file names. Files that fail to commit are
// logged and skipped; the scan itself keeps going. Committed entries are
// returned in no particular order.
func (i *Ingestor) ScanDump(ctx context.Context) ([]*library.Entry, error) {
	var files []string
	err := filepath.WalkDir(i.DumpDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing dump directory means nothing to import.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if dumpExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries []*library.Entry
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanWorkers)

	for _, file := range files {
		g.Go(func() error {
			e, err := i.Commit(ctx, file, TitleFromFilename(file))
			if err != nil {
				i.log.Warn("dump import skipped", "path", file, "error", err)
				return nil
			}
			mu.Lock()
			entries = append(entries, e)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entries, err
	}
	return entries, nil
}
