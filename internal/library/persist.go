package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// document is the on-disk shape: the full entry set as [id, entry] pairs,
// matching the format the library has always been stored in.
type document struct {
	Entries []entryPair `json:"entries"`
}

// entryPair serializes as a two-element JSON array [mediaId, entry].
type entryPair struct {
	ID    string
	Entry *Entry
}

func (p entryPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Entry})
}

func (p *entryPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.ID); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Entry)
}

// FileAdapter persists the library as a single JSON document, rewritten
// wholesale on every save.
type FileAdapter struct {
	path string
}

// NewFileAdapter creates an adapter writing to the given document path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Load reads the document. A missing file is not an error: the library
// starts empty and the document is created by the first Save.
func (a *FileAdapter) Load() ([]*Entry, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", a.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.path, err)
	}

	entries := make([]*Entry, 0, len(doc.Entries))
	for _, pair := range doc.Entries {
		if pair.Entry == nil {
			continue
		}
		// The pair key is authoritative for the id.
		pair.Entry.MediaID = pair.ID
		entries = append(entries, pair.Entry)
	}
	return entries, nil
}

// Save rewrites the whole document. The write goes through a temp file and a
// rename so a crash mid-write never leaves a truncated document behind.
func (a *FileAdapter) Save(entries []*Entry) error {
	doc := document{Entries: make([]entryPair, 0, len(entries))}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, entryPair{ID: e.MediaID, Entry: e})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := a.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", a.path, err)
	}
	return nil
}
