package library

import (
	"errors"
	"sync"
	"testing"
)

// memAdapter keeps the persisted snapshot in memory and counts saves, so
// tests can assert flush behavior without touching a filesystem.
type memAdapter struct {
	entries []*Entry
	saves   int
	loadErr error
	saveErr error
}

func (m *memAdapter) Load() ([]*Entry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.entries, nil
}

func (m *memAdapter) Save(entries []*Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.entries = entries
	return nil
}

func newTestStore(t *testing.T) (*Store, *memAdapter) {
	t.Helper()
	adapter := &memAdapter{}
	store, err := NewStore(adapter)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, adapter
}

func entry(id, title string, tags ...string) *Entry {
	if tags == nil {
		tags = []string{}
	}
	return &Entry{MediaID: id, Title: title, Filename: id + ".mp4", Tags: tags}
}

func TestStore_PutGet(t *testing.T) {
	store, _ := newTestStore(t)

	e := entry("a1", "First")
	store.Put(e)

	got, err := store.Get("a1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "First" {
		t.Errorf("got title %q, want First", got.Title)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)

	store.Put(entry("c", "Third"))
	store.Put(entry("a", "First"))
	store.Put(entry("b", "Second"))

	got := store.List()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("List returned %d entries, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].MediaID != id {
			t.Errorf("List[%d] = %s, want %s", i, got[i].MediaID, id)
		}
	}
}

func TestStore_PutExistingKeepsOrder(t *testing.T) {
	store, _ := newTestStore(t)

	store.Put(entry("a", "First"))
	store.Put(entry("b", "Second"))
	store.Put(entry("a", "Renamed"))

	got := store.List()
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if got[0].MediaID != "a" || got[0].Title != "Renamed" {
		t.Errorf("List[0] = %s/%s, want a/Renamed", got[0].MediaID, got[0].Title)
	}
}

func TestStore_Update(t *testing.T) {
	store, _ := newTestStore(t)
	store.Put(entry("a", "First"))

	updated, err := store.Update("a", func(e *Entry) {
		e.Title = "Renamed"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("updated title %q, want Renamed", updated.Title)
	}

	got, _ := store.Get("a")
	if got.Title != "Renamed" {
		t.Errorf("stored title %q, want Renamed", got.Title)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Update("nope", func(e *Entry) { e.Title = "x" })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Remove(t *testing.T) {
	store, _ := newTestStore(t)
	store.Put(entry("a", "First"))
	store.Put(entry("b", "Second"))

	removed, err := store.Remove("a")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.MediaID != "a" {
		t.Errorf("removed %s, want a", removed.MediaID)
	}

	if _, err := store.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Remove, got %v", err)
	}
	if got := store.List(); len(got) != 1 || got[0].MediaID != "b" {
		t.Errorf("unexpected entries after Remove: %v", got)
	}
}

func TestStore_RemoveMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Remove("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_FlushSavesSnapshot(t *testing.T) {
	store, adapter := newTestStore(t)
	store.Put(entry("a", "First"))
	store.Put(entry("b", "Second"))

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if adapter.saves != 1 {
		t.Errorf("saves = %d, want 1", adapter.saves)
	}
	if len(adapter.entries) != 2 {
		t.Errorf("persisted %d entries, want 2", len(adapter.entries))
	}
}

func TestStore_FlushError(t *testing.T) {
	store, adapter := newTestStore(t)
	adapter.saveErr = errors.New("disk full")

	if err := store.Flush(); err == nil {
		t.Error("expected error from Flush")
	}
}

func TestNewStore_LoadsPersisted(t *testing.T) {
	adapter := &memAdapter{entries: []*Entry{
		entry("a", "First", "music"),
		entry("b", "Second"),
	}}

	store, err := NewStore(adapter)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	got, err := store.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.HasTag("music") {
		t.Errorf("tags not restored: %v", got.Tags)
	}
}

func TestNewStore_NilTagsNormalized(t *testing.T) {
	adapter := &memAdapter{entries: []*Entry{
		{MediaID: "a", Title: "First", Filename: "a.mp4"},
	}}

	store, err := NewStore(adapter)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	got, _ := store.Get("a")
	if got.Tags == nil {
		t.Error("Tags should be normalized to an empty slice")
	}
}

func TestStore_AccessorsReturnCopies(t *testing.T) {
	store, _ := newTestStore(t)
	store.Put(entry("a", "First", "music"))

	got, err := store.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Title = "Scribbled"
	got.Tags[0] = "scribbled"

	stored, _ := store.Get("a")
	if stored.Title != "First" || stored.Tags[0] != "music" {
		t.Errorf("caller mutation reached the store: %+v", stored)
	}

	listed := store.List()[0]
	listed.Title = "Scribbled"
	if stored, _ := store.Get("a"); stored.Title != "First" {
		t.Error("List handed out a live reference")
	}
}

func TestStore_PutDetachesFromCaller(t *testing.T) {
	store, _ := newTestStore(t)

	e := entry("a", "First", "music")
	store.Put(e)
	e.Title = "Scribbled"
	e.Tags[0] = "scribbled"

	stored, _ := store.Get("a")
	if stored.Title != "First" || stored.Tags[0] != "music" {
		t.Errorf("store aliases the caller's entry: %+v", stored)
	}
}

func TestStore_ConcurrentMutateFlushList(t *testing.T) {
	store, adapter := newTestStore(t)
	store.Put(entry("a", "First"))

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = store.Update("a", func(e *Entry) {
				e.Title = "Renamed"
				e.AddTags([]string{"x"})
				e.RemoveTags([]string{"x"})
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = store.Flush()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, e := range store.List() {
				_ = e.Title
				_ = len(e.Tags)
			}
		}
	}()
	wg.Wait()

	if err := store.Flush(); err != nil {
		t.Fatalf("final Flush: %v", err)
	}
	if len(adapter.entries) != 1 || adapter.entries[0].Title != "Renamed" {
		t.Errorf("persisted snapshot stale: %+v", adapter.entries)
	}
}
