package library

import (
	"fmt"
	"slices"
	"sync"
)

// Adapter persists the full entry set as one document. Load returns the
// entries in stored order; Save rewrites the whole document. The store never
// calls Save concurrently.
type Adapter interface {
	Load() ([]*Entry, error)
	Save(entries []*Entry) error
}

// Store is the in-memory source of truth for all entries. Every mutation runs
// under the write lock, so no two mutations interleave. Entries never leave
// the store by reference: accessors hand out copies, so callers can read and
// marshal results without racing a concurrent mutation. Durability is a
// separate concern handled by Flush.
type Store struct {
	mu      sync.RWMutex
	flushMu sync.Mutex
	adapter Adapter
	entries map[string]*Entry
	order   []string
}

// NewStore creates a store over the given persistence adapter and loads the
// persisted entry set. A missing document yields an empty store.
func NewStore(adapter Adapter) (*Store, error) {
	entries, err := adapter.Load()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	s := &Store{
		adapter: adapter,
		entries: make(map[string]*Entry, len(entries)),
	}
	for _, e := range entries {
		c := clone(e)
		if c.Tags == nil {
			c.Tags = []string{}
		}
		s.entries[c.MediaID] = c
		s.order = append(s.order, c.MediaID)
	}
	return s, nil
}

// clone copies an entry including its tag slice, so the caller's copy and the
// stored one cannot alias.
func clone(e *Entry) *Entry {
	c := *e
	c.Tags = slices.Clone(c.Tags)
	return &c
}

// Get returns a copy of the entry with the given id, or ErrNotFound.
func (s *Store) Get(mediaID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[mediaID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(e), nil
}

// List returns copies of all entries in insertion order.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.entries[id]))
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Put inserts a new entry or replaces an existing one under the same id. The
// store keeps its own copy; later changes to e are not seen.
func (s *Store) Put(e *Entry) {
	c := clone(e)
	if c.Tags == nil {
		c.Tags = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[c.MediaID]; !exists {
		s.order = append(s.order, c.MediaID)
	}
	s.entries[c.MediaID] = c
}

// Update applies fn to the stored entry under the write lock, so concurrent
// handlers never observe a half-applied mutation, and returns a copy of the
// result. fn must not block.
func (s *Store) Update(mediaID string, fn func(*Entry)) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[mediaID]
	if !ok {
		return nil, ErrNotFound
	}
	fn(e)
	return clone(e), nil
}

// Remove deletes the entry and returns it, or ErrNotFound. The media id is
// never reused: ids are generated, not recycled from the order slice.
func (s *Store) Remove(mediaID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[mediaID]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.entries, mediaID)
	for i, id := range s.order {
		if id == mediaID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return e, nil
}

// Flush rewrites the persisted document from a snapshot taken under the read
// lock. Flushes are serialized, and the snapshot is taken only once the save
// turn is acquired, so an older snapshot can never be written over a newer
// one. It runs after every mutating operation and once more on graceful
// shutdown.
func (s *Store) Flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if err := s.adapter.Save(s.List()); err != nil {
		return fmt.Errorf("flush library: %w", err)
	}
	return nil
}
