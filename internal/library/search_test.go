package library

import (
	"testing"
)

func searchStore(t *testing.T) *Store {
	t.Helper()
	store, _ := newTestStore(t)
	store.Put(entry("1", "Cat Videos", "animals"))
	store.Put(entry("2", "Concert Night", "music", "live"))
	store.Put(entry("3", "Caterpillar Documentary"))
	store.Put(entry("4", "Cat Concert", "music", "animals"))
	return store
}

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.MediaID
	}
	return out
}

func assertIDs(t *testing.T, got []*Entry, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestSearch_Empty(t *testing.T) {
	store := searchStore(t)
	assertIDs(t, store.Search(Query{}), "1", "2", "3", "4")
}

func TestSearch_TitleSubstring(t *testing.T) {
	store := searchStore(t)
	assertIDs(t, store.Search(Query{Q: "cat"}), "1", "3", "4")
}

func TestSearch_TitleCaseInsensitive(t *testing.T) {
	store := searchStore(t)
	assertIDs(t, store.Search(Query{Q: "CONCERT"}), "2", "4")
}

func TestSearch_Tag(t *testing.T) {
	store := searchStore(t)
	assertIDs(t, store.Search(Query{Tag: "music"}), "2", "4")
}

func TestSearch_TagCaseInsensitive(t *testing.T) {
	store := searchStore(t)
	assertIDs(t, store.Search(Query{Tag: "MUSIC"}), "2", "4")
}

func TestSearch_Composition(t *testing.T) {
	store := searchStore(t)
	assertIDs(t, store.Search(Query{Q: "cat", Tag: "animals"}), "1", "4")
}

func TestSearch_NoMatch(t *testing.T) {
	store := searchStore(t)
	if got := store.Search(Query{Q: "zebra"}); len(got) != 0 {
		t.Errorf("expected no results, got %v", ids(got))
	}
}

func TestSearch_AccentFolding(t *testing.T) {
	store, _ := newTestStore(t)
	store.Put(entry("1", "Café Sessions"))

	assertIDs(t, store.Search(Query{Q: "cafe"}), "1")
	assertIDs(t, store.Search(Query{Q: "Café"}), "1")
}
