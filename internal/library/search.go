package library

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Query is the search filter. Empty fields are not applied; Q and Tag
// compose with AND.
type Query struct {
	Q   string // case-insensitive title substring
	Tag string // exact canonical tag membership
}

// Search filters the store snapshot in insertion order. An empty query
// returns the full set. No pagination, no ranking.
func (s *Store) Search(q Query) []*Entry {
	results := s.List()

	if q.Tag != "" {
		tag := NormalizeTag(q.Tag)
		results = filter(results, func(e *Entry) bool {
			return e.HasTag(tag)
		})
	}

	if q.Q != "" {
		needle := foldText(q.Q)
		results = filter(results, func(e *Entry) bool {
			return strings.Contains(foldText(e.Title), needle)
		})
	}

	return results
}

func filter(entries []*Entry, keep func(*Entry) bool) []*Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// foldText lowercases and strips accents so "Café" matches a "cafe" query.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}
