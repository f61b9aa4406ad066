// Package library owns the media entry collection: the data model, the
// in-memory store, its persistence adapter, and the search layer.
package library

import (
	"slices"
	"strings"
)

// Title and tag length bounds, enforced before any mutation is applied.
const (
	TitleMinLen = 1
	TitleMaxLen = 128
	TagMinLen   = 1
	TagMaxLen   = 32
)

// Entry is a single media item in the library. MediaID and Filename are
// immutable once set; Title, Tags and Subtitle are user-editable.
type Entry struct {
	MediaID  string   `json:"mediaId"`
	Title    string   `json:"title"`
	Filename string   `json:"filename"`
	Duration int64    `json:"duration"` // milliseconds, 0 when unprobeable
	Tags     []string `json:"tags"`
	Subtitle string   `json:"subtitle,omitempty"`
}

// NormalizeTag lowercases a tag into its canonical form.
func NormalizeTag(tag string) string {
	return strings.ToLower(tag)
}

// ValidateTitle checks the title length bounds.
func ValidateTitle(title string) error {
	if len(title) < TitleMinLen || len(title) > TitleMaxLen {
		return ErrTitleLength
	}
	return nil
}

// ValidateTags normalizes every tag and checks its length bounds. It returns
// the canonical tags, or an error without any partial result.
func ValidateTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		canonical := NormalizeTag(tag)
		if len(canonical) < TagMinLen || len(canonical) > TagMaxLen {
			return nil, ErrTagLength
		}
		out = append(out, canonical)
	}
	return out, nil
}

// AddTags unions canonical tags into the entry's tag set. Adding a tag the
// entry already has is a no-op.
func (e *Entry) AddTags(tags []string) {
	for _, tag := range tags {
		if !slices.Contains(e.Tags, tag) {
			e.Tags = append(e.Tags, tag)
		}
	}
}

// RemoveTags subtracts canonical tags from the entry's tag set. Removing an
// absent tag is a no-op.
func (e *Entry) RemoveTags(tags []string) {
	e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool {
		return slices.Contains(tags, t)
	})
}

// HasTag reports whether the entry carries the canonical form of tag.
func (e *Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, NormalizeTag(tag))
}
