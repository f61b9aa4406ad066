package main

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a title to
// count as a match.
const fuzzyThreshold = 0.7

// rankFuzzy orders entries by title similarity to the query, best first,
// dropping entries below the threshold. Exact substring matches always
// survive, so a short query against a long title still hits.
func rankFuzzy(entries []EntryResponse, query string) []EntryResponse {
	q := strings.ToLower(query)

	type scored struct {
		entry EntryResponse
		score float32
	}
	var matched []scored
	for _, e := range entries {
		title := strings.ToLower(e.Title)
		score := edlib.JaroWinklerSimilarity(title, q)
		if strings.Contains(title, q) && score < 1 {
			score = 1
		}
		if score < fuzzyThreshold {
			continue
		}
		matched = append(matched, scored{entry: e, score: score})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	out := make([]EntryResponse, len(matched))
	for i, m := range matched {
		out[i] = m.entry
	}
	return out
}
