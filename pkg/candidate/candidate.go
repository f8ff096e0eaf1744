// Package candidate defines the ranked suggestion shared by every source
// and the merge used to combine source lists.
package candidate

import (
	"github.com/bastiangx/wordassist/internal/utils"
)

// Source names where a candidate came from.
type Source string

const (
	Spelling   Source = "spelling"
	Synonym    Source = "synonym"
	Frequency  Source = "frequency"
	Ngram      Source = "ngram"
	Similarity Source = "similarity"
)

// Candidate is one suggestion. Score is only comparable within a Source:
// inverse edit distance for spelling, commit count for frequency,
// continuation count for ngram and cosine for similarity.
type Candidate struct {
	Text   string
	Score  float64
	Source Source
}

// Merge concatenates lists in order, drops exclude and case-insensitive
// duplicates (first occurrence wins) and truncates to limit.
// A non-positive limit keeps everything.
func Merge(exclude string, limit int, lists ...[]Candidate) []Candidate {
	filter := utils.NewSuggestionFilter(exclude)
	var out []Candidate
	for _, list := range lists {
		for _, c := range list {
			if c.Text == "" || !filter.ShouldInclude(c.Text) {
				continue
			}
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Texts returns the candidate texts in order.
func Texts(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}
