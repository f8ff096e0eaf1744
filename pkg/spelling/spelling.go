// Package spelling combines dictionary corrections, synonyms and the
// user's own vocabulary into word candidates.
package spelling

import (
	"strings"

	"github.com/bastiangx/wordassist/pkg/candidate"
	"github.com/bastiangx/wordassist/pkg/dictionary"
	"github.com/bastiangx/wordassist/pkg/editdist"
	"github.com/bastiangx/wordassist/pkg/frequency"
	"github.com/bastiangx/wordassist/pkg/lexicon"
	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of correction lists kept in memory.
const DefaultCacheSize = 1024

// Suggester is safe for concurrent use: the dictionary and lexicon are
// read-only, the frequency model and the cache lock internally.
type Suggester struct {
	dict        *dictionary.Dictionary
	lex         *lexicon.Lexicon
	freq        *frequency.Model
	maxDistance int
	corrections *lru.Cache[string, []string]
}

// New builds a suggester. lex may be nil when synonyms are disabled.
func New(dict *dictionary.Dictionary, lex *lexicon.Lexicon, freq *frequency.Model, maxDistance, cacheSize int) (*Suggester, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if maxDistance <= 0 {
		maxDistance = frequency.DefaultMaxDistance
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Suggester{
		dict:        dict,
		lex:         lex,
		freq:        freq,
		maxDistance: maxDistance,
		corrections: cache,
	}, nil
}

// Suggest returns the union of corrections, synonyms and frequency matches.
func (s *Suggester) Suggest(word string) mapset.Set[string] {
	set := mapset.NewSet[string]()
	for _, c := range s.Ranked(word) {
		set.Add(c.Text)
	}
	return set
}

// Ranked returns the same members as Suggest, grouped by source in the order
// spelling, frequency, synonym. Within a group the source order is kept.
func (s *Suggester) Ranked(word string) []candidate.Candidate {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	return candidate.Merge("", 0, s.Corrections(word), s.Frequent(word), s.Synonyms(word))
}

// Corrections returns dictionary corrections for a misspelled word,
// nearest first. Dictionary words get none.
func (s *Suggester) Corrections(word string) []candidate.Candidate {
	if s.dict == nil {
		return nil
	}
	lower := strings.ToLower(word)

	words, ok := s.corrections.Get(lower)
	if !ok {
		words = s.dict.Corrections(lower)
		s.corrections.Add(lower, words)
	}

	out := make([]candidate.Candidate, len(words))
	for i, w := range words {
		out[i] = candidate.Candidate{
			Text:   w,
			Score:  1 / float64(1+editdist.Distance(lower, w)),
			Source: candidate.Spelling,
		}
	}
	return out
}

// Synonyms returns every lexicon word sharing a sense with word.
func (s *Suggester) Synonyms(word string) []candidate.Candidate {
	if s.lex == nil {
		return nil
	}
	syns := s.lex.Synonyms(word)
	out := make([]candidate.Candidate, len(syns))
	for i, w := range syns {
		out[i] = candidate.Candidate{Text: w, Score: 1, Source: candidate.Synonym}
	}
	return out
}

// Frequent returns previously committed words close to word, most used first.
func (s *Suggester) Frequent(word string) []candidate.Candidate {
	if s.freq == nil {
		return nil
	}
	entries := s.freq.LookupCandidates(word, s.maxDistance)
	out := make([]candidate.Candidate, len(entries))
	for i, e := range entries {
		out[i] = candidate.Candidate{Text: e.Word, Score: float64(e.Count), Source: candidate.Frequency}
	}
	return out
}
