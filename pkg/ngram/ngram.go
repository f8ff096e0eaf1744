// Package ngram counts word bigrams and trigrams in committed text and
// predicts the next word from the last one or two words typed.
package ngram

import (
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/wordassist/pkg/candidate"
	"github.com/bastiangx/wordassist/pkg/textseg"
	"github.com/charmbracelet/log"
)

// PerTable is how many continuations each table contributes to a prediction.
const PerTable = 3

// Table maps a context (one word, or two words joined by a space)
// to the counts of the words that followed it.
type Table map[string]map[string]int

// Ensure returns the row for key, inserting an empty one when missing.
func (t Table) Ensure(key string) map[string]int {
	row, ok := t[key]
	if !ok {
		row = make(map[string]int)
		t[key] = row
	}
	return row
}

func (t Table) clone() Table {
	out := make(Table, len(t))
	for ctx, row := range t {
		cp := make(map[string]int, len(row))
		for w, c := range row {
			cp[w] = c
		}
		out[ctx] = cp
	}
	return out
}

// top returns the n most frequent continuations of ctx, ties in lexical order.
func (t Table) top(ctx string, n int) []candidate.Candidate {
	row := t[ctx]
	if len(row) == 0 {
		return nil
	}
	out := make([]candidate.Candidate, 0, len(row))
	for w, c := range row {
		out = append(out, candidate.Candidate{Text: w, Score: float64(c), Source: candidate.Ngram})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Model holds the bigram and trigram tables.
type Model struct {
	bigrams  Table
	trigrams Table
	mu       sync.RWMutex
}

// New creates an empty model.
func New() *Model {
	return &Model{
		bigrams:  make(Table),
		trigrams: make(Table),
	}
}

// Observe tokenizes text into lowercase words and counts every adjacent
// pair and triple. Punctuation is dropped, so pairs span sentence ends.
func (m *Model) Observe(text string) {
	words := textseg.Tokenize(text)
	if len(words) < 2 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i+1 < len(words); i++ {
		m.bigrams.Ensure(words[i])[words[i+1]]++
	}
	for i := 0; i+2 < len(words); i++ {
		m.trigrams.Ensure(words[i]+" "+words[i+1])[words[i+2]]++
	}
	log.Debugf("observed %d tokens: bigrams=%d trigrams=%d", len(words), len(m.bigrams), len(m.trigrams))
}

// Predict returns likely next words for the given preceding words.
func (m *Model) Predict(words []string) []string {
	return candidate.Texts(m.Continuations(words))
}

// Continuations returns up to PerTable trigram continuations of the last
// two words followed by up to PerTable bigram continuations of the last word.
// Words already proposed by the trigram table are not repeated.
func (m *Model) Continuations(words []string) []candidate.Candidate {
	if len(words) == 0 {
		return nil
	}
	last := strings.ToLower(words[len(words)-1])

	m.mu.RLock()
	defer m.mu.RUnlock()

	var tri []candidate.Candidate
	if len(words) >= 2 {
		ctx := strings.ToLower(words[len(words)-2]) + " " + last
		tri = m.trigrams.top(ctx, PerTable)
	}
	bi := m.bigrams.top(last, PerTable)
	return candidate.Merge("", 0, tri, bi)
}

// Len returns the number of bigram and trigram contexts.
func (m *Model) Len() (bigrams, trigrams int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bigrams), len(m.trigrams)
}

// Bigrams returns a copy of the bigram table.
func (m *Model) Bigrams() Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bigrams.clone()
}

// Trigrams returns a copy of the trigram table.
func (m *Model) Trigrams() Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trigrams.clone()
}

// Restore replaces both tables. Non-positive counts are dropped.
func (m *Model) Restore(bigrams, trigrams Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bigrams = restoreTable(bigrams)
	m.trigrams = restoreTable(trigrams)
}

func restoreTable(src Table) Table {
	dst := make(Table, len(src))
	for ctx, row := range src {
		for w, c := range row {
			if c > 0 && w != "" {
				dst.Ensure(ctx)[w] = c
			}
		}
	}
	return dst
}
