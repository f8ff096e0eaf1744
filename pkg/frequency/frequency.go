// Package frequency tracks how often the user commits each word and
// answers prefix/fuzzy lookups against that table.
package frequency

import (
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/wordassist/pkg/editdist"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultMaxDistance is the edit distance used by fuzzy lookups when none is given.
const DefaultMaxDistance = 2

// Entry is a known word with its usage count.
type Entry struct {
	Word  string
	Count int
}

// Model holds the lowercase word -> count table.
// The trie mirrors the map so prefix lookups do not scan every key.
type Model struct {
	counts   map[string]int
	trie     *patricia.Trie
	onCommit func()
	mu       sync.RWMutex
}

// New creates an empty frequency model.
func New() *Model {
	return &Model{
		counts: make(map[string]int),
		trie:   patricia.NewTrie(),
	}
}

// OnCommit registers fn to run after every CommitWord, outside the model lock.
// The engine uses it to persist the table write-through.
func (m *Model) OnCommit(fn func()) {
	m.mu.Lock()
	m.onCommit = fn
	m.mu.Unlock()
}

// CommitWord lowercases word and increments its count.
func (m *Model) CommitWord(word string) {
	lower := strings.ToLower(strings.TrimSpace(word))
	if lower == "" {
		return
	}

	m.mu.Lock()
	m.counts[lower]++
	count := m.counts[lower]
	m.trie.Set(patricia.Prefix(lower), count)
	hook := m.onCommit
	m.mu.Unlock()

	log.Debugf("committed word [ %s ] count=%d", lower, count)
	if hook != nil {
		hook()
	}
}

// Count returns how many times word (any case) has been committed.
func (m *Model) Count(word string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[strings.ToLower(word)]
}

// Len returns the number of distinct words.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.counts)
}

// LookupCandidates returns known words that start with target or lie within
// maxDistance edits of it, most frequent first, ties in lexical order.
// A non-positive maxDistance falls back to DefaultMaxDistance.
func (m *Model) LookupCandidates(target string, maxDistance int) []Entry {
	lower := strings.ToLower(strings.TrimSpace(target))
	if lower == "" {
		return nil
	}
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var entries []Entry

	err := m.trie.VisitSubtree(patricia.Prefix(lower), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		seen[word] = struct{}{}
		entries = append(entries, Entry{Word: word, Count: item.(int)})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting frequency trie: %v", err)
	}

	for word, count := range m.counts {
		if _, ok := seen[word]; ok {
			continue
		}
		if editdist.Within(lower, word, maxDistance) {
			entries = append(entries, Entry{Word: word, Count: count})
		}
	}

	sortEntries(entries)
	return entries
}

// Snapshot returns a copy of the table, safe to hand to a store.
func (m *Model) Snapshot() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Restore replaces the table with counts. Keys are lowercased and merged;
// negative counts are dropped.
func (m *Model) Restore(counts map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counts = make(map[string]int, len(counts))
	m.trie = patricia.NewTrie()
	for word, count := range counts {
		lower := strings.ToLower(word)
		if lower == "" || count < 0 {
			continue
		}
		m.counts[lower] += count
	}
	for word, count := range m.counts {
		m.trie.Set(patricia.Prefix(word), count)
	}
	log.Debugf("Restored frequency table with %d words", len(m.counts))
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})
}
