// Package lexicon holds synonym groups and expands a word to every
// word that shares a sense with it.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed data/synonyms.yaml
var embeddedSynonyms []byte

// Lexicon maps words to the synonym groups (senses) they belong to.
// A word can sit in several groups; Synonyms returns the union.
// It is read-only after loading.
type Lexicon struct {
	// each group lists the canonical form first
	groups [][]string
	// word -> indexes into groups
	index map[string][]int
}

type fileFormat struct {
	Synonyms []struct {
		Canonical string   `yaml:"canonical"`
		Variants  []string `yaml:"variants"`
	} `yaml:"synonyms"`
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{index: make(map[string][]int)}
}

// Default parses the synonym list embedded in the binary.
func Default() (*Lexicon, error) {
	return Parse(embeddedSynonyms)
}

// Load reads synonym groups from a YAML file.
//
//	synonyms:
//	  - canonical: happy
//	    variants: [glad, joyful]
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", path, err)
	}
	log.Debugf("Loaded lexicon %s: %d groups", path, len(lex.groups))
	return lex, nil
}

// Parse decodes YAML synonym groups.
func Parse(data []byte) (*Lexicon, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range doc.Synonyms {
		lex.AddGroup(entry.Canonical, entry.Variants...)
	}
	return lex, nil
}

// AddGroup records one sense. Words are lowercased and deduplicated,
// canonical first. Groups with fewer than two words are ignored.
func (l *Lexicon) AddGroup(canonical string, variants ...string) {
	seen := make(map[string]bool, len(variants)+1)
	group := make([]string, 0, len(variants)+1)
	for _, w := range append([]string{canonical}, variants...) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		group = append(group, w)
	}
	if len(group) < 2 {
		return
	}

	id := len(l.groups)
	l.groups = append(l.groups, group)
	for _, w := range group {
		l.index[w] = append(l.index[w], id)
	}
}

// Synonyms returns every word sharing a group with word, excluding word
// itself, in group order. Unknown words have none.
func (l *Lexicon) Synonyms(word string) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	ids := l.index[word]
	if len(ids) == 0 {
		return nil
	}

	seen := map[string]bool{word: true}
	var out []string
	for _, id := range ids {
		for _, w := range l.groups[id] {
			if seen[w] {
				continue
			}
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// Len returns the number of synonym groups.
func (l *Lexicon) Len() int {
	return len(l.groups)
}
