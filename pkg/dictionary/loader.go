// Package dictionary loads the reference word list and proposes spelling
// corrections for words that are not in it.
package dictionary

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/bastiangx/wordassist/pkg/editdist"
	"github.com/charmbracelet/log"
	"github.com/sajari/fuzzy"
)

//go:embed data/en-large.txt
var embeddedWords []byte

// ErrEmpty is returned when a word list yields no usable words.
var ErrEmpty = errors.New("dictionary has no words")

const (
	// MaxDepth is the deepest edit distance the corrector explores.
	MaxDepth = 2
	// maxCorrections caps how many corrections one lookup returns.
	maxCorrections = 10
)

// Dictionary answers membership and correction queries.
// It is immutable once loaded and safe for concurrent reads.
type Dictionary struct {
	model *fuzzy.Model
	// words maps each lowercase word to its corpus count, 1 when unknown
	words map[string]int
}

// Default loads the word list embedded in the binary.
func Default() (*Dictionary, error) {
	return FromReader(bytes.NewReader(embeddedWords), FormatText)
}

// Load reads a word list from path. A missing or unreadable file is an error:
// no correction can ever be produced without the dictionary.
func Load(path string) (*Dictionary, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	dict, err := FromReader(bufio.NewReader(file), format)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", path, err)
	}
	if info, ok := GetFormatInfo(format); ok {
		log.Debugf("Loaded %s %s: %d words", info.Description, path, dict.Len())
	}
	return dict, nil
}

// FromReader parses a word list in the given format.
func FromReader(r io.Reader, format FileFormat) (*Dictionary, error) {
	counts := make(map[string]int)
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			first = false
			continue
		}

		if format == FormatHunspell {
			// first line of a .dic file is the entry count
			if first && isDigits(line) {
				first = false
				continue
			}
			if i := strings.IndexByte(line, '/'); i >= 0 {
				line = line[:i]
			}
		}
		first = false

		// frequency lists carry "word 1234"; the count breaks correction ties
		fields := strings.Fields(line)
		count := 1
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				count = n
			}
		}
		counts[fields[0]] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	dict := fromCounts(counts)
	if dict.Len() == 0 {
		return nil, ErrEmpty
	}
	return dict, nil
}

// FromWords builds a dictionary from an explicit word set. Every word
// counts once, so corrections tie-break lexically.
func FromWords(words ...string) *Dictionary {
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[strings.ToLower(strings.TrimSpace(w))] = 1
	}
	return fromCounts(counts)
}

func fromCounts(counts map[string]int) *Dictionary {
	model := fuzzy.NewModel()
	model.SetDepth(MaxDepth)
	// default threshold ignores words seen fewer than 5 times
	model.SetThreshold(1)

	known := make(map[string]int, len(counts))
	for w, n := range counts {
		lower := strings.ToLower(strings.TrimSpace(w))
		if lower == "" {
			continue
		}
		if _, dup := known[lower]; !dup {
			model.TrainWord(lower)
		}
		known[lower] += n
	}

	return &Dictionary{model: model, words: known}
}

// Contains reports whether word (any case) is a dictionary word.
// A typographic apostrophe matches the ASCII one.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[strings.ReplaceAll(strings.ToLower(word), "’", "'")]
	return ok
}

// Len returns the number of dictionary words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Corrections returns dictionary words within MaxDepth edits of word,
// closest first, then most frequent, then lexical. Known words have no corrections.
func (d *Dictionary) Corrections(word string) []string {
	lower := strings.ToLower(strings.TrimSpace(word))
	if lower == "" || d.Contains(lower) {
		return nil
	}

	type scored struct {
		word  string
		dist  int
		count int
	}
	var candidates []scored
	seen := make(map[string]struct{})
	for _, s := range d.model.Suggestions(lower, true) {
		if _, dup := seen[s]; dup || s == lower || !d.Contains(s) {
			continue
		}
		seen[s] = struct{}{}
		dist := editdist.Distance(lower, s)
		if dist > MaxDepth {
			continue
		}
		candidates = append(candidates, scored{word: s, dist: dist, count: d.words[s]})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].word < candidates[j].word
	})
	if len(candidates) > maxCorrections {
		candidates = candidates[:maxCorrections]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
