// Package similarity keeps the corpus of sentences the user has typed and
// retrieves the ones closest to a query by TF-IDF cosine similarity.
//
// The index is refit over the whole corpus whenever it changes. That is
// O(corpus * vocabulary) per commit, which is acceptable at the 1000
// sentence cap and is the ceiling to watch if the cap is raised.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/wordassist/pkg/candidate"
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/floats"
)

// DefaultCapacity is the maximum number of sentences kept in the corpus.
const DefaultCapacity = 1000

// DefaultK is the number of neighbours returned when k is not positive.
const DefaultK = 3

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Match is a corpus sentence and its cosine similarity to a query.
type Match struct {
	Sentence string
	Score    float64
}

// vector is a sparse L2-normalised TF-IDF vector; idx is sorted.
type vector struct {
	idx []int
	val []float64
}

// Index is safe for concurrent use.
type Index struct {
	capacity  int
	sentences []string

	vocab map[string]int
	idf   []float64
	docs  []vector

	mu sync.RWMutex
}

// New creates an empty index holding at most capacity sentences.
func New(capacity int) *Index {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Index{
		capacity: capacity,
		vocab:    make(map[string]int),
	}
}

// AddSentence appends one sentence, evicting the oldest past capacity, and refits.
func (x *Index) AddSentence(sentence string) {
	x.AddSentences([]string{sentence})
}

// AddSentences appends every non-blank sentence in order, then refits once.
func (x *Index) AddSentences(sentences []string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	added := 0
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		x.sentences = append(x.sentences, s)
		added++
	}
	if added == 0 {
		return
	}
	x.evict()
	x.refit()
}

// Restore replaces the corpus, keeping the newest capacity entries.
func (x *Index) Restore(sentences []string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.sentences = x.sentences[:0]
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			x.sentences = append(x.sentences, s)
		}
	}
	x.evict()
	x.refit()
}

// Sentences returns a copy of the corpus, oldest first.
func (x *Index) Sentences() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]string, len(x.sentences))
	copy(out, x.sentences)
	return out
}

// Len returns the corpus size.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.sentences)
}

// Nearest returns up to k corpus sentences ordered by descending cosine
// similarity to query. Equal scores favour the newer sentence and
// sentences sharing no weighted term with the query are left out.
func (x *Index) Nearest(query string, k int) []Match {
	if k <= 0 {
		k = DefaultK
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.docs) == 0 {
		return nil
	}
	q := x.vectorize(query)
	if len(q.idx) == 0 {
		return nil
	}
	dense := make(map[int]float64, len(q.idx))
	for i, term := range q.idx {
		dense[term] = q.val[i]
	}

	var matches []Match
	var buf []float64
	// newest first so the stable sort keeps newer sentences ahead on ties
	for d := len(x.docs) - 1; d >= 0; d-- {
		doc := x.docs[d]
		if len(doc.idx) == 0 {
			continue
		}
		buf = buf[:0]
		for _, term := range doc.idx {
			buf = append(buf, dense[term])
		}
		score := floats.Dot(doc.val, buf)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Sentence: x.sentences[d], Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// Candidates wraps Nearest for the suggestion merge.
func (x *Index) Candidates(query string, k int) []candidate.Candidate {
	matches := x.Nearest(query, k)
	out := make([]candidate.Candidate, len(matches))
	for i, m := range matches {
		out[i] = candidate.Candidate{Text: m.Sentence, Score: m.Score, Source: candidate.Similarity}
	}
	return out
}

// evict drops the oldest sentences past capacity. Caller holds the write lock.
func (x *Index) evict() {
	if over := len(x.sentences) - x.capacity; over > 0 {
		x.sentences = append([]string(nil), x.sentences[over:]...)
		log.Debugf("similarity corpus full, evicted %d oldest sentences", over)
	}
}

// refit rebuilds vocabulary, idf weights and every document vector.
// Caller holds the write lock.
func (x *Index) refit() {
	tokenized := make([][]string, len(x.sentences))
	df := make(map[string]int)
	for i, s := range x.sentences {
		terms := analyze(s)
		tokenized[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(x.sentences))
	x.vocab = make(map[string]int, len(terms))
	x.idf = make([]float64, len(terms))
	for i, t := range terms {
		x.vocab[t] = i
		x.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	x.docs = make([]vector, len(tokenized))
	for i, toks := range tokenized {
		x.docs[i] = x.weigh(toks)
	}
	log.Debugf("similarity refit: %d sentences, %d terms", len(x.sentences), len(terms))
}

func (x *Index) vectorize(text string) vector {
	return x.weigh(analyze(text))
}

// weigh turns tokens into a normalised tf-idf vector, ignoring unknown terms.
func (x *Index) weigh(tokens []string) vector {
	tf := make(map[int]float64)
	for _, t := range tokens {
		if i, ok := x.vocab[t]; ok {
			tf[i]++
		}
	}
	if len(tf) == 0 {
		return vector{}
	}

	v := vector{idx: make([]int, 0, len(tf))}
	for i := range tf {
		v.idx = append(v.idx, i)
	}
	sort.Ints(v.idx)
	v.val = make([]float64, len(v.idx))
	for j, i := range v.idx {
		v.val[j] = tf[i] * x.idf[i]
	}

	norm := floats.Norm(v.val, 2)
	if norm == 0 {
		return vector{}
	}
	floats.Scale(1/norm, v.val)
	return v
}

// analyze lowercases text and keeps tokens of two or more word runes
// that are not English stop words.
func analyze(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if !isStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}
