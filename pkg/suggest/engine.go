package suggest

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/bastiangx/wordassist/pkg/candidate"
	"github.com/bastiangx/wordassist/pkg/dictionary"
	"github.com/bastiangx/wordassist/pkg/frequency"
	"github.com/bastiangx/wordassist/pkg/lexicon"
	"github.com/bastiangx/wordassist/pkg/ngram"
	"github.com/bastiangx/wordassist/pkg/similarity"
	"github.com/bastiangx/wordassist/pkg/spelling"
	"github.com/bastiangx/wordassist/pkg/store"
	"github.com/bastiangx/wordassist/pkg/textseg"
	"github.com/charmbracelet/log"
)

const (
	// DefaultWordLimit is how many word suggestions are shown.
	DefaultWordLimit = 5
	// DefaultSentenceLimit is how many sentence suggestions are shown.
	DefaultSentenceLimit = 3
)

// State is the suggestion panel state.
type State int

const (
	// Idle means no suggestions are populated.
	Idle State = iota
	// Showing means at least one suggestion list is populated.
	Showing
)

func (s State) String() string {
	if s == Showing {
		return "showing"
	}
	return "idle"
}

// KeyResult is what a keypress produced.
type KeyResult struct {
	Words     []string
	Sentences []string
	// Committed is the word counted when a space was typed.
	Committed string
	State     State
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// DictPath is a word list file; empty uses the embedded list.
	DictPath string
	// LexiconPath is a YAML synonym file; empty uses the embedded lexicon.
	LexiconPath string
	// DisableSynonyms skips the lexicon entirely.
	DisableSynonyms bool

	MaxDistance   int
	CacheSize     int
	Capacity      int
	WordLimit     int
	SentenceLimit int
	// MatchCase copies the typed word's capitalization onto word suggestions.
	MatchCase bool

	// Store persists the models; nil keeps them in memory only.
	Store store.Store
	// SaveDebounce coalesces saves; zero writes through on every commit.
	SaveDebounce time.Duration
}

var _ IEngine = (*Engine)(nil)

// Engine is the suggestion orchestrator for one document session.
// All methods serialise on one mutex, so the IPC loop and config reloads
// can call in from different goroutines.
type Engine struct {
	freq    *frequency.Model
	ngrams  *ngram.Model
	index   *similarity.Index
	speller *spelling.Suggester
	dict    *dictionary.Dictionary
	lex     *lexicon.Lexicon
	saver   *store.Saver

	wordLimit     int
	sentenceLimit int
	matchCase     bool

	state     State
	words     []string
	sentences []candidate.Candidate

	mu sync.Mutex
}

// New loads the dictionary and lexicon, restores persisted models and
// returns a ready engine. A missing dictionary or lexicon is fatal.
func New(opts Options) (*Engine, error) {
	dict, err := loadDictionary(opts.DictPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryUnavailable, err)
	}

	var lex *lexicon.Lexicon
	if !opts.DisableSynonyms {
		if lex, err = loadLexicon(opts.LexiconPath); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLexiconUnavailable, err)
		}
	}

	freq := frequency.New()
	speller, err := spelling.New(dict, lex, freq, opts.MaxDistance, opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create spelling suggester: %w", err)
	}

	e := &Engine{
		freq:          freq,
		ngrams:        ngram.New(),
		index:         similarity.New(opts.Capacity),
		speller:       speller,
		dict:          dict,
		lex:           lex,
		wordLimit:     orDefault(opts.WordLimit, DefaultWordLimit),
		sentenceLimit: orDefault(opts.SentenceLimit, DefaultSentenceLimit),
		matchCase:     opts.MatchCase,
	}

	if opts.Store != nil {
		e.restore(opts.Store)
		e.saver = store.NewSaver(opts.Store, e.freq.Snapshot, e.modelState, opts.SaveDebounce)
		e.freq.OnCommit(e.saver.SaveFrequencies)
	}

	log.Debugf("Engine ready: dictionary=%d words, frequency=%d words, corpus=%d sentences",
		dict.Len(), freq.Len(), e.index.Len())
	return e, nil
}

func loadDictionary(path string) (*dictionary.Dictionary, error) {
	if path == "" {
		return dictionary.Default()
	}
	return dictionary.Load(path)
}

func loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return lexicon.Default()
	}
	return lexicon.Load(path)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (e *Engine) restore(st store.Store) {
	ctx := context.Background()
	e.freq.Restore(st.LoadFrequencies(ctx))
	state := st.LoadModels(ctx)
	e.ngrams.Restore(state.Bigrams, state.Trigrams)
	e.index.Restore(state.Sentences)
}

func (e *Engine) modelState() store.ModelState {
	return store.ModelState{
		Bigrams:   e.ngrams.Bigrams(),
		Trigrams:  e.ngrams.Trigrams(),
		Sentences: e.index.Sentences(),
	}
}

// WordSuggestions returns ranked replacements for the word under the cursor:
// spelling corrections, then the user's frequent words, then synonyms.
// The typed word itself is never suggested.
func (e *Engine) WordSuggestions(line string, column int) (out []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recoverEmpty("word suggestions", &out)

	span, ok := textseg.LocateWord(line, column)
	if !ok || !utils.IsValidInput(span.Text) {
		e.words = nil
		e.updateState()
		return nil
	}

	ranked := candidate.Merge(span.Text, e.wordLimit, e.speller.Ranked(span.Text))
	out = candidate.Texts(ranked)
	if e.matchCase {
		_, info := utils.ProcessCapitals(span.Text)
		for i, w := range out {
			out[i] = utils.ApplyCapitals(w, info)
		}
	}

	e.words = out
	e.updateState()
	return out
}

// SentenceSuggestions returns n-gram continuations of the words typed so far
// in the current sentence, trigram before bigram, followed by the most similar
// earlier sentences.
func (e *Engine) SentenceSuggestions(line string, column int) (out []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recoverEmpty("sentence suggestions", &out)

	span, ok := textseg.LocateSentence(line, column)
	if !ok {
		e.sentences = nil
		e.updateState()
		return nil
	}

	typed := textseg.Tokenize(sliceRunes(line, span.Start, column))
	merged := candidate.Merge(span.Text, e.sentenceLimit,
		e.ngrams.Continuations(typed),
		e.index.Candidates(span.Text, e.sentenceLimit),
	)

	e.sentences = merged
	e.updateState()
	return candidate.Texts(merged)
}

// CommitWord counts a finished word. The frequency model persists itself
// through the saver hook.
func (e *Engine) CommitWord(word string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commitWord(word)
}

func (e *Engine) commitWord(word string) {
	e.freq.CommitWord(word)
}

// CommitTextChange observes the full text in the n-gram model, adds its
// sentences to the similarity corpus and persists both.
func (e *Engine) CommitTextChange(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ngrams.Observe(text)
	e.index.AddSentences(textseg.SplitSentences(text))
	if e.saver != nil {
		e.saver.SaveModels()
	}
}

// ApplyWordSuggestion replaces the word under the cursor with chosen and
// returns the new line and the span chosen now occupies.
func (e *Engine) ApplyWordSuggestion(line string, column int, chosen string) (string, textseg.Span, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	span, ok := textseg.LocateWord(line, column)
	if !ok {
		return line, textseg.Span{}, ErrNoSpan
	}
	newLine, replaced := textseg.Replace(line, span, chosen)
	e.reset()
	return newLine, replaced, nil
}

// ApplySentenceSuggestion inserts chosen into the sentence under the cursor.
// A continuation offered by the n-gram model is appended to the sentence;
// any other choice replaces it.
func (e *Engine) ApplySentenceSuggestion(line string, column int, chosen string) (string, textseg.Span, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	span, ok := textseg.LocateSentence(line, column)
	if !ok {
		return line, textseg.Span{}, ErrNoSpan
	}

	replacement := chosen
	if e.isContinuation(chosen) {
		replacement = span.Text + " " + chosen
	}
	newLine, replaced := textseg.Replace(line, span, replacement)
	e.reset()
	return newLine, replaced, nil
}

func (e *Engine) isContinuation(text string) bool {
	for _, c := range e.sentences {
		if c.Source == candidate.Ngram && c.Text == text {
			return true
		}
	}
	return false
}

// KeyPress reacts to one typed rune. A letter refreshes both suggestion
// lists. A space commits the word that ends right before it.
func (e *Engine) KeyPress(r rune, line string, column int) KeyResult {
	switch {
	case unicode.IsLetter(r):
		words := e.WordSuggestions(line, column)
		sentences := e.SentenceSuggestions(line, column)
		return KeyResult{Words: words, Sentences: sentences, State: e.State()}
	case r == ' ':
		e.mu.Lock()
		defer e.mu.Unlock()
		var committed string
		if span, ok := textseg.WordBefore(line, column-1); ok {
			// numbers and "zzzz" runs are typed, not vocabulary
			if !utils.IsValidInput(span.Text) {
				log.Debugf("Skipping commit of %q", span.Text)
				return KeyResult{State: e.state}
			}
			e.commitWord(span.Text)
			committed = span.Text
		}
		return KeyResult{Committed: committed, State: e.state}
	default:
		return KeyResult{State: e.State()}
	}
}

// Misspelled returns every word of text that is not in the dictionary, in
// order, with rune offsets into text. Tokens holding a digit are skipped.
// The panel state is left alone: this is a whole-document check, not a
// suggestion request.
func (e *Engine) Misspelled(text string) (out []textseg.Span) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered from panic in spell check: %v", r)
			out = nil
		}
	}()

	for _, span := range textseg.Words(text) {
		if hasDigit(span.Text) || e.dict.Contains(span.Text) {
			continue
		}
		out = append(out, span)
	}
	return out
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// State reports the current panel state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetLimits changes the display limits and case matching at runtime.
func (e *Engine) SetLimits(wordLimit, sentenceLimit int, matchCase bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wordLimit = orDefault(wordLimit, DefaultWordLimit)
	e.sentenceLimit = orDefault(sentenceLimit, DefaultSentenceLimit)
	e.matchCase = matchCase
}

// Stats returns model sizes.
func (e *Engine) Stats() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	bigrams, trigrams := e.ngrams.Len()
	stats := map[string]int{
		"dictionaryWords": e.dict.Len(),
		"frequencyWords":  e.freq.Len(),
		"bigramContexts":  bigrams,
		"trigramContexts": trigrams,
		"sentences":       e.index.Len(),
		"synonymGroups":   0,
		"wordLimit":       e.wordLimit,
		"sentenceLimit":   e.sentenceLimit,
	}
	if e.lex != nil {
		stats["synonymGroups"] = e.lex.Len()
	}
	return stats
}

// Close flushes pending saves and closes the store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.saver == nil {
		return nil
	}
	return e.saver.Close()
}

func (e *Engine) reset() {
	e.words = nil
	e.sentences = nil
	e.state = Idle
}

func (e *Engine) updateState() {
	if len(e.words) > 0 || len(e.sentences) > 0 {
		e.state = Showing
		return
	}
	e.state = Idle
}

// recoverEmpty turns a panic in a suggestion path into an empty result.
func (e *Engine) recoverEmpty(op string, out *[]string) {
	if r := recover(); r != nil {
		log.Errorf("Recovered from panic in %s: %v", op, r)
		*out = nil
		e.reset()
	}
}

func sliceRunes(s string, start, end int) string {
	runes := []rune(s)
	if end > len(runes) {
		end = len(runes)
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
