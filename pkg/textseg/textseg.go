/*
Package textseg finds the word or sentence under a cursor.

Segmentation follows Unicode text segmentation (UAX #29) through rivo/uniseg,
so offsets come straight from the segmenter instead of being re-derived by
searching the line for each token. All columns and spans are rune offsets,
which is what editor hosts report for a cursor position.

	span, ok := textseg.LocateWord("the qiuck fox", 6)
	// span == Span{Start: 4, End: 9, Text: "qiuck"}, ok == true

Nothing here is cached: the line may have changed since the last keystroke.
*/
package textseg

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Span is a half-open [Start, End) rune range within a line and the text it covers.
type Span struct {
	Start int
	End   int
	Text  string
}

// Len returns the span width in runes.
func (s Span) Len() int {
	return s.End - s.Start
}

// segment pairs a span with the last column that still counts as inside it.
type segment struct {
	span  Span
	reach int
}

// Words returns every word span on the line in order.
// A word is a UAX #29 word segment holding at least one letter or digit,
// so punctuation and whitespace runs are skipped while "don't" stays whole.
func Words(line string) []Span {
	segs := wordSegments(line)
	spans := make([]Span, len(segs))
	for i, s := range segs {
		spans[i] = s.span
	}
	return spans
}

// Sentences returns every sentence span on the line, trimmed of surrounding whitespace.
func Sentences(line string) []Span {
	segs := sentenceSegments(line)
	spans := make([]Span, len(segs))
	for i, s := range segs {
		spans[i] = s.span
	}
	return spans
}

// LocateWord returns the first word whose span contains column (start <= column <= end).
func LocateWord(line string, column int) (Span, bool) {
	return locate(wordSegments(line), column)
}

// LocateSentence returns the first sentence containing column.
// A sentence reaches over its trailing whitespace, so a cursor sitting after
// "The cat " still belongs to "The cat".
func LocateSentence(line string, column int) (Span, bool) {
	return locate(sentenceSegments(line), column)
}

// WordBefore returns the word ending exactly at column, if any.
// Used when a space is typed: the word just completed sits right before the cursor.
func WordBefore(line string, column int) (Span, bool) {
	for _, s := range wordSegments(line) {
		if s.span.End == column {
			return s.span, true
		}
	}
	return Span{}, false
}

// Tokenize splits text into lowercase words, dropping punctuation.
func Tokenize(text string) []string {
	segs := wordSegments(text)
	tokens := make([]string, 0, len(segs))
	for _, s := range segs {
		tokens = append(tokens, strings.ToLower(s.span.Text))
	}
	return tokens
}

// SplitSentences returns the trimmed, non-empty sentences of text.
func SplitSentences(text string) []string {
	segs := sentenceSegments(text)
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.span.Text)
	}
	return out
}

// Replace splices replacement into line over span and returns the new line
// with the span the replacement now occupies.
func Replace(line string, span Span, replacement string) (string, Span) {
	runes := []rune(line)
	start := clamp(span.Start, 0, len(runes))
	end := clamp(span.End, start, len(runes))

	var b strings.Builder
	b.Grow(len(line) + len(replacement))
	b.WriteString(string(runes[:start]))
	b.WriteString(replacement)
	b.WriteString(string(runes[end:]))

	return b.String(), Span{
		Start: start,
		End:   start + utf8.RuneCountInString(replacement),
		Text:  replacement,
	}
}

func locate(segs []segment, column int) (Span, bool) {
	if column < 0 {
		return Span{}, false
	}
	for _, s := range segs {
		if s.span.Start <= column && column <= s.reach {
			return s.span, true
		}
	}
	return Span{}, false
}

func wordSegments(line string) []segment {
	var segs []segment
	pos := 0
	state := -1
	rest := line
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		n := utf8.RuneCountInString(word)
		if hasWordRune(word) {
			segs = append(segs, segment{
				span:  Span{Start: pos, End: pos + n, Text: word},
				reach: pos + n,
			})
		}
		pos += n
	}
	return segs
}

func sentenceSegments(line string) []segment {
	var segs []segment
	pos := 0
	state := -1
	rest := line
	var sentence string
	for len(rest) > 0 {
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		n := utf8.RuneCountInString(sentence)

		lead := utf8.RuneCountInString(sentence) - utf8.RuneCountInString(strings.TrimLeftFunc(sentence, unicode.IsSpace))
		trimmed := strings.TrimSpace(sentence)
		if trimmed != "" {
			start := pos + lead
			segs = append(segs, segment{
				span:  Span{Start: start, End: start + utf8.RuneCountInString(trimmed), Text: trimmed},
				reach: pos + n,
			})
		}
		pos += n
	}
	return segs
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
