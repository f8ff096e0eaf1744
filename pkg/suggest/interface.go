// Package suggest is the core, wiring the word and sentence sources into the
// host-facing calls made on every keystroke and every text change.
package suggest

import "github.com/bastiangx/wordassist/pkg/textseg"

// IEngine is the host API of a suggestion engine.
type IEngine interface {
	// WordSuggestions returns up to the word limit candidates for the word under the cursor.
	WordSuggestions(line string, column int) []string

	// SentenceSuggestions returns up to the sentence limit continuations or similar sentences.
	SentenceSuggestions(line string, column int) []string

	// CommitWord counts a finished word.
	CommitWord(word string)

	// CommitTextChange feeds the full document text to the sentence models.
	CommitTextChange(text string)

	// ApplyWordSuggestion replaces the word under the cursor with chosen.
	ApplyWordSuggestion(line string, column int, chosen string) (string, textseg.Span, error)

	// ApplySentenceSuggestion extends or replaces the sentence under the cursor.
	ApplySentenceSuggestion(line string, column int, chosen string) (string, textseg.Span, error)

	// Misspelled returns the spans of every word of text missing from the dictionary.
	Misspelled(text string) []textseg.Span

	// KeyPress handles one typed rune; line and column reflect the text after it.
	KeyPress(r rune, line string, column int) KeyResult

	// State reports whether suggestions are currently showing.
	State() State

	// Stats returns counters about the loaded models.
	Stats() map[string]int
}
