package suggest

import "errors"

var (
	// ErrDictionaryUnavailable wraps a failure to load the spelling dictionary.
	ErrDictionaryUnavailable = errors.New("dictionary unavailable")
	// ErrLexiconUnavailable wraps a failure to load the synonym lexicon.
	ErrLexiconUnavailable = errors.New("lexicon unavailable")
	// ErrNoSpan is returned when no word or sentence sits under the cursor.
	ErrNoSpan = errors.New("no text at cursor")
)
