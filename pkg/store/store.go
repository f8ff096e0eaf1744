// Package store persists the word-frequency table and the n-gram/sentence
// models between sessions.
//
// Loading never fails: a missing or corrupt store yields empty models and a
// warning. Saving reports errors so the caller can log them, but in-memory
// state stays authoritative and the next successful save reconciles.
package store

import (
	"context"

	"github.com/bastiangx/wordassist/pkg/ngram"
)

// ModelState is the persisted n-gram and sentence state.
type ModelState struct {
	Bigrams   ngram.Table `json:"bigrams"`
	Trigrams  ngram.Table `json:"trigrams"`
	Sentences []string    `json:"sentences"`
}

// EmptyModelState returns a state with non-nil empty tables.
func EmptyModelState() ModelState {
	return ModelState{
		Bigrams:   make(ngram.Table),
		Trigrams:  make(ngram.Table),
		Sentences: []string{},
	}
}

// normalize replaces nil members with empty values.
func (s ModelState) normalize() ModelState {
	if s.Bigrams == nil {
		s.Bigrams = make(ngram.Table)
	}
	if s.Trigrams == nil {
		s.Trigrams = make(ngram.Table)
	}
	if s.Sentences == nil {
		s.Sentences = []string{}
	}
	return s
}

// Store is a durable home for both persisted models.
type Store interface {
	// LoadFrequencies returns the saved word counts, empty when none are readable.
	LoadFrequencies(ctx context.Context) map[string]int
	// SaveFrequencies replaces the saved word counts.
	SaveFrequencies(ctx context.Context, counts map[string]int) error
	// LoadModels returns the saved model state, empty when none is readable.
	LoadModels(ctx context.Context) ModelState
	// SaveModels replaces the saved model state.
	SaveModels(ctx context.Context, state ModelState) error
	// Close releases any held resources.
	Close() error
}
