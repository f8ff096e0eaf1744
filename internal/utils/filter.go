package utils

import (
	"unicode"
)

// IsSeparator checks if a rune may appear inside a word without making it special.
// Apostrophes keep contractions like "don't" valid.
func IsSeparator(r rune) bool {
	return r == '\'' || r == '’' || r == '_' || r == '-'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains special characters
// (non-alphanumeric characters excluding common separators)
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if a word should be sent to the word sources.
// Returns false for strings that are only numbers, contain special characters, or are repetitive
func IsValidInput(s string) bool {
	// Reject empty strings
	if len(s) == 0 {
		return false
	}

	// Reject strings that are only numbers
	if IsOnlyNumbers(s) {
		return false
	}

	// Reject strings that contain special characters (except separators)
	if ContainsSpecialChars(s) {
		return false
	}

	// Reject repetitive strings like "dddd", "www", etc.
	if IsRepetitive(s) {
		return false
	}

	return true
}

// IsRepetitive checks if a string consists of repetitive characters
// Simple version that checks for repeated characters (e.g., "aaa", "bbb")
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}

	// Check for simple repetition (same character repeated 3+ times)
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}
