package utils

import (
	"strings"
	"unicode"
)

// CapitalInfo records the capitalization of a typed word.
type CapitalInfo struct {
	positions []int
	allUpper  bool
}

// ProcessCapitals returns the lowercase form of s and its capitalization,
// or nil info when s has no upper case letters.
func ProcessCapitals(s string) (string, *CapitalInfo) {
	info := &CapitalInfo{allUpper: true}
	letters := 0
	for i, r := range []rune(s) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			info.positions = append(info.positions, i)
		} else {
			info.allUpper = false
		}
	}
	if len(info.positions) == 0 {
		return strings.ToLower(s), nil
	}
	// a single capital letter is a capitalized word, not shouting
	info.allUpper = info.allUpper && letters > 1
	return strings.ToLower(s), info
}

// ApplyCapitals copies the capitalization in info onto word.
// All-caps input upper-cases the whole word; otherwise capitals are
// applied at the same rune positions where they exist in word.
func ApplyCapitals(word string, info *CapitalInfo) string {
	if info == nil {
		return word
	}
	if info.allUpper {
		return strings.ToUpper(word)
	}
	runes := []rune(word)
	for _, pos := range info.positions {
		if pos < len(runes) {
			runes[pos] = unicode.ToUpper(runes[pos])
		}
	}
	return string(runes)
}
