package textseg

import (
	"reflect"
	"testing"
)

func TestLocateWord(t *testing.T) {
	testCases := []struct {
		line        string
		column      int
		expected    Span
		found       bool
		description string
	}{
		{"the qiuck fox", 6, Span{4, 9, "qiuck"}, true, "cursor inside word"},
		{"the qiuck fox", 4, Span{4, 9, "qiuck"}, true, "cursor at word start"},
		{"the qiuck fox", 9, Span{4, 9, "qiuck"}, true, "cursor right after word"},
		{"the qiuck fox", 3, Span{0, 3, "the"}, true, "boundary picks the first span"},
		{"cat.", 3, Span{0, 3, "cat"}, true, "punctuation is not part of the word"},
		{"don't stop", 2, Span{0, 5, "don't"}, true, "contraction stays whole"},
		{"naïve café", 7, Span{6, 10, "café"}, true, "rune offsets, not bytes"},
		{"", 0, Span{}, false, "empty line"},
		{"   ", 1, Span{}, false, "whitespace only"},
		{"abc", 10, Span{}, false, "column past end"},
		{"abc", -1, Span{}, false, "negative column"},
		{"The cat ", 8, Span{}, false, "cursor after trailing space"},
	}

	for _, tc := range testCases {
		got, ok := LocateWord(tc.line, tc.column)
		if ok != tc.found || got != tc.expected {
			t.Errorf("LocateWord(%q, %d) = %+v, %v; expected %+v, %v (%s)",
				tc.line, tc.column, got, ok, tc.expected, tc.found, tc.description)
		}
	}
}

func TestLocateSentence(t *testing.T) {
	line := "The cat sat. The cat ran."

	testCases := []struct {
		line        string
		column      int
		expected    Span
		found       bool
		description string
	}{
		{line, 4, Span{0, 12, "The cat sat."}, true, "first sentence"},
		{line, 12, Span{0, 12, "The cat sat."}, true, "end of first sentence"},
		{line, 15, Span{13, 25, "The cat ran."}, true, "second sentence"},
		{"The cat ", 8, Span{0, 7, "The cat"}, true, "trailing whitespace still belongs to the sentence"},
		{"", 0, Span{}, false, "empty line"},
		{"Hi.", 9, Span{}, false, "column past end"},
	}

	for _, tc := range testCases {
		got, ok := LocateSentence(tc.line, tc.column)
		if ok != tc.found || got != tc.expected {
			t.Errorf("LocateSentence(%q, %d) = %+v, %v; expected %+v, %v (%s)",
				tc.line, tc.column, got, ok, tc.expected, tc.found, tc.description)
		}
	}
}

func TestWordBefore(t *testing.T) {
	span, ok := WordBefore("hello world ", 11)
	if !ok || span.Text != "world" {
		t.Fatalf("WordBefore = %+v, %v; expected world", span, ok)
	}
	if _, ok := WordBefore("hello world ", 12); ok {
		t.Error("expected no word ending at column 12")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The cat sat. The cat ran.")
	expected := []string{"the", "cat", "sat", "the", "cat", "ran"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Tokenize = %v, expected %v", got, expected)
	}

	if got := Tokenize("  ...  "); len(got) != 0 {
		t.Errorf("Tokenize of punctuation = %v, expected empty", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("The cat sat. The cat ran.\nA dog barked!")
	expected := []string{"The cat sat.", "The cat ran.", "A dog barked!"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("SplitSentences = %q, expected %q", got, expected)
	}
}

func TestReplace(t *testing.T) {
	line, span := Replace("the qiuck fox", Span{Start: 4, End: 9}, "quick")
	if line != "the quick fox" {
		t.Errorf("Replace line = %q", line)
	}
	if span != (Span{4, 9, "quick"}) {
		t.Errorf("Replace span = %+v", span)
	}

	line, span = Replace("café au lait", Span{Start: 0, End: 4}, "tea")
	if line != "tea au lait" || span.End != 3 {
		t.Errorf("Replace multibyte = %q %+v", line, span)
	}
}
