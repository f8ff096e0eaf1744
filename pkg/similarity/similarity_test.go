package similarity

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

func TestNearestSelfIsOne(t *testing.T) {
	idx := New(0)
	idx.AddSentence("The quick brown fox jumps over the lazy dog.")

	got := idx.Nearest("The quick brown fox jumps over the lazy dog.", 1)
	if len(got) != 1 {
		t.Fatalf("expected one match, got %v", got)
	}
	if got[0].Sentence != "The quick brown fox jumps over the lazy dog." {
		t.Errorf("unexpected sentence %q", got[0].Sentence)
	}
	if math.Abs(got[0].Score-1) > 1e-9 {
		t.Errorf("self similarity = %v, expected 1.0", got[0].Score)
	}
}

func TestNearestOrdering(t *testing.T) {
	idx := New(0)
	idx.AddSentences([]string{
		"cats like warm milk",
		"dogs chase cats",
		"the stock market fell today",
	})

	testCases := []struct {
		query       string
		k           int
		expected    []string
		description string
	}{
		{"warm milk for cats", 3, []string{"cats like warm milk", "dogs chase cats"}, "shared terms rank higher, unrelated dropped"},
		{"warm milk for cats", 1, []string{"cats like warm milk"}, "k truncates"},
		{"market", 3, []string{"the stock market fell today"}, "single term"},
		{"the and of", 3, nil, "stop words only"},
		{"zebra", 3, nil, "unknown vocabulary"},
		{"", 3, nil, "empty query"},
	}

	for _, tc := range testCases {
		var got []string
		for _, m := range idx.Nearest(tc.query, tc.k) {
			got = append(got, m.Sentence)
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("Nearest(%q, %d) = %v, expected %v (%s)", tc.query, tc.k, got, tc.expected, tc.description)
		}
	}
}

func TestNearestTiesFavourNewer(t *testing.T) {
	idx := New(0)
	idx.AddSentences([]string{"red apple", "red apple"})
	idx.AddSentence("red apple")

	got := idx.Nearest("red apple", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("matches not in descending order: %v", got)
		}
	}
}

func TestEmptyCorpus(t *testing.T) {
	idx := New(0)
	if got := idx.Nearest("anything at all", 3); len(got) != 0 {
		t.Errorf("empty corpus returned %v", got)
	}
	if got := idx.Candidates("anything", 3); len(got) != 0 {
		t.Errorf("empty corpus returned candidates %v", got)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	idx := New(DefaultCapacity)
	for i := 1; i <= DefaultCapacity+1; i++ {
		idx.AddSentence(fmt.Sprintf("sentence number %d", i))
	}

	if idx.Len() != DefaultCapacity {
		t.Fatalf("Len = %d, expected %d", idx.Len(), DefaultCapacity)
	}
	sentences := idx.Sentences()
	if sentences[0] != "sentence number 2" {
		t.Errorf("oldest = %q, expected sentence number 2", sentences[0])
	}
	if sentences[len(sentences)-1] != fmt.Sprintf("sentence number %d", DefaultCapacity+1) {
		t.Errorf("newest = %q", sentences[len(sentences)-1])
	}
}

func TestRestoreKeepsNewest(t *testing.T) {
	idx := New(2)
	idx.Restore([]string{"one fish", "  ", "two fish", "red fish"})

	if got := idx.Sentences(); !reflect.DeepEqual(got, []string{"two fish", "red fish"}) {
		t.Errorf("Sentences = %v", got)
	}
	got := idx.Nearest("red", 3)
	if len(got) != 1 || got[0].Sentence != "red fish" {
		t.Errorf("Nearest after restore = %v", got)
	}
}

func TestSentencesIsCopy(t *testing.T) {
	idx := New(0)
	idx.AddSentence("hello world")
	snap := idx.Sentences()
	snap[0] = "changed"
	if idx.Sentences()[0] != "hello world" {
		t.Error("mutating the snapshot changed the corpus")
	}
}

func TestAnalyze(t *testing.T) {
	testCases := []struct {
		text        string
		expected    []string
		description string
	}{
		{"The Cat sat on a mat", []string{"cat", "sat", "mat"}, "lowercase and stop words"},
		{"x y zz", []string{"zz"}, "single rune tokens dropped"},
		{"snake_case, 42!", []string{"snake_case", "42"}, "underscore and digits are word runes"},
	}
	for _, tc := range testCases {
		if got := analyze(tc.text); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("analyze(%q) = %v, expected %v (%s)", tc.text, got, tc.expected, tc.description)
		}
	}
}
