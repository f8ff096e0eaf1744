package editdist

import (
	"testing"

	"github.com/hbollon/go-edlib"
)

func TestDistance(t *testing.T) {
	testCases := []struct {
		a, b        string
		expected    int
		description string
	}{
		{"kitten", "sitting", 3, "classic example"},
		{"", "", 0, "both empty"},
		{"abc", "", 3, "deletions only"},
		{"", "abc", 3, "insertions only"},
		{"flaw", "lawn", 2, "delete and insert"},
		{"teh", "the", 2, "transposition counts as two"},
		{"café", "cafe", 1, "multibyte rune substitution"},
		{"hello", "hello", 0, "identical"},
	}

	for _, tc := range testCases {
		if got := Distance(tc.a, tc.b); got != tc.expected {
			t.Errorf("Distance(%q, %q) = %d, expected %d (%s)", tc.a, tc.b, got, tc.expected, tc.description)
		}
	}
}

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	words := []string{"", "a", "cat", "cart", "scatter", "don't", "naïve", "accommodate", "acommodate"}

	for _, a := range words {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%q, %q) = %d, expected 0", a, a, d)
		}
		for _, b := range words {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance not symmetric for %q / %q", a, b)
			}
		}
	}
}

// go-edlib is used as an independent reference implementation.
func TestDistanceMatchesReference(t *testing.T) {
	pairs := [][2]string{
		{"receive", "recieve"},
		{"definitely", "definately"},
		{"sunday", "saturday"},
		{"intention", "execution"},
		{"gumbo", "gambol"},
		{"a", "b"},
	}

	for _, p := range pairs {
		expected := edlib.LevenshteinDistance(p[0], p[1])
		if got := Distance(p[0], p[1]); got != expected {
			t.Errorf("Distance(%q, %q) = %d, reference says %d", p[0], p[1], got, expected)
		}
	}
}

func TestWithin(t *testing.T) {
	if !Within("cat", "cart", 1) {
		t.Error("expected cat/cart within 1")
	}
	if Within("cat", "category", 2) {
		t.Error("expected cat/category outside 2")
	}
	if !Within("", "ab", 2) {
		t.Error("expected empty/ab within 2")
	}
}
