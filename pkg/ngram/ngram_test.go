package ngram

import (
	"reflect"
	"testing"
)

func TestPredictBigramOrder(t *testing.T) {
	m := New()
	m.Restore(Table{"the": {"cat": 5, "dog": 2}}, nil)

	got := m.Predict([]string{"the"})
	if !reflect.DeepEqual(got, []string{"cat", "dog"}) {
		t.Errorf("Predict([the]) = %v, expected [cat dog]", got)
	}
}

func TestObserveAndPredict(t *testing.T) {
	m := New()
	m.Observe("The cat sat. The cat ran.")

	if got := m.Bigrams()["the"]["cat"]; got != 2 {
		t.Errorf("bigram the->cat = %d, expected 2", got)
	}
	if got := m.Trigrams()["the cat"]; !reflect.DeepEqual(got, map[string]int{"sat": 1, "ran": 1}) {
		t.Errorf("trigram row 'the cat' = %v", got)
	}

	testCases := []struct {
		words       []string
		expected    []string
		description string
	}{
		{[]string{"the", "cat"}, []string{"ran", "sat"}, "trigram first, bigram duplicates dropped"},
		{[]string{"The", "Cat"}, []string{"ran", "sat"}, "context is lowercased"},
		{[]string{"sat"}, []string{"the"}, "single word uses bigrams"},
		{[]string{"a", "sat"}, []string{"the"}, "unknown trigram falls back to bigrams"},
		{[]string{"zebra"}, nil, "unknown word"},
		{nil, nil, "no words"},
	}

	for _, tc := range testCases {
		got := m.Predict(tc.words)
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("Predict(%v) = %v, expected %v (%s)", tc.words, got, tc.expected, tc.description)
		}
	}
}

func TestPredictCapsEachTable(t *testing.T) {
	m := New()
	m.Restore(
		Table{"b": {"v": 9, "w": 8, "x": 7, "y": 6, "z": 5}},
		Table{"a b": {"p": 1, "q": 1, "r": 1, "s": 1}},
	)
	got := m.Predict([]string{"a", "b"})
	expected := []string{"p", "q", "r", "v", "w", "x"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Predict = %v, expected %v", got, expected)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	m := New()
	m.Observe("one two three")
	snap := m.Bigrams()
	snap["one"]["two"] = 100
	if m.Bigrams()["one"]["two"] != 1 {
		t.Error("mutating a snapshot changed the model")
	}
}

func TestRestoreDropsInvalid(t *testing.T) {
	m := New()
	m.Restore(Table{"a": {"b": 0, "c": -2, "": 4, "d": 3}}, Table{"x y": {}})
	if got := m.Bigrams(); !reflect.DeepEqual(got, Table{"a": {"d": 3}}) {
		t.Errorf("restored bigrams = %v", got)
	}
	if got := m.Trigrams(); len(got) != 0 {
		t.Errorf("empty rows should be dropped, got %v", got)
	}
}

func TestEnsure(t *testing.T) {
	tbl := make(Table)
	row := tbl.Ensure("k")
	row["v"]++
	if tbl["k"]["v"] != 1 {
		t.Errorf("ensure did not insert row: %v", tbl)
	}
	if got := tbl.Ensure("k"); got["v"] != 1 {
		t.Error("ensure replaced an existing row")
	}
}

func TestLen(t *testing.T) {
	m := New()
	if bi, tri := m.Len(); bi != 0 || tri != 0 {
		t.Errorf("empty model Len = %d, %d", bi, tri)
	}
	m.Observe("The cat sat. The cat ran.")
	// the->cat, cat->sat, sat->the, cat->ran; "the" and "cat" rows are shared
	bi, tri := m.Len()
	if bi != len(m.Bigrams()) || tri != len(m.Trigrams()) {
		t.Errorf("Len = %d, %d, expected %d, %d", bi, tri, len(m.Bigrams()), len(m.Trigrams()))
	}
	if bi != 3 || tri != 3 {
		t.Errorf("Len = %d, %d, expected 3 bigram and 3 trigram contexts", bi, tri)
	}
}
