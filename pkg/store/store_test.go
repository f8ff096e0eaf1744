package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/wordassist/pkg/ngram"
)

func sampleState() ModelState {
	return ModelState{
		Bigrams:   ngram.Table{"the": {"cat": 2, "dog": 1}, "cat": {"sat": 1}},
		Trigrams:  ngram.Table{"the cat": {"sat": 1, "ran": 1}},
		Sentences: []string{"The cat sat.", "The cat ran."},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "models"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sqliteStore, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "models.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]Store{"file": fileStore, "sqlite": sqliteStore}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		counts := map[string]int{"cat": 3, "the": 7}
		if err := st.SaveFrequencies(ctx, counts); err != nil {
			t.Fatalf("%s: SaveFrequencies: %v", name, err)
		}
		if got := st.LoadFrequencies(ctx); !reflect.DeepEqual(got, counts) {
			t.Errorf("%s: frequencies = %v, expected %v", name, got, counts)
		}

		state := sampleState()
		if err := st.SaveModels(ctx, state); err != nil {
			t.Fatalf("%s: SaveModels: %v", name, err)
		}
		if got := st.LoadModels(ctx); !reflect.DeepEqual(got, state) {
			t.Errorf("%s: models = %+v, expected %+v", name, got, state)
		}

		// a second save replaces rather than merges
		if err := st.SaveFrequencies(ctx, map[string]int{"dog": 1}); err != nil {
			t.Fatal(err)
		}
		if got := st.LoadFrequencies(ctx); !reflect.DeepEqual(got, map[string]int{"dog": 1}) {
			t.Errorf("%s: frequencies after overwrite = %v", name, got)
		}
	}
}

func TestEmptyStoreLoadsDefaults(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		if got := st.LoadFrequencies(ctx); got == nil || len(got) != 0 {
			t.Errorf("%s: frequencies = %v, expected empty map", name, got)
		}
		if got := st.LoadModels(ctx); !reflect.DeepEqual(got, EmptyModelState()) {
			t.Errorf("%s: models = %+v, expected empty state", name, got)
		}
	}
}

func TestCorruptFilesLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FrequencyFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ModelFile), []byte(`{"bigrams": [1, 2]}`), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if got := st.LoadFrequencies(ctx); len(got) != 0 {
		t.Errorf("corrupt frequencies loaded as %v", got)
	}
	if got := st.LoadModels(ctx); !reflect.DeepEqual(got, EmptyModelState()) {
		t.Errorf("corrupt models loaded as %+v", got)
	}
}

func TestPartialModelFileIsNormalized(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ModelFile), []byte(`{"sentences": ["hi there"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := st.LoadModels(context.Background())
	if got.Bigrams == nil || got.Trigrams == nil {
		t.Errorf("missing tables should load as empty maps: %+v", got)
	}
	if !reflect.DeepEqual(got.Sentences, []string{"hi there"}) {
		t.Errorf("sentences = %v", got.Sentences)
	}
}

// countingStore records saves in memory.
type countingStore struct {
	mu         sync.Mutex
	freqSaves  int
	modelSaves int
	lastCounts map[string]int
	closed     bool
}

func (c *countingStore) LoadFrequencies(context.Context) map[string]int { return map[string]int{} }
func (c *countingStore) LoadModels(context.Context) ModelState         { return EmptyModelState() }

func (c *countingStore) SaveFrequencies(_ context.Context, counts map[string]int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freqSaves++
	c.lastCounts = counts
	return nil
}

func (c *countingStore) SaveModels(context.Context, ModelState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modelSaves++
	return nil
}

func (c *countingStore) Close() error {
	c.closed = true
	return nil
}

func TestSaverWriteThrough(t *testing.T) {
	st := &countingStore{}
	counts := map[string]int{"cat": 1}
	s := NewSaver(st, func() map[string]int { return counts }, EmptyModelState, 0)

	s.SaveFrequencies()
	s.SaveFrequencies()
	s.SaveModels()

	if st.freqSaves != 2 || st.modelSaves != 1 {
		t.Errorf("saves = %d/%d, expected 2/1", st.freqSaves, st.modelSaves)
	}
	if !reflect.DeepEqual(st.lastCounts, counts) {
		t.Errorf("saved counts = %v", st.lastCounts)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !st.closed {
		t.Error("Close did not close the store")
	}
	s.SaveModels()
	if st.modelSaves != 1 {
		t.Error("save after Close was written")
	}
}

func TestSaverDebounceCoalesces(t *testing.T) {
	st := &countingStore{}
	s := NewSaver(st, func() map[string]int { return map[string]int{} }, EmptyModelState, time.Hour)

	for i := 0; i < 10; i++ {
		s.SaveFrequencies()
		s.SaveModels()
	}
	st.mu.Lock()
	early := st.freqSaves + st.modelSaves
	st.mu.Unlock()
	if early != 0 {
		t.Errorf("debounced saver wrote %d times before the delay", early)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if st.freqSaves != 1 || st.modelSaves != 1 {
		t.Errorf("saves after Close = %d/%d, expected 1/1", st.freqSaves, st.modelSaves)
	}
}
