package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/charmbracelet/log"
)

const (
	// FrequencyFile holds the word -> count object.
	FrequencyFile = "word_frequency.json"
	// ModelFile holds the bigrams, trigrams and sentences object.
	ModelFile = "ml_models.json"
)

// FileStore keeps each model in its own JSON file inside one directory.
type FileStore struct {
	freqPath  string
	modelPath string
}

// NewFileStore uses dir for both files, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileStore{
		freqPath:  filepath.Join(dir, FrequencyFile),
		modelPath: filepath.Join(dir, ModelFile),
	}, nil
}

// LoadFrequencies implements Store.
func (s *FileStore) LoadFrequencies(_ context.Context) map[string]int {
	counts := make(map[string]int)
	if !readJSON(s.freqPath, &counts) {
		return make(map[string]int)
	}
	if counts == nil {
		counts = make(map[string]int)
	}
	return counts
}

// SaveFrequencies implements Store.
func (s *FileStore) SaveFrequencies(_ context.Context, counts map[string]int) error {
	if counts == nil {
		counts = map[string]int{}
	}
	return writeJSON(s.freqPath, counts)
}

// LoadModels implements Store.
func (s *FileStore) LoadModels(_ context.Context) ModelState {
	var state ModelState
	if !readJSON(s.modelPath, &state) {
		return EmptyModelState()
	}
	return state.normalize()
}

// SaveModels implements Store.
func (s *FileStore) SaveModels(_ context.Context, state ModelState) error {
	return writeJSON(s.modelPath, state.normalize())
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

// readJSON decodes path into v. It reports false for a missing or corrupt
// file; the latter is logged.
func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("Cannot read %s, starting empty: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warnf("Corrupt store file %s, starting empty: %v", path, err)
		return false
	}
	return true
}

// writeJSON replaces path atomically via a temp file in the same directory.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
