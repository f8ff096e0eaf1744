package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bastiangx/wordassist/pkg/ngram"
	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps both models in one SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path with WAL enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL on %s: %w", path, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema in %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS word_frequency (
	word TEXT PRIMARY KEY,
	count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bigrams (
	w1 TEXT NOT NULL,
	next TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(w1, next)
);

CREATE TABLE IF NOT EXISTS trigrams (
	ctx TEXT NOT NULL,
	next TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(ctx, next)
);

CREATE TABLE IF NOT EXISTS sentences (
	seq INTEGER PRIMARY KEY,
	text TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadFrequencies implements Store.
func (s *SQLiteStore) LoadFrequencies(ctx context.Context) map[string]int {
	counts := make(map[string]int)
	rows, err := s.db.QueryContext(ctx, "SELECT word, count FROM word_frequency")
	if err != nil {
		log.Warnf("Cannot load word frequencies, starting empty: %v", err)
		return counts
	}
	defer rows.Close()

	for rows.Next() {
		var word string
		var count int
		if err := rows.Scan(&word, &count); err != nil {
			log.Warnf("Corrupt word frequency row, starting empty: %v", err)
			return make(map[string]int)
		}
		counts[word] = count
	}
	if err := rows.Err(); err != nil {
		log.Warnf("Cannot load word frequencies, starting empty: %v", err)
		return make(map[string]int)
	}
	return counts
}

// SaveFrequencies implements Store.
func (s *SQLiteStore) SaveFrequencies(ctx context.Context, counts map[string]int) error {
	return s.replace(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM word_frequency"); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO word_frequency(word, count) VALUES (?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for word, count := range counts {
			if _, err := stmt.ExecContext(ctx, word, count); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadModels implements Store.
func (s *SQLiteStore) LoadModels(ctx context.Context) ModelState {
	state := EmptyModelState()
	var err error
	if state.Bigrams, err = s.loadTable(ctx, "SELECT w1, next, count FROM bigrams"); err != nil {
		log.Warnf("Cannot load bigrams, starting empty: %v", err)
		return EmptyModelState()
	}
	if state.Trigrams, err = s.loadTable(ctx, "SELECT ctx, next, count FROM trigrams"); err != nil {
		log.Warnf("Cannot load trigrams, starting empty: %v", err)
		return EmptyModelState()
	}
	if state.Sentences, err = s.loadSentences(ctx); err != nil {
		log.Warnf("Cannot load sentences, starting empty: %v", err)
		return EmptyModelState()
	}
	return state
}

// SaveModels implements Store.
func (s *SQLiteStore) SaveModels(ctx context.Context, state ModelState) error {
	return s.replace(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"bigrams", "trigrams", "sentences"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		if err := saveTable(ctx, tx, "INSERT INTO bigrams(w1, next, count) VALUES (?, ?, ?)", state.Bigrams); err != nil {
			return err
		}
		if err := saveTable(ctx, tx, "INSERT INTO trigrams(ctx, next, count) VALUES (?, ?, ?)", state.Trigrams); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO sentences(seq, text) VALUES (?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, text := range state.Sentences {
			if _, err := stmt.ExecContext(ctx, i, text); err != nil {
				return err
			}
		}
		return nil
	})
}

// replace runs fn in a transaction, rolling back on error.
func (s *SQLiteStore) replace(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func saveTable(ctx context.Context, tx *sql.Tx, query string, table ngram.Table) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for key, row := range table {
		for next, count := range row {
			if _, err := stmt.ExecContext(ctx, key, next, count); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SQLiteStore) loadTable(ctx context.Context, query string) (ngram.Table, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(ngram.Table)
	for rows.Next() {
		var key, next string
		var count int
		if err := rows.Scan(&key, &next, &count); err != nil {
			return nil, err
		}
		table.Ensure(key)[next] = count
	}
	return table, rows.Err()
}

func (s *SQLiteStore) loadSentences(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT text FROM sentences ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sentences := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		sentences = append(sentences, text)
	}
	return sentences, rows.Err()
}
