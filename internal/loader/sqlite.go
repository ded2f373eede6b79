package loader

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kotoba/internal/vocab"
)

// Store is a SQLite-backed vocabulary store. Large text vector files are
// parsed once via Save and reloaded quickly afterwards. Word order is
// preserved across the round trip, since the table's tie-break order is
// its insertion order.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates a vocabulary database at dbPath and
// initializes the schema. Parent directories are created if needed.
func OpenStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word TEXT NOT NULL UNIQUE,
		embedding BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Save replaces the store contents with the given table.
func (s *Store) Save(table *vocab.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM words"); err != nil {
		return fmt.Errorf("clear words: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO meta (key, value) VALUES ('dimensions', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		table.Dimensions(),
	); err != nil {
		return fmt.Errorf("save dimensions: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO words (word, embedding) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range table.Keys() {
		vec, err := table.Get(key)
		if err != nil {
			return fmt.Errorf("read %q: %w", key, err)
		}
		if _, err := stmt.Exec(key, float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("insert %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load rebuilds a table from the store. Rows come back in id order, so
// insertion order survives the round trip.
func (s *Store) Load() (*vocab.Table, error) {
	var dims int
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'dimensions'").Scan(&dims)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store holds no vocabulary")
	}
	if err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}

	rows, err := s.db.Query("SELECT word, embedding FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var keys []string
	var vectors [][]float32
	for rows.Next() {
		var word string
		var blob []byte
		if err := rows.Scan(&word, &blob); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		vec := bytesToFloat32Slice(blob)
		if len(vec) != dims {
			return nil, fmt.Errorf("word %q: blob holds %d dimensions, expected %d: %w",
				word, len(vec), dims, vocab.ErrDimensionMismatch)
		}
		keys = append(keys, word)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return vocab.New(keys, vectors)
}

// Count returns the number of stored words.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM words").Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
