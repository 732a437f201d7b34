package card

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteCache is a local card cache backed by SQLite. Definitions are
// stored as JSON blobs keyed by card name, so the cache survives schema
// drift in the definition struct. Intended for single-process use while
// assembling the catalog before games start.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (and if needed initializes) a cache database at
// the given path. Use ":memory:" for a throwaway cache.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open card cache: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cards (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init card cache schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the cached definition for an exact name.
func (c *SQLiteCache) Get(name string) (*Definition, bool) {
	var data string
	err := c.db.QueryRow(`SELECT data FROM cards WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	var def Definition
	if err := json.Unmarshal([]byte(data), &def); err != nil {
		return nil, false
	}
	return &def, true
}

// Put inserts or replaces a cached definition.
func (c *SQLiteCache) Put(def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("cannot cache a definition without a name")
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode definition %q: %w", def.Name, err)
	}
	if _, err := c.db.Exec(
		`INSERT INTO cards (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		def.Name, string(data),
	); err != nil {
		return fmt.Errorf("cache definition %q: %w", def.Name, err)
	}
	return nil
}

// Count returns the number of cached definitions.
func (c *SQLiteCache) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached cards: %w", err)
	}
	return n, nil
}
