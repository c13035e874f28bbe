package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

var _ Cache[[]byte] = (*SQLiteCache)(nil)

// SQLiteCache persists raw response bodies in a single-table SQLite file so
// reads survive process restarts. Storage errors are logged and treated as
// misses; the cache never fails a caller.
type SQLiteCache struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the cache file at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLiteCache{db: db, logger: logger}, nil
}

func (c *SQLiteCache) Get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Cache read failed", "cache_key", key, "error", err)
		return nil, false
	}
	return value, true
}

func (c *SQLiteCache) Set(key string, data []byte) {
	_, err := c.db.Exec(`
		INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		c.logger.Warn("Cache write failed", "cache_key", key, "error", err)
	}
}

func (c *SQLiteCache) Delete(key string) {
	if _, err := c.db.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
		c.logger.Warn("Cache delete failed", "cache_key", key, "error", err)
	}
}

func (c *SQLiteCache) DeletePrefix(prefix string) int {
	res, err := c.db.Exec(`DELETE FROM entries WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		c.logger.Warn("Cache delete failed", "cache_key", prefix+"*", "error", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}

func (c *SQLiteCache) Size() int {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		c.logger.Warn("Cache size failed", "error", err)
		return 0
	}
	return n
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
