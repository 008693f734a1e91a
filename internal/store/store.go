// Package store caches rendered extraction output in SQLite.
//
// Entries are keyed by the SHA-256 of the package bytes combined with a
// variant string describing the render options, so a changed file or a
// different output format never hits a stale entry.
//
// Usage:
//
//	cache, err := store.Open("~/.hwpxspec/cache.db", logger)
//	key, err := store.KeyFile("report.hwpx", "json|pretty")
//	if data, ok, err := cache.Get(ctx, key); ok { ... }
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	key        TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Cache is an SQLite-backed extraction cache. It is safe for concurrent use.
type Cache struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the cache database at path. Parent directories are
// created as needed. Use ":memory:" for a throwaway cache.
func Open(path string, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: exec schema: %w", err)
	}

	log.Debug("cache opened", zap.String("path", path))
	return &Cache{db: db, log: log}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached data for key. ok is false on a miss.
func (c *Cache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	err = c.db.QueryRowContext(ctx, `SELECT data FROM extractions WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		c.log.Debug("cache miss", zap.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get: %w", err)
	}
	c.log.Debug("cache hit", zap.String("key", key))
	return data, true, nil
}

// Put stores data under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key, source string, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO extractions (key, source, data, created_at) VALUES (?, ?, ?, ?)`,
		key, source, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: put: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extractions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Purge deletes every entry and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM extractions`)
	if err != nil {
		return 0, fmt.Errorf("store: purge: %w", err)
	}
	return res.RowsAffected()
}

// Key derives a cache key from a content hash and a render variant.
func Key(contentHash, variant string) string {
	sum := sha256.Sum256([]byte(contentHash + "\x00" + variant))
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("store: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// KeyFile is Key(HashFile(path), variant).
func KeyFile(path, variant string) (string, error) {
	hash, err := HashFile(path)
	if err != nil {
		return "", err
	}
	return Key(hash, variant), nil
}
