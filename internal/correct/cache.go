// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package correct

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache is an on-disk store of previously corrected texts, keyed by a
// digest of the original text. It exists to avoid paying the correction
// service again for runs that did not change between conversions.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at path, creating the
// schema if it does not exist.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS corrections (
		key TEXT PRIMARY KEY,
		original TEXT NOT NULL,
		corrected TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached correction for text, if any.
func (c *Cache) Get(text string) (string, bool) {
	var corrected string
	err := c.db.QueryRow(`SELECT corrected FROM corrections WHERE key = ?`, cacheKey(text)).Scan(&corrected)
	if err != nil {
		return "", false
	}
	return corrected, true
}

// Put stores a correction. Cache writes are best effort; a write error is
// swallowed so a broken cache never fails a conversion.
func (c *Cache) Put(original, corrected string) {
	c.db.Exec(
		`INSERT OR REPLACE INTO corrections (key, original, corrected, created_at) VALUES (?, ?, ?, ?)`,
		cacheKey(original), original, corrected, time.Now().UTC().Format(time.RFC3339),
	)
}

// cacheKey is the first 16 hex characters of SHA-256 of the original text.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum)[:16]
}

// CachedClient decorates a Client with the cache: texts with a cached
// correction are answered locally and only the misses go to the service,
// still in a single request per batch. On a service failure the whole
// batch fails, cached hits included, so the per-batch guarantee (all
// original or all corrected) is unchanged.
type CachedClient struct {
	Inner Client
	Cache *Cache
}

// CorrectTexts implements Client.
func (cc *CachedClient) CorrectTexts(ctx context.Context, texts []string) ([]string, error) {
	result := make([]string, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		if corrected, ok := cc.Cache.Get(text); ok {
			result[i] = corrected
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return result, nil
	}

	corrected, err := cc.Inner.CorrectTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(corrected) != len(missTexts) {
		return nil, fmt.Errorf("correction response has %d segments, want %d", len(corrected), len(missTexts))
	}

	for i, idx := range missIdx {
		result[idx] = corrected[i]
		cc.Cache.Put(missTexts[i], corrected[i])
	}
	return result, nil
}
