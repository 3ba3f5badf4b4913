// Package cache provides oid caching to speed up working directory
// diffs.
package cache

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"diffkit/diff"
)

// OidCache caches content oids keyed by (path, size, mtime). This
// avoids rehashing unchanged files on repeated diffs.
type OidCache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS oid_cache (
	path TEXT PRIMARY KEY,
	size INTEGER NOT NULL,
	mtime INTEGER NOT NULL,
	oid TEXT NOT NULL
);
`

// Open opens or creates an oid cache in the given directory. The
// cache database is stored at {baseDir}/.diffkit/cache/oids.db
func Open(baseDir string) (*OidCache, error) {
	cacheDir := filepath.Join(baseDir, ".diffkit", "cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(cacheDir, "oids.db"))
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &OidCache{db: db}, nil
}

// Close closes the cache database.
func (c *OidCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetOrCompute returns the oid for a file, using the cached value if
// still valid. If the entry is stale (size/mtime changed) the oid is
// recomputed and the entry updated.
func (c *OidCache) GetOrCompute(path string, info os.FileInfo, compute func() (diff.Oid, error)) (diff.Oid, error) {
	size := info.Size()
	mtime := info.ModTime().UnixNano()

	var cachedSize, cachedMtime int64
	var cachedOid string
	err := c.db.QueryRow(
		"SELECT size, mtime, oid FROM oid_cache WHERE path = ?",
		path,
	).Scan(&cachedSize, &cachedMtime, &cachedOid)

	if err == nil && cachedSize == size && cachedMtime == mtime {
		return diff.Oid(cachedOid), nil
	}

	oid, err := compute()
	if err != nil {
		return "", err
	}

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO oid_cache (path, size, mtime, oid) VALUES (?, ?, ?, ?)",
		path, size, mtime, string(oid),
	)
	if err != nil {
		return "", err
	}

	return oid, nil
}
