package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"country-editor/internal/model"

	_ "modernc.org/sqlite"
)

const nameCacheFileName = "names.sqlite"

// NameCache keeps country name lookups between runs.
type NameCache struct {
	db  *sql.DB
	now func() time.Time
}

func (s Store) nameCachePath() string { return s.path(nameCacheFileName) }

// OpenNameCache opens (creating if needed) the cache db inside the store dir.
func (s Store) OpenNameCache(ctx context.Context) (*NameCache, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.nameCachePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS country_names (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &NameCache{db: db, now: time.Now}, nil
}

func (c *NameCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached answer for code.
func (c *NameCache) Get(ctx context.Context, code string) (string, bool, error) {
	var name string
	err := c.db.QueryRowContext(ctx, `SELECT name FROM country_names WHERE code = ?`, code).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (c *NameCache) Put(ctx context.Context, code, name string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO country_names(code, name, updated_at_unixms) VALUES(?, ?, ?)`,
		code, name, c.now().UnixMilli())
	return err
}

func (c *NameCache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM country_names`).Scan(&n)
	return n, err
}

func (c *NameCache) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM country_names`)
	return err
}

type nameResolver interface {
	CountryName(ctx context.Context, code string) (string, error)
}

// CachedResolver answers from the cache and falls through to Next on a miss.
// Cache failures never fail a lookup. "N/A" answers are not cached so a code
// the service learns later resolves on the next run.
type CachedResolver struct {
	Cache *NameCache
	Next  nameResolver
}

func (r CachedResolver) CountryName(ctx context.Context, code string) (string, error) {
	if name, ok, err := r.Cache.Get(ctx, code); err == nil && ok {
		return name, nil
	}
	name, err := r.Next.CountryName(ctx, code)
	if err != nil {
		return "", err
	}
	if n := strings.TrimSpace(name); n != "" && n != model.NotAvailable {
		_ = r.Cache.Put(ctx, code, name)
	}
	return name, nil
}
