package imagesize

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultDatabase is the cache file name used when none is configured.
const DefaultDatabase = "dimensions.db"

// Cache is a persistent dimension cache in front of a Prober. It is safe for
// concurrent use and for use by several processes sharing the database.
type Cache struct {
	db     *sql.DB
	path   string
	prober Prober
	group  singleflight.Group
}

// Open opens or creates the cache database at path. A nil prober uses a
// Decoder.
func Open(path string, prober Prober) (*Cache, error) {
	if prober == nil {
		prober = &Decoder{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS image_cache (
			path TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating image_cache table: %w", err)
	}

	return &Cache{db: db, path: path, prober: prober}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the size of the image at src, probing and storing it on a
// cache miss. Probe failures are not cached.
func (c *Cache) Lookup(ctx context.Context, src string) (Size, error) {
	if size, ok, err := c.get(ctx, src); err != nil || ok {
		return size, err
	}

	v, err, _ := c.group.Do(src, func() (any, error) {
		if size, ok, err := c.get(ctx, src); err != nil || ok {
			return size, err
		}
		size, err := c.prober.Probe(ctx, src)
		if err != nil {
			return Size{}, err
		}
		return size, c.put(ctx, src, size)
	})
	if err != nil {
		return Size{}, err
	}
	return v.(Size), nil
}

func (c *Cache) get(ctx context.Context, src string) (Size, bool, error) {
	var size Size
	err := c.db.QueryRowContext(ctx,
		`SELECT width, height FROM image_cache WHERE path = ?`, src,
	).Scan(&size.Width, &size.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return Size{}, false, nil
	}
	if err != nil {
		return Size{}, false, fmt.Errorf("querying image_cache: %w", err)
	}
	return size, true, nil
}

func (c *Cache) put(ctx context.Context, src string, size Size) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO image_cache (path, width, height) VALUES (?, ?, ?)
		ON CONFLICT(path) DO NOTHING
	`, src, size.Width, size.Height)
	if err != nil {
		return fmt.Errorf("saving image size: %w", err)
	}
	return nil
}
