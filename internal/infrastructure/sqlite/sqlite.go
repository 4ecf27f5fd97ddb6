package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/book/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS authors (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS books (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    description   TEXT,
    category      TEXT,
    publisher     TEXT,
    price         TEXT,
    publish_month TEXT,
    publish_year  INTEGER,
    author_id     TEXT NOT NULL REFERENCES authors (id),
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_books_author_id ON books (author_id);
`

// DB is a file-backed catalog used by the offline import command
type DB struct {
	db *sql.DB
}

var _ repository.ImportStoreFactory = (*DB)(nil)

// Open opens (or creates) the database at path and applies the schema
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer keeps author inserts and the book transaction from locking each other
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	log.Info().Str("path", path).Msg("[SQLITE] Opened catalog")
	return &DB{db: db}, nil
}

func (d *DB) NewImportStore() repository.ImportStore {
	return &importStore{db: d.db}
}

// Stats returns the number of stored authors and books
func (d *DB) Stats(ctx context.Context) (authors, books int, err error) {
	err = d.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM authors), (SELECT COUNT(*) FROM books)`,
	).Scan(&authors, &books)
	if err != nil {
		return 0, 0, fmt.Errorf("count catalog: %w", err)
	}
	return authors, books, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}
