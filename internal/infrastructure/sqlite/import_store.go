package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
)

// importStore mirrors the Postgres store: authors are written at once,
// books are staged and inserted in a single transaction on Commit.
type importStore struct {
	db     *sql.DB
	staged []*model.Book
}

func (s *importStore) FindAuthorByName(ctx context.Context, name string) (*authorModel.Author, error) {
	var author authorModel.Author
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM authors WHERE name = ?`, name,
	).Scan(&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, authorModel.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}
	return &author, nil
}

func (s *importStore) InsertAuthor(ctx context.Context, name string) (*authorModel.Author, error) {
	now := time.Now().UTC()
	author := authorModel.Author{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO authors (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		author.ID.String(), author.Name, author.CreatedAt, author.UpdatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, authorModel.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}
	return &author, nil
}

func (s *importStore) InsertBook(_ context.Context, book *model.Book) (*model.Book, error) {
	now := time.Now().UTC()
	staged := *book
	staged.ID = uuid.New()
	staged.CreatedAt = now
	staged.UpdatedAt = now
	s.staged = append(s.staged, &staged)
	return &staged, nil
}

func (s *importStore) Commit(ctx context.Context) (err error) {
	if len(s.staged) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, description, category, publisher, price,
		                   publish_month, publish_year, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare book insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range s.staged {
		_, err = stmt.ExecContext(ctx,
			b.ID.String(), b.Title, b.Description, b.Category, b.Publisher, priceArg(b.Price),
			b.PublishMonth, b.PublishYear, b.AuthorID.String(), b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert book %q: %w", b.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.staged = nil
	return nil
}

// lookupChunkSize keeps each IN list under SQLite's bound-variable limit
const lookupChunkSize = 500

func (s *importStore) FindExistingNames(ctx context.Context, names []string) ([]string, error) {
	var existing []string
	for start := 0; start < len(names); start += lookupChunkSize {
		end := min(start+lookupChunkSize, len(names))
		found, err := s.findNames(ctx, names[start:end])
		if err != nil {
			return nil, err
		}
		existing = append(existing, found...)
	}
	return existing, nil
}

func (s *importStore) findNames(ctx context.Context, names []string) ([]string, error) {
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}
	query := `SELECT name FROM authors WHERE name IN (?` + strings.Repeat(",?", len(names)-1) + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up authors: %w", err)
	}
	defer rows.Close()

	var existing []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing = append(existing, name)
	}
	return existing, rows.Err()
}

// priceArg stores prices as exact decimal text
func priceArg(price *decimal.Decimal) any {
	if price == nil {
		return nil
	}
	return price.String()
}
