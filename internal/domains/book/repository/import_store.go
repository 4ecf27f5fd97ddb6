package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	pkgdb "library-catalog/pkg/database"
)

var bookCopyColumns = []string{
	"id", "title", "description", "category", "publisher", "price",
	"publish_month", "publish_year", "author_id", "created_at", "updated_at",
}

type postgresImportStores struct {
	pool *pgxpool.Pool
}

// NewImportStoreFactory returns a factory of Postgres-backed import stores
func NewImportStoreFactory(pool *pgxpool.Pool) ImportStoreFactory {
	return &postgresImportStores{pool: pool}
}

func (f *postgresImportStores) NewImportStore() ImportStore {
	return &postgresImportStore{pool: f.pool}
}

// postgresImportStore writes authors straight to the pool and buffers books
// until Commit copies them in one transaction.
type postgresImportStore struct {
	pool   *pgxpool.Pool
	staged []*model.Book
}

func (s *postgresImportStore) FindAuthorByName(ctx context.Context, name string) (*authorModel.Author, error) {
	var author authorModel.Author
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM authors WHERE name = $1`, name,
	).Scan(&author.ID, &author.Name, &author.CreatedAt, &author.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authorModel.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find author: %w", err)
	}
	return &author, nil
}

func (s *postgresImportStore) InsertAuthor(ctx context.Context, name string) (*authorModel.Author, error) {
	author := authorModel.Author{ID: uuid.New(), Name: name}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO authors (id, name) VALUES ($1, $2) RETURNING created_at, updated_at`,
		author.ID, author.Name,
	).Scan(&author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, authorModel.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}
	return &author, nil
}

func (s *postgresImportStore) InsertBook(_ context.Context, book *model.Book) (*model.Book, error) {
	now := time.Now().UTC()
	staged := *book
	staged.ID = uuid.New()
	staged.CreatedAt = now
	staged.UpdatedAt = now
	s.staged = append(s.staged, &staged)
	return &staged, nil
}

func (s *postgresImportStore) Commit(ctx context.Context) error {
	if len(s.staged) == 0 {
		return nil
	}

	books := s.staged
	copied, err := pkgdb.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) (int64, error) {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"books"}, bookCopyColumns,
			pgx.CopyFromSlice(len(books), func(i int) ([]any, error) {
				b := books[i]
				return []any{
					b.ID, b.Title, b.Description, b.Category, b.Publisher, numericArg(b.Price),
					b.PublishMonth, b.PublishYear, b.AuthorID, b.CreatedAt, b.UpdatedAt,
				}, nil
			}),
		)
		if err != nil {
			return 0, fmt.Errorf("copy books: %w", err)
		}
		if n != int64(len(books)) {
			return 0, fmt.Errorf("copy books: wrote %d of %d rows", n, len(books))
		}
		return n, nil
	})
	if err != nil {
		return err
	}

	log.Debug().Int64("books", copied).Msg("staged books committed")
	s.staged = nil
	return nil
}

func (s *postgresImportStore) FindExistingNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT name FROM authors WHERE name = ANY($1)`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("failed to look up authors: %w", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect author names: %w", err)
	}
	return existing, nil
}

// numericArg converts an optional price to a NUMERIC parameter, NULL when nil
func numericArg(price *decimal.Decimal) pgtype.Numeric {
	if price == nil {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: price.Coefficient(), Exp: price.Exponent(), Valid: true}
}
