package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/utils"
	"library-catalog/pkg/cache"
)

const (
	bookCacheTTL     = 5 * time.Minute
	bookCachePattern = "book:*"
	countCacheKey    = "book:count"
)

func bookCacheKey(id uuid.UUID) string {
	return "book:id:" + id.String()
}

// postgresRepository - raw SQL with pgxpool, cache-aside for single reads
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const selectBookWithAuthor = `
	SELECT b.id, b.title, b.description, b.category, b.publisher, b.price,
	       b.publish_month, b.publish_year, b.author_id, b.created_at, b.updated_at,
	       a.name AS author_name
	FROM books b
	JOIN authors a ON a.id = b.author_id
`

// ============================================
// READS
// ============================================

func (r *postgresRepository) ListBooks(ctx context.Context, limit, offset int) ([]model.BookWithAuthor, error) {
	query := selectBookWithAuthor + ` ORDER BY b.title, b.id LIMIT $1 OFFSET $2`
	return r.queryBooks(ctx, query, limit, offset)
}

func (r *postgresRepository) CountBooks(ctx context.Context) (int64, error) {
	var total int64
	if r.cache != nil {
		if found, err := r.cache.Get(ctx, countCacheKey, &total); err == nil && found {
			return total, nil
		}
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}

	r.setCache(ctx, countCacheKey, total)
	return total, nil
}

func (r *postgresRepository) GetBookByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	key := bookCacheKey(id)
	if r.cache != nil {
		var cached model.BookWithAuthor
		if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	book, err := scanBook(r.pool.QueryRow(ctx, selectBookWithAuthor+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	r.setCache(ctx, key, book)
	return book, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.BookWithAuthor, error) {
	query := selectBookWithAuthor + ` WHERE b.author_id = $1 ORDER BY b.title, b.id`
	return r.queryBooks(ctx, query, authorID)
}

func (r *postgresRepository) ListByCategory(ctx context.Context, category string) ([]model.BookWithAuthor, error) {
	query := selectBookWithAuthor + ` WHERE b.category ILIKE $1 ORDER BY b.title, b.id`
	return r.queryBooks(ctx, query, utils.ContainsPattern(category))
}

func (r *postgresRepository) ListAllForExport(ctx context.Context) ([]model.BookWithAuthor, error) {
	return r.queryBooks(ctx, selectBookWithAuthor+` ORDER BY a.name, b.title, b.id`)
}

func (r *postgresRepository) AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, authorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

// ============================================
// WRITES
// ============================================

func (r *postgresRepository) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := `
		INSERT INTO books (
			id, title, description, category, publisher, price,
			publish_month, publish_year, author_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	created := *book
	created.ID = uuid.New()
	err := r.pool.QueryRow(ctx, query,
		created.ID, created.Title, created.Description, created.Category, created.Publisher,
		numericArg(created.Price), created.PublishMonth, created.PublishYear, created.AuthorID,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	r.invalidate(ctx)
	return &created, nil
}

func (r *postgresRepository) UpdateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := `
		UPDATE books
		SET title = $2, description = $3, category = $4, publisher = $5, price = $6,
		    publish_month = $7, publish_year = $8, author_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	updated := *book
	err := r.pool.QueryRow(ctx, query,
		updated.ID, updated.Title, updated.Description, updated.Category, updated.Publisher,
		numericArg(updated.Price), updated.PublishMonth, updated.PublishYear, updated.AuthorID,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	r.invalidate(ctx)
	return &updated, nil
}

func (r *postgresRepository) DeleteBook(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.invalidate(ctx)
	return nil
}

func (r *postgresRepository) InvalidateCache(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.DeletePattern(ctx, bookCachePattern)
}

// ============================================
// HELPER METHODS
// ============================================

func (r *postgresRepository) queryBooks(ctx context.Context, query string, args ...interface{}) ([]model.BookWithAuthor, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books query failed: %w", err)
	}
	defer rows.Close()

	books := make([]model.BookWithAuthor, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book failed: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}

func scanBook(row pgx.Row) (*model.BookWithAuthor, error) {
	var (
		book  model.BookWithAuthor
		price decimal.NullDecimal
	)
	err := row.Scan(
		&book.ID, &book.Title, &book.Description, &book.Category, &book.Publisher, &price,
		&book.PublishMonth, &book.PublishYear, &book.AuthorID, &book.CreatedAt, &book.UpdatedAt,
		&book.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Decimal
		book.Price = &p
	}
	return &book, nil
}

func (r *postgresRepository) setCache(ctx context.Context, key string, value interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, value, bookCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[BookRepo] cache set failed")
	}
}

func (r *postgresRepository) invalidate(ctx context.Context) {
	if err := r.InvalidateCache(ctx); err != nil {
		log.Warn().Err(err).Msg("[BookRepo] cache invalidation failed")
	}
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
