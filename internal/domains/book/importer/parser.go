package importer

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookModel "library-catalog/internal/domains/book/model"
)

// SkipReason explains why a row produced no candidate.
type SkipReason string

const (
	SkipMissingTitle    SkipReason = "missing_title"
	SkipMissingAuthor   SkipReason = "missing_author"
	SkipEmptyAuthorName SkipReason = "empty_author_name"
	SkipMalformedRow    SkipReason = "malformed_row"
	SkipInvalidAuthor   SkipReason = "invalid_author"
)

const (
	authorPrefix       = "By "
	coAuthorSeparator  = " and "
	authorListSplitter = ","
)

// Candidate is a parsed row that has not been persisted. Title and
// AuthorName are always non-empty.
type Candidate struct {
	Title        string
	AuthorName   string
	Description  *string
	Category     *string
	Publisher    *string
	Price        *decimal.Decimal
	PublishMonth *string
	PublishYear  *int
}

// Outcome is either a Candidate or a SkipReason, never both.
type Outcome struct {
	Candidate *Candidate
	Reason    SkipReason
}

func (o Outcome) Skipped() bool {
	return o.Candidate == nil
}

func skip(reason SkipReason) Outcome {
	return Outcome{Reason: reason}
}

// Parse turns a raw row into a Candidate. Bad price or year values are
// dropped without rejecting the row.
func Parse(row Row) Outcome {
	title, ok := row.Get(ColumnTitle)
	if !ok {
		return skip(SkipMissingTitle)
	}

	rawAuthors, ok := row.Get(ColumnAuthors)
	if !ok {
		return skip(SkipMissingAuthor)
	}

	authorName := CanonicalAuthorName(rawAuthors)
	if authorName == "" {
		return skip(SkipEmptyAuthorName)
	}

	c := &Candidate{
		Title:        title,
		AuthorName:   authorName,
		Description:  optional(row, ColumnDescription),
		Category:     optional(row, ColumnCategory),
		Publisher:    optional(row, ColumnPublisher),
		PublishMonth: optional(row, ColumnPublishMonth),
	}

	if v, ok := row.Get(ColumnPrice); ok {
		c.Price = parsePrice(v)
	}
	if v, ok := row.Get(ColumnPublishYear); ok {
		c.PublishYear = parseYear(v)
	}

	return Outcome{Candidate: c}
}

// CanonicalAuthorName reduces a free-text author field to the first author:
// a leading "By " is removed, then the text is cut at the first " and ", or
// failing that at the first comma. Only the first author is kept.
func CanonicalAuthorName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, authorPrefix)

	if before, _, found := strings.Cut(name, coAuthorSeparator); found {
		name = before
	} else if before, _, found := strings.Cut(name, authorListSplitter); found {
		name = before
	}

	return strings.TrimSpace(name)
}

// ToBook builds the Book entity for a resolved author.
func (c *Candidate) ToBook(authorID uuid.UUID) *bookModel.Book {
	return &bookModel.Book{
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Publisher:    c.Publisher,
		Price:        c.Price,
		PublishMonth: c.PublishMonth,
		PublishYear:  c.PublishYear,
		AuthorID:     authorID,
	}
}

func optional(row Row, column string) *string {
	v, ok := row.Get(column)
	if !ok {
		return nil
	}
	return &v
}

// parsePrice accepts an optional leading "$" and thousands separators.
// Negative amounts are treated as absent.
func parsePrice(v string) *decimal.Decimal {
	v = strings.TrimSpace(strings.TrimPrefix(v, "$"))
	v = strings.ReplaceAll(v, ",", "")

	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

func parseYear(v string) *int {
	year, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &year
}
