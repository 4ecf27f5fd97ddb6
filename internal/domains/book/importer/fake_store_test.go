package importer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	authorModel "library-catalog/internal/domains/author/model"
	bookModel "library-catalog/internal/domains/book/model"
)

// memoryStore is an in-memory Store that records every call.
type memoryStore struct {
	authors   map[string]*authorModel.Author
	staged    []*bookModel.Book
	committed []*bookModel.Book

	finds   int
	inserts int
	commits int

	findErr   error
	insertErr error
	bookErr   error
	commitErr error
}

func newMemoryStore(existing ...string) *memoryStore {
	s := &memoryStore{authors: make(map[string]*authorModel.Author)}
	for _, name := range existing {
		s.authors[name] = &authorModel.Author{ID: uuid.New(), Name: name}
	}
	return s
}

func (s *memoryStore) FindAuthorByName(_ context.Context, name string) (*authorModel.Author, error) {
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	if a, ok := s.authors[name]; ok {
		return a, nil
	}
	return nil, authorModel.ErrAuthorNotFound
}

func (s *memoryStore) InsertAuthor(_ context.Context, name string) (*authorModel.Author, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	if _, ok := s.authors[name]; ok {
		return nil, authorModel.ErrDuplicateName
	}
	s.inserts++
	a := &authorModel.Author{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	s.authors[name] = a
	return a, nil
}

func (s *memoryStore) InsertBook(_ context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	b.ID = uuid.New()
	s.staged = append(s.staged, b)
	return b, nil
}

func (s *memoryStore) Commit(_ context.Context) error {
	s.commits++
	if s.commitErr != nil {
		return s.commitErr
	}
	s.committed = append(s.committed, s.staged...)
	s.staged = nil
	return nil
}

func (s *memoryStore) writes() int {
	return s.inserts + len(s.staged) + len(s.committed) + s.commits
}

func (s *memoryStore) FindExistingNames(_ context.Context, names []string) ([]string, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []string
	for _, n := range names {
		if _, ok := s.authors[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// sliceSource replays rows and errors in order.
type sliceSource struct {
	items []sourceItem
	pos   int
}

type sourceItem struct {
	row Row
	err error
}

func rowsOf(rows ...map[string]string) *sliceSource {
	src := &sliceSource{}
	for i, r := range rows {
		src.items = append(src.items, sourceItem{row: NewRow(i+2, r)})
	}
	return src
}

func (s *sliceSource) add(row Row, err error) *sliceSource {
	s.items = append(s.items, sourceItem{row: row, err: err})
	return s
}

func (s *sliceSource) Next() (Row, error) {
	if s.pos >= len(s.items) {
		return Row{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item.row, item.err
}

var errBoom = errors.New("boom")
