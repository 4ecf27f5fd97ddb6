package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
)

// ---- book repository ----

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) ListBooks(ctx context.Context, limit, offset int) ([]model.BookWithAuthor, error) {
	args := m.Called(ctx, limit, offset)
	books, _ := args.Get(0).([]model.BookWithAuthor)
	return books, args.Error(1)
}

func (m *mockBookRepo) CountBooks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookRepo) GetBookByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.BookWithAuthor)
	return b, args.Error(1)
}

func (m *mockBookRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.BookWithAuthor, error) {
	args := m.Called(ctx, authorID)
	books, _ := args.Get(0).([]model.BookWithAuthor)
	return books, args.Error(1)
}

func (m *mockBookRepo) ListByCategory(ctx context.Context, category string) ([]model.BookWithAuthor, error) {
	args := m.Called(ctx, category)
	books, _ := args.Get(0).([]model.BookWithAuthor)
	return books, args.Error(1)
}

func (m *mockBookRepo) ListAllForExport(ctx context.Context) ([]model.BookWithAuthor, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.BookWithAuthor)
	return books, args.Error(1)
}

func (m *mockBookRepo) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	args := m.Called(ctx, book)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockBookRepo) UpdateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	args := m.Called(ctx, book)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockBookRepo) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBookRepo) AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookRepo) InvalidateCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ---- import jobs ----

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.ImportJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*model.ImportJob)
	return j, args.Error(1)
}

func (m *mockJobRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID, result *model.ImportResult) error {
	return m.Called(ctx, id, result).Error(0)
}

func (m *mockJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	return m.Called(ctx, id, message).Error(0)
}

// ---- object storage ----

type mockObjects struct {
	mock.Mock
}

func (m *mockObjects) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *mockObjects) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockObjects) ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, prefix, cutoff)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

func (m *mockObjects) RemoveObjects(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

// ---- task queue ----

type mockTasks struct {
	mock.Mock
}

func (m *mockTasks) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	return m.Called(ctx, taskType, payload).Error(0)
}

// ---- cache (lock only) ----

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCache) DeletePattern(ctx context.Context, pattern string) error {
	return m.Called(ctx, pattern).Error(0)
}

func (m *mockCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) DeleteIfValue(ctx context.Context, key, value string) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ---- in-memory import store ----

// memStores hands out stores sharing one author table, like the real database
type memStores struct {
	authors map[string]*authorModel.Author
	books   []*model.Book
	opened  int
}

func newMemStores(existing ...string) *memStores {
	s := &memStores{authors: make(map[string]*authorModel.Author)}
	for _, name := range existing {
		s.authors[name] = &authorModel.Author{ID: uuid.New(), Name: name}
	}
	return s
}

func (s *memStores) NewImportStore() repository.ImportStore {
	s.opened++
	return &memStore{shared: s}
}

type memStore struct {
	shared *memStores
	staged []*model.Book
}

func (m *memStore) FindAuthorByName(_ context.Context, name string) (*authorModel.Author, error) {
	if a, ok := m.shared.authors[name]; ok {
		return a, nil
	}
	return nil, authorModel.ErrAuthorNotFound
}

func (m *memStore) InsertAuthor(_ context.Context, name string) (*authorModel.Author, error) {
	if _, ok := m.shared.authors[name]; ok {
		return nil, authorModel.ErrDuplicateName
	}
	a := &authorModel.Author{ID: uuid.New(), Name: name}
	m.shared.authors[name] = a
	return a, nil
}

func (m *memStore) InsertBook(_ context.Context, book *model.Book) (*model.Book, error) {
	b := *book
	b.ID = uuid.New()
	m.staged = append(m.staged, &b)
	return &b, nil
}

func (m *memStore) Commit(context.Context) error {
	m.shared.books = append(m.shared.books, m.staged...)
	m.staged = nil
	return nil
}

func (m *memStore) FindExistingNames(_ context.Context, names []string) ([]string, error) {
	var out []string
	for _, n := range names {
		if _, ok := m.shared.authors[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}
