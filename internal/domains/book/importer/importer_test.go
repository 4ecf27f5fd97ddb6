package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "library-catalog/internal/domains/author/model"
)

func TestImporter_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("dune example", func(t *testing.T) {
		store := newMemoryStore()
		src := rowsOf(
			map[string]string{"Title": "Dune", "Authors": "By Frank Herbert", "Price Starting With ($)": "7.99", "Publish Date (Year)": "1990"},
			map[string]string{"Title": "Dune Messiah", "Authors": "Frank Herbert and Brian Herbert"},
			map[string]string{"Title": "", "Authors": "Nobody"},
		)

		result, err := New(store).Run(ctx, src)

		require.NoError(t, err)
		assert.Equal(t, 1, result.AuthorsAdded)
		assert.Equal(t, 2, result.BooksAdded)

		require.Len(t, store.committed, 2)
		herbert := store.authors["Frank Herbert"]
		require.NotNil(t, herbert)
		assert.Equal(t, herbert.ID, store.committed[0].AuthorID)
		assert.Equal(t, herbert.ID, store.committed[1].AuthorID)
		require.NotNil(t, store.committed[0].Price)
		assert.Equal(t, "7.99", store.committed[0].Price.String())
		require.NotNil(t, store.committed[0].PublishYear)
		assert.Equal(t, 1990, *store.committed[0].PublishYear)
		assert.Nil(t, store.committed[1].Price)
		assert.Len(t, store.authors, 1)
		assert.Equal(t, 1, store.commits)
	})

	t.Run("nil source is input missing", func(t *testing.T) {
		store := newMemoryStore()

		_, err := New(store).Run(ctx, nil)

		require.ErrorIs(t, err, ErrInputMissing)
		assert.Zero(t, store.writes())
	})

	t.Run("empty stream adds nothing and writes nothing", func(t *testing.T) {
		store := newMemoryStore()

		result, err := New(store).Run(ctx, rowsOf())

		require.NoError(t, err)
		assert.Equal(t, 0, result.AuthorsAdded)
		assert.Equal(t, 0, result.BooksAdded)
		assert.Zero(t, store.writes())
	})

	t.Run("only skipped rows commit nothing", func(t *testing.T) {
		store := newMemoryStore()
		src := rowsOf(
			map[string]string{"Title": "No author"},
			map[string]string{"Authors": "No title"},
		)

		result, err := New(store).Run(ctx, src)

		require.NoError(t, err)
		assert.Equal(t, 0, result.BooksAdded)
		assert.Zero(t, store.writes())
	})

	t.Run("one author per name regardless of order", func(t *testing.T) {
		orders := [][]string{
			{"A", "B", "A", "A", "B"},
			{"B", "A", "B", "B", "A"},
			{"A", "A", "A", "B", "B"},
		}
		for _, order := range orders {
			t.Run(strings.Join(order, ""), func(t *testing.T) {
				store := newMemoryStore()
				src := &sliceSource{}
				for i, name := range order {
					src.add(NewRow(i+2, map[string]string{
						"Title":   fmt.Sprintf("Book %d", i),
						"Authors": "By Author " + name,
					}), nil)
				}

				result, err := New(store).Run(ctx, src)

				require.NoError(t, err)
				assert.Equal(t, 2, result.AuthorsAdded)
				assert.Equal(t, len(order), result.BooksAdded)
				assert.Equal(t, 2, store.inserts)
				assert.Equal(t, 2, store.finds)
			})
		}
	})

	t.Run("pre-existing author is not counted", func(t *testing.T) {
		store := newMemoryStore("Jane Austen")
		src := rowsOf(
			map[string]string{"Title": "Emma", "Authors": "Jane Austen"},
			map[string]string{"Title": "Persuasion", "Authors": "By Jane Austen"},
		)

		result, err := New(store).Run(ctx, src)

		require.NoError(t, err)
		assert.Equal(t, 0, result.AuthorsAdded)
		assert.Equal(t, 2, result.BooksAdded)
	})

	t.Run("malformed rows are skipped", func(t *testing.T) {
		store := newMemoryStore()
		src := rowsOf(map[string]string{"Title": "Dune", "Authors": "Frank Herbert"}).
			add(Row{Line: 3}, fmt.Errorf("%w: bare quote", ErrMalformedRow)).
			add(NewRow(4, map[string]string{"Title": "Children of Dune", "Authors": "Frank Herbert"}), nil)

		result, err := New(store).Run(ctx, src)

		require.NoError(t, err)
		assert.Equal(t, 2, result.BooksAdded)
	})

	t.Run("overlong author skips only that row", func(t *testing.T) {
		store := newMemoryStore()
		src := rowsOf(
			map[string]string{"Title": "Long", "Authors": strings.Repeat("n", authorModel.MaxNameLength+1)},
			map[string]string{"Title": "Short", "Authors": "Ann"},
		)

		result, err := New(store).Run(ctx, src)

		require.NoError(t, err)
		assert.Equal(t, 1, result.AuthorsAdded)
		assert.Equal(t, 1, result.BooksAdded)
	})

	t.Run("read failure aborts without committing books", func(t *testing.T) {
		store := newMemoryStore()
		src := rowsOf(map[string]string{"Title": "Dune", "Authors": "Frank Herbert"}).
			add(Row{}, errBoom)

		_, err := New(store).Run(ctx, src)

		require.ErrorIs(t, err, ErrReadInput)
		assert.ErrorIs(t, err, errBoom)
		assert.Empty(t, store.committed)
		assert.Zero(t, store.commits)
		assert.Contains(t, store.authors, "Frank Herbert", "authors created before the failure stay")
	})

	t.Run("store failure aborts the run", func(t *testing.T) {
		store := newMemoryStore()
		store.insertErr = errBoom
		src := rowsOf(map[string]string{"Title": "Dune", "Authors": "Frank Herbert"})

		_, err := New(store).Run(ctx, src)

		require.ErrorIs(t, err, ErrStoreFailure)
		assert.ErrorIs(t, err, errBoom)
		assert.Zero(t, store.commits)
	})

	t.Run("duplicate author race surfaces as store failure", func(t *testing.T) {
		store := newMemoryStore()
		store.insertErr = authorModel.ErrDuplicateName
		src := rowsOf(map[string]string{"Title": "Dune", "Authors": "Frank Herbert"})

		_, err := New(store).Run(ctx, src)

		require.ErrorIs(t, err, ErrStoreFailure)
		assert.ErrorIs(t, err, authorModel.ErrDuplicateName)
	})

	t.Run("commit failure aborts the run", func(t *testing.T) {
		store := newMemoryStore()
		store.commitErr = errBoom
		src := rowsOf(map[string]string{"Title": "Dune", "Authors": "Frank Herbert"})

		result, err := New(store).Run(ctx, src)

		require.ErrorIs(t, err, ErrStoreFailure)
		assert.Nil(t, result)
		assert.Empty(t, store.committed)
	})
}

func TestPreview(t *testing.T) {
	ctx := context.Background()

	store := newMemoryStore("Jane Austen")
	src := rowsOf(
		map[string]string{"Title": "Emma", "Authors": "Jane Austen"},
		map[string]string{"Title": "Dune", "Authors": "By Frank Herbert"},
		map[string]string{"Title": "Dune Messiah", "Authors": "Frank Herbert and Brian Herbert"},
		map[string]string{"Title": "", "Authors": "Nobody"},
	).add(Row{Line: 6}, fmt.Errorf("%w: bad", ErrMalformedRow))

	preview, err := Preview(ctx, src, store)

	require.NoError(t, err)
	assert.Equal(t, 5, preview.TotalRows)
	assert.Equal(t, 3, preview.Candidates)
	assert.Equal(t, 2, preview.DistinctAuthors)
	assert.Equal(t, []string{"Frank Herbert"}, preview.NewAuthors)
	assert.Equal(t, 1, preview.Skipped[string(SkipMissingTitle)])
	assert.Equal(t, 1, preview.Skipped[string(SkipMalformedRow)])
	assert.Zero(t, store.writes())
}
