package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "library-catalog/internal/domains/author/model"
)

func TestAuthorResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("creates once and serves repeats from cache", func(t *testing.T) {
		store := newMemoryStore()
		r := NewAuthorResolver(store)

		first, err := r.Resolve(ctx, "Frank Herbert")
		require.NoError(t, err)
		second, err := r.Resolve(ctx, "Frank Herbert")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, store.inserts)
		assert.Equal(t, 1, store.finds)
		assert.Equal(t, 1, r.AuthorsAdded())
	})

	t.Run("existing author is reused and not counted", func(t *testing.T) {
		store := newMemoryStore("Jane Austen")
		r := NewAuthorResolver(store)

		a, err := r.Resolve(ctx, "Jane Austen")
		require.NoError(t, err)

		assert.Equal(t, store.authors["Jane Austen"].ID, a.ID)
		assert.Equal(t, 0, store.inserts)
		assert.Equal(t, 0, r.AuthorsAdded())
	})

	t.Run("names are matched exactly", func(t *testing.T) {
		store := newMemoryStore("Jane Austen")
		r := NewAuthorResolver(store)

		_, err := r.Resolve(ctx, "jane austen")
		require.NoError(t, err)

		assert.Equal(t, 1, r.AuthorsAdded())
	})

	t.Run("overlong name is rejected as a row error", func(t *testing.T) {
		store := newMemoryStore()
		r := NewAuthorResolver(store)

		_, err := r.Resolve(ctx, strings.Repeat("x", authorModel.MaxNameLength+1))

		require.ErrorIs(t, err, ErrRowRejected)
		assert.ErrorIs(t, err, authorModel.ErrNameTooLong)
		assert.Equal(t, 0, store.finds)
	})

	t.Run("store lookup failure propagates", func(t *testing.T) {
		store := newMemoryStore()
		store.findErr = errBoom
		r := NewAuthorResolver(store)

		_, err := r.Resolve(ctx, "Anyone")

		require.ErrorIs(t, err, errBoom)
		assert.NotErrorIs(t, err, ErrRowRejected)
	})

	t.Run("duplicate name on insert propagates", func(t *testing.T) {
		store := newMemoryStore()
		store.insertErr = authorModel.ErrDuplicateName
		r := NewAuthorResolver(store)

		_, err := r.Resolve(ctx, "Raced Author")

		require.ErrorIs(t, err, authorModel.ErrDuplicateName)
		assert.Equal(t, 0, r.AuthorsAdded())
	})
}
