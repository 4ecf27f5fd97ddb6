package importer

import (
	"context"
	"errors"
	"fmt"

	authorModel "library-catalog/internal/domains/author/model"
)

// AuthorResolver maps canonical author names to Author records for a single
// import run. It is not safe for concurrent use and must not outlive the run.
type AuthorResolver struct {
	store Store
	cache map[string]*authorModel.Author
	added int
}

func NewAuthorResolver(store Store) *AuthorResolver {
	return &AuthorResolver{
		store: store,
		cache: make(map[string]*authorModel.Author),
	}
}

// Resolve returns the author for name, looking in the run cache, then the
// store, and creating the author only when neither has it. Names are matched
// exactly. Invalid names are reported wrapped in ErrRowRejected.
func (r *AuthorResolver) Resolve(ctx context.Context, name string) (*authorModel.Author, error) {
	if a, ok := r.cache[name]; ok {
		return a, nil
	}

	if err := authorModel.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRowRejected, err)
	}

	existing, err := r.store.FindAuthorByName(ctx, name)
	switch {
	case err == nil:
		r.cache[name] = existing
		return existing, nil
	case !errors.Is(err, authorModel.ErrAuthorNotFound):
		return nil, fmt.Errorf("find author %q: %w", name, err)
	}

	created, err := r.store.InsertAuthor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("insert author %q: %w", name, err)
	}

	r.cache[name] = created
	r.added++
	return created, nil
}

// AuthorsAdded is the number of authors this resolver created.
func (r *AuthorResolver) AuthorsAdded() int {
	return r.added
}
