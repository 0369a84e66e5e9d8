package repository

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// InMemRepository is a size bounded store, the least recently used entry is
// evicted first.
type InMemRepository struct {
	*lru.Cache
}

func NewInMemRepository(size int) (*InMemRepository, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create lru cache of size %d", size)
	}

	return &InMemRepository{
		Cache: cache,
	}, nil
}

// GetAs returns the value stored for key if it holds a T. Entries of another
// type are removed.
func GetAs[T any](repo *InMemRepository, key any) (T, bool) {
	var zero T

	v, ok := repo.Get(key)
	if !ok {
		return zero, false
	}

	t, ok := v.(T)
	if !ok {
		repo.Remove(key)
		return zero, false
	}

	return t, true
}
