package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// LedgerStore is implemented by every backend in this package.
type LedgerStore interface {
	Load(ctx context.Context, account string) (*models.Ledger, error)
	Commit(ctx context.Context, account string, cs *models.Changeset) error
	Close() error
}

// cachedStore keeps recently loaded ledgers in a ristretto cache in front of
// a slower backend. Callers serialize access per account, so dropping the
// entry on commit is enough to keep reads consistent.
type cachedStore struct {
	backend LedgerStore
	cache   *ristretto.Cache
}

// NewCachedStore caches up to size ledgers; cost is counted per ledger.
func NewCachedStore(backend LedgerStore, size int64) (*cachedStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ledger cache: %w", err)
	}
	return &cachedStore{backend: backend, cache: cache}, nil
}

func (s *cachedStore) Load(ctx context.Context, account string) (*models.Ledger, error) {
	if v, ok := s.cache.Get(account); ok {
		if l, ok := v.(*models.Ledger); ok {
			return l.Clone(), nil
		}
	}
	l, err := s.backend.Load(ctx, account)
	if err != nil {
		return nil, err
	}
	s.cache.Set(account, l.Clone(), 1)
	return l, nil
}

func (s *cachedStore) Commit(ctx context.Context, account string, cs *models.Changeset) error {
	err := s.backend.Commit(ctx, account, cs)
	// A failed commit may still have reached the backend. Wait drains the
	// queued Set and Del so the next Get cannot see the old entry.
	s.cache.Del(account)
	s.cache.Wait()
	return err
}

func (s *cachedStore) Close() error {
	s.cache.Close()
	return s.backend.Close()
}
