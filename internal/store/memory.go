package store

import (
	"context"
	"sync"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// memoryStore keeps ledgers in process. Load hands out deep copies so callers
// never alias stored state.
type memoryStore struct {
	mu      sync.RWMutex
	ledgers map[string]*models.Ledger
}

func NewMemoryStore() *memoryStore {
	return &memoryStore{ledgers: make(map[string]*models.Ledger)}
}

func (s *memoryStore) Load(_ context.Context, account string) (*models.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[account]
	if !ok {
		return models.NewLedger(account), nil
	}
	return l.Clone(), nil
}

func (s *memoryStore) Commit(_ context.Context, account string, cs *models.Changeset) error {
	if cs == nil || cs.Empty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[account]
	if !ok {
		l = models.NewLedger(account)
		s.ledgers[account] = l
	}
	l.Apply(cs)
	return nil
}

func (s *memoryStore) Close() error { return nil }
