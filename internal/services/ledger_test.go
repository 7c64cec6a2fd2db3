package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/helpers"
)

type fakeLedgerStore struct {
	mu        sync.Mutex
	ledgers   map[string]*models.Ledger
	commits   int
	loadErr   error
	commitErr error
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{ledgers: make(map[string]*models.Ledger)}
}

func (f *fakeLedgerStore) Load(_ context.Context, account string) (*models.Ledger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	l, ok := f.ledgers[account]
	if !ok {
		return models.NewLedger(account), nil
	}
	return l.Clone(), nil
}

func (f *fakeLedgerStore) Commit(_ context.Context, account string, cs *models.Changeset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	l, ok := f.ledgers[account]
	if !ok {
		l = models.NewLedger(account)
		f.ledgers[account] = l
	}
	l.Apply(cs)
	f.commits++
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []models.UserMessage
	accounts  []string
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, account string, msgs []models.UserMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = append(f.accounts, account)
	f.published = append(f.published, msgs...)
	return f.err
}

var errStore = errors.New("store failure")

var testNow = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*ledgerService, *fakeLedgerStore, *fakePublisher) {
	store := newFakeLedgerStore()
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub, 0)
	svc.clockNow = func() time.Time { return testNow }
	return svc, store, pub
}

func amount(s string) *decimal.Decimal {
	return helpers.Ptr(decimal.RequireFromString(s))
}

func ts(y int, m time.Month, d int) string {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
}
