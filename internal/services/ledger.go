package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// ledgerStore is the storage surface the service needs. Commit must apply the
// whole changeset or nothing.
type ledgerStore interface {
	Load(ctx context.Context, account string) (*models.Ledger, error)
	Commit(ctx context.Context, account string, cs *models.Changeset) error
}

// messagePublisher announces committed user messages.
type messagePublisher interface {
	Publish(ctx context.Context, account string, msgs []models.UserMessage) error
}

type ledgerService struct {
	store            ledgerStore
	publisher        messagePublisher
	locks            *accountLocks
	clockNow         func() time.Time
	defaultIntervals int
}

func NewLedgerService(store ledgerStore, publisher messagePublisher, defaultIntervals int) *ledgerService {
	if defaultIntervals < 1 {
		defaultIntervals = ledger.DefaultIntervals
	}
	return &ledgerService{
		store:            store,
		publisher:        publisher,
		locks:            newAccountLocks(),
		clockNow:         time.Now,
		defaultIntervals: defaultIntervals,
	}
}

// mutate runs fn on a private copy of the account's ledger, emits messages
// for the transitions it caused and commits everything in one changeset.
// When fn or the commit fails nothing is stored.
func (s *ledgerService) mutate(ctx context.Context, account string, fn func(st *ledger.State) error) ([]models.UserMessage, error) {
	unlock := s.locks.lock(account)
	defer unlock()

	loaded, err := s.store.Load(ctx, account)
	if err != nil {
		return nil, err
	}
	working := loaded.Clone()
	st := ledger.NewState(working, s.clockNow())
	before := ledger.Observe(st)

	if err := fn(st); err != nil {
		return nil, err
	}
	msgs := ledger.Emit(st, before)

	cs := ledger.Changes(loaded, working)
	if cs.Empty() {
		return msgs, nil
	}
	if err := s.store.Commit(ctx, account, cs); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Debug("ledger committed",
		"account", account,
		"transactions", len(cs.Transactions.Upserted),
		"transactions_deleted", len(cs.Transactions.Deleted),
		"messages", len(cs.Messages.Upserted))
	for _, m := range msgs {
		log.Info("user message emitted", "account", account, "message_id", m.ID, "type", m.Type)
	}
	s.publish(ctx, account, msgs)
	return msgs, nil
}

// view runs fn against the committed ledger without writing anything back.
func (s *ledgerService) view(ctx context.Context, account string, fn func(st *ledger.State) error) error {
	unlock := s.locks.lock(account)
	defer unlock()

	loaded, err := s.store.Load(ctx, account)
	if err != nil {
		return err
	}
	return fn(ledger.NewState(loaded, s.clockNow()))
}

// publish is best effort; the messages are already committed.
func (s *ledgerService) publish(ctx context.Context, account string, msgs []models.UserMessage) {
	if s.publisher == nil || len(msgs) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, account, msgs); err != nil {
		logger.FromContext(ctx).Warn("publish user messages failed", "account", account, "error", err)
	}
}

func parseTimestamp(field, raw string, invalid func(format string, args ...any) error) (time.Time, error) {
	if raw == "" {
		return time.Time{}, invalid("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, invalid("%s must be an ISO-8601 timestamp, got %q", field, raw)
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

func invalidParameter(format string, args ...any) error {
	return errs.NewInvalidParameterError(format, args...)
}

func invalidTransaction(format string, args ...any) error {
	return errs.NewInvalidTransactionError(format, args...)
}
