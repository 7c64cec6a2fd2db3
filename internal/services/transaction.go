package services

import (
	"context"
	"slices"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// SubmitTransaction stores a user transaction and runs every derivation it
// can affect: categorization, the goal replay, then request matching and expiry.
func (s *ledgerService) SubmitTransaction(ctx context.Context, account string, req dto.TransactionRequest) (dto.SubmitResult, error) {
	txn, err := transactionFromRequest(req)
	if err != nil {
		return dto.SubmitResult{}, err
	}
	log := logger.FromContext(ctx)

	var stored models.Transaction
	msgs, err := s.mutate(ctx, account, func(st *ledger.State) error {
		id := st.AddTransaction(txn).ID
		if rule, ok := ledger.Categorize(st, id); ok {
			log.Debug("transaction categorized", "transaction_id", id, "rule_id", rule.ID)
		}
		for _, goalID := range ledger.ApplyGoals(st) {
			log.Info("saving goal completed", "goal_id", goalID)
		}
		if reqID, ok := ledger.ResolveRequests(st, id); ok {
			log.Debug("transaction matched payment request", "transaction_id", id, "request_id", reqID)
		}
		for _, reqID := range ledger.ExpireRequests(st) {
			log.Info("payment request expired", "request_id", reqID)
		}
		t, _ := st.Transaction(id)
		stored = *t
		return nil
	})
	if err != nil {
		return dto.SubmitResult{}, err
	}

	log.Info("transaction submitted", "account", account, "transaction_id", stored.ID, "type", stored.Type)
	if msgs == nil {
		msgs = []models.UserMessage{}
	}
	return dto.SubmitResult{Transaction: stored, Messages: msgs}, nil
}

func transactionFromRequest(req dto.TransactionRequest) (models.Transaction, error) {
	date, err := parseTimestamp("date", req.Date, invalidTransaction)
	if err != nil {
		return models.Transaction{}, err
	}
	if req.Amount == nil {
		return models.Transaction{}, errs.NewInvalidTransactionError("amount is required")
	}
	if req.Amount.IsNegative() {
		return models.Transaction{}, errs.NewInvalidTransactionError("amount must not be negative, got %s", req.Amount.String())
	}
	typ := models.TransactionType(req.Type)
	if !typ.Valid() {
		return models.Transaction{}, errs.NewInvalidTransactionError("type must be deposit or withdrawal, got %q", req.Type)
	}

	txn := models.Transaction{
		Date:         date,
		Amount:       *req.Amount,
		ExternalIBAN: req.ExternalIBAN,
		Type:         typ,
		Description:  req.Description,
	}
	if req.Category != nil {
		c := *req.Category
		txn.Category = &c
	}
	return txn, nil
}

// ListTransactions returns the account's transactions in timeline order,
// savings transfers included.
func (s *ledgerService) ListTransactions(ctx context.Context, account string, q dto.TransactionQuery) ([]models.Transaction, error) {
	if q.Offset < 0 || q.Limit < 0 {
		return nil, errs.NewInvalidParameterError("offset and limit must not be negative")
	}
	var out []models.Transaction
	err := s.view(ctx, account, func(st *ledger.State) error {
		for _, t := range ledger.Chronological(st.Ledger.Transactions) {
			if q.Category != nil && (t.Category == nil || t.Category.Name != *q.Category) {
				continue
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page(out, q.Offset, q.Limit), nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, account string, id int64) (*models.Transaction, error) {
	var out models.Transaction
	err := s.view(ctx, account, func(st *ledger.State) error {
		t, ok := st.Transaction(id)
		if !ok {
			return errs.NewNotFoundError("transaction %d not found", id)
		}
		out = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a user transaction and replays the goals. Savings
// transfers are owned by their goal and cannot be deleted directly.
func (s *ledgerService) DeleteTransaction(ctx context.Context, account string, id int64) error {
	log := logger.FromContext(ctx)
	_, err := s.mutate(ctx, account, func(st *ledger.State) error {
		t, ok := st.Transaction(id)
		if !ok {
			return errs.NewNotFoundError("transaction %d not found", id)
		}
		if t.IsTransfer() {
			return errs.NewInvalidParameterError("transaction %d is a savings transfer of goal %d", id, *t.SavingGoalID)
		}
		st.RemoveTransaction(id)
		// Closed requests keep their history; open ones release the match.
		for i := range st.Ledger.Requests {
			r := &st.Ledger.Requests[i]
			if r.Open() {
				r.Transactions = slices.DeleteFunc(r.Transactions, func(tid int64) bool { return tid == id })
			}
		}
		for _, goalID := range ledger.ApplyGoals(st) {
			log.Info("saving goal completed", "goal_id", goalID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("transaction deleted", "account", account, "transaction_id", id)
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
