package ledger

import (
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// Changes computes what a store has to write to turn before into after.
func Changes(before, after *models.Ledger) *models.Changeset {
	return &models.Changeset{
		AccountID:    after.AccountID,
		Meta:         after.Meta,
		MetaChanged:  !before.Meta.Equal(after.Meta),
		Transactions: diff(before.Transactions, after.Transactions, models.Transaction.Equal, func(t models.Transaction) int64 { return t.ID }),
		Rules:        diff(before.Rules, after.Rules, models.CategoryRule.Equal, func(r models.CategoryRule) int64 { return r.ID }),
		Goals:        diff(before.Goals, after.Goals, models.SavingGoal.Equal, func(g models.SavingGoal) int64 { return g.ID }),
		Requests:     diff(before.Requests, after.Requests, models.PaymentRequest.Equal, func(p models.PaymentRequest) int64 { return p.ID }),
		Messages:     diff(before.Messages, after.Messages, models.UserMessage.Equal, func(m models.UserMessage) int64 { return m.ID }),
	}
}

func diff[T any](before, after []T, equal func(T, T) bool, id func(T) int64) models.Changes[T] {
	old := make(map[int64]T, len(before))
	for _, b := range before {
		old[id(b)] = b
	}
	var c models.Changes[T]
	seen := make(map[int64]struct{}, len(after))
	for _, a := range after {
		seen[id(a)] = struct{}{}
		if b, ok := old[id(a)]; ok && equal(b, a) {
			continue
		}
		c.Upserted = append(c.Upserted, a)
	}
	for _, b := range before {
		if _, ok := seen[id(b)]; !ok {
			c.Deleted = append(c.Deleted, id(b))
		}
	}
	return c
}
