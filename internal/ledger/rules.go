package ledger

import (
	"strings"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// Matches reports whether every non-blank field of r matches t. Comparison
// is case-sensitive; a rule with all fields blank matches everything.
func Matches(r models.CategoryRule, t models.Transaction) bool {
	if r.Description != "" && !strings.Contains(t.Description, r.Description) {
		return false
	}
	if r.IBAN != "" && !strings.Contains(t.ExternalIBAN, r.IBAN) {
		return false
	}
	if r.Type != "" && r.Type != t.Type {
		return false
	}
	return true
}

// Resolve picks the matching rule with the highest id.
func Resolve(rules []models.CategoryRule, t models.Transaction) (models.CategoryRule, bool) {
	var (
		best  models.CategoryRule
		found bool
	)
	for _, r := range rules {
		if !Matches(r, t) {
			continue
		}
		if !found || r.ID > best.ID {
			best, found = r, true
		}
	}
	return best, found
}

// Categorize applies the winning rule to a transaction that has no category
// yet. Savings transfers are never categorized.
func Categorize(s *State, txnID int64) (models.CategoryRule, bool) {
	t, ok := s.Transaction(txnID)
	if !ok || t.Category != nil || t.IsTransfer() {
		return models.CategoryRule{}, false
	}
	rule, ok := Resolve(s.Ledger.Rules, *t)
	if !ok {
		return models.CategoryRule{}, false
	}
	c := rule.Category
	t.Category = &c
	return rule, true
}

// Backfill assigns the rule's category to every uncategorized transaction it
// matches and returns their ids. Other rules are not re-run.
func Backfill(s *State, rule models.CategoryRule) []int64 {
	var assigned []int64
	for i := range s.Ledger.Transactions {
		t := &s.Ledger.Transactions[i]
		if t.Category != nil || t.IsTransfer() || !Matches(rule, *t) {
			continue
		}
		c := rule.Category
		t.Category = &c
		assigned = append(assigned, t.ID)
	}
	return assigned
}
