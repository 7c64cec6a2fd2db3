package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

func TestMatches(t *testing.T) {
	txn := models.Transaction{
		Description:  "University of Twente salary",
		ExternalIBAN: "NL39RABO0300065264",
		Type:         models.Deposit,
	}
	tests := []struct {
		name string
		rule models.CategoryRule
		want bool
	}{
		{name: "blank rule", rule: models.CategoryRule{}, want: true},
		{name: "description substring", rule: models.CategoryRule{Description: "of Twente"}, want: true},
		{name: "description case sensitive", rule: models.CategoryRule{Description: "university"}, want: false},
		{name: "iban substring", rule: models.CategoryRule{IBAN: "RABO03"}, want: true},
		{name: "type equality", rule: models.CategoryRule{Type: models.Deposit}, want: true},
		{name: "type mismatch", rule: models.CategoryRule{Type: models.Withdrawal}, want: false},
		{name: "all fields", rule: models.CategoryRule{Description: "Twente", IBAN: "NL39", Type: models.Deposit}, want: true},
		{name: "one field fails", rule: models.CategoryRule{Description: "Twente", IBAN: "DE00"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.rule, txn))
		})
	}
}

func TestCategorizeHighestIDWins(t *testing.T) {
	s := newState(day(2024, time.May, 1))
	s.AddRule(models.CategoryRule{Description: "Albert", Category: models.Category{ID: 1, Name: "groceries"}})
	s.AddRule(models.CategoryRule{Type: models.Withdrawal, Category: models.Category{ID: 2, Name: "spending"}})
	s.AddRule(models.CategoryRule{IBAN: "XX", Category: models.Category{ID: 3, Name: "never"}})

	tx := withdrawal(day(2024, time.May, 1), "12.50")
	tx.Description = "Albert Heijn"
	id := s.AddTransaction(tx).ID

	rule, ok := Categorize(s, id)
	require.True(t, ok)
	assert.Equal(t, int64(2), rule.ID)

	got, _ := s.Transaction(id)
	require.NotNil(t, got.Category)
	assert.Equal(t, "spending", got.Category.Name)
}

func TestCategorizeKeepsExistingCategory(t *testing.T) {
	s := newState(day(2024, time.May, 1))
	s.AddRule(models.CategoryRule{Category: models.Category{ID: 9, Name: "catch-all"}})

	tx := deposit(day(2024, time.May, 1), "10")
	tx.Category = &models.Category{ID: 4, Name: "salary"}
	id := s.AddTransaction(tx).ID

	_, ok := Categorize(s, id)
	assert.False(t, ok)
	got, _ := s.Transaction(id)
	assert.Equal(t, "salary", got.Category.Name)
}

func TestBackfillOnlyUncategorized(t *testing.T) {
	s := newState(day(2024, time.May, 1))
	a := s.AddTransaction(deposit(day(2024, time.January, 1), "10")).ID
	b := withdrawal(day(2024, time.February, 1), "5")
	b.Category = &models.Category{ID: 1, Name: "rent"}
	bID := s.AddTransaction(b).ID
	goalID := int64(1)
	transfer := withdrawal(day(2024, time.March, 1), "5")
	transfer.SavingGoalID = &goalID
	tID := s.AddTransaction(transfer).ID

	rule := *s.AddRule(models.CategoryRule{ApplyOnHistory: true, Category: models.Category{ID: 7, Name: "misc"}})
	assigned := Backfill(s, rule)

	assert.Equal(t, []int64{a}, assigned)
	got, _ := s.Transaction(bID)
	assert.Equal(t, "rent", got.Category.Name)
	got, _ = s.Transaction(tID)
	assert.Nil(t, got.Category)
}

func TestRemovingRuleKeepsAssignedCategories(t *testing.T) {
	s := newState(day(2024, time.May, 1))
	ruleID := s.AddRule(models.CategoryRule{Category: models.Category{ID: 1, Name: "all"}}).ID
	id := s.AddTransaction(deposit(day(2024, time.May, 1), "1")).ID
	Categorize(s, id)

	require.True(t, s.RemoveRule(ruleID))
	got, _ := s.Transaction(id)
	require.NotNil(t, got.Category)
	assert.Equal(t, "all", got.Category.Name)
}
