package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

func (t TransactionType) Valid() bool {
	return t == Deposit || t == Withdrawal
}

type Transaction struct {
	ID           int64           `json:"id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"` // magnitude, never negative
	ExternalIBAN string          `json:"externalIBAN"`
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Category     *Category       `json:"category,omitempty"`
	SavingGoalID *int64          `json:"savingGoalId,omitempty"` // set on savings transfers
}

// Signed returns the amount as it moves the running balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsTransfer reports whether the transaction was created by a saving goal.
func (t Transaction) IsTransfer() bool {
	return t.SavingGoalID != nil
}

func (t Transaction) clone() Transaction {
	if t.Category != nil {
		c := *t.Category
		t.Category = &c
	}
	if t.SavingGoalID != nil {
		id := *t.SavingGoalID
		t.SavingGoalID = &id
	}
	return t
}

func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Date.Equal(o.Date) &&
		t.Amount.Equal(o.Amount) &&
		t.ExternalIBAN == o.ExternalIBAN &&
		t.Type == o.Type &&
		t.Description == o.Description &&
		equalPtr(t.Category, o.Category) &&
		equalPtr(t.SavingGoalID, o.SavingGoalID)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
