package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

type CategoryRuleRequest struct {
	Description    string           `json:"description"`
	IBAN           string           `json:"iBAN"`
	Type           string           `json:"type"`
	Category       *models.Category `json:"category"`
	ApplyOnHistory bool             `json:"applyOnHistory"`
}

type SavingGoalRequest struct {
	Name               string           `json:"name"`
	Goal               *decimal.Decimal `json:"goal"`
	SavePerMonth       *decimal.Decimal `json:"savePerMonth"`
	MinBalanceRequired *decimal.Decimal `json:"minBalanceRequired"`
}

type PaymentRequestRequest struct {
	Description      string           `json:"description"`
	DueDate          string           `json:"due_date"`
	Amount           *decimal.Decimal `json:"amount"`
	NumberOfRequests int              `json:"number_of_requests"`
}

// BalanceHistoryQuery carries the raw query parameters; parsing and
// validation happen in the ledger package.
type BalanceHistoryQuery struct {
	Intervals string
	Interval  string
}

type MessageQuery struct {
	UnreadOnly bool
}
