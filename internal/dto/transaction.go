package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

type TransactionRequest struct {
	Date         string           `json:"date"`
	Amount       *decimal.Decimal `json:"amount"`
	ExternalIBAN string           `json:"externalIBAN"`
	Type         string           `json:"type"`
	Description  string           `json:"description"`
	Category     *models.Category `json:"category,omitempty"`
}

// SubmitResult is the stored transaction plus the messages its submission raised.
type SubmitResult struct {
	Transaction models.Transaction   `json:"transaction"`
	Messages    []models.UserMessage `json:"messages"`
}

// TransactionQuery filters ListTransactions. Limit 0 means no limit.
type TransactionQuery struct {
	Category *string
	Offset   int
	Limit    int
}
