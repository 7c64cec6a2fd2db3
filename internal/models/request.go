package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentRequest struct {
	ID               int64           `json:"id"`
	Description      string          `json:"description"`
	DueDate          time.Time       `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	NumberOfRequests int             `json:"number_of_requests"`
	Filled           bool            `json:"filled"`
	Expired          bool            `json:"expired"`
	Transactions     []int64         `json:"transactions"` // matched transaction ids, in match order
	CreatedAt        time.Time       `json:"createdAt"`
}

// Open reports whether the request can still be matched.
func (p PaymentRequest) Open() bool {
	return !p.Filled && !p.Expired
}

// Remaining is the number of installments still owed.
func (p PaymentRequest) Remaining() int {
	if n := p.NumberOfRequests - len(p.Transactions); n > 0 {
		return n
	}
	return 0
}

func (p PaymentRequest) clone() PaymentRequest {
	p.Transactions = slices.Clone(p.Transactions)
	return p
}

func (p PaymentRequest) Equal(o PaymentRequest) bool {
	return p.ID == o.ID &&
		p.Description == o.Description &&
		p.DueDate.Equal(o.DueDate) &&
		p.Amount.Equal(o.Amount) &&
		p.NumberOfRequests == o.NumberOfRequests &&
		p.Filled == o.Filled &&
		p.Expired == o.Expired &&
		slices.Equal(p.Transactions, o.Transactions) &&
		p.CreatedAt.Equal(o.CreatedAt)
}
