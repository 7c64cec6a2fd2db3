package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceInterval is one OHLC bucket of the balance history. Timestamp is the
// end of the bucket.
type BalanceInterval struct {
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}
