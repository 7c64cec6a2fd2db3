package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SavingGoal struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Goal               decimal.Decimal `json:"goal"`
	SavePerMonth       decimal.Decimal `json:"savePerMonth"`
	MinBalanceRequired decimal.Decimal `json:"minBalanceRequired"`
	Balance            decimal.Decimal `json:"balance"`
	Completed          bool            `json:"completed"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func (g SavingGoal) Equal(o SavingGoal) bool {
	return g.ID == o.ID &&
		g.Name == o.Name &&
		g.Goal.Equal(o.Goal) &&
		g.SavePerMonth.Equal(o.SavePerMonth) &&
		g.MinBalanceRequired.Equal(o.MinBalanceRequired) &&
		g.Balance.Equal(o.Balance) &&
		g.Completed == o.Completed &&
		g.CreatedAt.Equal(o.CreatedAt)
}
