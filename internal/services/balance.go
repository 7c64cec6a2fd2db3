package services

import (
	"context"

	"github.com/GregMSThompson/ledger-engine/internal/dto"
	"github.com/GregMSThompson/ledger-engine/internal/ledger"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

func (s *ledgerService) ComputeBalanceHistory(ctx context.Context, account string, q dto.BalanceHistoryQuery) ([]models.BalanceInterval, error) {
	n, err := ledger.ParseIntervalCount(q.Intervals, s.defaultIntervals)
	if err != nil {
		return nil, err
	}
	unit, err := ledger.ParseUnit(q.Interval)
	if err != nil {
		return nil, err
	}

	var out []models.BalanceInterval
	err = s.view(ctx, account, func(st *ledger.State) error {
		out, err = ledger.History(st.Ledger.Transactions, ledger.HistoryQuery{Intervals: n, Unit: unit}, st.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
