package ledger

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

func TestHistoryLastIntervalExample(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	s := newState(now)
	s.AddTransaction(deposit(now.AddDate(0, -5, 0), "500"))
	s.AddTransaction(deposit(now, "300"))
	s.AddTransaction(withdrawal(now, "100"))

	got, err := History(s.Ledger.Transactions, HistoryQuery{Intervals: DefaultIntervals}, now)
	require.NoError(t, err)
	require.Len(t, got, DefaultIntervals)

	last := got[len(got)-1]
	assertDec(t, "500", last.Open)
	assertDec(t, "700", last.Close)
	assertDec(t, "800", last.High)
	assertDec(t, "500", last.Low)
	assertDec(t, "400", last.Volume)
	assert.True(t, last.Timestamp.Equal(now))

	first := got[0]
	assertDec(t, "0", first.Open)
	assertDec(t, "500", first.Close)
	assertDec(t, "500", first.Volume)
}

func TestHistoryContinuity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for run := 0; run < 20; run++ {
		s := newState(now)
		total := decimal.Zero
		for i := 0; i < 1+rng.IntN(60); i++ {
			at := now.Add(-time.Duration(rng.IntN(400*24)) * time.Hour)
			amount := decimal.NewFromInt(int64(rng.IntN(100000))).Shift(-2)
			tx := deposit(at, "0")
			if rng.IntN(2) == 0 {
				tx = withdrawal(at, "0")
			}
			tx.Amount = amount
			s.AddTransaction(tx)
			total = total.Add(tx.Signed())
		}

		n := 1 + rng.IntN(40)
		got, err := History(s.Ledger.Transactions, HistoryQuery{Intervals: n}, now)
		require.NoError(t, err)
		require.Len(t, got, n)
		for k := 0; k+1 < len(got); k++ {
			assert.True(t, got[k].Close.Equal(got[k+1].Open), "run %d bucket %d: close %s != next open %s", run, k, got[k].Close, got[k+1].Open)
			assert.True(t, got[k].Timestamp.Before(got[k+1].Timestamp) || got[k].Timestamp.Equal(got[k+1].Timestamp))
		}
		for _, iv := range got {
			assert.True(t, iv.High.GreaterThanOrEqual(iv.Open) && iv.High.GreaterThanOrEqual(iv.Close))
			assert.True(t, iv.Low.LessThanOrEqual(iv.Open) && iv.Low.LessThanOrEqual(iv.Close))
		}
		assert.True(t, got[len(got)-1].Close.Equal(total), "run %d: final close %s, want %s", run, got[len(got)-1].Close, total)
	}
}

func TestHistoryTieBreaksOnID(t *testing.T) {
	now := day(2024, time.March, 1)
	txs := []models.Transaction{
		{ID: 2, Date: now, Amount: dec("50"), Type: models.Withdrawal},
		{ID: 1, Date: now, Amount: dec("100"), Type: models.Deposit},
	}
	got, err := History(txs, HistoryQuery{Intervals: 1}, now)
	require.NoError(t, err)
	assertDec(t, "100", got[0].High)
	assertDec(t, "0", got[0].Low)
	assertDec(t, "50", got[0].Close)
}

func TestHistoryEmptyLedger(t *testing.T) {
	now := day(2024, time.March, 1)
	got, err := History(nil, HistoryQuery{Intervals: 3}, now)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, iv := range got {
		assertDec(t, "0", iv.Open)
		assertDec(t, "0", iv.Close)
		assertDec(t, "0", iv.Volume)
	}
}

func TestHistoryMonthUnit(t *testing.T) {
	now := day(2024, time.June, 10)
	s := newState(now)
	s.AddTransaction(deposit(now.AddDate(0, -4, -1), "500"))
	s.AddTransaction(withdrawal(now.AddDate(0, -3, -1), "100"))
	s.AddTransaction(withdrawal(now.AddDate(0, -2, -1), "200"))
	s.AddTransaction(deposit(now.AddDate(0, -1, -1), "400"))
	s.AddTransaction(withdrawal(now.AddDate(0, 0, -1), "300"))

	got, err := History(s.Ledger.Transactions, HistoryQuery{Intervals: 2, Unit: UnitMonth}, now)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The three oldest transactions fold into the opening balance.
	assertDec(t, "200", got[0].Open)
	assertDec(t, "600", got[0].Close)
	assertDec(t, "600", got[0].High)
	assertDec(t, "200", got[0].Low)
	assertDec(t, "400", got[0].Volume)

	assertDec(t, "600", got[1].Open)
	assertDec(t, "300", got[1].Close)
	assertDec(t, "300", got[1].Volume)
}

func TestParseIntervalCount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: DefaultIntervals},
		{raw: "5", want: 5},
		{raw: " 1 ", want: 1},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseIntervalCount(tt.raw, DefaultIntervals)
			if tt.wantErr {
				var invalid *errs.InvalidParameterError
				require.True(t, errors.As(err, &invalid), "expected InvalidParameterError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryRejectsNonPositiveCount(t *testing.T) {
	_, err := History(nil, HistoryQuery{Intervals: 0}, time.Now())
	var invalid *errs.InvalidParameterError
	require.ErrorAs(t, err, &invalid)
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("Month")
	require.NoError(t, err)
	assert.Equal(t, UnitMonth, u)

	_, err = ParseUnit("fortnight")
	var invalid *errs.InvalidParameterError
	require.ErrorAs(t, err, &invalid)
}
