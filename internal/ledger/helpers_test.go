package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func deposit(at time.Time, amount string) models.Transaction {
	return models.Transaction{Date: at, Amount: dec(amount), Type: models.Deposit, Description: "deposit"}
}

func withdrawal(at time.Time, amount string) models.Transaction {
	return models.Transaction{Date: at, Amount: dec(amount), Type: models.Withdrawal, Description: "withdrawal"}
}

// submit runs the same passes the ledger service runs for a new transaction.
func submit(s *State, t models.Transaction) int64 {
	id := s.AddTransaction(t).ID
	Categorize(s, id)
	ApplyGoals(s)
	ResolveRequests(s, id)
	ExpireRequests(s)
	return id
}

func addGoal(s *State, name, goal, perMonth, minBalance string) int64 {
	id := s.AddGoal(models.SavingGoal{
		Name:               name,
		Goal:               dec(goal),
		SavePerMonth:       dec(perMonth),
		MinBalanceRequired: dec(minBalance),
		Balance:            decimal.Zero,
		CreatedAt:          s.SystemTime(),
	}).ID
	ApplyGoals(s)
	return id
}

func newState(now time.Time) *State {
	return NewState(models.NewLedger("acc"), now)
}
