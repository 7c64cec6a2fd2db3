package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

func TestChangesRoundTrip(t *testing.T) {
	now := day(2024, time.May, 1)
	s := newState(now)
	keep := s.AddTransaction(deposit(now, "10")).ID
	drop := s.AddTransaction(deposit(now, "20")).ID
	s.AddRule(models.CategoryRule{Category: models.Category{ID: 1, Name: "x"}})

	before := s.Ledger.Clone()
	after := before.Clone()
	st := NewState(after, now)
	require.True(t, st.RemoveTransaction(drop))
	tx, _ := st.Transaction(keep)
	tx.Description = "edited"
	st.AddTransaction(withdrawal(now, "1"))

	cs := Changes(before, after)
	assert.Equal(t, []int64{drop}, cs.Transactions.Deleted)
	assert.Len(t, cs.Transactions.Upserted, 2)
	assert.True(t, cs.Rules.Empty())
	assert.True(t, cs.MetaChanged, "sequence advanced")

	before.Apply(cs)
	assert.True(t, Changes(before, after).Empty())
}

func TestCloneIsIndependent(t *testing.T) {
	now := day(2024, time.May, 1)
	s := newState(now)
	tx := deposit(now, "10")
	tx.Category = &models.Category{ID: 1, Name: "a"}
	s.AddTransaction(tx)
	s.AddRequest(models.PaymentRequest{Amount: dec("1"), NumberOfRequests: 2, Transactions: []int64{1}})

	c := s.Ledger.Clone()
	c.Transactions[0].Category.Name = "b"
	c.Requests[0].Transactions[0] = 99

	assert.Equal(t, "a", s.Ledger.Transactions[0].Category.Name)
	assert.Equal(t, int64(1), s.Ledger.Requests[0].Transactions[0])
}
