package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// step submits through the pipeline and returns what the emitter raised.
func step(s *State, t models.Transaction) []models.UserMessage {
	before := Observe(s)
	submit(s, t)
	return Emit(s, before)
}

func kinds(msgs []models.UserMessage) []models.MessageType {
	out := make([]models.MessageType, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestEmitBalanceTransitions(t *testing.T) {
	now := day(2024, time.May, 1)
	s := newState(now)

	msgs := step(s, deposit(now, "100"))
	assert.Equal(t, []models.MessageType{models.MessageInfo}, kinds(msgs), "first deposit is a new high")

	msgs = step(s, withdrawal(now.Add(time.Hour), "100"))
	assert.Empty(t, msgs, "zero balance is not negative")

	msgs = step(s, withdrawal(now.Add(2*time.Hour), "1"))
	assert.Equal(t, []models.MessageType{models.MessageWarning}, kinds(msgs))

	msgs = step(s, withdrawal(now.Add(3*time.Hour), "1"))
	assert.Empty(t, msgs, "already negative")

	msgs = step(s, deposit(now.Add(4*time.Hour), "102"))
	assert.Empty(t, msgs, "back to 100 is not above the previous high")

	msgs = step(s, deposit(now.Add(5*time.Hour), "0.01"))
	assert.Equal(t, []models.MessageType{models.MessageInfo}, kinds(msgs))
	assertDec(t, "100.01", s.Ledger.Meta.HighestBalance)
}

func TestEmitIgnoresBackdatedDip(t *testing.T) {
	now := day(2024, time.May, 1)
	s := newState(now)
	step(s, deposit(now.AddDate(0, 0, 9), "100"))
	step(s, deposit(now.AddDate(0, 0, 19), "100"))

	// The running balance sits at -150 on the 5th, but the account closes at 50.
	msgs := step(s, withdrawal(now.AddDate(0, 0, 4), "150"))
	assert.Empty(t, msgs)
	assertDec(t, "50", s.Balance())
}

func TestEmitRequestTransitions(t *testing.T) {
	now := day(2024, time.May, 1)
	s := newState(now)
	step(s, deposit(now, "10"))

	before := Observe(s)
	filled := addRequest(s, "25", now.AddDate(0, 1, 0), 1)
	addRequest(s, "99", now.AddDate(0, 0, 10), 1)
	assert.Empty(t, Emit(s, before))

	msgs := step(s, deposit(now.AddDate(0, 0, 1), "25"))
	require.Len(t, msgs, 2)
	assert.Equal(t, models.MessageInfo, msgs[0].Type, "new high")
	assert.Equal(t, models.MessageInfo, msgs[1].Type, "request filled")
	assert.Contains(t, msgs[1].Message, "filled")

	msgs = step(s, withdrawal(now.AddDate(0, 0, 20), "1"))
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MessageWarning, msgs[0].Type)
	assert.Contains(t, msgs[0].Message, "expired")

	r, _ := s.Request(filled)
	assert.True(t, r.Filled)
}

func TestEmitGoalCompleted(t *testing.T) {
	s := newState(day(2024, time.January, 1))
	step(s, deposit(time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC), "500"))
	addGoal(s, "phone", "100", "100", "0")

	msgs := step(s, deposit(time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC), "1"))
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MessageInfo, msgs[0].Type)
	assert.Contains(t, msgs[0].Message, "phone")

	msgs = step(s, deposit(time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC), "1"))
	assert.Empty(t, msgs, "completion is announced once")
}

func TestMarkRead(t *testing.T) {
	now := day(2024, time.May, 1)
	s := newState(now)
	msgs := step(s, deposit(now, "5"))
	require.Len(t, msgs, 1)

	m, err := MarkRead(s, msgs[0].ID)
	require.NoError(t, err)
	assert.True(t, m.Read)

	m, err = MarkRead(s, msgs[0].ID)
	require.NoError(t, err)
	assert.True(t, m.Read)

	_, err = MarkRead(s, msgs[0].ID+1)
	var notFound *errs.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
