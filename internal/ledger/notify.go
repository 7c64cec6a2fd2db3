package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// Snapshot records what the emitter compares against after a mutation.
type Snapshot struct {
	Balance   decimal.Decimal
	completed map[int64]bool
	filled    map[int64]bool
	expired   map[int64]bool
}

func Observe(s *State) Snapshot {
	snap := Snapshot{
		Balance:   s.Balance(),
		completed: make(map[int64]bool, len(s.Ledger.Goals)),
		filled:    make(map[int64]bool, len(s.Ledger.Requests)),
		expired:   make(map[int64]bool, len(s.Ledger.Requests)),
	}
	for _, g := range s.Ledger.Goals {
		snap.completed[g.ID] = g.Completed
	}
	for _, r := range s.Ledger.Requests {
		snap.filled[r.ID] = r.Filled
		snap.expired[r.ID] = r.Expired
	}
	return snap
}

// Emit appends one message per transition since before and returns them in
// creation order. The account's highest balance is raised as a side effect.
func Emit(s *State, before Snapshot) []models.UserMessage {
	at := s.SystemTime()
	balance := s.Balance()
	var out []models.UserMessage
	add := func(kind models.MessageType, format string, args ...any) {
		out = append(out, s.addMessage(models.UserMessage{
			Message: fmt.Sprintf(format, args...),
			Date:    at,
			Type:    kind,
		}))
	}

	if !before.Balance.IsNegative() && balance.IsNegative() {
		add(models.MessageWarning, "Your balance dropped below zero: %s.", balance.StringFixed(2))
	}
	if balance.GreaterThan(s.Ledger.Meta.HighestBalance) {
		s.Ledger.Meta.HighestBalance = balance
		add(models.MessageInfo, "New highest balance reached: %s.", balance.StringFixed(2))
	}
	for _, r := range s.Ledger.Requests {
		switch {
		case r.Filled && !before.filled[r.ID]:
			add(models.MessageInfo, "Payment request %q has been filled.", r.Description)
		case r.Expired && !r.Filled && !before.expired[r.ID]:
			add(models.MessageWarning, "Payment request %q expired before it was filled.", r.Description)
		}
	}
	for _, g := range s.Ledger.Goals {
		if g.Completed && !before.completed[g.ID] {
			add(models.MessageInfo, "Saving goal %q has been reached.", g.Name)
		}
	}
	return out
}

// MarkRead flips the read flag. Marking an already read message is a no-op.
func MarkRead(s *State, id int64) (models.UserMessage, error) {
	m, ok := s.Message(id)
	if !ok {
		return models.UserMessage{}, errs.NewNotFoundError("message %d not found", id)
	}
	m.Read = true
	return *m, nil
}
