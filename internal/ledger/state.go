// Package ledger holds the per-account derivation engine: balance history,
// category rules, savings goals, payment requests and user messages. Every
// pass is a synchronous function of a *State and performs no I/O.
package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// State is the working copy of one account's ledger with id indexes.
// Pointers returned by lookups stay valid until the next add or remove.
type State struct {
	Ledger *models.Ledger

	now     time.Time
	txIdx   map[int64]int
	ruleIdx map[int64]int
	goalIdx map[int64]int
	reqIdx  map[int64]int
	msgIdx  map[int64]int
}

// NewState takes ownership of l; pass a clone if the original must survive.
func NewState(l *models.Ledger, now time.Time) *State {
	s := &State{Ledger: l, now: now.UTC()}
	s.reindex()
	return s
}

// Now is the wall clock captured when the state was built.
func (s *State) Now() time.Time { return s.now }

// SystemTime is the timestamp of the latest transaction, or the wall clock
// when the account has none. Goal creation and request expiry use it.
func (s *State) SystemTime() time.Time {
	var latest time.Time
	for _, t := range s.Ledger.Transactions {
		if t.Date.After(latest) {
			latest = t.Date
		}
	}
	if latest.IsZero() {
		return s.now
	}
	return latest
}

// Balance is the account balance after every transaction.
func (s *State) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.Ledger.Transactions {
		total = total.Add(t.Signed())
	}
	return total
}

func (s *State) reindex() {
	l := s.Ledger
	s.txIdx = indexBy(l.Transactions, func(t models.Transaction) int64 { return t.ID })
	s.ruleIdx = indexBy(l.Rules, func(r models.CategoryRule) int64 { return r.ID })
	s.goalIdx = indexBy(l.Goals, func(g models.SavingGoal) int64 { return g.ID })
	s.reqIdx = indexBy(l.Requests, func(p models.PaymentRequest) int64 { return p.ID })
	s.msgIdx = indexBy(l.Messages, func(m models.UserMessage) int64 { return m.ID })
}

func indexBy[T any](items []T, id func(T) int64) map[int64]int {
	idx := make(map[int64]int, len(items))
	for i, it := range items {
		idx[id(it)] = i
	}
	return idx
}

func (s *State) Transaction(id int64) (*models.Transaction, bool) {
	i, ok := s.txIdx[id]
	if !ok {
		return nil, false
	}
	return &s.Ledger.Transactions[i], true
}

func (s *State) Rule(id int64) (*models.CategoryRule, bool) {
	i, ok := s.ruleIdx[id]
	if !ok {
		return nil, false
	}
	return &s.Ledger.Rules[i], true
}

func (s *State) Goal(id int64) (*models.SavingGoal, bool) {
	i, ok := s.goalIdx[id]
	if !ok {
		return nil, false
	}
	return &s.Ledger.Goals[i], true
}

func (s *State) Request(id int64) (*models.PaymentRequest, bool) {
	i, ok := s.reqIdx[id]
	if !ok {
		return nil, false
	}
	return &s.Ledger.Requests[i], true
}

func (s *State) Message(id int64) (*models.UserMessage, bool) {
	i, ok := s.msgIdx[id]
	if !ok {
		return nil, false
	}
	return &s.Ledger.Messages[i], true
}

// AddTransaction assigns the next transaction id and appends t.
func (s *State) AddTransaction(t models.Transaction) *models.Transaction {
	t.ID = next(&s.Ledger.Meta.Sequences.Transaction)
	s.Ledger.Transactions = append(s.Ledger.Transactions, t)
	s.txIdx[t.ID] = len(s.Ledger.Transactions) - 1
	return &s.Ledger.Transactions[len(s.Ledger.Transactions)-1]
}

func (s *State) AddRule(r models.CategoryRule) *models.CategoryRule {
	r.ID = next(&s.Ledger.Meta.Sequences.Rule)
	s.Ledger.Rules = append(s.Ledger.Rules, r)
	s.ruleIdx[r.ID] = len(s.Ledger.Rules) - 1
	return &s.Ledger.Rules[len(s.Ledger.Rules)-1]
}

func (s *State) AddGoal(g models.SavingGoal) *models.SavingGoal {
	g.ID = next(&s.Ledger.Meta.Sequences.Goal)
	s.Ledger.Goals = append(s.Ledger.Goals, g)
	s.goalIdx[g.ID] = len(s.Ledger.Goals) - 1
	return &s.Ledger.Goals[len(s.Ledger.Goals)-1]
}

func (s *State) AddRequest(p models.PaymentRequest) *models.PaymentRequest {
	p.ID = next(&s.Ledger.Meta.Sequences.Request)
	s.Ledger.Requests = append(s.Ledger.Requests, p)
	s.reqIdx[p.ID] = len(s.Ledger.Requests) - 1
	return &s.Ledger.Requests[len(s.Ledger.Requests)-1]
}

func (s *State) addMessage(m models.UserMessage) models.UserMessage {
	m.ID = next(&s.Ledger.Meta.Sequences.Message)
	s.Ledger.Messages = append(s.Ledger.Messages, m)
	s.msgIdx[m.ID] = len(s.Ledger.Messages) - 1
	return m
}

// RemoveTransaction deletes a transaction by id and reports whether it existed.
func (s *State) RemoveTransaction(id int64) bool {
	if _, ok := s.txIdx[id]; !ok {
		return false
	}
	s.Ledger.Transactions = slices.DeleteFunc(s.Ledger.Transactions, func(t models.Transaction) bool { return t.ID == id })
	s.reindex()
	return true
}

func (s *State) RemoveRule(id int64) bool {
	if _, ok := s.ruleIdx[id]; !ok {
		return false
	}
	s.Ledger.Rules = slices.DeleteFunc(s.Ledger.Rules, func(r models.CategoryRule) bool { return r.ID == id })
	s.reindex()
	return true
}

// RemoveGoal deletes the goal together with the transfers it made, releasing
// the saved amount back into the balance.
func (s *State) RemoveGoal(id int64) bool {
	if _, ok := s.goalIdx[id]; !ok {
		return false
	}
	s.Ledger.Goals = slices.DeleteFunc(s.Ledger.Goals, func(g models.SavingGoal) bool { return g.ID == id })
	s.Ledger.Transactions = slices.DeleteFunc(s.Ledger.Transactions, func(t models.Transaction) bool {
		return t.SavingGoalID != nil && *t.SavingGoalID == id
	})
	s.reindex()
	return true
}

func next(seq *int64) int64 {
	*seq++
	return *seq
}
