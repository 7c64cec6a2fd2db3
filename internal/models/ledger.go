package models

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Sequences holds the last id issued per entity kind. Ids are never reused,
// so a higher id always means a more recently created entity.
type Sequences struct {
	Transaction int64 `json:"transaction"`
	Rule        int64 `json:"rule"`
	Goal        int64 `json:"goal"`
	Request     int64 `json:"request"`
	Message     int64 `json:"message"`
}

type AccountMeta struct {
	HighestBalance decimal.Decimal `json:"highestBalance"`
	Sequences      Sequences       `json:"sequences"`
}

func (m AccountMeta) Equal(o AccountMeta) bool {
	return m.HighestBalance.Equal(o.HighestBalance) && m.Sequences == o.Sequences
}

// Ledger is everything stored for one account.
type Ledger struct {
	AccountID    string
	Transactions []Transaction
	Rules        []CategoryRule
	Goals        []SavingGoal
	Requests     []PaymentRequest
	Messages     []UserMessage
	Meta         AccountMeta
}

func NewLedger(accountID string) *Ledger {
	return &Ledger{
		AccountID: accountID,
		Meta:      AccountMeta{HighestBalance: decimal.Zero},
	}
}

// Clone returns a deep copy safe to mutate independently.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{
		AccountID:    l.AccountID,
		Transactions: make([]Transaction, len(l.Transactions)),
		Rules:        slices.Clone(l.Rules),
		Goals:        slices.Clone(l.Goals),
		Requests:     make([]PaymentRequest, len(l.Requests)),
		Messages:     slices.Clone(l.Messages),
		Meta:         l.Meta,
	}
	for i, t := range l.Transactions {
		out.Transactions[i] = t.clone()
	}
	for i, r := range l.Requests {
		out.Requests[i] = r.clone()
	}
	return out
}

// Changes lists the entities of one kind to write and the ids to remove.
type Changes[T any] struct {
	Upserted []T
	Deleted  []int64
}

func (c Changes[T]) Empty() bool {
	return len(c.Upserted) == 0 && len(c.Deleted) == 0
}

// Changeset is the unit a ledger store commits atomically.
type Changeset struct {
	AccountID    string
	Meta         AccountMeta
	MetaChanged  bool
	Transactions Changes[Transaction]
	Rules        Changes[CategoryRule]
	Goals        Changes[SavingGoal]
	Requests     Changes[PaymentRequest]
	Messages     Changes[UserMessage]
}

func (c *Changeset) Empty() bool {
	return !c.MetaChanged &&
		c.Transactions.Empty() &&
		c.Rules.Empty() &&
		c.Goals.Empty() &&
		c.Requests.Empty() &&
		c.Messages.Empty()
}

// Apply writes the changeset into l in place.
func (l *Ledger) Apply(cs *Changeset) {
	l.Meta = cs.Meta
	l.Transactions = applyChanges(l.Transactions, cs.Transactions, func(t Transaction) int64 { return t.ID })
	l.Rules = applyChanges(l.Rules, cs.Rules, func(r CategoryRule) int64 { return r.ID })
	l.Goals = applyChanges(l.Goals, cs.Goals, func(g SavingGoal) int64 { return g.ID })
	l.Requests = applyChanges(l.Requests, cs.Requests, func(p PaymentRequest) int64 { return p.ID })
	l.Messages = applyChanges(l.Messages, cs.Messages, func(m UserMessage) int64 { return m.ID })
}

func applyChanges[T any](items []T, c Changes[T], id func(T) int64) []T {
	if c.Empty() {
		return items
	}
	drop := make(map[int64]struct{}, len(c.Deleted)+len(c.Upserted))
	for _, d := range c.Deleted {
		drop[d] = struct{}{}
	}
	for _, u := range c.Upserted {
		drop[id(u)] = struct{}{}
	}
	out := make([]T, 0, len(items)+len(c.Upserted))
	for _, it := range items {
		if _, ok := drop[id(it)]; !ok {
			out = append(out, it)
		}
	}
	out = append(out, c.Upserted...)
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}
