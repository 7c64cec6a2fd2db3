package ledger

import (
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// ResolveRequests applies the transaction to at most one open request whose
// amount equals the transaction amount and whose due date lies strictly
// after it. The earliest due request wins, then the lowest id. It returns
// the id of the request matched.
func ResolveRequests(s *State, txnID int64) (int64, bool) {
	t, ok := s.Transaction(txnID)
	if !ok || t.IsTransfer() {
		return 0, false
	}

	var target *models.PaymentRequest
	for i := range s.Ledger.Requests {
		r := &s.Ledger.Requests[i]
		if !r.Open() || !r.Amount.Equal(t.Amount) || !t.Date.Before(r.DueDate) {
			continue
		}
		if target == nil || r.DueDate.Before(target.DueDate) ||
			(r.DueDate.Equal(target.DueDate) && r.ID < target.ID) {
			target = r
		}
	}
	if target == nil {
		return 0, false
	}

	target.Transactions = append(target.Transactions, t.ID)
	if target.Remaining() == 0 {
		target.Filled = true
	}
	return target.ID, true
}

// ExpireRequests closes every open request whose due date is not after the
// system time. Expired requests never match again.
func ExpireRequests(s *State) []int64 {
	now := s.SystemTime()
	var expired []int64
	for i := range s.Ledger.Requests {
		r := &s.Ledger.Requests[i]
		if r.Open() && !now.Before(r.DueDate) {
			r.Expired = true
			expired = append(expired, r.ID)
		}
	}
	return expired
}
