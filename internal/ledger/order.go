package ledger

import (
	"cmp"
	"slices"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// compareChrono orders by timestamp, then by id for transactions sharing one.
func compareChrono(a, b models.Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Chronological returns a sorted copy of txs.
func Chronological(txs []models.Transaction) []models.Transaction {
	out := slices.Clone(txs)
	slices.SortFunc(out, compareChrono)
	return out
}
