package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/models"
)

type transferKey struct {
	goal  int64
	month int64 // unix millis of the month start
}

type goalRun struct {
	goal  *models.SavingGoal
	saved decimal.Decimal
	done  bool
}

// ApplyGoals replays every active goal over the whole timeline and rewrites
// their transfers. At the first instant of each month after a goal was
// created, the goal takes min(savePerMonth, remaining) if the running balance
// is at least minBalanceRequired. Goals are visited in id order within a
// month. Completed goals keep their transfers untouched. A transfer keeps its
// transaction id across replays, so replaying is idempotent. It returns the
// ids of goals completed by this pass.
func ApplyGoals(s *State) []int64 {
	l := s.Ledger

	var runs []*goalRun
	for i := range l.Goals {
		if !l.Goals[i].Completed {
			runs = append(runs, &goalRun{goal: &l.Goals[i], saved: decimal.Zero})
		}
	}
	slices.SortFunc(runs, func(a, b *goalRun) int { return cmp.Compare(a.goal.ID, b.goal.ID) })

	var (
		kept     = make([]models.Transaction, 0, len(l.Transactions))
		timeline []models.Transaction
		frozen   []models.Transaction
		previous = make(map[transferKey]int64)
	)
	for _, t := range l.Transactions {
		if t.IsTransfer() {
			g, ok := s.Goal(*t.SavingGoalID)
			if !ok {
				continue
			}
			if !g.Completed {
				previous[transferKey{goal: g.ID, month: t.Date.UnixMilli()}] = t.ID
				continue
			}
			frozen = append(frozen, t)
		} else {
			timeline = append(timeline, t)
		}
		kept = append(kept, t)
	}

	// Without user transactions no month has elapsed, so active goals hold
	// nothing and their old transfers go.
	if len(runs) == 0 || len(timeline) == 0 {
		for _, run := range runs {
			run.goal.Balance = decimal.Zero
		}
		if len(kept) != len(l.Transactions) {
			l.Transactions = kept
			s.reindex()
		}
		return nil
	}

	slices.SortFunc(timeline, compareChrono)
	slices.SortFunc(frozen, compareTransfers)

	end := timeline[len(timeline)-1].Date
	earliest := runs[0].goal.CreatedAt
	for _, r := range runs[1:] {
		if r.goal.CreatedAt.Before(earliest) {
			earliest = r.goal.CreatedAt
		}
	}

	var (
		transfers []models.Transaction
		running   = decimal.Zero
		ti, fi    int
	)
	for m := firstMonthAfter(earliest); !m.After(end) && !allDone(runs); m = m.AddDate(0, 1, 0) {
		for ti < len(timeline) && timeline[ti].Date.Before(m) {
			running = running.Add(timeline[ti].Signed())
			ti++
		}
		for fi < len(frozen) && frozen[fi].Date.Before(m) {
			running = running.Add(frozen[fi].Signed())
			fi++
		}

		// Frozen transfers dated m interleave with active goals by goal id.
		ri := 0
		for ri < len(runs) || (fi < len(frozen) && frozen[fi].Date.Equal(m)) {
			if fi < len(frozen) && frozen[fi].Date.Equal(m) &&
				(ri == len(runs) || *frozen[fi].SavingGoalID < runs[ri].goal.ID) {
				running = running.Add(frozen[fi].Signed())
				fi++
				continue
			}
			run := runs[ri]
			ri++
			if run.done || !run.goal.CreatedAt.Before(m) || running.LessThan(run.goal.MinBalanceRequired) {
				continue
			}
			amount := decimal.Min(run.goal.SavePerMonth, run.goal.Goal.Sub(run.saved))
			if !amount.IsPositive() {
				run.done = true
				continue
			}

			key := transferKey{goal: run.goal.ID, month: m.UnixMilli()}
			id, ok := previous[key]
			if !ok {
				id = next(&l.Meta.Sequences.Transaction)
			}
			goalID := run.goal.ID
			transfers = append(transfers, models.Transaction{
				ID:           id,
				Date:         m,
				Amount:       amount,
				Type:         models.Withdrawal,
				Description:  "Saving goal: " + run.goal.Name,
				SavingGoalID: &goalID,
			})
			running = running.Sub(amount)
			run.saved = run.saved.Add(amount)
			if !run.saved.LessThan(run.goal.Goal) {
				run.done = true
			}
		}
	}

	var completed []int64
	for _, run := range runs {
		run.goal.Balance = run.saved
		if run.done {
			run.goal.Completed = true
			completed = append(completed, run.goal.ID)
		}
	}

	l.Transactions = append(kept, transfers...)
	s.reindex()
	return completed
}

func compareTransfers(a, b models.Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return cmp.Compare(*a.SavingGoalID, *b.SavingGoalID)
}

// firstMonthAfter returns the first month start strictly after t, in UTC.
func firstMonthAfter(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

func allDone(runs []*goalRun) bool {
	for _, r := range runs {
		if !r.done {
			return false
		}
	}
	return true
}
