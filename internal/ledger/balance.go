package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

const (
	DefaultIntervals = 24
	MaxIntervals     = 10000
)

// Unit selects calendar-aligned buckets instead of an equal split of the
// account's lifetime.
type Unit string

const (
	UnitNone  Unit = ""
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

type HistoryQuery struct {
	Intervals int
	Unit      Unit
}

// ParseIntervalCount reads the raw intervals parameter. Blank means fallback.
func ParseIntervalCount(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidParameterError("intervals must be an integer, got %q", raw)
	}
	if n < 1 || n > MaxIntervals {
		return 0, errs.NewInvalidParameterError("intervals must be between 1 and %d, got %d", MaxIntervals, n)
	}
	return n, nil
}

func ParseUnit(raw string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(raw)))
	switch u {
	case UnitNone, UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear:
		return u, nil
	}
	return UnitNone, errs.NewInvalidParameterError("unknown interval %q", raw)
}

// History partitions the timeline into q.Intervals buckets and reports the
// running balance OHLC and volume of each, oldest first.
func History(txs []models.Transaction, q HistoryQuery, now time.Time) ([]models.BalanceInterval, error) {
	if q.Intervals < 1 || q.Intervals > MaxIntervals {
		return nil, errs.NewInvalidParameterError("intervals must be between 1 and %d, got %d", MaxIntervals, q.Intervals)
	}
	ordered := Chronological(txs)
	bounds := q.bounds(ordered, now.UTC())

	running := decimal.Zero
	i := 0
	for i < len(ordered) && ordered[i].Date.Before(bounds[0]) {
		running = running.Add(ordered[i].Signed())
		i++
	}

	out := make([]models.BalanceInterval, q.Intervals)
	for k := range out {
		iv := models.BalanceInterval{
			Open:      running,
			High:      running,
			Low:       running,
			Volume:    decimal.Zero,
			Timestamp: bounds[k+1],
		}
		last := k == len(out)-1
		for i < len(ordered) && (last || ordered[i].Date.Before(bounds[k+1])) {
			t := ordered[i]
			running = running.Add(t.Signed())
			iv.Volume = iv.Volume.Add(t.Amount.Abs())
			iv.High = decimal.Max(iv.High, running)
			iv.Low = decimal.Min(iv.Low, running)
			i++
		}
		iv.Close = running
		out[k] = iv
	}
	return out, nil
}

// bounds returns Intervals+1 instants; bucket k is [bounds[k], bounds[k+1]).
// The last bucket also takes everything at or after its end.
func (q HistoryQuery) bounds(ordered []models.Transaction, now time.Time) []time.Time {
	n := q.Intervals
	b := make([]time.Time, n+1)

	if q.Unit != UnitNone {
		for k := 0; k <= n; k++ {
			b[k] = q.Unit.back(now, n-k)
		}
		return b
	}

	start, end := now, now
	if len(ordered) > 0 {
		start = ordered[0].Date
		if latest := ordered[len(ordered)-1].Date; latest.After(end) {
			end = latest
		}
	}
	if !end.After(start) {
		for k := range b {
			b[k] = start
		}
		return b
	}

	span := end.Sub(start)
	step, rem := span/time.Duration(n), span%time.Duration(n)
	for k := 0; k <= n; k++ {
		b[k] = start.Add(step*time.Duration(k) + rem*time.Duration(k)/time.Duration(n))
	}
	b[n] = end
	return b
}

func (u Unit) back(t time.Time, steps int) time.Time {
	switch u {
	case UnitHour:
		return t.Add(-time.Duration(steps) * time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, -steps)
	case UnitWeek:
		return t.AddDate(0, 0, -7*steps)
	case UnitMonth:
		return t.AddDate(0, -steps, 0)
	case UnitYear:
		return t.AddDate(-steps, 0, 0)
	}
	return t
}
