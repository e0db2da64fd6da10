package service

import (
	"sort"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
)

// Period is an inclusive calendar-date range for statement filtering. A zero
// Start or End leaves that side unbounded. Only the date component of each
// bound is significant: Start counts from 00:00:00 of its day, End up to
// 23:59:59.
type Period struct {
	Start time.Time
	End   time.Time
}

// FilterStatement selects the transactions falling inside the period and
// returns them sorted by timestamp descending (most recent first). The input
// slice is never mutated. With both bounds absent the whole input is returned
// re-sorted.
func FilterStatement(txs []domain.Transaction, p Period) []domain.Transaction {
	var from, to time.Time
	if !p.Start.IsZero() {
		y, m, d := p.Start.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, p.Start.Location())
	}
	if !p.End.IsZero() {
		y, m, d := p.End.Date()
		to = time.Date(y, m, d, 23, 59, 59, 0, p.End.Location())
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !from.IsZero() && tx.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Timestamp.After(to) {
			continue
		}
		out = append(out, tx)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
