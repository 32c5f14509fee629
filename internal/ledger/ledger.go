// Package ledger is the transactional boundary for every ledger mutation.
//
// Writes go to the store as single atomic calls. Cached balances are
// invalidated only once a write has committed; a failed or cancelled write
// leaves the cache untouched and its error is returned unchanged.
package ledger

import (
	"github.com/mmynk/splitledger/internal/balance"
	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger validates and applies mutations to users, groups and expenses.
type Ledger struct {
	store    storage.Store
	balances *balance.Aggregator
	metrics  *metrics.Metrics
}

// New creates a Ledger. m may be nil.
func New(store storage.Store, balances *balance.Aggregator, m *metrics.Metrics) *Ledger {
	return &Ledger{
		store:    store,
		balances: balances,
		metrics:  m,
	}
}

// observe records a mutation outcome and passes err through.
func (l *Ledger) observe(operation string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = errs.KindOf(err).String()
	}
	l.metrics.ObserveMutation(operation, outcome)
	return err
}

// union returns the distinct non-empty IDs across lists, in first-seen order.
func union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, id := range list {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
