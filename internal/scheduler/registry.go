package scheduler

import "DeskDisplay/internal/model"

// Registry owns the per-symbol records, in display order.
type Registry struct {
	order   []string
	records map[string]*model.Record
}

// NewRegistry creates a record for every symbol.
func NewRegistry(symbols ...string) *Registry {
	r := &Registry{records: make(map[string]*model.Record, len(symbols))}
	for _, s := range symbols {
		r.Get(s)
	}
	return r
}

// Get returns the record for symbol, creating it on first use.
func (r *Registry) Get(symbol string) *model.Record {
	if rec, ok := r.records[symbol]; ok {
		return rec
	}
	rec := model.NewRecord(symbol)
	r.records[symbol] = rec
	r.order = append(r.order, symbol)
	return rec
}

// Symbols returns the tracked symbols in registration order.
func (r *Registry) Symbols() []string {
	return append([]string(nil), r.order...)
}

// Seed restores last known quotes, e.g. from history, without touching
// refresh state: a seeded record still fetches its final sample.
func (r *Registry) Seed(quotes []model.Quote) int {
	n := 0
	for _, q := range quotes {
		rec, ok := r.records[q.Symbol]
		if !ok || rec.Quote.Captured() {
			continue
		}
		rec.Quote = q
		n++
	}
	return n
}
