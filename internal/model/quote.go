package model

import "time"

// SeriesCapacity is the number of intraday samples kept for one session.
const SeriesCapacity = 195

// Quote holds the latest point-in-time price snapshot for one symbol.
type Quote struct {
	Symbol        string
	Price         float64
	PreviousClose float64
	DayHigh       float64
	DayLow        float64
	Change        float64
	ChangePercent float64 // fraction: 0.0125 means +1.25%
}

// Recompute derives Change and ChangePercent. Both are zero when the previous close is unknown.
func (q *Quote) Recompute() {
	if q.PreviousClose == 0 {
		q.Change = 0
		q.ChangePercent = 0
		return
	}
	q.Change = q.Price - q.PreviousClose
	q.ChangePercent = q.Price/q.PreviousClose - 1
}

// Captured reports whether a price has ever been recorded.
func (q *Quote) Captured() bool {
	return q.Price != 0
}

// IntradaySeries holds the sampled prices of the current trading session.
type IntradaySeries struct {
	Samples [SeriesCapacity]float64
	Count   int
}

// Append stores a sample. Samples beyond capacity are dropped and reported as false.
func (s *IntradaySeries) Append(v float64) bool {
	if s.Count >= SeriesCapacity {
		return false
	}
	s.Samples[s.Count] = v
	s.Count++
	return true
}

// Values returns the populated part of the series.
func (s *IntradaySeries) Values() []float64 {
	return s.Samples[:s.Count]
}

// RefreshState tracks how fresh a symbol's quote is.
type RefreshState struct {
	FinalSampleTaken bool // closing sample of the session already captured
	LastRefresh      time.Time
}

// Record groups everything kept for one tracked symbol.
type Record struct {
	Symbol  string
	Quote   Quote
	Series  IntradaySeries
	Refresh RefreshState
}

// NewRecord returns an empty record for symbol.
func NewRecord(symbol string) *Record {
	return &Record{Symbol: symbol, Quote: Quote{Symbol: symbol}}
}
