package recorder

import (
	"time"

	"DeskDisplay/internal/model"
)

// QuoteSnapshot is one successful quote refresh.
type QuoteSnapshot struct {
	Quote   model.Quote
	TakenAt time.Time
	Final   bool // closing sample of the session
}

// HousekeepingEvent records a daily maintenance action.
type HousekeepingEvent struct {
	Kind   string // "CLOCK_SYNC", "BRIGHTNESS"
	Detail string
	At     time.Time
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordQuote(snap *QuoteSnapshot) error
	RecordHousekeeping(evt *HousekeepingEvent) error
	// LatestQuotes returns the newest recorded quote per symbol. Symbols never
	// recorded are omitted.
	LatestQuotes(symbols []string) ([]model.Quote, error)
	Close() error
}
