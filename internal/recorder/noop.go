package recorder

import "DeskDisplay/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordQuote(_ *QuoteSnapshot) error             { return nil }
func (n *NoopRecorder) RecordHousekeeping(_ *HousekeepingEvent) error  { return nil }
func (n *NoopRecorder) LatestQuotes(_ []string) ([]model.Quote, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                   { return nil }
