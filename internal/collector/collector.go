package collector

import (
	"context"
	"log"
	"time"

	"DeskDisplay/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Quote       model.Quote
	Series      model.IntradaySeries
	QuoteErr    error
	IntradayErr error
	// Errs overrides QuoteErr per symbol.
	Errs map[string]error

	QuoteCalls    int
	IntradayCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	m.QuoteCalls++
	if err, ok := m.Errs[symbol]; ok && err != nil {
		return model.Quote{}, err
	}
	if m.QuoteErr != nil {
		return model.Quote{}, m.QuoteErr
	}
	q := m.Quote
	q.Symbol = symbol
	q.Recompute()
	return q, nil
}

func (m *MockFetcher) FetchIntraday(_ context.Context, _ string) (model.IntradaySeries, error) {
	m.IntradayCalls++
	if m.IntradayErr != nil {
		return model.IntradaySeries{}, m.IntradayErr
	}
	return m.Series, nil
}

// Collector applies the refresh policy around a Fetcher. It mutates records in
// place and only on success, so a failed fetch leaves the last good data shown.
type Collector struct {
	Fetcher Fetcher
	Session Session
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, session Session) *Collector {
	return &Collector{Fetcher: fetcher, Session: session}
}

// IsMarketOpen reports whether the regular session is open at now.
func (c *Collector) IsMarketOpen(now time.Time) bool {
	return c.Session.IsOpen(now)
}

// IsRefreshWorthy reports whether polling rec at now can change what is shown:
// the market is open, nothing was ever captured, or the closing sample is still missing.
func (c *Collector) IsRefreshWorthy(rec *model.Record, now time.Time) bool {
	return c.IsMarketOpen(now) || !rec.Quote.Captured() || !rec.Refresh.FinalSampleTaken
}

// RefreshQuote fetches a new quote into rec when refresh-worthy. It reports
// whether rec changed. Errors are logged, never returned.
func (c *Collector) RefreshQuote(ctx context.Context, rec *model.Record, now time.Time) bool {
	if !c.IsRefreshWorthy(rec, now) {
		return false
	}
	open := c.IsMarketOpen(now)

	q, err := c.Fetcher.FetchQuote(ctx, rec.Symbol)
	if err != nil {
		log.Printf("[ERROR] fetch quote %s: %v", rec.Symbol, err)
		return false
	}
	q.Symbol = rec.Symbol
	q.Recompute()
	rec.Quote = q
	rec.Refresh.FinalSampleTaken = !open
	rec.Refresh.LastRefresh = now
	log.Printf("[INFO] quote %s: %.2f (%+.2f) final=%v", rec.Symbol, q.Price, q.Change, !open)
	return true
}

// RefreshIntraday replaces rec's series with a fresh one. On error the
// previous series is kept.
func (c *Collector) RefreshIntraday(ctx context.Context, rec *model.Record) bool {
	series, err := c.Fetcher.FetchIntraday(ctx, rec.Symbol)
	if err != nil {
		log.Printf("[ERROR] fetch intraday %s: %v", rec.Symbol, err)
		return false
	}
	rec.Series = series
	return true
}
