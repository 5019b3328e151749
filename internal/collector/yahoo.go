package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"DeskDisplay/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
// Nullable arrays decode to nil pointers.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice   *float64 `json:"regularMarketPrice"`
				ChartPreviousClose   *float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s", f.BaseURL, url.PathEscape(symbol), interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w: %v", symbol, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: %w: status %d, body: %s", symbol, ErrTransport, resp.StatusCode, truncate(body, 200))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode %s: %w: %v", symbol, ErrDecode, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %w: %s", ErrDecode, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w: no result", symbol, ErrDecode)
	}
	return &chart, nil
}

// FetchQuote requests the daily meta document for symbol.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	chart, err := f.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return model.Quote{}, err
	}
	result := chart.Chart.Result[0]
	meta := result.Meta
	if meta.RegularMarketPrice == nil {
		return model.Quote{}, fmt.Errorf("yahoo %s: %w: missing regularMarketPrice", symbol, ErrDecode)
	}

	q := model.Quote{
		Symbol:        symbol,
		Price:         *meta.RegularMarketPrice,
		PreviousClose: deref(meta.ChartPreviousClose),
		DayHigh:       deref(meta.RegularMarketDayHigh),
		DayLow:        deref(meta.RegularMarketDayLow),
	}
	// The daily bar is authoritative for the range when present.
	if len(result.Indicators.Quote) > 0 {
		bar := result.Indicators.Quote[0]
		if len(bar.High) > 0 && bar.High[0] != nil {
			q.DayHigh = *bar.High[0]
		}
		if len(bar.Low) > 0 && bar.Low[0] != nil {
			q.DayLow = *bar.Low[0]
		}
	}
	q.Recompute()
	return q, nil
}

// FetchIntraday requests the 2-minute close series for symbol. Null samples are
// skipped and samples beyond model.SeriesCapacity are discarded.
func (f *YahooFetcher) FetchIntraday(ctx context.Context, symbol string) (model.IntradaySeries, error) {
	var series model.IntradaySeries
	chart, err := f.fetchChart(ctx, symbol, "2m")
	if err != nil {
		return series, err
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return series, fmt.Errorf("yahoo %s: %w: no quote indicators", symbol, ErrDecode)
	}
	for _, v := range result.Indicators.Quote[0].Close {
		if v == nil {
			continue
		}
		if !series.Append(*v) {
			break
		}
	}
	return series, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
