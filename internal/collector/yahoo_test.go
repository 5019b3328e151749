package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"DeskDisplay/internal/model"
)

const dailyDoc = `{"chart":{"result":[{"meta":{"regularMarketPrice":101.5,"chartPreviousClose":100.0,
"regularMarketDayHigh":104.0,"regularMarketDayLow":97.0},
"indicators":{"quote":[{"high":[103.0],"low":[98.0],"close":[101.5]}]}}],"error":null}}`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewYahooFetcher(srv.URL, "")
}

func TestYahooFetcher_FetchQuote(t *testing.T) {
	var gotPath, gotInterval string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(dailyDoc))
	})

	q, err := f.FetchQuote(context.Background(), "^GSPC")
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}
	if gotPath != "/v8/finance/chart/^GSPC" {
		t.Errorf("path = %q", gotPath)
	}
	if gotInterval != "1d" {
		t.Errorf("interval = %q, want 1d", gotInterval)
	}
	if q.Price != 101.5 || q.PreviousClose != 100 {
		t.Errorf("price/prev = %v/%v", q.Price, q.PreviousClose)
	}
	// Daily bar wins over meta range.
	if q.DayHigh != 103 || q.DayLow != 98 {
		t.Errorf("high/low = %v/%v, want 103/98", q.DayHigh, q.DayLow)
	}
	if q.Change != 1.5 {
		t.Errorf("change = %v, want 1.5", q.Change)
	}
	if d := q.ChangePercent - 0.015; d > 1e-9 || d < -1e-9 {
		t.Errorf("change percent = %v, want 0.015", q.ChangePercent)
	}
}

func TestYahooFetcher_FetchQuote_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, "boom", ErrTransport},
		{"not json", http.StatusOK, "<html>", ErrDecode},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, ErrDecode},
		{"empty result", http.StatusOK, `{"chart":{"result":[]}}`, ErrDecode},
		{"missing price", http.StatusOK, `{"chart":{"result":[{"meta":{}}]}}`, ErrDecode},
	}
	for _, tt := range tests {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		})
		_, err := f.FetchQuote(context.Background(), "ACN")
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestYahooFetcher_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	f := NewYahooFetcher(srv.URL, "")
	if _, err := f.FetchQuote(context.Background(), "ACN"); !errors.Is(err, ErrTransport) {
		t.Errorf("err = %v, want ErrTransport", err)
	}
}

func TestYahooFetcher_FetchIntraday_SkipsNulls(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") != "2m" {
			t.Errorf("interval = %q, want 2m", r.URL.Query().Get("interval"))
		}
		w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[100.1,null,100.3,null,100.2]}]}}]}}`))
	})
	s, err := f.FetchIntraday(context.Background(), "ACN")
	if err != nil {
		t.Fatalf("FetchIntraday: %v", err)
	}
	want := []float64{100.1, 100.3, 100.2}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestYahooFetcher_FetchIntraday_CapsAtCapacity(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"chart":{"result":[{"indicators":{"quote":[{"close":[`)
	for i := 0; i < model.SeriesCapacity+20; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("100.5")
	}
	b.WriteString(`]}]}}]}}`)
	body := b.String()

	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	s, err := f.FetchIntraday(context.Background(), "ACN")
	if err != nil {
		t.Fatalf("FetchIntraday: %v", err)
	}
	if s.Count != model.SeriesCapacity {
		t.Errorf("count = %d, want %d", s.Count, model.SeriesCapacity)
	}
}
