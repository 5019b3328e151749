package collector

import (
	"context"
	"errors"

	"DeskDisplay/internal/model"
)

var (
	// ErrTransport marks network failures and non-success HTTP statuses.
	ErrTransport = errors.New("transport error")
	// ErrDecode marks malformed or unexpected response documents.
	ErrDecode = errors.New("decode error")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	FetchIntraday(ctx context.Context, symbol string) (model.IntradaySeries, error)
	Name() string
}
