package collector

import (
	"context"
	"time"

	"FuelSentinel/internal/model"
)

// Fetcher defines the interface for querying a fuel price source.
// from and to are inclusive calendar dates.
type Fetcher interface {
	FetchPrices(ctx context.Context, category model.Category, from, to time.Time) (model.PriceSeries, error)
	Name() string
}
