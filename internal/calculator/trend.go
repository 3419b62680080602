package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"FuelSentinel/internal/model"
)

// ComputeTrend derives the signed delta and direction between two prices.
// A nil previous price means the series has no earlier point; it falls back
// to the current price, which reports a zero delta and an upward direction.
func ComputeTrend(category model.Category, asOf time.Time, current decimal.Decimal, previous *decimal.Decimal) model.Trend {
	prev := current
	if previous != nil {
		prev = *previous
	}

	// shopspring Round is half away from zero
	delta := current.Sub(prev).Round(2)

	dir := model.Up
	if delta.IsNegative() {
		dir = model.Down
	}

	return model.Trend{
		Category:  category,
		AsOf:      asOf,
		Current:   current,
		Previous:  prev,
		Delta:     delta,
		Direction: dir,
	}
}

// TrendFromSeries computes the trend from the two newest points of a series.
// Returns false if the series is empty.
func TrendFromSeries(series model.PriceSeries, asOf time.Time) (model.Trend, bool) {
	latest, ok := series.Latest()
	if !ok {
		return model.Trend{}, false
	}
	var previous *decimal.Decimal
	if p, ok := series.Previous(); ok {
		previous = &p.Price
	}
	return ComputeTrend(series.Category, asOf, latest.Price, previous), true
}
