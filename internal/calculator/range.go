package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"FuelSentinel/internal/model"
)

// ErrEmptySeries is returned when a summary is requested for a series without points.
var ErrEmptySeries = errors.New("no price points provided")

// PriceRange scans the series and returns the lowest and highest price.
func PriceRange(series model.PriceSeries) (low, high decimal.Decimal, err error) {
	if len(series.Points) == 0 {
		return decimal.Zero, decimal.Zero, ErrEmptySeries
	}
	low = series.Points[0].Price
	high = series.Points[0].Price
	for _, p := range series.Points[1:] {
		if p.Price.GreaterThan(high) {
			high = p.Price
		}
		if p.Price.LessThan(low) {
			low = p.Price
		}
	}
	return low, high, nil
}
