package calculator

import (
	"github.com/shopspring/decimal"

	"FuelSentinel/internal/model"
)

// Average returns the arithmetic mean of the series prices rounded to 2 decimal places.
func Average(series model.PriceSeries) (decimal.Decimal, error) {
	if len(series.Points) == 0 {
		return decimal.Zero, ErrEmptySeries
	}
	sum := decimal.Zero
	for _, p := range series.Points {
		sum = sum.Add(p.Price)
	}
	return sum.Div(decimal.NewFromInt(int64(len(series.Points)))).Round(2), nil
}
