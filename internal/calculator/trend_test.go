package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuelSentinel/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestComputeTrend(t *testing.T) {
	asOf := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		current  string
		previous *decimal.Decimal
		delta    string
		dir      model.Direction
	}{
		{name: "price dropped", current: "12.34", previous: ptr(dec("12.50")), delta: "-0.16", dir: model.Down},
		{name: "price rose", current: "21.07", previous: ptr(dec("20.88")), delta: "0.19", dir: model.Up},
		{name: "unchanged reports up", current: "19.99", previous: ptr(dec("19.99")), delta: "0", dir: model.Up},
		{name: "missing previous falls back", current: "10.00", previous: nil, delta: "0", dir: model.Up},
		{name: "rounds half away from zero", current: "10.005", previous: ptr(dec("10")), delta: "0.01", dir: model.Up},
		{name: "rounds negative half away from zero", current: "10", previous: ptr(dec("10.005")), delta: "-0.01", dir: model.Down},
		{name: "tiny drop rounds to zero", current: "10.000", previous: ptr(dec("10.004")), delta: "0", dir: model.Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := ComputeTrend(model.Petrol, asOf, dec(tt.current), tt.previous)
			assert.True(t, dec(tt.delta).Equal(trend.Delta), "delta: want %s, got %s", tt.delta, trend.Delta)
			assert.Equal(t, tt.dir, trend.Direction)
			assert.Equal(t, model.Petrol, trend.Category)
			assert.Equal(t, asOf, trend.AsOf)
		})
	}
}

func TestComputeTrend_DirectionMatchesDeltaSign(t *testing.T) {
	asOf := time.Now()
	prices := []string{"0", "0.004", "0.005", "9.99", "10", "10.01", "25.455", "-1"}
	for _, cur := range prices {
		for _, prev := range prices {
			trend := ComputeTrend(model.Diesel, asOf, dec(cur), ptr(dec(prev)))
			want := dec(cur).Sub(dec(prev)).Round(2)
			require.True(t, want.Equal(trend.Delta), "%s-%s", cur, prev)
			if want.IsNegative() {
				assert.Equal(t, model.Down, trend.Direction, "%s-%s", cur, prev)
			} else {
				assert.Equal(t, model.Up, trend.Direction, "%s-%s", cur, prev)
			}
		}
	}
}

func TestTrendFromSeries(t *testing.T) {
	t2 := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	t1 := t2.AddDate(0, 0, -1)

	t.Run("two points newest first", func(t *testing.T) {
		series := model.PriceSeries{Category: model.Petrol, Points: []model.PricePoint{
			{Time: t2, Price: dec("12.34")},
			{Time: t1, Price: dec("12.50")},
		}}
		trend, ok := TrendFromSeries(series, t2)
		require.True(t, ok)
		assert.Equal(t, "-0.16", trend.Delta.String())
		assert.Equal(t, model.Down, trend.Direction)
		assert.Equal(t, "12.5", trend.Previous.String())
	})

	t.Run("single point", func(t *testing.T) {
		series := model.PriceSeries{Category: model.Diesel, Points: []model.PricePoint{
			{Time: t1, Price: dec("10.00")},
		}}
		trend, ok := TrendFromSeries(series, t2)
		require.True(t, ok)
		assert.True(t, trend.Delta.IsZero())
		assert.True(t, trend.Previous.Equal(dec("10.00")))
		assert.Equal(t, model.Up, trend.Direction)
	})

	t.Run("empty series", func(t *testing.T) {
		_, ok := TrendFromSeries(model.PriceSeries{Category: model.Diesel}, t2)
		assert.False(t, ok)
	})
}

func TestPriceRangeAndAverage(t *testing.T) {
	series := model.PriceSeries{Category: model.Petrol, Points: []model.PricePoint{
		{Price: dec("21.10")},
		{Price: dec("20.95")},
		{Price: dec("21.40")},
	}}

	low, high, err := PriceRange(series)
	require.NoError(t, err)
	assert.Equal(t, "20.95", low.String())
	assert.Equal(t, "21.4", high.String())

	avg, err := Average(series)
	require.NoError(t, err)
	assert.Equal(t, "21.15", avg.String())

	_, _, err = PriceRange(model.PriceSeries{})
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = Average(model.PriceSeries{})
	assert.ErrorIs(t, err, ErrEmptySeries)
}
