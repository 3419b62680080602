package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuelSentinel/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func series(prices ...string) model.PriceSeries {
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Category: model.Diesel}
	for i, p := range prices {
		// newest first
		s.Points = append([]model.PricePoint{{
			Time:  start.AddDate(0, 0, i),
			Price: decimal.RequireFromString(p),
		}}, s.Points...)
	}
	return s
}

func TestRenderLineChart_PNG(t *testing.T) {
	r := NewRenderer()
	png, err := r.RenderLineChart(series("20.10", "20.35", "20.20", "19.98"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderLineChart_FlatSeries(t *testing.T) {
	r := NewRenderer()
	png, err := r.RenderLineChart(series("21.00", "21.00", "21.00"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderLineChart_NotEnoughPoints(t *testing.T) {
	r := NewRenderer()

	_, err := r.RenderLineChart(series("20.10"))
	assert.ErrorIs(t, err, ErrNotEnoughPoints)

	_, err = r.RenderLineChart(model.PriceSeries{Category: model.Petrol})
	assert.ErrorIs(t, err, ErrNotEnoughPoints)
}
