// Package chart renders price series as PNG line charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"FuelSentinel/internal/calculator"
	"FuelSentinel/internal/model"
)

// ErrNotEnoughPoints is returned for series that cannot form a line.
var ErrNotEnoughPoints = errors.New("at least two price points are required")

// Renderer draws line charts.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 1024, Height: 512}
}

// RenderLineChart renders the series oldest-to-newest as a PNG.
func (r *Renderer) RenderLineChart(series model.PriceSeries) ([]byte, error) {
	if len(series.Points) < 2 {
		return nil, ErrNotEnoughPoints
	}

	n := len(series.Points)
	xs := make([]time.Time, n)
	ys := make([]float64, n)
	for i, p := range series.Points {
		// Points are newest-first; the chart wants time ascending.
		xs[n-1-i] = p.Time
		ys[n-1-i] = p.Price.InexactFloat64()
	}

	low, high, err := calculator.PriceRange(series)
	if err != nil {
		return nil, err
	}
	pad := high.Sub(low).InexactFloat64() * 0.1
	if pad == 0 {
		pad = 0.5
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s price", series.Category),
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{
				Min: low.InexactFloat64() - pad,
				Max: high.InexactFloat64() + pad,
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    string(series.Category),
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", series.Category, err)
	}
	return buf.Bytes(), nil
}
