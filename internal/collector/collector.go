package collector

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"FuelSentinel/internal/calculator"
	"FuelSentinel/internal/model"
)

// Window sizes used by the bot.
const (
	SnapshotDays = 2
	TableDays    = 7
	HistoryMonth = 1
)

// Collector orchestrates price fetching for the windows the bot reports on.
type Collector struct {
	Fetcher  Fetcher
	Location *time.Location
	Now      func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, loc *time.Location) *Collector {
	if loc == nil {
		loc = time.UTC
	}
	return &Collector{Fetcher: fetcher, Location: loc, Now: time.Now}
}

// Today returns midnight of the current day in the collector's location.
func (c *Collector) Today() time.Time {
	now := c.Now().In(c.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Location)
}

// Snapshot fetches the last few days and derives the day-over-day trend.
func (c *Collector) Snapshot(ctx context.Context, category model.Category) (model.Trend, error) {
	today := c.Today()
	from := today.AddDate(0, 0, -SnapshotDays)
	series, err := c.Range(ctx, category, from, today)
	if err != nil {
		return model.Trend{}, err
	}
	trend, ok := calculator.TrendFromSeries(series, today)
	if !ok {
		return model.Trend{}, &UpstreamError{
			Category: category,
			From:     from.Format(dateLayout),
			To:       today.Format(dateLayout),
			Err:      ErrNoData,
		}
	}
	if _, hasPrev := series.Previous(); !hasPrev {
		log.WithField("category", category).Warn("only one price point available, reporting zero delta")
	}
	return trend, nil
}

// Table fetches the last week of prices.
func (c *Collector) Table(ctx context.Context, category model.Category) (model.PriceSeries, error) {
	today := c.Today()
	return c.Range(ctx, category, today.AddDate(0, 0, -TableDays), today)
}

// History fetches the last month of prices, used for charts.
func (c *Collector) History(ctx context.Context, category model.Category) (model.PriceSeries, error) {
	today := c.Today()
	return c.Range(ctx, category, today.AddDate(0, -HistoryMonth, 0), today)
}

// Range fetches an arbitrary inclusive window.
func (c *Collector) Range(ctx context.Context, category model.Category, from, to time.Time) (model.PriceSeries, error) {
	series, err := c.Fetcher.FetchPrices(ctx, category, from, to)
	if err != nil {
		return model.PriceSeries{}, err
	}
	log.WithFields(log.Fields{
		"source":   c.Fetcher.Name(),
		"category": category,
		"from":     from.Format(dateLayout),
		"to":       to.Format(dateLayout),
		"points":   len(series.Points),
	}).Debug("fetched price series")
	return series, nil
}
