package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"FuelSentinel/internal/metrics"
	"FuelSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// AnreFetcher implements Fetcher using the ANRE oil price table endpoint.
type AnreFetcher struct {
	BaseURL  string
	Location *time.Location
	Client   *http.Client
}

// NewAnreFetcher creates a fetcher with optional proxy support.
func NewAnreFetcher(baseURL string, timeout time.Duration, proxyURL string, loc *time.Location) *AnreFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AnreFetcher{
		BaseURL:  baseURL,
		Location: loc,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *AnreFetcher) Name() string { return "anre" }

// anreResponse is the JSON shape returned by /oil-get-table.
type anreResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    []anrePoint `json:"data"`
}

// anrePoint decodes a [timestampMillis, price] pair. Price may be a number or a string.
type anrePoint struct {
	Millis int64
	Price  decimal.Decimal
	valid  bool
}

func (p *anrePoint) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("expected [timestamp, price], got %d elements", len(raw))
	}

	var ts json.Number
	if err := json.Unmarshal(raw[0], &ts); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	millis, err := ts.Int64()
	if err != nil {
		f, ferr := strconv.ParseFloat(ts.String(), 64)
		if ferr != nil {
			return fmt.Errorf("timestamp %q: %w", ts, err)
		}
		millis = int64(f)
	}
	p.Millis = millis

	if bytes.Equal(bytes.TrimSpace(raw[1]), []byte("null")) {
		return nil // skipped by the caller
	}
	if err := p.Price.UnmarshalJSON(raw[1]); err != nil {
		return fmt.Errorf("price: %w", err)
	}
	p.valid = true
	return nil
}

// FetchPrices queries one category over an inclusive date range.
func (f *AnreFetcher) FetchPrices(ctx context.Context, category model.Category, from, to time.Time) (model.PriceSeries, error) {
	fromStr := from.In(f.Location).Format(dateLayout)
	toStr := to.In(f.Location).Format(dateLayout)
	fail := func(err error) (model.PriceSeries, error) {
		return model.PriceSeries{}, &UpstreamError{Category: category, From: fromStr, To: toStr, Err: err}
	}

	if category.FuelID() == 0 {
		return fail(fmt.Errorf("unsupported category"))
	}

	q := url.Values{}
	q.Set("firstDate", fromStr)
	q.Set("secondDate", toStr)
	q.Set("fuelId", strconv.Itoa(category.FuelID()))
	endpoint := fmt.Sprintf("%s/oil-get-table?%s", f.BaseURL, q.Encode())

	start := time.Now()
	series, err := f.fetch(ctx, endpoint, category)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordUpstream(string(category), status, time.Since(start))
	if err != nil {
		return fail(err)
	}
	return series, nil
}

func (f *AnreFetcher) fetch(ctx context.Context, endpoint string, category model.Category) (model.PriceSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.PriceSeries{}, fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}

	var parsed anreResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode: %w", err)
	}

	points := make([]model.PricePoint, 0, len(parsed.Data))
	for _, p := range parsed.Data {
		if !p.valid {
			continue
		}
		points = append(points, model.PricePoint{
			Time:  time.UnixMilli(p.Millis).In(f.Location),
			Price: p.Price,
		})
	}
	if len(points) == 0 {
		return model.PriceSeries{}, ErrNoData
	}

	// Newest first
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.After(points[j].Time) })
	return model.PriceSeries{Category: category, Points: points}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
