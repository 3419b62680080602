package collector

import (
	"errors"
	"fmt"

	"FuelSentinel/internal/model"
)

// ErrNoData is wrapped by UpstreamError when the source returned an empty series.
var ErrNoData = errors.New("no price data returned")

// UpstreamError reports a failed price source query.
type UpstreamError struct {
	Category model.Category
	From     string
	To       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch %s prices %s..%s: %v", e.Category, e.From, e.To, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
