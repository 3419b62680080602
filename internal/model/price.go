package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the tracked fuel price series.
type Category string

const (
	Petrol Category = "Petrol"
	Diesel Category = "Diesel"
)

// Categories lists every tracked series in delivery order.
var Categories = []Category{Petrol, Diesel}

// FuelID returns the numeric id the upstream endpoint uses for the category.
func (c Category) FuelID() int {
	switch c {
	case Petrol:
		return 2
	case Diesel:
		return 3
	default:
		return 0
	}
}

// ParseCategory maps a case-insensitive name to a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown fuel category %q", s)
}

// PricePoint is a single published price.
type PricePoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// PriceSeries holds points ordered newest-first.
type PriceSeries struct {
	Category Category
	Points   []PricePoint
}

// Latest returns the newest point, or false if the series is empty.
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[0], true
}

// Previous returns the point before the newest, or false if there is none.
func (s PriceSeries) Previous() (PricePoint, bool) {
	if len(s.Points) < 2 {
		return PricePoint{}, false
	}
	return s.Points[1], true
}
