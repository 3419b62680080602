package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the day-over-day movement indicator.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Trend is the day-over-day change for one category.
type Trend struct {
	Category  Category
	AsOf      time.Time
	Current   decimal.Decimal
	Previous  decimal.Decimal
	Delta     decimal.Decimal
	Direction Direction
}
