package fares

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a fare amount. It is kept as a decimal and written to JSON as a
// bare number so the downstream app reads it as a float.
type Price struct {
	decimal.Decimal
}

func NewPrice(value decimal.Decimal) Price {
	return Price{Decimal: value}
}

func (price Price) MarshalJSON() ([]byte, error) {
	return []byte(price.Decimal.String()), nil
}

func (price *Price) UnmarshalJSON(data []byte) error {
	return price.Decimal.UnmarshalJSON(data)
}

// Line is one transit line record as stored in the database file.
type Line struct {
	Name   string     `json:"nome"`
	Stops  []string   `json:"fermate"`
	Codes  [][]string `json:"codici"`
	Prices [][]Price  `json:"prezzi"`
}

// StopIndex returns the position of the named stop, matching trimmed names
// case-insensitively, or -1.
func (line Line) StopIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, stop := range line.Stops {
		if strings.EqualFold(strings.TrimSpace(stop), name) {
			return i
		}
	}
	return -1
}

// Equal compares two records field by field. Prices compare by value, so
// 4.0 and 4.00 are the same price.
func (line Line) Equal(other Line) bool {
	if line.Name != other.Name || len(line.Stops) != len(other.Stops) {
		return false
	}
	for i := range line.Stops {
		if line.Stops[i] != other.Stops[i] {
			return false
		}
	}

	if len(line.Codes) != len(other.Codes) {
		return false
	}
	for i := range line.Codes {
		if len(line.Codes[i]) != len(other.Codes[i]) {
			return false
		}
		for j := range line.Codes[i] {
			if line.Codes[i][j] != other.Codes[i][j] {
				return false
			}
		}
	}

	if len(line.Prices) != len(other.Prices) {
		return false
	}
	for i := range line.Prices {
		if len(line.Prices[i]) != len(other.Prices[i]) {
			return false
		}
		for j := range line.Prices[i] {
			if !line.Prices[i][j].Equal(other.Prices[i][j].Decimal) {
				return false
			}
		}
	}

	return true
}
