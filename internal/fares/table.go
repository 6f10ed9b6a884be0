package fares

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Table maps a fare code to its price.
type Table map[string]decimal.Decimal

var defaultFares = map[string]string{
	"U1": "1.50",
	"E1": "2.50",
	"E2": "3.50",
	"E3": "4.00",
	"E4": "4.50",
	"E5": "5.50",
	"E6": "6.50",
	"E7": "7.50",
}

// DefaultFares returns the urban/extra-urban schedule as code -> price text.
func DefaultFares() map[string]string {
	out := make(map[string]string, len(defaultFares))
	for code, price := range defaultFares {
		out[code] = price
	}
	return out
}

func DefaultTable() Table {
	table, err := ParseTable(defaultFares)
	if err != nil {
		panic(err)
	}
	return table
}

// ParseTable builds a Table from decimal strings. Codes are trimmed and
// prices must be non-negative.
func ParseTable(raw map[string]string) (Table, error) {
	table := make(Table, len(raw))
	for code, text := range raw {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("fare table: empty fare code")
		}

		price, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("fare table: code %s: %w", code, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("fare table: code %s has negative price %s", code, price)
		}

		table[code] = price
	}
	return table, nil
}

func (table Table) Lookup(code string) (decimal.Decimal, bool) {
	price, ok := table[code]
	return price, ok
}

// Codes returns the table's codes ordered by price, then by code.
func (table Table) Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		left, right := table[codes[i]], table[codes[j]]
		if !left.Equal(right) {
			return left.LessThan(right)
		}
		return codes[i] < codes[j]
	})
	return codes
}
