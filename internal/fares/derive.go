package fares

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DerivePrices maps every code to its price. The diagonal is always zero and
// codes that are empty, missing or not in the table price at zero.
func DerivePrices(stops []string, codes [][]string, table Table) [][]Price {
	count := len(stops)
	prices := make([][]Price, count)
	for i := 0; i < count; i++ {
		row := make([]Price, count)
		for j := 0; j < count; j++ {
			row[j] = NewPrice(decimal.Zero)
			if i == j {
				continue
			}
			if price, ok := table.Lookup(codeAt(codes, i, j)); ok {
				row[j] = NewPrice(price)
			}
		}
		prices[i] = row
	}
	return prices
}

// UnknownCodes lists, sorted and without repeats, the non-empty off-diagonal
// codes that the table does not know. They end up priced at zero.
func UnknownCodes(codes [][]string, table Table) []string {
	seen := map[string]bool{}
	for i, row := range codes {
		for j, code := range row {
			if i == j || code == "" {
				continue
			}
			if _, ok := table.Lookup(code); !ok {
				seen[code] = true
			}
		}
	}

	unknown := make([]string, 0, len(seen))
	for code := range seen {
		unknown = append(unknown, code)
	}
	sort.Strings(unknown)
	return unknown
}

func codeAt(codes [][]string, i, j int) string {
	if i >= len(codes) || j >= len(codes[i]) {
		return ""
	}
	return codes[i][j]
}
