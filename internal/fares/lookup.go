package fares

import (
	"fmt"
	"strings"
)

// Quote is the fare between two stops of a line.
type Quote struct {
	Line  string `json:"linea"`
	From  string `json:"partenza"`
	To    string `json:"arrivo"`
	Price *Price `json:"prezzo"`
	Code  string `json:"codice"`
	Valid bool   `json:"valido"`
}

// QuoteFor looks up the fare for a trip. A quote is valid when it carries a
// price or a code; selecting the same stop twice or an index out of range
// gives an invalid quote.
func QuoteFor(lines []Line, lineIdx, from, to int) Quote {
	if lineIdx < 0 || lineIdx >= len(lines) {
		return Quote{}
	}

	line := lines[lineIdx]
	quote := Quote{Line: line.Name}
	if from == to || from < 0 || to < 0 || from >= len(line.Stops) || to >= len(line.Stops) {
		return quote
	}
	quote.From = line.Stops[from]
	quote.To = line.Stops[to]

	if from < len(line.Prices) && to < len(line.Prices[from]) {
		price := line.Prices[from][to]
		quote.Price = &price
	}
	quote.Code = codeAt(line.Codes, from, to)
	quote.Valid = quote.Price != nil || quote.Code != ""
	return quote
}

// FindLine resolves a line by exact name, falling back to a unique
// case-insensitive prefix match.
func FindLine(lines []Line, name string) (int, error) {
	name = strings.TrimSpace(name)
	for i, line := range lines {
		if line.Name == name {
			return i, nil
		}
	}

	match := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line.Name), strings.ToLower(name)) {
			if match >= 0 {
				return -1, fmt.Errorf("line %q is ambiguous: %q and %q", name, lines[match].Name, line.Name)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("line %q not found", name)
	}
	return match, nil
}

func FormatPrice(price Price) string {
	return price.StringFixed(2) + " €"
}

func FormatQuote(quote Quote) string {
	if !quote.Valid || quote.Price == nil {
		return "-"
	}
	return FormatPrice(*quote.Price)
}
