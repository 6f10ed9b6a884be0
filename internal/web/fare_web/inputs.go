package fare_web

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tarediiran-industries.com/fare-services/internal/fares"
)

var (
	ErrMissingParam = errors.New("missing parameter")
	ErrNotFound     = errors.New("not found")
)

// PriceQuery holds the raw line/from/to parameters. Each one is either a
// zero-based index or a name.
type PriceQuery struct {
	Line string
	From string
	To   string
}

func ParsePriceQuery(values url.Values) PriceQuery {
	return PriceQuery{
		Line: strings.TrimSpace(values.Get("line")),
		From: strings.TrimSpace(values.Get("from")),
		To:   strings.TrimSpace(values.Get("to")),
	}
}

func (query PriceQuery) Empty() bool {
	return query.Line == "" && query.From == "" && query.To == ""
}

// ResolveLine returns the index of the requested line.
func (query PriceQuery) ResolveLine(lines []fares.Line) (int, error) {
	if query.Line == "" {
		return -1, fmt.Errorf("line: %w", ErrMissingParam)
	}
	if idx, err := strconv.Atoi(query.Line); err == nil {
		if idx < 0 || idx >= len(lines) {
			return -1, fmt.Errorf("line %d: %w", idx, ErrNotFound)
		}
		return idx, nil
	}
	idx, err := fares.FindLine(lines, query.Line)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return idx, nil
}

// Resolve returns the line and stop indexes of the query.
func (query PriceQuery) Resolve(lines []fares.Line) (int, int, int, error) {
	lineIdx, err := query.ResolveLine(lines)
	if err != nil {
		return -1, -1, -1, err
	}
	line := lines[lineIdx]

	from, err := resolveStop(line, "from", query.From)
	if err != nil {
		return -1, -1, -1, err
	}
	to, err := resolveStop(line, "to", query.To)
	if err != nil {
		return -1, -1, -1, err
	}
	return lineIdx, from, to, nil
}

func resolveStop(line fares.Line, param, value string) (int, error) {
	if value == "" {
		return -1, fmt.Errorf("%s: %w", param, ErrMissingParam)
	}
	if idx, err := strconv.Atoi(value); err == nil {
		if idx < 0 || idx >= len(line.Stops) {
			return -1, fmt.Errorf("%s stop %d: %w", param, idx, ErrNotFound)
		}
		return idx, nil
	}
	idx := line.StopIndex(value)
	if idx < 0 {
		return -1, fmt.Errorf("%s stop %q on %s: %w", param, value, line.Name, ErrNotFound)
	}
	return idx, nil
}
