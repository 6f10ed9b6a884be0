package fares

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySheet        = errors.New("sheet has no stops")
	ErrMalformedHeader   = errors.New("malformed header row")
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Layout selects how the sheet's first column is read. When
// FirstColumnIsLabel is set, column 1 holds stop names: the header's first
// cell is the corner of that label column and every data row starts with a
// redundant stop label. Otherwise column 1 is already fare data for stop 1.
type Layout struct {
	FirstColumnIsLabel bool
}

// Grid is the part of a worksheet the extractors need.
type Grid interface {
	Header() []string
	DataRows() [][]string
}

// ExtractStops reads stop names from the header row.
func ExtractStops(header []string, layout Layout) ([]string, error) {
	cells := header
	if layout.FirstColumnIsLabel && len(cells) > 0 {
		cells = cells[1:]
	}

	last := -1
	for i, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			last = i
		}
	}
	if last < 0 {
		return nil, ErrEmptySheet
	}

	stops := make([]string, 0, last+1)
	for i, cell := range cells[:last+1] {
		label := strings.TrimSpace(cell)
		if label == "" {
			return nil, fmt.Errorf("%w: blank stop name in column %d", ErrMalformedHeader, headerColumn(i, layout))
		}
		stops = append(stops, label)
	}
	return stops, nil
}

// ExtractCodes reads the code matrix from the data rows. Short rows are
// padded with empty codes; trailing blank rows are dropped. The result is
// always stopCount x stopCount or an ErrDimensionMismatch.
func ExtractCodes(rows [][]string, stopCount int, layout Layout) ([][]string, []string, error) {
	rows = trimBlankRows(rows)
	if len(rows) != stopCount {
		return nil, nil, fmt.Errorf("%w: %d data rows for %d stops", ErrDimensionMismatch, len(rows), stopCount)
	}

	codes := make([][]string, stopCount)
	labels := make([]string, stopCount)
	for i, row := range rows {
		if layout.FirstColumnIsLabel && len(row) > 0 {
			labels[i] = strings.TrimSpace(row[0])
			row = row[1:]
		}

		codeRow := make([]string, stopCount)
		for j, cell := range row {
			value := strings.TrimSpace(cell)
			if j >= stopCount {
				if value != "" {
					return nil, nil, fmt.Errorf("%w: row %d has data in column %d beyond %d stops",
						ErrDimensionMismatch, i+2, headerColumn(j, layout), stopCount)
				}
				continue
			}
			codeRow[j] = value
		}
		codes[i] = codeRow
	}

	if !layout.FirstColumnIsLabel {
		labels = nil
	}
	return codes, labels, nil
}

// Extraction is a line read from a sheet together with what was noticed on
// the way.
type Extraction struct {
	Line            Line
	UnknownCodes    []string
	LabelMismatches []string
}

// Extract runs the whole pipeline for one sheet: stops, codes, prices.
func Extract(name string, grid Grid, layout Layout, table Table) (Extraction, error) {
	stops, err := ExtractStops(grid.Header(), layout)
	if err != nil {
		return Extraction{}, err
	}

	codes, labels, err := ExtractCodes(grid.DataRows(), len(stops), layout)
	if err != nil {
		return Extraction{}, err
	}

	var mismatches []string
	for i, label := range labels {
		if label != "" && !strings.EqualFold(label, stops[i]) {
			mismatches = append(mismatches, fmt.Sprintf("row %d labelled %q, expected %q", i+2, label, stops[i]))
		}
	}

	return Extraction{
		Line: Line{
			Name:   name,
			Stops:  stops,
			Codes:  codes,
			Prices: DerivePrices(stops, codes, table),
		},
		UnknownCodes:    UnknownCodes(codes, table),
		LabelMismatches: mismatches,
	}, nil
}

func trimBlankRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isBlankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// headerColumn converts an index into the label-stripped cells back to a
// 1-based sheet column.
func headerColumn(index int, layout Layout) int {
	if layout.FirstColumnIsLabel {
		return index + 2
	}
	return index + 1
}
