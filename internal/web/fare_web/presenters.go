package fare_web

import (
	"tarediiran-industries.com/fare-services/internal/fares"
)

func BuildLineSummaries(lines []fares.Line) []LineSummary {
	out := make([]LineSummary, 0, len(lines))
	for i, line := range lines {
		out = append(out, LineSummary{Index: i, Name: line.Name, Stops: line.Stops})
	}
	return out
}

// BuildLinesPageVM lays out the price picker. selected is -1 when no line is
// chosen; from and to are -1 when no stop is chosen.
func BuildLinesPageVM(databasePath string, lines []fares.Line, selected, from, to int) LinesPageVM {
	vm := LinesPageVM{
		DatabasePath: databasePath,
		Lines:        make([]LineOptionVM, 0, len(lines)),
	}
	for i, line := range lines {
		vm.Lines = append(vm.Lines, LineOptionVM{
			Index:    i,
			Name:     line.Name,
			Stops:    len(line.Stops),
			Selected: i == selected,
		})
	}

	if selected < 0 || selected >= len(lines) {
		return vm
	}

	line := lines[selected]
	selectedVM := &SelectedLineVM{
		Index: selected,
		Name:  line.Name,
		Table: BuildPriceTableVM(line),
	}
	for i, stop := range line.Stops {
		selectedVM.Stops = append(selectedVM.Stops, StopOptionVM{
			Index:        i,
			Name:         stop,
			SelectedFrom: i == from,
			SelectedTo:   i == to,
		})
	}
	vm.Selected = selectedVM

	if from >= 0 && to >= 0 && from < len(line.Stops) && to < len(line.Stops) {
		quote := fares.QuoteFor(lines, selected, from, to)
		vm.Quote = &QuoteVM{
			From:  line.Stops[from],
			To:    line.Stops[to],
			Code:  quote.Code,
			Price: fares.FormatQuote(quote),
		}
	}
	return vm
}

func BuildPriceTableVM(line fares.Line) PriceTableVM {
	table := PriceTableVM{Stops: line.Stops}
	for i, stop := range line.Stops {
		row := PriceRowVM{Stop: stop, Prices: make([]string, len(line.Stops))}
		for j := range line.Stops {
			switch {
			case i == j:
				row.Prices[j] = "-"
			case i < len(line.Prices) && j < len(line.Prices[i]):
				row.Prices[j] = line.Prices[i][j].StringFixed(2)
			default:
				row.Prices[j] = "?"
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
