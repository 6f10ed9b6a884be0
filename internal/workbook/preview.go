package workbook

import (
	"fmt"
	"io"
	"strings"
)

// Preview prints each sheet's size and its first maxRows rows.
func Preview(out io.Writer, workbook *Workbook, maxRows int) {
	rule := strings.Repeat("=", 60)

	names := make([]string, len(workbook.Sheets))
	for i, sheet := range workbook.Sheets {
		names[i] = sheet.Name
	}
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Sheets: %s (active: %s)\n", strings.Join(names, ", "), workbook.Active().Name)
	fmt.Fprintln(out, rule)

	for i := range workbook.Sheets {
		sheet := &workbook.Sheets[i]
		fmt.Fprintf(out, "\nSheet: %s\n", sheet.Name)
		fmt.Fprintf(out, "   Size: %d rows x %d columns\n", sheet.MaxRow(), sheet.MaxColumn())
		fmt.Fprintf(out, "\n   First %d rows:\n", maxRows)
		fmt.Fprintln(out, strings.Repeat("-", 60))

		for row := 1; row <= sheet.MaxRow() && row <= maxRows; row++ {
			cells := make([]string, sheet.MaxColumn())
			for col := range cells {
				cells[col] = sheet.Cell(row, col+1)
			}
			fmt.Fprintf(out, "Row %2d: %s\n", row, strings.Join(cells, " | "))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
}
