package fares

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrice is the highest fare considered plausible for a single trip.
var MaxPrice = decimal.NewFromInt(100)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Issue struct {
	Severity Severity
	Line     string
	Message  string
}

func (issue Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", issue.Severity, issue.Line, issue.Message)
}

type Report struct {
	Lines  int
	Issues []Issue
}

func (report Report) Errors() int {
	return report.count(SeverityError)
}

func (report Report) Warnings() int {
	return report.count(SeverityWarning)
}

func (report Report) count(severity Severity) int {
	n := 0
	for _, issue := range report.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Validate checks every record of a database. Structural problems that would
// break the fare lookup are errors; suspicious data (asymmetric fares,
// repeated stops, repeated line names) are warnings.
func Validate(lines []Line) Report {
	report := Report{Lines: len(lines)}
	names := map[string]int{}

	for idx, line := range lines {
		label := line.Name
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("#%d", idx)
			report.add(SeverityError, label, "line name is empty")
		}
		names[line.Name]++

		report.checkStops(label, line)
		report.checkCodes(label, line)
		report.checkPrices(label, line)
	}

	for idx, line := range lines {
		if count := names[line.Name]; count > 1 {
			report.add(SeverityWarning, line.Name, fmt.Sprintf("line name appears %d times (record #%d)", count, idx))
		}
	}

	return report
}

func (report *Report) add(severity Severity, line, message string) {
	report.Issues = append(report.Issues, Issue{Severity: severity, Line: line, Message: message})
}

func (report *Report) checkStops(label string, line Line) {
	if len(line.Stops) == 0 {
		report.add(SeverityError, label, "no stops")
		return
	}

	seen := map[string]bool{}
	for i, stop := range line.Stops {
		if strings.TrimSpace(stop) == "" {
			report.add(SeverityError, label, fmt.Sprintf("stop %d has a blank name", i))
			continue
		}
		if seen[stop] {
			report.add(SeverityWarning, label, fmt.Sprintf("stop %q is listed more than once", stop))
		}
		seen[stop] = true
	}
}

func (report *Report) checkCodes(label string, line Line) {
	count := len(line.Stops)
	if len(line.Codes) != count {
		report.add(SeverityError, label, fmt.Sprintf("code matrix has %d rows for %d stops", len(line.Codes), count))
		return
	}
	for i, row := range line.Codes {
		if len(row) != count {
			report.add(SeverityError, label, fmt.Sprintf("code row %d has %d columns for %d stops", i, len(row), count))
		}
	}
}

func (report *Report) checkPrices(label string, line Line) {
	count := len(line.Stops)
	if len(line.Prices) != count {
		report.add(SeverityError, label, fmt.Sprintf("price matrix has %d rows for %d stops", len(line.Prices), count))
		return
	}
	for i, row := range line.Prices {
		if len(row) != count {
			report.add(SeverityError, label, fmt.Sprintf("price row %d has %d columns for %d stops", i, len(row), count))
			return
		}
	}

	asymmetric := 0
	for i, row := range line.Prices {
		for j, price := range row {
			switch {
			case i == j && !price.IsZero():
				report.add(SeverityError, label, fmt.Sprintf("price [%d][%d] on the diagonal is %s, want 0", i, j, price))
			case price.IsNegative():
				report.add(SeverityError, label, fmt.Sprintf("price [%d][%d] is negative (%s)", i, j, price))
			case price.GreaterThan(MaxPrice):
				report.add(SeverityError, label, fmt.Sprintf("price [%d][%d] is above %s (%s)", i, j, MaxPrice, price))
			}
			if i < j && !price.Equal(line.Prices[j][i].Decimal) {
				asymmetric++
			}
		}
	}
	if asymmetric > 0 {
		report.add(SeverityWarning, label, fmt.Sprintf("%d stop pairs price differently in each direction", asymmetric))
	}
}
