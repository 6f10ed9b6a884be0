package fare_web

type LinesPageVM struct {
	DatabasePath string
	Lines        []LineOptionVM
	Selected     *SelectedLineVM
	Quote        *QuoteVM
	Error        string
}

type LineOptionVM struct {
	Index    int
	Name     string
	Stops    int
	Selected bool
}

type SelectedLineVM struct {
	Index int
	Name  string
	Stops []StopOptionVM
	Table PriceTableVM
}

type StopOptionVM struct {
	Index        int
	Name         string
	SelectedFrom bool
	SelectedTo   bool
}

type QuoteVM struct {
	From  string
	To    string
	Code  string
	Price string
}

// PriceTableVM is the full fare matrix of one line, already formatted.
type PriceTableVM struct {
	Stops []string
	Rows  []PriceRowVM
}

type PriceRowVM struct {
	Stop   string
	Prices []string
}

// LineSummary is the /api/lines entry for one record.
type LineSummary struct {
	Index int      `json:"indice"`
	Name  string   `json:"nome"`
	Stops []string `json:"fermate"`
}
