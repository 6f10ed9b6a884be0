package fare_static

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"tarediiran-industries.com/fare-services/internal/db"
	"tarediiran-industries.com/fare-services/internal/store"
)

// writeFareSheet saves the Udine - Fagagna - San Daniele sheet as an xlsx file.
func writeFareSheet(t *testing.T, dir string, rows [][]string) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := file.SetCellValue("Sheet1", cell, value); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(dir, "Udine San Daniele.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

var udineRows = [][]string{
	{"Udine", "Fagagna", "San Daniele"},
	{"", "E1", "E3"},
	{"E1", "", "E1"},
	{"E3", "E1", ""},
}

func runIngest(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdOut, errOut bytes.Buffer
	code := Main("fare-ingest", args, &stdOut, &errOut)
	return code, stdOut.String(), errOut.String()
}

func TestMainAppendsLine(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, udineRows)
	database := filepath.Join(dir, "database.json")

	code, out, errOut := runIngest(t, "-input", input, "-database", database)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"Existing lines in", "Stops found: 3", "First stop: Udine", "Last stop: San Daniele", "Codes: 3x3 matrix", "Total lines in database: 1", "[BENCH] merge took"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	lines, err := store.Load(database)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Name != "Linea 401 Udine-San Daniele" {
		t.Fatalf("database = %+v", lines)
	}
	if got := lines[0].Prices[0][2].StringFixed(2); got != "4.00" {
		t.Errorf("Udine -> San Daniele = %s, want 4.00", got)
	}

	// Running the same import again appends a second record with the same name.
	if code, _, errOut := runIngest(t, "-input", input, "-database", database); code != 0 {
		t.Fatalf("second run exit %d: %s", code, errOut)
	}
	lines, _ = store.Load(database)
	if len(lines) != 2 {
		t.Fatalf("got %d records after second append, want 2", len(lines))
	}
}

func TestMainReplace(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, udineRows)
	database := filepath.Join(dir, "database.json")

	for i := 0; i < 2; i++ {
		if code, _, errOut := runIngest(t, "-input", input, "-database", database, "-name", "Linea 401"); code != 0 {
			t.Fatalf("exit %d: %s", code, errOut)
		}
	}
	code, out, errOut := runIngest(t, "-input", input, "-database", database, "-name", "Linea 401", "-replace")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Line replaced at position 1") {
		t.Errorf("output:\n%s", out)
	}

	lines, _ := store.Load(database)
	if len(lines) != 2 {
		t.Errorf("replace changed the record count to %d", len(lines))
	}
}

func TestMainDryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, udineRows)
	database := filepath.Join(dir, "database.json")

	code, out, errOut := runIngest(t, "-input", input, "-database", database, "-dry-run")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Dry run") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := os.Stat(database); !os.IsNotExist(err) {
		t.Errorf("dry run wrote the database: %v", err)
	}
}

func TestMainUnknownCodesWarnAndWriteMetrics(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, [][]string{
		{"Udine", "Fagagna"},
		{"", "X9"},
		{"X9", ""},
	})
	database := filepath.Join(dir, "database.json")
	textfile := filepath.Join(dir, "fare.prom")
	t.Setenv("FARE_METRICS_TEXTFILE", textfile)

	code, out, errOut := runIngest(t, "-input", input, "-database", database)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "WARNING: 1 fare codes are not in the fare table and were priced at 0: X9") {
		t.Errorf("missing warning:\n%s", out)
	}

	lines, _ := store.Load(database)
	if !lines[0].Prices[0][1].IsZero() {
		t.Errorf("unknown code priced at %s", lines[0].Prices[0][1])
	}

	metrics, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"fare_lines_ingested_total 1", "fare_unknown_codes_total 1", `fare_line_stops{line="Linea 401 Udine-San Daniele"} 2`} {
		if !strings.Contains(string(metrics), want) {
			t.Errorf("metrics missing %q:\n%s", want, metrics)
		}
	}
}

func TestMainFirstColumnLabels(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, [][]string{
		{"", "Udine", "Fagagna"},
		{"Udine", "", "E1"},
		{"Fagagna", "E1", ""},
	})
	database := filepath.Join(dir, "database.json")

	if code, _, errOut := runIngest(t, "-input", input, "-database", database, "-first-column-labels"); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	lines, _ := store.Load(database)
	if len(lines[0].Stops) != 2 || lines[0].Codes[0][1] != "E1" {
		t.Errorf("line = %+v", lines[0])
	}
}

func TestMainPublishesToSQLite(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, udineRows)
	database := filepath.Join(dir, "database.json")
	dsn := filepath.Join(dir, "fares.db")
	t.Setenv("FARE_PUBLISH_DRIVER", db.DriverSQLite)
	t.Setenv("FARE_PUBLISH_DSN", dsn)

	code, out, errOut := runIngest(t, "-input", input, "-database", database)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Published export") {
		t.Errorf("output:\n%s", out)
	}

	ctx := context.Background()
	conn, err := db.NewDatabaseConnection(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	exportId, err := db.LatestExport(ctx, conn)
	if err != nil {
		t.Fatal(err)
	}
	summary, err := db.ExportSummary(ctx, conn, exportId)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Lines != 1 || summary.Stops != 3 || summary.Prices != 6 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(out, "Verified export "+exportId) {
		t.Errorf("output does not confirm the read-back:\n%s", out)
	}
}

func TestMainErrors(t *testing.T) {
	dir := t.TempDir()
	database := filepath.Join(dir, "database.json")

	tests := []struct {
		name    string
		args    []string
		code    int
		wantErr string
	}{
		{"missing input", []string{"-input", filepath.Join(dir, "missing.xlsx")}, 1, "spreadsheet not found"},
		{"unknown flag", []string{"-bogus"}, -1, ""},
		{"dry run with replace", []string{"-dry-run", "-replace"}, -1, "-replace has no effect"},
		{"version", []string{"-version"}, 0, "version dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-database", database}, tt.args...)
			code, _, errOut := runIngest(t, args...)
			if code != tt.code {
				t.Errorf("exit = %d, want %d (%s)", code, tt.code, errOut)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr %q missing %q", errOut, tt.wantErr)
			}
		})
	}

	if _, err := os.Stat(database); !os.IsNotExist(err) {
		t.Errorf("failed runs wrote the database: %v", err)
	}
}

func TestMainMalformedHeader(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, [][]string{
		{"Udine", "", "San Daniele"},
		{"", "E1", "E3"},
		{"E1", "", "E1"},
		{"E3", "E1", ""},
	})

	code, _, errOut := runIngest(t, "-input", input, "-database", filepath.Join(dir, "database.json"))
	if code != 1 || !strings.Contains(errOut, "header") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}
}

func TestMainDownloadsSpreadsheet(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(writeFareSheet(t, dir, udineRows))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write(data)
	}))
	defer ts.Close()

	database := filepath.Join(dir, "database.json")
	code, out, errOut := runIngest(t, "-url", ts.URL+"/401.xlsx", "-database", database)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Downloaded "+ts.URL+"/401.xlsx") {
		t.Errorf("output:\n%s", out)
	}
	lines, _ := store.Load(database)
	if len(lines) != 1 || len(lines[0].Stops) != 3 {
		t.Errorf("database = %+v", lines)
	}

	if code, _, _ := runIngest(t, "-url", ts.URL+"/401.xlsx", "-input", "x.xlsx", "-database", database); code != -1 {
		t.Errorf("-url with -input exit = %d", code)
	}
}

func TestMainInputFlagOverridesConfiguredURL(t *testing.T) {
	dir := t.TempDir()
	input := writeFareSheet(t, dir, udineRows)
	database := filepath.Join(dir, "database.json")

	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits++
		http.NotFound(writer, request)
	}))
	defer ts.Close()
	t.Setenv("FARE_INPUT_URL", ts.URL+"/other.xlsx")

	code, out, errOut := runIngest(t, "-input", input, "-database", database)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if hits != 0 {
		t.Errorf("configured url fetched %d times despite -input", hits)
	}
	if !strings.Contains(out, "[BENCH] read-workbook took") {
		t.Errorf("output:\n%s", out)
	}
	lines, _ := store.Load(database)
	if len(lines) != 1 || len(lines[0].Stops) != 3 {
		t.Errorf("database = %+v", lines)
	}
}

func TestParseArgsFirstColumnLabels(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "fares.toml")
	if err := os.WriteFile(configPath, []byte("[input]\nfirst_column_labels = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		env  string
		args []string
		want bool
	}{
		{"config file", "", []string{"-config", configPath}, true},
		{"flag turns config off", "", []string{"-config", configPath, "-first-column-labels=false"}, false},
		{"env", "true", nil, true},
		{"flag turns env off", "true", []string{"-first-column-labels=false"}, false},
		{"flag turns on", "", []string{"-first-column-labels"}, true},
		{"default", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FARE_FIRST_COLUMN_LABELS", tt.env)
			var errOut bytes.Buffer
			cfg, err := ParseArgs("fare-ingest", tt.args, &errOut)
			if err != nil {
				t.Fatalf("ParseArgs: %v (%s)", err, errOut.String())
			}
			if cfg.Settings.Input.FirstColumnIsLabel != tt.want {
				t.Errorf("FirstColumnIsLabel = %v, want %v", cfg.Settings.Input.FirstColumnIsLabel, tt.want)
			}
		})
	}
}

func TestParseArgsInputSource(t *testing.T) {
	t.Setenv("FARE_INPUT_URL", "https://example.com/tariffe/401.xlsx")

	var errOut bytes.Buffer
	cfg, err := ParseArgs("fare-ingest", []string{"-input", "local.xlsx"}, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.Input.Path != "local.xlsx" || cfg.Settings.Input.URL != "" {
		t.Errorf("input = %+v", cfg.Settings.Input)
	}

	t.Setenv("FARE_INPUT_URL", "")
	t.Setenv("FARE_INPUT", "local.xlsx")
	cfg, err = ParseArgs("fare-ingest", []string{"-url", "https://example.com/402.xlsx"}, &errOut)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Settings.Input.URL != "https://example.com/402.xlsx" {
		t.Errorf("input = %+v", cfg.Settings.Input)
	}
}
