package fare_static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tarediiran-industries.com/fare-services/internal/common"
	"tarediiran-industries.com/fare-services/internal/config"
	"tarediiran-industries.com/fare-services/internal/db"
	"tarediiran-industries.com/fare-services/internal/fares"
	"tarediiran-industries.com/fare-services/internal/store"
	"tarediiran-industries.com/fare-services/internal/workbook"
)

const (
	maxSamples      = 10
	downloadTimeout = time.Minute
)

// ReadLine opens the configured workbook, downloading it first when the
// input is a URL, and extracts one line record from it.
func ReadLine(ctx context.Context, settings config.Config, metrics *common.Metrics, out io.Writer) (fares.Extraction, error) {
	table, err := settings.FareTable()
	if err != nil {
		return fares.Extraction{}, err
	}

	if settings.Input.URL != "" {
		client := &http.Client{Timeout: downloadTimeout}
		path, err := common.RuntimeBenchmark(out, "download", metrics.Stage("download"), func() (string, error) {
			return workbook.Download(ctx, client, settings.Input.URL)
		})
		if err != nil {
			return fares.Extraction{}, err
		}
		defer os.Remove(path)
		fmt.Fprintf(out, "Downloaded %s -> %s\n", settings.Input.URL, path)
		settings.Input.Path = path
	}

	book, err := common.RuntimeBenchmark(out, "read-workbook", metrics.Stage("read"), func() (*workbook.Workbook, error) {
		return workbook.Open(settings.Input.Path)
	})
	if err != nil {
		return fares.Extraction{}, fmt.Errorf("workbook.Open: %w", err)
	}

	sheet, err := book.SheetOrActive(settings.Input.Sheet)
	if err != nil {
		return fares.Extraction{}, err
	}
	fmt.Fprintf(out, "Reading sheet %q of %s (%d rows x %d columns)\n",
		sheet.Name, settings.Input.Path, sheet.MaxRow(), sheet.MaxColumn())

	extractBench := common.NewBenchmarker(out, "extract", metrics.Stage("extract"))
	extraction, err := fares.Extract(settings.Input.LineName, sheet, settings.Layout(), table)
	extractBench.Close()
	if err != nil {
		return fares.Extraction{}, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	return extraction, nil
}

func printExtraction(out io.Writer, extraction fares.Extraction) {
	line := extraction.Line
	fmt.Fprintf(out, "\nStops found: %d\n", len(line.Stops))
	fmt.Fprintf(out, "First stop: %s\n", line.Stops[0])
	fmt.Fprintf(out, "Last stop: %s\n", line.Stops[len(line.Stops)-1])
	fmt.Fprintf(out, "Codes: %dx%d matrix\n", len(line.Codes), len(line.Codes[0]))
	fmt.Fprintf(out, "Prices: %dx%d matrix\n", len(line.Prices), len(line.Prices[0]))

	if len(extraction.UnknownCodes) > 0 {
		fmt.Fprintf(out, "WARNING: %d fare codes are not in the fare table and were priced at 0: %s\n",
			len(extraction.UnknownCodes), sample(extraction.UnknownCodes))
	}
	for i, mismatch := range extraction.LabelMismatches {
		if i == maxSamples {
			fmt.Fprintf(out, "WARNING: ... and %d more label mismatches\n", len(extraction.LabelMismatches)-maxSamples)
			break
		}
		fmt.Fprintf(out, "WARNING: %s\n", mismatch)
	}
}

func sample(values []string) string {
	if len(values) <= maxSamples {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:maxSamples], ", ") + fmt.Sprintf(" (+%d more)", len(values)-maxSamples)
}

func Run(cfg Config, out io.Writer) error {
	settings := cfg.Settings
	registry := prometheus.NewRegistry()
	metrics := common.NewMetrics(registry)

	existing, err := store.Load(settings.Output.DatabasePath)
	if err != nil {
		return fmt.Errorf("store.Load: %w", err)
	}
	fmt.Fprintf(out, "Existing lines in %s: %d\n", settings.Output.DatabasePath, len(existing))
	for i, line := range existing {
		fmt.Fprintf(out, "  %d. %s - %d stops\n", i+1, line.Name, len(line.Stops))
	}

	extraction, err := ReadLine(context.Background(), settings, metrics, out)
	if err != nil {
		return err
	}
	printExtraction(out, extraction)

	metrics.UnknownCodesTotal.Add(float64(len(extraction.UnknownCodes)))
	metrics.LineStops.WithLabelValues(extraction.Line.Name).Set(float64(len(extraction.Line.Stops)))

	if cfg.DryRun {
		fmt.Fprintln(out, "\nDry run: database not written.")
		return writeMetrics(settings.Metrics.TextfilePath, registry, out)
	}

	saveBench := common.NewBenchmarker(out, "merge", metrics.Stage("merge"))
	result, err := store.AddLine(settings.Output.DatabasePath, extraction.Line, store.MergeMode(settings.Output.MergeMode))
	saveBench.Close()
	if err != nil {
		return fmt.Errorf("store.AddLine: %w", err)
	}
	metrics.LinesIngestedTotal.Inc()

	action := "added"
	if result.Replaced {
		action = "replaced"
	}
	fmt.Fprintf(out, "\nLine %s at position %d: %s\n", action, result.Index+1, extraction.Line.Name)
	fmt.Fprintf(out, "Total lines in database: %d\n", result.Total)

	if err := writeMetrics(settings.Metrics.TextfilePath, registry, out); err != nil {
		return err
	}

	if settings.Publish.Driver != "" {
		return Publish(context.Background(), settings.Publish.Driver, settings.Publish.DSN, settings.Output.DatabasePath, out)
	}
	return nil
}

func writeMetrics(path string, registry *prometheus.Registry, out io.Writer) error {
	if path == "" {
		return nil
	}
	if err := common.WriteTextfile(path, registry); err != nil {
		return fmt.Errorf("WriteTextfile: %w", err)
	}
	fmt.Fprintf(out, "Metrics written to %s\n", path)
	return nil
}

// Publish copies the database file as it now stands on disk into SQL.
func Publish(ctx context.Context, driver, dsn, databasePath string, out io.Writer) error {
	lines, err := store.Load(databasePath)
	if err != nil {
		return fmt.Errorf("store.Load: %w", err)
	}

	database, err := db.NewDatabaseConnection(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	result, err := db.PublishDatabase(ctx, database, lines, time.Now())
	if err != nil {
		return fmt.Errorf("db.PublishDatabase: %w", err)
	}
	fmt.Fprintf(out, "Published export %s: %d lines, %d stops, %d prices\n",
		result.ExportID, result.Lines, result.Stops, result.Prices)

	latest, err := db.LatestExport(ctx, database)
	if err != nil {
		return fmt.Errorf("db.LatestExport: %w", err)
	}
	if latest != result.ExportID {
		return fmt.Errorf("latest export is %s, expected %s", latest, result.ExportID)
	}
	stored, err := db.ExportSummary(ctx, database, latest)
	if err != nil {
		return fmt.Errorf("db.ExportSummary: %w", err)
	}
	if stored != result {
		return fmt.Errorf("export %s read back as %+v, wrote %+v", latest, stored, result)
	}
	fmt.Fprintf(out, "Verified export %s\n", latest)
	return nil
}
