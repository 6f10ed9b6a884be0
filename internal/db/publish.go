package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tarediiran-industries.com/fare-services/internal/fares"
)

//go:embed schema.sql
var schemaSQL string

type ExportResult struct {
	ExportID string
	Lines    int
	Stops    int
	Prices   int
}

type PriceRecord struct {
	ExportId  string
	LineIndex int
	FromStop  int
	ToStop    int
	Code      string
	Price     float64
}

func PriceColumns() []string {
	return []string{"export_id", "line_index", "from_stop", "to_stop", "code", "price"}
}

func (entry *PriceRecord) ToAnyArray() []any {
	return []any{
		entry.ExportId,
		entry.LineIndex,
		entry.FromStop,
		entry.ToStop,
		entry.Code,
		entry.Price,
	}
}

func EnsureSchema(ctx context.Context, conn DBTX) error {
	for _, statement := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(statement) == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func priceRecords(exportId string, lines []fares.Line) []PriceRecord {
	records := make([]PriceRecord, 0)
	for lineIndex, line := range lines {
		for from := range line.Prices {
			for to, price := range line.Prices[from] {
				if from == to {
					continue
				}
				code := ""
				if from < len(line.Codes) && to < len(line.Codes[from]) {
					code = line.Codes[from][to]
				}
				records = append(records, PriceRecord{
					ExportId:  exportId,
					LineIndex: lineIndex,
					FromStop:  from,
					ToStop:    to,
					Code:      code,
					Price:     price.InexactFloat64(),
				})
			}
		}
	}
	return records
}

// PublishDatabase copies the whole fare database into SQL as a new export.
// The fare_exports row is written last, so readers that start from
// fare_exports never see an export whose prices are still loading.
func PublishDatabase(ctx context.Context, database *Database, lines []fares.Line, now time.Time) (ExportResult, error) {
	if err := EnsureSchema(ctx, database); err != nil {
		return ExportResult{}, err
	}

	result := ExportResult{ExportID: uuid.NewString(), Lines: len(lines)}
	records := priceRecords(result.ExportID, lines)
	result.Prices = len(records)

	tx, err := database.BeginTx(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	defer tx.Rollback()

	for lineIndex, line := range lines {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO fare_lines (export_id, line_index, name, stop_count) VALUES (?, ?, ?, ?)",
			result.ExportID, lineIndex, line.Name, len(line.Stops),
		)
		if err != nil {
			return ExportResult{}, fmt.Errorf("insert line %q: %w", line.Name, err)
		}

		for stopIndex, stop := range line.Stops {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO fare_stops (export_id, line_index, stop_index, name) VALUES (?, ?, ?, ?)",
				result.ExportID, lineIndex, stopIndex, stop,
			)
			if err != nil {
				return ExportResult{}, fmt.Errorf("insert stop %q: %w", stop, err)
			}
			result.Stops++
		}
	}

	// Postgres bulk-loads prices with COPY once the line rows are committed;
	// SQLite keeps everything in the one transaction.
	if database.Driver() == DriverPostgres {
		if err := tx.Commit(); err != nil {
			return ExportResult{}, err
		}
		_, err := database.CopyFromSlice(ctx, "fare_prices", PriceColumns(), len(records), func(i int) ([]any, error) {
			return records[i].ToAnyArray(), nil
		})
		if err != nil {
			return ExportResult{}, err
		}
		if err := insertExport(ctx, database, result, now); err != nil {
			return ExportResult{}, err
		}
		return result, nil
	}

	for i := range records {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO fare_prices (export_id, line_index, from_stop, to_stop, code, price) VALUES (?, ?, ?, ?, ?, ?)",
			records[i].ToAnyArray()...,
		)
		if err != nil {
			return ExportResult{}, fmt.Errorf("insert price: %w", err)
		}
	}
	if err := insertExport(ctx, tx, result, now); err != nil {
		return ExportResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ExportResult{}, err
	}
	return result, nil
}

// createdAtLayout is fixed width with nanoseconds, so created_at sorts as
// text in publish order even for exports made within the same second.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

func insertExport(ctx context.Context, conn DBTX, result ExportResult, now time.Time) error {
	_, err := conn.ExecContext(ctx,
		"INSERT INTO fare_exports (export_id, created_at, line_count) VALUES (?, ?, ?)",
		result.ExportID, now.UTC().Format(createdAtLayout), result.Lines,
	)
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	return nil
}

// LatestExport returns the id of the most recent complete export.
func LatestExport(ctx context.Context, conn DBTX) (string, error) {
	var exportId string
	row := conn.QueryRowContext(ctx, "SELECT export_id FROM fare_exports ORDER BY created_at DESC LIMIT 1")
	if err := row.Scan(&exportId); err != nil {
		return "", err
	}
	return exportId, nil
}

// ExportSummary counts what an export holds.
func ExportSummary(ctx context.Context, conn DBTX, exportId string) (ExportResult, error) {
	result := ExportResult{ExportID: exportId}
	counts := []struct {
		table string
		dst   *int
	}{
		{"fare_lines", &result.Lines},
		{"fare_stops", &result.Stops},
		{"fare_prices", &result.Prices},
	}

	for _, count := range counts {
		row := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+count.table+" WHERE export_id = ?", exportId)
		if err := row.Scan(count.dst); err != nil {
			return ExportResult{}, fmt.Errorf("count %s: %w", count.table, err)
		}
	}
	return result, nil
}
