package workbook

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any, active string) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	for name, rows := range sheets {
		if name != "Sheet1" {
			if _, err := file.NewSheet(name); err != nil {
				t.Fatalf("NewSheet: %v", err)
			}
		}
		for r, row := range rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatal(err)
				}
				if err := file.SetCellValue(name, cell, value); err != nil {
					t.Fatalf("SetCellValue: %v", err)
				}
			}
		}
	}

	if active != "" {
		idx, err := file.GetSheetIndex(active)
		if err != nil {
			t.Fatal(err)
		}
		file.SetActiveSheet(idx)
	}

	path := filepath.Join(t.TempDir(), "fares.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestOpenExcel(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Sheet1": {{"ignored"}},
		"Linea 401": {
			{"Udine", "Fagagna", "San Daniele"},
			{nil, "E1", "E3"},
			{"E1", nil, "E1"},
			{"E3", "E1", 7},
		},
	}, "Linea 401")

	workbook, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(workbook.Sheets) != 2 {
		t.Fatalf("sheets = %d", len(workbook.Sheets))
	}

	sheet := workbook.Active()
	if sheet.Name != "Linea 401" {
		t.Fatalf("active sheet = %q", sheet.Name)
	}
	if got := sheet.Cell(1, 3); got != "San Daniele" {
		t.Errorf("Cell(1,3) = %q", got)
	}
	if got := sheet.Cell(2, 1); got != "" {
		t.Errorf("empty cell = %q", got)
	}
	if got := sheet.Cell(4, 3); got != "7" {
		t.Errorf("numeric cell = %q, want raw 7", got)
	}
	if got := sheet.Cell(40, 40); got != "" {
		t.Errorf("out of range cell = %q", got)
	}
	if len(sheet.Header()) != 3 || len(sheet.DataRows()) != 3 {
		t.Errorf("header %v, data rows %d", sheet.Header(), len(sheet.DataRows()))
	}
	if sheet.MaxRow() != 4 || sheet.MaxColumn() != 3 {
		t.Errorf("size = %dx%d", sheet.MaxRow(), sheet.MaxColumn())
	}

	named, err := workbook.SheetOrActive("Sheet1")
	if err != nil || named.Cell(1, 1) != "ignored" {
		t.Errorf("Sheet1 lookup = %v, %v", named, err)
	}
	if _, err := workbook.Sheet("missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("missing sheet err = %v", err)
	}
}

func TestOpenCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "san-daniele.csv")
	content := "Udine,Fagagna\n,E1\nE1\n,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	workbook, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sheet := workbook.Active()
	if sheet.Name != "san-daniele" {
		t.Errorf("sheet name = %q", sheet.Name)
	}
	if sheet.MaxRow() != 3 {
		t.Errorf("MaxRow = %d, trailing blank row should not count", sheet.MaxRow())
	}
	if rows := sheet.DataRows(); len(rows) != 2 || rows[1][0] != "E1" {
		t.Errorf("data rows = %v", rows)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Open(filepath.Join(dir, "nope.xlsx")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}

	garbage := filepath.Join(dir, "broken.xlsx")
	if err := os.WriteFile(garbage, []byte("this is not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(garbage); !errors.Is(err, ErrFormat) {
		t.Errorf("garbage file err = %v", err)
	}

	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(text); !errors.Is(err, ErrFormat) {
		t.Errorf("unsupported extension err = %v", err)
	}
}

func TestPreview(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Sheet1": {{"A", "B"}, {nil, "U1"}, {"U1"}},
	}, "")

	workbook, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	Preview(&out, workbook, 2)
	text := out.String()

	if !strings.Contains(text, "Size: 3 rows x 2 columns") {
		t.Errorf("missing size line:\n%s", text)
	}
	if !strings.Contains(text, "Row  1: A | B") || !strings.Contains(text, "Row  2:  | U1") {
		t.Errorf("missing rows:\n%s", text)
	}
	if strings.Contains(text, "Row  3") {
		t.Errorf("printed more rows than asked:\n%s", text)
	}
}
