package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrFileNotFound  = errors.New("spreadsheet not found")
	ErrFormat        = errors.New("not a valid spreadsheet")
	ErrSheetNotFound = errors.New("sheet not found")
)

// Sheet is one worksheet's cells, row-major, as raw text.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook holds every sheet of a spreadsheet file.
type Workbook struct {
	Path   string
	Sheets []Sheet
	active int
}

// Open loads a spreadsheet. Excel workbooks are read with excelize; .csv
// files become a single-sheet workbook named after the file.
func Open(path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFormat, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return openExcel(path)
	case ".csv":
		return openCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrFormat, filepath.Ext(path))
	}
}

func openExcel(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	defer file.Close()

	workbook := &Workbook{Path: path}
	activeName := file.GetSheetName(file.GetActiveSheetIndex())

	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: sheet %s: %v", ErrFormat, path, name, err)
		}
		if name == activeName {
			workbook.active = len(workbook.Sheets)
		}
		workbook.Sheets = append(workbook.Sheets, Sheet{Name: name, Rows: rows})
	}

	if len(workbook.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no worksheets", ErrFormat, path)
	}
	return workbook, nil
}

func openCSV(path string) (*Workbook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
		}
		rows = append(rows, row)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Workbook{Path: path, Sheets: []Sheet{{Name: name, Rows: rows}}}, nil
}

// Active returns the sheet that was active when the workbook was saved.
func (workbook *Workbook) Active() *Sheet {
	return &workbook.Sheets[workbook.active]
}

func (workbook *Workbook) Sheet(name string) (*Sheet, error) {
	for i := range workbook.Sheets {
		if workbook.Sheets[i].Name == name {
			return &workbook.Sheets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, name, workbook.Path)
}

// SheetOrActive picks the named sheet, or the active one when name is empty.
func (workbook *Workbook) SheetOrActive(name string) (*Sheet, error) {
	if name == "" {
		return workbook.Active(), nil
	}
	return workbook.Sheet(name)
}

// Cell returns the value at a 1-based row and column, "" when out of range.
func (sheet *Sheet) Cell(row, col int) string {
	if row < 1 || row > len(sheet.Rows) {
		return ""
	}
	cells := sheet.Rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// Header is row 1.
func (sheet *Sheet) Header() []string {
	if len(sheet.Rows) == 0 {
		return nil
	}
	return sheet.Rows[0]
}

// DataRows are rows 2 through the last populated row.
func (sheet *Sheet) DataRows() [][]string {
	last := sheet.MaxRow()
	if last < 2 {
		return nil
	}
	return sheet.Rows[1:last]
}

// MaxRow is the index of the last row holding a non-blank cell.
func (sheet *Sheet) MaxRow() int {
	for i := len(sheet.Rows); i > 0; i-- {
		for _, cell := range sheet.Rows[i-1] {
			if strings.TrimSpace(cell) != "" {
				return i
			}
		}
	}
	return 0
}

func (sheet *Sheet) MaxColumn() int {
	widest := 0
	for _, row := range sheet.Rows {
		for j := len(row); j > widest; j-- {
			if strings.TrimSpace(row[j-1]) != "" {
				widest = j
				break
			}
		}
	}
	return widest
}
