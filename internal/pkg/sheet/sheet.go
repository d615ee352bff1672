// Package sheet reads uploaded attendance spreadsheets into header-keyed rows.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// ReadFile reads a .csv, .xlsx or .xlsm file.
func ReadFile(path string) ([]attendance.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read picks the parser from the file name's extension.
func Read(r io.Reader, name string) ([]attendance.Row, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", attendance.ErrUnsupportedFile, name)
	}
}

// ReadCSV parses comma separated rows. The first non-blank line is the header.
func ReadCSV(r io.Reader) ([]attendance.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, rec)
	}
	return toRows(records)
}

// ReadXLSX parses the first worksheet. Cells keep their raw values, so dates
// arrive as spreadsheet serial numbers.
func ReadXLSX(r io.Reader) ([]attendance.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, attendance.ErrEmptySheet
	}
	records, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return toRows(records)
}

func toRows(records [][]string) ([]attendance.Row, error) {
	start := 0
	for start < len(records) && isBlank(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, attendance.ErrEmptySheet
	}

	header := make([]string, len(records[start]))
	for i, h := range records[start] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]attendance.Row, 0, len(records)-start-1)
	for _, rec := range records[start+1:] {
		if isBlank(rec) {
			continue
		}
		row := make(attendance.Row, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			if _, dup := row[h]; dup {
				continue
			}
			row[h] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
