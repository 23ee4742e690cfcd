package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned when a file has no header row
var ErrEmptySheet = errors.New("no header row found")

// ReadCSV reads a delimited file and splits it into header and records
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	return splitHeader(rows)
}

// ReadXLSX reads the first worksheet of a spreadsheet and splits it into
// header and records
func ReadXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return splitHeader(rows)
}

// splitHeader treats the first non-blank row as the header
func splitHeader(rows [][]string) ([]string, [][]string, error) {
	for i, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		header := make([]string, len(row))
		for j, h := range row {
			header[j] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		}
		return header, rows[i+1:], nil
	}
	return nil, nil, ErrEmptySheet
}
