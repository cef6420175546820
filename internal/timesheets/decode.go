package timesheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"logit-backend/internal/shared/util"
)

// SupportedExtension reports whether Decode can read files named like fileName.
func SupportedExtension(fileName string) bool {
	switch util.Ext(fileName) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Decode reads a CSV or workbook upload into raw rows. Blank rows are skipped.
func Decode(fileName string, r io.Reader) ([]RawRow, error) {
	switch util.Ext(fileName) {
	case ".csv":
		return decodeCSV(r)
	case ".xlsx", ".xlsm":
		return decodeWorkbook(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, upload CSV or XLSX", ErrDecode, util.Ext(fileName))
	}
}

func decodeCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrDecode)
		}
		return nil, fmt.Errorf("%w: read csv header: %v", ErrDecode, err)
	}
	headers = cleanHeaders(headers)
	if !hasAnyHeader(headers) {
		return nil, fmt.Errorf("%w: missing header row", ErrDecode)
	}

	rows := make([]RawRow, 0, 64)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: read csv row %d: %v", ErrDecode, line, err)
		}
		if row, ok := buildRow(headers, record, line); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func decodeWorkbook(r io.Reader) ([]RawRow, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrDecode, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrDecode)
	}
	// Raw values keep date cells as serial day numbers instead of their display format.
	records, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from sheet %s: %v", ErrDecode, sheetName, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrDecode)
	}
	headers := cleanHeaders(records[0])
	if !hasAnyHeader(headers) {
		return nil, fmt.Errorf("%w: missing header row", ErrDecode)
	}

	rows := make([]RawRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if row, ok := buildRow(headers, record, i+2); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = util.CleanHeader(h)
	}
	return out
}

func hasAnyHeader(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}

func buildRow(headers, record []string, line int) (RawRow, bool) {
	values := make(map[string]string, len(headers))
	blank := true
	for i, h := range headers {
		if h == "" {
			continue
		}
		v := ""
		if i < len(record) {
			v = strings.TrimSpace(record[i])
		}
		if v != "" {
			blank = false
		}
		if _, seen := values[h]; seen && v == "" {
			continue
		}
		values[h] = v
	}
	if blank {
		return RawRow{}, false
	}
	return RawRow{Line: line, Values: values}, true
}
