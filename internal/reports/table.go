package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Table is one sheet of a report.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// WriteXLSX writes each table to its own sheet, in order.
func WriteXLSX(w io.Writer, tables ...Table) error {
	file := excelize.NewFile()
	defer file.Close()

	for i, table := range tables {
		sheet := table.Name
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet, err)
			}
		} else if _, err := file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		for col, header := range table.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := file.SetCellValue(sheet, cell, header); err != nil {
				return fmt.Errorf("set excel header %s: %w", cell, err)
			}
		}
		for r, values := range table.Rows {
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := file.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("set excel value %s: %w", cell, err)
				}
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write excel output: %w", err)
	}
	return nil
}

// WriteCSV writes the tables one after another. With several tables each
// section starts with its name and sections are separated by a blank line.
func WriteCSV(w io.Writer, tables ...Table) error {
	cw := csv.NewWriter(w)
	for i, table := range tables {
		if len(tables) > 1 {
			if i > 0 {
				if err := cw.Write(nil); err != nil {
					return err
				}
			}
			if err := cw.Write([]string{table.Name}); err != nil {
				return err
			}
		}
		if err := cw.Write(table.Headers); err != nil {
			return err
		}
		for _, values := range table.Rows {
			record := make([]string, len(values))
			for col, v := range values {
				record[col] = cellString(v)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(x)
	}
}
