package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/studiowebux/archibus-connect/internal/result"
)

const sheetName = "Results"

// XLSX writes data.xlsx with a bold header row. JSON numbers are stored as
// numeric cells.
func (w *Writer) XLSX(r result.Result) (string, error) {
	if !r.IsTable() {
		return "", ErrNoTable
	}
	path, err := w.path(FormatXLSX)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := r.Rows()
	table := result.ToDisplayRows(rows)

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	if len(table.Columns) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return "", fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return "", fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, cells := range table.Rows {
		values := make([]interface{}, len(cells))
		for j, text := range cells {
			if v, ok := numeric(rows[i], table.Columns[j]); ok {
				values[j] = v
			} else {
				values[j] = text
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	logExport(FormatXLSX, path, r)
	return path, nil
}
