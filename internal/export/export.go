// Package export writes the current row table to data.csv, data.xlsx or
// data.pdf, or copies it to the clipboard as CSV.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/result"
)

// ErrNoTable is returned when the current result is not a row table
var ErrNoTable = errors.New("no table to export")

// Format is an export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported export formats
var Formats = []Format{FormatCSV, FormatXLSX, FormatPDF}

// ParseFormat accepts csv, xlsx or pdf in any case
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (allowed: csv, xlsx, pdf)", s)
}

// FileName is the fixed output name for a format
func (f Format) FileName() string {
	return "data." + string(f)
}

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// Writer writes exports into Dir
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Export writes r in the given format and returns the file path
func (w *Writer) Export(r result.Result, format Format) (string, error) {
	switch format {
	case FormatCSV:
		return w.CSV(r)
	case FormatXLSX:
		return w.XLSX(r)
	case FormatPDF:
		return w.PDF(r)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// CSV writes data.csv with the same content as result.ToCSV
func (w *Writer) CSV(r result.Result) (string, error) {
	if !r.IsTable() {
		return "", ErrNoTable
	}
	path, err := w.path(FormatCSV)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(result.ToCSV(r.Rows())), config.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	logExport(FormatCSV, path, r)
	return path, nil
}

// Clipboard copies the CSV text of a table result
func (w *Writer) Clipboard(r result.Result) error {
	if !r.IsTable() {
		return ErrNoTable
	}
	if err := copyToClipboard(result.ToCSV(r.Rows())); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

func (w *Writer) path(format Format) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return filepath.Join(dir, format.FileName()), nil
}

func logExport(format Format, path string, r result.Result) {
	logging.Logger().Info("export written", "format", string(format), "path", path, "records", r.RecordCount())
}

// numeric returns the value of a cell holding a JSON number
func numeric(row result.Row, col string) (float64, bool) {
	c, ok := row.Get(col)
	if !ok || c.Raw == "" || c.Raw[0] == '"' {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.Raw, 64)
	return v, err == nil
}
