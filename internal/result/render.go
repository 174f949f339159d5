package result

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Placeholder is shown for null, empty and missing cells
const Placeholder = "--"

// Cell is one key of a row object with the raw JSON text of its value
type Cell struct {
	Key string
	Raw string
}

// Text renders the cell value
func (c Cell) Text() string {
	return renderRaw(c.Raw)
}

// Row is one array element, its keys in document order
type Row []Cell

// with sets key, replacing an earlier value in place
func (r Row) with(key, raw string) Row {
	for i := range r {
		if r[i].Key == key {
			r[i].Raw = raw
			return r
		}
	}
	return append(r, Cell{Key: key, Raw: raw})
}

// Keys returns the row keys in document order
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Key
	}
	return keys
}

// Get returns the cell stored under key
func (r Row) Get(key string) (Cell, bool) {
	for _, c := range r {
		if c.Key == key {
			return c, true
		}
	}
	return Cell{}, false
}

// Render returns the rendered text under key, the placeholder when missing
func (r Row) Render(key string) string {
	c, ok := r.Get(key)
	if !ok {
		return Placeholder
	}
	return c.Text()
}

// Values renders every cell in the row's own key order
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text()
	}
	return out
}

// Table is a row table prepared for display
type Table struct {
	Columns []string
	Rows    [][]string
}

// ToDisplayRows takes its columns from the first row only. Later rows are
// looked up by those columns, so their extra keys are not shown.
func ToDisplayRows(rows []Row) Table {
	t := Table{Rows: make([][]string, 0, len(rows))}
	if len(rows) == 0 {
		return t
	}

	t.Columns = rows[0].Keys()
	for _, row := range rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = row.Render(col)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// CSVRecords returns one record per row in each row's own key order
func CSVRecords(rows []Row) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Values()
	}
	return records
}

// WriteCSV writes rows as RFC 4180 records separated by "\n"
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(CSVRecords(rows)); err != nil {
		return err
	}
	return cw.Error()
}

// ToCSV renders rows as CSV text without a header line or trailing newline
func ToCSV(rows []Row) string {
	var sb strings.Builder
	if err := WriteCSV(&sb, rows); err != nil {
		return ""
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func renderRaw(raw string) string {
	if raw == "" {
		return Placeholder
	}

	v := gjson.Parse(raw)
	switch v.Type {
	case gjson.Null:
		return Placeholder
	case gjson.String:
		if v.Str == "" {
			return Placeholder
		}
		return v.Str
	case gjson.Number:
		return renderNumber(v)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(raw)); err != nil {
			return raw
		}
		return buf.String()
	}
}

// renderNumber prints numbers in their shortest decimal form, so 1.0 is "1"
// and 1e3 is "1000". Integer literals keep their text to stay exact past 2^53.
func renderNumber(v gjson.Result) string {
	if !strings.ContainsAny(v.Raw, ".eE") {
		if v.Raw == "-0" {
			return "0"
		}
		return v.Raw
	}
	if v.Num == 0 {
		return "0"
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}
