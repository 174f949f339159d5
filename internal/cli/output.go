package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/archibus-connect/internal/app"
	"github.com/studiowebux/archibus-connect/internal/filter"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/result"
)

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

func getStatusColor(status int) string {
	if status >= 200 && status < 300 {
		return colorGreen
	} else if status >= 400 || status == 0 {
		return colorRed
	}
	return colorYellow
}

// report is the json/yaml rendering of a settled submission
type report struct {
	Status     int             `json:"status" yaml:"status"`
	StatusText string          `json:"status_text" yaml:"status_text"`
	Kind       string          `json:"kind" yaml:"kind"`
	Records    int             `json:"records" yaml:"records"`
	Duration   string          `json:"duration" yaml:"duration"`
	Text       string          `json:"text,omitempty" yaml:"text,omitempty"`
	Rows       json.RawMessage `json:"rows,omitempty" yaml:"-"`
	YAMLRows   *yaml.Node      `json:"-" yaml:"rows,omitempty"`
}

func newReport(o app.Outcome, r result.Result) report {
	rep := report{
		Kind:     r.Kind().String(),
		Records:  r.RecordCount(),
		Duration: gateway.FormatDuration(o.Duration),
		Text:     r.Text(),
	}
	if o.Response != nil {
		rep.Status = o.Response.Status
		rep.StatusText = o.Response.StatusText
	}
	if r.IsTable() {
		rep.Rows = json.RawMessage(filter.RowsJSON(r.Rows()))
		rep.YAMLRows = rowsNode(r.Rows())
	}
	return rep
}

// rowsNode keeps each row's key order; JSON cell values are valid YAML
func rowsNode(rows []result.Row) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, cell := range row {
			key := &yaml.Node{Kind: yaml.ScalarNode, Value: cell.Key}
			m.Content = append(m.Content, key, valueNode(cell.Raw))
		}
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func valueNode(raw string) *yaml.Node {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	return doc.Content[0]
}

// formatOutput formats the result based on the output format
func formatOutput(o app.Outcome, r result.Result, filtered bool, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(newReport(o, r), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(newReport(o, r))
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "csv":
		if !r.IsTable() {
			return lineOf(r.Display()), nil
		}
		return lineOf(result.ToCSV(r.Rows())), nil

	case "body":
		return lineOf(bodyOf(o, r, filtered)), nil

	default:
		return textOutput(o, r), nil
	}
}

// bodyOf is the response body as received, or the filtered result
func bodyOf(o app.Outcome, r result.Result, filtered bool) string {
	switch {
	case filtered && r.IsTable():
		return filter.RowsJSON(r.Rows())
	case filtered, r.IsError(), o.Response == nil:
		return r.Text()
	default:
		return o.Response.Body
	}
}

func lineOf(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func textOutput(o app.Outcome, r result.Result) string {
	var sb strings.Builder

	if o.Response != nil {
		sb.WriteString(fmt.Sprintf("%s%d %s%s\n", getStatusColor(o.Response.Status), o.Response.Status, o.Response.StatusText, colorReset))
		sb.WriteString(fmt.Sprintf("Duration: %s | Size: %s\n\n",
			gateway.FormatDuration(o.Response.Duration),
			gateway.FormatSize(o.Response.ResponseSize)))
	}

	switch {
	case r.IsTable():
		sb.WriteString(result.CountHeader(r.RecordCount()))
		sb.WriteString("\n")
		if r.RecordCount() > 0 {
			sb.WriteString(renderTable(result.ToDisplayRows(r.Rows())))
			sb.WriteString("\n")
		}
	case r.IsError():
		sb.WriteString(fmt.Sprintf("%s%s%s\n", colorRed, r.Text(), colorReset))
	default:
		sb.WriteString(lineOf(r.Display()))
	}
	return sb.String()
}

func renderTable(t result.Table) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// printPayload writes the request body, highlighted when stdout is a terminal
func (r *Runner) printPayload(p form.Payload) error {
	data, err := p.Indented()
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	return writePayload(r.Stdout, string(data), isTerminal(r.Stdout))
}

func writePayload(w io.Writer, body string, highlight bool) error {
	body = lineOf(body)
	if highlight {
		if err := quick.Highlight(w, body, "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, body)
	return err
}
