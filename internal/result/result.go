// Package result classifies gateway responses and renders row tables for
// display and CSV export.
package result

import "fmt"

// Kind tags the variant held by a Result
type Kind int

const (
	KindEmpty Kind = iota
	KindError
	KindRaw
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindError:
		return "error"
	case KindRaw:
		return "raw"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of one submission. The zero value is Empty.
type Result struct {
	kind Kind
	text string
	rows []Row
	err  error
}

// Empty is the result before any submission and after clear
func Empty() Result {
	return Result{}
}

// ErrorText holds a single human-readable failure line and its typed cause
func ErrorText(text string, cause error) Result {
	return Result{kind: KindError, text: text, err: cause}
}

// RawText holds a non-array success body verbatim
func RawText(body string) Result {
	return Result{kind: KindRaw, text: body}
}

// RowTable holds the objects of a JSON array body
func RowTable(rows []Row) Result {
	if rows == nil {
		rows = []Row{}
	}
	return Result{kind: KindTable, rows: rows}
}

func (r Result) Kind() Kind { return r.kind }

// Text returns the error line or raw body; it is empty for tables
func (r Result) Text() string { return r.text }

// Rows returns the table rows, or nil for any other variant
func (r Result) Rows() []Row { return r.rows }

// Err returns the cause of an ErrorText result
func (r Result) Err() error { return r.err }

func (r Result) IsEmpty() bool { return r.kind == KindEmpty }
func (r Result) IsError() bool { return r.kind == KindError }
func (r Result) IsTable() bool { return r.kind == KindTable }

// RecordCount is the number of rows in a table result, zero otherwise
func (r Result) RecordCount() int {
	return len(r.rows)
}

// Display returns the one-line textual form of the result
func (r Result) Display() string {
	switch r.kind {
	case KindError, KindRaw:
		return r.text
	case KindTable:
		return CountHeader(len(r.rows))
	default:
		return ""
	}
}

// CountHeader is the heading shown above a row table
func CountHeader(n int) string {
	return fmt.Sprintf("Results (%d Records)", n)
}
