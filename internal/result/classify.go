package result

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// Classify turns a status line and body into a Result.
// Any status of 300 or above is an error regardless of the body. A body whose
// first non-whitespace character is '[' must be an array of objects.
// Everything else is returned as raw text.
func Classify(status int, statusText, body string) Result {
	if status >= 300 {
		err := &HttpError{Status: status, StatusText: statusText}
		return ErrorText(err.Error(), err)
	}

	if !looksLikeArray(body) {
		return RawText(body)
	}

	rows, err := ParseRows(body)
	if err != nil {
		return ErrorText(err.Error(), err)
	}
	return RowTable(rows)
}

func looksLikeArray(body string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(body, unicode.IsSpace), "[")
}

// ParseRows parses a JSON array of objects, keeping each object's key order.
// Errors are *MalformedResponseError.
func ParseRows(body string) ([]Row, error) {
	// gjson does not report syntax errors
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(body), &probe); err != nil {
		return nil, &MalformedResponseError{Reason: err.Error(), Err: err}
	}

	parsed := gjson.Parse(body)
	if !parsed.IsArray() {
		return nil, &MalformedResponseError{Reason: "expected a JSON array"}
	}

	elements := parsed.Array()
	rows := make([]Row, 0, len(elements))
	for i, el := range elements {
		if !el.IsObject() {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("element %d is %s, not an object", i, describe(el))}
		}
		rows = append(rows, parseRow(el))
	}
	return rows, nil
}

func parseRow(obj gjson.Result) Row {
	row := Row{}
	obj.ForEach(func(key, value gjson.Result) bool {
		row = row.with(key.String(), value.Raw)
		return true
	})
	return row
}

func describe(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	default:
		if v.IsArray() {
			return "an array"
		}
		return "a value"
	}
}
