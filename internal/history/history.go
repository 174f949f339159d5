// Package history stores settled submissions in SQLite so they can be
// listed, inspected and replayed into the form.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/studiowebux/archibus-connect/internal/result"
)

// ErrNotFound is returned by Get for an unknown id
var ErrNotFound = errors.New("history entry not found")

// Entry is one settled submission
type Entry struct {
	ID          string            `json:"id" yaml:"id"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
	Endpoint    string            `json:"endpoint" yaml:"endpoint"`
	Form        map[string]string `json:"form" yaml:"form"`
	Payload     string            `json:"payload" yaml:"payload"`
	Status      int               `json:"status" yaml:"status"`
	StatusText  string            `json:"status_text" yaml:"status_text"`
	ResultKind  string            `json:"result_kind" yaml:"result_kind"`
	RecordCount int               `json:"record_count" yaml:"record_count"`
	Body        string            `json:"body,omitempty" yaml:"body,omitempty"`
	Duration    time.Duration     `json:"duration" yaml:"duration"`
	Error       string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result rebuilds the display result. Transport failures have no status and
// are restored from the stored error line.
func (e Entry) Result() result.Result {
	if e.Status == 0 {
		if e.Error == "" {
			return result.Empty()
		}
		return result.ErrorText(e.Error, errors.New(e.Error))
	}
	return result.Classify(e.Status, e.StatusText, e.Body)
}

// Summary is the one-line description used in history lists
func (e Entry) Summary() string {
	when := e.CreatedAt.Local().Format("2006-01-02 15:04:05")
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s  %s", when, e.Error)
	case e.ResultKind == result.KindTable.String():
		return fmt.Sprintf("%s  %d %s  %d records", when, e.Status, e.StatusText, e.RecordCount)
	default:
		return fmt.Sprintf("%s  %d %s  %s", when, e.Status, e.StatusText, e.ResultKind)
	}
}
