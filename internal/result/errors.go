package result

import (
	"fmt"
	"net/http"
)

// HttpError is a response with status 300 or above
type HttpError struct {
	Status     int
	StatusText string
}

func (e *HttpError) Error() string {
	text := e.StatusText
	if text == "" {
		text = http.StatusText(e.Status)
	}
	if e.Status >= 500 {
		return fmt.Sprintf("Server Error %d: %s", e.Status, text)
	}
	return fmt.Sprintf("Error %d: %s", e.Status, text)
}

// MalformedResponseError is a body that starts like a JSON array but is not
// an array of objects
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return "Malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
