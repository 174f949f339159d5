package app

import (
	"context"
	"errors"
	"time"

	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/history"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/result"
)

// Sender performs the gateway call. *gateway.Client implements it.
type Sender interface {
	Send(ctx context.Context, payload form.Payload) (*gateway.Response, error)
}

// Outcome is a settled exchange
type Outcome struct {
	Result   result.Result
	Response *gateway.Response // nil when the request never completed
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Exchange sends the payload and classifies the response. It never returns
// an error: failures become an ErrorText result.
func Exchange(ctx context.Context, sender Sender, payload form.Payload) Outcome {
	started := time.Now()
	resp, err := sender.Send(ctx, payload)
	out := Outcome{Response: resp, Err: err, Started: started, Duration: time.Since(started)}

	switch {
	case err != nil:
		out.Result = failure(err)
	case resp == nil:
		out.Result = result.Empty()
	default:
		out.Result = result.Classify(resp.Status, resp.StatusText, resp.Body)
		out.Duration = resp.Duration
	}

	logging.Logger().Info("submission settled",
		"kind", out.Result.Kind().String(),
		"records", out.Result.RecordCount(),
		"duration", out.Duration)
	return out
}

func failure(err error) result.Result {
	var netErr *gateway.NetworkError
	if errors.As(err, &netErr) {
		return result.ErrorText(netErr.Error(), netErr)
	}
	netErr = &gateway.NetworkError{Summary: gateway.Categorize(err), Err: err}
	return result.ErrorText(netErr.Error(), netErr)
}

// Entry builds the history record for this outcome
func (o Outcome) Entry(endpoint string, values map[string]string, payload form.Payload) history.Entry {
	body, _ := payload.JSON()
	e := history.Entry{
		CreatedAt:   o.Started,
		Endpoint:    endpoint,
		Form:        values,
		Payload:     string(body),
		ResultKind:  o.Result.Kind().String(),
		RecordCount: o.Result.RecordCount(),
		Duration:    o.Duration,
	}
	if o.Response != nil {
		e.Status = o.Response.Status
		e.StatusText = o.Response.StatusText
		e.Body = o.Response.Body
	}
	if o.Result.IsError() {
		e.Error = o.Result.Text()
	}
	return e
}
