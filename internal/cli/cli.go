// Package cli implements the non-interactive `archibus submit` command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/studiowebux/archibus-connect/internal/app"
	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/export"
	"github.com/studiowebux/archibus-connect/internal/filter"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/history"
	"github.com/studiowebux/archibus-connect/internal/logging"
)

// ErrFailedResult is returned after output when the submission settled as an error
var ErrFailedResult = errors.New("submission failed")

// FieldFlag binds a command-line flag to a form field
type FieldFlag struct {
	Flag  string
	Field string
}

// FieldFlags lists the per-field flags of `archibus submit`
var FieldFlags = []FieldFlag{
	{"building-id", form.FieldBuildingID},
	{"building-name", form.FieldBuildingName},
	{"banner-name", form.FieldBannerName},
	{"floor-id", form.FieldFloorID},
	{"floor-name", form.FieldFloorName},
	{"file-type", form.FieldFileType},
	{"flat-file", form.FieldFlatFile},
}

// HistorySaver stores settled submissions. *history.Manager implements it.
type HistorySaver interface {
	Save(e history.Entry) (history.Entry, error)
}

// SubmitOptions contains options for one submission
type SubmitOptions struct {
	Values    map[string]string // field name -> value, only fields given on the command line
	Prompt    bool
	Filter    string   // JMESPath expression or $(command)
	Output    string   // text, json, yaml, csv, body; empty picks text on a terminal
	Exports   []string // csv, xlsx, pdf
	DryRun    bool
	NoHistory bool
}

// Runner carries the collaborators of a submission
type Runner struct {
	Form      *form.Form
	Settings  config.Settings
	Sender    app.Sender // built from Settings when nil
	History   HistorySaver
	Prompter  Prompter
	UserAgent string
	Stdout    io.Writer
	Stderr    io.Writer
}

// Submit fills the form, sends it and prints the result
func (r *Runner) Submit(ctx context.Context, opts SubmitOptions) error {
	f := r.Form
	if f == nil {
		f = form.Default()
	}

	outputFormat, err := r.outputFormat(opts.Output)
	if err != nil {
		return err
	}
	formats, err := parseExports(opts.Exports)
	if err != nil {
		return err
	}

	state, err := applyValues(f, f.Initial(), opts.Values)
	if err != nil {
		return err
	}

	if opts.Prompt {
		if r.Prompter == nil {
			if !isTerminal(os.Stdin) {
				return fmt.Errorf("cannot prompt for fields: stdin is not a terminal")
			}
			r.Prompter = NewSurveyPrompter()
		}
		state, err = promptFields(f, state, r.Prompter, opts.Values)
		if err != nil {
			return err
		}
	}

	payload := f.ToRequestPayload(state)

	if opts.DryRun {
		return r.printPayload(payload)
	}

	sender := r.Sender
	endpoint := r.Settings.APIURL
	if sender == nil {
		if err := r.Settings.RequireEndpoint(); err != nil {
			return err
		}
		client, err := gateway.NewClient(endpoint, r.Settings.ClientOptions(r.UserAgent)...)
		if err != nil {
			return fmt.Errorf("failed to create gateway client: %w", err)
		}
		sender = client
	}

	logging.Logger().Info("Submitting form", "endpoint", endpoint, "fields", len(state.Values()))
	outcome := app.Exchange(ctx, sender, payload)

	if r.History != nil && r.Settings.HistoryEnabled && !opts.NoHistory {
		if _, err := r.History.Save(outcome.Entry(endpoint, state.Values(), payload)); err != nil {
			fmt.Fprintf(r.Stderr, "Warning: failed to save history: %v\n", err)
		}
	}

	res := outcome.Result
	filtered := false
	if opts.Filter != "" {
		if out, err := filter.ApplyToResult(ctx, res, opts.Filter); err != nil {
			fmt.Fprintf(r.Stderr, "Warning: filter error: %v\n", err)
		} else {
			res, filtered = out, true
		}
	}

	var exportErrs []error
	if len(formats) > 0 {
		writer := export.NewWriter(r.Settings.ExportDir)
		for _, format := range formats {
			path, err := writer.Export(res, format)
			if err != nil {
				exportErrs = append(exportErrs, fmt.Errorf("failed to export %s: %w", format, err))
				continue
			}
			fmt.Fprintf(r.Stderr, "Exported %s\n", path)
		}
	}

	output, err := formatOutput(outcome, res, filtered, outputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(r.Stdout, output)

	if err := errors.Join(exportErrs...); err != nil {
		return err
	}
	if res.IsError() {
		return ErrFailedResult
	}
	return nil
}

func (r *Runner) outputFormat(requested string) (string, error) {
	switch requested {
	case "text", "json", "yaml", "csv", "body":
		return requested, nil
	case "":
		if isTerminal(r.Stdout) {
			return "text", nil
		}
		return "body", nil
	default:
		return "", fmt.Errorf("unknown output format %q (allowed: text, json, yaml, csv, body)", requested)
	}
}

func parseExports(values []string) ([]export.Format, error) {
	var formats []export.Format
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			format, err := export.ParseFormat(part)
			if err != nil {
				return nil, err
			}
			formats = append(formats, format)
		}
	}
	return formats, nil
}

// applyValues sets command-line values, rejecting dropdown values outside the options
func applyValues(f *form.Form, state form.State, values map[string]string) (form.State, error) {
	for name := range values {
		if _, ok := f.Descriptor(name); !ok {
			return state, &form.UnknownFieldError{Name: name}
		}
	}

	for _, d := range f.Descriptors() {
		value, ok := values[d.Name]
		if !ok {
			continue
		}
		if err := f.ValidateChoice(d.Name, value); err != nil {
			return state, err
		}
		next, err := state.SetField(d.Name, value)
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}

type fdWriter interface {
	Fd() uintptr
}

func isTerminal(v any) bool {
	fw, ok := v.(fdWriter)
	if !ok {
		return false
	}
	fd := fw.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
