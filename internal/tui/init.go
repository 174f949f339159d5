package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/archibus-connect/internal/app"
	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/export"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/keybinds"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/result"
)

// Options configures a TUI model
type Options struct {
	Form     *form.Form         // form.Default() when nil
	Settings config.Settings
	FlagURL  string             // re-applied on every settings reload
	History  HistoryStore       // nil disables history
	Keybinds *keybinds.Registry // defaults when nil
	Sender   app.Sender         // built from Settings when nil
	Version  string

	// Watch reloads Settings.Source on change
	Watch bool
	// CheckUpdates queries the latest release on start
	CheckUpdates bool
}

// New creates a new TUI model
func New(opts Options) (*Model, error) {
	f := opts.Form
	if f == nil {
		f = form.Default()
	}
	registry := opts.Keybinds
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleWarning

	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.Placeholder = "JMESPath expression or $(command)"
	filterInput.CharLimit = 512

	m := &Model{
		form:         f,
		state:        app.NewState(f),
		settings:     opts.Settings,
		sender:       opts.Sender,
		history:      opts.History,
		keybinds:     registry,
		exporter:     export.NewWriter(opts.Settings.ExportDir),
		mode:         ModeForm,
		version:      opts.Version,
		fields:       f.Visible(),
		spinner:      s,
		display:      result.Empty(),
		resultView:   table.New(table.WithFocused(true)),
		rawView:      viewport.New(80, ResultMinHeight),
		helpView:     viewport.New(80, 20),
		filterInput:  filterInput,
		historyState: NewHistoryState(),
		checkUpdates: opts.CheckUpdates,
	}
	if len(m.fields) == 0 {
		return nil, fmt.Errorf("form has no visible fields")
	}

	m.inputs = make([]textinput.Model, len(m.fields))
	for i, d := range m.fields {
		if _, ok := d.Kind.(form.TextField); !ok {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = d.Label
		ti.CharLimit = 256
		ti.Width = FormInputWidth
		m.inputs[i] = ti
	}
	m.syncInputs()
	m.setFocus(0)

	if opts.Watch && opts.Settings.Source != "" {
		ctx, cancel := context.WithCancel(context.Background())
		reloads, err := config.Watch(ctx, opts.Settings.Source, opts.FlagURL)
		if err != nil {
			cancel()
			logging.Logger().Error(err, "settings hot reload disabled")
		} else {
			m.reloads = reloads
			m.watchCancel = cancel
		}
	}

	return m, nil
}

// Run starts the TUI and blocks until it exits
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
