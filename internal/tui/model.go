package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/archibus-connect/internal/app"
	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/export"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/history"
	"github.com/studiowebux/archibus-connect/internal/keybinds"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/result"
	"github.com/studiowebux/archibus-connect/internal/version"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeForm Mode = iota
	ModeFilter
	ModeHistory
	ModeHistoryClearConfirm
	ModeHelp
)

// HistoryStore is the part of *history.Manager the TUI uses
type HistoryStore interface {
	Save(e history.Entry) (history.Entry, error)
	List(limit int) ([]history.Entry, error)
	Delete(id string) error
	Clear() error
	Close() error
}

// Model represents the TUI state
type Model struct {
	form     *form.Form
	state    app.State
	settings config.Settings
	sender   app.Sender // fixed sender, used instead of a gateway client when set
	history  HistoryStore
	keybinds *keybinds.Registry
	exporter *export.Writer
	mode     Mode

	version         string
	checkUpdates    bool
	updateAvailable bool
	latestVersion   string
	updateURL       string

	// Form
	fields []form.FieldDescriptor // visible fields in display order
	inputs []textinput.Model      // parallel to fields; unused for dropdowns
	focus  int                    // index into fields, then the Submit and Clear buttons

	// Result
	spinner    spinner.Model
	display    result.Result // state.Result after the active filter
	resultGen  int           // bumped whenever display is reset from state.Result
	resultView table.Model
	rawView    viewport.Model
	helpView   viewport.Model

	// Filter
	filterInput textinput.Model
	filterExpr  string

	// History browser
	historyState *HistoryState

	// Request cancellation
	requestCancel context.CancelFunc

	// Settings hot reload
	reloads     <-chan config.Reload
	watchCancel context.CancelFunc

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string
}

// focusSubmit and focusClear are the button positions after the fields
func (m *Model) focusSubmit() int { return len(m.fields) }
func (m *Model) focusClear() int  { return len(m.fields) + 1 }

// Init starts the cursor blink, the settings watcher and the update check
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForReload(), m.checkVersion())
}

// Cleanup stops the watcher and closes the history database
func (m *Model) Cleanup() {
	if m.requestCancel != nil {
		m.requestCancel()
	}
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	if m.history != nil {
		if err := m.history.Close(); err != nil {
			logging.Logger().Error(err, "error closing history database")
		}
		m.history = nil
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case spinner.TickMsg:
		if m.state.Loading {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case submissionSettledMsg:
		cmd = m.settle(msg)

	case historySavedMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage("Failed to save history: " + msg.err.Error())
		}

	case historyLoadedMsg:
		if msg.err != nil {
			m.mode = ModeForm
			cmd = m.setErrorMessage("Failed to load history: " + msg.err.Error())
			break
		}
		m.historyState.SetEntries(msg.entries)
		m.setStatusMessage(historyCountLine(len(msg.entries)))

	case filterAppliedMsg:
		cmd = m.applyFilterResult(msg)

	case settingsReloadedMsg:
		cmd = tea.Batch(m.reloadSettings(msg.reload), m.waitForReload())

	case versionCheckMsg:
		if msg.err == nil && msg.update.Available {
			m.updateAvailable = true
			m.latestVersion = msg.update.Latest
			m.updateURL = msg.update.URL
		}

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))
	}

	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	case ModeHistoryClearConfirm:
		return m.renderHistoryClearConfirmation()
	default:
		return m.renderMain()
	}
}

// Custom message types
type submissionSettledMsg struct {
	outcome  app.Outcome
	endpoint string
	values   map[string]string
	payload  form.Payload
}

type historySavedMsg struct {
	err error
}

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

type filterAppliedMsg struct {
	gen        int // resultGen the filter was started against
	expression string
	result     result.Result
	err        error
}

type settingsReloadedMsg struct {
	reload config.Reload
}

type versionCheckMsg struct {
	update version.Update
	err    error
}

type errorMsg string

func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.errorMsg = ""
	m.statusMsg = truncate(msg, StatusMaxLength)
	return nil
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	logging.Logger().V(1).Info("tui error", "message", msg)
	m.errorMsg = truncate(msg, StatusMaxLength)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
