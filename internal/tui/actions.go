package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/archibus-connect/internal/app"
	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/export"
	"github.com/studiowebux/archibus-connect/internal/filter"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/result"
	"github.com/studiowebux/archibus-connect/internal/version"
)

// setFocus moves the focus to position i and focuses its text input
func (m *Model) setFocus(i int) {
	total := m.focusClear() + 1
	m.focus = ((i % total) + total) % total
	for j := range m.inputs {
		if j == m.focus && m.isText(j) {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) moveFocus(delta int) {
	m.setFocus(m.focus + delta)
}

func (m *Model) isText(i int) bool {
	if i < 0 || i >= len(m.fields) {
		return false
	}
	_, ok := m.fields[i].Kind.(form.TextField)
	return ok
}

// syncInputs copies the form values into the text inputs
func (m *Model) syncInputs() {
	for i, d := range m.fields {
		if m.isText(i) {
			m.inputs[i].SetValue(m.state.Form.Value(d.Name))
		}
	}
}

func (m *Model) setField(name, value string) tea.Cmd {
	next, err := app.Reduce(m.state, app.SetField{Name: name, Value: value})
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.state = next
	return nil
}

// cycleOption steps the focused dropdown through its options
func (m *Model) cycleOption(delta int) tea.Cmd {
	if m.focus >= len(m.fields) {
		return nil
	}
	d := m.fields[m.focus]
	dd, ok := d.Kind.(form.DropdownField)
	if !ok {
		return nil
	}
	return m.setField(d.Name, dd.Cycle(m.state.Form.Value(d.Name), delta))
}

// submit sends the form to the gateway in the background
func (m *Model) submit() tea.Cmd {
	if m.state.Loading {
		return m.setErrorMessage(app.ErrBusy.Error())
	}

	sender := m.sender
	if sender == nil {
		if err := m.settings.RequireEndpoint(); err != nil {
			return m.setErrorMessage(err.Error())
		}
		client, err := gateway.NewClient(m.settings.APIURL, m.settings.ClientOptions(version.UserAgent())...)
		if err != nil {
			return m.setErrorMessage(err.Error())
		}
		sender = client
	}

	next, err := app.Reduce(m.state, app.Submit{})
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.state = next

	values := m.state.Form.Values()
	payload := m.form.ToRequestPayload(m.state.Form)
	endpoint := m.settings.APIURL

	ctx, cancel := context.WithCancel(context.Background())
	m.requestCancel = cancel
	m.setStatusMessage("Submitting...")

	logging.Logger().V(1).Info("submitting form", "endpoint", endpoint)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		out := app.Exchange(ctx, sender, payload)
		return submissionSettledMsg{outcome: out, endpoint: endpoint, values: values, payload: payload}
	})
}

// settle stores the outcome of the in-flight submission
func (m *Model) settle(msg submissionSettledMsg) tea.Cmd {
	if m.requestCancel != nil {
		m.requestCancel()
		m.requestCancel = nil
	}

	next, err := app.Reduce(m.state, app.Settle{Result: msg.outcome.Result})
	if err != nil {
		logging.Logger().Error(err, "stale submission result dropped")
		return nil
	}
	m.state = next
	m.showResult()
	m.refreshResult()

	r := msg.outcome.Result
	var netErr *gateway.NetworkError
	if errors.As(r.Err(), &netErr) && netErr.Cancelled() {
		m.setStatusMessage("Request cancelled")
		return nil
	}

	var cmds []tea.Cmd
	switch {
	case r.IsError():
		m.setErrorMessage(r.Text())
	case r.IsTable():
		m.setStatusMessage(fmt.Sprintf("%d records in %s", r.RecordCount(), gateway.FormatDuration(msg.outcome.Duration)))
		if m.filterExpr != "" {
			cmds = append(cmds, m.runFilter(m.filterExpr))
		}
	default:
		m.setStatusMessage(fmt.Sprintf("%s response in %s", r.Kind(), gateway.FormatDuration(msg.outcome.Duration)))
	}

	if store := m.history; store != nil && m.settings.HistoryEnabled {
		entry := msg.outcome.Entry(msg.endpoint, msg.values, msg.payload)
		cmds = append(cmds, func() tea.Msg {
			_, err := store.Save(entry)
			return historySavedMsg{err: err}
		})
	}
	return tea.Batch(cmds...)
}

// cancelRequest aborts the in-flight submission; it settles as a cancellation
func (m *Model) cancelRequest() tea.Cmd {
	if !m.state.Loading || m.requestCancel == nil {
		return nil
	}
	m.requestCancel()
	return m.setStatusMessage("Cancelling request...")
}

// clear resets the form, the result and the active filter
func (m *Model) clear() tea.Cmd {
	next, err := app.Reduce(m.state, app.Clear{})
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.state = next
	m.showResult()
	m.filterExpr = ""
	m.filterInput.SetValue("")
	m.syncInputs()
	m.refreshResult()
	return m.setStatusMessage("Form cleared")
}

// exportResult writes the displayed table in the given format
func (m *Model) exportResult(format export.Format) tea.Cmd {
	path, err := m.exporter.Export(m.display, format)
	if errors.Is(err, export.ErrNoTable) {
		return m.setErrorMessage("Nothing to export: no result table")
	}
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	return m.setStatusMessage("Exported to " + path)
}

func (m *Model) copyResult() tea.Cmd {
	err := m.exporter.Clipboard(m.display)
	if errors.Is(err, export.ErrNoTable) {
		return m.setErrorMessage("Nothing to copy: no result table")
	}
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	return m.setStatusMessage(fmt.Sprintf("Copied %d records as CSV", m.display.RecordCount()))
}

// openFilter switches to the filter prompt
func (m *Model) openFilter() tea.Cmd {
	if !m.state.Result.IsTable() {
		return m.setErrorMessage("Filter needs a result table")
	}
	m.mode = ModeFilter
	m.filterInput.SetValue(m.filterExpr)
	m.filterInput.CursorEnd()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.filterInput.Focus()
}

func (m *Model) closeFilter() {
	m.mode = ModeForm
	m.filterInput.Blur()
	m.setFocus(m.focus)
}

// submitFilter applies the typed expression; an empty one restores the full table
func (m *Model) submitFilter() tea.Cmd {
	expr := m.filterInput.Value()
	m.closeFilter()
	if expr == "" {
		m.filterExpr = ""
		m.showResult()
		m.refreshResult()
		return m.setStatusMessage("Filter cleared")
	}
	if !filter.IsValid(expr) {
		return m.setErrorMessage("Invalid filter expression: " + expr)
	}
	return m.runFilter(expr)
}

// showResult displays the unfiltered result. Filters still running against
// the previous one are dropped when they finish.
func (m *Model) showResult() {
	m.display = m.state.Result
	m.resultGen++
}

// runFilter filters the unfiltered result; shell filters may block, so it runs as a command
func (m *Model) runFilter(expr string) tea.Cmd {
	source, gen := m.state.Result, m.resultGen
	return func() tea.Msg {
		r, err := filter.ApplyToResult(context.Background(), source, expr)
		return filterAppliedMsg{gen: gen, expression: expr, result: r, err: err}
	}
}

func (m *Model) applyFilterResult(msg filterAppliedMsg) tea.Cmd {
	if msg.gen != m.resultGen {
		logging.Logger().V(1).Info("stale filter result dropped", "expression", msg.expression)
		return nil
	}
	if msg.err != nil {
		return m.setErrorMessage("Filter failed: " + msg.err.Error())
	}
	m.filterExpr = msg.expression
	m.display = msg.result
	m.refreshResult()
	return m.setStatusMessage(fmt.Sprintf("Filter applied: %s", msg.result.Display()))
}

// restoreEntry puts a history entry back into the form and the result pane
func (m *Model) restoreEntry() tea.Cmd {
	e := m.historyState.GetCurrentEntry()
	if e == nil {
		return nil
	}
	next, err := app.Reduce(m.state, app.Restore{Values: e.Form, Result: e.Result()})
	if err != nil {
		return m.setErrorMessage(err.Error())
	}
	m.state = next
	m.showResult()
	m.filterExpr = ""
	m.syncInputs()
	m.refreshResult()
	m.mode = ModeForm
	return m.setStatusMessage("Restored " + e.Summary())
}

// loadHistory opens the history browser
func (m *Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return m.setErrorMessage("History is disabled")
	}
	m.mode = ModeHistory
	store := m.history
	return func() tea.Msg {
		entries, err := store.List(HistoryListLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) deleteHistoryEntry() tea.Cmd {
	e := m.historyState.GetCurrentEntry()
	if e == nil || m.history == nil {
		return nil
	}
	if err := m.history.Delete(e.ID); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to delete entry: %v", err))
	}
	m.historyState.RemoveCurrent()
	return m.setStatusMessage(historyCountLine(m.historyState.Len()))
}

func (m *Model) clearHistory() tea.Cmd {
	m.mode = ModeHistory
	if m.history == nil {
		return nil
	}
	if err := m.history.Clear(); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to clear history: %v", err))
	}
	m.historyState.SetEntries(nil)
	return m.setStatusMessage("All history cleared")
}

func historyCountLine(n int) string {
	if n == 1 {
		return "1 history entry"
	}
	return fmt.Sprintf("%d history entries", n)
}

// waitForReload blocks on the settings watcher; it is re-armed after each reload
func (m *Model) waitForReload() tea.Cmd {
	reloads := m.reloads
	if reloads == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-reloads
		if !ok {
			return nil
		}
		return settingsReloadedMsg{reload: r}
	}
}

// reloadSettings swaps in reloaded settings. A broken file keeps the old ones.
func (m *Model) reloadSettings(r config.Reload) tea.Cmd {
	if r.Err != nil {
		return m.setErrorMessage("Settings not reloaded: " + r.Err.Error())
	}
	m.settings = r.Settings
	m.exporter = export.NewWriter(r.Settings.ExportDir)
	return m.setStatusMessage("Settings reloaded")
}

func (m *Model) checkVersion() tea.Cmd {
	if !m.checkUpdates {
		return nil
	}
	current := m.version
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), versionCheckTimeout)
		defer cancel()
		update, err := version.NewChecker().Check(ctx, current)
		if err != nil {
			logging.Logger().V(1).Info("version check failed", "error", err.Error())
		}
		return versionCheckMsg{update: update, err: err}
	}
}

// updateLayout sizes the result views to the window
func (m *Model) updateLayout() {
	headerHeight := max(HeaderLines, lipgloss.Height(m.renderHeader()))
	formHeight := len(m.fields) + 4 // buttons and spacing
	// count header above the table
	height := m.height - headerHeight - formHeight - StatusBarLines - BorderLines - 1
	if height < ResultMinHeight {
		height = ResultMinHeight
	}
	width := m.width - BorderLines
	if width < FormMinWidth {
		width = FormMinWidth
	}

	m.resultView.SetHeight(height)
	m.resultView.SetWidth(width)
	m.rawView.Width = width
	m.rawView.Height = height
	m.helpView.Width = m.width - ModalWidthMargin
	m.helpView.Height = m.height - ModalHeightMargin
	m.historyState.SetPreviewSize(m.width/2-ModalWidthMargin, m.height-ModalHeightMargin)
	m.filterInput.Width = width - len(m.filterInput.Prompt) - 1
	m.refreshResult()
}

// refreshResult loads the displayed result into the table or the raw viewport
func (m *Model) refreshResult() {
	m.resultView.SetRows(nil)
	m.resultView.SetColumns(nil)
	m.rawView.SetContent("")

	switch m.display.Kind() {
	case result.KindTable:
		t := result.ToDisplayRows(m.display.Rows())
		cols := make([]table.Column, len(t.Columns))
		for i, name := range t.Columns {
			w := len(name)
			for _, row := range t.Rows {
				if len(row[i]) > w {
					w = len(row[i])
				}
			}
			if w > ResultColumnMaxWidth {
				w = ResultColumnMaxWidth
			}
			cols[i] = table.Column{Title: name, Width: w + ResultColumnPadding}
		}
		rows := make([]table.Row, len(t.Rows))
		for i, r := range t.Rows {
			rows[i] = table.Row(r)
		}
		m.resultView.SetColumns(cols)
		m.resultView.SetRows(rows)
		m.resultView.GotoTop()
	case result.KindRaw:
		m.rawView.SetContent(m.display.Text())
		m.rawView.GotoTop()
	}
}

// scroll moves the result pane by n lines
func (m *Model) scroll(n int) {
	if m.display.IsTable() {
		if n < 0 {
			m.resultView.MoveUp(-n)
		} else {
			m.resultView.MoveDown(n)
		}
		return
	}
	offset := m.rawView.YOffset + n
	if offset < 0 {
		offset = 0
	}
	m.rawView.SetYOffset(offset)
}

func (m *Model) pageSize() int {
	if m.display.IsTable() {
		return m.resultView.Height()
	}
	return m.rawView.Height
}
