package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/archibus-connect/internal/export"
	"github.com/studiowebux/archibus-connect/internal/keybinds"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, msg.String()); ok && action == keybinds.ActionQuitForce {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeFilter:
		return m.handleFilterKeys(msg)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	case ModeHistoryClearConfirm:
		return m.handleHistoryClearConfirmKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleFormKeys(msg)
	}
}

// handleFormKeys handles the query form and the result pane
func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, key); ok {
		if cmd, handled := m.handleGlobalAction(action); handled {
			return cmd
		}
	}

	action, ok := m.keybinds.Match(keybinds.ContextForm, key)
	// left and right edit the text of a text field
	if ok && (action == keybinds.ActionOptionNext || action == keybinds.ActionOptionPrev) && m.isText(m.focus) {
		ok = false
	}

	if ok {
		switch action {
		case keybinds.ActionNextField:
			m.moveFocus(1)
			return nil
		case keybinds.ActionPrevField:
			m.moveFocus(-1)
			return nil
		case keybinds.ActionOptionNext:
			return m.cycleOption(1)
		case keybinds.ActionOptionPrev:
			return m.cycleOption(-1)
		case keybinds.ActionSubmit:
			if m.focus == m.focusClear() {
				return m.clear()
			}
			return m.submit()
		case keybinds.ActionCancelRequest:
			return m.cancelRequest()
		case keybinds.ActionScrollUp:
			m.scroll(-1)
			return nil
		case keybinds.ActionScrollDown:
			m.scroll(1)
			return nil
		}
	}

	if !m.isText(m.focus) {
		return nil
	}

	var cmd tea.Cmd
	name := m.fields[m.focus].Name
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if value := m.inputs[m.focus].Value(); value != m.state.Form.Value(name) {
		return tea.Batch(cmd, m.setField(name, value))
	}
	return cmd
}

// handleGlobalAction runs actions bound in the global context
func (m *Model) handleGlobalAction(action keybinds.Action) (tea.Cmd, bool) {
	switch action {
	case keybinds.ActionSubmit:
		return m.submit(), true
	case keybinds.ActionClearForm:
		return m.clear(), true
	case keybinds.ActionCancelRequest:
		return m.cancelRequest(), true
	case keybinds.ActionExportCSV:
		return m.exportResult(export.FormatCSV), true
	case keybinds.ActionExportXLSX:
		return m.exportResult(export.FormatXLSX), true
	case keybinds.ActionExportPDF:
		return m.exportResult(export.FormatPDF), true
	case keybinds.ActionCopyCSV:
		return m.copyResult(), true
	case keybinds.ActionOpenFilter:
		return m.openFilter(), true
	case keybinds.ActionOpenHistory:
		return m.loadHistory(), true
	case keybinds.ActionToggleHelp:
		m.openHelp()
		return nil, true
	case keybinds.ActionPageUp:
		m.scroll(-m.pageSize())
		return nil, true
	case keybinds.ActionPageDown:
		m.scroll(m.pageSize())
		return nil, true
	}
	return nil, false
}

// handleFilterKeys edits the filter expression; every unbound key goes to the input
func (m *Model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextFilter, msg.String()); ok {
		switch action {
		case keybinds.ActionTextSubmit:
			return m.submitFilter()
		case keybinds.ActionTextCancel:
			m.closeFilter()
			return m.setStatusMessage("Filter unchanged")
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return cmd
}

// handleHistoryKeys handles the history browser
func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	// Preview pane keys (not in keybinds registry)
	switch msg.String() {
	case "p":
		m.historyState.TogglePreview()
		return nil
	case "shift+up", "K":
		m.historyState.ScrollPreview(-1)
		return nil
	case "shift+down", "J":
		m.historyState.ScrollPreview(1)
		return nil
	}

	action, ok := m.keybinds.Match(keybinds.ContextHistory, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionNavigateUp:
		m.historyState.Navigate(-1)
	case keybinds.ActionNavigateDown:
		m.historyState.Navigate(1)
	case keybinds.ActionHistoryLoad:
		return m.restoreEntry()
	case keybinds.ActionHistoryDelete:
		return m.deleteHistoryEntry()
	case keybinds.ActionHistoryClear:
		if m.historyState.Len() > 0 {
			m.mode = ModeHistoryClearConfirm
		}
	case keybinds.ActionCloseModal:
		m.mode = ModeForm
		m.setFocus(m.focus)
	}
	return nil
}

func (m *Model) handleHistoryClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextConfirm, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionCancel:
		m.mode = ModeHistory
		return m.setStatusMessage("Clear history cancelled")
	case keybinds.ActionConfirm:
		return m.clearHistory()
	}
	return nil
}

// handleHelpKeys scrolls the help view; the help key or esc closes it
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if action, ok := m.keybinds.Match(keybinds.ContextGlobal, key); ok && action == keybinds.ActionToggleHelp {
		m.closeHelp()
		return nil
	}

	switch key {
	case "esc", "q":
		m.closeHelp()
	case "up", "k":
		m.helpView.SetYOffset(m.helpView.YOffset - 1)
	case "down", "j":
		m.helpView.SetYOffset(m.helpView.YOffset + 1)
	}
	return nil
}

func (m *Model) openHelp() {
	m.mode = ModeHelp
	m.helpView.SetContent(m.helpContent())
	m.helpView.GotoTop()
}

func (m *Model) closeHelp() {
	m.mode = ModeForm
	m.setFocus(m.focus)
}
