package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/keybinds"
	"github.com/studiowebux/archibus-connect/internal/result"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleTitleFocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	styleTitleUnfocused = lipgloss.NewStyle().
				Foreground(colorGray)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleButton = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, true)

	styleButtonFocused = styleButton.
				BorderForeground(colorGreen).
				Foreground(colorGreen).
				Bold(true)
)

// Title is the application header
const Title = "Archibus Connect"

// Disclaimer is shown under the header
const Disclaimer = "This web application is developed as a proof-of-concept for the campus Business Initiative. " +
	"It is used to demonstrate the ability to access campus resources via a cloud based API using " +
	"Microsoft's Azure API Gateway product. Use of this application for any production purpose is not approved. " +
	"No guarantees of continual availability or fitness for any purpose other than demonstrating a concept are made."

// renderMain renders the header, the form and the result pane
func (m Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderForm(),
		"",
		m.renderResult(),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Width(m.width - BorderLines).
		Render(body)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		box,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	width := m.width
	if width < FormMinWidth {
		width = FormMinWidth
	}
	disclaimer := styleSubtle.Width(width).Render(Disclaimer)
	return styleTitle.Render(Title) + "\n" + disclaimer + "\n"
}

// renderForm renders one line per visible field and the two buttons
func (m Model) renderForm() string {
	var b strings.Builder
	label := lipgloss.NewStyle().Width(FormLabelWidth)

	for i, d := range m.fields {
		cursor := "  "
		if i == m.focus {
			cursor = styleSuccess.Render("> ")
		}

		var input string
		switch kind := d.Kind.(type) {
		case form.TextField:
			input = m.inputs[i].View()
		case form.DropdownField:
			input = renderDropdown(kind, m.state.Form.Value(d.Name), i == m.focus)
		}

		b.WriteString(cursor + label.Render(d.Label) + input + "\n")
	}

	submit := "Submit"
	if m.state.Loading {
		submit = "Submitting"
	}
	b.WriteString("\n  " + renderButton(submit, m.focus == m.focusSubmit()) + " " +
		renderButton("Clear", m.focus == m.focusClear()))
	return b.String()
}

// renderDropdown shows the selected option between arrows
func renderDropdown(d form.DropdownField, value string, focused bool) string {
	text := fmt.Sprintf("◀ %s ▶", value)
	if focused {
		return styleSelected.Render(text) + styleSubtle.Render(fmt.Sprintf("  (%s)", strings.Join(d.Options, "/")))
	}
	return text
}

func renderButton(text string, focused bool) string {
	if focused {
		return styleButtonFocused.Render(text)
	}
	return styleButton.Render(text)
}

// renderResult renders the result pane for the displayed result
func (m Model) renderResult() string {
	if m.state.Loading {
		return m.spinner.View() + " Loading..."
	}

	switch m.display.Kind() {
	case result.KindTable:
		header := styleTitle.Render(result.CountHeader(m.display.RecordCount()))
		if m.filterExpr != "" {
			header += styleSubtle.Render("  filter: " + m.filterExpr)
		}
		if m.display.RecordCount() == 0 {
			return header
		}
		return header + "\n" + m.resultView.View()
	case result.KindError:
		return styleError.Render(m.display.Text())
	case result.KindRaw:
		return m.rawView.View()
	default:
		return ""
	}
}

// renderStatusBar renders the endpoint on the left and messages on the right
func (m Model) renderStatusBar() string {
	endpoint := m.settings.APIURL
	if endpoint == "" {
		endpoint = "(not configured)"
	}
	left := fmt.Sprintf("Endpoint: %s", endpoint)

	right := ""
	if m.updateAvailable {
		right = styleWarning.Render(fmt.Sprintf("Update %s available | ", m.latestVersion))
	}

	switch {
	case m.mode == ModeFilter:
		right = m.filterInput.View()
	case m.errorMsg != "":
		right += styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right += styleSuccess.Render(m.statusMsg)
	default:
		right += styleSubtle.Render(fmt.Sprintf("%s: submit | %s: help | %s: quit",
			m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionSubmit),
			m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionToggleHelp),
			m.keybinds.GetBindingString(keybinds.ContextGlobal, keybinds.ActionQuitForce)))
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

// helpContent lists the bindings of every context from the registry
func (m Model) helpContent() string {
	var b strings.Builder
	sections := []struct {
		title   string
		context keybinds.Context
	}{
		{"Global", keybinds.ContextGlobal},
		{"Form", keybinds.ContextForm},
		{"Filter", keybinds.ContextFilter},
		{"History", keybinds.ContextHistory},
		{"Confirm", keybinds.ContextConfirm},
	}

	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styleTitle.Render(s.title) + "\n")
		for _, binding := range m.keybinds.ListBindings(s.context) {
			if binding.Context != s.context {
				continue
			}
			fmt.Fprintf(&b, "  %-12s %s\n", binding.Key, binding.Action.Description())
		}
	}

	b.WriteString("\n" + styleTitle.Render("History preview") + "\n")
	b.WriteString("  p            toggle preview\n")
	b.WriteString("  K/J          scroll preview\n")
	return b.String()
}

func (m Model) renderHelp() string {
	return renderModal("Keyboard Shortcuts", m.helpView.View(), "↑/↓: Scroll | ESC: Close",
		m.width-ModalWidthMargin, m.height-ModalHeightMargin, m.width, m.height)
}

// renderHistory renders the entry list and the preview of the selected entry
func (m Model) renderHistory() string {
	modalWidth := m.width - ModalWidthMargin
	modalHeight := m.height - ModalHeightMargin
	entries := m.historyState.GetEntries()
	index := m.historyState.GetIndex()

	var list strings.Builder
	if len(entries) == 0 {
		list.WriteString(styleSubtle.Render("No history entries"))
	} else {
		visible := modalHeight - 6
		if visible < 1 {
			visible = 1
		}
		start := 0
		if index >= visible {
			start = index - visible + 1
		}
		end := start + visible
		if end > len(entries) {
			end = len(entries)
		}
		for i := start; i < end; i++ {
			line := entries[i].Summary()
			switch {
			case i == index:
				line = styleSelected.Render(line)
			case entries[i].Status == 0 || entries[i].Status >= 400:
				line = styleError.Render(line)
			}
			list.WriteString(line + "\n")
		}
	}

	footer := "↑/↓ j/k: Navigate | Enter: Load | d: Delete | p: Preview | C: Clear All | ESC/q: Close"
	if n := len(entries); n > 0 {
		footer += fmt.Sprintf(" [%d/%d]", index+1, n)
	}
	if m.errorMsg != "" {
		footer = m.errorMsg
	}

	cfg := SplitPaneConfig{
		ModalWidth:       modalWidth,
		ModalHeight:      modalHeight,
		IsSplitView:      m.historyState.GetPreviewVisible(),
		LeftTitle:        historyCountLine(len(entries)),
		LeftContent:      list.String(),
		LeftBorderColor:  colorBlue,
		RightTitle:       "Preview",
		RightContent:     m.historyState.GetPreviewView().View(),
		RightBorderColor: colorGreen,
		Footer:           footer,
	}
	return renderSplitPaneModal(cfg, m.width, m.height)
}

// renderHistoryClearConfirmation renders the confirmation modal for clearing all history
func (m Model) renderHistoryClearConfirmation() string {
	content := styleWarning.Render("WARNING") + "\n\n"
	content += "This will permanently delete ALL history entries.\n\n"
	content += fmt.Sprintf("Total entries to delete: %d\n\n", m.historyState.Len())
	content += "Are you sure you want to continue?"

	return renderModal("Clear All History", content, "[y]es [n]o/ESC", 60, 14, m.width, m.height)
}
