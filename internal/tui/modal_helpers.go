package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// SplitPaneConfig defines the configuration for a split-pane modal
type SplitPaneConfig struct {
	ModalWidth  int
	ModalHeight int

	// If false, shows only left pane at full width
	IsSplitView bool

	LeftTitle       string
	LeftContent     string
	LeftBorderColor lipgloss.AdaptiveColor

	RightTitle       string
	RightContent     string
	RightBorderColor lipgloss.AdaptiveColor

	Footer string

	// Left pane share of the width, 0.5 when out of (0, 1)
	LeftWidthRatio float64
}

// renderSplitPaneModal renders a list pane and an optional preview pane, centered
func renderSplitPaneModal(cfg SplitPaneConfig, totalWidth, totalHeight int) string {
	paneHeight := cfg.ModalHeight - 4 // borders and footer
	if paneHeight < 1 {
		paneHeight = 1
	}

	pane := func(title, content string, color lipgloss.AdaptiveColor, width int, focused bool) string {
		titleStyle := styleTitleUnfocused
		if focused {
			titleStyle = styleTitleFocused
		}
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Width(width).
			Height(paneHeight).
			Padding(0, 1).
			Render(titleStyle.Render(title) + "\n" + content)
	}

	var mainView string
	if cfg.IsSplitView {
		ratio := cfg.LeftWidthRatio
		if ratio <= 0 || ratio >= 1 {
			ratio = 0.5
		}
		listWidth := int(float64(cfg.ModalWidth-3) * ratio)
		previewWidth := cfg.ModalWidth - listWidth - 3

		mainView = lipgloss.JoinHorizontal(
			lipgloss.Top,
			pane(cfg.LeftTitle, cfg.LeftContent, cfg.LeftBorderColor, listWidth, true),
			pane(cfg.RightTitle, cfg.RightContent, cfg.RightBorderColor, previewWidth, false),
		)
	} else {
		mainView = pane(cfg.LeftTitle, cfg.LeftContent, cfg.LeftBorderColor, cfg.ModalWidth, true)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		styleSubtle.Render(cfg.Footer),
	)

	return lipgloss.Place(totalWidth, totalHeight, lipgloss.Center, lipgloss.Center, content)
}

// renderModal renders a bordered dialog with a title and an optional footer
func renderModal(title, content, footer string, width, height, totalWidth, totalHeight int) string {
	if width > totalWidth-2 {
		width = totalWidth - 2
	}
	if height > totalHeight-1 {
		height = totalHeight - 1
	}

	full := styleTitle.Render(title) + "\n\n" + content
	if footer != "" {
		full += "\n\n" + styleSubtle.Render(footer)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(full)

	// Nearly full screen, don't center
	if width >= totalWidth-2 || height >= totalHeight-1 {
		return box
	}
	return lipgloss.Place(totalWidth, totalHeight, lipgloss.Center, lipgloss.Center, box)
}
