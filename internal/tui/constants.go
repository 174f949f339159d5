package tui

import "time"

// Layout constants for the TUI

const (
	// Modal Dimensions
	ModalWidthMargin  = 6 // m.width - 6
	ModalHeightMargin = 3 // m.height - 3

	// Form column
	FormLabelWidth = 16 // widest label plus padding
	FormInputWidth = 40 // text input width
	FormMinWidth   = FormLabelWidth + 12

	// Result pane
	ResultMinHeight      = 5
	ResultColumnMaxWidth = 32 // wider cells are truncated by the table
	ResultColumnPadding  = 2

	// Minimum header height, status bar, borders
	HeaderLines    = 4
	StatusBarLines = 1
	BorderLines    = 2

	// History list
	HistoryListLimit = 200

	// Footer messages longer than this are truncated
	StatusMaxLength = 100
)

// versionCheckTimeout bounds the release lookup on start
const versionCheckTimeout = 5 * time.Second
