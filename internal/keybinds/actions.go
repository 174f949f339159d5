package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal  Context = "global"  // Available everywhere
	ContextForm    Context = "form"    // Query form and results
	ContextFilter  Context = "filter"  // Filter expression input
	ContextHistory Context = "history" // History browser
	ContextConfirm Context = "confirm" // Confirmation dialogs
)

// Contexts lists every context in precedence-independent order
var Contexts = []Context{ContextGlobal, ContextForm, ContextFilter, ContextHistory, ContextConfirm}

const (
	// Global actions
	ActionQuitForce     Action = "quit_force"     // ctrl+c, reserved
	ActionSubmit        Action = "submit"         // Send the form to the gateway
	ActionClearForm     Action = "clear_form"     // Reset form and result
	ActionCancelRequest Action = "cancel_request" // Abort the in-flight request
	ActionExportCSV     Action = "export_csv"
	ActionExportXLSX    Action = "export_xlsx"
	ActionExportPDF     Action = "export_pdf"
	ActionCopyCSV       Action = "copy_csv"
	ActionOpenFilter    Action = "open_filter"
	ActionOpenHistory   Action = "open_history"
	ActionToggleHelp    Action = "toggle_help"

	// Form navigation
	ActionNextField  Action = "next_field"
	ActionPrevField  Action = "prev_field"
	ActionOptionNext Action = "option_next" // Next dropdown option
	ActionOptionPrev Action = "option_prev" // Previous dropdown option

	// Result table scrolling
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionPageUp     Action = "page_up"
	ActionPageDown   Action = "page_down"

	// Modal actions
	ActionCloseModal Action = "close_modal"
	ActionTextSubmit Action = "text_submit"
	ActionTextCancel Action = "text_cancel"
	ActionConfirm    Action = "confirm"
	ActionCancel     Action = "cancel"

	// History browser
	ActionNavigateUp    Action = "navigate_up"
	ActionNavigateDown  Action = "navigate_down"
	ActionHistoryLoad   Action = "history_load"   // Restore form and result
	ActionHistoryDelete Action = "history_delete" // Delete the selected entry
	ActionHistoryClear  Action = "history_clear"  // Delete every entry
)

// KnownActions lists every action a binding may refer to
var KnownActions = map[Action]bool{
	ActionQuitForce: true, ActionSubmit: true, ActionClearForm: true, ActionCancelRequest: true,
	ActionExportCSV: true, ActionExportXLSX: true, ActionExportPDF: true, ActionCopyCSV: true,
	ActionOpenFilter: true, ActionOpenHistory: true, ActionToggleHelp: true,
	ActionNextField: true, ActionPrevField: true, ActionOptionNext: true, ActionOptionPrev: true,
	ActionScrollUp: true, ActionScrollDown: true, ActionPageUp: true, ActionPageDown: true,
	ActionCloseModal: true, ActionTextSubmit: true, ActionTextCancel: true,
	ActionConfirm: true, ActionCancel: true,
	ActionNavigateUp: true, ActionNavigateDown: true,
	ActionHistoryLoad: true, ActionHistoryDelete: true, ActionHistoryClear: true,
}

// Description returns the help text of an action
func (a Action) Description() string {
	if d, ok := descriptions[a]; ok {
		return d
	}
	return string(a)
}

var descriptions = map[Action]string{
	ActionQuitForce:     "quit",
	ActionSubmit:        "submit",
	ActionClearForm:     "clear",
	ActionCancelRequest: "cancel request",
	ActionExportCSV:     "export CSV",
	ActionExportXLSX:    "export XLSX",
	ActionExportPDF:     "export PDF",
	ActionCopyCSV:       "copy CSV",
	ActionOpenFilter:    "filter rows",
	ActionOpenHistory:   "history",
	ActionToggleHelp:    "help",
	ActionNextField:     "next field",
	ActionPrevField:     "previous field",
	ActionOptionNext:    "next option",
	ActionOptionPrev:    "previous option",
	ActionScrollUp:      "scroll up",
	ActionScrollDown:    "scroll down",
	ActionPageUp:        "page up",
	ActionPageDown:      "page down",
	ActionHistoryLoad:   "load entry",
	ActionHistoryDelete: "delete entry",
	ActionHistoryClear:  "clear history",
}
