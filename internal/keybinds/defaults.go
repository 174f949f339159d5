package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerFormBindings(r)
	registerFilterBindings(r)
	registerHistoryBindings(r)
	registerConfirmBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "ctrl+s", ActionSubmit)
	r.Register(ContextGlobal, "ctrl+r", ActionClearForm)
	r.Register(ContextGlobal, "ctrl+e", ActionExportCSV)
	r.Register(ContextGlobal, "ctrl+x", ActionExportXLSX)
	r.Register(ContextGlobal, "ctrl+p", ActionExportPDF)
	r.Register(ContextGlobal, "ctrl+y", ActionCopyCSV)
	r.Register(ContextGlobal, "ctrl+f", ActionOpenFilter)
	r.Register(ContextGlobal, "ctrl+o", ActionOpenHistory)
	r.Register(ContextGlobal, "ctrl+g", ActionToggleHelp)
	r.Register(ContextGlobal, "pgup", ActionPageUp)
	r.Register(ContextGlobal, "pgdown", ActionPageDown)
}

func registerFormBindings(r *Registry) {
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
	r.Register(ContextForm, "right", ActionOptionNext)
	r.Register(ContextForm, "left", ActionOptionPrev)
	r.Register(ContextForm, "enter", ActionSubmit)
	r.Register(ContextForm, "esc", ActionCancelRequest)
	r.Register(ContextForm, "ctrl+u", ActionScrollUp)
	r.Register(ContextForm, "ctrl+d", ActionScrollDown)
}

func registerFilterBindings(r *Registry) {
	r.Register(ContextFilter, "enter", ActionTextSubmit)
	r.Register(ContextFilter, "esc", ActionTextCancel)
}

func registerHistoryBindings(r *Registry) {
	r.RegisterMultiple(ContextHistory, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHistory, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextHistory, "enter", ActionHistoryLoad)
	r.Register(ContextHistory, "d", ActionHistoryDelete)
	r.Register(ContextHistory, "C", ActionHistoryClear)
	r.RegisterMultiple(ContextHistory, []string{"esc", "q"}, ActionCloseModal)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)
}
