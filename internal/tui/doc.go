/*
Package tui implements the interactive terminal front end of Archibus Connect.

# Architecture

The TUI follows the Bubble Tea Model-Update-View pattern:
  - model.go: the Model struct, Update and View, message types
  - init.go: construction and Run
  - keys.go: keyboard routing through the keybinds registry
  - actions.go: side effects (submission, exports, filter, history, config reload)
  - render.go: view rendering
  - history_state.go: the history browser list and preview
  - modal_helpers.go: centered dialogs and the split-pane history layout

# State

The form values, the current result, the loading flag and the phase live in a
single app.State value. Every change goes through app.Reduce, so the rules
"submit is disabled while loading" and "clear is ignored while loading" are
enforced in one place. Text inputs mirror the form state for editing only.

# Threading Model

Update runs on Bubble Tea's event loop. The gateway call, history writes,
shell filters and the update check run in tea.Cmd goroutines and report back
with messages. The settings watcher (fsnotify) delivers reloads through a
channel read by a re-armed command.

# Example Usage

	m, err := tui.New(tui.Options{Settings: settings, Keybinds: registry})
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
*/
package tui
