/*
Package keybinds maps terminal keys to TUI actions per context.

# Contexts

  - global: active everywhere unless a more specific context binds the key
  - form: the query form and result table
  - filter: the filter expression prompt
  - history: the submission history browser
  - confirm: yes/no prompts

A key bound in a specific context shadows the same key in global.

# User overrides

~/.archibus/keybinds.json maps actions to comma-separated keys per context:

	{
	  "version": "1.0",
	  "global": { "export_xlsx": "ctrl+k" },
	  "form":   { "submit": "enter,ctrl+s" }
	}

An override replaces every default key of that action in that context.
ctrl+c is reserved for quit_force and cannot be rebound.
*/
package keybinds
