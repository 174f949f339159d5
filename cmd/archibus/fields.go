package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/studiowebux/archibus-connect/internal/cli"
	"github.com/studiowebux/archibus-connect/internal/form"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the form fields, their flags and the payload paths they fill",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := form.Default()

		flags := make(map[string]string)
		for _, ff := range cli.FieldFlags {
			flags[ff.Field] = "--" + ff.Flag
		}
		paths := make(map[string]string)
		for _, b := range f.Mapping() {
			paths[b.Field] = b.Path
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("FIELD", "LABEL", "FLAG", "OPTIONS", "DEFAULT", "PAYLOAD PATH").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return lipgloss.NewStyle().Bold(true).Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})

		for _, d := range f.Descriptors() {
			options := "text"
			if dd, ok := d.Kind.(form.DropdownField); ok {
				options = strings.Join(dd.Options, ", ")
			}
			label := d.Label
			if d.Hidden {
				label += " (hidden)"
			}
			t.Row(d.Name, label, flags[d.Name], options, d.Default, paths[d.Name])
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}
