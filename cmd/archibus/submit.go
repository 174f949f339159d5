package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/archibus-connect/internal/cli"
	"github.com/studiowebux/archibus-connect/internal/form"
	"github.com/studiowebux/archibus-connect/internal/version"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send the building/floor query once and print the result",
	Long: `Send the building/floor query to the gateway and print the result.

Fields left out keep their defaults (file type json, flat file yes).
The exit status is 1 when the gateway answers with an error or cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(!submitNoHistory && !submitDryRun)
		if err != nil {
			return err
		}
		defer env.Close()

		runner := &cli.Runner{
			Form:      form.Default(),
			Settings:  env.settings,
			UserAgent: version.UserAgent(),
			Stdout:    os.Stdout,
			Stderr:    os.Stderr,
		}
		if env.history != nil {
			defer env.history.Close()
			runner.History = env.history
		}

		values := make(map[string]string)
		for _, ff := range cli.FieldFlags {
			if cmd.Flags().Changed(ff.Flag) {
				values[ff.Field] = *submitFields[ff.Field]
			}
		}

		return runner.Submit(cmd.Context(), cli.SubmitOptions{
			Values:    values,
			Prompt:    submitPrompt,
			Filter:    submitFilter,
			Output:    submitOutput,
			Exports:   submitExports,
			DryRun:    submitDryRun,
			NoHistory: submitNoHistory,
		})
	},
}

var (
	submitFields    = make(map[string]*string) // field name -> flag value
	submitPrompt    bool
	submitFilter    string
	submitOutput    string
	submitExports   []string
	submitDryRun    bool
	submitNoHistory bool
)

func init() {
	labels := make(map[string]string)
	for _, d := range form.Default().Descriptors() {
		labels[d.Name] = d.Label
	}
	for _, ff := range cli.FieldFlags {
		submitFields[ff.Field] = submitCmd.Flags().String(ff.Flag, "", labels[ff.Field])
	}

	submitCmd.Flags().BoolVar(&submitPrompt, "prompt", false, "Prompt for every visible field")
	submitCmd.Flags().StringVarP(&submitFilter, "filter", "f", "", "JMESPath expression or $(command) applied to the rows")
	submitCmd.Flags().StringVarP(&submitOutput, "output", "o", "", "Output format (text/json/yaml/csv/body)")
	submitCmd.Flags().StringArrayVarP(&submitExports, "export", "e", nil, "Write data.<format> (csv/xlsx/pdf), can be repeated")
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "Print the request payload without sending it")
	submitCmd.Flags().BoolVar(&submitNoHistory, "no-history", false, "Do not record this submission")
}
