package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/archibus-connect/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show or clear recorded submissions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded submissions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			entries, err := mgr.List(historyLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch historyOutput {
			case "json", "yaml":
				return encode(out, historyOutput, entries)
			case "", "text":
				if len(entries) == 0 {
					fmt.Fprintln(out, "No history entries")
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s  %s\n", e.ID, e.Summary())
				}
				return nil
			default:
				return fmt.Errorf("unknown output format %q (allowed: text, json, yaml)", historyOutput)
			}
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			e, err := mgr.Get(args[0])
			if err != nil {
				return err
			}
			format := historyOutput
			if format == "" || format == "text" {
				format = "yaml"
			}
			return encode(cmd.OutOrStdout(), format, e)
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded submission",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(mgr *history.Manager) error {
			n, err := mgr.Count()
			if err != nil {
				return err
			}
			if err := mgr.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d history entries\n", n)
			return nil
		})
	},
}

var (
	historyLimit  int
	historyOutput string
)

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyOutput, "output", "o", "", "Output format (text/json/yaml)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries, 0 for all")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// withHistory opens the history database for one command
func withHistory(fn func(mgr *history.Manager) error) error {
	env, err := setup(true)
	if err != nil {
		return err
	}
	defer env.Close()

	if env.history == nil {
		return errors.New("history is disabled (history_enabled is false)")
	}
	defer env.history.Close()
	return fn(env.history)
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (allowed: text, json, yaml)", format)
	}
}
