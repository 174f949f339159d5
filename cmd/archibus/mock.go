package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/studiowebux/archibus-connect/internal/gateway"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/mock"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a local stand-in for the Azure gateway",
	Long: `Run a local gateway answering the building/floor query.

Without --file the built-in sample route POST /archibus answers from a small
building/floor dataset filtered by the posted building.bl_id. Route files are
YAML or JSON. Request counts are exported on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.Close()

		cfg := mock.DefaultConfig()
		workdir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		if mockFile != "" {
			if cfg, err = mock.LoadConfig(mockFile); err != nil {
				return err
			}
			workdir = filepath.Dir(mockFile)
		}
		if mockPort != 0 {
			cfg.Port = mockPort
		}
		if mockHost != "" {
			cfg.Host = mockHost
		}

		server := mock.NewServer(cfg, workdir)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Mock gateway on %s (%d routes)\n", server.Address(), len(cfg.Routes))
		for _, r := range cfg.Routes {
			fmt.Fprintf(out, "  %-6s %s\n", r.Method, r.Path)
		}
		fmt.Fprintf(out, "Set azure_api_url to %s%s to use the sample data\n\n", server.Address(), mock.SamplePath)

		done := make(chan struct{})
		defer close(done)
		if cfg.Logging {
			go printRequests(server, done, out)
		}

		err = server.Run(cmd.Context())
		logging.Logger().Info("mock gateway stopped", "error", err)
		return err
	},
}

var (
	mockFile string
	mockPort int
	mockHost string
)

func init() {
	mockCmd.Flags().StringVarP(&mockFile, "file", "f", "", "Route file (.yaml, .yml or .json)")
	mockCmd.Flags().IntVarP(&mockPort, "port", "p", 0, "Port, overrides the route file")
	mockCmd.Flags().StringVar(&mockHost, "host", "", "Host, overrides the route file")
}

// printRequests prints each logged request once
func printRequests(server *mock.Server, done <-chan struct{}, out io.Writer) {
	printed := 0
	for {
		select {
		case <-done:
			return
		case <-server.NotifyChannel():
		}

		logs := server.GetLogs()
		if len(logs) < printed {
			// log was trimmed or cleared
			printed = 0
		}
		for _, l := range logs[printed:] {
			fmt.Fprintf(out, "%s %-6s %s -> %d (%s) %s\n",
				l.Timestamp.Format("15:04:05"), l.Method, l.Path, l.Status,
				gateway.FormatDuration(l.Duration), l.MatchedRule)
		}
		printed = len(logs)
	}
}
