package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiowebux/archibus-connect/internal/cli"
	"github.com/studiowebux/archibus-connect/internal/config"
	"github.com/studiowebux/archibus-connect/internal/history"
	"github.com/studiowebux/archibus-connect/internal/keybinds"
	"github.com/studiowebux/archibus-connect/internal/logging"
	"github.com/studiowebux/archibus-connect/internal/tui"
	"github.com/studiowebux/archibus-connect/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if errors.Is(err, cli.ErrFailedResult) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "archibus",
	Short: "Archibus Connect - building and floor lookups through the Azure API gateway",
	Long: `Archibus Connect queries campus building and floor records through the
Azure API gateway configured as azure_api_url.

Run without arguments to start the interactive TUI, or use 'submit' to send a
query from scripts.

Examples:
  archibus                                    # Start interactive TUI
  archibus submit --building-id ADM           # Query one building
  archibus submit --prompt                    # Ask for every field
  archibus submit --floor-id 01 -o csv        # Print CSV
  archibus submit --building-id LIB --export xlsx --export pdf
  archibus mock                               # Local gateway with sample data`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(true)
		if err != nil {
			return err
		}
		defer env.Close()

		registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
		if err != nil {
			return err
		}

		// a nil *history.Manager must stay a nil interface
		var store tui.HistoryStore
		if env.history != nil {
			store = env.history
		}

		return tui.Run(tui.Options{
			Settings:     env.settings,
			FlagURL:      flagAPIURL,
			History:      store,
			Keybinds:     registry,
			Version:      version.Version,
			Watch:        true,
			CheckUpdates: !flagNoUpdateCheck,
		})
	},
}

// Global flags
var (
	flagConfig        string
	flagAPIURL        string
	flagNoUpdateCheck bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Settings file (default ./config.json or ~/.archibus/config.json)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Gateway endpoint, overrides azure_api_url and "+config.EnvAPIURL)
	rootCmd.Flags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "Skip the release check on start")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(versionCmd)
}

// environment is what every command shares after setup
type environment struct {
	settings config.Settings
	history  *history.Manager // nil when history is disabled
	closers  []io.Closer
}

// setup initializes ~/.archibus, loads the settings and opens the log file.
// The history database is opened when withHistory is set and history is enabled.
func setup(withHistory bool) (*environment, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := config.Load(config.FindSettingsFile(flagConfig))
	if err != nil {
		return nil, err
	}
	settings.ApplyOverrides(flagAPIURL)

	env := &environment{settings: settings}

	logFile, err := logging.Setup(config.LogFile, settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	env.closers = append(env.closers, logFile)

	logging.Logger().Info("archibus starting", "version", version.Version, "settings", settings.Source)

	if withHistory && settings.HistoryEnabled {
		mgr, err := history.NewManager(config.DatabasePath)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		env.history = mgr
	}
	return env, nil
}

// Close releases the log file. The history database is closed by its owner.
func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}
