// Package cmd provides the CLI commands for the todo application.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/xvierd/todo-cli/internal/adapters/tui"
	"github.com/xvierd/todo-cli/internal/config"
	"github.com/xvierd/todo-cli/internal/domain"
	"github.com/xvierd/todo-cli/internal/logging"
	"github.com/xvierd/todo-cli/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath     string
	idStrategyFlag string
	logLevelFlag   string

	// Global dependencies
	appConfig *config.Config
	logger    *log.Logger
	logCloser io.Closer

	// runScreen starts the terminal UI. Replaced in tests.
	runScreen = tui.Run
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo [route]",
	Short: "todo - a task list for the terminal",
	Long: `todo keeps a task list for the length of one session. Add, edit and
delete tasks in a terminal UI; the list is gone when you quit.

Run "todo" to open the task list. Any route other than "/" or "/index"
shows the not-found screen.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupApp()
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.todo/config.toml)")
	rootCmd.PersistentFlags().StringVar(&idStrategyFlag, "id-strategy", "", "Task ID strategy: counter, uuid")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("todo\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// initializeApp loads the configuration, applies flag overrides and builds
// the logger.
func initializeApp(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags win over the config file and environment
	if idStrategyFlag != "" {
		cfg.Tasks.IDStrategy = idStrategyFlag
		if _, err := cfg.IDStrategy(); err != nil {
			return fmt.Errorf("invalid --id-strategy: %w", err)
		}
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	appConfig = cfg

	// The TUI owns the terminal, so without a log file its logs are dropped.
	var fallback io.Writer = cmd.ErrOrStderr()
	if !cmd.HasParent() {
		fallback = io.Discard
	}
	logger, logCloser, err = logging.Open(cfg.Log, fallback)
	if err != nil {
		return err
	}

	logger.Debug("config loaded", "path", configPath, "id_strategy", cfg.Tasks.IDStrategy)
	return nil
}

// cleanupApp closes the log file, if any.
func cleanupApp() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// newController creates the session's task list from the loaded config.
func newController() (*services.TaskListController, error) {
	strategy, err := appConfig.IDStrategy()
	if err != nil {
		return nil, err
	}
	return services.NewTaskListController(
		domain.NewIDGenerator(strategy),
		services.WithLogger(logger),
	), nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runTUI opens the screen for the requested route.
func runTUI(cmd *cobra.Command, args []string) error {
	route := tui.RouteHome
	if len(args) == 1 {
		route = args[0]
	}

	list, err := newController()
	if err != nil {
		return err
	}

	ctx, stop := setupSignalHandler()
	defer stop()

	logger.Info("starting", "route", tui.NormalizeRoute(route), "version", Version)
	if err := runScreen(ctx, route, list, &appConfig.Theme); err != nil {
		return err
	}

	s := list.Snapshot()
	logger.Info("session ended", "tasks", len(s.Tasks))
	return nil
}
