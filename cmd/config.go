package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/todo-cli/internal/config"
	"github.com/xvierd/todo-cli/internal/domain"
	"github.com/xvierd/todo-cli/internal/logging"
)

var (
	configShowPath bool
	configWrite    bool
	configForce    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the ID strategy and logging settings",
	Long: `Show the effective configuration and interactively change the task ID
strategy or log level. Use --write to create the config file with the
current settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}

		if configShowPath {
			fmt.Fprintln(out, path)
			return nil
		}

		if configWrite {
			return writeConfig(out, path)
		}

		reader := bufio.NewReader(cmd.InOrStdin())

		printConfig(out, appConfig, path)
		fmt.Fprintln(out, "  What would you like to change?")
		fmt.Fprintln(out, "    [i] Task ID strategy")
		fmt.Fprintln(out, "    [l] Log level")
		fmt.Fprintln(out, "    [q] Quit without saving")
		fmt.Fprint(out, "  Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch choice {
		case "i":
			return editIDStrategy(reader, out, appConfig, path)
		case "l":
			return editLogLevel(reader, out, appConfig, path)
		case "q", "":
			fmt.Fprintln(out, "  No changes made.")
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
	},
}

func init() {
	configCmd.Flags().BoolVar(&configShowPath, "path", false, "Print the config file path and exit")
	configCmd.Flags().BoolVar(&configWrite, "write", false, "Write the current settings to the config file")
	configCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file with --write")
}

// resolvedConfigPath returns --config or the default config path.
func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}

func printConfig(out io.Writer, cfg *config.Config, path string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Current configuration:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    File:          %s\n", path)
	fmt.Fprintf(out, "    ID strategy:   %s\n", cfg.Tasks.IDStrategy)
	fmt.Fprintf(out, "    Log level:     %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "    Log format:    %s\n", cfg.Log.Format)
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "(none)"
	}
	fmt.Fprintf(out, "    Log file:      %s\n", logFile)
	fmt.Fprintf(out, "    Theme:         primary %s, danger %s, success %s\n",
		cfg.Theme.ColorPrimary, cfg.Theme.ColorDanger, cfg.Theme.ColorSuccess)
	fmt.Fprintln(out)
}

func writeConfig(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config: %w", err)
	}

	if err := config.Save(appConfig, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "  Wrote %s\n", path)
	return nil
}

func editIDStrategy(reader *bufio.Reader, out io.Writer, cfg *config.Config, path string) error {
	fmt.Fprintf(out, "\n  Current ID strategy: %s\n\n", cfg.Tasks.IDStrategy)
	fmt.Fprintln(out, "    [1] counter - 1, 2, 3, ...")
	fmt.Fprintln(out, "    [2] uuid    - random UUIDs")
	fmt.Fprint(out, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	var strategy domain.IDStrategy
	switch choice {
	case "1":
		strategy = domain.IDStrategyCounter
	case "2":
		strategy = domain.IDStrategyUUID
	default:
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}

	cfg.Tasks.IDStrategy = string(strategy)
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "\n  Saved: ID strategy set to %s\n", strategy)
	return nil
}

func editLogLevel(reader *bufio.Reader, out io.Writer, cfg *config.Config, path string) error {
	fmt.Fprintf(out, "\n  Log level [%s]: ", cfg.Log.Level)

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}

	if !logging.ValidLevel(input) {
		return fmt.Errorf("invalid log level %q: must be one of %s", input, strings.Join(logging.Levels, ", "))
	}

	cfg.Log.Level = input
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "\n  Saved: log level set to %s\n", input)
	return nil
}
