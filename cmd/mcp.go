package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/todo-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server keeps one task list for its lifetime and communicates via stdio.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newController()
		if err != nil {
			return err
		}

		ctx, stop := setupSignalHandler()
		defer stop()

		// stdout carries the protocol, so status goes to the logger.
		logger.Info("starting MCP server", "transport", "stdio")

		server := mcp.NewServer(list, mcp.WithLogger(logger))
		if err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		logger.Info("MCP server stopped", "tasks", len(list.Snapshot().Tasks))
		return nil
	},
}
