// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to interact with your fitness data through a
standardized protocol. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "fittrack": {
        "command": "fittrack",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_workout           Log a workout with exercises and sets
  list_workouts         List recent workouts
  log_meal              Log a meal with macros
  log_weight            Record body weight
  log_steps             Record a step count
  get_personal_records  Get all personal records
  get_progress_summary  Streaks, volume, and recent weight
  search_exercises      Search the exercise catalog

AVAILABLE RESOURCES:

  fittrack://today      Everything logged today
  fittrack://summary    Streaks, records, and recent workouts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(st, currentUser.ID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
