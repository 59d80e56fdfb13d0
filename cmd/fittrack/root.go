// ABOUTME: Root Cobra command for fittrack CLI.
// ABOUTME: Opens storage, outbox, and sync wiring via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/fittrack/internal/config"
	"github.com/harperreed/fittrack/internal/models"
	"github.com/harperreed/fittrack/internal/outbox"
	"github.com/harperreed/fittrack/internal/remote"
	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/store"
	"github.com/harperreed/fittrack/internal/syncer"
)

var (
	cfg         *config.Config
	dbConn      storage.Querier
	queue       *outbox.Queue
	st          *store.Store
	syncService *syncer.Service
	currentUser *models.User
	logger      *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fittrack",
	Short: "Offline-first fitness tracker",
	Long: `Fittrack is a CLI tool for tracking workouts, nutrition, and daily activity.

WHAT IT TRACKS:

  Training    workouts with exercises, sets, reps, weight, and RPE
  Nutrition   meals with calories and macros, reusable food presets
  Daily       step counts and body weight
  Progress    personal records, streaks, and achievements

QUICK START:

  $ fittrack workout log "Push Day" -e "Bench Press:8x80,8x80,6x85"
  $ fittrack meal log "Chicken and rice" --calories 650 --protein 45
  $ fittrack weight 82.5                # Log body weight
  $ fittrack steps 9200                 # Log step count
  $ fittrack pr                         # See personal records

TEMPLATES:

  $ fittrack template create "Push Day" -e "Bench Press:3x8@80"
  $ fittrack workout from-template "Push Day"

SYNC:

  All data lives locally first. Configure a sync server and everything
  replicates in the background; offline writes queue up and drain when
  connectivity returns.

  $ fittrack sync login you@example.com    # Sign in and migrate local data
  $ fittrack sync status                   # Queue depth and connectivity
  $ fittrack sync now                      # Force a full sync

MCP INTEGRATION:

  Run 'fittrack mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants:

  {
    "mcpServers": {
      "fittrack": { "command": "fittrack", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored at ~/.local/share/fittrack (SQLite by default; set
  "backend": "badger" in ~/.config/fittrack/config.json for the
  document-store backend).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger = log.New(io.Discard, "", 0)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger = log.New(cmd.ErrOrStderr(), "[fittrack] ", log.LstdFlags)
		}

		dbConn, err = cfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}

		queue = outbox.New(dbConn, logger)
		st = store.New(dbConn, queue, logger)

		currentUser, err = st.EnsureUser(cmd.Context(), defaultUserName())
		if err != nil {
			return fmt.Errorf("initialize user: %w", err)
		}

		if cfg.Sync.Configured() {
			deviceID, err := cfg.EnsureDeviceID()
			if err != nil {
				return err
			}
			rc := remote.NewHTTPClient(cfg.Sync.ServerURL, cfg.Sync.Token, deviceID)
			monitor := syncer.NewMonitor()
			syncService = syncer.New(dbConn, queue, rc, monitor, cfg.Sync.GetPolicy(), logger)
			syncService.SetUser(currentUser.ID)
			if cfg.Sync.AutoSync {
				// A CLI invocation is the app coming to the foreground: probe
				// connectivity and, when reachable, run the debounced full sync
				// so remote changes land without an explicit 'sync now'.
				if monitor.Probe(cmd.Context(), rc.Health) {
					if err := syncService.HandleForeground(cmd.Context()); err != nil {
						logger.Printf("foreground sync: %v", err)
					}
				}
			}
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbConn != nil {
			return dbConn.Close()
		}
		return nil
	},
}

func defaultUserName() string {
	return "me"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log internal operations to stderr")
}
