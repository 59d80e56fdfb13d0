// ABOUTME: CLI commands for cloud sync: login, logout, status, and manual syncs.
// ABOUTME: Login promotes local-only data to the cloud account before uploading.
package main

import (
	"fmt"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/harperreed/fittrack/internal/migrate"
	"github.com/harperreed/fittrack/internal/remote"
	"github.com/harperreed/fittrack/internal/syncer"
)

var syncServerURL string

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync fitness data with the cloud",
	Long: `Sync fitness data with a cloud backend.

All data lives locally first. Every write is queued; when the device is
online the queue drains automatically, and a full sync pulls changes made
on other devices.

GETTING STARTED:

  1. Sign in (data logged before sign-in is migrated to your account):
     fittrack sync login you@example.com --server https://sync.example.com

  2. Check status:
     fittrack sync status

COMMANDS:

  login    Sign in and migrate local data to your account
  logout   Forget credentials (local data is preserved)
  status   Show connectivity, queue depth, and settings
  now      Run a full sync immediately

Conflicts are resolved by the configured policy (cloud_wins by default; set
"policy" under "sync" in ~/.config/fittrack/config.json).`,
}

var syncLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the sync backend",
	Long: `Sign in to the sync backend and migrate local data to your account.

Workouts and records logged before sign-in belong to an anonymous local
user; login rewrites them to your cloud account and uploads everything.

Example:
  fittrack sync login you@example.com --server https://sync.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncServerURL != "" {
			cfg.Sync.ServerURL = syncServerURL
		}
		if cfg.Sync.ServerURL == "" {
			return fmt.Errorf("no sync server configured (use --server)")
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		deviceID, err := cfg.EnsureDeviceID()
		if err != nil {
			return err
		}

		rc := remote.NewHTTPClient(cfg.Sync.ServerURL, "", deviceID)
		session, err := rc.Login(cmd.Context(), args[0], string(password))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		rc.SetToken(session.Token)

		cfg.Sync.Token = session.Token
		cfg.Sync.UserID = session.UserID
		cfg.Sync.AutoSync = true
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		// Promote anonymous local data to the cloud account.
		mig := migrate.New(dbConn, queue, logger)
		hadLocal, err := mig.HasLocalData(cmd.Context())
		if err != nil {
			return err
		}
		if err := mig.PromoteLocalUser(cmd.Context(), session.UserID); err != nil {
			return fmt.Errorf("migrate local data: %w", err)
		}

		color.Green("✓ Signed in as %s", args[0])
		if hadLocal {
			fmt.Println("  Local data migrated to your account.")
		}

		monitor := syncer.NewMonitor()
		svc := syncer.New(dbConn, queue, rc, monitor, cfg.Sync.GetPolicy(), logger)
		svc.SetUser(session.UserID)
		if monitor.Probe(cmd.Context(), rc.Health) {
			if err := svc.FullSync(cmd.Context()); err != nil {
				color.Yellow("⚠ Initial sync failed: %v", err)
			} else {
				color.Green("✓ Initial sync complete")
			}
		} else {
			color.Yellow("⚠ Server unreachable; queued data will upload later")
		}
		return nil
	},
}

var syncLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget sync credentials",
	Long: `Forget the stored sync credentials.

Local data is preserved and keeps accumulating; sign in again later to
resume syncing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Sync.Token = ""
		cfg.Sync.UserID = ""
		cfg.Sync.AutoSync = false
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		color.Green("✓ Signed out")
		fmt.Println("Your local data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Sync.Configured() {
			color.Yellow("Sync not configured")
			fmt.Println("\nRun 'fittrack sync login' to connect to a sync server.")
			return nil
		}

		fmt.Println("Server:", cfg.Sync.ServerURL)
		fmt.Println("User:", cfg.Sync.UserID)
		fmt.Println("Policy:", cfg.Sync.GetPolicy())
		fmt.Println()

		pending, err := queue.PendingCount(cmd.Context())
		if err != nil {
			return fmt.Errorf("read queue: %w", err)
		}

		if syncService != nil {
			state := syncService.State()
			switch state {
			case syncer.StateOffline:
				color.Yellow("● Offline")
			case syncer.StateOnlineSyncing:
				color.Cyan("● Syncing")
			default:
				color.Green("● Online")
			}
		}
		fmt.Printf("  Pending changes: %d\n", pending)
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Run a full sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncService == nil {
			return fmt.Errorf("sync not configured (run 'fittrack sync login')")
		}

		deviceID, _ := cfg.EnsureDeviceID()
		rc := remote.NewHTTPClient(cfg.Sync.ServerURL, cfg.Sync.Token, deviceID)
		monitor := syncer.NewMonitor()
		if !monitor.Probe(cmd.Context(), rc.Health) {
			return fmt.Errorf("sync server unreachable")
		}

		svc := syncer.New(dbConn, queue, rc, monitor, cfg.Sync.GetPolicy(), logger)
		svc.SetUser(cfg.Sync.UserID)
		if err := svc.FullSync(cmd.Context()); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		pending, _ := queue.PendingCount(cmd.Context())
		color.Green("✓ Sync complete")
		fmt.Printf("  Pending changes: %d\n", pending)
		return nil
	},
}

func init() {
	syncLoginCmd.Flags().StringVar(&syncServerURL, "server", "", "sync server URL")

	syncCmd.AddCommand(syncLoginCmd)
	syncCmd.AddCommand(syncLogoutCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	rootCmd.AddCommand(syncCmd)
}
