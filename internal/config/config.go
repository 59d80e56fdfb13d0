// ABOUTME: Fittrack configuration management with backend selection.
// ABOUTME: Handles storage settings, sync credentials, and the backend factory.

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/fittrack/internal/docstore"
	"github.com/harperreed/fittrack/internal/storage"
	"github.com/harperreed/fittrack/internal/syncer"
)

// Config stores fittrack configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts fittrack.db here. Badger puts a docstore/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fittrack.
	DataDir string `json:"data_dir,omitempty"`

	// Sync holds cloud sync settings; empty means sync is not configured.
	Sync SyncConfig `json:"sync,omitempty"`
}

// SyncConfig stores cloud backend credentials and behavior.
type SyncConfig struct {
	ServerURL string `json:"server_url,omitempty"`
	Token     string `json:"token,omitempty"`
	UserID    string `json:"user_id,omitempty"`

	// DeviceID identifies this install to the backend. Generated on first use.
	DeviceID string `json:"device_id,omitempty"`

	// Policy selects conflict resolution: cloud_wins (default), local_wins, manual.
	Policy string `json:"policy,omitempty"`

	// AutoSync enables drain-on-enqueue and foreground full syncs.
	AutoSync bool `json:"auto_sync,omitempty"`
}

// Configured reports whether a sync server has been set up.
func (sc *SyncConfig) Configured() bool {
	return sc.ServerURL != ""
}

// GetPolicy returns the configured conflict policy, defaulting to cloud_wins.
func (sc *SyncConfig) GetPolicy() syncer.Policy {
	switch sc.Policy {
	case string(syncer.PolicyLocalWins):
		return syncer.PolicyLocalWins
	case string(syncer.PolicyManual):
		return syncer.PolicyManual
	default:
		return syncer.PolicyCloudWins
	}
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// EnsureDeviceID returns the stable device id, generating and persisting one
// on first use.
func (c *Config) EnsureDeviceID() (string, error) {
	if c.Sync.DeviceID != "" {
		return c.Sync.DeviceID, nil
	}
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	c.Sync.DeviceID = ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	if err := c.Save(); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return c.Sync.DeviceID, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Querier implementation based on the configured backend.
func (c *Config) OpenStorage(logger *log.Logger) (storage.Querier, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case "sqlite":
		dbPath := filepath.Join(dataDir, "fittrack.db")
		return storage.Open(dbPath, logger)
	case "badger":
		return docstore.Open(filepath.Join(dataDir, "docstore"), logger)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fittrack", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
