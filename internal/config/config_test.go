// ABOUTME: Tests for configuration loading, saving, and defaults.
// ABOUTME: Uses XDG_CONFIG_HOME to isolate each test's config file.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/fittrack/internal/syncer"
)

func TestLoadMissingConfigReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GetBackend() != "sqlite" {
		t.Errorf("default backend = %s, want sqlite", cfg.GetBackend())
	}
	if cfg.Sync.Configured() {
		t.Error("sync should not be configured by default")
	}
	if cfg.Sync.GetPolicy() != syncer.PolicyCloudWins {
		t.Errorf("default policy = %s, want cloud_wins", cfg.Sync.GetPolicy())
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend: "badger",
		DataDir: "/tmp/fittrack-test",
		Sync: SyncConfig{
			ServerURL: "https://sync.example.com",
			Token:     "tok",
			UserID:    "cloud-1",
			Policy:    "local_wins",
			AutoSync:  true,
		},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Backend != "badger" || loaded.DataDir != "/tmp/fittrack-test" {
		t.Errorf("loaded = %+v", loaded)
	}
	if !loaded.Sync.Configured() || !loaded.Sync.AutoSync {
		t.Errorf("sync = %+v", loaded.Sync)
	}
	if loaded.Sync.GetPolicy() != syncer.PolicyLocalWins {
		t.Errorf("policy = %s", loaded.Sync.GetPolicy())
	}
}

func TestEnsureDeviceIDPersists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{}
	id, err := cfg.EnsureDeviceID()
	if err != nil {
		t.Fatalf("EnsureDeviceID failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated device id")
	}

	// Stable across calls and reloads.
	again, err := cfg.EnsureDeviceID()
	if err != nil || again != id {
		t.Errorf("second call = %s, %v", again, err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Sync.DeviceID != id {
		t.Errorf("persisted device id = %s, want %s", loaded.Sync.DeviceID, id)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := ExpandPath("~/fit"); got != filepath.Join(home, "fit") {
		t.Errorf("ExpandPath(~/fit) = %s", got)
	}
	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %s", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %s", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(empty) = %s", got)
	}
}

func TestOpenStorageRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Backend: "postgres", DataDir: t.TempDir()}
	if _, err := cfg.OpenStorage(nil); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenStorageBackends(t *testing.T) {
	dir := t.TempDir()

	sq := &Config{Backend: "sqlite", DataDir: dir}
	db, err := sq.OpenStorage(nil)
	if err != nil {
		t.Fatalf("sqlite backend failed: %v", err)
	}
	db.Close()

	bd := &Config{Backend: "badger", DataDir: dir}
	ds, err := bd.OpenStorage(nil)
	if err != nil {
		t.Fatalf("badger backend failed: %v", err)
	}
	ds.Close()
}
