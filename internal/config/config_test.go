package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
owner_id: u1
database: /tmp/alt.db
firestore:
  project_id: demo-project
  credentials_file: /tmp/creds.json
log:
  file: /tmp/todosync.log
  max_size_mb: 5
  max_backups: 7
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OwnerID != "u1" {
		t.Errorf("owner id = %q", cfg.OwnerID)
	}
	if cfg.DatabasePath != "/tmp/alt.db" {
		t.Errorf("database = %q", cfg.DatabasePath)
	}
	if cfg.Firestore.ProjectID != "demo-project" || cfg.Firestore.CredentialsFile != "/tmp/creds.json" {
		t.Errorf("firestore config = %+v", cfg.Firestore)
	}
	if cfg.Log.File != "/tmp/todosync.log" || cfg.Log.MaxSizeMB != 5 || cfg.Log.MaxBackups != 7 {
		t.Errorf("log config = %+v", cfg.Log)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without config file failed: %v", err)
	}

	if cfg.OwnerID != "" {
		t.Errorf("owner id = %q, want empty", cfg.OwnerID)
	}
	if cfg.DatabasePath == "" {
		t.Error("database path default missing")
	}
	if cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 3 {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing explicit config file succeeded")
	}
}

func TestDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")

	if got := Dir(); got != filepath.Join("/custom/xdg", AppName) {
		t.Errorf("Dir() = %q", got)
	}
}
