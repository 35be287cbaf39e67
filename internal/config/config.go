// Package config loads CLI configuration from the XDG config directory,
// environment variables (TODOSYNC_*) and flags, via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is the application directory name.
const AppName = "todosync"

// Config holds the resolved configuration.
type Config struct {
	// OwnerID scopes the remote collection. Required for push/pull.
	OwnerID string

	// DatabasePath is the local SQLite database file.
	DatabasePath string

	Firestore struct {
		ProjectID       string
		CredentialsFile string
	}

	Log struct {
		// File enables rotating file logging when non-empty.
		File       string
		MaxSizeMB  int
		MaxBackups int
	}
}

// Dir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads the configuration. If path is empty, config.yaml from Dir()
// is read when present; a missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database", filepath.Join(Dir(), "todos.db"))
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix("TODOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		OwnerID:      v.GetString("owner_id"),
		DatabasePath: v.GetString("database"),
	}
	cfg.Firestore.ProjectID = v.GetString("firestore.project_id")
	cfg.Firestore.CredentialsFile = v.GetString("firestore.credentials_file")
	cfg.Log.File = v.GetString("log.file")
	cfg.Log.MaxSizeMB = v.GetInt("log.max_size_mb")
	cfg.Log.MaxBackups = v.GetInt("log.max_backups")

	return cfg, nil
}
