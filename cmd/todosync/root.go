package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"todosync/internal/config"
	"todosync/internal/notify"
	"todosync/internal/remote"
	"todosync/internal/remote/firestore"
	"todosync/internal/store"
)

var (
	cfgFile   string
	ownerFlag string
	dbFlag    string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "todosync",
	Short: "Offline-first todo list with cloud sync",
	Long: `todosync keeps a local todo database and reconciles it with a per-user
Firestore collection on demand.

Tasks are created offline and pushed explicitly; remote tasks are pulled
into the local store, re-establishing reminder notifications along the way.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if ownerFlag != "" {
			cfg.OwnerID = ownerFlag
		}
		if dbFlag != "" {
			cfg.DatabasePath = dbFlag
		}

		var out io.Writer = os.Stderr
		if cfg.Log.File != "" {
			out = &lumberjack.Logger{
				Filename:   cfg.Log.File,
				MaxSize:    cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
			}
		}
		logger = log.New(out, "[todosync] ", log.LstdFlags)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: "+config.Dir()+"/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "owner id scoping the remote collection")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "local database path")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(syncCmd)
}

// openStore opens the local database and ensures its schema exists.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := st.InitSchema(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// openRemote connects to the configured Firestore project, or returns nil
// when none is configured.
func openRemote(ctx context.Context) (remote.Collection, func(), error) {
	if cfg.Firestore.ProjectID == "" {
		return nil, func() {}, nil
	}
	client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}
	return firestore.New(client), func() { _ = client.Close() }, nil
}

// requireRemote is openRemote for commands that cannot run without one.
func requireRemote(ctx context.Context) (remote.Collection, func(), error) {
	collection, cleanup, err := openRemote(ctx)
	if err != nil {
		return nil, nil, err
	}
	if collection == nil {
		return nil, nil, fmt.Errorf("no remote configured: set firestore.project_id in %s/config.yaml", config.Dir())
	}
	return collection, cleanup, nil
}

func requireOwner() (string, error) {
	if cfg.OwnerID == "" {
		return "", fmt.Errorf("owner id required: set owner_id in the config or pass --owner")
	}
	return cfg.OwnerID, nil
}

func newScheduler() *notify.TimerScheduler {
	return notify.NewTimerScheduler(logger)
}
