// Command nutri is the nutrimirror CLI: scan or search food
// products, log consumed portions, and view daily and weekly
// nutrition progress, backed by the hybrid local/remote sync core.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ademchenko/nutrimirror/internal/config"
	"github.com/ademchenko/nutrimirror/internal/local"
	"github.com/ademchenko/nutrimirror/internal/logging"
	"github.com/ademchenko/nutrimirror/internal/model"
	"github.com/ademchenko/nutrimirror/internal/remote"
	"github.com/ademchenko/nutrimirror/internal/sync"
)

var (
	flagConfig string
	flagUser   string

	cfg       *config.Config
	loader    *config.Loader
	database  *local.DB
	tracker   *sync.Tracker
	appLogger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nutri",
	Short: "Food diary with a local-first, cloud-mirrored store",
	Long: `nutrimirror keeps your food diary on-device for instant reads and
mirrors it to the cloud store. Catalog lookups, diary entries, daily
progress, and favorites all read locally first and fall back to the
remote store, writing useful remote data back into the local cache.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if database != nil {
			_ = database.Close()
		}
	},
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle (setup refers back to rootCmd).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// `config init` must work before any config or db exists.
		if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		return setup()
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "override the configured user id")
}

// setup loads configuration and wires the store adapters and the
// sync components. Called once per invocation.
func setup() error {
	loader = config.NewLoader(flagConfig)

	var err error
	cfg, err = loader.Load()
	if err != nil {
		return err
	}
	if flagUser != "" {
		cfg.UserID = flagUser
	}

	appLogger = logging.New("nutri", cfg.LogFile)
	loader.Watch(func(*config.Config) {
		appLogger.Printf("config file changed; restart to apply")
	})

	database, err = local.Open(cfg.DatabasePath())
	if err != nil {
		return err
	}
	if err := database.InitSchema(rootCmd.Context()); err != nil {
		return err
	}

	client := remote.New(remote.Config{
		BaseURL:  cfg.RemoteBaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.RequestTimeout,
		RetryMax: cfg.RetryMax,
		Logger:   logging.New("remote", cfg.LogFile),
	})

	restrictions := make([]model.AllergenTag, 0, len(cfg.Restrictions))
	for _, r := range cfg.Restrictions {
		restrictions = append(restrictions, model.AllergenTag(r))
	}

	tracker = sync.NewTracker(database, client, &sync.TrackerConfig{
		Ledger: &sync.LedgerConfig{
			WriteWindowDays: cfg.WriteWindowDays,
			Logger:          logging.New("ledger", cfg.LogFile),
		},
		Progress: &sync.ProgressConfig{
			Restrictions: restrictions,
			Logger:       logging.New("progress", cfg.LogFile),
		},
		Logger: logging.New("sync", cfg.LogFile),
	})

	return nil
}

// userID returns the effective user id or an error telling the user
// how to set one.
func userID() (string, error) {
	if cfg.UserID == "" {
		return "", fmt.Errorf("no user id configured; set user_id in the config or pass --user")
	}
	return cfg.UserID, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".nutrimirror", "config.yaml")
}
