// Package cmd implements the movieapp command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"movieapp/config"
	"movieapp/database"
	"movieapp/logger"
)

var (
	cfgFile string
	cfg     config.Config
	log     zerolog.Logger

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command; on its own it serves the API
var rootCmd = &cobra.Command{
	Use:   "movieapp",
	Short: "Movie search and playlist API",
	Long: `movieapp serves a JSON API that proxies movie searches to The Movie
Database and stores user playlists of movies in a SQL database.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	RunE:              runServe,
}

// SetVersion records build information injected at link time
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initializeApp loads configuration and builds the logger
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// A version stamped in at build time wins over the configured one
	if version != "dev" {
		cfg.App.Version = version
	}

	log = logger.New(cfg.Logging)
	log.Debug().
		Str("version", cfg.App.Version).
		Str("build_time", buildTime).
		Str("environment", cfg.App.Environment).
		Msg("Configuration loaded")
	return nil
}

// openDatabase connects to the configured database and brings its schema up to date
func openDatabase(ctx context.Context) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := db.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}
