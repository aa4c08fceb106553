package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/config"
	"github.com/pable/go-scrim-metrics/internal/logger"
	"github.com/pable/go-scrim-metrics/internal/storage"
)

var (
	dbPath string
	cfg    *config.Config
	log    zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scrimmetrics",
	Short: "Scrim analytics for hero-shooter practice matches",
	Long: `Ingest per-map event batches from recorded scrims and compute player
performance metrics: ultimate economy, duels, fights, drought time and X-Factor.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to SQLite database (overrides SCRIM_DB_PATH)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(logger.New(os.Stderr, "info", "console"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	log = logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if !cmd.Flags().Changed("db") {
		dbPath = cfg.DBPath
	}
	return nil
}

func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}
