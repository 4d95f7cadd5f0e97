package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string
	verbose    bool

	// appConfig is the loaded config file, or the defaults when --config is unset.
	appConfig = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "leaguemetrics",
	Short: "Head-to-head fantasy league analytics",
	Long: `Import weekly head-to-head league results and compute power rankings,
playoff odds, luck and remaining schedule difficulty.`,
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
	defaultDB := filepath.Join(mustUserHome(), ".leaguemetrics", "leagues.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(luckCmd)
	rootCmd.AddCommand(sosCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup installs the logger and loads the config file before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if configPath == "" {
		return nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	appConfig = cfg
	if cfg.Database != "" && !cmd.Flags().Changed("db") {
		dbPath = expandHome(cfg.Database)
	}
	slog.Debug("config loaded", "path", configPath, "db", dbPath)
	return nil
}

// openDB creates the database directory if needed and opens the store.
func openDB() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(mustUserHome(), rest)
	}
	return path
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
