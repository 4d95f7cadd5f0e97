package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch <league.json> [more.json...]",
	Short: "Re-import league files and re-print the report whenever they change",
	Long: `Import the given league files, print the full report, then keep watching
them. Each time a file is saved it is re-imported and its report re-printed.
When --config is set, edits to the config file are picked up too.

Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	addAnalyticsFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Last imported season per file, so a config edit can re-render it.
	leagues := make(map[string]*model.League)
	refresh := func(path string) {
		l, err := importFile(db, path)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		leagues[path] = &l
		renderWatched(ctx, cmd, &l)
	}

	paths := make([]string, 0, len(args)+1)
	for _, p := range args {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		paths = append(paths, abs)
		refresh(abs)
	}
	cfgAbs := ""
	if configPath != "" {
		if cfgAbs, err = filepath.Abs(configPath); err != nil {
			return fmt.Errorf("resolve %s: %w", configPath, err)
		}
		paths = append(paths, cfgAbs)
	}

	err = config.Watch(ctx, paths, func(path string) {
		if path != cfgAbs {
			refresh(path)
			return
		}
		cfg, err := config.Load(path)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: reload config: %v\n", err)
			return
		}
		appConfig = cfg
		slog.Info("config reloaded", "path", path)
		for _, l := range leagues {
			renderWatched(ctx, cmd, l)
		}
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	cMuted.Println("stopped watching")
	return nil
}

func renderWatched(ctx context.Context, cmd *cobra.Command, l *model.League) {
	r, err := analytics.Run(ctx, *l, analyticsConfig(cmd, l))
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Printf("\n=== %s season %d, refreshed %s ===\n", l.ID, l.Season, time.Now().Format("15:04:05"))
	report.PrintReport(os.Stdout, r, focusTeam(cmd))
}
