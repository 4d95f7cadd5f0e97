package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend <league-id>",
	Short: "Week-by-week power score and rank for every team",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	addAnalyticsFlags(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}
	cfg := analyticsConfig(cmd, league)

	points, err := analytics.PowerTrend(*league, cfg)
	if err != nil {
		return fmt.Errorf("power trend: %w", err)
	}
	if len(points) == 0 {
		fmt.Println("no scored weeks found")
		return nil
	}
	report.PrintLeagueHeader(os.Stdout, league.Summary(), cfg.CurrentWeek, cfg.TotalWeeks)
	report.PrintTrendTable(os.Stdout, points, focusTeam(cmd))
	return nil
}
