package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings <league-id>",
	Short: "Power rankings at the cutoff week",
	Args:  cobra.ExactArgs(1),
	RunE:  runRankings,
}

func init() {
	addAnalyticsFlags(rankingsCmd)
}

func runRankings(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}
	cfg := analyticsConfig(cmd, league)

	rows, err := analytics.PowerRankings(*league, cfg)
	if err != nil {
		return fmt.Errorf("power rankings: %w", err)
	}
	report.PrintLeagueHeader(os.Stdout, league.Summary(), cfg.CurrentWeek, cfg.TotalWeeks)
	report.PrintRankingsTable(os.Stdout, rows, focusTeam(cmd))
	return nil
}
