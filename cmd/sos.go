package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

var sosCmd = &cobra.Command{
	Use:     "sos <league-id>",
	Aliases: []string{"schedule"},
	Short:   "Remaining strength of schedule",
	Args:    cobra.ExactArgs(1),
	RunE:    runSOS,
}

func init() {
	addAnalyticsFlags(sosCmd)
}

func runSOS(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}
	cfg := analyticsConfig(cmd, league)

	rows, err := analytics.ScheduleDifficulty(*league, cfg)
	if err != nil {
		return fmt.Errorf("schedule difficulty: %w", err)
	}
	report.PrintLeagueHeader(os.Stdout, league.Summary(), cfg.CurrentWeek, cfg.TotalWeeks)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No games remaining: the regular season is complete.")
		return nil
	}
	report.PrintScheduleTable(os.Stdout, rows, focusTeam(cmd))
	return nil
}
