package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

var luckWeekly bool

var luckCmd = &cobra.Command{
	Use:   "luck <league-id>",
	Short: "All-play luck index per team",
	Args:  cobra.ExactArgs(1),
	RunE:  runLuck,
}

func init() {
	addAnalyticsFlags(luckCmd)
	luckCmd.Flags().BoolVar(&luckWeekly, "weekly", false, "print the week-by-week breakdown")
}

func runLuck(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}
	cfg := analyticsConfig(cmd, league)

	weekly, totals, err := analytics.Luck(*league, cfg)
	if err != nil {
		return fmt.Errorf("luck: %w", err)
	}
	report.PrintLeagueHeader(os.Stdout, league.Summary(), cfg.CurrentWeek, cfg.TotalWeeks)
	if luckWeekly {
		report.PrintWeeklyLuckTable(os.Stdout, weekly, focusTeam(cmd))
		fmt.Fprintln(os.Stdout)
	}
	report.PrintLuckTotalsTable(os.Stdout, totals, focusTeam(cmd))
	return nil
}
