package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

var oddsPositions bool

var oddsCmd = &cobra.Command{
	Use:   "odds <league-id>",
	Short: "Monte Carlo playoff odds and projected records",
	Args:  cobra.ExactArgs(1),
	RunE:  runOdds,
}

func init() {
	addAnalyticsFlags(oddsCmd)
	oddsCmd.Flags().BoolVar(&oddsPositions, "positions", false, "also print the finishing-position distribution")
}

func runOdds(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}
	cfg := analyticsConfig(cmd, league)

	odds, err := analytics.PlayoffOdds(cmd.Context(), *league, cfg)
	if err != nil {
		return fmt.Errorf("playoff odds: %w", err)
	}
	report.PrintLeagueHeader(os.Stdout, league.Summary(), cfg.CurrentWeek, cfg.TotalWeeks)
	fmt.Fprintf(os.Stdout, "%d simulations, top %d make the playoffs\n", cfg.NumSimulations, cfg.PlayoffSpots)
	report.PrintOddsTable(os.Stdout, odds, focusTeam(cmd))
	if oddsPositions {
		fmt.Fprintln(os.Stdout, "\nFinishing position (%)")
		report.PrintPositionTable(os.Stdout, odds, focusTeam(cmd))
	}
	return nil
}
