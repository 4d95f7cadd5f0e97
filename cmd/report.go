package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <league-id>",
	Short: "Full analytics report: rankings, playoff odds, luck and schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	addAnalyticsFlags(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}
	r, err := analytics.Run(cmd.Context(), *league, analyticsConfig(cmd, league))
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}
	report.PrintReport(os.Stdout, r, focusTeam(cmd))
	return nil
}
