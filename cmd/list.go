package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored league seasons",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	leagues, err := db.ListLeagues()
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		fmt.Fprintln(os.Stdout, "No leagues stored yet. Run 'leaguemetrics import <league.json>' to add one.")
		return nil
	}
	report.PrintLeagueList(os.Stdout, leagues)
	return nil
}
