package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/report"
)

var recordsCmd = &cobra.Command{
	Use:   "records <league-id>",
	Short: "All-time records across every stored season of a league",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecords,
}

func runRecords(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.SeasonRecords(args[0])
	if err != nil {
		return fmt.Errorf("season records: %w", err)
	}
	if len(rec.All()) == 0 {
		fmt.Fprintf(os.Stdout, "No scored games stored for league %s.\n", args[0])
		return nil
	}
	report.PrintRecordsTable(os.Stdout, rec)
	return nil
}
