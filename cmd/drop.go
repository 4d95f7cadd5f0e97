package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce  bool
	dropSeason int
)

// dropCmd deletes one stored season, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [league-id]",
	Short: "Delete a stored league season or the whole database",
	Long: `With a league ID, delete one stored season of that league (--season, default
latest). Without arguments, permanently delete the SQLite database file. All
imported seasons will be lost; re-import your league files afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().IntVar(&dropSeason, "season", 0, "season to delete (default: latest stored)")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropSeasonOf(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropSeasonOf(leagueID string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	season := dropSeason
	if season == 0 {
		if season, err = db.LatestSeason(leagueID); err != nil {
			return fmt.Errorf("find latest season of %s: %w", leagueID, err)
		}
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete league %s season %d.\n", leagueID, season)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	ok, err := db.DeleteLeague(leagueID, season)
	if err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	if !ok {
		fmt.Fprintf(os.Stdout, "League %s season %d is not stored, nothing to drop.\n", leagueID, season)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted league %s season %d\n", leagueID, season)
	return nil
}
