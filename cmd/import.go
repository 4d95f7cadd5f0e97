package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/ingest"
	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <league.json> [more.json...]",
	Short: "Import league season files into the database",
	Long: `Import one or more league season JSON files. Both the native format
(teams + matchups) and the platform export (teams + schedule) are accepted.
Re-importing a season replaces its stored teams and matchups.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, path := range args {
		l, err := importFile(db, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Imported %s season %d (%s): %d teams, %d matchups, last scored week %d\n",
			l.ID, l.Season, l.Name, len(l.Teams), len(l.Matchups), l.LastScoredWeek())
	}
	return nil
}

// importFile parses path and stores the season it describes.
func importFile(db *storage.DB, path string) (model.League, error) {
	l, err := ingest.ParseFile(path)
	if err != nil {
		return model.League{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := db.InsertLeague(l); err != nil {
		return model.League{}, fmt.Errorf("store %s: %w", path, err)
	}
	slog.Debug("league imported", "path", path, "league", l.ID, "season", l.Season)
	return l, nil
}
