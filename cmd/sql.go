package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the league database",
	Long: `Run an arbitrary SQL query against the league database and print results as a table.

Schema overview:
  leagues(league_id TEXT, season, name, regular_season_weeks, imported_at)
  teams(league_id TEXT, season, team_id, name)
  matchups(league_id TEXT, season, seq, week, home_team_id, away_team_id,
    home_score, away_score)
  team_games(league_id, season, week, team_id, opponent_id, team_score,
    opponent_score)   -- view: one row per side with a positive score

Note: league_id is stored as TEXT. Use quotes: WHERE league_id = '1001'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRawTable(os.Stdout, cols, rows)
	return nil
}
