package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pable/go-league-metrics/internal/model"
)

// Record kinds reported by SeasonRecords.
const (
	RecordMostWins          = "Most wins"
	RecordHighestScore      = "Highest score"
	RecordMostPointsFor     = "Most points for"
	RecordMostPointsAgainst = "Most points against"
	RecordBiggestBlowout    = "Biggest blowout"
	RecordLowestScore       = "Lowest score"
)

// Each query yields team_id, opponent_id, season, week, value. Ties go to
// the earliest season, then the lowest team ID.
var recordQueries = []struct {
	kind  string
	query string
}{
	{RecordMostWins, `
		SELECT team_id, 0, season, 0, COUNT(*) AS value
		FROM team_games
		WHERE league_id = ? AND team_score > opponent_score
		GROUP BY team_id, season
		ORDER BY value DESC, season, team_id
		LIMIT 1`},
	{RecordHighestScore, `
		SELECT team_id, opponent_id, season, week, team_score
		FROM team_games
		WHERE league_id = ?
		ORDER BY team_score DESC, season, week, team_id
		LIMIT 1`},
	{RecordMostPointsFor, `
		SELECT team_id, 0, season, 0, SUM(team_score) AS value
		FROM team_games
		WHERE league_id = ?
		GROUP BY team_id, season
		ORDER BY value DESC, season, team_id
		LIMIT 1`},
	{RecordMostPointsAgainst, `
		SELECT team_id, 0, season, 0, SUM(opponent_score) AS value
		FROM team_games
		WHERE league_id = ?
		GROUP BY team_id, season
		ORDER BY value DESC, season, team_id
		LIMIT 1`},
	{RecordBiggestBlowout, `
		SELECT team_id, opponent_id, season, week, team_score - opponent_score AS value
		FROM team_games
		WHERE league_id = ? AND team_score > opponent_score
		ORDER BY value DESC, season, week, team_id
		LIMIT 1`},
	{RecordLowestScore, `
		SELECT team_id, opponent_id, season, week, team_score
		FROM team_games
		WHERE league_id = ?
		ORDER BY team_score ASC, season, week, team_id
		LIMIT 1`},
}

// SeasonRecords computes all-time records for a league across every stored
// season. Records with no qualifying game are nil.
func (db *DB) SeasonRecords(leagueID string) (*model.SeasonRecords, error) {
	out := &model.SeasonRecords{LeagueID: leagueID}
	slots := map[string]**model.SeasonRecord{
		RecordMostWins:          &out.MostWins,
		RecordHighestScore:      &out.HighestScore,
		RecordMostPointsFor:     &out.MostPointsFor,
		RecordMostPointsAgainst: &out.MostPointsAgainst,
		RecordBiggestBlowout:    &out.BiggestBlowout,
		RecordLowestScore:       &out.LowestScore,
	}

	for _, q := range recordQueries {
		r := model.SeasonRecord{Kind: q.kind}
		err := db.conn.QueryRow(q.query, leagueID).
			Scan(&r.TeamID, &r.OpponentID, &r.Season, &r.Week, &r.Value)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		name, err := db.teamName(leagueID, r.Season, r.TeamID)
		if err != nil {
			return nil, err
		}
		r.TeamName = name
		*slots[q.kind] = &r
	}
	return out, nil
}

func (db *DB) teamName(leagueID string, season, teamID int) (string, error) {
	var name string
	err := db.conn.QueryRow(
		"SELECT name FROM teams WHERE league_id = ? AND season = ? AND team_id = ?",
		leagueID, season, teamID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Sprintf("Team %d", teamID), nil
	}
	return name, err
}
