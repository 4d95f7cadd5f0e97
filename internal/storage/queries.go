package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pable/go-league-metrics/internal/model"
)

// InsertLeague stores one league season in a transaction. Re-importing a
// season replaces its teams and matchups.
func (db *DB) InsertLeague(l model.League) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"matchups", "teams"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE league_id = ? AND season = ?", l.ID, l.Season); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO leagues(league_id, season, name, regular_season_weeks)
		VALUES (?, ?, ?, ?)`,
		l.ID, l.Season, l.Name, l.RegularSeasonWeeks,
	); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	teamStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO teams(league_id, season, team_id, name) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer teamStmt.Close()
	for _, t := range l.Teams {
		if _, err := teamStmt.Exec(l.ID, l.Season, t.ID, t.Name); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
	}

	matchStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matchups(
			league_id, season, seq, week, home_team_id, away_team_id, home_score, away_score
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer matchStmt.Close()
	for i, m := range l.Matchups {
		if _, err := matchStmt.Exec(l.ID, l.Season, i, m.Week,
			m.HomeTeamID, m.AwayTeamID, m.HomeScore, m.AwayScore); err != nil {
			return fmt.Errorf("insert matchup %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListLeagues returns every stored season, newest season first within a league.
func (db *DB) ListLeagues() ([]model.LeagueSummary, error) {
	rows, err := db.conn.Query(`
		SELECT l.league_id, l.season, l.name, l.regular_season_weeks,
		       (SELECT COUNT(*) FROM teams t
		         WHERE t.league_id = l.league_id AND t.season = l.season),
		       (SELECT COUNT(*) FROM matchups m
		         WHERE m.league_id = l.league_id AND m.season = l.season),
		       (SELECT COALESCE(MAX(m.week), 0) FROM matchups m
		         WHERE m.league_id = l.league_id AND m.season = l.season
		           AND (m.home_score > 0 OR m.away_score > 0))
		FROM leagues l
		ORDER BY l.league_id, l.season DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LeagueSummary
	for rows.Next() {
		var s model.LeagueSummary
		if err := rows.Scan(&s.ID, &s.Season, &s.Name, &s.RegularSeasonWeeks,
			&s.Teams, &s.Matchups, &s.LastScoredWeek); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestSeason returns the most recent stored season of a league.
func (db *DB) LatestSeason(leagueID string) (int, error) {
	var season sql.NullInt64
	err := db.conn.QueryRow(
		"SELECT MAX(season) FROM leagues WHERE league_id = ?", leagueID).Scan(&season)
	if err != nil {
		return 0, err
	}
	if !season.Valid {
		return 0, ErrNotFound
	}
	return int(season.Int64), nil
}

// GetLeague loads one stored season. It returns nil, nil when absent.
func (db *DB) GetLeague(leagueID string, season int) (*model.League, error) {
	l := model.League{ID: leagueID, Season: season}
	err := db.conn.QueryRow(`
		SELECT name, regular_season_weeks FROM leagues WHERE league_id = ? AND season = ?`,
		leagueID, season).Scan(&l.Name, &l.RegularSeasonWeeks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	teams, err := db.conn.Query(`
		SELECT team_id, name FROM teams WHERE league_id = ? AND season = ? ORDER BY team_id`,
		leagueID, season)
	if err != nil {
		return nil, err
	}
	defer teams.Close()
	for teams.Next() {
		var t model.Team
		if err := teams.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		l.Teams = append(l.Teams, t)
	}
	if err := teams.Err(); err != nil {
		return nil, err
	}

	matchups, err := db.conn.Query(`
		SELECT week, home_team_id, away_team_id, home_score, away_score
		FROM matchups WHERE league_id = ? AND season = ? ORDER BY seq`,
		leagueID, season)
	if err != nil {
		return nil, err
	}
	defer matchups.Close()
	for matchups.Next() {
		var m model.Matchup
		if err := matchups.Scan(&m.Week, &m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore); err != nil {
			return nil, err
		}
		l.Matchups = append(l.Matchups, m)
	}
	return &l, matchups.Err()
}

// DeleteLeague removes one stored season and reports whether it existed.
func (db *DB) DeleteLeague(leagueID string, season int) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, table := range []string{"matchups", "teams"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE league_id = ? AND season = ?", leagueID, season); err != nil {
			return false, fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM leagues WHERE league_id = ? AND season = ?", leagueID, season)
	if err != nil {
		return false, fmt.Errorf("delete league: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}
