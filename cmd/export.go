package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/model"
)

var (
	exportOut    string
	exportFormat string
)

// reportExport is the JSON schema of `export --format report`. It is also the
// data block handed to the analyze command.
type reportExport struct {
	LeagueID    string             `json:"league_id"`
	LeagueName  string             `json:"league_name"`
	Season      int                `json:"season"`
	Week        int                `json:"week"`
	TotalWeeks  int                `json:"total_weeks"`
	Strategy    string             `json:"power_strategy"`
	Dropped     int                `json:"dropped_matchups,omitempty"`
	GeneratedAt string             `json:"generated_at"`
	Rankings    []rankingExport    `json:"power_rankings"`
	PlayoffOdds []oddsExport       `json:"playoff_odds"`
	Luck        []luckExport       `json:"luck"`
	WeeklyLuck  []weeklyLuckExport `json:"weekly_luck"`
	Schedule    []scheduleExport   `json:"remaining_schedule"`
}

type rankingExport struct {
	Rank             int     `json:"rank"`
	TeamID           int     `json:"team_id"`
	TeamName         string  `json:"team_name"`
	Record           string  `json:"record"`
	PowerScore       float64 `json:"power_score"`
	SimplePowerScore float64 `json:"simple_power_score"`
	PointsFor        float64 `json:"points_for"`
	PointsAgainst    float64 `json:"points_against"`
	AllPlayWins      int     `json:"all_play_wins"`
	AllPlayLosses    int     `json:"all_play_losses"`
}

type oddsExport struct {
	TeamID             int       `json:"team_id"`
	TeamName           string    `json:"team_name"`
	CurrentRecord      string    `json:"current_record"`
	ProjectedWins      float64   `json:"projected_wins"`
	ProjectedLosses    float64   `json:"projected_losses"`
	ProjectedTies      float64   `json:"projected_ties,omitempty"`
	ProjectedPointsFor float64   `json:"projected_points_for"`
	PlayoffOddsPct     float64   `json:"playoff_odds_pct"`
	PositionPct        []float64 `json:"position_pct,omitempty"`
}

type luckExport struct {
	TeamID       int     `json:"team_id"`
	TeamName     string  `json:"team_name"`
	Weeks        int     `json:"weeks"`
	ActualWins   int     `json:"actual_wins"`
	ExpectedWins float64 `json:"expected_wins"`
	TotalLuck    float64 `json:"total_luck"`
}

// weeklyLuckExport is one team-week, ordered by week then team ID.
type weeklyLuckExport struct {
	Week           int     `json:"week"`
	TeamID         int     `json:"team_id"`
	TeamName       string  `json:"team_name"`
	Score          float64 `json:"score"`
	Won            bool    `json:"won"`
	AllPlayWins    int     `json:"all_play_wins"`
	AllPlayLosses  int     `json:"all_play_losses"`
	ExpectedWinPct float64 `json:"expected_win_pct"`
	Luck           float64 `json:"luck"`
}

type scheduleExport struct {
	TeamID             int     `json:"team_id"`
	TeamName           string  `json:"team_name"`
	RemainingGames     int     `json:"remaining_games"`
	OpponentPPG        float64 `json:"opponent_points_per_game"`
	OpponentWinPct     float64 `json:"opponent_win_pct"`
	OpponentPowerScore float64 `json:"opponent_power_score"`
	Difficulty         float64 `json:"difficulty"`
}

// leagueExport mirrors the native import format, so an exported season can be
// re-imported as-is.
type leagueExport struct {
	League struct {
		ID                 string `json:"id"`
		Season             int    `json:"season"`
		Name               string `json:"name,omitempty"`
		RegularSeasonWeeks int    `json:"regularSeasonWeeks,omitempty"`
	} `json:"league"`
	Teams    []teamExport    `json:"teams"`
	Matchups []matchupExport `json:"matchups"`
}

type teamExport struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type matchupExport struct {
	Week       int     `json:"week"`
	HomeTeamID int     `json:"homeTeamId"`
	AwayTeamID int     `json:"awayTeamId"`
	HomeScore  float64 `json:"homeScore"`
	AwayScore  float64 `json:"awayScore"`
}

var exportCmd = &cobra.Command{
	Use:   "export <league-id>",
	Short: "Export a league season or its analytics report as JSON",
	Long: `Export JSON for a stored league season.

  --format report   every analytic at the cutoff week (default)
  --format league   the raw season in the native import format

Examples:
  leaguemetrics export 1001 --out 1001-report.json
  leaguemetrics export 1001 --season 2023 --format league --out 1001-2023.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	addAnalyticsFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "report", "report | league")
}

func runExport(cmd *cobra.Command, args []string) error {
	league, err := openLeague(args[0])
	if err != nil {
		return err
	}

	var out any
	switch exportFormat {
	case "report":
		r, err := analytics.Run(cmd.Context(), *league, analyticsConfig(cmd, league))
		if err != nil {
			return fmt.Errorf("analytics: %w", err)
		}
		out = buildReportExport(r)
	case "league":
		out = buildLeagueExport(league)
	default:
		return fmt.Errorf("unknown --format %q (want report or league)", exportFormat)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

func buildReportExport(r *analytics.Report) reportExport {
	e := reportExport{
		LeagueID:    r.League.ID,
		LeagueName:  r.League.Name,
		Season:      r.League.Season,
		Week:        r.Week,
		TotalWeeks:  r.TotalWeeks,
		Strategy:    r.Strategy,
		Dropped:     r.Dropped,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Rankings:    make([]rankingExport, 0, len(r.Rankings)),
		PlayoffOdds: make([]oddsExport, 0, len(r.PlayoffOdds)),
		Luck:        make([]luckExport, 0, len(r.LuckTotals)),
		Schedule:    make([]scheduleExport, 0, len(r.Schedule)),
	}
	for _, p := range r.Rankings {
		e.Rankings = append(e.Rankings, rankingExport{
			Rank:             p.Rank,
			TeamID:           p.TeamID,
			TeamName:         p.TeamName,
			Record:           model.FormatRecord(p.Wins, p.Losses, p.Ties),
			PowerScore:       round2(p.PowerScore),
			SimplePowerScore: round2(p.SimplePowerScore),
			PointsFor:        round2(p.PointsFor),
			PointsAgainst:    round2(p.PointsAgainst),
			AllPlayWins:      p.AllPlayWins,
			AllPlayLosses:    p.AllPlayLosses,
		})
	}
	for _, o := range r.PlayoffOdds {
		pos := make([]float64, len(o.Positions))
		for i, p := range o.Positions {
			pos[i] = round2(p.ProbabilityPercent)
		}
		e.PlayoffOdds = append(e.PlayoffOdds, oddsExport{
			TeamID:             o.TeamID,
			TeamName:           o.TeamName,
			CurrentRecord:      o.CurrentRecord,
			ProjectedWins:      round2(o.ProjectedWins),
			ProjectedLosses:    round2(o.ProjectedLosses),
			ProjectedTies:      round2(o.ProjectedTies),
			ProjectedPointsFor: round2(o.ProjectedPointsFor),
			PlayoffOddsPct:     round2(o.PlayoffOddsPercent),
			PositionPct:        pos,
		})
	}
	for _, t := range r.LuckTotals {
		e.Luck = append(e.Luck, luckExport{
			TeamID:       t.TeamID,
			TeamName:     t.TeamName,
			Weeks:        t.Weeks,
			ActualWins:   t.ActualWins,
			ExpectedWins: round2(t.ExpectedWins),
			TotalLuck:    round2(t.TotalLuck),
		})
	}
	e.WeeklyLuck = buildWeeklyLuckExport(r.WeeklyLuck)
	for _, s := range r.Schedule {
		e.Schedule = append(e.Schedule, scheduleExport{
			TeamID:             s.TeamID,
			TeamName:           s.TeamName,
			RemainingGames:     s.RemainingGames,
			OpponentPPG:        round2(s.AvgOpponentPointsPerGame),
			OpponentWinPct:     round2(s.OpponentWinPercent),
			OpponentPowerScore: round2(s.AvgOpponentPowerScore),
			Difficulty:         round2(s.OverallDifficulty),
		})
	}
	return e
}

func buildWeeklyLuckExport(weekly map[int][]model.LuckRecord) []weeklyLuckExport {
	out := []weeklyLuckExport{}
	for _, week := range slices.Sorted(maps.Keys(weekly)) {
		for _, rec := range weekly[week] {
			out = append(out, weeklyLuckExport{
				Week:           week,
				TeamID:         rec.TeamID,
				TeamName:       rec.TeamName,
				Score:          round2(rec.Score),
				Won:            rec.ActualWin,
				AllPlayWins:    rec.AllPlayWins,
				AllPlayLosses:  rec.AllPlayLosses,
				ExpectedWinPct: round2(rec.ExpectedWinPercent),
				Luck:           round2(rec.LuckIndex),
			})
		}
	}
	return out
}

func buildLeagueExport(l *model.League) leagueExport {
	var e leagueExport
	e.League.ID = l.ID
	e.League.Season = l.Season
	e.League.Name = l.Name
	e.League.RegularSeasonWeeks = l.RegularSeasonWeeks
	for _, t := range l.Teams {
		e.Teams = append(e.Teams, teamExport(t))
	}
	e.Matchups = make([]matchupExport, 0, len(l.Matchups))
	for _, m := range l.Matchups {
		e.Matchups = append(e.Matchups, matchupExport(m))
	}
	return e
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
