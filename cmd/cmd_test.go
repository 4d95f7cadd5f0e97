package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/ingest"
	"github.com/pable/go-league-metrics/internal/model"
)

func testLeague() *model.League {
	return &model.League{
		ID:                 "1001",
		Season:             2024,
		Name:               "Sunday League",
		RegularSeasonWeeks: 3,
		Teams: []model.Team{
			{ID: 1, Name: "Aces"},
			{ID: 2, Name: "Bees"},
			{ID: 3, Name: "Cats"},
			{ID: 4, Name: "Dogs"},
		},
		Matchups: []model.Matchup{
			{Week: 1, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 120, AwayScore: 100},
			{Week: 1, HomeTeamID: 3, AwayTeamID: 4, HomeScore: 90, AwayScore: 130},
			{Week: 2, HomeTeamID: 1, AwayTeamID: 3},
			{Week: 2, HomeTeamID: 2, AwayTeamID: 4},
			{Week: 3, HomeTeamID: 1, AwayTeamID: 4},
			{Week: 3, HomeTeamID: 2, AwayTeamID: 3},
		},
	}
}

func flagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addAnalyticsFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestAnalyticsConfig_FromLeague(t *testing.T) {
	cfg := analyticsConfig(flagCommand(t), testLeague())

	assert.Equal(t, 3, cfg.TotalWeeks)
	assert.Equal(t, 1, cfg.CurrentWeek)
	assert.Equal(t, config.DefaultNumSimulations, cfg.NumSimulations)
	assert.Equal(t, config.DefaultPowerStrategy, cfg.PowerStrategy)
}

func TestAnalyticsConfig_FlagsOverride(t *testing.T) {
	c := flagCommand(t, "--week", "2", "--sims", "500", "--seed", "7", "--strategy", "simple", "--both-scores")
	cfg := analyticsConfig(c, testLeague())

	assert.Equal(t, 2, cfg.CurrentWeek)
	assert.Equal(t, 500, cfg.NumSimulations)
	assert.Equal(t, uint64(7), cfg.RandomSeed)
	assert.Equal(t, "simple", cfg.PowerStrategy)
	assert.True(t, cfg.RequireBothScores)
	assert.Equal(t, 3, cfg.TotalWeeks, "unset flags keep the league value")
}

func TestAnalyticsConfig_CutoffCappedAtSeasonLength(t *testing.T) {
	l := testLeague()
	l.RegularSeasonWeeks = 0
	// A scored playoff week beyond the default season length.
	l.Matchups = append(l.Matchups, model.Matchup{Week: 16, HomeTeamID: 1, AwayTeamID: 4, HomeScore: 99, AwayScore: 98})

	cfg := analyticsConfig(flagCommand(t), l)
	assert.Equal(t, config.DefaultTotalWeeks, cfg.TotalWeeks)
	assert.Equal(t, config.DefaultTotalWeeks, cfg.CurrentWeek)
}

// useConfig loads content as the CLI config file for the rest of the test.
func useConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	prev := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = prev })
}

func TestAnalyticsConfig_ConfigWithoutSeasonKeys(t *testing.T) {
	useConfig(t, "analytics:\n  num_simulations: 500\n  total_weeks: 10\n")
	l := testLeague()
	l.Matchups[2].HomeScore, l.Matchups[2].AwayScore = 101, 99
	l.Matchups[3].HomeScore, l.Matchups[3].AwayScore = 88, 92

	cfg := analyticsConfig(flagCommand(t), l)
	assert.Equal(t, 500, cfg.NumSimulations)
	assert.Equal(t, 10, cfg.TotalWeeks, "the file's total_weeks wins over the league")
	assert.Equal(t, 2, cfg.CurrentWeek, "cutoff follows the last scored week")
}

func TestAnalyticsConfig_ConfigSetsCutoff(t *testing.T) {
	useConfig(t, "analytics:\n  current_week: 1\n")
	l := testLeague()
	l.Matchups[2].HomeScore, l.Matchups[2].AwayScore = 101, 99

	cfg := analyticsConfig(flagCommand(t), l)
	assert.Equal(t, 1, cfg.CurrentWeek)
	assert.Equal(t, 3, cfg.TotalWeeks, "season length still comes from the league")
}

func TestBuildLeagueExport_Reimports(t *testing.T) {
	l := testLeague()
	data, err := json.Marshal(buildLeagueExport(l))
	require.NoError(t, err)

	got, err := ingest.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, *l, got)
}

func TestBuildReportExport(t *testing.T) {
	r := runTestReport(t)
	e := buildReportExport(r)

	assert.Equal(t, "1001", e.LeagueID)
	assert.Equal(t, 1, e.Week)
	require.Len(t, e.Rankings, 4)
	assert.Equal(t, 4, e.Rankings[0].TeamID, "Dogs won by the biggest margin")
	assert.Equal(t, "1-0", e.Rankings[0].Record)
	require.Len(t, e.PlayoffOdds, 4)
	for _, o := range e.PlayoffOdds {
		assert.Len(t, o.PositionPct, 4)
	}
	assert.Len(t, e.Schedule, 4)

	// Only week 1 is scored: Aces 120, Bees 100, Cats 90, Dogs 130.
	require.Len(t, e.WeeklyLuck, 4)
	for i, w := range e.WeeklyLuck {
		assert.Equal(t, 1, w.Week)
		assert.Equal(t, i+1, w.TeamID, "team order within a week")
	}
	aces := e.WeeklyLuck[0]
	assert.Equal(t, "Aces", aces.TeamName)
	assert.Equal(t, 120.0, aces.Score)
	assert.True(t, aces.Won)
	assert.Equal(t, 2, aces.AllPlayWins)
	assert.Equal(t, 1, aces.AllPlayLosses)
	assert.InDelta(t, 66.67, aces.ExpectedWinPct, 1e-9)
	assert.InDelta(t, 0.33, aces.Luck, 1e-9)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, int64(4), gjson.GetBytes(data, "weekly_luck.#").Int())
	assert.False(t, gjson.GetBytes(data, "weekly_luck.2.won").Bool(), "Cats lost to Dogs")
}

func TestBuildTeamContext(t *testing.T) {
	r := runTestReport(t)

	out, err := buildTeamContext(r, 1)
	require.NoError(t, err)
	doc := gjson.Parse(out)
	assert.Equal(t, "team", doc.Get("subject").String())
	assert.Equal(t, "Aces", doc.Get("team.team_name").String())
	assert.Equal(t, int64(1), doc.Get("team.weekly.#").Int())
	assert.Equal(t, 120.0, doc.Get("team.weekly.0.score").Float())
	assert.True(t, doc.Get("team.weekly.0.won").Bool())
	assert.Equal(t, int64(4), doc.Get("report.power_rankings.#").Int())

	_, err = buildTeamContext(r, 99)
	assert.Error(t, err)
}

func runTestReport(t *testing.T) *analytics.Report {
	t.Helper()
	cfg := config.DefaultAnalytics()
	cfg.TotalWeeks = 3
	cfg.CurrentWeek = 1
	cfg.NumSimulations = 200
	cfg.PlayoffSpots = 2

	r, err := analytics.Run(context.Background(), *testLeague(), cfg)
	require.NoError(t, err)
	return r
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/var/db/leagues.db", expandHome("/var/db/leagues.db"))
	assert.Equal(t, filepath.Join(mustUserHome(), ".leaguemetrics", "x.db"), expandHome("~/.leaguemetrics/x.db"))
}
