package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/model"
)

func testLeague() model.League {
	return model.League{
		ID:                 "1001",
		Season:             2024,
		Name:               "Test League",
		RegularSeasonWeeks: 3,
		Teams: []model.Team{
			{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"},
		},
		Matchups: []model.Matchup{
			{Week: 1, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 100, AwayScore: 90},
			{Week: 1, HomeTeamID: 3, AwayTeamID: 4, HomeScore: 80, AwayScore: 120},
			{Week: 2, HomeTeamID: 1, AwayTeamID: 3},
			{Week: 2, HomeTeamID: 2, AwayTeamID: 4},
			{Week: 3, HomeTeamID: 1, AwayTeamID: 4},
			{Week: 3, HomeTeamID: 2, AwayTeamID: 3},
		},
	}
}

func testConfig() config.Analytics {
	cfg := config.DefaultAnalytics()
	cfg.CurrentWeek = 1
	cfg.TotalWeeks = 3
	cfg.PlayoffSpots = 2
	cfg.NumSimulations = 500
	return cfg
}

func TestRun_EndToEnd(t *testing.T) {
	r, err := Run(context.Background(), testLeague(), testConfig())
	require.NoError(t, err)

	assert.Equal(t, "1001", r.League.ID)
	assert.Equal(t, 4, r.League.Teams)
	assert.Equal(t, 1, r.Week)
	assert.Equal(t, "dominance", r.Strategy)
	assert.Zero(t, r.Dropped)

	require.Len(t, r.Rankings, 4)
	top := map[int]bool{r.Rankings[0].TeamID: true, r.Rankings[1].TeamID: true}
	assert.True(t, top[1] && top[4], "A and D should lead, got %+v", r.Rankings)

	require.Len(t, r.PlayoffOdds, 4)
	require.Len(t, r.WeeklyLuck, 1)
	assert.Len(t, r.WeeklyLuck[1], 4)
	assert.Len(t, r.LuckTotals, 4)
	assert.Len(t, r.Schedule, 4)
}

func TestRun_TeamIDZero(t *testing.T) {
	league := model.League{
		ID:                 "2002",
		Season:             2024,
		RegularSeasonWeeks: 3,
		Teams: []model.Team{
			{ID: 0, Name: "Zero"}, {ID: 1, Name: "One"}, {ID: 2, Name: "Two"}, {ID: 3, Name: "Three"},
		},
		Matchups: []model.Matchup{
			{Week: 1, HomeTeamID: 0, AwayTeamID: 1, HomeScore: 120, AwayScore: 90},
			{Week: 1, HomeTeamID: 2, AwayTeamID: 3, HomeScore: 100, AwayScore: 80},
			{Week: 2, HomeTeamID: 0, AwayTeamID: 2},
			{Week: 2, HomeTeamID: 1, AwayTeamID: 3},
		},
	}

	r, err := Run(context.Background(), league, testConfig())
	require.NoError(t, err)
	assert.Zero(t, r.Dropped)
	require.Len(t, r.Rankings, 4)
	require.Len(t, r.PlayoffOdds, 4)
	assert.Len(t, r.WeeklyLuck[1], 4)
	assert.Len(t, r.Schedule, 4)

	byID := map[int]model.PowerRanking{}
	for _, p := range r.Rankings {
		byID[p.TeamID] = p
	}
	require.Contains(t, byID, 0)
	assert.Equal(t, "Zero", byID[0].TeamName)
	assert.Equal(t, 1, byID[0].Wins)
	assert.Equal(t, 1, byID[1].Losses)
	assert.Zero(t, byID[1].Wins)
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(context.Background(), testLeague(), testConfig())
	require.NoError(t, err)
	b, err := Run(context.Background(), testLeague(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.CurrentWeek = 9

	_, err := Run(context.Background(), testLeague(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	cfg = testConfig()
	cfg.NumSimulations = 0
	_, err = PlayoffOdds(context.Background(), testLeague(), cfg)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestPowerRankings_SimpleStrategy(t *testing.T) {
	cfg := testConfig()
	cfg.PowerStrategy = "simple"

	rows, err := PowerRankings(testLeague(), cfg)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, 4, rows[0].TeamID)
	assert.Equal(t, 3, rows[3].TeamID)
}

func TestScheduleDifficulty_FinishedTeamOmitted(t *testing.T) {
	league := model.League{
		ID:       "solo",
		Teams:    []model.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		Matchups: []model.Matchup{{Week: 1, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 120}},
	}
	rows, err := ScheduleDifficulty(league, testConfig())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLuck(t *testing.T) {
	weekly, totals, err := Luck(testLeague(), testConfig())
	require.NoError(t, err)
	assert.Len(t, weekly[1], 4)
	require.NotEmpty(t, totals)
	assert.Equal(t, 1, totals[0].TeamID)
}

func TestPowerTrend(t *testing.T) {
	league := testLeague()
	league.Matchups[2].HomeScore, league.Matchups[2].AwayScore = 95, 110
	league.Matchups[3].HomeScore, league.Matchups[3].AwayScore = 130, 70
	cfg := testConfig()
	cfg.CurrentWeek = 2

	points, err := PowerTrend(league, cfg)
	require.NoError(t, err)
	require.Len(t, points, 8)
	for i, p := range points {
		assert.Equal(t, i/4+1, p.Week)
		assert.Equal(t, i%4+1, p.Rank)
	}
}

func TestRequireBothScores(t *testing.T) {
	league := testLeague()
	league.Matchups[1].HomeScore = 0
	cfg := testConfig()

	rows, err := PowerRankings(league, cfg)
	require.NoError(t, err)
	byID := map[int]model.PowerRanking{}
	for _, r := range rows {
		byID[r.TeamID] = r
	}
	assert.Equal(t, 1, byID[4].Wins)

	cfg.RequireBothScores = true
	rows, err = PowerRankings(league, cfg)
	require.NoError(t, err)
	for _, r := range rows {
		byID[r.TeamID] = r
	}
	assert.Equal(t, 0, byID[4].Wins)
}
