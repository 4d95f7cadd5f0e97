package playoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
)

var teams = []model.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}

func mu(week, home, away int, hs, as float64) model.Matchup {
	return model.Matchup{Week: week, HomeTeamID: home, AwayTeamID: away, HomeScore: hs, AwayScore: as}
}

// midSeason has two completed weeks and two weeks left to play.
func midSeason() *normalize.Season {
	return normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 110, 95),
		mu(1, 3, 4, 88, 102),
		mu(2, 1, 3, 120, 90),
		mu(2, 2, 4, 101, 99),
		mu(3, 1, 4, 0, 0),
		mu(3, 2, 3, 0, 0),
		mu(4, 1, 2, 0, 0),
		mu(4, 3, 4, 0, 0),
	}, 2, normalize.Options{})
}

func params(trials int) Params {
	return Params{
		TotalWeeks:               4,
		PlayoffSpots:             2,
		Trials:                   trials,
		Seed:                     42,
		RecentWindow:             6,
		StdDevMultiplier:         2,
		SingleGameStdDevFallback: 15,
		TieEpsilon:               0.1,
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	p := params(1000)
	first, err := Simulate(context.Background(), midSeason(), p)
	require.NoError(t, err)
	second, err := Simulate(context.Background(), midSeason(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulate_IndependentOfWorkerCount(t *testing.T) {
	// 1000 trials span several chunks, including a short final one.
	p := params(1000)
	p.Workers = 1
	serial, err := Simulate(context.Background(), midSeason(), p)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8} {
		p.Workers = workers
		parallel, err := Simulate(context.Background(), midSeason(), p)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "workers=%d", workers)
	}
}

func TestSimulate_SeedChangesOutcome(t *testing.T) {
	p := params(500)
	a, err := Simulate(context.Background(), midSeason(), p)
	require.NoError(t, err)
	p.Seed = 7
	b, err := Simulate(context.Background(), midSeason(), p)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSimulate_NoRemainingGamesIsExact(t *testing.T) {
	s := normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 110.3, 95.1),
		mu(1, 3, 4, 88.7, 102.2),
		mu(2, 1, 3, 120.9, 90.4),
		mu(2, 2, 4, 101.6, 101.6),
	}, 2, normalize.Options{})
	p := params(777)
	p.TotalWeeks = 2

	odds, err := Simulate(context.Background(), s, p)
	require.NoError(t, err)
	require.Len(t, odds, 4)
	for _, o := range odds {
		st := s.Stats[o.TeamID]
		assert.Equal(t, float64(st.Wins), o.ProjectedWins, o.TeamName)
		assert.Equal(t, float64(st.Losses), o.ProjectedLosses, o.TeamName)
		assert.Equal(t, float64(st.Ties), o.ProjectedTies, o.TeamName)
		assert.Equal(t, st.PointsFor, o.ProjectedPointsFor, o.TeamName)
	}
	// Standings are fixed, so every trial produces the same order.
	assert.Equal(t, 1, odds[0].TeamID)
	assert.Equal(t, 100.0, odds[0].PlayoffOddsPercent)
	assert.Equal(t, 100.0, odds[0].Positions[0].ProbabilityPercent)
}

func TestSimulate_ProbabilitiesSum(t *testing.T) {
	p := params(2000)
	odds, err := Simulate(context.Background(), midSeason(), p)
	require.NoError(t, err)

	playoffTotal := 0.0
	positionTotals := make([]float64, len(teams))
	for _, o := range odds {
		require.Len(t, o.Positions, len(teams))
		rowTotal := 0.0
		for i, pos := range o.Positions {
			assert.Equal(t, i+1, pos.Position)
			rowTotal += pos.ProbabilityPercent
			positionTotals[i] += pos.ProbabilityPercent
		}
		assert.InDelta(t, 100, rowTotal, 1e-9)
		// Two played plus two remaining games per team.
		assert.InDelta(t, 4, o.ProjectedWins+o.ProjectedLosses+o.ProjectedTies, 1e-9)
		playoffTotal += o.PlayoffOddsPercent
	}
	for _, total := range positionTotals {
		assert.InDelta(t, 100, total, 1e-9)
	}
	assert.InDelta(t, 200, playoffTotal, 1e-9)
}

func TestSimulate_SortedByOdds(t *testing.T) {
	odds, err := Simulate(context.Background(), midSeason(), params(1000))
	require.NoError(t, err)
	for i := 1; i < len(odds); i++ {
		prev, cur := odds[i-1], odds[i]
		if prev.PlayoffOddsPercent == cur.PlayoffOddsPercent {
			assert.Less(t, prev.TeamID, cur.TeamID)
			continue
		}
		assert.Greater(t, prev.PlayoffOddsPercent, cur.PlayoffOddsPercent)
	}
	// A is 2-0 with the best scores.
	assert.Equal(t, 1, odds[0].TeamID)
	assert.Equal(t, "2-0", odds[0].CurrentRecord)
}

func TestSimulate_TeamWithoutGamesUsesLeagueMean(t *testing.T) {
	s := normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 100, 80),
		mu(2, 3, 4, 0, 0),
	}, 1, normalize.Options{})
	p := params(10)
	models := scoreModels(s, p)

	assert.Equal(t, scoreModel{mean: 100, spread: 30}, models[0])
	assert.Equal(t, scoreModel{mean: 90, spread: 30}, models[2])
	assert.Equal(t, scoreModel{mean: 90, spread: 30}, models[3])
}

func TestScoreModels_SingleGameFallbackScaled(t *testing.T) {
	s := normalize.Normalize(teams[:2], []model.Matchup{mu(1, 1, 2, 110, 95)}, 1, normalize.Options{})
	p := params(10)

	models := scoreModels(s, p)
	assert.Equal(t, scoreModel{mean: 110, spread: 30}, models[0], "15 x multiplier 2")
	assert.Equal(t, scoreModel{mean: 95, spread: 30}, models[1])

	p.StdDevMultiplier = 1
	assert.Equal(t, 15.0, scoreModels(s, p)[0].spread)
}

func TestScoreModels_RecentWindow(t *testing.T) {
	var games []model.Matchup
	for w := 1; w <= 8; w++ {
		games = append(games, mu(w, 1, 2, float64(10*w), 50))
	}
	s := normalize.Normalize(teams[:2], games, 8, normalize.Options{})
	p := params(10)
	p.RecentWindow = 3

	m := scoreModels(s, p)[0]
	assert.InDelta(t, 70, m.mean, 1e-9)
	all := []float64{10, 20, 30, 40, 50, 60, 70, 80}
	assert.InDelta(t, 2*model.PopStdDev(all), m.spread, 1e-9)
}

func TestSimulate_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(p *Params)
		field string
	}{
		{"zero trials", func(p *Params) { p.Trials = 0 }, "num_simulations"},
		{"negative trials", func(p *Params) { p.Trials = -1 }, "num_simulations"},
		{"over cap", func(p *Params) { p.MaxTrials = 100; p.Trials = 101 }, "num_simulations"},
		{"no spots", func(p *Params) { p.PlayoffSpots = 0 }, "playoff_spots"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := params(10)
			tc.edit(&p)
			_, err := Simulate(context.Background(), midSeason(), p)
			require.Error(t, err)
			var ie *model.InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.field, ie.Field)
		})
	}
}

func TestSimulate_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := Simulate(ctx, midSeason(), params(10000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDeadlineExceeded))
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, midSeason(), params(10000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
