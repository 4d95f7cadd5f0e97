package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
)

var teams = []model.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}

func mu(week, home, away int, hs, as float64) model.Matchup {
	return model.Matchup{Week: week, HomeTeamID: home, AwayTeamID: away, HomeScore: hs, AwayScore: as}
}

func TestEvaluate_SingleTeamFinishedIsOmitted(t *testing.T) {
	solo := []model.Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	s := normalize.Normalize(solo, []model.Matchup{mu(1, 1, 2, 120, 0)}, 1, normalize.Options{})

	out := Evaluate(s, map[int]float64{1: 18}, 14)
	assert.Empty(t, out)
}

func TestEvaluate_UniformMetricIsNeutral(t *testing.T) {
	// Every opponent has identical stats, so all three metrics collapse to 50.
	s := normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 100, 100),
		mu(1, 3, 4, 100, 100),
		mu(2, 1, 3, 0, 0),
		mu(2, 2, 4, 0, 0),
	}, 1, normalize.Options{})
	power := map[int]float64{1: 15, 2: 15, 3: 15, 4: 15}

	out := Evaluate(s, power, 2)
	require.Len(t, out, 4)
	for i, row := range out {
		assert.Equal(t, 50.0, row.OverallDifficulty)
		assert.Equal(t, i+1, row.TeamID)
		assert.Equal(t, 1, row.RemainingGames)
	}
}

func TestEvaluate_RanksHarderScheduleFirst(t *testing.T) {
	s := normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 130, 80), // A strong, B weak
		mu(1, 3, 4, 110, 90), // C good, D poor
		mu(2, 2, 1, 0, 0),    // B faces A
		mu(2, 4, 3, 0, 0),    // D faces C
	}, 1, normalize.Options{})
	power := map[int]float64{1: 20, 2: 5, 3: 15, 4: 10}

	out := Evaluate(s, power, 14)
	require.Len(t, out, 4)
	assert.Equal(t, "B", out[0].TeamName)
	assert.InDelta(t, 100, out[0].OverallDifficulty, 1e-9)
	assert.Equal(t, 130.0, out[0].AvgOpponentPointsPerGame)
	assert.Equal(t, 100.0, out[0].OpponentWinPercent)
	assert.Equal(t, 20.0, out[0].AvgOpponentPowerScore)

	assert.Equal(t, "A", out[3].TeamName)
	assert.InDelta(t, 0, out[3].OverallDifficulty, 1e-9)
}

func TestEvaluate_RepeatedOpponentsWeighted(t *testing.T) {
	s := normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 100, 80),
		mu(1, 3, 4, 60, 120),
		mu(2, 1, 2, 0, 0),
		mu(3, 1, 2, 0, 0),
		mu(4, 1, 4, 0, 0),
	}, 1, normalize.Options{})

	out := Evaluate(s, map[int]float64{}, 14)
	var a model.ScheduleDifficulty
	for _, row := range out {
		if row.TeamID == 1 {
			a = row
		}
	}
	require.Equal(t, 3, a.RemainingGames)
	assert.InDelta(t, (80+80+120)/3.0, a.AvgOpponentPointsPerGame, 1e-9)
	assert.InDelta(t, 100.0/3.0, a.OpponentWinPercent, 1e-9)
}

func TestEvaluate_BeyondSeasonIgnored(t *testing.T) {
	s := normalize.Normalize(teams, []model.Matchup{
		mu(1, 1, 2, 100, 80),
		mu(15, 1, 2, 0, 0),
	}, 1, normalize.Options{})
	assert.Empty(t, Evaluate(s, nil, 14))
}

func TestScale(t *testing.T) {
	rows := []averages{{ppg: 10}, {ppg: 20}, {ppg: 15}}
	assert.Equal(t, []float64{0, 100, 50}, scale(rows, func(a averages) float64 { return a.ppg }))
	assert.Empty(t, scale(nil, func(a averages) float64 { return a.ppg }))
}
