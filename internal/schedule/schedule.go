// Package schedule scores how hard each team's remaining schedule is.
package schedule

import (
	"sort"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
)

// neutral is the normalized value of a metric every team shares.
const neutral = 50.0

type averages struct {
	teamID   int
	games    int
	ppg      float64
	winPct   float64
	powerAvg float64
}

// Evaluate averages the points per game, win percentage and power score of
// each team's opponents after the cutoff (through totalWeeks), scales each
// average to 0-100 across teams, and reports the mean of the three as the
// overall difficulty. Teams with nothing left to play are omitted. The
// result is ordered hardest first, ties by team ID.
func Evaluate(s *normalize.Season, powerScores map[int]float64, totalWeeks int) []model.ScheduleDifficulty {
	var rows []averages
	for _, t := range s.Teams {
		opponents := s.RemainingOpponents(t.ID, totalWeeks)
		if len(opponents) == 0 {
			continue
		}
		a := averages{teamID: t.ID, games: len(opponents)}
		for _, opp := range opponents {
			st := s.Stats[opp]
			a.ppg += st.AvgScore()
			a.winPct += st.WinPct() * 100
			a.powerAvg += powerScores[opp]
		}
		n := float64(len(opponents))
		a.ppg /= n
		a.winPct /= n
		a.powerAvg /= n
		rows = append(rows, a)
	}

	ppg := scale(rows, func(a averages) float64 { return a.ppg })
	win := scale(rows, func(a averages) float64 { return a.winPct })
	pow := scale(rows, func(a averages) float64 { return a.powerAvg })

	out := make([]model.ScheduleDifficulty, 0, len(rows))
	for i, a := range rows {
		out = append(out, model.ScheduleDifficulty{
			TeamID:                   a.teamID,
			TeamName:                 s.TeamName(a.teamID),
			RemainingGames:           a.games,
			AvgOpponentPointsPerGame: a.ppg,
			OpponentWinPercent:       a.winPct,
			AvgOpponentPowerScore:    a.powerAvg,
			OverallDifficulty:        (ppg[i] + win[i] + pow[i]) / 3,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OverallDifficulty != out[j].OverallDifficulty {
			return out[i].OverallDifficulty > out[j].OverallDifficulty
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// scale min-max normalizes one metric to 0-100. When every value is equal
// each team gets the neutral midpoint.
func scale(rows []averages, metric func(averages) float64) []float64 {
	out := make([]float64, len(rows))
	if len(rows) == 0 {
		return out
	}
	lo, hi := metric(rows[0]), metric(rows[0])
	for _, a := range rows[1:] {
		v := metric(a)
		lo = min(lo, v)
		hi = max(hi, v)
	}
	for i, a := range rows {
		if hi == lo {
			out[i] = neutral
			continue
		}
		out[i] = (metric(a) - lo) / (hi - lo) * 100
	}
	return out
}
