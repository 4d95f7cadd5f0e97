// Package luck measures how much of a team's record comes from schedule
// luck: the gap between its actual head-to-head result each week and the
// result it would expect had it played every other team that week.
package luck

import (
	"sort"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
)

// Weekly returns luck records for every week from 1 through the season's
// cutoff. Every week is present in the map, possibly with no records.
// Records within a week are ordered by team ID.
func Weekly(s *normalize.Season) map[int][]model.LuckRecord {
	out := make(map[int][]model.LuckRecord, s.Cutoff)
	for week := 1; week <= s.Cutoff; week++ {
		games := s.WeekScores(week)
		records := make([]model.LuckRecord, 0, len(games))
		for i, g := range games {
			wins, losses := 0, 0
			for j, other := range games {
				if i == j {
					continue
				}
				switch {
				case other.Score < g.Score:
					wins++
				case other.Score > g.Score:
					losses++
				}
			}

			expected := 0.5
			if wins+losses > 0 {
				expected = float64(wins) / float64(wins+losses)
			}
			actual := 0.0
			won := g.Outcome == model.OutcomeWin
			if won {
				actual = 1
			}

			records = append(records, model.LuckRecord{
				TeamID:             g.TeamID,
				TeamName:           s.TeamName(g.TeamID),
				Score:              g.Score,
				ActualWin:          won,
				AllPlayWins:        wins,
				AllPlayLosses:      losses,
				ExpectedWinPercent: expected * 100,
				LuckIndex:          actual - expected,
			})
		}
		out[week] = records
	}
	return out
}

// Totals sums weekly luck per team and orders teams from luckiest to
// unluckiest, ties by team ID.
func Totals(weekly map[int][]model.LuckRecord) []model.LuckTotal {
	byTeam := make(map[int]*model.LuckTotal)
	for _, records := range weekly {
		for _, r := range records {
			t, ok := byTeam[r.TeamID]
			if !ok {
				t = &model.LuckTotal{TeamID: r.TeamID, TeamName: r.TeamName}
				byTeam[r.TeamID] = t
			}
			t.Weeks++
			if r.ActualWin {
				t.ActualWins++
			}
		}
	}

	// Float sums are taken in week order so map iteration cannot change them.
	weeks := make([]int, 0, len(weekly))
	for w := range weekly {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	for _, w := range weeks {
		for _, r := range weekly[w] {
			t := byTeam[r.TeamID]
			t.ExpectedWins += r.ExpectedWinPercent / 100
			t.TotalLuck += r.LuckIndex
		}
	}

	out := make([]model.LuckTotal, 0, len(byTeam))
	for _, t := range byTeam {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalLuck != out[j].TotalLuck {
			return out[i].TotalLuck > out[j].TotalLuck
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}
