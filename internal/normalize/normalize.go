// Package normalize turns raw team and matchup records into per-team,
// week-ordered completed-game outcomes as of a cutoff week.
//
// Every analytic consumes a *Season; downstream code never sees malformed
// records. Matchups referencing unknown teams, a team playing itself, a
// week before 1, or a non-finite score are dropped here.
package normalize

import (
	"math"
	"sort"

	"github.com/pable/go-league-metrics/internal/model"
)

// Gate decides when one side of a game counts as played.
type Gate int

const (
	// GatePerSide records a side whenever that side's own score is positive,
	// regardless of the opponent's score.
	GatePerSide Gate = 0
	// GateBothSides records a game only when both scores are positive.
	GateBothSides Gate = 1
)

// Options tunes normalization.
type Options struct {
	Gate Gate
}

// Season is the normalized view of one league as of a cutoff week.
type Season struct {
	// Teams is ordered by ascending ID. Matrix indices follow this order.
	Teams  []model.Team
	Cutoff int

	// Outcomes holds each team's completed games, ordered by week.
	Outcomes map[int][]model.TeamGameOutcome
	Stats    map[int]*model.TeamSeasonStats

	// Dropped counts matchups rejected as malformed.
	Dropped int

	index     map[int]int
	scheduled []model.Matchup
	byWeek    map[int][]model.TeamGameOutcome
}

// Normalize builds a Season from teams and matchups. Only weeks 1..cutoff
// contribute completed games; later weeks remain available through Remaining.
func Normalize(teams []model.Team, matchups []model.Matchup, cutoff int, opts Options) *Season {
	s := &Season{
		Cutoff:   cutoff,
		Outcomes: make(map[int][]model.TeamGameOutcome),
		Stats:    make(map[int]*model.TeamSeasonStats),
		index:    make(map[int]int),
		byWeek:   make(map[int][]model.TeamGameOutcome),
	}

	sorted := make([]model.Team, 0, len(teams))
	seen := make(map[int]bool, len(teams))
	for _, t := range teams {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		sorted = append(sorted, t)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	s.Teams = sorted
	for i, t := range sorted {
		s.index[t.ID] = i
		s.Stats[t.ID] = &model.TeamSeasonStats{TeamID: t.ID, Name: t.Name}
	}

	for _, m := range matchups {
		if !s.known(m.HomeTeamID) || !s.known(m.AwayTeamID) || m.HomeTeamID == m.AwayTeamID || m.Week < 1 {
			s.Dropped++
			continue
		}
		s.scheduled = append(s.scheduled, m)

		if m.Week > cutoff {
			continue
		}
		if !finite(m.HomeScore) || !finite(m.AwayScore) {
			s.Dropped++
			continue
		}

		homePlayed := m.HomeScore > 0
		awayPlayed := m.AwayScore > 0
		if opts.Gate == GateBothSides && !(homePlayed && awayPlayed) {
			continue
		}
		if homePlayed {
			s.record(m.Week, m.HomeTeamID, m.HomeScore, m.AwayTeamID, m.AwayScore)
		}
		if awayPlayed {
			s.record(m.Week, m.AwayTeamID, m.AwayScore, m.HomeTeamID, m.HomeScore)
		}
	}

	for id, games := range s.Outcomes {
		sort.SliceStable(games, func(i, j int) bool { return games[i].Week < games[j].Week })
		st := s.Stats[id]
		for _, g := range games {
			st.Scores = append(st.Scores, g.Score)
			st.Margins = append(st.Margins, g.Margin())
			st.OpponentIDs = append(st.OpponentIDs, g.OpponentID)
			st.Outcomes = append(st.Outcomes, g.Outcome)
			st.PointsFor += g.Score
			st.PointsAgainst += g.OpponentScore
			switch g.Outcome {
			case model.OutcomeWin:
				st.Wins++
			case model.OutcomeLoss:
				st.Losses++
			default:
				st.Ties++
			}
		}
	}
	return s
}

func (s *Season) record(week, teamID int, score float64, oppID int, oppScore float64) {
	g := model.TeamGameOutcome{
		TeamID:        teamID,
		Week:          week,
		Score:         score,
		OpponentID:    oppID,
		OpponentScore: oppScore,
		Outcome:       model.OutcomeOf(score, oppScore),
	}
	s.Outcomes[teamID] = append(s.Outcomes[teamID], g)
	s.byWeek[week] = append(s.byWeek[week], g)
}

func (s *Season) known(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Index returns the matrix index of teamID and whether the team is known.
func (s *Season) Index(teamID int) (int, bool) {
	i, ok := s.index[teamID]
	return i, ok
}

// TeamName returns the display name of a known team.
func (s *Season) TeamName(teamID int) string {
	if st, ok := s.Stats[teamID]; ok {
		return st.Name
	}
	return ""
}

// WeekScores returns the recorded sides of every completed game in week,
// ordered by team ID and then input order.
func (s *Season) WeekScores(week int) []model.TeamGameOutcome {
	games := append([]model.TeamGameOutcome(nil), s.byWeek[week]...)
	sort.SliceStable(games, func(i, j int) bool { return games[i].TeamID < games[j].TeamID })
	return games
}

// AllPlay tallies teamID's record had it played every other recorded score
// in each completed week. Comparisons includes equal scores.
func (s *Season) AllPlay(teamID int) (wins, losses, comparisons int) {
	for _, g := range s.Outcomes[teamID] {
		for _, other := range s.byWeek[g.Week] {
			if other.TeamID == teamID {
				continue
			}
			comparisons++
			switch {
			case g.Score > other.Score:
				wins++
			case g.Score < other.Score:
				losses++
			}
		}
	}
	return wins, losses, comparisons
}

// Remaining returns the scheduled matchups after the cutoff, up to and
// including totalWeeks, in input order. Scores are ignored.
func (s *Season) Remaining(totalWeeks int) []model.Matchup {
	var out []model.Matchup
	for _, m := range s.scheduled {
		if m.Week > s.Cutoff && m.Week <= totalWeeks {
			out = append(out, m)
		}
	}
	return out
}

// RemainingOpponents lists teamID's opponents after the cutoff in schedule
// order. An opponent scheduled twice appears twice.
func (s *Season) RemainingOpponents(teamID, totalWeeks int) []int {
	var out []int
	for _, m := range s.Remaining(totalWeeks) {
		switch teamID {
		case m.HomeTeamID:
			out = append(out, m.AwayTeamID)
		case m.AwayTeamID:
			out = append(out, m.HomeTeamID)
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
