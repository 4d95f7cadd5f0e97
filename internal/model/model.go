package model

import (
	"fmt"
	"math"
)

// Outcome is the head-to-head result of one game from one team's side.
type Outcome int

const (
	OutcomeWin  Outcome = 0
	OutcomeLoss Outcome = 1
	OutcomeTie  Outcome = 2
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "W"
	case OutcomeLoss:
		return "L"
	case OutcomeTie:
		return "T"
	default:
		return "?"
	}
}

// OutcomeOf classifies a game by comparing the two scores.
func OutcomeOf(score, opponentScore float64) Outcome {
	switch {
	case score > opponentScore:
		return OutcomeWin
	case score < opponentScore:
		return OutcomeLoss
	default:
		return OutcomeTie
	}
}

// ---- Input records ----

// Team is a league member. Immutable for the duration of an analytics request.
type Team struct {
	ID   int
	Name string
}

// Matchup is one scheduled head-to-head game. A score of zero means the side
// has not been played yet.
type Matchup struct {
	Week       int
	HomeTeamID int
	AwayTeamID int
	HomeScore  float64
	AwayScore  float64
}

// League is a single season of a league as handed over by ingestion or storage.
type League struct {
	ID                 string
	Season             int
	Name               string
	RegularSeasonWeeks int // 0 when unknown
	Teams              []Team
	Matchups           []Matchup
}

// TeamName returns the display name for id, or "Team <id>" when unknown.
func (l *League) TeamName(id int) string {
	for _, t := range l.Teams {
		if t.ID == id {
			return t.Name
		}
	}
	return fmt.Sprintf("Team %d", id)
}

// LastScoredWeek returns the highest week in which any side has a positive score.
func (l *League) LastScoredWeek() int {
	last := 0
	for _, m := range l.Matchups {
		if (m.HomeScore > 0 || m.AwayScore > 0) && m.Week > last {
			last = m.Week
		}
	}
	return last
}

// Summary returns the list view of the league.
func (l *League) Summary() LeagueSummary {
	return LeagueSummary{
		ID:                 l.ID,
		Season:             l.Season,
		Name:               l.Name,
		RegularSeasonWeeks: l.RegularSeasonWeeks,
		Teams:              len(l.Teams),
		Matchups:           len(l.Matchups),
		LastScoredWeek:     l.LastScoredWeek(),
	}
}

// LeagueSummary is a lightweight record for list commands.
type LeagueSummary struct {
	ID                 string
	Season             int
	Name               string
	RegularSeasonWeeks int
	Teams              int
	Matchups           int
	LastScoredWeek     int
}

// ---- Derived records ----

// TeamGameOutcome is one completed game seen from one participant.
type TeamGameOutcome struct {
	TeamID        int
	Week          int
	Score         float64
	OpponentID    int
	OpponentScore float64
	Outcome       Outcome
}

// Margin is own score minus opponent score.
func (g TeamGameOutcome) Margin() float64 {
	return g.Score - g.OpponentScore
}

// TeamSeasonStats holds a team's completed games up to the cutoff week.
type TeamSeasonStats struct {
	TeamID      int
	Name        string
	Scores      []float64
	Margins     []float64
	OpponentIDs []int
	Outcomes    []Outcome

	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
}

func (s *TeamSeasonStats) GamesPlayed() int {
	return len(s.Scores)
}

func (s *TeamSeasonStats) AvgScore() float64 {
	return Mean(s.Scores)
}

func (s *TeamSeasonStats) AvgMargin() float64 {
	return Mean(s.Margins)
}

// WinPct is wins / (wins + losses); ties are ignored. 0 when undefined.
func (s *TeamSeasonStats) WinPct() float64 {
	if s.Wins+s.Losses == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Wins+s.Losses)
}

// RecordPct is wins / games played. 0 when no games were played.
func (s *TeamSeasonStats) RecordPct() float64 {
	if s.GamesPlayed() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed())
}

// Record formats the standing as "W-L", or "W-L-T" when ties exist.
func (s *TeamSeasonStats) Record() string {
	return FormatRecord(s.Wins, s.Losses, s.Ties)
}

// FormatRecord formats a win/loss/tie tally as "W-L", or "W-L-T" when ties exist.
func FormatRecord(wins, losses, ties int) string {
	if ties > 0 {
		return fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}

// ---- Analytics results ----

type PowerRanking struct {
	Rank             int
	TeamID           int
	TeamName         string
	PowerScore       float64 // dominance strategy
	SimplePowerScore float64 // simple weighted strategy
	PointsFor        float64
	PointsAgainst    float64
	Wins             int
	Losses           int
	Ties             int
	AllPlayWins      int
	AllPlayLosses    int
}

type PositionOdds struct {
	Position           int
	ProbabilityPercent float64
}

type PlayoffOdds struct {
	TeamID             int
	TeamName           string
	CurrentRecord      string
	ProjectedWins      float64
	ProjectedLosses    float64
	ProjectedTies      float64
	ProjectedPointsFor float64
	PlayoffOddsPercent float64
	Positions          []PositionOdds
}

type LuckRecord struct {
	TeamID             int
	TeamName           string
	Score              float64
	ActualWin          bool
	AllPlayWins        int
	AllPlayLosses      int
	ExpectedWinPercent float64
	LuckIndex          float64
}

// LuckTotal accumulates a team's weekly luck over the season.
type LuckTotal struct {
	TeamID       int
	TeamName     string
	Weeks        int
	ActualWins   int
	ExpectedWins float64
	TotalLuck    float64
}

type ScheduleDifficulty struct {
	TeamID                   int
	TeamName                 string
	RemainingGames           int
	AvgOpponentPointsPerGame float64
	OpponentWinPercent       float64
	AvgOpponentPowerScore    float64
	OverallDifficulty        float64
}

// PowerTrendPoint is a team's power score as of one cutoff week.
type PowerTrendPoint struct {
	Week       int
	TeamID     int
	TeamName   string
	PowerScore float64
	Rank       int
}

// SeasonRecord is one all-time league record. Fields not relevant to the
// record kind are zero.
type SeasonRecord struct {
	Kind       string
	TeamID     int
	TeamName   string
	OpponentID int
	Season     int
	Week       int
	Value      float64
}

// SeasonRecords groups the all-time records for one league.
type SeasonRecords struct {
	LeagueID          string
	MostWins          *SeasonRecord
	HighestScore      *SeasonRecord
	MostPointsFor     *SeasonRecord
	MostPointsAgainst *SeasonRecord
	BiggestBlowout    *SeasonRecord
	LowestScore       *SeasonRecord
}

// All returns the non-nil records in display order.
func (r *SeasonRecords) All() []SeasonRecord {
	var out []SeasonRecord
	for _, rec := range []*SeasonRecord{
		r.MostWins, r.HighestScore, r.MostPointsFor,
		r.MostPointsAgainst, r.BiggestBlowout, r.LowestScore,
	} {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

// ---- Helpers ----

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopStdDev returns the population standard deviation of xs, or 0 when
// fewer than two values are given.
func PopStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
