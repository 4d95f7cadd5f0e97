// Package power ranks teams by transitive head-to-head dominance.
//
// Two score strategies are provided behind PowerScoreStrategy: Dominance
// blends the two-step dominance row sum with average score and margin, and
// SimpleWeighted weights points-for by actual and all-play win rates. Rank
// reports both and orders by the one the caller chooses.
package power

import (
	"sort"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
)

// Weights of the dominance power score.
const (
	DominanceWeight = 0.80
	ScoreWeight     = 0.15
	MarginWeight    = 0.05
)

// Strategy names accepted by StrategyByName.
const (
	StrategyDominance = "dominance"
	StrategySimple    = "simple"
)

// PowerScoreStrategy computes one power score per team of a season.
type PowerScoreStrategy interface {
	Name() string
	Scores(s *normalize.Season) map[int]float64
}

// StrategyByName returns the strategy registered under name. The empty name is
// rejected like any other unknown one.
func StrategyByName(name string) (PowerScoreStrategy, error) {
	switch name {
	case StrategyDominance:
		return Dominance{}, nil
	case StrategySimple:
		return SimpleWeighted{}, nil
	}
	return nil, model.Invalid("power_strategy", "unknown strategy %q", name)
}

// WinMatrix returns W where W[i][j] counts completed games in which team i
// had a positive margin over team j. Indices follow s.Teams.
func WinMatrix(s *normalize.Season) [][]float64 {
	n := len(s.Teams)
	w := square(n)
	for i, t := range s.Teams {
		for _, g := range s.Outcomes[t.ID] {
			if g.Margin() <= 0 {
				continue
			}
			j, ok := s.Index(g.OpponentID)
			if !ok {
				continue
			}
			w[i][j]++
		}
	}
	return w
}

// TwoStepDominance returns D[i][j] = W[i][j] + sum over k != i,j of
// W[i][k]*W[k][j]. The diagonal is zero.
func TwoStepDominance(w [][]float64) [][]float64 {
	n := len(w)
	d := square(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := w[i][j]
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				v += w[i][k] * w[k][j]
			}
			d[i][j] = v
		}
	}
	return d
}

func square(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Dominance scores a team as 0.8 * row sum of D + 0.15 * mean score
// + 0.05 * mean margin.
type Dominance struct{}

func (Dominance) Name() string { return StrategyDominance }

func (Dominance) Scores(s *normalize.Season) map[int]float64 {
	d := TwoStepDominance(WinMatrix(s))
	out := make(map[int]float64, len(s.Teams))
	for i, t := range s.Teams {
		st := s.Stats[t.ID]
		if st.GamesPlayed() == 0 {
			out[t.ID] = 0
			continue
		}
		rowSum := 0.0
		for _, v := range d[i] {
			rowSum += v
		}
		out[t.ID] = DominanceWeight*rowSum + ScoreWeight*st.AvgScore() + MarginWeight*st.AvgMargin()
	}
	return out
}

// SimpleWeighted scores a team as PF*2 + PF*win rate + PF*all-play win rate.
type SimpleWeighted struct{}

func (SimpleWeighted) Name() string { return StrategySimple }

func (SimpleWeighted) Scores(s *normalize.Season) map[int]float64 {
	out := make(map[int]float64, len(s.Teams))
	for _, t := range s.Teams {
		st := s.Stats[t.ID]
		apw, _, comparisons := s.AllPlay(t.ID)
		allPlay := 0.0
		if comparisons > 0 {
			allPlay = float64(apw) / float64(comparisons)
		}
		pf := st.PointsFor
		out[t.ID] = pf*2 + pf*st.RecordPct() + pf*allPlay
	}
	return out
}

// Rank orders the season's teams by primary's score, descending. Teams with
// no completed games always follow teams that have played; remaining ties
// fall back to ascending team ID. Every row carries both strategies' scores.
func Rank(s *normalize.Season, primary PowerScoreStrategy) []model.PowerRanking {
	if primary == nil {
		primary = Dominance{}
	}
	dom := Dominance{}.Scores(s)
	simple := SimpleWeighted{}.Scores(s)
	key := primary.Scores(s)

	rows := make([]model.PowerRanking, 0, len(s.Teams))
	for _, t := range s.Teams {
		st := s.Stats[t.ID]
		apw, apl, _ := s.AllPlay(t.ID)
		rows = append(rows, model.PowerRanking{
			TeamID:           t.ID,
			TeamName:         t.Name,
			PowerScore:       dom[t.ID],
			SimplePowerScore: simple[t.ID],
			PointsFor:        st.PointsFor,
			PointsAgainst:    st.PointsAgainst,
			Wins:             st.Wins,
			Losses:           st.Losses,
			Ties:             st.Ties,
			AllPlayWins:      apw,
			AllPlayLosses:    apl,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		pi := s.Stats[rows[i].TeamID].GamesPlayed() > 0
		pj := s.Stats[rows[j].TeamID].GamesPlayed() > 0
		if pi != pj {
			return pi
		}
		ki, kj := key[rows[i].TeamID], key[rows[j].TeamID]
		if ki != kj {
			return ki > kj
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
