// Package playoff projects final standings with a seeded Monte Carlo
// simulation of the remaining regular-season schedule.
//
// Each trial draws from its own PCG stream keyed by (seed, trial index), and
// trials are grouped into fixed-size chunks that are merged in chunk order.
// The result is therefore identical for a given seed whatever the number of
// workers.
package playoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
)

// chunkSize is the number of consecutive trials one worker runs before its
// tallies are handed back. It is part of the output contract: changing it
// changes the float summation order of projected points.
const chunkSize = 256

// Params configures one simulation.
type Params struct {
	TotalWeeks   int
	PlayoffSpots int
	Trials       int
	Seed         uint64

	RecentWindow             int
	StdDevMultiplier         float64
	SingleGameStdDevFallback float64
	TieEpsilon               float64

	// Workers caps concurrent chunks; 0 means GOMAXPROCS.
	Workers int
	// MaxTrials rejects larger requests; 0 disables the cap.
	MaxTrials int
	// Timeout bounds the whole run; 0 disables it.
	Timeout time.Duration
}

func (p Params) validate() error {
	if p.Trials <= 0 {
		return model.Invalid("num_simulations", "must be positive, got %d", p.Trials)
	}
	if p.MaxTrials > 0 && p.Trials > p.MaxTrials {
		return model.Invalid("num_simulations", "%d exceeds the limit of %d", p.Trials, p.MaxTrials)
	}
	if p.PlayoffSpots < 1 {
		return model.Invalid("playoff_spots", "must be at least 1, got %d", p.PlayoffSpots)
	}
	if p.StdDevMultiplier < 0 || p.SingleGameStdDevFallback < 0 || p.TieEpsilon < 0 {
		return model.Invalid("score_model", "multipliers and epsilon must be non-negative")
	}
	return nil
}

// scoreModel is a team's normal score distribution.
type scoreModel struct {
	mean   float64
	spread float64
}

type fixture struct {
	home, away int // indices into season.Teams
}

// trialState is one trial's standings, reset from actual values each trial.
type trialState struct {
	wins, losses, ties []int
	pointsFor          []float64
	delta              []float64
	order              []int
}

func newTrialState(n int) *trialState {
	return &trialState{
		wins:      make([]int, n),
		losses:    make([]int, n),
		ties:      make([]int, n),
		pointsFor: make([]float64, n),
		delta:     make([]float64, n),
		order:     make([]int, n),
	}
}

// tally accumulates outcomes over a run of trials.
type tally struct {
	qualified []int
	positions [][]int
	wins      []int64
	losses    []int64
	ties      []int64
	pfDelta   []float64
}

func newTally(n int) *tally {
	t := &tally{
		qualified: make([]int, n),
		positions: make([][]int, n),
		wins:      make([]int64, n),
		losses:    make([]int64, n),
		ties:      make([]int64, n),
		pfDelta:   make([]float64, n),
	}
	for i := range t.positions {
		t.positions[i] = make([]int, n)
	}
	return t
}

func (t *tally) merge(o *tally) {
	for i := range t.qualified {
		t.qualified[i] += o.qualified[i]
		t.wins[i] += o.wins[i]
		t.losses[i] += o.losses[i]
		t.ties[i] += o.ties[i]
		t.pfDelta[i] += o.pfDelta[i]
		for p, c := range o.positions[i] {
			t.positions[i][p] += c
		}
	}
}

type simulation struct {
	season   *normalize.Season
	params   Params
	models   []scoreModel
	fixtures []fixture
}

// Simulate runs p.Trials trials of the schedule remaining after the season's
// cutoff and returns per-team projections sorted by playoff odds descending,
// then team ID ascending.
func Simulate(ctx context.Context, season *normalize.Season, p Params) ([]model.PlayoffOdds, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	sim := &simulation{
		season:   season,
		params:   p,
		models:   scoreModels(season, p),
		fixtures: fixtures(season, p.TotalWeeks),
	}

	n := len(season.Teams)
	chunks := (p.Trials + chunkSize - 1) / chunkSize
	results := make([]*tally, chunks)

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			first := c * chunkSize
			last := min(first+chunkSize, p.Trials)
			results[c] = sim.runChunk(first, last)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("simulate playoffs: %w", model.ErrDeadlineExceeded)
		}
		return nil, fmt.Errorf("simulate playoffs: %w", err)
	}

	total := newTally(n)
	for _, r := range results {
		total.merge(r)
	}

	slog.Debug("playoff: simulation complete",
		"trials", p.Trials,
		"teams", n,
		"remaining_games", len(sim.fixtures),
		"chunks", chunks,
		"workers", workers,
		"elapsed", time.Since(start))

	return sim.summarize(total), nil
}

func (s *simulation) runChunk(first, last int) *tally {
	n := len(s.season.Teams)
	acc := newTally(n)
	st := newTrialState(n)
	for trial := first; trial < last; trial++ {
		rng := rand.New(rand.NewPCG(s.params.Seed, uint64(trial)))
		s.runTrial(rng, st)

		for pos, idx := range st.order {
			if pos < s.params.PlayoffSpots {
				acc.qualified[idx]++
			}
			acc.positions[idx][pos]++
		}
		for i := 0; i < n; i++ {
			acc.wins[i] += int64(st.wins[i])
			acc.losses[i] += int64(st.losses[i])
			acc.ties[i] += int64(st.ties[i])
			acc.pfDelta[i] += st.delta[i]
		}
	}
	return acc
}

func (s *simulation) runTrial(rng *rand.Rand, st *trialState) {
	for i, t := range s.season.Teams {
		stats := s.season.Stats[t.ID]
		st.wins[i] = stats.Wins
		st.losses[i] = stats.Losses
		st.ties[i] = stats.Ties
		st.pointsFor[i] = stats.PointsFor
		st.delta[i] = 0
		st.order[i] = i
	}

	for _, f := range s.fixtures {
		hm, am := s.models[f.home], s.models[f.away]
		hs := hm.mean + hm.spread*rng.NormFloat64()
		as := am.mean + am.spread*rng.NormFloat64()

		switch {
		case math.Abs(hs-as) < s.params.TieEpsilon:
			st.ties[f.home]++
			st.ties[f.away]++
		case hs > as:
			st.wins[f.home]++
			st.losses[f.away]++
		default:
			st.wins[f.away]++
			st.losses[f.home]++
		}
		st.pointsFor[f.home] += hs
		st.pointsFor[f.away] += as
		st.delta[f.home] += hs
		st.delta[f.away] += as
	}

	sort.SliceStable(st.order, func(a, b int) bool {
		i, j := st.order[a], st.order[b]
		if st.wins[i] != st.wins[j] {
			return st.wins[i] > st.wins[j]
		}
		return st.pointsFor[i] > st.pointsFor[j]
	})
}

func (s *simulation) summarize(total *tally) []model.PlayoffOdds {
	n := len(s.season.Teams)
	trials := float64(s.params.Trials)
	out := make([]model.PlayoffOdds, 0, n)
	for i, t := range s.season.Teams {
		stats := s.season.Stats[t.ID]
		positions := make([]model.PositionOdds, n)
		for p := 0; p < n; p++ {
			positions[p] = model.PositionOdds{
				Position:           p + 1,
				ProbabilityPercent: float64(total.positions[i][p]) / trials * 100,
			}
		}
		out = append(out, model.PlayoffOdds{
			TeamID:             t.ID,
			TeamName:           t.Name,
			CurrentRecord:      stats.Record(),
			ProjectedWins:      float64(total.wins[i]) / trials,
			ProjectedLosses:    float64(total.losses[i]) / trials,
			ProjectedTies:      float64(total.ties[i]) / trials,
			ProjectedPointsFor: stats.PointsFor + total.pfDelta[i]/trials,
			PlayoffOddsPercent: float64(total.qualified[i]) / trials * 100,
			Positions:          positions,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayoffOddsPercent != out[j].PlayoffOddsPercent {
			return out[i].PlayoffOddsPercent > out[j].PlayoffOddsPercent
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// scoreModels builds each team's distribution: the mean of its most recent
// games and a multiple of the population spread of all its games. With fewer
// than two games SingleGameStdDevFallback stands in for the spread before the
// multiplier. Teams without games borrow the league-wide mean.
func scoreModels(season *normalize.Season, p Params) []scoreModel {
	var all []float64
	for _, t := range season.Teams {
		all = append(all, season.Stats[t.ID].Scores...)
	}
	leagueMean := model.Mean(all)
	fallback := p.StdDevMultiplier * p.SingleGameStdDevFallback

	models := make([]scoreModel, len(season.Teams))
	for i, t := range season.Teams {
		scores := season.Stats[t.ID].Scores
		switch {
		case len(scores) == 0:
			models[i] = scoreModel{mean: leagueMean, spread: fallback}
		case len(scores) < 2:
			models[i] = scoreModel{mean: scores[0], spread: fallback}
		default:
			recent := scores
			if p.RecentWindow > 0 && len(recent) > p.RecentWindow {
				recent = recent[len(recent)-p.RecentWindow:]
			}
			models[i] = scoreModel{
				mean:   model.Mean(recent),
				spread: p.StdDevMultiplier * model.PopStdDev(scores),
			}
		}
	}
	return models
}

func fixtures(season *normalize.Season, totalWeeks int) []fixture {
	remaining := season.Remaining(totalWeeks)
	out := make([]fixture, 0, len(remaining))
	for _, m := range remaining {
		h, _ := season.Index(m.HomeTeamID)
		a, _ := season.Index(m.AwayTeamID)
		out = append(out, fixture{home: h, away: a})
	}
	return out
}
