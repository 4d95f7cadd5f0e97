// Package analytics is the entry point to the league analytics kernel.
//
// Each function validates the configuration, normalizes the league as of
// cfg.CurrentWeek and runs one analytic. Run computes all of them from a
// single normalization. Nothing here touches storage or the network.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/luck"
	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/normalize"
	"github.com/pable/go-league-metrics/internal/playoff"
	"github.com/pable/go-league-metrics/internal/power"
	"github.com/pable/go-league-metrics/internal/schedule"
)

// Report bundles every analytic for one league and cutoff week.
type Report struct {
	League     model.LeagueSummary
	Week       int
	TotalWeeks int
	Strategy   string

	// Dropped counts matchups excluded as malformed.
	Dropped int

	Rankings    []model.PowerRanking
	PlayoffOdds []model.PlayoffOdds
	WeeklyLuck  map[int][]model.LuckRecord
	LuckTotals  []model.LuckTotal
	Schedule    []model.ScheduleDifficulty
}

// Run computes power rankings, playoff odds, luck and schedule difficulty.
func Run(ctx context.Context, league model.League, cfg config.Analytics) (*Report, error) {
	season, err := prepare(league, cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := power.StrategyByName(cfg.PowerStrategy)
	if err != nil {
		return nil, err
	}

	r := &Report{
		League:     league.Summary(),
		Week:       cfg.CurrentWeek,
		TotalWeeks: cfg.TotalWeeks,
		Strategy:   strategy.Name(),
		Dropped:    season.Dropped,
	}

	start := time.Now()
	r.Rankings = power.Rank(season, strategy)
	stage("power", start)

	start = time.Now()
	r.PlayoffOdds, err = playoff.Simulate(ctx, season, SimulationParams(cfg))
	if err != nil {
		return nil, fmt.Errorf("playoff odds: %w", err)
	}
	stage("playoff", start)

	start = time.Now()
	r.WeeklyLuck = luck.Weekly(season)
	r.LuckTotals = luck.Totals(r.WeeklyLuck)
	stage("luck", start)

	start = time.Now()
	r.Schedule = schedule.Evaluate(season, power.Dominance{}.Scores(season), cfg.TotalWeeks)
	stage("schedule", start)

	return r, nil
}

// PowerRankings ranks the league with the configured strategy.
func PowerRankings(league model.League, cfg config.Analytics) ([]model.PowerRanking, error) {
	season, err := prepare(league, cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := power.StrategyByName(cfg.PowerStrategy)
	if err != nil {
		return nil, err
	}
	return power.Rank(season, strategy), nil
}

// PlayoffOdds simulates the remaining schedule.
func PlayoffOdds(ctx context.Context, league model.League, cfg config.Analytics) ([]model.PlayoffOdds, error) {
	season, err := prepare(league, cfg)
	if err != nil {
		return nil, err
	}
	odds, err := playoff.Simulate(ctx, season, SimulationParams(cfg))
	if err != nil {
		return nil, fmt.Errorf("playoff odds: %w", err)
	}
	return odds, nil
}

// Luck returns weekly luck records and the season totals derived from them.
func Luck(league model.League, cfg config.Analytics) (map[int][]model.LuckRecord, []model.LuckTotal, error) {
	season, err := prepare(league, cfg)
	if err != nil {
		return nil, nil, err
	}
	weekly := luck.Weekly(season)
	return weekly, luck.Totals(weekly), nil
}

// ScheduleDifficulty rates each team's remaining schedule using dominance
// power scores.
func ScheduleDifficulty(league model.League, cfg config.Analytics) ([]model.ScheduleDifficulty, error) {
	season, err := prepare(league, cfg)
	if err != nil {
		return nil, err
	}
	return schedule.Evaluate(season, power.Dominance{}.Scores(season), cfg.TotalWeeks), nil
}

// PowerTrend recomputes the power ranking as of every week from 1 through
// cfg.CurrentWeek. Points are ordered by week, then rank.
func PowerTrend(league model.League, cfg config.Analytics) ([]model.PowerTrendPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := power.StrategyByName(cfg.PowerStrategy)
	if err != nil {
		return nil, err
	}

	var points []model.PowerTrendPoint
	for week := 1; week <= cfg.CurrentWeek; week++ {
		season := normalize.Normalize(league.Teams, league.Matchups, week, options(cfg))
		for _, r := range power.Rank(season, strategy) {
			score := r.PowerScore
			if strategy.Name() == power.StrategySimple {
				score = r.SimplePowerScore
			}
			points = append(points, model.PowerTrendPoint{
				Week:       week,
				TeamID:     r.TeamID,
				TeamName:   r.TeamName,
				PowerScore: score,
				Rank:       r.Rank,
			})
		}
	}
	return points, nil
}

// SimulationParams maps the analytics configuration onto simulator params.
func SimulationParams(cfg config.Analytics) playoff.Params {
	return playoff.Params{
		TotalWeeks:               cfg.TotalWeeks,
		PlayoffSpots:             cfg.PlayoffSpots,
		Trials:                   cfg.NumSimulations,
		Seed:                     cfg.RandomSeed,
		RecentWindow:             cfg.RecentWindow,
		StdDevMultiplier:         cfg.StdDevMultiplier,
		SingleGameStdDevFallback: cfg.SingleGameStdDevFallback,
		TieEpsilon:               cfg.TieEpsilon,
		Workers:                  cfg.Workers,
		MaxTrials:                cfg.MaxSimulations,
		Timeout:                  cfg.SimulationTimeout,
	}
}

func prepare(league model.League, cfg config.Analytics) (*normalize.Season, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	season := normalize.Normalize(league.Teams, league.Matchups, cfg.CurrentWeek, options(cfg))
	slog.Debug("analytics: normalized league",
		"league", league.ID,
		"season", league.Season,
		"week", cfg.CurrentWeek,
		"teams", len(season.Teams),
		"matchups", len(league.Matchups),
		"dropped", season.Dropped)
	return season, nil
}

func options(cfg config.Analytics) normalize.Options {
	if cfg.RequireBothScores {
		return normalize.Options{Gate: normalize.GateBothSides}
	}
	return normalize.Options{Gate: normalize.GatePerSide}
}

func stage(name string, start time.Time) {
	slog.Debug("analytics: stage complete", "stage", name, "elapsed", time.Since(start))
}
