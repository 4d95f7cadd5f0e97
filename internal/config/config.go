package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/power"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultCurrentWeek              = 1
	DefaultNumSimulations           = 10000
	DefaultPlayoffSpots             = 6
	DefaultTotalWeeks               = 14
	DefaultRecentWindow             = 6
	DefaultStdDevMultiplier         = 2.0
	DefaultSingleGameStdDevFallback = 15.0
	DefaultTieEpsilon               = 0.1
	DefaultRandomSeed               = 42
	DefaultMaxSimulations           = 100000
	DefaultSimulationTimeout        = 30 * time.Second
	DefaultPowerStrategy            = power.StrategyDominance
	DefaultAnalyzeModel             = "claude-haiku-4-5-20251001"
)

// Config is the top-level configuration file.
type Config struct {
	// Database is the SQLite path. Empty means the CLI default.
	Database string `yaml:"database"`

	// AnalyzeModel is the Anthropic model used by the analyze command.
	AnalyzeModel string `yaml:"analyze_model"`

	Analytics Analytics `yaml:"analytics"`

	// Keys the file set explicitly. Callers that can derive the season
	// layout elsewhere only defer to the file when it names them.
	currentWeekSet bool
	totalWeeksSet  bool
}

// SetsCurrentWeek reports whether the loaded file set analytics.current_week.
func (c *Config) SetsCurrentWeek() bool { return c.currentWeekSet }

// SetsTotalWeeks reports whether the loaded file set analytics.total_weeks.
func (c *Config) SetsTotalWeeks() bool { return c.totalWeeksSet }

// Analytics holds every tunable of the analytics kernel.
type Analytics struct {
	// CurrentWeek is the cutoff: games in weeks 1..CurrentWeek count as played.
	CurrentWeek int `yaml:"current_week"`

	NumSimulations int    `yaml:"num_simulations"`
	PlayoffSpots   int    `yaml:"playoff_spots"`
	TotalWeeks     int    `yaml:"total_weeks"`
	RandomSeed     uint64 `yaml:"random_seed"`

	// RecentWindow is how many of the latest scores feed a team's simulated mean.
	RecentWindow int `yaml:"recent_window"`

	StdDevMultiplier         float64 `yaml:"std_dev_multiplier"`
	SingleGameStdDevFallback float64 `yaml:"single_game_std_dev_fallback"`
	TieEpsilon               float64 `yaml:"tie_epsilon"`

	// MaxSimulations caps NumSimulations; larger requests are rejected.
	MaxSimulations int `yaml:"max_simulations"`

	// SimulationTimeout bounds one playoff projection. 0 disables the deadline.
	SimulationTimeout time.Duration `yaml:"simulation_timeout"`

	// Workers is the simulation parallelism. 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// RequireBothScores drops a game unless both sides scored. By default each
	// side is gated on its own score only.
	RequireBothScores bool `yaml:"require_both_scores"`

	// PowerStrategy orders power rankings: dominance | simple.
	PowerStrategy string `yaml:"power_strategy"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	var keys struct {
		Analytics struct {
			CurrentWeek *int `yaml:"current_week"`
			TotalWeeks  *int `yaml:"total_weeks"`
		} `yaml:"analytics"`
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	cfg.currentWeekSet = keys.Analytics.CurrentWeek != nil
	cfg.totalWeeksSet = keys.Analytics.TotalWeeks != nil

	if err := cfg.Analytics.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values.
func Default() *Config {
	return &Config{
		AnalyzeModel: DefaultAnalyzeModel,
		Analytics:    DefaultAnalytics(),
	}
}

// DefaultAnalytics returns the kernel defaults.
func DefaultAnalytics() Analytics {
	return Analytics{
		CurrentWeek:              DefaultCurrentWeek,
		NumSimulations:           DefaultNumSimulations,
		PlayoffSpots:             DefaultPlayoffSpots,
		TotalWeeks:               DefaultTotalWeeks,
		RandomSeed:               DefaultRandomSeed,
		RecentWindow:             DefaultRecentWindow,
		StdDevMultiplier:         DefaultStdDevMultiplier,
		SingleGameStdDevFallback: DefaultSingleGameStdDevFallback,
		TieEpsilon:               DefaultTieEpsilon,
		MaxSimulations:           DefaultMaxSimulations,
		SimulationTimeout:        DefaultSimulationTimeout,
		PowerStrategy:            DefaultPowerStrategy,
	}
}

// Validate rejects contract violations. The returned error is a
// *model.InputError.
func (a Analytics) Validate() error {
	switch {
	case a.TotalWeeks < 1:
		return model.Invalid("total_weeks", "must be positive, got %d", a.TotalWeeks)
	case a.CurrentWeek < 1:
		return model.Invalid("current_week", "must be at least 1, got %d", a.CurrentWeek)
	case a.CurrentWeek > a.TotalWeeks:
		return model.Invalid("current_week", "week %d is beyond the %d-week season", a.CurrentWeek, a.TotalWeeks)
	case a.NumSimulations <= 0:
		return model.Invalid("num_simulations", "must be positive, got %d", a.NumSimulations)
	case a.MaxSimulations > 0 && a.NumSimulations > a.MaxSimulations:
		return model.Invalid("num_simulations", "%d exceeds the limit of %d", a.NumSimulations, a.MaxSimulations)
	case a.PlayoffSpots < 1:
		return model.Invalid("playoff_spots", "must be at least 1, got %d", a.PlayoffSpots)
	case a.RecentWindow < 1:
		return model.Invalid("recent_window", "must be at least 1, got %d", a.RecentWindow)
	case a.StdDevMultiplier < 0:
		return model.Invalid("std_dev_multiplier", "must not be negative")
	case a.SingleGameStdDevFallback < 0:
		return model.Invalid("single_game_std_dev_fallback", "must not be negative")
	case a.TieEpsilon < 0:
		return model.Invalid("tie_epsilon", "must not be negative")
	case a.SimulationTimeout < 0:
		return model.Invalid("simulation_timeout", "must not be negative")
	case a.Workers < 0:
		return model.Invalid("workers", "must not be negative")
	}
	if _, err := power.StrategyByName(a.PowerStrategy); err != nil {
		return err
	}
	return nil
}
