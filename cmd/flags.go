package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/report"
	"github.com/pable/go-league-metrics/internal/storage"
)

// Analytics flags shared by every command that runs the kernel. They
// override the config file only when set explicitly.
var (
	flagSeason     int
	flagWeek       int
	flagWeeks      int
	flagSims       int
	flagSeed       uint64
	flagSpots      int
	flagWorkers    int
	flagTimeout    time.Duration
	flagStrategy   string
	flagTeam       int
	flagBothScores bool
)

func addLeagueFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagSeason, "season", 0, "season to analyze (default: latest stored)")
	cmd.Flags().IntVar(&flagTeam, "team", 0, "team ID to highlight")
}

// focusTeam returns the --team value, or report.NoTeam when it was not given.
func focusTeam(cmd *cobra.Command) int {
	if !cmd.Flags().Changed("team") {
		return report.NoTeam
	}
	return flagTeam
}

func addAnalyticsFlags(cmd *cobra.Command) {
	addLeagueFlags(cmd)
	d := config.DefaultAnalytics()
	f := cmd.Flags()
	f.IntVar(&flagWeek, "week", d.CurrentWeek, "cutoff week (default: last scored week)")
	f.IntVar(&flagWeeks, "weeks", d.TotalWeeks, "regular-season length in weeks")
	f.IntVar(&flagSims, "sims", d.NumSimulations, "number of playoff simulations")
	f.Uint64Var(&flagSeed, "seed", d.RandomSeed, "simulation random seed")
	f.IntVar(&flagSpots, "spots", d.PlayoffSpots, "playoff spots")
	f.IntVar(&flagWorkers, "workers", d.Workers, "simulation workers (0 = GOMAXPROCS)")
	f.DurationVar(&flagTimeout, "timeout", d.SimulationTimeout, "simulation time limit (0 = none)")
	f.StringVar(&flagStrategy, "strategy", d.PowerStrategy, "power ranking strategy: dominance | simple")
	f.BoolVar(&flagBothScores, "both-scores", d.RequireBothScores, "count a game only once both sides have scored")
}

// baseAnalytics starts from the config file. The season length and cutoff
// come from the league itself unless the file sets them.
func baseAnalytics(l *model.League) config.Analytics {
	a := appConfig.Analytics
	if !appConfig.SetsTotalWeeks() && l.RegularSeasonWeeks > 0 {
		a.TotalWeeks = l.RegularSeasonWeeks
	}
	if !appConfig.SetsCurrentWeek() {
		if w := l.LastScoredWeek(); w > 0 {
			a.CurrentWeek = min(w, a.TotalWeeks)
		}
	}
	return a
}

// analyticsConfig applies explicitly set flags on top of baseAnalytics.
func analyticsConfig(cmd *cobra.Command, l *model.League) config.Analytics {
	a := baseAnalytics(l)
	f := cmd.Flags()
	if f.Changed("weeks") {
		a.TotalWeeks = flagWeeks
	}
	if f.Changed("week") {
		a.CurrentWeek = flagWeek
	}
	if f.Changed("sims") {
		a.NumSimulations = flagSims
	}
	if f.Changed("seed") {
		a.RandomSeed = flagSeed
	}
	if f.Changed("spots") {
		a.PlayoffSpots = flagSpots
	}
	if f.Changed("workers") {
		a.Workers = flagWorkers
	}
	if f.Changed("timeout") {
		a.SimulationTimeout = flagTimeout
	}
	if f.Changed("strategy") {
		a.PowerStrategy = flagStrategy
	}
	if f.Changed("both-scores") {
		a.RequireBothScores = flagBothScores
	}
	return a
}

// loadLeague reads a stored season, defaulting to the latest one.
func loadLeague(db *storage.DB, leagueID string, season int) (*model.League, error) {
	if season == 0 {
		latest, err := db.LatestSeason(leagueID)
		if err != nil {
			return nil, fmt.Errorf("find latest season of %s: %w", leagueID, err)
		}
		season = latest
	}
	l, err := db.GetLeague(leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("load league: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("league %s season %d: %w", leagueID, season, storage.ErrNotFound)
	}
	return l, nil
}

// openLeague opens the store and loads the league named by the first argument.
func openLeague(leagueID string) (*model.League, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadLeague(db, leagueID, flagSeason)
}
