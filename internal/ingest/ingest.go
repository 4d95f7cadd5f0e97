// Package ingest reads league files into model.League values.
//
// Two JSON layouts are accepted. The native layout written by the export
// command:
//
//	{"league": {"id", "season", "name", "regularSeasonWeeks"},
//	 "teams": [{"id", "name"}],
//	 "matchups": [{"week", "homeTeamId", "awayTeamId", "homeScore", "awayScore"}]}
//
// and the hosting platform's league payload:
//
//	{"id", "seasonId", "settings": {"name", "scheduleSettings": {"matchupPeriodCount"}},
//	 "teams": [{"id", "name" | "location" + "nickname"}],
//	 "schedule": [{"matchupPeriodId", "home": {"teamId", "totalPoints"}, "away": {...}}]}
//
// Fields are read leniently: a missing or non-numeric score becomes 0, which
// the normalizer treats as unplayed. Teams and matchups without a numeric team
// ID are skipped, since any integer, 0 included, is a valid ID. Only
// unreadable JSON or a missing team list is an error.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pable/go-league-metrics/internal/model"
)

// ErrNoTeams is returned when a payload has no team list.
var ErrNoTeams = errors.New("league has no team list")

// ParseFile reads and parses the league file at path.
func ParseFile(path string) (model.League, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.League{}, fmt.Errorf("read league file: %w", err)
	}
	league, err := Parse(data)
	if err != nil {
		return model.League{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return league, nil
}

// Parse decodes a league payload in either supported layout.
func Parse(data []byte) (model.League, error) {
	if !gjson.ValidBytes(data) {
		return model.League{}, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)

	teams := root.Get("teams")
	if !teams.IsArray() {
		return model.League{}, ErrNoTeams
	}

	var league model.League
	if root.Get("schedule").IsArray() {
		league = platformHeader(root)
		league.Matchups = platformSchedule(root.Get("schedule"))
	} else {
		league = nativeHeader(root)
		league.Matchups = nativeMatchups(root.Get("matchups"))
	}
	league.Teams = parseTeams(teams)
	return league, nil
}

func nativeHeader(root gjson.Result) model.League {
	l := root.Get("league")
	return model.League{
		ID:                 l.Get("id").String(),
		Season:             intOf(l.Get("season")),
		Name:               l.Get("name").String(),
		RegularSeasonWeeks: intOf(l.Get("regularSeasonWeeks")),
	}
}

func nativeMatchups(arr gjson.Result) []model.Matchup {
	var out []model.Matchup
	arr.ForEach(func(_, m gjson.Result) bool {
		home, okHome := idOf(m.Get("homeTeamId"))
		away, okAway := idOf(m.Get("awayTeamId"))
		if !okHome || !okAway {
			slog.Debug("ingest: matchup without team id skipped", "matchup", m.Raw)
			return true
		}
		out = append(out, model.Matchup{
			Week:       intOf(m.Get("week")),
			HomeTeamID: home,
			AwayTeamID: away,
			HomeScore:  floatOf(m.Get("homeScore")),
			AwayScore:  floatOf(m.Get("awayScore")),
		})
		return true
	})
	return out
}

func platformHeader(root gjson.Result) model.League {
	return model.League{
		ID:                 root.Get("id").String(),
		Season:             intOf(root.Get("seasonId")),
		Name:               root.Get("settings.name").String(),
		RegularSeasonWeeks: intOf(root.Get("settings.scheduleSettings.matchupPeriodCount")),
	}
}

// platformSchedule skips bye entries, which have no away side.
func platformSchedule(arr gjson.Result) []model.Matchup {
	var out []model.Matchup
	arr.ForEach(func(_, m gjson.Result) bool {
		away := m.Get("away")
		if !away.Exists() {
			return true
		}
		home := m.Get("home")
		homeID, okHome := idOf(home.Get("teamId"))
		awayID, okAway := idOf(away.Get("teamId"))
		if !okHome || !okAway {
			slog.Debug("ingest: matchup without team id skipped", "matchup", m.Raw)
			return true
		}
		out = append(out, model.Matchup{
			Week:       intOf(m.Get("matchupPeriodId")),
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			HomeScore:  floatOf(home.Get("totalPoints")),
			AwayScore:  floatOf(away.Get("totalPoints")),
		})
		return true
	})
	return out
}

func parseTeams(arr gjson.Result) []model.Team {
	var out []model.Team
	arr.ForEach(func(_, t gjson.Result) bool {
		id, ok := idOf(t.Get("id"))
		if !ok {
			slog.Debug("ingest: team without id skipped", "team", t.Raw)
			return true
		}
		name := t.Get("name").String()
		if name == "" {
			name = strings.TrimSpace(t.Get("location").String() + " " + t.Get("nickname").String())
		}
		if name == "" {
			name = fmt.Sprintf("Team %d", id)
		}
		out = append(out, model.Team{ID: id, Name: name})
		return true
	})
	return out
}

// idOf reads a team ID. Absent and non-numeric values are reported as missing.
func idOf(r gjson.Result) (int, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	return int(r.Int()), true
}

func intOf(r gjson.Result) int {
	if r.Type != gjson.Number {
		return 0
	}
	return int(r.Int())
}

func floatOf(r gjson.Result) float64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Float()
}
