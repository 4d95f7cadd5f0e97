package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/model"
)

func TestPrintRankingsTable_FocusMarker(t *testing.T) {
	var buf bytes.Buffer
	PrintRankingsTable(&buf, []model.PowerRanking{
		{Rank: 1, TeamID: 4, TeamName: "Dragons", PowerScore: 20.8, Wins: 1},
		{Rank: 2, TeamID: 1, TeamName: "Aces", PowerScore: 16.3, Wins: 1},
	}, 1)

	out := buf.String()
	for _, want := range []string{"Dragons", "Aces", "20.80", "1-0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	var focus string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, ">") {
			focus = line
		}
	}
	if !strings.Contains(focus, "Aces") {
		t.Errorf("want focus marker on Aces row, got %q", focus)
	}
}

func TestPrintRankingsTable_FocusTeamZero(t *testing.T) {
	rows := []model.PowerRanking{
		{Rank: 1, TeamID: 0, TeamName: "Zeros", PowerScore: 18.2, Wins: 1},
		{Rank: 2, TeamID: 1, TeamName: "Aces", PowerScore: 9.1, Losses: 1},
	}

	var buf bytes.Buffer
	PrintRankingsTable(&buf, rows, 0)
	if n := strings.Count(buf.String(), ">"); n != 1 {
		t.Fatalf("want one focus marker, got %d:\n%s", n, buf.String())
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, ">") && !strings.Contains(line, "Zeros") {
			t.Errorf("want focus marker on Zeros row, got %q", line)
		}
	}

	buf.Reset()
	PrintRankingsTable(&buf, rows, NoTeam)
	if strings.Contains(buf.String(), ">") {
		t.Errorf("want no focus marker:\n%s", buf.String())
	}
}

func TestPrintTrendTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTrendTable(&buf, []model.PowerTrendPoint{
		{Week: 1, TeamID: 1, TeamName: "Aces", PowerScore: 10, Rank: 2},
		{Week: 1, TeamID: 2, TeamName: "Bees", PowerScore: 12, Rank: 1},
		{Week: 2, TeamID: 1, TeamName: "Aces", PowerScore: 20, Rank: 1},
		{Week: 2, TeamID: 2, TeamName: "Bees", PowerScore: 11, Rank: 2},
	}, NoTeam)

	out := buf.String()
	if !strings.Contains(out, "W2") || !strings.Contains(out, "20.0 (#1)") {
		t.Errorf("unexpected trend table:\n%s", out)
	}
	if strings.Index(out, "Aces") > strings.Index(out, "Bees") {
		t.Errorf("want final-week leader first:\n%s", out)
	}
}

func TestPrintRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	PrintRecordsTable(&buf, &model.SeasonRecords{
		MostWins:     &model.SeasonRecord{Kind: "Most wins", TeamName: "Aces", Season: 2023, Value: 11},
		HighestScore: &model.SeasonRecord{Kind: "Highest score", TeamName: "Bees", Season: 2024, Week: 7, Value: 181.34},
	})

	out := buf.String()
	for _, want := range []string{"Most wins", "11", "181.34", "2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReport_SeasonComplete(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, &analytics.Report{
		League:   model.LeagueSummary{ID: "1001", Name: "Sunday League", Season: 2024, Teams: 2},
		Week:     14,
		Strategy: "dominance",
		Dropped:  2,
	}, NoTeam)

	out := buf.String()
	for _, want := range []string{"Sunday League", "2 malformed", "regular season complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
