package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// NoTeam is the focusTeamID that highlights no row. Any other value, 0
// included, is a team ID.
const NoTeam = math.MinInt

// marker flags the focus team's row with ">".
func marker(teamID, focusTeamID int) string {
	if focusTeamID != NoTeam && teamID == focusTeamID {
		return ">"
	}
	return " "
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// PrintLeagueHeader prints a one-line summary header for a league season.
func PrintLeagueHeader(w io.Writer, s model.LeagueSummary, week, totalWeeks int) {
	fmt.Fprintf(w, "\nLeague: %s (%s)  |  Season: %d  |  Week: %d of %d  |  Teams: %d\n\n",
		s.Name, s.ID, s.Season, week, totalWeeks, s.Teams)
}

// PrintLeagueList prints every stored league season.
func PrintLeagueList(w io.Writer, leagues []model.LeagueSummary) {
	table := newTable(w)
	table.Header("LEAGUE", "SEASON", "NAME", "TEAMS", "MATCHUPS", "WEEKS", "LAST_SCORED")
	for _, l := range leagues {
		weeks := "—"
		if l.RegularSeasonWeeks > 0 {
			weeks = strconv.Itoa(l.RegularSeasonWeeks)
		}
		table.Append(
			l.ID,
			strconv.Itoa(l.Season),
			l.Name,
			strconv.Itoa(l.Teams),
			strconv.Itoa(l.Matchups),
			weeks,
			strconv.Itoa(l.LastScoredWeek),
		)
	}
	table.Render()
}

// PrintRankingsTable prints power rankings with both strategy scores.
func PrintRankingsTable(w io.Writer, rows []model.PowerRanking, focusTeamID int) {
	table := newTable(w)
	table.Header(" ", "RK", "TEAM", "RECORD", "POWER", "SIMPLE", "PF", "PA", "ALL_PLAY")
	for _, r := range rows {
		table.Append(
			marker(r.TeamID, focusTeamID),
			strconv.Itoa(r.Rank),
			r.TeamName,
			model.FormatRecord(r.Wins, r.Losses, r.Ties),
			fmt.Sprintf("%.2f", r.PowerScore),
			fmt.Sprintf("%.1f", r.SimplePowerScore),
			fmt.Sprintf("%.1f", r.PointsFor),
			fmt.Sprintf("%.1f", r.PointsAgainst),
			fmt.Sprintf("%d-%d", r.AllPlayWins, r.AllPlayLosses),
		)
	}
	table.Render()
}

// PrintOddsTable prints projected records and playoff probability.
func PrintOddsTable(w io.Writer, odds []model.PlayoffOdds, focusTeamID int) {
	table := newTable(w)
	table.Header(" ", "TEAM", "RECORD", "PROJ_W", "PROJ_L", "PROJ_T", "PROJ_PF", "PLAYOFF%")
	for _, o := range odds {
		table.Append(
			marker(o.TeamID, focusTeamID),
			o.TeamName,
			o.CurrentRecord,
			fmt.Sprintf("%.2f", o.ProjectedWins),
			fmt.Sprintf("%.2f", o.ProjectedLosses),
			fmt.Sprintf("%.2f", o.ProjectedTies),
			fmt.Sprintf("%.1f", o.ProjectedPointsFor),
			fmt.Sprintf("%.1f%%", o.PlayoffOddsPercent),
		)
	}
	table.Render()
}

// PrintPositionTable prints the probability of finishing in each standings
// position. Positions below 0.05% are shown as blanks.
func PrintPositionTable(w io.Writer, odds []model.PlayoffOdds, focusTeamID int) {
	if len(odds) == 0 {
		return
	}
	header := []any{" ", "TEAM"}
	for _, p := range odds[0].Positions {
		header = append(header, "#"+strconv.Itoa(p.Position))
	}
	table := newTable(w)
	table.Header(header...)
	for _, o := range odds {
		row := []any{marker(o.TeamID, focusTeamID), o.TeamName}
		for _, p := range o.Positions {
			cell := "·"
			if p.ProbabilityPercent >= 0.05 {
				cell = fmt.Sprintf("%.1f", p.ProbabilityPercent)
			}
			row = append(row, cell)
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintWeeklyLuckTable prints one row per team per week, in week order.
func PrintWeeklyLuckTable(w io.Writer, weekly map[int][]model.LuckRecord, focusTeamID int) {
	weeks := make([]int, 0, len(weekly))
	for wk := range weekly {
		weeks = append(weeks, wk)
	}
	sort.Ints(weeks)

	table := newTable(w)
	table.Header(" ", "WK", "TEAM", "SCORE", "RESULT", "ALL_PLAY", "EXP_WIN%", "LUCK")
	for _, wk := range weeks {
		for _, r := range weekly[wk] {
			result := "L"
			if r.ActualWin {
				result = "W"
			}
			table.Append(
				marker(r.TeamID, focusTeamID),
				strconv.Itoa(wk),
				r.TeamName,
				fmt.Sprintf("%.1f", r.Score),
				result,
				fmt.Sprintf("%d-%d", r.AllPlayWins, r.AllPlayLosses),
				fmt.Sprintf("%.0f%%", r.ExpectedWinPercent),
				signed(r.LuckIndex),
			)
		}
	}
	table.Render()
}

// PrintLuckTotalsTable prints season luck per team, luckiest first.
func PrintLuckTotalsTable(w io.Writer, totals []model.LuckTotal, focusTeamID int) {
	table := newTable(w)
	table.Header(" ", "TEAM", "WEEKS", "WINS", "EXP_WINS", "LUCK")
	for _, t := range totals {
		table.Append(
			marker(t.TeamID, focusTeamID),
			t.TeamName,
			strconv.Itoa(t.Weeks),
			strconv.Itoa(t.ActualWins),
			fmt.Sprintf("%.2f", t.ExpectedWins),
			signed(t.TotalLuck),
		)
	}
	table.Render()
}

// PrintScheduleTable prints remaining-schedule difficulty, hardest first.
func PrintScheduleTable(w io.Writer, rows []model.ScheduleDifficulty, focusTeamID int) {
	table := newTable(w)
	table.Header(" ", "TEAM", "LEFT", "OPP_PPG", "OPP_WIN%", "OPP_POWER", "DIFFICULTY")
	for _, r := range rows {
		table.Append(
			marker(r.TeamID, focusTeamID),
			r.TeamName,
			strconv.Itoa(r.RemainingGames),
			fmt.Sprintf("%.1f", r.AvgOpponentPointsPerGame),
			fmt.Sprintf("%.0f%%", r.OpponentWinPercent),
			fmt.Sprintf("%.2f", r.AvgOpponentPowerScore),
			fmt.Sprintf("%.1f", r.OverallDifficulty),
		)
	}
	table.Render()
}

// PrintRecordsTable prints all-time league records.
func PrintRecordsTable(w io.Writer, rec *model.SeasonRecords) {
	table := newTable(w)
	table.Header("RECORD", "TEAM", "SEASON", "WEEK", "VALUE")
	for _, r := range rec.All() {
		week := "—"
		if r.Week > 0 {
			week = strconv.Itoa(r.Week)
		}
		value := fmt.Sprintf("%.2f", r.Value)
		if r.Value == float64(int64(r.Value)) {
			value = strconv.FormatInt(int64(r.Value), 10)
		}
		table.Append(r.Kind, r.TeamName, strconv.Itoa(r.Season), week, value)
	}
	table.Render()
}

// PrintTrendTable pivots power trend points into one row per team with a
// "score (#rank)" cell per week. Teams are ordered by their final rank.
func PrintTrendTable(w io.Writer, points []model.PowerTrendPoint, focusTeamID int) {
	if len(points) == 0 {
		return
	}
	lastWeek := 0
	type cell struct {
		score float64
		rank  int
	}
	byTeam := make(map[int]map[int]cell)
	names := make(map[int]string)
	for _, p := range points {
		if byTeam[p.TeamID] == nil {
			byTeam[p.TeamID] = make(map[int]cell)
		}
		byTeam[p.TeamID][p.Week] = cell{p.PowerScore, p.Rank}
		names[p.TeamID] = p.TeamName
		lastWeek = max(lastWeek, p.Week)
	}

	ids := make([]int, 0, len(byTeam))
	for id := range byTeam {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return byTeam[ids[i]][lastWeek].rank < byTeam[ids[j]][lastWeek].rank
	})

	header := []any{" ", "TEAM"}
	for wk := 1; wk <= lastWeek; wk++ {
		header = append(header, "W"+strconv.Itoa(wk))
	}
	table := newTable(w)
	table.Header(header...)
	for _, id := range ids {
		row := []any{marker(id, focusTeamID), names[id]}
		for wk := 1; wk <= lastWeek; wk++ {
			c, ok := byTeam[id][wk]
			if !ok {
				row = append(row, "—")
				continue
			}
			row = append(row, fmt.Sprintf("%.1f (#%d)", c.score, c.rank))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintReport prints every analytic of a report with section titles.
func PrintReport(w io.Writer, r *analytics.Report, focusTeamID int) {
	PrintLeagueHeader(w, r.League, r.Week, r.TotalWeeks)
	if r.Dropped > 0 {
		fmt.Fprintf(w, "(%d malformed matchups ignored)\n\n", r.Dropped)
	}

	fmt.Fprintf(w, "Power rankings (%s)\n", r.Strategy)
	PrintRankingsTable(w, r.Rankings, focusTeamID)

	fmt.Fprintln(w, "\nPlayoff odds")
	PrintOddsTable(w, r.PlayoffOdds, focusTeamID)

	fmt.Fprintln(w, "\nLuck")
	PrintLuckTotalsTable(w, r.LuckTotals, focusTeamID)

	fmt.Fprintln(w, "\nRemaining schedule")
	if len(r.Schedule) == 0 {
		fmt.Fprintln(w, "(regular season complete)")
		return
	}
	PrintScheduleTable(w, r.Schedule, focusTeamID)
}

// PrintRawTable prints the result of an ad-hoc SQL query.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table := newTable(w)
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
