package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/config"
	"github.com/pable/go-league-metrics/internal/model"
	"github.com/pable/go-league-metrics/internal/report"
	"github.com/pable/go-league-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession is the state carried between REPL commands.
type shellSession struct {
	ctx    context.Context
	db     *storage.DB
	league *model.League
	cfg    config.Analytics
	team   int
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{ctx: cmd.Context(), db: db, cfg: appConfig.Analytics, team: report.NoTeam}

	cGreeting.Println("leaguemetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print(s.promptName())
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			s.list()
		case "use":
			s.use(args)
		case "import":
			s.importFiles(args)
		case "week", "weeks", "sims", "spots", "seed":
			s.set(name, args)
		case "team":
			s.focus(args)
		case "strategy":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: strategy dominance|simple")
				continue
			}
			s.cfg.PowerStrategy = args[0]
		case "settings":
			s.settings()
		case "records":
			s.records()
		case "sql":
			s.sql(strings.TrimSpace(strings.TrimPrefix(line, name)))
		case "rankings", "odds", "positions", "luck", "weekly", "sos", "trend", "report":
			if s.league == nil {
				cWarn.Fprintln(os.Stderr, "no league selected, run 'use <league-id>' first")
				continue
			}
			s.analytic(name)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored league seasons"},
		{"use <league-id> [season]", "select a league (default: latest season)"},
		{"import <file.json> [...]", "import league files and select the last one"},
		{"week <n> / weeks <n>", "set the cutoff week / regular-season length"},
		{"sims <n> / spots <n> / seed <n>", "tune the playoff simulation"},
		{"strategy dominance|simple", "choose the power ranking strategy"},
		{"team <id> / team none", "highlight a team / clear the highlight"},
		{"settings", "show the current analytics settings"},
		{"rankings", "power rankings"},
		{"odds / positions", "playoff odds / finishing-position distribution"},
		{"luck / weekly", "season luck totals / week-by-week luck"},
		{"sos", "remaining strength of schedule"},
		{"trend", "week-by-week power trend"},
		{"report", "every analytic at once"},
		{"records", "all-time records of the selected league"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) promptName() string {
	if s.league == nil {
		return "leaguemetrics"
	}
	return fmt.Sprintf("%s/%d", s.league.ID, s.league.Season)
}

func (s *shellSession) list() {
	leagues, err := s.db.ListLeagues()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(leagues) == 0 {
		cMuted.Println("No leagues stored yet.")
		return
	}
	report.PrintLeagueList(os.Stdout, leagues)
}

func (s *shellSession) use(args []string) {
	if len(args) == 0 {
		cError.Fprintln(os.Stderr, "usage: use <league-id> [season]")
		return
	}
	season := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid season %q\n", args[1])
			return
		}
		season = n
	}
	l, err := loadLeague(s.db, args[0], season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	s.selectLeague(l)
}

func (s *shellSession) selectLeague(l *model.League) {
	s.league = l
	s.cfg = baseAnalytics(l)
	cHeader.Printf("%s (%s) season %d", l.Name, l.ID, l.Season)
	cMuted.Printf("  week %d of %d, %d teams\n", s.cfg.CurrentWeek, s.cfg.TotalWeeks, len(l.Teams))
}

func (s *shellSession) importFiles(paths []string) {
	if len(paths) == 0 {
		cError.Fprintln(os.Stderr, "usage: import <file.json> [...]")
		return
	}
	for _, p := range paths {
		l, err := importFile(s.db, p)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		s.selectLeague(&l)
	}
}

func (s *shellSession) set(name string, args []string) {
	if len(args) != 1 {
		cError.Fprintf(os.Stderr, "usage: %s <n>\n", name)
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		cError.Fprintf(os.Stderr, "invalid number %q\n", args[0])
		return
	}
	switch name {
	case "week":
		s.cfg.CurrentWeek = int(n)
	case "weeks":
		s.cfg.TotalWeeks = int(n)
	case "sims":
		s.cfg.NumSimulations = int(n)
	case "spots":
		s.cfg.PlayoffSpots = int(n)
	case "seed":
		s.cfg.RandomSeed = n
	}
}

func (s *shellSession) focus(args []string) {
	if len(args) != 1 {
		cError.Fprintln(os.Stderr, "usage: team <id> | team none")
		return
	}
	if args[0] == "none" {
		s.team = report.NoTeam
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "invalid team id %q\n", args[0])
		return
	}
	s.team = id
}

func (s *shellSession) settings() {
	rows := []struct {
		name  string
		value any
	}{
		{"week", s.cfg.CurrentWeek},
		{"weeks", s.cfg.TotalWeeks},
		{"sims", s.cfg.NumSimulations},
		{"spots", s.cfg.PlayoffSpots},
		{"seed", s.cfg.RandomSeed},
		{"strategy", s.cfg.PowerStrategy},
		{"team", s.focusLabel()},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-10s", r.name)
		fmt.Println(r.value)
	}
}

func (s *shellSession) focusLabel() string {
	if s.team == report.NoTeam {
		return "none"
	}
	return strconv.Itoa(s.team)
}

func (s *shellSession) records() {
	if s.league == nil {
		cWarn.Fprintln(os.Stderr, "no league selected, run 'use <league-id>' first")
		return
	}
	rec, err := s.db.SeasonRecords(s.league.ID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintRecordsTable(os.Stdout, rec)
}

func (s *shellSession) sql(query string) {
	if query == "" {
		cError.Fprintln(os.Stderr, "usage: sql <query>")
		return
	}
	cols, rows, err := s.db.QueryRaw(query)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("(no rows)")
		return
	}
	report.PrintRawTable(os.Stdout, cols, rows)
}

func (s *shellSession) analytic(name string) {
	l, cfg, w := *s.league, s.cfg, os.Stdout
	var err error
	switch name {
	case "rankings":
		var rows []model.PowerRanking
		if rows, err = analytics.PowerRankings(l, cfg); err == nil {
			report.PrintRankingsTable(w, rows, s.team)
		}
	case "odds", "positions":
		var odds []model.PlayoffOdds
		if odds, err = analytics.PlayoffOdds(s.ctx, l, cfg); err == nil {
			if name == "odds" {
				report.PrintOddsTable(w, odds, s.team)
			} else {
				report.PrintPositionTable(w, odds, s.team)
			}
		}
	case "luck", "weekly":
		var weekly map[int][]model.LuckRecord
		var totals []model.LuckTotal
		if weekly, totals, err = analytics.Luck(l, cfg); err == nil {
			if name == "luck" {
				report.PrintLuckTotalsTable(w, totals, s.team)
			} else {
				report.PrintWeeklyLuckTable(w, weekly, s.team)
			}
		}
	case "sos":
		var rows []model.ScheduleDifficulty
		if rows, err = analytics.ScheduleDifficulty(l, cfg); err == nil {
			if len(rows) == 0 {
				cMuted.Println("(regular season complete)")
				break
			}
			report.PrintScheduleTable(w, rows, s.team)
		}
	case "trend":
		var points []model.PowerTrendPoint
		if points, err = analytics.PowerTrend(l, cfg); err == nil {
			report.PrintTrendTable(w, points, s.team)
		}
	case "report":
		var r *analytics.Report
		if r, err = analytics.Run(s.ctx, l, cfg); err == nil {
			report.PrintReport(w, r, s.team)
		}
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
