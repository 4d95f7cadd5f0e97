package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-league-metrics/internal/analytics"
	"github.com/pable/go-league-metrics/internal/report"
)

const analyzeSystemPrompt = `You are a fantasy football league analyst. You are given structured analytics
for a head-to-head league and a question from a league member.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and concrete about what the numbers say for each team.

Metrics glossary:
- power_score: dominance rating. 0.80 x two-step head-to-head dominance
  + 0.15 x average score + 0.05 x average margin. Higher is stronger.
- simple_power_score: points for x (2 + win rate + all-play win rate).
- all_play: record if the team had played every other team every week.
- playoff_odds_pct: share of Monte Carlo simulations finishing in a playoff spot.
- position_pct: probability of finishing in each standings position, 1st first.
- expected_wins: sum of weekly all-play win rates. total_luck = actual wins - expected_wins.
  Positive means the schedule helped the team.
- weekly_luck: each week's score, result and all-play record. luck = actual win (1 or 0)
  minus the all-play win rate.
- difficulty: remaining schedule difficulty on a 0-100 scale, 50 means league average.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <league-id> <question>",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
	Long: `Compute the full analytics report for a league and stream an answer to the
question from the Anthropic API, grounded only in that report. With --team the
team's own rows and week-by-week results are sent as the focus.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	addAnalyticsFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default: analyze_model from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	r, err := analyzeReport(cmd, args[0])
	if err != nil {
		return err
	}

	var contextJSON string
	if team := focusTeam(cmd); team != report.NoTeam {
		contextJSON, err = buildTeamContext(r, team)
	} else {
		contextJSON, err = buildLeagueContext(r)
	}
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelName(), contextJSON, args[1])
}

func analyzeReport(cmd *cobra.Command, leagueID string) (*analytics.Report, error) {
	league, err := openLeague(leagueID)
	if err != nil {
		return nil, err
	}
	r, err := analytics.Run(cmd.Context(), *league, analyticsConfig(cmd, league))
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	return r, nil
}

func buildLeagueContext(r *analytics.Report) (string, error) {
	b, err := json.Marshal(map[string]any{
		"subject": "league",
		"report":  buildReportExport(r),
	})
	return string(b), err
}

// buildTeamContext pulls one team's rows out of every section and keeps the
// whole report alongside them for league-wide comparisons.
func buildTeamContext(r *analytics.Report, teamID int) (string, error) {
	full := buildReportExport(r)
	team := map[string]any{"team_id": teamID}
	found := false
	for _, p := range full.Rankings {
		if p.TeamID == teamID {
			team["team_name"] = p.TeamName
			team["power_ranking"] = p
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("team %d not found in league %s", teamID, r.League.ID)
	}
	for _, o := range full.PlayoffOdds {
		if o.TeamID == teamID {
			team["playoff_odds"] = o
		}
	}
	for _, l := range full.Luck {
		if l.TeamID == teamID {
			team["luck"] = l
		}
	}
	for _, s := range full.Schedule {
		if s.TeamID == teamID {
			team["remaining_schedule"] = s
		}
	}

	var weekly []weeklyLuckExport
	for _, w := range full.WeeklyLuck {
		if w.TeamID == teamID {
			weekly = append(weekly, w)
		}
	}
	team["weekly"] = weekly

	b, err := json.Marshal(map[string]any{
		"subject": "team",
		"team":    team,
		"report":  full,
	})
	return string(b), err
}

func modelName() string {
	if analyzeModel != "" {
		return analyzeModel
	}
	return appConfig.AnalyzeModel
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
