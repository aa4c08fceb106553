package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/model"
	"github.com/pable/go-scrim-metrics/internal/stats"
)

const analyzeSystemPrompt = `You are a performance analyst for a 5v5 hero shooter. You are given
structured scrim data computed from match logs and a question from a coach or player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the player can actually improve.
- Avoid generic advice unless it directly explains a pattern in the data.

Metrics glossary:
- fleta_deadlift_pct: player's final blows as a share of the rest of the team's. 100 means equal.
- deaths_per_10: deaths per 10 minutes of hero time.
- first_pick_pct / first_death_pct: share of fights opened by the player's kill / death.
- reversal_pct: share of fights where the player got no kill while teammates got more than one.
- ult_charge_s: mean seconds from an ultimate ending (or map start) to the next charge.
- ult_hold_s: mean seconds an ultimate was held before use, within a round.
- kills_per_ult: kills made with the player's ultimate ability divided by ultimates charged.
- drought_s: mean seconds between the player's consecutive final blows.
- ajaxes: Lúcio ultimates ending at the moment the player died.
- duels: per (player hero, enemy hero) matchup, enemy_win_pct is the share of exchanges the enemy won.
- x_factor: role-weighted composite score. Higher is better.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeMapCmd = &cobra.Command{
	Use:   "map <map-id> <question>",
	Short: "Analyze every player on a map with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMap,
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <map-id> <player-name> <question>",
	Short: "Analyze one player's map report with AI",
	Args:  cobra.ExactArgs(3),
	RunE:  runAnalyzePlayer,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzeMapCmd)
	analyzeCmd.AddCommand(analyzePlayerCmd)
}

func runAnalyzeMap(cmd *cobra.Command, args []string) error {
	mapID, err := parseID("map", args[0])
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	reports, err := stats.NewService(db, log, cfg.StatWorkers).CalculateStatsForMap(cmd.Context(), mapID)
	if err != nil {
		return fmt.Errorf("calculate stats: %w", err)
	}
	if len(reports) == 0 {
		return fmt.Errorf("no player stats stored for map %d", mapID)
	}

	contextJSON, err := buildAnalysisContext("map", mapID, reports)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[1])
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	mapID, err := parseID("map", args[0])
	if err != nil {
		return err
	}
	name := args[1]
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := stats.NewService(db, log, cfg.StatWorkers)
	final, err := svc.PlayerFinalStats(cmd.Context(), mapID, name)
	if err != nil {
		return fmt.Errorf("final stats: %w", err)
	}
	if len(final) == 0 {
		return fmt.Errorf("player %q not found on map %d", name, mapID)
	}
	r, err := svc.CalculateStats(cmd.Context(), mapID, name)
	if err != nil {
		return fmt.Errorf("calculate stats: %w", err)
	}

	contextJSON, err := buildAnalysisContext("player", mapID, []model.PlayerReport{r})
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, args[2])
}

// buildAnalysisContext serialises player reports into compact JSON.
func buildAnalysisContext(subject string, mapID int64, reports []model.PlayerReport) (string, error) {
	type duelEntry struct {
		Hero        string  `json:"hero"`
		Enemy       string  `json:"enemy"`
		EnemyHero   string  `json:"enemy_hero"`
		Won         int     `json:"won"`
		Lost        int     `json:"lost"`
		EnemyWinPct float64 `json:"enemy_win_pct"`
	}
	type playerEntry struct {
		Name          string      `json:"name"`
		Team          string      `json:"team"`
		Hero          string      `json:"hero"`
		Role          string      `json:"role"`
		FinalBlows    int         `json:"final_blows"`
		Deaths        int         `json:"deaths"`
		HeroDamage    float64     `json:"hero_damage"`
		Healing       float64     `json:"healing"`
		FletaPct      float64     `json:"fleta_deadlift_pct"`
		DeathsPer10   float64     `json:"deaths_per_10"`
		Fights        int         `json:"fights"`
		FirstPickPct  float64     `json:"first_pick_pct"`
		FirstDeathPct float64     `json:"first_death_pct"`
		ReversalPct   float64     `json:"reversal_pct"`
		UltChargeS    float64     `json:"ult_charge_s"`
		UltHoldS      float64     `json:"ult_hold_s"`
		KillsPerUlt   float64     `json:"kills_per_ult"`
		DroughtS      float64     `json:"drought_s"`
		Ajaxes        int         `json:"ajaxes"`
		XFactor       float64     `json:"x_factor"`
		Duels         []duelEntry `json:"duels,omitempty"`
	}

	players := make([]playerEntry, 0, len(reports))
	for _, r := range reports {
		t := r.Totals()
		p := playerEntry{
			Name:          r.PlayerName,
			Team:          r.PlayerTeam,
			Hero:          r.Hero,
			Role:          r.Role.String(),
			FinalBlows:    t.FinalBlows,
			Deaths:        t.Deaths,
			HeroDamage:    round2(t.HeroDamageDealt),
			Healing:       round2(t.HealingDealt),
			FletaPct:      round2(r.FletaDeadliftPct),
			DeathsPer10:   round2(r.DeathsPer10Min),
			Fights:        r.Fights,
			FirstPickPct:  round2(r.FirstPickPct),
			FirstDeathPct: round2(r.FirstDeathPct),
			ReversalPct:   round2(r.ReversalPct),
			UltChargeS:    round2(r.AvgUltChargeTime),
			UltHoldS:      round2(r.AvgUltHoldTime),
			KillsPerUlt:   round2(r.KillsPerUltimate),
			DroughtS:      round2(r.DroughtTime),
			Ajaxes:        r.Ajaxes,
			XFactor:       round2(r.XFactor),
		}
		for _, d := range r.Duels {
			p.Duels = append(p.Duels, duelEntry{
				Hero: d.PlayerHero, Enemy: d.EnemyName, EnemyHero: d.EnemyHero,
				Won: d.EnemyDeaths, Lost: d.EnemyKills, EnemyWinPct: round2(d.EnemyWinRate()),
			})
		}
		players = append(players, p)
	}

	doc := map[string]interface{}{
		"subject": subject,
		"map_id":  mapID,
		"players": players,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
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
