package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pable/go-scrim-metrics/internal/model"
)

func TestBuildAnalysisContext(t *testing.T) {
	out, err := buildAnalysisContext("player", 4, []model.PlayerReport{{
		PlayerName: "a1", PlayerTeam: "Alpha", Hero: "Tracer", Role: model.RoleDamage,
		FinalStats:       []model.PlayerStat{{FinalBlows: 7, Deaths: 2}},
		AvgUltChargeTime: 71.456,
		XFactor:          -3.333,
		Duels:            []model.Duel{{PlayerHero: "Tracer", EnemyName: "b1", EnemyHero: "Genji", EnemyKills: 1, EnemyDeaths: 3}},
	}})
	if err != nil {
		t.Fatalf("buildAnalysisContext: %v", err)
	}

	var doc struct {
		Subject string `json:"subject"`
		MapID   int64  `json:"map_id"`
		Players []struct {
			Name       string  `json:"name"`
			Role       string  `json:"role"`
			FinalBlows int     `json:"final_blows"`
			UltChargeS float64 `json:"ult_charge_s"`
			XFactor    float64 `json:"x_factor"`
			Duels      []struct {
				Won         int     `json:"won"`
				Lost        int     `json:"lost"`
				EnemyWinPct float64 `json:"enemy_win_pct"`
			} `json:"duels"`
		} `json:"players"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Subject != "player" || doc.MapID != 4 || len(doc.Players) != 1 {
		t.Fatalf("unexpected document: %s", out)
	}
	p := doc.Players[0]
	if p.Name != "a1" || p.Role != "Damage" || p.FinalBlows != 7 {
		t.Errorf("player fields: %+v", p)
	}
	if p.UltChargeS != 71.46 || p.XFactor != -3.33 {
		t.Errorf("rounding: charge=%v xfactor=%v", p.UltChargeS, p.XFactor)
	}
	if len(p.Duels) != 1 || p.Duels[0].Won != 3 || p.Duels[0].Lost != 1 || p.Duels[0].EnemyWinPct != 25 {
		t.Errorf("duels: %+v", p.Duels)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("map", "12"); err != nil || id != 12 {
		t.Errorf("parseID(12): %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc", ""} {
		if _, err := parseID("map", bad); err == nil {
			t.Errorf("parseID(%q): expected error", bad)
		}
	}
}

func TestAnalyzeSystemPromptGlossary(t *testing.T) {
	for _, want := range []string{
		"reversal_pct: share of fights where the player got no kill while teammates got more than one.",
		"kills_per_ult: kills made with the player's ultimate ability divided by ultimates charged.",
		"duels: per (player hero, enemy hero) matchup",
	} {
		if !strings.Contains(analyzeSystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	for _, stale := range []string{"died first", "final blows divided by ultimates"} {
		if strings.Contains(analyzeSystemPrompt, stale) {
			t.Errorf("system prompt still contains %q", stale)
		}
	}
}
