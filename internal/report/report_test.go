package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-scrim-metrics/internal/model"
)

func TestPrintMapReport(t *testing.T) {
	var buf bytes.Buffer
	reports := []model.PlayerReport{
		{PlayerName: "Alpha1", PlayerTeam: "Alpha", Hero: "Tracer", Role: model.RoleDamage, XFactor: 40,
			FinalStats: []model.PlayerStat{{FinalBlows: 7, Deaths: 3}}},
		{PlayerName: "Bravo1", PlayerTeam: "Bravo", Hero: "Ana", Role: model.RoleSupport},
	}
	PrintMapReport(&buf, reports, "Alpha1")

	out := buf.String()
	for _, want := range []string{"Alpha1", "Tracer", "Damage", "40.0", "Bravo1", ">"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintPlayerReport(t *testing.T) {
	var buf bytes.Buffer
	PrintPlayerReport(&buf, model.PlayerReport{
		PlayerName: "Alpha1", PlayerTeam: "Alpha", Hero: "Tracer", Role: model.RoleDamage,
		FinalStats: []model.PlayerStat{{PlayerHero: "Tracer", HeroTimePlayed: 540, FinalBlows: 5}},
		Duels: []model.Duel{
			{PlayerHero: "Tracer", EnemyName: "Bravo1", EnemyHero: "Genji", EnemyKills: 1, EnemyDeaths: 3},
		},
	})

	out := buf.String()
	for _, want := range []string{"Alpha1 (Alpha)", "540.0s", "Genji", "25%", "Mean enemy win rate: 25.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintDuelTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintDuelTable(&buf, nil)
	if !strings.Contains(buf.String(), "(no duels)") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestPrintScrims(t *testing.T) {
	var buf bytes.Buffer
	opp := "Night Owls"
	PrintScrims(&buf, []model.Scrim{{ID: 3, Name: "Finals prep", Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), TeamID: 1, OpponentName: &opp}})

	out := buf.String()
	for _, want := range []string{"2025-05-01", "Finals prep", "Night Owls"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMaps(t *testing.T) {
	var buf bytes.Buffer
	PrintMaps(&buf, []model.Map{{ID: 4, Name: "Ilios"}}, map[int64]map[string]int{4: {"kill": 12, "player_stat": 30}})

	out := buf.String()
	for _, want := range []string{"Ilios", "12", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintOverview(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, model.Overview{
		Scrims: 2, Maps: 5, Players: 10, Kills: 240,
		Earliest: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		Latest:   time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}, []model.MapPlays{{Name: "Ilios", Plays: 3}})

	out := buf.String()
	for _, want := range []string{"Scrims stored : 2", "2025-03-04", "2025-03-09", "Kills logged  : 240", "Ilios"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTrendTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTrendTable(&buf, []TrendRow{{
		Appearance: model.Appearance{ScrimName: "Tuesday block", Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), MapID: 8, MapName: "Oasis"},
		Report:     model.PlayerReport{PlayerName: "a1", Hero: "Tracer", XFactor: 33.3, FinalStats: []model.PlayerStat{{FinalBlows: 9}}},
	}})

	out := buf.String()
	for _, want := range []string{"2025-03-04", "Tuesday block", "Oasis", "Tracer", "9", "33.3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
