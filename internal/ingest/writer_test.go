package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-scrim-metrics/internal/model"
	"github.com/pable/go-scrim-metrics/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "ingest.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testBatch(mapName string) *model.Batch {
	return &model.Batch{
		MatchStart: []model.MatchStart{{MapName: mapName, MapType: "Control", Team1Name: "Alpha", Team2Name: "Bravo"}},
		Kill: []model.Kill{
			{MatchTime: 30, AttackerTeam: "Alpha", AttackerName: "a1", AttackerHero: "Tracer", VictimTeam: "Bravo", VictimName: "b1", VictimHero: "Ana"},
			{MatchTime: 35, AttackerTeam: "Bravo", AttackerName: "b2", AttackerHero: "Genji", VictimTeam: "Alpha", VictimName: "a1", VictimHero: "Tracer"},
		},
		UltimateCharged: []model.Ultimate{{MatchTime: 20, PlayerTeam: "Alpha", PlayerName: "a1", PlayerHero: "Tracer", UltimateID: 1}},
		PlayerStat: []model.PlayerStat{
			{MatchTime: 60, RoundNumber: 1, PlayerTeam: "Alpha", PlayerName: "a1", PlayerHero: "Tracer", FinalBlows: 1},
			{MatchTime: 60, RoundNumber: 1, PlayerTeam: "Bravo", PlayerName: "b1", PlayerHero: "Ana"},
			{MatchTime: 60, RoundNumber: 1, PlayerTeam: "Bravo", PlayerName: "b2", PlayerHero: "Genji", FinalBlows: 1},
		},
	}
}

func baseRequest(maps ...MapInput) Request {
	return Request{
		Name:      "Thursday scrim",
		Date:      time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		TeamID:    1,
		CreatorID: "coach",
		Maps:      maps,
	}
}

func TestIngest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	w := NewWriter(db, zerolog.Nop())

	code := "XYZ9"
	req := baseRequest(
		MapInput{Batch: testBatch("ILIOS"), ReplayCode: &code},
		MapInput{Batch: testBatch("NEW JUNK CITY")},
	)
	req.Team1Identities = map[string]int64{"a1": 101}
	req.Team2Identities = map[string]int64{"b2": 202}

	scrim, err := w.Ingest(ctx, req)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if scrim.ID == 0 || scrim.PublicID == "" {
		t.Fatalf("expected stored scrim, got %+v", scrim)
	}

	maps, err := db.ListMaps(ctx, scrim.ID)
	if err != nil {
		t.Fatalf("ListMaps: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(maps))
	}
	if maps[0].Name != "Ilios" || maps[1].Name != "New Junk City" {
		t.Errorf("display names: got %q, %q", maps[0].Name, maps[1].Name)
	}
	if maps[0].ReplayCode == nil || *maps[0].ReplayCode != code {
		t.Errorf("replay code lost: %v", maps[0].ReplayCode)
	}

	counts, err := db.CountEvents(ctx, maps[1].ID)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if counts["kill"] != 2 || counts["player_stat"] != 3 || counts["match_start"] != 1 || counts["ultimate_charged"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}

	final, err := db.FinalPlayerStats(ctx, maps[0].ID)
	if err != nil {
		t.Fatalf("FinalPlayerStats: %v", err)
	}
	ids := make(map[string]*int64)
	for _, r := range final {
		ids[r.PlayerName] = r.PlayerID
	}
	if ids["a1"] == nil || *ids["a1"] != 101 {
		t.Errorf("a1 identity: want 101, got %v", ids["a1"])
	}
	if ids["b2"] == nil || *ids["b2"] != 202 {
		t.Errorf("b2 identity: want 202, got %v", ids["b2"])
	}
	if ids["b1"] != nil {
		t.Errorf("b1 has no identity, got %d", *ids["b1"])
	}
}

func TestIngest_DoesNotMutateBatch(t *testing.T) {
	db := openTestDB(t)
	b := testBatch("ILIOS")
	req := baseRequest(MapInput{Batch: b})
	req.Team1Identities = map[string]int64{"a1": 1}

	if _, err := NewWriter(db, zerolog.Nop()).Ingest(context.Background(), req); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	for _, ps := range b.PlayerStat {
		if ps.PlayerID != nil {
			t.Errorf("caller's batch was modified: %s has id %d", ps.PlayerName, *ps.PlayerID)
		}
	}
}

func TestIngest_RollsBackOnMapFailure(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	bad := testBatch("LIJIANG TOWER")
	bad.Kill = append(bad.Kill, model.Kill{MatchTime: -4, AttackerName: "a1", VictimName: "b1"})

	_, err := NewWriter(db, zerolog.Nop()).Ingest(ctx, baseRequest(
		MapInput{Batch: testBatch("ILIOS")},
		MapInput{Batch: bad},
	))
	if err == nil {
		t.Fatal("expected ingest to fail")
	}
	if !strings.Contains(err.Error(), "map 2 (Lijiang Tower)") {
		t.Errorf("error should name the failing map: %v", err)
	}

	scrims, err := db.ListScrims(ctx)
	if err != nil {
		t.Fatalf("ListScrims: %v", err)
	}
	if len(scrims) != 0 {
		t.Errorf("expected no scrims after rollback, got %d", len(scrims))
	}
	_, rows, err := db.QueryRaw(ctx, "SELECT (SELECT COUNT(*) FROM maps), (SELECT COUNT(*) FROM map_data), (SELECT COUNT(*) FROM kill), (SELECT COUNT(*) FROM player_stat)")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	for i, v := range rows[0] {
		if v != "0" {
			t.Errorf("column %d: expected 0 rows left, got %s", i, v)
		}
	}
}

func TestIngest_Validation(t *testing.T) {
	db := openTestDB(t)
	w := NewWriter(db, zerolog.Nop())

	noStart := testBatch("ILIOS")
	noStart.MatchStart = nil
	twoStarts := testBatch("ILIOS")
	twoStarts.MatchStart = append(twoStarts.MatchStart, twoStarts.MatchStart[0])

	cases := map[string]Request{
		"no maps":         baseRequest(),
		"zero team":       func() Request { r := baseRequest(MapInput{Batch: testBatch("ILIOS")}); r.TeamID = 0; return r }(),
		"nil batch":       baseRequest(MapInput{}),
		"no match_start":  baseRequest(MapInput{Batch: noStart}),
		"two match_start": baseRequest(MapInput{Batch: twoStarts}),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := w.Ingest(context.Background(), req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}

	scrims, _ := db.ListScrims(context.Background())
	if len(scrims) != 0 {
		t.Errorf("invalid requests must not write, got %d scrims", len(scrims))
	}
}

func TestDisplayMapName(t *testing.T) {
	cases := map[string]string{
		"ILIOS":         "Ilios",
		"NEW JUNK CITY": "New Junk City",
		"circuit royal": "Circuit Royal",
	}
	for in, want := range cases {
		if got := DisplayMapName(in); got != want {
			t.Errorf("DisplayMapName(%q): want %q, got %q", in, want, got)
		}
	}
}
