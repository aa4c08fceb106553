package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-scrim-metrics/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "metrics.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedMap(t *testing.T, db *DB) (model.Scrim, model.Map) {
	t.Helper()
	ctx := context.Background()
	s, err := db.CreateScrim(ctx, model.Scrim{
		Name: "Tuesday block", Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		CreatorID: "coach-1", TeamID: 7,
	})
	if err != nil {
		t.Fatalf("CreateScrim: %v", err)
	}
	m, err := db.CreateMap(ctx, model.Map{ScrimID: s.ID, Name: "King's Row"})
	if err != nil {
		t.Fatalf("CreateMap: %v", err)
	}
	return s, m
}

func runInserts(t *testing.T, db *DB, mapDataID int64, b *model.Batch) {
	t.Helper()
	for _, ins := range db.EventInserts(mapDataID, b) {
		if err := ins.Run(context.Background()); err != nil {
			t.Fatalf("insert %s: %v", ins.Table, err)
		}
	}
}

func TestScrimCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	team2 := int64(9)
	opp := "Night Owls"
	created, err := db.CreateScrim(ctx, model.Scrim{
		Name: "Finals prep", Date: time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC),
		CreatorID: "coach-2", TeamID: 3, Team2ID: &team2, OpponentName: &opp,
	})
	if err != nil {
		t.Fatalf("CreateScrim: %v", err)
	}
	if created.ID == 0 || created.PublicID == "" {
		t.Fatalf("expected id and public id, got %+v", created)
	}

	got, err := db.GetScrim(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetScrim: %v", err)
	}
	if got.Name != "Finals prep" || got.TeamID != 3 || got.CreatorID != "coach-2" {
		t.Errorf("scrim mismatch: %+v", got)
	}
	if !got.Date.Equal(created.Date) {
		t.Errorf("date: want %v, got %v", created.Date, got.Date)
	}
	if got.Team2ID == nil || *got.Team2ID != 9 {
		t.Errorf("team2: want 9, got %v", got.Team2ID)
	}
	if got.OpponentName == nil || *got.OpponentName != "Night Owls" {
		t.Errorf("opponent: want Night Owls, got %v", got.OpponentName)
	}

	if _, err := db.GetScrim(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListScrims(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, d := range []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	} {
		if _, err := db.CreateScrim(ctx, model.Scrim{Name: d.Format("Jan"), Date: d, CreatorID: "c", TeamID: 1}); err != nil {
			t.Fatalf("CreateScrim: %v", err)
		}
	}

	list, err := db.ListScrims(ctx)
	if err != nil {
		t.Fatalf("ListScrims: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 scrims, got %d", len(list))
	}
	// Newest first.
	if list[0].Name != "Feb" {
		t.Errorf("expected Feb first, got %s", list[0].Name)
	}
}

func TestSetOpponentName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s, _ := seedMap(t, db)

	name := "Team Bravo"
	if err := db.SetOpponentName(ctx, s.ID, &name); err != nil {
		t.Fatalf("SetOpponentName: %v", err)
	}
	got, _ := db.GetScrim(ctx, s.ID)
	if got.OpponentName == nil || *got.OpponentName != name {
		t.Errorf("opponent: want %q, got %v", name, got.OpponentName)
	}

	if err := db.SetOpponentName(ctx, s.ID, nil); err != nil {
		t.Fatalf("clear opponent: %v", err)
	}
	got, _ = db.GetScrim(ctx, s.ID)
	if got.OpponentName != nil {
		t.Errorf("expected cleared opponent, got %q", *got.OpponentName)
	}

	if err := db.SetOpponentName(ctx, 12345, &name); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListMaps(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s, first := seedMap(t, db)

	code := "ABC123"
	second, err := db.CreateMap(ctx, model.Map{ScrimID: s.ID, Name: "Ilios", ReplayCode: &code})
	if err != nil {
		t.Fatalf("CreateMap: %v", err)
	}

	maps, err := db.ListMaps(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListMaps: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(maps))
	}
	if maps[0].ID != first.ID || maps[0].MapDataID != first.MapDataID || maps[0].ReplayCode != nil {
		t.Errorf("first map mismatch: %+v", maps[0])
	}
	if maps[1].ID != second.ID || maps[1].ReplayCode == nil || *maps[1].ReplayCode != code {
		t.Errorf("second map mismatch: %+v", maps[1])
	}
}

func TestEventInsertsSkipsEmptyTables(t *testing.T) {
	db := openTestDB(t)
	_, m := seedMap(t, db)

	b := &model.Batch{
		MatchStart: []model.MatchStart{{MapName: "KING'S ROW", MapType: "Hybrid", Team1Name: "A", Team2Name: "B"}},
		Kill:       []model.Kill{{MatchTime: 10, AttackerName: "a1", VictimName: "b1"}},
	}
	inserts := db.EventInserts(m.MapDataID, b)
	if len(inserts) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(inserts))
	}
	if inserts[0].Table != "match_start" || inserts[1].Table != "kill" || inserts[1].Rows != 1 {
		t.Errorf("unexpected inserts: %+v", inserts)
	}
}

func TestEventReaders(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, m := seedMap(t, db)

	b := &model.Batch{
		Kill: []model.Kill{
			{MatchTime: 40, AttackerTeam: "A", AttackerName: "a1", AttackerHero: "Tracer", VictimTeam: "B", VictimName: "b1", VictimHero: "Ana", Ability: "Primary Fire", IsCriticalHit: true},
			{MatchTime: 12, AttackerTeam: "B", AttackerName: "b2", AttackerHero: "Reinhardt", VictimTeam: "A", VictimName: "a1", VictimHero: "Tracer", Ability: model.AbilityUltimate},
		},
		MercyRez: []model.MercyRez{{MatchTime: 45, ResurrecterName: "b3", ResurrecteeName: "b1"}},
		UltimateCharged: []model.Ultimate{
			{MatchTime: 30, PlayerName: "a1", PlayerHero: "Tracer", UltimateID: 1},
			{MatchTime: 31, PlayerName: "b2", PlayerHero: "Reinhardt", UltimateID: 1},
		},
		UltimateEnd: []model.Ultimate{{MatchTime: 50, PlayerName: "a1", PlayerHero: "Tracer", UltimateID: 1}},
		RoundEnd:    []model.RoundEnd{{MatchTime: 300, RoundNumber: 1, CapturingTeam: "A"}},
	}
	runInserts(t, db, m.MapDataID, b)

	kills, err := db.Kills(ctx, m.ID)
	if err != nil {
		t.Fatalf("Kills: %v", err)
	}
	if len(kills) != 2 {
		t.Fatalf("expected 2 kills, got %d", len(kills))
	}
	if kills[0].MatchTime != 12 || kills[1].MatchTime != 40 {
		t.Errorf("kills not ordered by match time: %v, %v", kills[0].MatchTime, kills[1].MatchTime)
	}
	if !kills[1].IsCriticalHit || kills[1].IsEnvironmental {
		t.Errorf("kill booleans lost: %+v", kills[1])
	}

	charges, err := db.UltimateEvents(ctx, m.ID, UltimateCharged, "a1")
	if err != nil {
		t.Fatalf("UltimateEvents: %v", err)
	}
	if len(charges) != 1 || charges[0].MatchTime != 30 {
		t.Errorf("expected a1's single charge at 30, got %+v", charges)
	}
	if _, err := db.UltimateEvents(ctx, m.ID, UltimateKind("kill"), "a1"); err == nil {
		t.Error("expected error for non-ultimate table")
	}

	rezzes, err := db.MercyRezzes(ctx, m.ID)
	if err != nil || len(rezzes) != 1 {
		t.Errorf("MercyRezzes: got %d, err %v", len(rezzes), err)
	}
	rounds, err := db.RoundEnds(ctx, m.ID)
	if err != nil || len(rounds) != 1 || rounds[0].CapturingTeam != "A" {
		t.Errorf("RoundEnds: got %+v, err %v", rounds, err)
	}

	counts, err := db.CountEvents(ctx, m.ID)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if counts["kill"] != 2 || counts["ultimate_charged"] != 2 || counts["damage"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if len(counts) != len(EventTables) {
		t.Errorf("expected a count for all %d tables, got %d", len(EventTables), len(counts))
	}
}

func TestFinalPlayerStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, m := seedMap(t, db)

	id := int64(42)
	b := &model.Batch{PlayerStat: []model.PlayerStat{
		{MatchTime: 300, RoundNumber: 1, PlayerTeam: "A", PlayerName: "a1", PlayerHero: "Tracer", FinalBlows: 4},
		{MatchTime: 600, RoundNumber: 2, PlayerTeam: "A", PlayerName: "a1", PlayerHero: "Tracer", FinalBlows: 9, PlayerID: &id},
		// Duplicate emission of the same final row.
		{MatchTime: 600, RoundNumber: 2, PlayerTeam: "A", PlayerName: "a1", PlayerHero: "Tracer", FinalBlows: 9, PlayerID: &id},
		{MatchTime: 600, RoundNumber: 2, PlayerTeam: "B", PlayerName: "b1", PlayerHero: "Ana", FinalBlows: 2},
		// Left before the final snapshot.
		{MatchTime: 450, RoundNumber: 2, PlayerTeam: "B", PlayerName: "b9", PlayerHero: "Mei", FinalBlows: 1},
	}}
	runInserts(t, db, m.MapDataID, b)

	final, err := db.FinalPlayerStats(ctx, m.ID)
	if err != nil {
		t.Fatalf("FinalPlayerStats: %v", err)
	}
	if len(final) != 2 {
		t.Fatalf("expected 2 final rows, got %d: %+v", len(final), final)
	}
	if final[0].PlayerName != "a1" || final[0].FinalBlows != 9 {
		t.Errorf("a1 final mismatch: %+v", final[0])
	}
	if final[0].PlayerID == nil || *final[0].PlayerID != 42 {
		t.Errorf("a1 identity lost: %v", final[0].PlayerID)
	}
	if final[1].PlayerName != "b1" || final[1].PlayerID != nil {
		t.Errorf("b1 final mismatch: %+v", final[1])
	}

	all, err := db.PlayerStats(ctx, m.ID, "a1")
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 a1 rows, got %d", len(all))
	}
}

func TestNegativeMatchTimeRejected(t *testing.T) {
	db := openTestDB(t)
	_, m := seedMap(t, db)

	ins := db.EventInserts(m.MapDataID, &model.Batch{Kill: []model.Kill{{MatchTime: 5}, {MatchTime: -1}}})
	if len(ins) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(ins))
	}
	if err := ins[0].Run(context.Background()); err == nil {
		t.Fatal("expected CHECK constraint failure for negative match_time")
	}
	kills, _ := db.Kills(context.Background(), m.ID)
	if len(kills) != 0 {
		t.Errorf("failed insert must not leave rows, got %d", len(kills))
	}
}

func TestDeleteScrimCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s, m := seedMap(t, db)

	runInserts(t, db, m.MapDataID, &model.Batch{
		Kill:       []model.Kill{{MatchTime: 1}},
		PlayerStat: []model.PlayerStat{{MatchTime: 2, PlayerName: "a1"}},
	})

	if err := db.DeleteScrim(ctx, s.ID); err != nil {
		t.Fatalf("DeleteScrim: %v", err)
	}
	counts, err := db.CountEvents(ctx, m.ID)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s: expected 0 rows after delete, got %d", table, n)
		}
	}
	maps, _ := db.ListMaps(ctx, s.ID)
	if len(maps) != 0 {
		t.Errorf("expected maps to cascade, got %d", len(maps))
	}
	if err := db.DeleteScrim(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openTestDB(t)
	seedMap(t, db)

	cols, rows, err := db.QueryRaw(context.Background(), "SELECT name, replay_code FROM maps")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "name" {
		t.Errorf("unexpected columns: %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "King's Row" || rows[0][1] != "NULL" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
