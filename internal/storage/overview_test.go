package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pable/go-scrim-metrics/internal/model"
)

func TestGetOverview_Empty(t *testing.T) {
	db := openTestDB(t)

	ov, err := db.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.Scrims != 0 || ov.Maps != 0 || !ov.Earliest.IsZero() || !ov.Latest.IsZero() {
		t.Errorf("expected empty overview, got %+v", ov)
	}
}

func TestOverviewAndAppearances(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s1, m1 := seedMap(t, db)
	s2, err := db.CreateScrim(ctx, model.Scrim{
		Name: "Wednesday block", Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		CreatorID: "coach-1", TeamID: 7,
	})
	if err != nil {
		t.Fatalf("CreateScrim: %v", err)
	}
	m2, err := db.CreateMap(ctx, model.Map{ScrimID: s2.ID, Name: "King's Row"})
	if err != nil {
		t.Fatalf("CreateMap: %v", err)
	}
	m3, err := db.CreateMap(ctx, model.Map{ScrimID: s2.ID, Name: "Ilios"})
	if err != nil {
		t.Fatalf("CreateMap: %v", err)
	}

	runInserts(t, db, m2.MapDataID, &model.Batch{
		Kill:       []model.Kill{{MatchTime: 5, AttackerName: "a1", VictimName: "b1"}},
		PlayerStat: []model.PlayerStat{{MatchTime: 10, PlayerName: "a1"}, {MatchTime: 10, PlayerName: "b1"}},
	})
	runInserts(t, db, m1.MapDataID, &model.Batch{
		PlayerStat: []model.PlayerStat{{MatchTime: 10, PlayerName: "a1"}},
	})
	runInserts(t, db, m3.MapDataID, &model.Batch{
		PlayerStat: []model.PlayerStat{{MatchTime: 10, PlayerName: "b1"}},
	})

	ov, err := db.GetOverview(ctx)
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if ov.Scrims != 2 || ov.Maps != 3 || ov.Players != 2 || ov.Kills != 1 {
		t.Errorf("unexpected counts: %+v", ov)
	}
	if !ov.Earliest.Equal(s1.Date) || !ov.Latest.Equal(s2.Date) {
		t.Errorf("date range: %v .. %v", ov.Earliest, ov.Latest)
	}

	plays, err := db.GetMapPlays(ctx)
	if err != nil {
		t.Fatalf("GetMapPlays: %v", err)
	}
	if len(plays) != 2 || plays[0].Name != "King's Row" || plays[0].Plays != 2 || plays[1].Name != "Ilios" {
		t.Errorf("unexpected map plays: %+v", plays)
	}

	apps, err := db.GetPlayerAppearances(ctx, "a1")
	if err != nil {
		t.Fatalf("GetPlayerAppearances: %v", err)
	}
	if len(apps) != 2 || apps[0].MapID != m1.ID || apps[1].MapID != m2.ID {
		t.Fatalf("expected a1 on maps %d then %d, got %+v", m1.ID, m2.ID, apps)
	}
	if apps[1].ScrimName != "Wednesday block" || apps[1].MapName != "King's Row" {
		t.Errorf("appearance fields: %+v", apps[1])
	}

	none, err := db.GetPlayerAppearances(ctx, "ghost")
	if err != nil {
		t.Fatalf("GetPlayerAppearances: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no appearances, got %d", len(none))
	}
}
