package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/pable/go-scrim-metrics/internal/model"
)

// Column lists shared by inserts and readers. match_time is always first.
var (
	matchStartCols    = []string{"match_time", "map_name", "map_type", "team_1_name", "team_2_name"}
	matchEndCols      = []string{"match_time", "round_number", "team_1_score", "team_2_score"}
	roundStartCols    = []string{"match_time", "round_number", "capturing_team", "team_1_score", "team_2_score", "objective_index"}
	roundEndCols      = []string{"match_time", "round_number", "capturing_team", "team_1_score", "team_2_score", "objective_index", "control_team_1_progress", "control_team_2_progress", "match_time_remaining"}
	setupCompleteCols = []string{"match_time", "round_number", "match_time_remaining"}
	objCapturedCols   = []string{"match_time", "round_number", "capturing_team", "objective_index", "control_team_1_progress", "control_team_2_progress", "match_time_remaining"}
	objUpdatedCols    = []string{"match_time", "round_number", "previous_objective_index", "current_objective_index"}
	progressCols      = []string{"match_time", "round_number", "capturing_team", "objective_index", "capture_progress"}
	killCols          = []string{"match_time", "attacker_team", "attacker_name", "attacker_hero", "victim_team", "victim_name", "victim_hero", "event_ability", "event_damage", "is_critical_hit", "is_environmental"}
	healingCols       = []string{"match_time", "healer_team", "healer_name", "healer_hero", "healee_team", "healee_name", "healee_hero", "event_ability", "event_healing", "is_health_pack"}
	heroChangeCols    = []string{"match_time", "player_team", "player_name", "player_hero", "previous_hero", "hero_time_played"}
	mercyRezCols      = []string{"match_time", "resurrecter_team", "resurrecter_name", "resurrecter_hero", "resurrectee_team", "resurrectee_name", "resurrectee_hero"}
	ultimateCols      = []string{"match_time", "player_team", "player_name", "player_hero", "hero_duplicated", "ultimate_id"}
	assistCols        = []string{"match_time", "player_team", "player_name", "player_hero", "hero_duplicated"}
	playerStatCols    = []string{
		"match_time", "round_number", "player_team", "player_name", "player_hero", "player_id",
		"eliminations", "final_blows", "deaths",
		"all_damage_dealt", "barrier_damage_dealt", "hero_damage_dealt",
		"healing_dealt", "healing_received", "self_healing",
		"damage_taken", "damage_blocked",
		"defensive_assists", "offensive_assists",
		"ultimates_earned", "ultimates_used",
		"multikill_best", "multikills", "solo_kills", "objective_kills",
		"environmental_kills", "environmental_deaths",
		"critical_hits", "critical_hit_accuracy",
		"scoped_accuracy", "scoped_critical_hit_accuracy", "scoped_critical_hit_kills",
		"shots_fired", "shots_hit", "shots_missed", "scoped_shots", "scoped_shots_hit",
		"weapon_accuracy", "hero_time_played",
	}
)

// EventTables lists every event table in schema order.
var EventTables = []string{
	"match_start", "match_end", "round_start", "round_end", "setup_complete",
	"objective_captured", "objective_updated", "payload_progress", "point_progress",
	"kill", "damage", "healing", "hero_spawn", "hero_swap", "mercy_rez",
	"ultimate_charged", "ultimate_start", "ultimate_end",
	"defensive_assist", "offensive_assist", "player_stat",
}

// EventInsert is one pending bulk insert of a single event type for one map.
// Each insert runs in its own transaction, so inserts for different tables
// may run concurrently.
type EventInsert struct {
	Table string
	Rows  int
	run   func(ctx context.Context) error
}

// Run executes the insert.
func (e EventInsert) Run(ctx context.Context) error {
	return e.run(ctx)
}

// EventInserts returns one bulk insert per non-empty event type in the batch,
// every row bound to mapDataID.
func (db *DB) EventInserts(mapDataID int64, b *model.Batch) []EventInsert {
	var out []EventInsert
	add := func(e EventInsert) {
		if e.Rows > 0 {
			out = append(out, e)
		}
	}

	add(bulk(db, "match_start", matchStartCols, mapDataID, b.MatchStart, func(e model.MatchStart) []any {
		return []any{e.MatchTime, e.MapName, e.MapType, e.Team1Name, e.Team2Name}
	}))
	add(bulk(db, "match_end", matchEndCols, mapDataID, b.MatchEnd, func(e model.MatchEnd) []any {
		return []any{e.MatchTime, e.RoundNumber, e.Team1Score, e.Team2Score}
	}))
	add(bulk(db, "round_start", roundStartCols, mapDataID, b.RoundStart, func(e model.RoundStart) []any {
		return []any{e.MatchTime, e.RoundNumber, e.CapturingTeam, e.Team1Score, e.Team2Score, e.ObjectiveIndex}
	}))
	add(bulk(db, "round_end", roundEndCols, mapDataID, b.RoundEnd, func(e model.RoundEnd) []any {
		return []any{e.MatchTime, e.RoundNumber, e.CapturingTeam, e.Team1Score, e.Team2Score, e.ObjectiveIndex,
			e.ControlTeam1Progress, e.ControlTeam2Progress, e.MatchTimeRemaining}
	}))
	add(bulk(db, "setup_complete", setupCompleteCols, mapDataID, b.SetupComplete, func(e model.SetupComplete) []any {
		return []any{e.MatchTime, e.RoundNumber, e.MatchTimeRemaining}
	}))
	add(bulk(db, "objective_captured", objCapturedCols, mapDataID, b.ObjectiveCaptured, func(e model.ObjectiveCaptured) []any {
		return []any{e.MatchTime, e.RoundNumber, e.CapturingTeam, e.ObjectiveIndex,
			e.ControlTeam1Progress, e.ControlTeam2Progress, e.MatchTimeRemaining}
	}))
	add(bulk(db, "objective_updated", objUpdatedCols, mapDataID, b.ObjectiveUpdated, func(e model.ObjectiveUpdated) []any {
		return []any{e.MatchTime, e.RoundNumber, e.PreviousObjectiveIndex, e.CurrentObjectiveIndex}
	}))
	add(bulk(db, "payload_progress", progressCols, mapDataID, b.PayloadProgress, progressArgs))
	add(bulk(db, "point_progress", progressCols, mapDataID, b.PointProgress, progressArgs))
	add(bulk(db, "kill", killCols, mapDataID, b.Kill, func(e model.Kill) []any {
		return []any{e.MatchTime, e.AttackerTeam, e.AttackerName, e.AttackerHero,
			e.VictimTeam, e.VictimName, e.VictimHero, e.Ability, e.Damage,
			boolInt(e.IsCriticalHit), boolInt(e.IsEnvironmental)}
	}))
	add(bulk(db, "damage", killCols, mapDataID, b.Damage, func(e model.Damage) []any {
		return []any{e.MatchTime, e.AttackerTeam, e.AttackerName, e.AttackerHero,
			e.VictimTeam, e.VictimName, e.VictimHero, e.Ability, e.Amount,
			boolInt(e.IsCriticalHit), boolInt(e.IsEnvironmental)}
	}))
	add(bulk(db, "healing", healingCols, mapDataID, b.Healing, func(e model.Healing) []any {
		return []any{e.MatchTime, e.HealerTeam, e.HealerName, e.HealerHero,
			e.HealeeTeam, e.HealeeName, e.HealeeHero, e.Ability, e.Amount, boolInt(e.IsHealthPack)}
	}))
	add(bulk(db, "hero_spawn", heroChangeCols, mapDataID, b.HeroSpawn, heroChangeArgs))
	add(bulk(db, "hero_swap", heroChangeCols, mapDataID, b.HeroSwap, heroChangeArgs))
	add(bulk(db, "mercy_rez", mercyRezCols, mapDataID, b.MercyRez, func(e model.MercyRez) []any {
		return []any{e.MatchTime, e.ResurrecterTeam, e.ResurrecterName, e.ResurrecterHero,
			e.ResurrecteeTeam, e.ResurrecteeName, e.ResurrecteeHero}
	}))
	add(bulk(db, "ultimate_charged", ultimateCols, mapDataID, b.UltimateCharged, ultimateArgs))
	add(bulk(db, "ultimate_start", ultimateCols, mapDataID, b.UltimateStart, ultimateArgs))
	add(bulk(db, "ultimate_end", ultimateCols, mapDataID, b.UltimateEnd, ultimateArgs))
	add(bulk(db, "defensive_assist", assistCols, mapDataID, b.DefensiveAssist, assistArgs))
	add(bulk(db, "offensive_assist", assistCols, mapDataID, b.OffensiveAssist, assistArgs))
	add(bulk(db, "player_stat", playerStatCols, mapDataID, b.PlayerStat, func(e model.PlayerStat) []any {
		return []any{e.MatchTime, e.RoundNumber, e.PlayerTeam, e.PlayerName, e.PlayerHero, nullInt64(e.PlayerID),
			e.Eliminations, e.FinalBlows, e.Deaths,
			e.AllDamageDealt, e.BarrierDamageDealt, e.HeroDamageDealt,
			e.HealingDealt, e.HealingReceived, e.SelfHealing,
			e.DamageTaken, e.DamageBlocked,
			e.DefensiveAssists, e.OffensiveAssists,
			e.UltimatesEarned, e.UltimatesUsed,
			e.MultikillBest, e.Multikills, e.SoloKills, e.ObjectiveKills,
			e.EnvironmentalKills, e.EnvironmentalDeaths,
			e.CriticalHits, e.CriticalHitAccuracy,
			e.ScopedAccuracy, e.ScopedCriticalHitAccuracy, e.ScopedCriticalHitKills,
			e.ShotsFired, e.ShotsHit, e.ShotsMissed, e.ScopedShots, e.ScopedShotsHit,
			e.WeaponAccuracy, e.HeroTimePlayed}
	}))
	return out
}

func progressArgs(e model.ObjectiveProgress) []any {
	return []any{e.MatchTime, e.RoundNumber, e.CapturingTeam, e.ObjectiveIndex, e.CaptureProgress}
}

func heroChangeArgs(e model.HeroChange) []any {
	return []any{e.MatchTime, e.PlayerTeam, e.PlayerName, e.PlayerHero, e.PreviousHero, e.HeroTimePlayed}
}

func ultimateArgs(e model.Ultimate) []any {
	return []any{e.MatchTime, e.PlayerTeam, e.PlayerName, e.PlayerHero, e.HeroDuplicated, e.UltimateID}
}

func assistArgs(e model.Assist) []any {
	return []any{e.MatchTime, e.PlayerTeam, e.PlayerName, e.PlayerHero, e.HeroDuplicated}
}

// bulk builds a transactional prepared-statement insert of rows into table.
func bulk[T any](db *DB, table string, cols []string, mapDataID int64, rows []T, args func(T) []any) EventInsert {
	query := fmt.Sprintf("INSERT INTO %s(map_data_id, %s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)+1))
	return EventInsert{
		Table: table,
		Rows:  len(rows),
		run: func(ctx context.Context) error {
			tx, err := db.conn.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("insert %s: %w", table, err)
			}
			defer tx.Rollback()

			stmt, err := tx.PrepareContext(ctx, query)
			if err != nil {
				return fmt.Errorf("prepare %s: %w", table, err)
			}
			defer stmt.Close()

			for i, r := range rows {
				if _, err := stmt.ExecContext(ctx, append([]any{mapDataID}, args(r)...)...); err != nil {
					return fmt.Errorf("insert %s row %d: %w", table, i, err)
				}
			}
			return tx.Commit()
		},
	}
}
