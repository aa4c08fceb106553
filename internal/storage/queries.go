package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-scrim-metrics/internal/model"
)

// mapDataOf resolves a map id to its map_data anchor inside a query.
const mapDataOf = `(SELECT id FROM map_data WHERE map_id = ?)`

// UltimateKind selects one of the three ultimate event tables.
type UltimateKind string

const (
	UltimateCharged UltimateKind = "ultimate_charged"
	UltimateStart   UltimateKind = "ultimate_start"
	UltimateEnd     UltimateKind = "ultimate_end"
)

func selectFrom(table string, cols []string, where string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE map_data_id = %s%s ORDER BY match_time, id",
		strings.Join(cols, ", "), table, mapDataOf, where)
}

// Kills returns every kill of a map ordered by match time.
func (db *DB) Kills(ctx context.Context, mapID int64) ([]model.Kill, error) {
	rows, err := db.conn.QueryContext(ctx, selectFrom("kill", killCols, ""), mapID)
	if err != nil {
		return nil, fmt.Errorf("query kills: %w", err)
	}
	defer rows.Close()

	var out []model.Kill
	for rows.Next() {
		var (
			k         model.Kill
			crit, env int
		)
		if err := rows.Scan(&k.MatchTime, &k.AttackerTeam, &k.AttackerName, &k.AttackerHero,
			&k.VictimTeam, &k.VictimName, &k.VictimHero, &k.Ability, &k.Damage, &crit, &env); err != nil {
			return nil, err
		}
		k.IsCriticalHit = crit != 0
		k.IsEnvironmental = env != 0
		out = append(out, k)
	}
	return out, rows.Err()
}

// MercyRezzes returns every resurrect of a map ordered by match time.
func (db *DB) MercyRezzes(ctx context.Context, mapID int64) ([]model.MercyRez, error) {
	rows, err := db.conn.QueryContext(ctx, selectFrom("mercy_rez", mercyRezCols, ""), mapID)
	if err != nil {
		return nil, fmt.Errorf("query mercy_rez: %w", err)
	}
	defer rows.Close()

	var out []model.MercyRez
	for rows.Next() {
		var r model.MercyRez
		if err := rows.Scan(&r.MatchTime, &r.ResurrecterTeam, &r.ResurrecterName, &r.ResurrecterHero,
			&r.ResurrecteeTeam, &r.ResurrecteeName, &r.ResurrecteeHero); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UltimateEvents returns one player's rows from the given ultimate table.
func (db *DB) UltimateEvents(ctx context.Context, mapID int64, kind UltimateKind, playerName string) ([]model.Ultimate, error) {
	switch kind {
	case UltimateCharged, UltimateStart, UltimateEnd:
	default:
		return nil, fmt.Errorf("unknown ultimate table %q", kind)
	}
	rows, err := db.conn.QueryContext(ctx, selectFrom(string(kind), ultimateCols, " AND player_name = ?"), mapID, playerName)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var out []model.Ultimate
	for rows.Next() {
		var u model.Ultimate
		if err := rows.Scan(&u.MatchTime, &u.PlayerTeam, &u.PlayerName, &u.PlayerHero, &u.HeroDuplicated, &u.UltimateID); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// RoundEnds returns the round boundaries of a map ordered by match time.
func (db *DB) RoundEnds(ctx context.Context, mapID int64) ([]model.RoundEnd, error) {
	rows, err := db.conn.QueryContext(ctx, selectFrom("round_end", roundEndCols, ""), mapID)
	if err != nil {
		return nil, fmt.Errorf("query round_end: %w", err)
	}
	defer rows.Close()

	var out []model.RoundEnd
	for rows.Next() {
		var r model.RoundEnd
		if err := rows.Scan(&r.MatchTime, &r.RoundNumber, &r.CapturingTeam, &r.Team1Score, &r.Team2Score,
			&r.ObjectiveIndex, &r.ControlTeam1Progress, &r.ControlTeam2Progress, &r.MatchTimeRemaining); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerStats returns every snapshot row of one player on a map.
func (db *DB) PlayerStats(ctx context.Context, mapID int64, playerName string) ([]model.PlayerStat, error) {
	rows, err := db.conn.QueryContext(ctx, selectFrom("player_stat", playerStatCols, " AND player_name = ?"), mapID, playerName)
	if err != nil {
		return nil, fmt.Errorf("query player_stat: %w", err)
	}
	return scanPlayerStats(rows)
}

// FinalPlayerStats returns the player_stat rows at the map-wide maximum
// match_time. Rows equal on every column but id are returned once.
func (db *DB) FinalPlayerStats(ctx context.Context, mapID int64) ([]model.PlayerStat, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM player_stat
		WHERE map_data_id = %s
		  AND match_time = (SELECT MAX(match_time) FROM player_stat WHERE map_data_id = %s)
		ORDER BY player_team, player_name, player_hero`,
		strings.Join(playerStatCols, ", "), mapDataOf, mapDataOf)
	rows, err := db.conn.QueryContext(ctx, query, mapID, mapID)
	if err != nil {
		return nil, fmt.Errorf("query final player_stat: %w", err)
	}
	return scanPlayerStats(rows)
}

func scanPlayerStats(rows *sql.Rows) ([]model.PlayerStat, error) {
	defer rows.Close()

	var out []model.PlayerStat
	for rows.Next() {
		var (
			s        model.PlayerStat
			playerID sql.NullInt64
		)
		if err := rows.Scan(&s.MatchTime, &s.RoundNumber, &s.PlayerTeam, &s.PlayerName, &s.PlayerHero, &playerID,
			&s.Eliminations, &s.FinalBlows, &s.Deaths,
			&s.AllDamageDealt, &s.BarrierDamageDealt, &s.HeroDamageDealt,
			&s.HealingDealt, &s.HealingReceived, &s.SelfHealing,
			&s.DamageTaken, &s.DamageBlocked,
			&s.DefensiveAssists, &s.OffensiveAssists,
			&s.UltimatesEarned, &s.UltimatesUsed,
			&s.MultikillBest, &s.Multikills, &s.SoloKills, &s.ObjectiveKills,
			&s.EnvironmentalKills, &s.EnvironmentalDeaths,
			&s.CriticalHits, &s.CriticalHitAccuracy,
			&s.ScopedAccuracy, &s.ScopedCriticalHitAccuracy, &s.ScopedCriticalHitKills,
			&s.ShotsFired, &s.ShotsHit, &s.ShotsMissed, &s.ScopedShots, &s.ScopedShotsHit,
			&s.WeaponAccuracy, &s.HeroTimePlayed,
		); err != nil {
			return nil, err
		}
		if playerID.Valid {
			id := playerID.Int64
			s.PlayerID = &id
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountEvents returns the number of rows per event table for a map.
func (db *DB) CountEvents(ctx context.Context, mapID int64) (map[string]int, error) {
	parts := make([]string, len(EventTables))
	args := make([]any, len(EventTables))
	for i, t := range EventTables {
		parts[i] = fmt.Sprintf("SELECT '%s', COUNT(*) FROM %s WHERE map_data_id = %s", t, t, mapDataOf)
		args[i] = mapID
	}
	rows, err := db.conn.QueryContext(ctx, strings.Join(parts, " UNION ALL "), args...)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, len(EventTables))
	for rows.Next() {
		var (
			table string
			n     int
		)
		if err := rows.Scan(&table, &n); err != nil {
			return nil, err
		}
		out[table] = n
	}
	return out, rows.Err()
}
