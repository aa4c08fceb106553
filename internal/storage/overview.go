package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-scrim-metrics/internal/model"
)

// GetOverview returns database-wide counts and the scrim date range.
func (db *DB) GetOverview(ctx context.Context) (model.Overview, error) {
	var (
		ov               model.Overview
		earliest, latest sql.NullString
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM scrims),
			(SELECT COUNT(*) FROM maps),
			(SELECT COUNT(DISTINCT player_name) FROM player_stat),
			(SELECT COUNT(*) FROM kill),
			(SELECT MIN(date) FROM scrims),
			(SELECT MAX(date) FROM scrims)`,
	).Scan(&ov.Scrims, &ov.Maps, &ov.Players, &ov.Kills, &earliest, &latest)
	if err != nil {
		return model.Overview{}, fmt.Errorf("overview: %w", err)
	}
	if earliest.Valid {
		if ov.Earliest, err = time.Parse(dateLayout, earliest.String); err != nil {
			return model.Overview{}, fmt.Errorf("overview earliest: %w", err)
		}
	}
	if latest.Valid {
		if ov.Latest, err = time.Parse(dateLayout, latest.String); err != nil {
			return model.Overview{}, fmt.Errorf("overview latest: %w", err)
		}
	}
	return ov, nil
}

// GetMapPlays counts plays per map name, most played first.
func (db *DB) GetMapPlays(ctx context.Context) ([]model.MapPlays, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, COUNT(*) AS plays FROM maps
		GROUP BY name ORDER BY plays DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("map plays: %w", err)
	}
	defer rows.Close()

	var out []model.MapPlays
	for rows.Next() {
		var m model.MapPlays
		if err := rows.Scan(&m.Name, &m.Plays); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetPlayerAppearances lists every map the player has stat rows on,
// oldest scrim first.
func (db *DB) GetPlayerAppearances(ctx context.Context, playerName string) ([]model.Appearance, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.id, s.name, s.date, m.id, m.name
		FROM maps m
		JOIN scrims s ON s.id = m.scrim_id
		JOIN map_data d ON d.map_id = m.id
		WHERE EXISTS (SELECT 1 FROM player_stat p WHERE p.map_data_id = d.id AND p.player_name = ?)
		ORDER BY s.date, s.id, m.id`, playerName)
	if err != nil {
		return nil, fmt.Errorf("player appearances: %w", err)
	}
	defer rows.Close()

	var out []model.Appearance
	for rows.Next() {
		var (
			a    model.Appearance
			date string
		)
		if err := rows.Scan(&a.ScrimID, &a.ScrimName, &date, &a.MapID, &a.MapName); err != nil {
			return nil, err
		}
		if a.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("scrim %d date: %w", a.ScrimID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
