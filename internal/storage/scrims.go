package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-scrim-metrics/internal/model"
)

const dateLayout = time.RFC3339

// CreateScrim inserts a scrim and fills in its ID, PublicID and CreatedAt.
func (db *DB) CreateScrim(ctx context.Context, s model.Scrim) (model.Scrim, error) {
	if s.PublicID == "" {
		s.PublicID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO scrims(public_id, name, date, creator_id, team_id, team2_id, opponent_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.PublicID, s.Name, s.Date.UTC().Format(dateLayout), s.CreatorID, s.TeamID,
		nullInt64(s.Team2ID), nullString(s.OpponentName), s.CreatedAt.Format(dateLayout),
	)
	if err != nil {
		return model.Scrim{}, fmt.Errorf("insert scrim: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return model.Scrim{}, fmt.Errorf("insert scrim: %w", err)
	}
	return s, nil
}

const scrimCols = `id, public_id, name, date, creator_id, team_id, team2_id, opponent_name, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScrim(r rowScanner) (model.Scrim, error) {
	var (
		s               model.Scrim
		date, createdAt string
		team2           sql.NullInt64
		opponent        sql.NullString
	)
	if err := r.Scan(&s.ID, &s.PublicID, &s.Name, &date, &s.CreatorID, &s.TeamID, &team2, &opponent, &createdAt); err != nil {
		return model.Scrim{}, err
	}
	var err error
	if s.Date, err = time.Parse(dateLayout, date); err != nil {
		return model.Scrim{}, fmt.Errorf("scrim %d date: %w", s.ID, err)
	}
	if s.CreatedAt, err = time.Parse(dateLayout, createdAt); err != nil {
		return model.Scrim{}, fmt.Errorf("scrim %d created_at: %w", s.ID, err)
	}
	if team2.Valid {
		s.Team2ID = &team2.Int64
	}
	if opponent.Valid {
		s.OpponentName = &opponent.String
	}
	return s, nil
}

// GetScrim returns the scrim with the given id, or ErrNotFound.
func (db *DB) GetScrim(ctx context.Context, id int64) (model.Scrim, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+scrimCols+` FROM scrims WHERE id = ?`, id)
	s, err := scanScrim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Scrim{}, fmt.Errorf("scrim %d: %w", id, ErrNotFound)
	}
	return s, err
}

// ListScrims returns all scrims, newest date first.
func (db *DB) ListScrims(ctx context.Context) ([]model.Scrim, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+scrimCols+` FROM scrims ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Scrim
	for rows.Next() {
		s, err := scanScrim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteScrim removes a scrim; maps, map data and every event row cascade.
func (db *DB) DeleteScrim(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM scrims WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scrim %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scrim %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetOpponentName overrides the opponent display name; nil clears it.
func (db *DB) SetOpponentName(ctx context.Context, id int64, name *string) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE scrims SET opponent_name = ? WHERE id = ?`, nullString(name), id)
	if err != nil {
		return fmt.Errorf("update scrim %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scrim %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateMap inserts a map and its map_data anchor in one transaction.
func (db *DB) CreateMap(ctx context.Context, m model.Map) (model.Map, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Map{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO maps(scrim_id, name, replay_code) VALUES (?, ?, ?)`,
		m.ScrimID, m.Name, nullString(m.ReplayCode))
	if err != nil {
		return model.Map{}, fmt.Errorf("insert map: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return model.Map{}, fmt.Errorf("insert map: %w", err)
	}
	res, err = tx.ExecContext(ctx, `INSERT INTO map_data(map_id) VALUES (?)`, m.ID)
	if err != nil {
		return model.Map{}, fmt.Errorf("insert map_data: %w", err)
	}
	if m.MapDataID, err = res.LastInsertId(); err != nil {
		return model.Map{}, fmt.Errorf("insert map_data: %w", err)
	}
	return m, tx.Commit()
}

// ListMaps returns the maps of a scrim in play order.
func (db *DB) ListMaps(ctx context.Context, scrimID int64) ([]model.Map, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT m.id, m.scrim_id, d.id, m.name, m.replay_code
		FROM maps m JOIN map_data d ON d.map_id = m.id
		WHERE m.scrim_id = ? ORDER BY m.id`, scrimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Map
	for rows.Next() {
		var (
			m      model.Map
			replay sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ScrimID, &m.MapDataID, &m.Name, &replay); err != nil {
			return nil, err
		}
		if replay.Valid {
			m.ReplayCode = &replay.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
