// Package ingest writes the parsed maps of one scrim into the event store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pable/go-scrim-metrics/internal/model"
	"github.com/pable/go-scrim-metrics/internal/storage"
)

// ErrInvalidRequest is returned when a request fails validation before
// anything is written.
var ErrInvalidRequest = errors.New("invalid ingest request")

// MapInput is one played map of a scrim.
type MapInput struct {
	Batch      *model.Batch
	ReplayCode *string
}

// Request describes a scrim to ingest. Identity maps resolve in-game player
// names to internal player ids, per side; names missing from them are stored
// without an identity.
type Request struct {
	Name         string
	Date         time.Time
	TeamID       int64
	Team2ID      *int64
	CreatorID    string
	OpponentName *string
	Maps         []MapInput

	Team1Identities map[string]int64
	Team2Identities map[string]int64
}

// Writer persists scrims. It is the only writer of event rows.
type Writer struct {
	db     *storage.DB
	logger zerolog.Logger
}

func NewWriter(db *storage.DB, logger zerolog.Logger) *Writer {
	return &Writer{db: db, logger: logger}
}

// Ingest stores the scrim and all of its maps. Maps are written one after
// another; the event tables of a map are written concurrently. If any map
// fails the whole scrim is deleted again and the error names the map.
func (w *Writer) Ingest(ctx context.Context, req Request) (model.Scrim, error) {
	if err := validate(req); err != nil {
		return model.Scrim{}, err
	}

	scrim, err := w.db.CreateScrim(ctx, model.Scrim{
		Name:         req.Name,
		Date:         req.Date,
		CreatorID:    req.CreatorID,
		TeamID:       req.TeamID,
		Team2ID:      req.Team2ID,
		OpponentName: req.OpponentName,
	})
	if err != nil {
		return model.Scrim{}, err
	}
	log := w.logger.With().Int64("scrim_id", scrim.ID).Str("public_id", scrim.PublicID).Logger()

	for i, in := range req.Maps {
		if err := w.ingestMap(ctx, log, scrim.ID, i, in, req); err != nil {
			log.Error().Err(err).Int("map", i+1).Msg("map ingest failed, removing scrim")
			// Clean up even when ctx is what failed.
			if delErr := w.db.DeleteScrim(context.WithoutCancel(ctx), scrim.ID); delErr != nil {
				log.Error().Err(delErr).Msg("compensating delete failed")
				return model.Scrim{}, errors.Join(err, fmt.Errorf("remove partial scrim %d: %w", scrim.ID, delErr))
			}
			return model.Scrim{}, err
		}
	}

	log.Info().Int("maps", len(req.Maps)).Msg("scrim ingested")
	return scrim, nil
}

func validate(req Request) error {
	if req.TeamID <= 0 {
		return fmt.Errorf("%w: team id must be positive, got %d", ErrInvalidRequest, req.TeamID)
	}
	if len(req.Maps) == 0 {
		return fmt.Errorf("%w: no maps", ErrInvalidRequest)
	}
	for i, m := range req.Maps {
		if m.Batch == nil {
			return fmt.Errorf("%w: map %d has no events", ErrInvalidRequest, i+1)
		}
		if n := len(m.Batch.MatchStart); n != 1 {
			return fmt.Errorf("%w: map %d needs exactly one match_start, got %d", ErrInvalidRequest, i+1, n)
		}
	}
	return nil
}

func (w *Writer) ingestMap(ctx context.Context, log zerolog.Logger, scrimID int64, idx int, in MapInput, req Request) error {
	start := time.Now()
	name := DisplayMapName(in.Batch.MatchStart[0].MapName)

	m, err := w.db.CreateMap(ctx, model.Map{ScrimID: scrimID, Name: name, ReplayCode: in.ReplayCode})
	if err != nil {
		return fmt.Errorf("map %d (%s): %w", idx+1, name, err)
	}

	batch := withIdentities(in.Batch, req.Team1Identities, req.Team2Identities)
	inserts := w.db.EventInserts(m.MapDataID, batch)

	g, gctx := errgroup.WithContext(ctx)
	rows := zerolog.Dict()
	for _, ins := range inserts {
		rows.Int(ins.Table, ins.Rows)
		g.Go(func() error {
			return ins.Run(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("map %d (%s): %w", idx+1, name, err)
	}

	log.Debug().
		Int64("map_id", m.ID).
		Str("map", name).
		Dict("rows", rows).
		Dur("took", time.Since(start)).
		Msg("map ingested")
	return nil
}

// DisplayMapName turns the upper-case map name of the logs into title case,
// e.g. "NEW JUNK CITY" → "New Junk City".
func DisplayMapName(raw string) string {
	return cases.Title(language.English).String(raw)
}

// withIdentities returns a copy of the batch whose player_stat rows carry the
// internal player id for their side. The input is not modified.
func withIdentities(b *model.Batch, team1, team2 map[string]int64) *model.Batch {
	if len(team1) == 0 && len(team2) == 0 {
		return b
	}
	team1Name := b.MatchStart[0].Team1Name

	out := *b
	out.PlayerStat = make([]model.PlayerStat, len(b.PlayerStat))
	for i, ps := range b.PlayerStat {
		ids := team2
		if ps.PlayerTeam == team1Name {
			ids = team1
		}
		if id, ok := ids[ps.PlayerName]; ok {
			ps.PlayerID = &id
		}
		out.PlayerStat[i] = ps
	}
	return &out
}
