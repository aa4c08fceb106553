// Package stats turns the stored events of a map into player reports. It
// loads rows through storage.DB and hands them to the aggregator functions.
package stats

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pable/go-scrim-metrics/internal/model"
	"github.com/pable/go-scrim-metrics/internal/storage"
)

// DefaultWorkers bounds the per-player fan-out of CalculateStatsForMap when
// no positive value is configured.
const DefaultWorkers = 8

// Service computes statistics for stored maps. It holds no state beyond its
// dependencies and is safe for concurrent use.
type Service struct {
	db      *storage.DB
	logger  zerolog.Logger
	workers int
}

func NewService(db *storage.DB, logger zerolog.Logger, workers int) *Service {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Service{db: db, logger: logger, workers: workers}
}

// FinalRoundStats returns every player's final snapshot rows for the map,
// ordered by team, then role (tank, damage, support, unknown), then name.
func (s *Service) FinalRoundStats(ctx context.Context, mapID int64) ([]model.PlayerStat, error) {
	rows, err := s.db.FinalPlayerStats(ctx, mapID)
	if err != nil {
		return nil, err
	}
	sortSnapshot(rows)
	return rows, nil
}

// PlayerFinalStats returns one player's final snapshot rows, one per hero
// played. The result is empty when the player is not in the snapshot.
func (s *Service) PlayerFinalStats(ctx context.Context, mapID int64, playerName string) ([]model.PlayerStat, error) {
	rows, err := s.FinalRoundStats(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return filterPlayer(rows, playerName), nil
}

func filterPlayer(rows []model.PlayerStat, playerName string) []model.PlayerStat {
	var out []model.PlayerStat
	for _, r := range rows {
		if r.PlayerName == playerName {
			out = append(out, r)
		}
	}
	return out
}

func sortSnapshot(rows []model.PlayerStat) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PlayerTeam != b.PlayerTeam {
			return a.PlayerTeam < b.PlayerTeam
		}
		pa, pb := model.HeroRole(a.PlayerHero).Priority(), model.HeroRole(b.PlayerHero).Priority()
		if pa != pb {
			return pa < pb
		}
		return a.PlayerName < b.PlayerName
	})
}
