package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-scrim-metrics/internal/aggregator"
	"github.com/pable/go-scrim-metrics/internal/model"
)

// CalculateStats builds the full report of one player on one map. Every
// metric is computed concurrently; a metric with no data is left at zero.
func (s *Service) CalculateStats(ctx context.Context, mapID int64, playerName string) (model.PlayerReport, error) {
	r := model.PlayerReport{MapID: mapID, PlayerName: playerName}
	var final []model.PlayerStat

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.FinalRoundStats(ctx, mapID)
		if err != nil {
			return fmt.Errorf("final stats: %w", err)
		}
		final = rows
		return nil
	})
	g.Go(func() error {
		hero, role, err := s.MostPlayedHero(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("most played hero: %w", err)
		}
		r.Hero, r.Role = hero, role
		return nil
	})
	g.Go(func() error {
		fs, err := s.FightSummary(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("fights: %w", err)
		}
		r.Fights = fs.Fights
		r.FirstPicks, r.FirstPickPct = fs.FirstPicks, fs.FirstPickPct()
		r.FirstDeaths, r.FirstDeathPct = fs.FirstDeaths, fs.FirstDeathPct()
		r.Reversals, r.ReversalPct = fs.Reversals, fs.ReversalPct()
		return nil
	})
	g.Go(func() error {
		n, err := s.Ajaxes(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("ajaxes: %w", err)
		}
		r.Ajaxes = n
		return nil
	})
	g.Go(func() error {
		v, err := s.AverageUltChargeTime(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("ult charge time: %w", err)
		}
		r.AvgUltChargeTime = v
		return nil
	})
	g.Go(func() error {
		v, err := s.AverageUltHoldTime(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("ult hold time: %w", err)
		}
		r.AvgUltHoldTime = v
		return nil
	})
	g.Go(func() error {
		v, err := s.KillsPerUltimate(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("kills per ultimate: %w", err)
		}
		r.KillsPerUltimate = v
		return nil
	})
	g.Go(func() error {
		v, err := s.DroughtTime(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("drought time: %w", err)
		}
		r.DroughtTime = v
		return nil
	})
	g.Go(func() error {
		d, err := s.Duels(ctx, mapID, playerName)
		if err != nil {
			return fmt.Errorf("duels: %w", err)
		}
		r.Duels = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.PlayerReport{}, fmt.Errorf("map %d player %q: %w", mapID, playerName, err)
	}

	// The remaining fields derive from the whole final snapshot.
	r.FinalStats = filterPlayer(final, playerName)
	if len(r.FinalStats) > 0 {
		r.PlayerTeam = r.FinalStats[0].PlayerTeam
	}
	r.FletaDeadliftPct = aggregator.FletaDeadlift(final, playerName)
	r.DeathsPer10Min = aggregator.DeathsPer10(final, playerName)
	r.XFactor = aggregator.XFactor(aggregator.XFactorInputs{
		Role:           r.Role,
		FletaPct:       r.FletaDeadliftPct,
		DeathsPer10:    r.DeathsPer10Min,
		FirstPickPct:   r.FirstPickPct,
		FirstDeathPct:  r.FirstDeathPct,
		DuelWinratePct: aggregator.DuelWinrate(r.Duels),
		ReversalPct:    r.ReversalPct,
	})
	return r, nil
}

// CalculateStatsForMap builds a report for every player in the map's final
// snapshot, sorted by role then name.
func (s *Service) CalculateStatsForMap(ctx context.Context, mapID int64) ([]model.PlayerReport, error) {
	start := time.Now()
	final, err := s.FinalRoundStats(ctx, mapID)
	if err != nil {
		return nil, err
	}

	var players []string
	seen := make(map[string]bool)
	for _, row := range final {
		if !seen[row.PlayerName] {
			seen[row.PlayerName] = true
			players = append(players, row.PlayerName)
		}
	}

	reports := make([]model.PlayerReport, len(players))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, name := range players {
		g.Go(func() error {
			r, err := s.CalculateStats(ctx, mapID, name)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		pi, pj := reports[i].Role.Priority(), reports[j].Role.Priority()
		if pi != pj {
			return pi < pj
		}
		return reports[i].PlayerName < reports[j].PlayerName
	})
	s.logger.Debug().
		Int64("map_id", mapID).
		Int("players", len(reports)).
		Dur("took", time.Since(start)).
		Msg("calculated map stats")
	return reports, nil
}

// XFactor returns the player's composite impact score on the map.
func (s *Service) XFactor(ctx context.Context, mapID int64, playerName string) (float64, error) {
	r, err := s.CalculateStats(ctx, mapID, playerName)
	if err != nil {
		return 0, err
	}
	return r.XFactor, nil
}
