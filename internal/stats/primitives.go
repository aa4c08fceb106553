package stats

import (
	"context"

	"github.com/pable/go-scrim-metrics/internal/aggregator"
	"github.com/pable/go-scrim-metrics/internal/model"
	"github.com/pable/go-scrim-metrics/internal/storage"
)

// AverageUltChargeTime is the player's mean seconds to build an ultimate.
func (s *Service) AverageUltChargeTime(ctx context.Context, mapID int64, playerName string) (float64, error) {
	charges, err := s.db.UltimateEvents(ctx, mapID, storage.UltimateCharged, playerName)
	if err != nil {
		return 0, err
	}
	ends, err := s.db.UltimateEvents(ctx, mapID, storage.UltimateEnd, playerName)
	if err != nil {
		return 0, err
	}
	return aggregator.AverageUltChargeTime(charges, ends), nil
}

// AverageUltHoldTime is the player's mean seconds between charging and using
// an ultimate within a round.
func (s *Service) AverageUltHoldTime(ctx context.Context, mapID int64, playerName string) (float64, error) {
	charges, err := s.db.UltimateEvents(ctx, mapID, storage.UltimateCharged, playerName)
	if err != nil {
		return 0, err
	}
	starts, err := s.db.UltimateEvents(ctx, mapID, storage.UltimateStart, playerName)
	if err != nil {
		return 0, err
	}
	rounds, err := s.db.RoundEnds(ctx, mapID)
	if err != nil {
		return 0, err
	}
	return aggregator.AverageUltHoldTime(charges, starts, rounds), nil
}

// KillsPerUltimate returns the player's ultimate kills per ultimate charged.
func (s *Service) KillsPerUltimate(ctx context.Context, mapID int64, playerName string) (float64, error) {
	charges, err := s.db.UltimateEvents(ctx, mapID, storage.UltimateCharged, playerName)
	if err != nil {
		return 0, err
	}
	kills, err := s.db.Kills(ctx, mapID)
	if err != nil {
		return 0, err
	}
	return aggregator.KillsPerUltimate(kills, playerName, len(charges)), nil
}

// Duels returns the player's hero matchup table for the map.
func (s *Service) Duels(ctx context.Context, mapID int64, playerName string) ([]model.Duel, error) {
	kills, err := s.db.Kills(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return aggregator.Duels(kills, playerName), nil
}

// DroughtTime returns the mean gap between the player's consecutive kills.
func (s *Service) DroughtTime(ctx context.Context, mapID int64, playerName string) (float64, error) {
	kills, err := s.db.Kills(ctx, mapID)
	if err != nil {
		return 0, err
	}
	return aggregator.DroughtTime(kills, playerName), nil
}

// Ajaxes counts the player's Lúcio deaths at the end of their own ultimate.
func (s *Service) Ajaxes(ctx context.Context, mapID int64, playerName string) (int, error) {
	ends, err := s.db.UltimateEvents(ctx, mapID, storage.UltimateEnd, playerName)
	if err != nil {
		return 0, err
	}
	if len(ends) == 0 {
		return 0, nil
	}
	kills, err := s.db.Kills(ctx, mapID)
	if err != nil {
		return 0, err
	}
	return aggregator.Ajaxes(kills, ends, playerName), nil
}

// Fights groups the map's kills and resurrections into fights.
func (s *Service) Fights(ctx context.Context, mapID int64) ([]model.Fight, error) {
	kills, err := s.db.Kills(ctx, mapID)
	if err != nil {
		return nil, err
	}
	rezzes, err := s.db.MercyRezzes(ctx, mapID)
	if err != nil {
		return nil, err
	}
	return aggregator.GroupFights(kills, rezzes), nil
}

// FightSummary returns the player's first picks, first deaths and reversals
// over the map's fights.
func (s *Service) FightSummary(ctx context.Context, mapID int64, playerName string) (model.FightSummary, error) {
	fights, err := s.Fights(ctx, mapID)
	if err != nil {
		return model.FightSummary{}, err
	}
	rows, err := s.db.PlayerStats(ctx, mapID, playerName)
	if err != nil {
		return model.FightSummary{}, err
	}
	return aggregator.SummarizeFights(fights, playerName, teamOf(playerName, rows, fights)), nil
}

// FletaDeadlift is the player's share of their team's final blows against the
// rest of the team, in percent.
func (s *Service) FletaDeadlift(ctx context.Context, mapID int64, playerName string) (float64, error) {
	final, err := s.db.FinalPlayerStats(ctx, mapID)
	if err != nil {
		return 0, err
	}
	return aggregator.FletaDeadlift(final, playerName), nil
}

// MostPlayedHero returns the hero the player spent the most time on and its role.
func (s *Service) MostPlayedHero(ctx context.Context, mapID int64, playerName string) (string, model.Role, error) {
	rows, err := s.db.PlayerStats(ctx, mapID, playerName)
	if err != nil {
		return "", model.RoleUnknown, err
	}
	hero := aggregator.MostPlayedHero(rows)
	return hero, model.HeroRole(hero), nil
}

// teamOf finds the player's team from their stat rows, falling back to the
// fights they took part in.
func teamOf(playerName string, rows []model.PlayerStat, fights []model.Fight) string {
	for _, r := range rows {
		if r.PlayerTeam != "" {
			return r.PlayerTeam
		}
	}
	for _, f := range fights {
		for _, k := range f.Kills() {
			switch playerName {
			case k.AttackerName:
				return k.AttackerTeam
			case k.VictimName:
				return k.VictimTeam
			}
		}
	}
	return ""
}
