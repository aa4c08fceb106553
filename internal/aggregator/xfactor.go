package aggregator

import "github.com/pable/go-scrim-metrics/internal/model"

// XFactorInputs are the normalized components the X-Factor blends. All
// percentages are on a 0-100 scale.
type XFactorInputs struct {
	Role           model.Role
	FletaPct       float64
	DeathsPer10    float64
	FirstPickPct   float64
	FirstDeathPct  float64
	DuelWinratePct float64 // enemy win rate, see DuelWinrate
	ReversalPct    float64
}

type xfactorWeights struct {
	fleta, deaths, firstPick, firstDeath, duel, reversal float64
}

var roleWeights = map[model.Role]xfactorWeights{
	model.RoleDamage:  {fleta: .50, deaths: .20, firstPick: .10, duel: .10, reversal: .10},
	model.RoleTank:    {fleta: .50, deaths: .20, firstDeath: .15, duel: .05, reversal: .10},
	model.RoleSupport: {fleta: .50, deaths: .20, duel: .15, reversal: .15},
}

// DeathsScore rewards low death rates: above five deaths per ten minutes the
// score is the negated rate, otherwise one plus the rate.
func DeathsScore(per10 float64) float64 {
	if per10 > 5 {
		return -per10
	}
	return 1 + per10
}

// XFactor is the role-weighted impact score. Unknown roles score 0.
//
// TODO: the duel term adds the enemy's win rate with a positive weight;
// confirm with analysts whether it should be the player's win rate instead.
func XFactor(in XFactorInputs) float64 {
	w, ok := roleWeights[in.Role]
	if !ok {
		return 0
	}
	return in.FletaPct*w.fleta +
		DeathsScore(in.DeathsPer10)*w.deaths +
		in.FirstPickPct*w.firstPick +
		in.FirstDeathPct*w.firstDeath +
		in.DuelWinratePct*w.duel +
		in.ReversalPct*w.reversal
}
