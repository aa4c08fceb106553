// Package aggregator derives per-player metrics from the raw event rows of one
// map. Every function is pure: callers load the rows, these functions only
// sort, pair and count them. Missing data yields zero values, never errors.
package aggregator

import (
	"sort"

	"github.com/pable/go-scrim-metrics/internal/model"
)

// FightGap is the largest gap, in seconds, between two consecutive events of
// the same fight.
const FightGap = 15.0

// ---- Fights ----

// GroupFights merges kills and resurrections into fights. Events are sorted by
// match time first, so the grouping does not depend on input order.
func GroupFights(kills []model.Kill, rezzes []model.MercyRez) []model.Fight {
	events := make([]model.FightEvent, 0, len(kills)+len(rezzes))
	for i := range kills {
		k := kills[i]
		events = append(events, model.FightEvent{Kind: model.FightKill, MatchTime: k.MatchTime, Kill: &k})
	}
	for i := range rezzes {
		r := rezzes[i]
		events = append(events, model.FightEvent{Kind: model.FightRez, MatchTime: r.MatchTime, Rez: &r})
	}
	sort.Slice(events, func(i, j int) bool { return eventLess(events[i], events[j]) })

	var fights []model.Fight
	for _, e := range events {
		n := len(fights)
		if n > 0 && e.MatchTime-fights[n-1].End() <= FightGap {
			fights[n-1].Events = append(fights[n-1].Events, e)
			continue
		}
		fights = append(fights, model.Fight{Events: []model.FightEvent{e}})
	}
	return fights
}

// eventLess orders fight events by time, kills before resurrections, then by
// the names involved so ties break the same way whatever the input order.
func eventLess(a, b model.FightEvent) bool {
	if a.MatchTime != b.MatchTime {
		return a.MatchTime < b.MatchTime
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	ka, kb := eventKey(a), eventKey(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return false
}

func eventKey(e model.FightEvent) [4]string {
	switch {
	case e.Kill != nil:
		return [4]string{e.Kill.AttackerName, e.Kill.VictimName, e.Kill.AttackerHero, e.Kill.VictimHero}
	case e.Rez != nil:
		return [4]string{e.Rez.ResurrecterName, e.Rez.ResurrecteeName, e.Rez.ResurrecterHero, e.Rez.ResurrecteeHero}
	}
	return [4]string{}
}

// SummarizeFights counts first picks, first deaths and reversals for a player
// on the given team.
//
// A reversal is a fight the player got no kill in while teammates got more
// than one.
func SummarizeFights(fights []model.Fight, player, team string) model.FightSummary {
	s := model.FightSummary{Fights: len(fights)}
	for _, f := range fights {
		kills := f.Kills()
		if len(kills) == 0 {
			continue
		}
		if kills[0].AttackerName == player {
			s.FirstPicks++
		}
		if kills[0].VictimName == player {
			s.FirstDeaths++
		}

		own, mates := 0, 0
		for _, k := range kills {
			switch {
			case k.AttackerName == player:
				own++
			case team != "" && k.AttackerTeam == team:
				mates++
			}
		}
		if own == 0 && mates > 1 {
			s.Reversals++
		}
	}
	return s
}

// DroughtTime is the mean gap, in seconds, between a player's consecutive
// kills across the map's fights. Zero or one kill gives 0.
func DroughtTime(kills []model.Kill, player string) float64 {
	var times []float64
	for _, f := range GroupFights(kills, nil) {
		for _, k := range f.Kills() {
			if k.AttackerName == player {
				times = append(times, k.MatchTime)
			}
		}
	}
	if len(times) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(times); i++ {
		total += times[i] - times[i-1]
	}
	return total / float64(len(times)-1)
}

// ---- Ultimate economy ----

func sortedTimes(rows []model.Ultimate) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.MatchTime
	}
	sort.Float64s(out)
	return out
}

// AverageUltChargeTime is the mean time a player takes to build an ultimate.
// The first charge counts from map start; every later one from the end of the
// previous ultimate. Negative gaps come from round resets and are dropped.
func AverageUltChargeTime(charges, ends []model.Ultimate) float64 {
	if len(charges) == 0 {
		return 0
	}
	c := sortedTimes(charges)
	e := sortedTimes(ends)

	series := []float64{c[0]}
	for i := 0; i < len(e) && i+1 < len(c); i++ {
		if gap := c[i+1] - e[i]; gap >= 0 {
			series = append(series, gap)
		}
	}
	return mean(series)
}

// AverageUltHoldTime is the mean time between charging an ultimate and using
// it. Each charge pairs with the earliest unused start at or after it in the
// same round; charges with no such start are left out.
func AverageUltHoldTime(charges, starts []model.Ultimate, rounds []model.RoundEnd) float64 {
	c := sortedTimes(charges)
	s := sortedTimes(starts)
	bounds := make([]float64, len(rounds))
	for i, r := range rounds {
		bounds[i] = r.MatchTime
	}
	sort.Float64s(bounds)

	var holds []float64
	j := 0
	for _, ct := range c {
		for j < len(s) && s[j] < ct {
			j++
		}
		if j == len(s) {
			break
		}
		if roundIndex(bounds, ct) != roundIndex(bounds, s[j]) {
			continue
		}
		holds = append(holds, s[j]-ct)
		j++
	}
	return mean(holds)
}

// roundIndex returns the index of the earliest round boundary at or after t.
// Times past the last boundary belong to the last recorded round, so a start
// logged after the final round_end can still pair with a charge from that
// round.
func roundIndex(bounds []float64, t float64) int {
	i := sort.SearchFloat64s(bounds, t)
	if i == len(bounds) && i > 0 {
		return i - 1
	}
	return i
}

// KillsPerUltimate is the player's ultimate kills divided by the number of
// ultimates charged; 0 without charges.
func KillsPerUltimate(kills []model.Kill, player string, charges int) float64 {
	if charges == 0 {
		return 0
	}
	n := 0
	for _, k := range kills {
		if k.AttackerName == player && k.Ability == model.AbilityUltimate {
			n++
		}
	}
	return float64(n) / float64(charges)
}

// Ajaxes counts the player's deaths on Lúcio at the exact time one of their
// own Lúcio ultimates ended.
func Ajaxes(kills []model.Kill, ends []model.Ultimate, player string) int {
	endTimes := make(map[float64]bool)
	for _, e := range ends {
		if e.PlayerName == player && e.PlayerHero == model.HeroLucio {
			endTimes[e.MatchTime] = true
		}
	}
	if len(endTimes) == 0 {
		return 0
	}
	n := 0
	for _, k := range kills {
		if k.VictimName == player && k.VictimHero == model.HeroLucio && endTimes[k.MatchTime] {
			n++
		}
	}
	return n
}

// ---- Duels ----

type duelKey struct {
	playerHero, enemyHero string
}

type duelEntry struct {
	duel      model.Duel
	firstSeen float64
}

// Duels builds the player's hero matchup table from every kill they were part
// of. Each entry is one (player hero, enemy hero) pair; EnemyName is the
// earliest enemy met in that matchup. Entries are sorted by enemy name, then
// player hero, then enemy hero. Self-kills and kills without an attacker are
// skipped.
func Duels(kills []model.Kill, player string) []model.Duel {
	byKey := make(map[duelKey]*duelEntry)
	get := func(playerHero, enemyName, enemyHero string, t float64) *model.Duel {
		k := duelKey{playerHero, enemyHero}
		e, ok := byKey[k]
		if !ok {
			e = &duelEntry{
				duel:      model.Duel{PlayerName: player, PlayerHero: playerHero, EnemyName: enemyName, EnemyHero: enemyHero},
				firstSeen: t,
			}
			byKey[k] = e
		} else if t < e.firstSeen || (t == e.firstSeen && enemyName < e.duel.EnemyName) {
			e.duel.EnemyName, e.firstSeen = enemyName, t
		}
		return &e.duel
	}

	for _, k := range kills {
		if k.AttackerName == "" || k.AttackerName == k.VictimName {
			continue
		}
		switch player {
		case k.AttackerName:
			get(k.AttackerHero, k.VictimName, k.VictimHero, k.MatchTime).EnemyDeaths++
		case k.VictimName:
			get(k.VictimHero, k.AttackerName, k.AttackerHero, k.MatchTime).EnemyKills++
		}
	}

	out := make([]model.Duel, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, e.duel)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EnemyName != b.EnemyName {
			return a.EnemyName < b.EnemyName
		}
		if a.PlayerHero != b.PlayerHero {
			return a.PlayerHero < b.PlayerHero
		}
		return a.EnemyHero < b.EnemyHero
	})
	return out
}

// DuelWinrate is the mean enemy win rate over the player's matchups, in percent.
func DuelWinrate(duels []model.Duel) float64 {
	if len(duels) == 0 {
		return 0
	}
	var total float64
	for _, d := range duels {
		total += d.EnemyWinRate()
	}
	return total / float64(len(duels))
}

// ---- Snapshot-derived ----

// MostPlayedHero returns the hero with the largest summed hero time across the
// rows, ties broken by name. Empty when there are no rows.
func MostPlayedHero(rows []model.PlayerStat) string {
	byHero := make(map[string]float64)
	for _, r := range rows {
		byHero[r.PlayerHero] += r.HeroTimePlayed
	}
	best, bestTime := "", -1.0
	for hero, t := range byHero {
		if t > bestTime || (t == bestTime && hero < best) {
			best, bestTime = hero, t
		}
	}
	return best
}

// FletaDeadlift is the player's final blows as a percentage of the rest of
// their team's final blows, from the final snapshot rows of the map.
func FletaDeadlift(final []model.PlayerStat, player string) float64 {
	team, own := "", 0
	for _, r := range final {
		if r.PlayerName == player {
			team = r.PlayerTeam
			own += r.FinalBlows
		}
	}
	if team == "" {
		return 0
	}
	teamTotal := 0
	for _, r := range final {
		if r.PlayerTeam == team {
			teamTotal += r.FinalBlows
		}
	}
	rest := teamTotal - own
	if rest == 0 {
		return 0
	}
	return float64(own) / float64(rest) * 100
}

// DeathsPer10 is the player's deaths per ten minutes of hero time in the final
// snapshot rows.
func DeathsPer10(final []model.PlayerStat, player string) float64 {
	deaths, secs := 0, 0.0
	for _, r := range final {
		if r.PlayerName == player {
			deaths += r.Deaths
			secs += r.HeroTimePlayed
		}
	}
	if secs == 0 {
		return 0
	}
	return float64(deaths) / secs * 600
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
