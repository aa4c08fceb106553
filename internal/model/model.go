package model

import "time"

// Scrim is one recorded practice session. It owns one or more maps.
type Scrim struct {
	ID       int64
	PublicID string
	Name     string
	Date     time.Time
	// CreatorID is the identity of whoever uploaded the scrim.
	CreatorID string
	TeamID    int64
	Team2ID   *int64 // set when both sides are internal squads
	// OpponentName overrides the opponent display name from the logs.
	OpponentName *string
	CreatedAt    time.Time
}

// Map is one played map within a scrim. Event rows never reference it directly,
// they go through MapDataID.
type Map struct {
	ID         int64
	ScrimID    int64
	MapDataID  int64
	Name       string
	ReplayCode *string
}

// Overview is a database-wide summary.
type Overview struct {
	Scrims   int
	Maps     int
	Players  int
	Kills    int
	Earliest time.Time
	Latest   time.Time
}

// MapPlays counts how often a map was played across all scrims.
type MapPlays struct {
	Name  string
	Plays int
}

// Appearance is one map a player has stat rows on.
type Appearance struct {
	ScrimID   int64
	ScrimName string
	Date      time.Time
	MapID     int64
	MapName   string
}

// ---- Derived analytics ----

// Duel aggregates the kill/death exchanges of one player in one hero matchup
// (player hero, enemy hero). EnemyName is the first enemy met on that hero.
type Duel struct {
	PlayerName string `json:"player_name"`
	PlayerHero string `json:"player_hero"`
	EnemyName  string `json:"enemy_name"`
	EnemyHero  string `json:"enemy_hero"`
	// EnemyKills counts how often the enemy killed the player.
	EnemyKills int `json:"enemy_kills"`
	// EnemyDeaths counts how often the player killed the enemy.
	EnemyDeaths int `json:"enemy_deaths"`
}

// EnemyWinRate is the share of exchanges the enemy won, in percent.
func (d Duel) EnemyWinRate() float64 {
	total := d.EnemyKills + d.EnemyDeaths
	if total == 0 {
		return 0
	}
	return float64(d.EnemyKills) / float64(total) * 100
}

// FightEventKind distinguishes the events a fight is built from.
type FightEventKind int

const (
	FightKill FightEventKind = iota
	FightRez
)

// FightEvent is a kill or a resurrection placed on the fight timeline.
type FightEvent struct {
	Kind      FightEventKind
	MatchTime float64
	Kill      *Kill
	Rez       *MercyRez
}

// Fight is a maximal run of kill/resurrection events no more than the fight
// gap apart.
type Fight struct {
	Events []FightEvent
}

// Start returns the match time of the first event.
func (f Fight) Start() float64 {
	if len(f.Events) == 0 {
		return 0
	}
	return f.Events[0].MatchTime
}

// End returns the match time of the last event.
func (f Fight) End() float64 {
	if len(f.Events) == 0 {
		return 0
	}
	return f.Events[len(f.Events)-1].MatchTime
}

// Kills returns the kill rows of the fight in chronological order.
func (f Fight) Kills() []Kill {
	var out []Kill
	for _, e := range f.Events {
		if e.Kind == FightKill && e.Kill != nil {
			out = append(out, *e.Kill)
		}
	}
	return out
}

// FightSummary holds one player's fight-level counters.
type FightSummary struct {
	Fights      int
	FirstPicks  int
	FirstDeaths int
	Reversals   int
}

// FirstPickPct is the share of fights opened by the player's kill.
func (s FightSummary) FirstPickPct() float64 { return pct(s.FirstPicks, s.Fights) }

// FirstDeathPct is the share of fights opened by the player's death.
func (s FightSummary) FirstDeathPct() float64 { return pct(s.FirstDeaths, s.Fights) }

// ReversalPct is the share of fights the team won multiple kills without the player.
func (s FightSummary) ReversalPct() float64 { return pct(s.Reversals, s.Fights) }

// PlayerReport is the per-player, per-map statistics report.
type PlayerReport struct {
	MapID      int64  `json:"map_id"`
	PlayerName string `json:"player_name"`
	PlayerTeam string `json:"player_team"`
	Hero       string `json:"hero"`
	Role       Role   `json:"role"`

	FinalStats []PlayerStat `json:"final_stats"`

	FletaDeadliftPct float64 `json:"fleta_deadlift_pct"`

	Fights         int     `json:"fights"`
	FirstPicks     int     `json:"first_picks"`
	FirstPickPct   float64 `json:"first_pick_pct"`
	FirstDeaths    int     `json:"first_deaths"`
	FirstDeathPct  float64 `json:"first_death_pct"`
	Reversals      int     `json:"reversals"`
	ReversalPct    float64 `json:"reversal_pct"`
	DeathsPer10Min float64 `json:"deaths_per_10_min"`

	Ajaxes int `json:"ajaxes"`

	AvgUltChargeTime float64 `json:"avg_ult_charge_time"`
	AvgUltHoldTime   float64 `json:"avg_ult_hold_time"`
	KillsPerUltimate float64 `json:"kills_per_ultimate"`

	DroughtTime float64 `json:"drought_time"`
	Duels       []Duel  `json:"duels"`

	XFactor float64 `json:"x_factor"`
}

// Totals sums the counters of the report's final stat rows.
func (r *PlayerReport) Totals() PlayerStat {
	var t PlayerStat
	for _, s := range r.FinalStats {
		t.PlayerName = s.PlayerName
		t.PlayerTeam = s.PlayerTeam
		t.Eliminations += s.Eliminations
		t.FinalBlows += s.FinalBlows
		t.Deaths += s.Deaths
		t.HeroDamageDealt += s.HeroDamageDealt
		t.HealingDealt += s.HealingDealt
		t.DamageBlocked += s.DamageBlocked
		t.HeroTimePlayed += s.HeroTimePlayed
	}
	return t
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
