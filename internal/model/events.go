package model

// ---- Event rows emitted by the upstream log tokenizer ----
//
// MatchTime is elapsed seconds since the map started. Rows arrive grouped by
// event type with no ordering guarantee across types.

type MatchStart struct {
	MatchTime float64
	MapName   string
	MapType   string
	Team1Name string
	Team2Name string
}

type MatchEnd struct {
	MatchTime   float64
	RoundNumber int
	Team1Score  int
	Team2Score  int
}

type RoundStart struct {
	MatchTime      float64
	RoundNumber    int
	CapturingTeam  string
	Team1Score     int
	Team2Score     int
	ObjectiveIndex int
}

type RoundEnd struct {
	MatchTime            float64
	RoundNumber          int
	CapturingTeam        string
	Team1Score           int
	Team2Score           int
	ObjectiveIndex       int
	ControlTeam1Progress float64
	ControlTeam2Progress float64
	MatchTimeRemaining   float64
}

type SetupComplete struct {
	MatchTime          float64
	RoundNumber        int
	MatchTimeRemaining float64
}

type ObjectiveCaptured struct {
	MatchTime            float64
	RoundNumber          int
	CapturingTeam        string
	ObjectiveIndex       int
	ControlTeam1Progress float64
	ControlTeam2Progress float64
	MatchTimeRemaining   float64
}

type ObjectiveUpdated struct {
	MatchTime              float64
	RoundNumber            int
	PreviousObjectiveIndex int
	CurrentObjectiveIndex  int
}

// ObjectiveProgress is shared by payload and control point progress rows.
type ObjectiveProgress struct {
	MatchTime       float64
	RoundNumber     int
	CapturingTeam   string
	ObjectiveIndex  int
	CaptureProgress float64
}

type Kill struct {
	MatchTime       float64
	AttackerTeam    string
	AttackerName    string
	AttackerHero    string
	VictimTeam      string
	VictimName      string
	VictimHero      string
	Ability         string // "Primary Fire", "Ultimate", ...
	Damage          float64
	IsCriticalHit   bool
	IsEnvironmental bool
}

// AbilityUltimate is the ability name the logs use for ultimate kills.
const AbilityUltimate = "Ultimate"

type Damage struct {
	MatchTime       float64
	AttackerTeam    string
	AttackerName    string
	AttackerHero    string
	VictimTeam      string
	VictimName      string
	VictimHero      string
	Ability         string
	Amount          float64
	IsCriticalHit   bool
	IsEnvironmental bool
}

type Healing struct {
	MatchTime    float64
	HealerTeam   string
	HealerName   string
	HealerHero   string
	HealeeTeam   string
	HealeeName   string
	HealeeHero   string
	Ability      string
	Amount       float64
	IsHealthPack bool
}

// HeroChange is shared by hero spawn and hero swap rows.
type HeroChange struct {
	MatchTime      float64
	PlayerTeam     string
	PlayerName     string
	PlayerHero     string
	PreviousHero   string
	HeroTimePlayed float64
}

type MercyRez struct {
	MatchTime       float64
	ResurrecterTeam string
	ResurrecterName string
	ResurrecterHero string
	ResurrecteeTeam string
	ResurrecteeName string
	ResurrecteeHero string
}

// Ultimate is shared by ultimate charged, start and end rows.
type Ultimate struct {
	MatchTime      float64
	PlayerTeam     string
	PlayerName     string
	PlayerHero     string
	HeroDuplicated string
	UltimateID     int
}

// Assist is shared by defensive and offensive assist rows.
type Assist struct {
	MatchTime      float64
	PlayerTeam     string
	PlayerName     string
	PlayerHero     string
	HeroDuplicated string
}

// PlayerStat is a cumulative-since-map-start counter snapshot for one player on
// one hero. The rows at the map's last snapshot time are the map totals.
type PlayerStat struct {
	MatchTime   float64
	RoundNumber int
	PlayerTeam  string
	PlayerName  string
	PlayerHero  string
	// PlayerID is the internal identity resolved at ingestion, nil when unknown.
	PlayerID *int64

	Eliminations              int
	FinalBlows                int
	Deaths                    int
	AllDamageDealt            float64
	BarrierDamageDealt        float64
	HeroDamageDealt           float64
	HealingDealt              float64
	HealingReceived           float64
	SelfHealing               float64
	DamageTaken               float64
	DamageBlocked             float64
	DefensiveAssists          int
	OffensiveAssists          int
	UltimatesEarned           int
	UltimatesUsed             int
	MultikillBest             int
	Multikills                int
	SoloKills                 int
	ObjectiveKills            int
	EnvironmentalKills        int
	EnvironmentalDeaths       int
	CriticalHits              int
	CriticalHitAccuracy       float64
	ScopedAccuracy            float64
	ScopedCriticalHitAccuracy float64
	ScopedCriticalHitKills    int
	ShotsFired                int
	ShotsHit                  int
	ShotsMissed               int
	ScopedShots               int
	ScopedShotsHit            int
	WeaponAccuracy            float64
	HeroTimePlayed            float64
}

// Batch is every event of one played map, keyed by event type.
type Batch struct {
	MatchStart        []MatchStart
	MatchEnd          []MatchEnd
	RoundStart        []RoundStart
	RoundEnd          []RoundEnd
	SetupComplete     []SetupComplete
	ObjectiveCaptured []ObjectiveCaptured
	ObjectiveUpdated  []ObjectiveUpdated
	PayloadProgress   []ObjectiveProgress
	PointProgress     []ObjectiveProgress
	Kill              []Kill
	Damage            []Damage
	Healing           []Healing
	HeroSpawn         []HeroChange
	HeroSwap          []HeroChange
	MercyRez          []MercyRez
	UltimateCharged   []Ultimate
	UltimateStart     []Ultimate
	UltimateEnd       []Ultimate
	DefensiveAssist   []Assist
	OffensiveAssist   []Assist
	PlayerStat        []PlayerStat
}
