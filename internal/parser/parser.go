// Package parser decodes the per-map event batch produced by the upstream log
// tokenizer. A batch is a JSON object keyed by event type whose values are
// lists of positional rows: [event_type, match_time, ...fields].
package parser

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/pable/go-scrim-metrics/internal/model"
)

// ErrShape reports a row that does not match its event type's layout.
var ErrShape = errors.New("malformed event row")

// ParseBatchFile reads and decodes one map's event batch from a JSON file.
// Files ending in .gz or .zst are decompressed on the fly.
func ParseBatchFile(path string, logger zerolog.Logger) (*model.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	b, err := DecodeBatch(src, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// DecodeBatch decodes a batch from r. Event types it does not know are skipped.
func DecodeBatch(r io.Reader, logger zerolog.Logger) (*model.Batch, error) {
	var raw map[string][][]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := &model.Batch{}
	for _, key := range keys {
		decode, ok := decoders[key]
		if !ok {
			logger.Debug().Str("event_type", key).Int("rows", len(raw[key])).Msg("skipping unknown event type")
			continue
		}
		for i, fields := range raw[key] {
			if err := decode(b, newRow(key, fields)); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", key, i, err)
			}
		}
	}
	return b, nil
}

type decodeFunc func(b *model.Batch, r *row) error

var decoders = map[string]decodeFunc{
	"match_start": func(b *model.Batch, r *row) error {
		e := model.MatchStart{MatchTime: r.time(), MapName: r.str(), MapType: r.str(), Team1Name: r.str(), Team2Name: r.str()}
		return r.done(func() { b.MatchStart = append(b.MatchStart, e) })
	},
	"match_end": func(b *model.Batch, r *row) error {
		e := model.MatchEnd{MatchTime: r.time(), RoundNumber: r.int(), Team1Score: r.int(), Team2Score: r.int()}
		return r.done(func() { b.MatchEnd = append(b.MatchEnd, e) })
	},
	"round_start": func(b *model.Batch, r *row) error {
		e := model.RoundStart{
			MatchTime: r.time(), RoundNumber: r.int(), CapturingTeam: r.str(),
			Team1Score: r.int(), Team2Score: r.int(), ObjectiveIndex: r.int(),
		}
		return r.done(func() { b.RoundStart = append(b.RoundStart, e) })
	},
	"round_end": func(b *model.Batch, r *row) error {
		e := model.RoundEnd{
			MatchTime: r.time(), RoundNumber: r.int(), CapturingTeam: r.str(),
			Team1Score: r.int(), Team2Score: r.int(), ObjectiveIndex: r.int(),
			ControlTeam1Progress: r.num(), ControlTeam2Progress: r.num(), MatchTimeRemaining: r.num(),
		}
		return r.done(func() { b.RoundEnd = append(b.RoundEnd, e) })
	},
	"setup_complete": func(b *model.Batch, r *row) error {
		e := model.SetupComplete{MatchTime: r.time(), RoundNumber: r.int(), MatchTimeRemaining: r.num()}
		return r.done(func() { b.SetupComplete = append(b.SetupComplete, e) })
	},
	"objective_captured": func(b *model.Batch, r *row) error {
		e := model.ObjectiveCaptured{
			MatchTime: r.time(), RoundNumber: r.int(), CapturingTeam: r.str(), ObjectiveIndex: r.int(),
			ControlTeam1Progress: r.num(), ControlTeam2Progress: r.num(), MatchTimeRemaining: r.num(),
		}
		return r.done(func() { b.ObjectiveCaptured = append(b.ObjectiveCaptured, e) })
	},
	"objective_updated": func(b *model.Batch, r *row) error {
		e := model.ObjectiveUpdated{MatchTime: r.time(), RoundNumber: r.int(), PreviousObjectiveIndex: r.int(), CurrentObjectiveIndex: r.int()}
		return r.done(func() { b.ObjectiveUpdated = append(b.ObjectiveUpdated, e) })
	},
	"payload_progress": func(b *model.Batch, r *row) error {
		e := r.progress()
		return r.done(func() { b.PayloadProgress = append(b.PayloadProgress, e) })
	},
	"point_progress": func(b *model.Batch, r *row) error {
		e := r.progress()
		return r.done(func() { b.PointProgress = append(b.PointProgress, e) })
	},
	"kill": func(b *model.Batch, r *row) error {
		e := model.Kill{
			MatchTime:    r.time(),
			AttackerTeam: r.str(), AttackerName: r.str(), AttackerHero: r.str(),
			VictimTeam: r.str(), VictimName: r.str(), VictimHero: r.str(),
			Ability: r.str(), Damage: r.num(), IsCriticalHit: r.bool(), IsEnvironmental: r.bool(),
		}
		return r.done(func() { b.Kill = append(b.Kill, e) })
	},
	"damage": func(b *model.Batch, r *row) error {
		e := model.Damage{
			MatchTime:    r.time(),
			AttackerTeam: r.str(), AttackerName: r.str(), AttackerHero: r.str(),
			VictimTeam: r.str(), VictimName: r.str(), VictimHero: r.str(),
			Ability: r.str(), Amount: r.num(), IsCriticalHit: r.bool(), IsEnvironmental: r.bool(),
		}
		return r.done(func() { b.Damage = append(b.Damage, e) })
	},
	"healing": func(b *model.Batch, r *row) error {
		e := model.Healing{
			MatchTime:  r.time(),
			HealerTeam: r.str(), HealerName: r.str(), HealerHero: r.str(),
			HealeeTeam: r.str(), HealeeName: r.str(), HealeeHero: r.str(),
			Ability: r.str(), Amount: r.num(), IsHealthPack: r.bool(),
		}
		return r.done(func() { b.Healing = append(b.Healing, e) })
	},
	"hero_spawn": func(b *model.Batch, r *row) error {
		e := r.heroChange()
		return r.done(func() { b.HeroSpawn = append(b.HeroSpawn, e) })
	},
	"hero_swap": func(b *model.Batch, r *row) error {
		e := r.heroChange()
		return r.done(func() { b.HeroSwap = append(b.HeroSwap, e) })
	},
	"mercy_rez": func(b *model.Batch, r *row) error {
		e := model.MercyRez{
			MatchTime:       r.time(),
			ResurrecterTeam: r.str(), ResurrecterName: r.str(), ResurrecterHero: r.str(),
			ResurrecteeTeam: r.str(), ResurrecteeName: r.str(), ResurrecteeHero: r.str(),
		}
		return r.done(func() { b.MercyRez = append(b.MercyRez, e) })
	},
	"ultimate_charged": func(b *model.Batch, r *row) error {
		e := r.ultimate()
		return r.done(func() { b.UltimateCharged = append(b.UltimateCharged, e) })
	},
	"ultimate_start": func(b *model.Batch, r *row) error {
		e := r.ultimate()
		return r.done(func() { b.UltimateStart = append(b.UltimateStart, e) })
	},
	"ultimate_end": func(b *model.Batch, r *row) error {
		e := r.ultimate()
		return r.done(func() { b.UltimateEnd = append(b.UltimateEnd, e) })
	},
	"defensive_assist": func(b *model.Batch, r *row) error {
		e := r.assist()
		return r.done(func() { b.DefensiveAssist = append(b.DefensiveAssist, e) })
	},
	"offensive_assist": func(b *model.Batch, r *row) error {
		e := r.assist()
		return r.done(func() { b.OffensiveAssist = append(b.OffensiveAssist, e) })
	},
	"player_stat": func(b *model.Batch, r *row) error {
		e := model.PlayerStat{
			MatchTime:   r.time(),
			RoundNumber: r.int(),
			PlayerTeam:  r.str(), PlayerName: r.str(), PlayerHero: r.str(),
			Eliminations: r.int(), FinalBlows: r.int(), Deaths: r.int(),
			AllDamageDealt: r.num(), BarrierDamageDealt: r.num(), HeroDamageDealt: r.num(),
			HealingDealt: r.num(), HealingReceived: r.num(), SelfHealing: r.num(),
			DamageTaken: r.num(), DamageBlocked: r.num(),
			DefensiveAssists: r.int(), OffensiveAssists: r.int(),
			UltimatesEarned: r.int(), UltimatesUsed: r.int(),
			MultikillBest: r.int(), Multikills: r.int(), SoloKills: r.int(), ObjectiveKills: r.int(),
			EnvironmentalKills: r.int(), EnvironmentalDeaths: r.int(),
			CriticalHits: r.int(), CriticalHitAccuracy: r.num(),
			ScopedAccuracy: r.num(), ScopedCriticalHitAccuracy: r.num(), ScopedCriticalHitKills: r.int(),
			ShotsFired: r.int(), ShotsHit: r.int(), ShotsMissed: r.int(),
			ScopedShots: r.int(), ScopedShotsHit: r.int(),
			WeaponAccuracy: r.num(), HeroTimePlayed: r.num(),
		}
		return r.done(func() { b.PlayerStat = append(b.PlayerStat, e) })
	},
}

// row is a cursor over one positional row. The first error sticks and every
// later read returns a zero value, so decoders can read all fields before
// checking.
type row struct {
	key    string
	fields []any
	pos    int
	err    error
}

func newRow(key string, fields []any) *row {
	r := &row{key: key, fields: fields, pos: 1}
	if len(fields) == 0 {
		r.err = fmt.Errorf("%w: empty row", ErrShape)
		return r
	}
	if s, ok := fields[0].(string); !ok || s != key {
		r.err = fmt.Errorf("%w: event type %v in %q list", ErrShape, fields[0], key)
	}
	return r
}

func (r *row) next() (any, bool) {
	if r.err != nil {
		return nil, false
	}
	if r.pos >= len(r.fields) {
		r.err = fmt.Errorf("%w: %d fields, need more", ErrShape, len(r.fields))
		return nil, false
	}
	v := r.fields[r.pos]
	r.pos++
	return v, true
}

func (r *row) fail(want string, v any) {
	r.err = fmt.Errorf("%w: field %d is %T(%v), want %s", ErrShape, r.pos-1, v, v, want)
}

// done applies the decoded event when the row was read cleanly and exactly.
func (r *row) done(apply func()) error {
	if r.err == nil && r.pos != len(r.fields) {
		r.err = fmt.Errorf("%w: %d fields, want %d", ErrShape, len(r.fields), r.pos)
	}
	if r.err != nil {
		return r.err
	}
	apply()
	return nil
}

func (r *row) str() string {
	v, ok := r.next()
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	}
	r.fail("string", v)
	return ""
}

func (r *row) num() float64 {
	v, ok := r.next()
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			return f
		}
	}
	r.fail("number", v)
	return 0
}

func (r *row) int() int {
	f := r.num()
	if f != math.Trunc(f) {
		r.fail("integer", f)
		return 0
	}
	return int(f)
}

func (r *row) time() float64 {
	t := r.num()
	if r.err == nil && t < 0 {
		r.fail("non-negative match time", t)
	}
	return t
}

func (r *row) bool() bool {
	v, ok := r.next()
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		if t == 0 || t == 1 {
			return t == 1
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true
		case "false", "0", "":
			return false
		}
	}
	r.fail("boolean", v)
	return false
}

func (r *row) progress() model.ObjectiveProgress {
	return model.ObjectiveProgress{
		MatchTime: r.time(), RoundNumber: r.int(), CapturingTeam: r.str(),
		ObjectiveIndex: r.int(), CaptureProgress: r.num(),
	}
}

func (r *row) heroChange() model.HeroChange {
	return model.HeroChange{
		MatchTime:  r.time(),
		PlayerTeam: r.str(), PlayerName: r.str(), PlayerHero: r.str(),
		PreviousHero: r.str(), HeroTimePlayed: r.num(),
	}
}

func (r *row) ultimate() model.Ultimate {
	return model.Ultimate{
		MatchTime:  r.time(),
		PlayerTeam: r.str(), PlayerName: r.str(), PlayerHero: r.str(),
		HeroDuplicated: r.str(), UltimateID: r.int(),
	}
}

func (r *row) assist() model.Assist {
	return model.Assist{
		MatchTime:  r.time(),
		PlayerTeam: r.str(), PlayerName: r.str(), PlayerHero: r.str(),
		HeroDuplicated: r.str(),
	}
}
