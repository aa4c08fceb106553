package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-scrim-metrics/internal/aggregator"
	"github.com/pable/go-scrim-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func opponent(s model.Scrim) string {
	if s.OpponentName != nil {
		return *s.OpponentName
	}
	return "—"
}

// PrintScrims prints one row per stored scrim.
func PrintScrims(w io.Writer, scrims []model.Scrim) {
	table := newTable(w)
	table.Header("ID", "DATE", "NAME", "TEAM", "OPPONENT", "CREATOR", "PUBLIC_ID")
	for _, s := range scrims {
		table.Append(
			strconv.FormatInt(s.ID, 10),
			s.Date.Format("2006-01-02"),
			s.Name,
			strconv.FormatInt(s.TeamID, 10),
			opponent(s),
			s.CreatorID,
			s.PublicID,
		)
	}
	table.Render()
}

// PrintScrimHeader prints a one-line summary of a scrim.
func PrintScrimHeader(w io.Writer, s model.Scrim) {
	fmt.Fprintf(w, "\nScrim #%d: %s  |  Date: %s  |  Team: %d  |  Opponent: %s\n\n",
		s.ID, s.Name, s.Date.Format("2006-01-02"), s.TeamID, opponent(s))
}

// PrintMaps prints the maps of a scrim with their stored event totals.
func PrintMaps(w io.Writer, maps []model.Map, events map[int64]map[string]int) {
	table := newTable(w)
	table.Header("MAP_ID", "NAME", "REPLAY", "KILLS", "ULTS", "SNAPSHOTS", "EVENTS")
	for _, m := range maps {
		replay := "—"
		if m.ReplayCode != nil {
			replay = *m.ReplayCode
		}
		counts := events[m.ID]
		total := 0
		for _, n := range counts {
			total += n
		}
		table.Append(
			strconv.FormatInt(m.ID, 10),
			m.Name,
			replay,
			strconv.Itoa(counts["kill"]),
			strconv.Itoa(counts["ultimate_charged"]),
			strconv.Itoa(counts["player_stat"]),
			strconv.Itoa(total),
		)
	}
	table.Render()
}

// PrintEventCounts prints the non-empty event tables of a map.
func PrintEventCounts(w io.Writer, counts map[string]int) {
	tables := make([]string, 0, len(counts))
	for t, n := range counts {
		if n > 0 {
			tables = append(tables, t)
		}
	}
	sort.Strings(tables)

	table := newTable(w)
	table.Header("EVENT", "ROWS")
	for _, t := range tables {
		table.Append(t, strconv.Itoa(counts[t]))
	}
	table.Render()
}

// PrintMapReport prints one row per player report. If focus is non-empty,
// that player's row is marked with ">".
func PrintMapReport(w io.Writer, reports []model.PlayerReport, focus string) {
	table := newTable(w)
	table.Header(
		" ", "PLAYER", "TEAM", "HERO", "ROLE", "FB", "D", "D/10", "FLETA%",
		"FIGHTS", "FP%", "FD%", "REV%", "CHARGE", "HOLD", "K/ULT", "DROUGHT", "AJAX", "XFACTOR",
	)
	for _, r := range reports {
		marker := " "
		if focus != "" && r.PlayerName == focus {
			marker = ">"
		}
		t := r.Totals()
		table.Append(
			marker,
			r.PlayerName,
			r.PlayerTeam,
			r.Hero,
			r.Role.String(),
			strconv.Itoa(t.FinalBlows),
			strconv.Itoa(t.Deaths),
			fmt.Sprintf("%.1f", r.DeathsPer10Min),
			fmt.Sprintf("%.0f%%", r.FletaDeadliftPct),
			strconv.Itoa(r.Fights),
			fmt.Sprintf("%.0f%%", r.FirstPickPct),
			fmt.Sprintf("%.0f%%", r.FirstDeathPct),
			fmt.Sprintf("%.0f%%", r.ReversalPct),
			seconds(r.AvgUltChargeTime),
			seconds(r.AvgUltHoldTime),
			fmt.Sprintf("%.2f", r.KillsPerUltimate),
			seconds(r.DroughtTime),
			strconv.Itoa(r.Ajaxes),
			fmt.Sprintf("%.1f", r.XFactor),
		)
	}
	table.Render()
}

// PrintPlayerReport prints a player's headline metrics, per-hero final stats
// and duel matchups.
func PrintPlayerReport(w io.Writer, r model.PlayerReport) {
	fmt.Fprintf(w, "\n%s (%s)  |  %s, %s  |  X-Factor %.1f\n\n",
		r.PlayerName, r.PlayerTeam, r.Hero, r.Role, r.XFactor)

	heroes := newTable(w)
	heroes.Header("HERO", "TIME", "ELIMS", "FB", "D", "HERO_DMG", "HEALING", "BLOCKED", "ULTS", "ACC%")
	for _, s := range r.FinalStats {
		heroes.Append(
			s.PlayerHero,
			seconds(s.HeroTimePlayed),
			strconv.Itoa(s.Eliminations),
			strconv.Itoa(s.FinalBlows),
			strconv.Itoa(s.Deaths),
			fmt.Sprintf("%.0f", s.HeroDamageDealt),
			fmt.Sprintf("%.0f", s.HealingDealt),
			fmt.Sprintf("%.0f", s.DamageBlocked),
			fmt.Sprintf("%d/%d", s.UltimatesUsed, s.UltimatesEarned),
			fmt.Sprintf("%.0f%%", s.WeaponAccuracy*100),
		)
	}
	heroes.Render()

	fmt.Fprintf(w, "\nFights %d  |  First picks %d (%.0f%%)  |  First deaths %d (%.0f%%)  |  Reversals %d (%.0f%%)  |  Ajaxes %d\n",
		r.Fights, r.FirstPicks, r.FirstPickPct, r.FirstDeaths, r.FirstDeathPct, r.Reversals, r.ReversalPct, r.Ajaxes)
	fmt.Fprintf(w, "Ult charge %s  |  Ult hold %s  |  Kills/ult %.2f  |  Drought %s  |  Fleta %.0f%%  |  Deaths/10 %.1f\n\n",
		seconds(r.AvgUltChargeTime), seconds(r.AvgUltHoldTime), r.KillsPerUltimate,
		seconds(r.DroughtTime), r.FletaDeadliftPct, r.DeathsPer10Min)

	PrintDuelTable(w, r.Duels)
}

// PrintDuelTable prints the matchup table, with the enemy's win rate per row
// and the mean used by the X-Factor underneath.
func PrintDuelTable(w io.Writer, duels []model.Duel) {
	if len(duels) == 0 {
		fmt.Fprintln(w, "(no duels)")
		return
	}
	table := newTable(w)
	table.Header("HERO", "ENEMY", "ENEMY_HERO", "WON", "LOST", "ENEMY_WIN%")
	for _, d := range duels {
		table.Append(
			d.PlayerHero,
			d.EnemyName,
			d.EnemyHero,
			strconv.Itoa(d.EnemyDeaths),
			strconv.Itoa(d.EnemyKills),
			fmt.Sprintf("%.0f%%", d.EnemyWinRate()),
		)
	}
	table.Render()
	fmt.Fprintf(w, "Mean enemy win rate: %.1f%%\n", aggregator.DuelWinrate(duels))
}

func seconds(v float64) string {
	if v == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1fs", v)
}

// PrintOverview prints database-wide totals followed by map play counts.
func PrintOverview(w io.Writer, ov model.Overview, plays []model.MapPlays) {
	fmt.Fprintf(w, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(w, "  Scrims stored : %d\n", ov.Scrims)
	fmt.Fprintf(w, "  Date range    : %s → %s\n", ov.Earliest.Format("2006-01-02"), ov.Latest.Format("2006-01-02"))
	fmt.Fprintf(w, "  Maps played   : %d\n", ov.Maps)
	fmt.Fprintf(w, "  Players seen  : %d\n", ov.Players)
	fmt.Fprintf(w, "  Kills logged  : %d\n", ov.Kills)

	if len(plays) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Maps ---\n\n")
	table := newTable(w)
	table.Header("MAP", "PLAYS")
	for _, m := range plays {
		table.Append(m.Name, strconv.Itoa(m.Plays))
	}
	table.Render()
}

// TrendRow pairs a map appearance with the player's report on that map.
type TrendRow struct {
	Appearance model.Appearance
	Report     model.PlayerReport
}

// PrintTrendTable prints one row per map a player appeared on, oldest first.
func PrintTrendTable(w io.Writer, rows []TrendRow) {
	table := newTable(w)
	table.Header("DATE", "SCRIM", "MAP_ID", "MAP", "HERO", "FB", "D", "D/10", "FLETA%", "K/ULT", "DROUGHT", "XFACTOR")
	for _, row := range rows {
		a, r := row.Appearance, row.Report
		t := r.Totals()
		table.Append(
			a.Date.Format("2006-01-02"),
			a.ScrimName,
			strconv.FormatInt(a.MapID, 10),
			a.MapName,
			r.Hero,
			strconv.Itoa(t.FinalBlows),
			strconv.Itoa(t.Deaths),
			fmt.Sprintf("%.1f", r.DeathsPer10Min),
			fmt.Sprintf("%.0f%%", r.FletaDeadliftPct),
			fmt.Sprintf("%.2f", r.KillsPerUltimate),
			seconds(r.DroughtTime),
			fmt.Sprintf("%.1f", r.XFactor),
		)
	}
	table.Render()
}
