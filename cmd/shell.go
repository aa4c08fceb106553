package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
	"github.com/pable/go-scrim-metrics/internal/stats"
	"github.com/pable/go-scrim-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession holds what every REPL command needs.
type shellSession struct {
	ctx context.Context
	db  *storage.DB
	svc *stats.Service
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	s := shellSession{ctx: cmd.Context(), db: db, svc: stats.NewService(db, log, cfg.StatWorkers)}

	cGreeting.Println("scrimmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("scrimmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		var err error
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			err = s.list()
		case "maps":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: maps <scrim-id>")
				continue
			}
			err = s.maps(args[0])
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <map-id> [--player <name>]")
				continue
			}
			focus := ""
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--player" {
					focus = args[i+1]
				}
			}
			err = s.show(args[0], focus)
		case "player":
			if len(args) != 2 {
				cError.Fprintln(os.Stderr, "usage: player <map-id> <name>")
				continue
			}
			err = s.player(args[0], args[1])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored scrims"},
		{"maps <scrim-id>", "list a scrim's maps"},
		{"show <map-id>", "every player's report for a map"},
		{"show <map-id> --player <name>", "same, highlighting one player"},
		{"player <map-id> <name>", "detailed report for one player"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s shellSession) list() error {
	scrims, err := s.db.ListScrims(s.ctx)
	if err != nil {
		return err
	}
	if len(scrims) == 0 {
		cMuted.Println("No scrims stored yet.")
		return nil
	}
	report.PrintScrims(os.Stdout, scrims)
	return nil
}

func (s shellSession) maps(arg string) error {
	scrimID, err := parseID("scrim", arg)
	if err != nil {
		return err
	}
	scrim, err := s.db.GetScrim(s.ctx, scrimID)
	if err != nil {
		return err
	}
	maps, err := s.db.ListMaps(s.ctx, scrimID)
	if err != nil {
		return err
	}
	events := make(map[int64]map[string]int, len(maps))
	for _, m := range maps {
		if events[m.ID], err = s.db.CountEvents(s.ctx, m.ID); err != nil {
			return err
		}
	}
	report.PrintScrimHeader(os.Stdout, scrim)
	report.PrintMaps(os.Stdout, maps, events)
	return nil
}

func (s shellSession) show(arg, focus string) error {
	mapID, err := parseID("map", arg)
	if err != nil {
		return err
	}
	reports, err := s.svc.CalculateStatsForMap(s.ctx, mapID)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		cMuted.Printf("no player stats stored for map %d\n", mapID)
		return nil
	}
	report.PrintMapReport(os.Stdout, reports, focus)
	return nil
}

func (s shellSession) player(arg, name string) error {
	mapID, err := parseID("map", arg)
	if err != nil {
		return err
	}
	final, err := s.svc.PlayerFinalStats(s.ctx, mapID, name)
	if err != nil {
		return err
	}
	if len(final) == 0 {
		return fmt.Errorf("player %q not found on map %d", name, mapID)
	}
	r, err := s.svc.CalculateStats(s.ctx, mapID, name)
	if err != nil {
		return err
	}
	report.PrintPlayerReport(os.Stdout, r)
	return nil
}
