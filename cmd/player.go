package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
	"github.com/pable/go-scrim-metrics/internal/stats"
)

var playerJSON bool

// playerCmd prints the full report of one player on one map.
var playerCmd = &cobra.Command{
	Use:   "player <map-id> <player-name>",
	Short: "Detailed report for one player on a map",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().BoolVar(&playerJSON, "json", false, "print the report as JSON")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	mapID, err := parseID("map", args[0])
	if err != nil {
		return err
	}
	name := args[1]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := stats.NewService(db, log, cfg.StatWorkers)
	final, err := svc.PlayerFinalStats(cmd.Context(), mapID, name)
	if err != nil {
		return fmt.Errorf("final stats: %w", err)
	}
	if len(final) == 0 {
		return fmt.Errorf("player %q not found on map %d", name, mapID)
	}

	r, err := svc.CalculateStats(cmd.Context(), mapID, name)
	if err != nil {
		return fmt.Errorf("calculate stats: %w", err)
	}
	if playerJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	report.PrintPlayerReport(os.Stdout, r)
	return nil
}
