package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
	"github.com/pable/go-scrim-metrics/internal/stats"
)

var (
	showPlayer string
	showEvents bool
	showJSON   bool
)

var showCmd = &cobra.Command{
	Use:   "show <map-id>",
	Short: "Show every player's report for a stored map",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player name")
	showCmd.Flags().BoolVar(&showEvents, "events", false, "also print stored event counts")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print reports as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	mapID, err := parseID("map", args[0])
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := stats.NewService(db, log, cfg.StatWorkers)
	reports, err := svc.CalculateStatsForMap(cmd.Context(), mapID)
	if err != nil {
		return fmt.Errorf("calculate stats: %w", err)
	}
	if len(reports) == 0 {
		fmt.Fprintf(os.Stderr, "No player stats stored for map %d\n", mapID)
		return nil
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	report.PrintMapReport(os.Stdout, reports, showPlayer)
	if showEvents {
		counts, err := db.CountEvents(cmd.Context(), mapID)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		report.PrintEventCounts(os.Stdout, counts)
	}
	return nil
}
