package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
	"github.com/pable/go-scrim-metrics/internal/stats"
)

var trendCmd = &cobra.Command{
	Use:   "trend <player-name>",
	Short: "Chronological per-map performance trend for a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	name := args[0]
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	apps, err := db.GetPlayerAppearances(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("query appearances: %w", err)
	}
	if len(apps) == 0 {
		fmt.Println("no maps found")
		return nil
	}

	svc := stats.NewService(db, log, cfg.StatWorkers)
	rows := make([]report.TrendRow, 0, len(apps))
	for _, a := range apps {
		r, err := svc.CalculateStats(cmd.Context(), a.MapID, name)
		if err != nil {
			return fmt.Errorf("map %d: %w", a.MapID, err)
		}
		rows = append(rows, report.TrendRow{Appearance: a, Report: r})
	}
	report.PrintTrendTable(os.Stdout, rows)
	return nil
}
