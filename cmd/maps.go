package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
)

var mapsCmd = &cobra.Command{
	Use:   "maps <scrim-id>",
	Short: "List the maps of a scrim with their event counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runMaps,
}

func runMaps(cmd *cobra.Command, args []string) error {
	scrimID, err := parseID("scrim", args[0])
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	scrim, err := db.GetScrim(ctx, scrimID)
	if err != nil {
		return err
	}
	maps, err := db.ListMaps(ctx, scrimID)
	if err != nil {
		return fmt.Errorf("list maps: %w", err)
	}
	events := make(map[int64]map[string]int, len(maps))
	for _, m := range maps {
		counts, err := db.CountEvents(ctx, m.ID)
		if err != nil {
			return err
		}
		events[m.ID] = counts
	}

	report.PrintScrimHeader(os.Stdout, scrim)
	report.PrintMaps(os.Stdout, maps, events)
	return nil
}
