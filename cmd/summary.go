package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all scrims stored in the database:
scrim count, date range, players seen and how often each map was played.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview(cmd.Context())
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Scrims == 0 {
		fmt.Fprintln(os.Stdout, "No scrims stored yet. Run 'scrimmetrics ingest --name ... --team ... <map.json>...' to add one.")
		return nil
	}

	plays, err := db.GetMapPlays(cmd.Context())
	if err != nil {
		return fmt.Errorf("get map plays: %w", err)
	}
	report.PrintOverview(os.Stdout, ov, plays)
	return nil
}
