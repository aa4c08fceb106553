package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored scrims",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	scrims, err := db.ListScrims(cmd.Context())
	if err != nil {
		return fmt.Errorf("list scrims: %w", err)
	}
	if len(scrims) == 0 {
		fmt.Fprintln(os.Stdout, "No scrims stored yet. Run 'scrimmetrics ingest --team <id> <map.json>...' to add one.")
		return nil
	}
	report.PrintScrims(os.Stdout, scrims)
	return nil
}
