package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/ingest"
	"github.com/pable/go-scrim-metrics/internal/parser"
	"github.com/pable/go-scrim-metrics/internal/report"
)

var (
	ingestName     string
	ingestDate     string
	ingestTeam     int64
	ingestTeam2    int64
	ingestCreator  string
	ingestOpponent string
	ingestReplays  []string
	ingestTeam1IDs map[string]int64
	ingestTeam2IDs map[string]int64
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <map.json> [<map.json>...]",
	Short: "Store a scrim from one event batch file per map",
	Long: `Store a scrim from one event batch file per map, in play order.

Each file is a JSON object keyed by event type ("kill", "player_stat", ...)
holding positional rows; .json.gz and .json.zst files are decompressed first.
If any map fails to store, nothing of the scrim is kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "scrim name (default \"Scrim <date>\")")
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "scrim date YYYY-MM-DD (default today)")
	ingestCmd.Flags().Int64Var(&ingestTeam, "team", 0, "home team id (required)")
	ingestCmd.Flags().Int64Var(&ingestTeam2, "team2", 0, "second internal team id, when both sides are tracked")
	ingestCmd.Flags().StringVar(&ingestCreator, "creator", os.Getenv("USER"), "uploader identity")
	ingestCmd.Flags().StringVar(&ingestOpponent, "opponent", "", "opponent display name override")
	ingestCmd.Flags().StringSliceVar(&ingestReplays, "replay", nil, "replay codes, one per map in file order")
	ingestCmd.Flags().StringToInt64Var(&ingestTeam1IDs, "team1-ids", nil, "player ids for the logs' team 1, e.g. Alpha1=12,Alpha2=13")
	ingestCmd.Flags().StringToInt64Var(&ingestTeam2IDs, "team2-ids", nil, "player ids for the logs' team 2")
	ingestCmd.MarkFlagRequired("team")
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(ingestReplays) > len(args) {
		return fmt.Errorf("%d replay codes for %d maps", len(ingestReplays), len(args))
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if ingestDate != "" {
		d, err := time.Parse("2006-01-02", ingestDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		date = d
	}
	name := ingestName
	if name == "" {
		name = "Scrim " + date.Format("2006-01-02")
	}

	req := ingest.Request{
		Name:            name,
		Date:            date,
		TeamID:          ingestTeam,
		CreatorID:       ingestCreator,
		Team1Identities: ingestTeam1IDs,
		Team2Identities: ingestTeam2IDs,
	}
	if ingestTeam2 > 0 {
		req.Team2ID = &ingestTeam2
	}
	if ingestOpponent != "" {
		req.OpponentName = &ingestOpponent
	}

	for i, path := range args {
		batch, err := parser.ParseBatchFile(path, log)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		in := ingest.MapInput{Batch: batch}
		if i < len(ingestReplays) && ingestReplays[i] != "" {
			in.ReplayCode = &ingestReplays[i]
		}
		req.Maps = append(req.Maps, in)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	scrim, err := ingest.NewWriter(db, log).Ingest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	maps, err := db.ListMaps(cmd.Context(), scrim.ID)
	if err != nil {
		return fmt.Errorf("list maps: %w", err)
	}
	events := make(map[int64]map[string]int, len(maps))
	for _, m := range maps {
		if events[m.ID], err = db.CountEvents(cmd.Context(), m.ID); err != nil {
			return err
		}
	}
	report.PrintScrimHeader(os.Stdout, scrim)
	report.PrintMaps(os.Stdout, maps, events)
	fmt.Fprintf(os.Stdout, "\nRun 'scrimmetrics show <map-id>' for player reports.\n")
	return nil
}
