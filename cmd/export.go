package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-scrim-metrics/internal/model"
	"github.com/pable/go-scrim-metrics/internal/stats"
)

var exportOut string

// scrimExport is the top-level JSON schema written by export.
type scrimExport struct {
	ID           int64       `json:"id"`
	PublicID     string      `json:"public_id"`
	Name         string      `json:"name"`
	Date         string      `json:"date"`
	TeamID       int64       `json:"team_id"`
	Team2ID      *int64      `json:"team2_id,omitempty"`
	OpponentName *string     `json:"opponent_name,omitempty"`
	Maps         []mapExport `json:"maps"`
	GeneratedAt  string      `json:"generated_at"`
}

// mapExport is the per-map block within a scrim export.
type mapExport struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	ReplayCode *string              `json:"replay_code,omitempty"`
	Events     map[string]int       `json:"events"`
	Players    []model.PlayerReport `json:"players"`
}

var exportCmd = &cobra.Command{
	Use:   "export <scrim-id>",
	Short: "Export a scrim with every player's per-map report as JSON",
	Long: `Computes the report of every player on every map of a scrim and writes
a single JSON document, suitable for dashboards or spreadsheets.

Example:
  scrimmetrics export 12 --out thursday.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	svc := stats.NewService(db, log, cfg.StatWorkers)
	doc := scrimExport{
		ID:           scrim.ID,
		PublicID:     scrim.PublicID,
		Name:         scrim.Name,
		Date:         scrim.Date.Format("2006-01-02"),
		TeamID:       scrim.TeamID,
		Team2ID:      scrim.Team2ID,
		OpponentName: scrim.OpponentName,
		Maps:         make([]mapExport, 0, len(maps)),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, m := range maps {
		events, err := db.CountEvents(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("map %d: %w", m.ID, err)
		}
		reports, err := svc.CalculateStatsForMap(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("map %d: %w", m.ID, err)
		}
		doc.Maps = append(doc.Maps, mapExport{
			ID: m.ID, Name: m.Name, ReplayCode: m.ReplayCode,
			Events: events, Players: reports,
		})
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if exportOut != "" {
		log.Info().Str("path", exportOut).Int("maps", len(doc.Maps)).Msg("export written")
	}
	return nil
}
