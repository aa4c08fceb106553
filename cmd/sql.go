package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  scrims(id, public_id, name, date, creator_id, team_id, team2_id, opponent_name, created_at)
  maps(id, scrim_id, name, replay_code)
  map_data(id, map_id)
  kill(map_data_id, match_time, attacker_team, attacker_name, attacker_hero,
    victim_team, victim_name, victim_hero, event_ability, event_damage, ...)
  ultimate_charged / ultimate_start / ultimate_end(map_data_id, match_time,
    player_team, player_name, player_hero, hero_duplicated, ultimate_id)
  player_stat(map_data_id, match_time, round_number, player_team, player_name,
    player_hero, player_id, eliminations, final_blows, deaths, ..., hero_time_played)

Event tables reference map_data, not maps. Join through it:
  SELECT * FROM kill WHERE map_data_id = (SELECT id FROM map_data WHERE map_id = 3)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

