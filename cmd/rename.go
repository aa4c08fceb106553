package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var renameClear bool

var renameCmd = &cobra.Command{
	Use:   "rename <scrim-id> [<opponent-name>]",
	Short: "Set or clear the opponent name of a scrim",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runRename,
}

func init() {
	renameCmd.Flags().BoolVar(&renameClear, "clear", false, "remove the override and fall back to the logged team name")
}

func runRename(cmd *cobra.Command, args []string) error {
	scrimID, err := parseID("scrim", args[0])
	if err != nil {
		return err
	}
	var name *string
	switch {
	case renameClear && len(args) == 2:
		return fmt.Errorf("--clear takes no opponent name")
	case renameClear:
	case len(args) == 2:
		name = &args[1]
	default:
		return fmt.Errorf("give an opponent name or --clear")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SetOpponentName(cmd.Context(), scrimID, name); err != nil {
		return err
	}
	if name == nil {
		fmt.Fprintf(os.Stdout, "Cleared opponent of scrim %d\n", scrimID)
	} else {
		fmt.Fprintf(os.Stdout, "Scrim %d opponent: %s\n", scrimID, *name)
	}
	return nil
}
