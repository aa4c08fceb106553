package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	deleteForce bool
	deleteAll   bool
)

// deleteCmd removes one scrim with all of its maps and events, or the whole
// database with --all.
var deleteCmd = &cobra.Command{
	Use:   "delete [<scrim-id>]",
	Short: "Delete a scrim, or the whole database with --all",
	Long:  "Permanently delete a scrim with its maps and events. With --all the SQLite database file itself is removed.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete the database file")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if deleteAll == (len(args) == 1) {
		return fmt.Errorf("give either a scrim id or --all")
	}
	target := dbPath
	if !deleteAll {
		target = "scrim " + args[0]
	}
	if !deleteForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", target)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if deleteAll {
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove database: %w", err)
			}
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
		return nil
	}

	scrimID, err := parseID("scrim", args[0])
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteScrim(cmd.Context(), scrimID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted scrim %d\n", scrimID)
	return nil
}
