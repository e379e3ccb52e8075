package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/galacticcic/galacticcic/internal/errors"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect or prune the metrics database",
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts and age range for every time-series table",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Stats()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrStore, "could not read database stats", "")
		}

		// A piped/non-terminal stdout (e.g. `db stats | grep`) gets a
		// plain format always wide enough for the longest table name;
		// an interactive terminal gets a format sized to its actual
		// width so columns don't wrap in a narrow window.
		dateFormat := "Jan 2 15:04"
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < 70 {
			dateFormat = "01/02"
		}

		fmt.Printf("%-18s %8s %12s %12s\n", "table", "rows", "oldest", "newest")
		for _, t := range stats {
			if t.Rows == 0 {
				fmt.Printf("%-18s %8d %12s %12s\n", t.Table, t.Rows, "--", "--")
				continue
			}
			oldest := time.Unix(int64(t.OldestTS), 0).Format(dateFormat)
			newest := time.Unix(int64(t.NewestTS), 0).Format(dateFormat)
			fmt.Printf("%-18s %8d %12s %12s\n", t.Table, t.Rows, oldest, newest)
		}
		return nil
	},
}

var dbPruneYes bool

var dbPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete metrics older than 30 days and expired cache rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dbPruneYes {
			var confirm bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Prune rows older than 30 days?").
						Description("This cannot be undone").
						Value(&confirm),
				),
			)
			if err := form.Run(); err != nil {
				return errors.WrapWithCode(err, errors.ErrMisuse, "could not get your input", "Re-run with --yes to skip the prompt.")
			}
			if !confirm {
				fmt.Println("cancelled")
				return nil
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Prune(time.Now()); err != nil {
			return errors.WrapWithCode(err, errors.ErrStore, "prune failed", "")
		}
		fmt.Println("pruned rows older than 30 days")
		return nil
	},
}

var dbPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the metrics database's path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dbPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	dbPruneCmd.Flags().BoolVar(&dbPruneYes, "yes", false, "skip the confirmation prompt")
	dbCmd.AddCommand(dbStatsCmd, dbPruneCmd, dbPathCmd)
	rootCmd.AddCommand(dbCmd)
}
