package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/errors"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background collector daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, running, err := runningDaemonPID()
		if err != nil {
			return err
		}
		if !running {
			return errors.New(errors.ErrDaemon, "the daemon is not running", "")
		}
		if err := stopDaemon(pid); err != nil {
			return err
		}
		fmt.Printf("daemon stopped (pid %d)\n", pid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
