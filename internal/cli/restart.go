package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the background collector daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pid, running, err := runningDaemonPID(); err != nil {
			return err
		} else if running {
			if err := stopDaemon(pid); err != nil {
				return err
			}
		}

		pid, err := daemonizeAndStart()
		if err != nil {
			return err
		}
		fmt.Printf("daemon restarted (pid %d)\n", pid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
