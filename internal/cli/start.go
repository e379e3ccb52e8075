package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/errors"
	"github.com/galacticcic/galacticcic/internal/logger"
)

var foreground bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background collector daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		if foreground {
			return runForeground(context.Background(), logger.NewEnvLogger("daemon"))
		}

		if pid, running, err := runningDaemonPID(); err != nil {
			return err
		} else if running {
			return errors.New(errors.ErrDaemon, fmt.Sprintf("the daemon is already running (pid %d)", pid), "Use 'galacticcic status' to check on it, or 'galacticcic restart' to restart it.")
		}

		pid, err := daemonizeAndStart()
		if err != nil {
			return err
		}
		fmt.Printf("daemon started (pid %d)\n", pid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().BoolVar(&foreground, "foreground", false, "run the collector loop in this process instead of daemonizing")
	_ = startCmd.Flags().MarkHidden("foreground")
}
