package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/scheduler"
	"github.com/galacticcic/galacticcic/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the collector daemon is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, running, err := runningDaemonPID()
		if err != nil {
			return err
		}
		if !running {
			fmt.Println("daemon: not running")
			return nil
		}
		fmt.Printf("daemon: running (pid %d)\n", pid)

		s, err := openStore()
		if err != nil {
			// The daemon is up but the store can't be opened from here;
			// report what we know rather than fail the whole verb.
			fmt.Printf("store: %v\n", err)
			return nil
		}
		defer s.Close()

		degraded, found, err := s.GetConfigValue(scheduler.DegradedConfigKey)
		if err == nil && found && degraded == "1" {
			fmt.Println("health: degraded (10+ consecutive store write failures)")
		} else {
			fmt.Println("health: ok")
		}

		reportFreshness(s)
		return nil
	},
}

// reportFreshness prints how long ago each time-series table last
// received a row, a quick signal for "is a tier silently stuck."
func reportFreshness(s *store.Store) {
	stats, err := s.Stats()
	if err != nil {
		return
	}
	now := float64(time.Now().Unix())
	for _, t := range stats {
		if t.Rows == 0 {
			fmt.Printf("  %-18s no data yet\n", t.Table)
			continue
		}
		age := time.Duration(now-t.NewestTS) * time.Second
		fmt.Printf("  %-18s last tick %s ago (%d rows)\n", t.Table, age.Round(time.Second), t.Rows)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
