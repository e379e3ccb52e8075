package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/logger"
	"github.com/galacticcic/galacticcic/internal/scheduler"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection cycle across every tier synchronously",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		log := logger.NewEnvLogger("collect")
		deps := buildDeps(s, log)
		sched := scheduler.New(deps, log)

		fmt.Println("running one cycle of every tier (fast, medium, slow, glacial)...")
		sched.RunOnce(cmd.Context())

		if sched.Degraded() {
			fmt.Println("done (degraded: 10+ consecutive collector failures)")
		} else {
			fmt.Println("done")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
