package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/dashboard"
	"github.com/galacticcic/galacticcic/internal/errors"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		model := dashboard.NewModel(s)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrDaemon, "dashboard exited with an error", "")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
