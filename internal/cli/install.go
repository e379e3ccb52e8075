package cli

import (
	"os"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/galacticcic/galacticcic/internal/errors"
)

// unitTemplate is a minimal systemd user-service unit for the daemon.
// Actual installation (copying it into ~/.config/systemd/user and
// enabling it) is left to the packaging scripts this repo doesn't own;
// `install` only emits the unit text.
const unitTemplate = `[Unit]
Description=GalacticCIC collector daemon
After=network-online.target

[Service]
Type=simple
ExecStart={{.Exe}} start --foreground
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`

var installOutputPath string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Print a systemd user-service unit for the collector daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		exe, err := os.Executable()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrDaemon, "could not locate the galacticcic binary", "")
		}

		tmpl, err := template.New("unit").Parse(unitTemplate)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrDaemon, "could not render the unit template", "")
		}

		out := os.Stdout
		if installOutputPath != "" {
			f, err := os.Create(installOutputPath)
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrDaemon, "could not write the unit file", "")
			}
			defer f.Close()
			out = f
		}
		return tmpl.Execute(out, struct{ Exe string }{Exe: exe})
	},
}

func init() {
	installCmd.Flags().StringVar(&installOutputPath, "output", "", "write the unit file here instead of stdout")
	rootCmd.AddCommand(installCmd)
}
