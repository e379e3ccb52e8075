// Package cli implements the galacticcic command-line interface.
//
// Each verb is a thin cobra.Command that delegates to a small
// orchestration function in this package; the actual daemon,
// collector, store, and dashboard logic all live in their own
// packages. rootCmd carries no business logic of its own.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/galacticcic/galacticcic/internal/config"
	"github.com/galacticcic/galacticcic/internal/errors"
)

// homeViper binds the --home flag and GALACTIC_CIC_HOME env var onto a
// single setting, so either can override where the store, PID file,
// log file, and config.json live. This is the one place the CLI needs
// viper's flag/env precedence stack; the settings file itself (two flat
// JSON fields) is simple enough to round-trip with plain encoding/json
// instead (see internal/config).
var homeViper = viper.New()

var rootCmd = &cobra.Command{
	Use:   "galacticcic",
	Short: "Single-host ops dashboard for an OpenClaw agent fleet",
	Long: `galacticcic collects server, agent, and security metrics from a
single OpenClaw host into a local SQLite store, and renders them in a
terminal dashboard.

	galacticcic start       start the background collector daemon
	galacticcic dashboard   open the terminal dashboard
	galacticcic status      check whether the daemon is running
	galacticcic stop        stop the daemon
	galacticcic collect     run one collection cycle synchronously
	galacticcic db          inspect or prune the metrics database
	galacticcic logs        tail the daemon's log
	galacticcic install     print a systemd user-service unit
	galacticcic version     print version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("home", "", "data directory to use instead of ~/.galactic_cic")
	_ = homeViper.BindPFlag("home", rootCmd.PersistentFlags().Lookup("home"))
	_ = homeViper.BindEnv("home", "GALACTIC_CIC_HOME")

	cobra.OnInitialize(func() {
		if home := homeViper.GetString("home"); home != "" {
			config.SetDirOverride(home)
		}
	})

	// Cobra's own flag-parsing errors ("unknown flag: --foo") are plain
	// errors, not *errors.Error{Code: ErrMisuse}. Wrap them here so they
	// carry the same exit-code-2 contract as a typo'd verb.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewMisuse(err.Error(), "Run '"+cmd.CommandPath()+" --help' to see valid flags.")
	})
}

// Execute runs the root command and translates any returned error into
// the process's exit code (0/1/2/3 per the CLI's documented contract).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		err = classifyMisuse(err)
		fmt.Fprintln(os.Stderr, formatCLIError(err))
		os.Exit(errors.ExitCodeFor(err))
	}
}

// classifyMisuse recognizes cobra's own "unknown command"/"unknown flag"
// errors, which reach here as plain errors rather than *errors.Error, and
// wraps them as ErrMisuse so a typo'd verb exits 2 like any other misuse
// instead of falling through to ExitCodeFor's default of 1.
func classifyMisuse(err error) error {
	var cicErr *errors.Error
	if stderrors.As(err, &cicErr) {
		return err
	}
	var exitErr *errors.ExitError
	if stderrors.As(err, &exitErr) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown command "),
		strings.HasPrefix(msg, "unknown flag: "),
		strings.HasPrefix(msg, "unknown shorthand flag: "):
		return errors.NewMisuse(msg, "Run 'galacticcic --help' to see available commands.")
	default:
		return err
	}
}

// formatCLIError renders a structured *errors.Error with its ✗/cause/
// suggestion shape. classifyMisuse has already turned cobra's own
// "unknown command"/"unknown flag" errors into one of these by the time
// Execute calls this; anything else still falls back to a plain message.
func formatCLIError(err error) string {
	var cicErr *errors.Error
	if stderrors.As(err, &cicErr) {
		return cicErr.Error()
	}
	return "✗ " + err.Error()
}
