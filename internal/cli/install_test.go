package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallPrintsSystemdUnitWithExecStart(t *testing.T) {
	out := captureStdout(t, func() {
		require.NoError(t, installCmd.RunE(installCmd, nil))
	})
	assert.Contains(t, out, "[Unit]")
	assert.Contains(t, out, "ExecStart=")
	assert.Contains(t, out, "start --foreground")
}
