package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const freeOutput = `              total        used        free      shared  buff/cache   available
Mem:           8.0Gi       7.4Gi       300Mi        50Mi       400Mi       500Mi
Swap:             0B          0B          0B
`

func TestParseFreeMemoryThreshold(t *testing.T) {
	info := ParseFree(freeOutput)
	require := assert.New(t)
	require.True(info.OK)
	require.InDelta(7577, info.UsedMB, 1)
	require.InDelta(8192, info.TotalMB, 1)
}

const dfOutput = `Filesystem     Size  Used Avail Use% Mounted on
/dev/sda1       40G   20G   18G  53% /
tmpfs          2.0G     0  2.0G   0% /dev/shm
`

func TestParseDFRootMount(t *testing.T) {
	info := ParseDF(dfOutput)
	assert.True(t, info.OK)
	// df's "G" suffix is SI (10^9 bytes); ParseDF reports GB of 2^30
	// bytes, the same binary convention ParseFree uses for MB.
	assert.InDelta(t, 18.63, info.UsedGB, 0.01)
	assert.InDelta(t, 37.25, info.TotalGB, 0.01)
}

func TestParseUptimeLoadAverages(t *testing.T) {
	out := " 12:34:56 up 3 days,  2:10,  1 user,  load average: 0.10, 0.20, 0.30"
	la := ParseUptime(out)
	assert.True(t, la.OK)
	assert.Equal(t, 0.10, la.Load1)
	assert.Equal(t, 0.20, la.Load5)
	assert.Equal(t, 0.30, la.Load15)
}

func TestParseUptimeMalformed(t *testing.T) {
	assert.False(t, ParseUptime("no load average here").OK)
}

const psOutput = `USER       PID  %CPU %MEM    VSZ   RSS TTY      STAT START   TIME COMMAND
root      1234  45.0  3.2 123456 65432 ?        Ss   08:00   1:23 /usr/bin/openclaw-agent
deploy    2345  20.1  1.1  98765 21098 ?        Sl   08:01   0:45 node server.js
`

func TestParseTopProcessesLimit(t *testing.T) {
	rows := ParseTopProcesses(psOutput, 1)
	assert.Len(t, rows, 1)
	assert.Equal(t, "root", rows[0].User)
	assert.Equal(t, 1234, rows[0].PID)
	assert.Equal(t, 45.0, rows[0].CPUPct)
	assert.Contains(t, rows[0].Command, "openclaw-agent")
}
