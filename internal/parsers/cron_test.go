package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const cronListing = `JOB              STATUS    LAST_RUN              NEXT_RUN              ERRORS
backup-db        ok        2026-08-06T02:00:00Z  2026-08-07T02:00:00Z  0
cleanup-logs     error     2026-08-06T01:00:00Z  2026-08-07T01:00:00Z  3
sync-agents      running   2026-08-06T03:00:00Z  -
weird-status     bogus     -                     -                     0
`

func TestParseCronListing(t *testing.T) {
	records := ParseCron(cronListing)
	assert.Len(t, records, 4)

	assert.Equal(t, "backup-db", records[0].JobName)
	assert.Equal(t, CronOk, records[0].Status)
	assert.Equal(t, 0, records[0].ConsecutiveErrors)

	assert.Equal(t, CronError, records[1].Status)
	assert.Equal(t, 3, records[1].ConsecutiveErrors)

	assert.Equal(t, CronRunning, records[2].Status)
	assert.Equal(t, 0, records[2].ConsecutiveErrors)

	assert.Equal(t, "weird-status", records[3].JobName)
	assert.Equal(t, CronIdle, records[3].Status, "unknown status normalizes to idle")
}

func TestParseCronEmptyOutput(t *testing.T) {
	assert.Empty(t, ParseCron(""))
}
