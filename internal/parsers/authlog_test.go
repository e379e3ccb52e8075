package parsers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func genFailedLines(ip string, count int, ts time.Time) string {
	var b strings.Builder
	for i := 0; i < count; i++ {
		stamp := ts.Add(-time.Duration(i) * time.Minute).Format("Jan 2 15:04:05")
		fmt.Fprintf(&b, "%s host sshd[1234]: Failed password for invalid user admin from %s port 51234 ssh2\n", stamp, ip)
	}
	return b.String()
}

func TestParseAuthLogFailedSSHAlert(t *testing.T) {
	now := time.Date(2026, time.August, 6, 12, 0, 0, 0, time.UTC)

	var log strings.Builder
	log.WriteString(genFailedLines("45.33.32.156", 47, now))
	log.WriteString(genFailedLines("104.248.168.210", 12, now))
	log.WriteString(genFailedLines("91.189.42.11", 8, now))

	accepted, failed := ParseAuthLog(log.String(), now)
	assert.Empty(t, accepted)

	total := 0
	byIP := make(map[string]int)
	for _, ev := range failed {
		byIP[ev.IP] = ev.Count
		total += ev.Count
	}

	assert.Equal(t, 47, byIP["45.33.32.156"])
	assert.Equal(t, 12, byIP["104.248.168.210"])
	assert.Equal(t, 8, byIP["91.189.42.11"])
	assert.Equal(t, 67, total)
}

func TestParseAuthLogAcceptedLine(t *testing.T) {
	now := time.Date(2026, time.August, 6, 12, 0, 0, 0, time.UTC)
	line := now.Format("Jan 2 15:04:05") + " host sshd[99]: Accepted publickey for deploy from 10.0.0.9 port 50000 ssh2\n"

	accepted, failed := ParseAuthLog(line, now)
	assert.Empty(t, failed)
	assert.Len(t, accepted, 1)
	assert.Equal(t, "10.0.0.9", accepted[0].IP)
	assert.Equal(t, 1, accepted[0].Count)
}

func TestParseAuthLogExcludesOlderThan24h(t *testing.T) {
	now := time.Date(2026, time.August, 6, 12, 0, 0, 0, time.UTC)
	old := now.Add(-25 * time.Hour).Format("Jan 2 15:04:05")
	line := old + " host sshd[1]: Failed password for invalid user root from 1.2.3.4 port 1 ssh2\n"

	_, failed := ParseAuthLog(line, now)
	assert.Empty(t, failed)
}
