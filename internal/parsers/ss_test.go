package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const ssOutput = `State      Recv-Q Send-Q   Local Address:Port     Peer Address:Port    Process
ESTAB      0      0        10.0.0.5:22            203.0.113.5:51412    users:(("sshd",pid=1234,fd=3))
ESTAB      0      0        10.0.0.5:443           203.0.113.5:51413    users:(("nginx",pid=5678,fd=4))
ESTAB      0      0        10.0.0.5:443           198.51.100.9:60111   users:(("nginx",pid=5678,fd=5))
ESTAB      0      0        127.0.0.1:5432         127.0.0.1:51234      users:(("postgres",pid=91,fd=5))
ESTAB      0      0        [::1]:22               [::1]:52000          users:(("sshd",pid=2,fd=6))
ESTAB      0      0        fe80::1:22             fe80::2:53000        users:(("sshd",pid=3,fd=7))
`

func TestParseSSConnectionsExcludesLoopbackAndLinkLocal(t *testing.T) {
	conns := ParseSSConnections(ssOutput)

	byIP := make(map[string]int)
	for _, c := range conns {
		byIP[c.PeerIP] = c.ConnectionCount
	}

	assert.Equal(t, 2, byIP["203.0.113.5"])
	assert.Equal(t, 1, byIP["198.51.100.9"])
	assert.NotContains(t, byIP, "127.0.0.1")
	assert.NotContains(t, byIP, "::1")
	assert.NotContains(t, byIP, "fe80::2")
	assert.Len(t, conns, 2)
}

func TestParseSSConnectionsEmpty(t *testing.T) {
	assert.Empty(t, ParseSSConnections(""))
}
