package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const nmapOutput = `Starting Nmap 7.94
Nmap scan report for 45.33.32.156
PORT     STATE  SERVICE
22/tcp   open   ssh
80/tcp   open   http
443/tcp  closed https

Running: Linux 5.X
OS details: Linux 5.4 - 5.15
`

func TestParseNmapExtractsOpenPortsAndOSGuess(t *testing.T) {
	result := ParseNmap(nmapOutput)

	assert.Len(t, result.OpenPorts, 2)
	assert.Equal(t, 22, result.OpenPorts[0].Port)
	assert.Equal(t, "ssh", result.OpenPorts[0].Service)
	assert.Equal(t, 80, result.OpenPorts[1].Port)
	assert.Equal(t, "http", result.OpenPorts[1].Service)

	assert.Equal(t, "Linux 5.X", result.OSGuess)
}

func TestParseNmapNoOpenPorts(t *testing.T) {
	result := ParseNmap("PORT     STATE    SERVICE\n443/tcp  closed   https\n")
	assert.Empty(t, result.OpenPorts)
	assert.Empty(t, result.OSGuess)
}
