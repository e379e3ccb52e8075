package parsers

import (
	"regexp"
	"strconv"
	"strings"
)

// OpenPort is one open port reported by nmap.
type OpenPort struct {
	Port    int
	Service string
}

// NmapResult is the parsed output of `nmap -sT --top-ports 20 <ip>`.
type NmapResult struct {
	OpenPorts []OpenPort
	OSGuess   string
}

var (
	portLineRe = regexp.MustCompile(`^(\d+)/tcp\s+open\s+(\S+)`)
	osDetailRe = regexp.MustCompile(`^(?:OS details|Running|Aggressive OS guesses):\s*(.+)$`)
)

// ParseNmap extracts the open-port list and a best-effort OS guess from
// nmap's default text output. A scan with no open ports and no OS line
// yields a zero-value NmapResult, not an error.
func ParseNmap(output string) NmapResult {
	var result NmapResult

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if m := portLineRe.FindStringSubmatch(line); m != nil {
			port, err := strconv.Atoi(m[1])
			if err == nil {
				result.OpenPorts = append(result.OpenPorts, OpenPort{Port: port, Service: m[2]})
			}
			continue
		}

		if m := osDetailRe.FindStringSubmatch(line); m != nil && result.OSGuess == "" {
			result.OSGuess = strings.TrimSuffix(m[1], ".")
		}
	}

	return result
}
