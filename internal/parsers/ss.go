package parsers

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

// PeerConnection is one distinct peer IP and how many established
// connections it has, extracted from `ss -tnp` output.
type PeerConnection struct {
	PeerIP          string
	ConnectionCount int
}

// ParseSSConnections parses `ss -tnp` output into per-peer connection
// counts, excluding loopback and link-local addresses on both IPv4 and
// IPv6. The "Peer Address:Port" column is the second-to-last whitespace
// field on each data row.
func ParseSSConnections(output string) []PeerConnection {
	counts := make(map[string]int)
	var order []string

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		if strings.EqualFold(fields[0], "State") || strings.EqualFold(fields[0], "Netid") {
			continue
		}

		peerField := fields[len(fields)-2]
		ip := stripPort(peerField)
		if ip == "" || isExcludedPeer(ip) {
			continue
		}

		if _, seen := counts[ip]; !seen {
			order = append(order, ip)
		}
		counts[ip]++
	}

	result := make([]PeerConnection, 0, len(order))
	for _, ip := range order {
		result = append(result, PeerConnection{PeerIP: ip, ConnectionCount: counts[ip]})
	}
	return result
}

// stripPort removes a trailing ":<port>" from an address:port pair,
// handling bracketed IPv6 literals like "[::1]:443".
func stripPort(addrPort string) string {
	if strings.HasPrefix(addrPort, "[") {
		end := strings.Index(addrPort, "]")
		if end == -1 {
			return ""
		}
		return addrPort[1:end]
	}
	idx := strings.LastIndex(addrPort, ":")
	if idx == -1 {
		return addrPort
	}
	return addrPort[:idx]
}

// isExcludedPeer reports whether ip is loopback or link-local, in either
// IPv4 or IPv6 form.
func isExcludedPeer(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast()
}

// OpenPort is declared in nmap.go; ParseListeningPorts reuses its shape
// since both describe a port plus the service/process name bound to it.

var processNameRe = regexp.MustCompile(`users:\(\("([^"]+)"`)

// ParseListeningPorts extracts the port and owning process name from
// `ss -tlnp` output's "Local Address:Port" and "Process" columns.
func ParseListeningPorts(output string) []OpenPort {
	var ports []OpenPort

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if strings.EqualFold(fields[0], "State") || strings.EqualFold(fields[0], "Netid") {
			continue
		}

		local := fields[3]
		idx := strings.LastIndex(local, ":")
		if idx == -1 {
			continue
		}
		port, err := strconv.Atoi(local[idx+1:])
		if err != nil {
			continue
		}

		service := "unknown"
		if m := processNameRe.FindStringSubmatch(line); m != nil {
			service = m[1]
		}

		ports = append(ports, OpenPort{Port: port, Service: service})
	}

	return ports
}
