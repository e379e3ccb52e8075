package parsers

import (
	"strconv"
	"strings"
)

// MemoryInfo is the parsed "Mem:" line of `free -h`.
type MemoryInfo struct {
	UsedMB  float64
	TotalMB float64
	OK      bool
}

// ParseFree extracts used/total memory in MB from `free -h` output. Sizes
// are given in human-readable units (e.g. "7.4Gi"), reused via ParseSize.
func ParseFree(output string) MemoryInfo {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "Mem:" {
			continue
		}

		totalBytes, ok1 := ParseSize(fields[1])
		usedBytes, ok2 := ParseSize(fields[2])
		if !ok1 || !ok2 {
			continue
		}

		return MemoryInfo{
			UsedMB:  float64(usedBytes) / (1024 * 1024),
			TotalMB: float64(totalBytes) / (1024 * 1024),
			OK:      true,
		}
	}
	return MemoryInfo{}
}

// DiskInfo is the parsed root-filesystem line of `df -h`.
type DiskInfo struct {
	UsedGB  float64
	TotalGB float64
	OK      bool
}

// ParseDF extracts used/total disk space in GB (2^30-byte units, like
// ParseFree's 2^20-byte MB) for the "/" mount point from `df -h` output.
func ParseDF(output string) DiskInfo {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		if fields[len(fields)-1] != "/" {
			continue
		}

		totalBytes, ok1 := ParseSize(fields[1])
		usedBytes, ok2 := ParseSize(fields[2])
		if !ok1 || !ok2 {
			continue
		}

		return DiskInfo{
			UsedGB:  float64(usedBytes) / (1024 * 1024 * 1024),
			TotalGB: float64(totalBytes) / (1024 * 1024 * 1024),
			OK:      true,
		}
	}
	return DiskInfo{}
}

// LoadAverages is the parsed tail of `uptime` output.
type LoadAverages struct {
	Load1  float64
	Load5  float64
	Load15 float64
	OK     bool
}

// ParseUptime extracts the three load averages from `uptime` output's
// "load average: 0.10, 0.20, 0.30" suffix.
func ParseUptime(output string) LoadAverages {
	idx := strings.LastIndex(output, "load average:")
	if idx == -1 {
		return LoadAverages{}
	}

	rest := output[idx+len("load average:"):]
	parts := strings.Split(rest, ",")
	if len(parts) < 3 {
		return LoadAverages{}
	}

	values := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return LoadAverages{}
		}
		values[i] = v
	}

	return LoadAverages{Load1: values[0], Load5: values[1], Load15: values[2], OK: true}
}

// ProcessRow is one row of `ps aux --sort=-%cpu` output.
type ProcessRow struct {
	User    string
	PID     int
	CPUPct  float64
	MemPct  float64
	Command string
}

// ParseTopProcesses returns the first n rows (after the header) of
// `ps aux --sort=-%cpu` output, already sorted by the ps invocation
// itself, so this is purely a slice-and-parse operation.
func ParseTopProcesses(output string, n int) []ProcessRow {
	lines := strings.Split(output, "\n")
	var rows []ProcessRow

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 11 {
			continue
		}
		if fields[0] == "USER" {
			continue // header
		}

		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		cpu, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		mem, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}

		rows = append(rows, ProcessRow{
			User:    fields[0],
			PID:     pid,
			CPUPct:  cpu,
			MemPct:  mem,
			Command: strings.Join(fields[10:], " "),
		})

		if len(rows) == n {
			break
		}
	}

	return rows
}
