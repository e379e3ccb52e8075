package parsers

import (
	"regexp"
	"strings"
	"time"
)

// AuthEvent summarizes one peer IP's activity in an auth log window.
type AuthEvent struct {
	IP       string
	Count    int
	LastSeen time.Time
}

var (
	syslogTimestampRe = regexp.MustCompile(`^([A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})`)
	acceptedRe        = regexp.MustCompile(`Accepted \S+ for \S+ from (\S+)`)
	failedRe          = regexp.MustCompile(`Failed password for (?:invalid user )?\S+ from (\S+)`)
)

// ParseAuthLog scans /var/log/auth.log-style text and returns accepted and
// failed SSH login events, restricted to the trailing 24h relative to now.
// Syslog lines carry no year, so the current year (from now) is assumed;
// a line that appears to be from "the future" by more than a day is
// treated as belonging to the previous year (handles the December/January
// boundary).
func ParseAuthLog(output string, now time.Time) (accepted, failed []AuthEvent) {
	acceptedCounts := make(map[string]*AuthEvent)
	failedCounts := make(map[string]*AuthEvent)
	var acceptedOrder, failedOrder []string

	cutoff := now.Add(-24 * time.Hour)

	for _, line := range strings.Split(output, "\n") {
		ts, ok := parseSyslogTimestamp(line, now)
		if !ok || ts.Before(cutoff) || ts.After(now) {
			continue
		}

		if m := acceptedRe.FindStringSubmatch(line); m != nil {
			recordAuthEvent(acceptedCounts, &acceptedOrder, m[1], ts)
			continue
		}
		if m := failedRe.FindStringSubmatch(line); m != nil {
			recordAuthEvent(failedCounts, &failedOrder, m[1], ts)
		}
	}

	for _, ip := range acceptedOrder {
		accepted = append(accepted, *acceptedCounts[ip])
	}
	for _, ip := range failedOrder {
		failed = append(failed, *failedCounts[ip])
	}
	return accepted, failed
}

func recordAuthEvent(counts map[string]*AuthEvent, order *[]string, ip string, ts time.Time) {
	ev, seen := counts[ip]
	if !seen {
		ev = &AuthEvent{IP: ip}
		counts[ip] = ev
		*order = append(*order, ip)
	}
	ev.Count++
	if ts.After(ev.LastSeen) {
		ev.LastSeen = ts
	}
}

// parseSyslogTimestamp parses the "Mon _2 15:04:05" prefix of a syslog
// line, assuming the year nearest to now.
func parseSyslogTimestamp(line string, now time.Time) (time.Time, bool) {
	m := syslogTimestampRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}

	ts, err := time.Parse("Jan 2 15:04:05", m[1])
	if err != nil {
		return time.Time{}, false
	}

	ts = ts.AddDate(now.Year(), 0, 0)
	if ts.After(now.Add(24 * time.Hour)) {
		ts = ts.AddDate(-1, 0, 0)
	}
	return ts, true
}
