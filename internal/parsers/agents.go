package parsers

import (
	"strconv"
	"strings"
)

// AgentRecord is one row of `openclaw agents list` output.
type AgentRecord struct {
	Name         string
	Model        string
	Sessions     int
	TokensUsed   int64
	StorageBytes int64
	IsDefault    bool
}

// ParseAgents extracts agent rows from `openclaw agents list` output. Each
// data row is "<name> [(default)] <model> <sessions> <tokens> <storage>";
// the header row and any line that doesn't fit that shape are skipped.
func ParseAgents(output string) []AgentRecord {
	var records []AgentRecord

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)

		var name, model, sessionsStr, tokensStr, storageStr string
		isDefault := false

		switch {
		case len(fields) == 6 && fields[1] == "(default)":
			name, isDefault = fields[0], true
			model, sessionsStr, tokensStr, storageStr = fields[2], fields[3], fields[4], fields[5]
		case len(fields) == 5:
			name = fields[0]
			model, sessionsStr, tokensStr, storageStr = fields[1], fields[2], fields[3], fields[4]
		default:
			continue
		}

		sessions, err := strconv.Atoi(sessionsStr)
		if err != nil {
			continue
		}
		tokens, err := strconv.ParseInt(tokensStr, 10, 64)
		if err != nil {
			continue
		}
		storage, ok := ParseSize(storageStr)
		if !ok {
			continue
		}

		records = append(records, AgentRecord{
			Name:         name,
			Model:        model,
			Sessions:     sessions,
			TokensUsed:   tokens,
			StorageBytes: storage,
			IsDefault:    isDefault,
		})
	}

	return records
}
