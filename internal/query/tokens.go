package query

import "github.com/galacticcic/galacticcic/internal/store"

// TokensPerHourResult is either a numeric rate or the unknown sentinel.
type TokensPerHourResult struct {
	Rate    float64
	Unknown bool
}

// TokensPerHour computes an agent's token consumption rate over samples
// already restricted to the query window. Fewer than two samples, or any
// decrease between consecutive samples (a restart or usage reset), makes
// the rate unknown rather than misleadingly negative or zero.
func TokensPerHour(samples []store.TokenSample) TokensPerHourResult {
	if len(samples) < 2 {
		return TokensPerHourResult{Unknown: true}
	}

	for i := 1; i < len(samples); i++ {
		if samples[i].TokensUsed < samples[i-1].TokensUsed {
			return TokensPerHourResult{Unknown: true}
		}
	}

	first := samples[0]
	last := samples[len(samples)-1]
	deltaSeconds := last.Timestamp - first.Timestamp
	if deltaSeconds <= 0 {
		return TokensPerHourResult{Unknown: true}
	}

	rate := float64(last.TokensUsed-first.TokensUsed) * 3600 / deltaSeconds
	return TokensPerHourResult{Rate: rate}
}

// TotalTokensPerHour sums TokensPerHour across every agent's samples,
// counting only agents whose rate is numeric. An agent mid-reset simply
// doesn't contribute to the total, rather than poisoning it with "--".
func TotalTokensPerHour(perAgent map[string][]store.TokenSample) float64 {
	var total float64
	for _, samples := range perAgent {
		r := TokensPerHour(samples)
		if !r.Unknown {
			total += r.Rate
		}
	}
	return total
}
