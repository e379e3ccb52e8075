package query

import (
	"testing"

	"github.com/galacticcic/galacticcic/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestTokensPerHourReset(t *testing.T) {
	samples := []store.TokenSample{
		{Timestamp: 0, TokensUsed: 126000},
		{Timestamp: 3600, TokensUsed: 100},
	}
	result := TokensPerHour(samples)
	assert.True(t, result.Unknown)
}

func TestTokensPerHourNormalRate(t *testing.T) {
	samples := []store.TokenSample{
		{Timestamp: 0, TokensUsed: 1000},
		{Timestamp: 3600, TokensUsed: 2000},
	}
	result := TokensPerHour(samples)
	assert.False(t, result.Unknown)
	assert.Equal(t, 1000.0, result.Rate)
}

func TestTokensPerHourFewerThanTwoSamples(t *testing.T) {
	assert.True(t, TokensPerHour(nil).Unknown)
	assert.True(t, TokensPerHour([]store.TokenSample{{Timestamp: 0, TokensUsed: 1}}).Unknown)
}

func TestTotalTokensPerHourSkipsReset(t *testing.T) {
	perAgent := map[string][]store.TokenSample{
		"main": {
			{Timestamp: 0, TokensUsed: 126000},
			{Timestamp: 3600, TokensUsed: 100},
		},
		"rentalops": {
			{Timestamp: 0, TokensUsed: 1000},
			{Timestamp: 3600, TokensUsed: 2000},
		},
	}
	total := TotalTokensPerHour(perAgent)
	assert.Equal(t, 1000.0, total)
}
