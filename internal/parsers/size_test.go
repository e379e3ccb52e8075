package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSizeBinaryUnitsAgree(t *testing.T) {
	ki, ok := ParseSize("1024Ki")
	assert.True(t, ok)
	mi, ok := ParseSize("1Mi")
	assert.True(t, ok)
	assert.Equal(t, mi, ki)
}

func TestParseSizeTable(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"512Mi", 512 * 1024 * 1024, true},
		{"1G", 1_000_000_000, true},
		{"1.5G", 1_500_000_000, true},
		{"0B", 0, true},
		{"7.4Gi", 7945689497, true},
		{"100Qi", 0, false},
		{"not-a-size", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseSize(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestParseSizeNeverPanics(t *testing.T) {
	inputs := []string{"", "   ", "Ki", "-5Mi", "5", "5i"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { ParseSize(in) })
	}
}
