package query

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSparklineLengthMatchesMinWidthOrLength(t *testing.T) {
	cases := []struct {
		values []float64
		width  int
	}{
		{[]float64{1}, 5},
		{[]float64{1, 2, 3, 4, 5, 6}, 3},
		{[]float64{1, 2, 3}, 10},
	}
	for _, c := range cases {
		out := Sparkline(c.values, c.width)
		want := len(c.values)
		if c.width < want {
			want = c.width
		}
		assert.Equal(t, want, utf8.RuneCountInString(out))
	}
}

func TestSparklineGlyphsAreFromBlockSet(t *testing.T) {
	out := Sparkline([]float64{1, 5, 3, 9, 2}, 10)
	for _, r := range out {
		assert.Contains(t, sparklineBlocks, string(r))
	}
}

func TestSparklineFlatSeriesUsesLowestGlyph(t *testing.T) {
	out := Sparkline([]float64{42, 42, 42, 42}, 4)
	for _, r := range out {
		assert.Equal(t, sparklineBlockRunes[0], r)
	}
}

func TestSparklineEmptyInput(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 5))
	assert.Equal(t, "", Sparkline([]float64{1, 2}, 0))
}

func TestSparklineMonotonicIncreasingRisesLevels(t *testing.T) {
	out := Sparkline([]float64{0, 25, 50, 75, 100}, 5)
	runes := []rune(out)
	assert.Equal(t, sparklineBlockRunes[0], runes[0])
	assert.Equal(t, sparklineBlockRunes[len(sparklineBlockRunes)-1], runes[len(runes)-1])
}
