package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendNoReferenceIsUnknown(t *testing.T) {
	assert.Equal(t, ArrowUnknown, Trend(50, 0, false))
}

func TestTrendUpDownFlat(t *testing.T) {
	assert.Equal(t, ArrowUp, Trend(110, 100, true))
	assert.Equal(t, ArrowDown, Trend(90, 100, true))
	assert.Equal(t, ArrowFlat, Trend(102, 100, true))
	assert.Equal(t, ArrowFlat, Trend(98, 100, true))
}

func TestTrendMonotonicIncreaseIsUp(t *testing.T) {
	series := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, ArrowUp, Trend(series[len(series)-1], series[0], true))
}

func TestTrendMonotonicDecreaseIsDown(t *testing.T) {
	series := []float64{50, 40, 30, 20, 10}
	assert.Equal(t, ArrowDown, Trend(series[len(series)-1], series[0], true))
}

func TestTrendZeroReference(t *testing.T) {
	assert.Equal(t, ArrowFlat, Trend(0, 0, true))
	assert.Equal(t, ArrowUp, Trend(5, 0, true))
	assert.Equal(t, ArrowDown, Trend(-5, 0, true))
}
