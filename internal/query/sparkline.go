// Package query exposes the small, pure read API the renderer uses to
// turn raw store rows into trend arrows, sparklines, and rates. Every
// function here is stateless: the store is the only source of truth.
package query

import "strings"

// sparklineBlocks are the 8 vertical levels, lowest to highest.
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// Sparkline maps values into the 8-level block glyph set by normalizing
// to the observed min/max within the last width samples. When every
// sampled value is equal, it emits the lowest glyph repeated (unlike a
// generic sparkline renderer that might pick the middle glyph — a flat
// series here means "nothing is happening", not "mid-range activity").
// Styling is the renderer's job: this returns a plain string, no ANSI.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	var sb strings.Builder
	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range values {
		if valueRange == 0 {
			sb.WriteRune(sparklineBlockRunes[0])
			continue
		}

		normalized := (v - minVal) / valueRange
		level := int(normalized * float64(numLevels-1))
		if level < 0 {
			level = 0
		} else if level >= numLevels {
			level = numLevels - 1
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	return sb.String()
}
