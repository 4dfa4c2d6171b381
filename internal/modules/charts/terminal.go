package charts

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
)

// Block elements for sub-character vertical resolution (1/8 to 8/8).
var blockChars = [9]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderArea renders a filled area chart using Unicode block elements.
// Columns at or above baseline use aboveColor, the rest belowColor.
func RenderArea(data []float64, baseline float64, width, height int, aboveColor, belowColor lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	cols := Downsample(data, width)
	levels := scale(cols, height*8)

	above := lipgloss.NewStyle().Foreground(aboveColor)
	below := lipgloss.NewStyle().Foreground(belowColor)

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		rowBottom := (height - 1 - row) * 8

		var sb strings.Builder
		empty := true
		for col, level := range levels {
			fill := level - rowBottom
			if fill <= 0 {
				sb.WriteRune(' ')
				continue
			}
			if fill > 8 {
				fill = 8
			}
			empty = false

			style := above
			if cols[col] < baseline {
				style = below
			}
			sb.WriteString(style.Render(string(blockChars[fill])))
		}
		// Fully empty top rows are dropped
		if empty && len(rows) == 0 {
			continue
		}
		rows = append(rows, sb.String())
	}

	return strings.Join(rows, "\n")
}

// scale maps each value to 1..total so every column shows at least one level.
func scale(cols []float64, total int) []int {
	lo, hi := floats.Min(cols), floats.Max(cols)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	out := make([]int, len(cols))
	for i, v := range cols {
		s := int((v-lo)/span*float64(total-1)) + 1
		if s > total {
			s = total
		}
		if s < 1 {
			s = 1
		}
		out[i] = s
	}
	return out
}

// Downsample reduces data to n points by averaging buckets.
func Downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	out := make([]float64, n)
	bucketSize := float64(len(data)) / float64(n)
	for i := 0; i < n; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// Sparkline renders values on one line with block characters, no color.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	cols := Downsample(data, width)
	levels := scale(cols, 8)
	var sb strings.Builder
	for _, l := range levels {
		sb.WriteRune(blockChars[l])
	}
	return sb.String()
}
