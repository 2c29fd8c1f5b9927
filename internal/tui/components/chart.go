package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	peak := math.Max(maxOf(values), 0)
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		buf.WriteRune(blocks[clamp(idx, 0, len(blocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// yScale maps values onto chart rows and labels the y-axis.
type yScale struct {
	lo, hi float64
	labelW int
}

// autoScale picks a zero-based axis whose ceiling is a round tick multiple.
func autoScale(values []float64) yScale {
	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}
	step := chartTickStep(peak)
	return newScale(0, math.Ceil(peak/step)*step)
}

func newScale(lo, hi float64) yScale {
	if hi <= lo {
		hi = lo + 1
	}
	return yScale{lo: lo, hi: hi, labelW: max(len(formatChartLabel(hi)), len(formatChartLabel(lo)), 3) + 1}
}

// row returns the 0-based row from the bottom for v on a chart of h rows.
func (s yScale) row(v float64, h int) int {
	frac := (v - s.lo) / (s.hi - s.lo)
	return clamp(int(math.Round(frac*float64(h-1))), 0, h-1)
}

func (s yScale) label(row, h int) string {
	switch row {
	case h - 1:
		return formatChartLabel(s.hi)
	case 0:
		return formatChartLabel(s.lo)
	case (h - 1) / 2:
		return formatChartLabel(s.lo + (s.hi-s.lo)*float64(row)/float64(h-1))
	}
	return ""
}

// BarChart renders one vertical bar per value with eighth-block tops.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active
	scale := autoScale(values)
	plotW := max(width-scale.labelW-1, 5)

	n := len(values)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := clamp((plotW-(n-1)*gap)/n, 1, 6)

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	barStyle := lipgloss.NewStyle().Foreground(color)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := scale.lo + (scale.hi-scale.lo)*float64(row)/float64(height)
		bottom := scale.lo + (scale.hi-scale.lo)*float64(row-1)/float64(height)

		lbl := ""
		if row == height {
			lbl = formatChartLabel(scale.hi)
		} else if row == (height+1)/2 {
			lbl = formatChartLabel(top)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", scale.labelW, lbl)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := clamp(int((v-bottom)/(top-bottom)*8), 1, 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(strings.Repeat(" ", barW))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n-1)*gap
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", scale.labelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		positions := make([]int, n)
		for i := range positions {
			positions[i] = i * (barW + gap)
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", scale.labelW+1))
		b.WriteString(axisStyle.Render(axisLabels(labels, positions, axisLen)))
	}

	return b.String()
}

// LineChart plots values left to right and joins neighbouring points.
// When lo < hi the y-axis is fixed to [lo, hi] and values outside are
// clamped; otherwise the axis runs from zero to a round ceiling.
// Non-finite values are skipped.
func LineChart(values []float64, labels []string, color lipgloss.Color, width, height int, lo, hi float64) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active
	scale := autoScale(values)
	if lo < hi {
		scale = newScale(lo, hi)
	}
	plotW := max(width-scale.labelW-1, 5)

	n := len(values)
	cols := make([]int, n)
	for i := range cols {
		if n > 1 {
			cols[i] = i * (plotW - 1) / (n - 1)
		}
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", plotW))
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	for i := 0; i+1 < n; i++ {
		a, c := values[i], values[i+1]
		if !finite(a) || !finite(c) {
			continue
		}
		x0, x1 := cols[i], cols[i+1]
		for x := x0 + 1; x < x1; x++ {
			v := a + (c-a)*float64(x-x0)/float64(x1-x0)
			grid[height-1-scale.row(v, height)][x] = '·'
		}
	}
	for i, v := range values {
		if finite(v) {
			grid[height-1-scale.row(v, height)][cols[i]] = '●'
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	lineStyle := lipgloss.NewStyle().Foreground(color)

	var b strings.Builder
	for r := 0; r < height; r++ {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", scale.labelW, scale.label(height-1-r, height))))
		b.WriteString(lineStyle.Render(strings.TrimRight(string(grid[r]), " ")))
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", scale.labelW, "", strings.Repeat("─", plotW))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", scale.labelW+1))
		b.WriteString(axisStyle.Render(axisLabels(labels, cols, plotW)))
	}

	return b.String()
}

// axisLabels places labels at their column positions, skipping any that
// would collide with the previous one. The last label is always kept.
func axisLabels(labels []string, positions []int, width int) string {
	buf := []rune(strings.Repeat(" ", width))
	lastEnd := -1
	place := func(i int, force bool) {
		lbl := []rune(labels[i])
		pos := positions[i]
		if pos+len(lbl) > width {
			pos = width - len(lbl)
		}
		if pos < 0 || (!force && pos <= lastEnd) {
			return
		}
		if force && pos <= lastEnd {
			// clear whatever the last placed label left here
			for j := max(pos-1, 0); j < width; j++ {
				buf[j] = ' '
			}
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := 0; i < len(labels)-1; i++ {
		place(i, false)
	}
	if len(labels) > 0 {
		place(len(labels)-1, true)
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case abs >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case abs >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func maxOf(values []float64) float64 {
	peak := math.Inf(-1)
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > peak {
			peak = v
		}
	}
	if math.IsInf(peak, -1) {
		return 0
	}
	return peak
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
