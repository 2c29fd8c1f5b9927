package components

import (
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/cloud9/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		widths := LayoutRow(101, n)
		total := 0
		for _, w := range widths {
			total += w
		}
		if total != 101 {
			t.Fatalf("LayoutRow(101, %d) sums to %d", n, total)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowPadsShortCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}

	w := lipgloss.Width(lines[0])
	for i, line := range lines {
		if lipgloss.Width(line) != w {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(line), w)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no background styling", i)
		}
	}
}

func TestBarChartHeight(t *testing.T) {
	out := BarChart([]float64{2000, 2200, 2600}, []string{"Jan", "Feb", "Mar"}, theme.Active.Blue, 40, 6)
	// rows + axis + labels
	if got := lipgloss.Height(out); got != 8 {
		t.Fatalf("bar chart height = %d, want 8", got)
	}
	if !strings.Contains(out, "Mar") {
		t.Error("last label missing")
	}
}

func TestLineChartFixedDomainClamps(t *testing.T) {
	out := LineChart([]float64{40, 75, 120}, []string{"d1", "d2", "d3"}, theme.Active.Green, 40, 5, 50, 100)
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("line chart lines = %d, want 7", len(lines))
	}
	if !strings.Contains(lines[0], "100") || !strings.Contains(lines[4], "50") {
		t.Errorf("expected 100 on top row and 50 on bottom row:\n%s", out)
	}
	// 120 clamps to the top row, 40 to the bottom row.
	if !strings.Contains(lines[0], "●") || !strings.Contains(lines[4], "●") {
		t.Errorf("clamped points missing:\n%s", out)
	}
}

func TestLineChartSkipsNonFinite(t *testing.T) {
	out := LineChart([]float64{1, math.NaN(), 3}, nil, theme.Active.Green, 30, 4, 0, 0)
	if strings.Count(out, "●") != 2 {
		t.Errorf("want 2 plotted points:\n%s", out)
	}
}

func TestNarrowChartsFallBackToSparkline(t *testing.T) {
	if got := lipgloss.Height(BarChart([]float64{1, 2}, nil, theme.Active.Blue, 10, 6)); got != 1 {
		t.Errorf("narrow bar chart height = %d, want 1", got)
	}
	if LineChart(nil, nil, theme.Active.Blue, 40, 6, 0, 0) != "" {
		t.Error("empty line chart should render nothing")
	}
}

func TestAxisLabelsKeepsLast(t *testing.T) {
	got := axisLabels([]string{"Jan", "Feb", "Mar"}, []int{0, 2, 4}, 8)
	if !strings.HasSuffix(got, "Mar") {
		t.Errorf("axisLabels = %q, want last label kept", got)
	}
	if !strings.HasPrefix(got, "Jan") {
		t.Errorf("axisLabels = %q, want first label kept", got)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('o') != 3 {
		t.Errorf("o -> %d, want 3", TabIdxByKey('o'))
	}
	if TabIdxByKey('z') != -1 {
		t.Error("unknown key should be -1")
	}
}

func TestTableTruncatesToWidth(t *testing.T) {
	out := Table([]string{"Resource ID", "Recommendation"},
		[][]string{{"vm-1", strings.Repeat("x", 80)}}, 40)
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 40 {
			t.Errorf("line wider than 40: %d", lipgloss.Width(line))
		}
	}
	if !strings.Contains(out, "…") {
		t.Error("expected truncation marker")
	}
}
