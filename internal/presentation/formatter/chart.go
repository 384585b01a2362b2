package formatter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-efficia-monitor/internal/data/aggregator"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/layout"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// ChartPalette colors the slices in order, wrapping around.
var ChartPalette = []string{"#8884d8", "#82ca9d", "#ffc658", "#ff8042", "#00C49F", "#FFBB28"}

const (
	defaultBarWidth = 30
	barFull         = "█"
	barEmpty        = "░"
)

// ChartFormatter draws the time share of each app as a horizontal bar with
// its percentage, followed by a color legend.
type ChartFormatter struct {
	BarWidth int
	sizer    layout.Sizer
}

func NewChartFormatter() *ChartFormatter {
	return &ChartFormatter{BarWidth: defaultBarWidth}
}

func (f *ChartFormatter) Format(w io.Writer, r Report) error {
	renderer := lipgloss.NewRenderer(w)
	titleStyle := renderer.NewStyle().Bold(true)
	dimStyle := renderer.NewStyle().Faint(true)

	lines := []string{titleStyle.Render(ChartSection)}
	if r.Err != nil {
		lines = append(lines, "Error: "+r.Err.Error())
	}

	shares := aggregator.Shares(r.Summaries)
	if len(shares) == 0 {
		lines = append(lines, NoDataPlaceholder)
		_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
		return err
	}

	nameWidth := 0
	for _, s := range shares {
		if n := f.sizer.DisplayWidth(s.AppName); n > nameWidth {
			nameWidth = n
		}
	}

	legend := make([]string, 0, len(shares))
	for i, s := range shares {
		color := renderer.NewStyle().Foreground(lipgloss.Color(ChartPalette[i%len(ChartPalette)]))
		filled := f.filledCells(s.Percent)

		bar := color.Render(strings.Repeat(barFull, filled)) +
			dimStyle.Render(strings.Repeat(barEmpty, f.barWidth()-filled))
		lines = append(lines, fmt.Sprintf("%s %s %6s  %s",
			f.sizer.PadString(s.AppName, nameWidth, true),
			bar,
			util.FormatPercent(s.Percent),
			util.FormatDurationSafe(s.Seconds)))
		legend = append(legend, color.Render("■")+" "+s.AppName)
	}

	lines = append(lines, "", "Legend: "+strings.Join(legend, "  "))
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}

func (f *ChartFormatter) barWidth() int {
	if f.BarWidth <= 0 {
		return defaultBarWidth
	}
	return f.BarWidth
}

// filledCells rounds a percentage onto the bar. Any non-zero share gets at
// least one cell so small apps stay visible.
func (f *ChartFormatter) filledCells(percent float64) int {
	width := f.barWidth()
	filled := int(math.Round(percent / 100 * float64(width)))
	if filled == 0 && percent > 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return filled
}
