package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/tui/styles"
	"fedcredit/loanscope/internal/util"
)

// chartHeight is the fixed height for the obligation trend plot.
const chartHeight = 6

// TrendChart renders a fiscal-year obligation series as an ASCII line chart
// with a label header, a year axis, and a min/max/latest summary line.
func TrendChart(label string, series []domain.FiscalYearData, width int) string {
	if len(series) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	data := make([]float64, len(series))
	for i, p := range series {
		data[i] = p.Obligations
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 12 chars for
	// dollar-scale values).
	plotWidth := width - 12
	if plotWidth < 10 {
		plotWidth = 10
	}

	chart := asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DodgerBlue),
		asciigraph.LabelColor(asciigraph.Default),
	)

	axis := yearAxis(series, plotWidth)

	latest := data[len(data)-1]
	min, max := minMax(data)
	summary := styles.MutedText.Render(
		fmt.Sprintf("  latest: %s  min: %s  max: %s",
			util.DollarsCompact(latest),
			util.DollarsCompact(min),
			util.DollarsCompact(max),
		),
	)

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart, axis, summary)
}

// yearAxis spreads FY labels under the plot, first year left-aligned and
// last year right-aligned.
func yearAxis(series []domain.FiscalYearData, plotWidth int) string {
	first := fmt.Sprintf("FY%d", series[0].Year)
	if len(series) == 1 {
		return styles.MutedText.Render(strings.Repeat(" ", 12) + first)
	}
	last := fmt.Sprintf("FY%d", series[len(series)-1].Year)
	gap := plotWidth - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return styles.MutedText.Render(strings.Repeat(" ", 12) + first + strings.Repeat(" ", gap) + last)
}

// minMax returns the minimum and maximum values from a slice.
func minMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	min, max := data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
