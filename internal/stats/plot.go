// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisLabelMid        = "50%"
	axisLabelBottom     = "0%"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	terminalWidthBackup = 80
)

var seriesMarks = []rune{'*', '+', 'o', 'x'}

// PlotWidthFor returns the plot body width for a given total terminal width.
func PlotWidthFor(totalWidth int) int {
	width := totalWidth - utf8.RuneCountInString(axisLabelTop) - utf8.RuneCountInString(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

func autoPlotWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		w = terminalWidthBackup
	}
	return PlotWidthFor(w)
}

// PlotSeries renders a multi-line text plot for the provided series. Each
// series is scaled to its own min/max; the legend carries the ranges.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	plotted := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			plotted = append(plotted, s)
		}
	}
	if len(plotted) == 0 {
		return nil
	}
	if height <= 1 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	type minMax struct{ min, max float64 }
	ranges := make([]minMax, len(plotted))
	for si, s := range plotted {
		values := resampleSeries(s.Values, width)
		minVal, maxVal := seriesMinMax(values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		ranges[si] = minMax{min: minVal, max: maxVal}
		mark := seriesMarks[si%len(seriesMarks)]
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			y := int(math.Round(pos * float64(height-1)))
			grid[height-1-y][x] = mark
		}
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	labelWidth := utf8.RuneCountInString(axisLabelTop)
	for row := 0; row < height; row++ {
		label := ""
		switch row {
		case 0:
			label = axisLabelTop
		case height / 2:
			label = axisLabelMid
		case height - 1:
			label = axisLabelBottom
		}
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(label))
		if _, err := fmt.Fprintf(w, "%s%s%s%s\n", pad, label, axisSeparator, string(grid[row])); err != nil {
			return err
		}
	}
	for si, s := range plotted {
		mark := seriesMarks[si%len(seriesMarks)]
		if _, err := fmt.Fprintf(w, "  %c %s (min %.1f, max %.1f)\n", mark, s.Name, ranges[si].min, ranges[si].max); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	return nil
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}
