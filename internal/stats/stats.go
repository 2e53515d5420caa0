// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/shuttle/internal/model"
)

const sparkChars = " .:-=+*#%@"

// DrillMetrics computes picks per minute and the completion ratio for a run.
func DrillMetrics(picks, planned int, durationMs int64) (picksPerMin, completion float64) {
	if durationMs > 0 {
		minutes := float64(durationMs) / 60000.0
		if minutes > 0 {
			picksPerMin = float64(picks) / minutes
		}
	}
	if planned > 0 {
		completion = float64(picks) / float64(planned)
	}
	return picksPerMin, completion
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
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
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary table for drills.
func RenderSummary(w io.Writer, drills []model.DrillAggregate) error {
	if len(drills) == 0 {
		_, err := fmt.Fprintln(w, "No drills found.")
		return err
	}
	var totalRate, totalCompletion float64
	var totalPicks int
	var totalDurationMs int64
	completedRuns := 0
	for _, d := range drills {
		rate, completion := DrillMetrics(d.Picks, d.Planned, d.DurationMs)
		totalRate += rate
		totalCompletion += completion
		totalPicks += d.Picks
		totalDurationMs += d.DurationMs
		if d.Completed {
			completedRuns++
		}
	}
	count := float64(len(drills))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Drills: %d (%d completed)\n", len(drills), completedRuns); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total picks: %d\n", totalPicks); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total time: %s\n", formatDuration(totalDurationMs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg pace: %.1f picks/min\n", totalRate/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg completion: %.1f%%\n", (totalCompletion/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCornerTable prints per-corner pick aggregates.
func RenderCornerTable(w io.Writer, aggs []model.CornerAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No corner stats found.")
		return err
	}
	total := 0
	for _, agg := range aggs {
		total += agg.Picks
	}

	if _, err := fmt.Fprintln(w, "Per-Corner"); err != nil {
		return err
	}

	headers := []string{"Corner", "Picks", "Share"}
	tableRows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		label := fmt.Sprintf("%d", agg.Corner+1)
		if agg.Corner >= 0 && agg.Corner < model.NumCorners {
			label = fmt.Sprintf("%d %s", agg.Corner+1, model.CornerNames[agg.Corner])
		}
		share := 0.0
		if total > 0 {
			share = float64(agg.Picks) / float64(total)
		}
		tableRows = append(tableRows, []string{
			label,
			fmt.Sprintf("%d", agg.Picks),
			fmt.Sprintf("%.1f%%", share*100),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderPaceCurve prints a pace learning curve across drills.
func RenderPaceCurve(w io.Writer, drills []model.DrillAggregate, window, totalWidth, height int) error {
	if len(drills) == 0 {
		return nil
	}
	paces := make([]float64, len(drills))
	for i, d := range drills {
		pace, _ := DrillMetrics(d.Picks, d.Planned, d.DurationMs)
		paces[i] = pace
	}
	paces = MovingAverage(paces, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Pace", []Series{
		{Name: "Picks/min", Values: paces},
	}, width, height)
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	mins := secs / 60
	secs -= mins * 60
	if mins < 60 {
		return fmt.Sprintf("%dm%02ds", mins, secs)
	}
	hours := mins / 60
	mins -= hours * 60
	return fmt.Sprintf("%dh%02dm", hours, mins)
}
