package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotWidthFor(t *testing.T) {
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	total := 80
	expected := total - axisWidth
	if expected < minPlotWidth {
		expected = minPlotWidth
	}
	if got := PlotWidthFor(total); got != expected {
		t.Fatalf("expected width %d, got %d", expected, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestPlotSeriesRendersTitleAndLegend(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Pace", []Series{
		{Name: "Picks/min", Values: []float64{10, 20, 30, 25}},
	}, 20, 5)
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, needle := range []string{"Pace", "Picks/min", "min 10.0", "max 30.0", scaleNote} {
		if !strings.Contains(out, needle) {
			t.Fatalf("plot missing %q:\n%s", needle, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 5 {
		t.Fatalf("expected at least 5 lines, got %d", lines)
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 20, 5); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestResampleSeries(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	out := resampleSeries(values, 3)
	want := []float64{1.5, 3.5, 5.5}
	if len(out) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("bucket %d: got %v, want %v", i, out[i], want[i])
		}
	}
	short := resampleSeries([]float64{1, 2}, 10)
	if len(short) != 2 {
		t.Fatalf("short series must not be stretched, got %d values", len(short))
	}
}
