package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/shuttle/internal/model"
)

func TestDrillMetrics(t *testing.T) {
	pace, completion := DrillMetrics(30, 30, 60000)
	if math.Abs(pace-30) > 1e-9 {
		t.Fatalf("expected 30 picks/min, got %v", pace)
	}
	if math.Abs(completion-1) > 1e-9 {
		t.Fatalf("expected completion 1, got %v", completion)
	}

	pace, completion = DrillMetrics(15, 30, 30000)
	if math.Abs(pace-30) > 1e-9 {
		t.Fatalf("expected 30 picks/min, got %v", pace)
	}
	if math.Abs(completion-0.5) > 1e-9 {
		t.Fatalf("expected completion 0.5, got %v", completion)
	}

	if pace, completion = DrillMetrics(10, 0, 0); pace != 0 || completion != 0 {
		t.Fatalf("zero duration and plan must yield zero metrics, got %v %v", pace, completion)
	}
}

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, out[i], want[i])
		}
	}
	out = MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 must copy values, index %d: %v", i, out[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	got := Sparkline([]float64{0, 1})
	if len(got) != 2 {
		t.Fatalf("expected 2 chars, got %q", got)
	}
	if got[0] != sparkChars[0] || got[1] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected extremes, got %q", got)
	}
	flat := Sparkline([]float64{3, 3, 3})
	if len(flat) != 3 || flat[0] != flat[1] || flat[1] != flat[2] {
		t.Fatalf("flat series must render uniformly, got %q", flat)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	drills := []model.DrillAggregate{
		{Picks: 30, Planned: 30, Completed: true, DurationMs: 60000},
		{Picks: 10, Planned: 20, Completed: false, DurationMs: 30000},
	}
	if err := RenderSummary(&buf, drills); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, needle := range []string{"Drills: 2 (1 completed)", "Total picks: 40", "picks/min"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("summary missing %q:\n%s", needle, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No drills found.") {
		t.Fatalf("empty summary wrong: %q", buf.String())
	}
}

func TestRenderCornerTable(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.CornerAggregate{
		{Corner: 0, Picks: 30},
		{Corner: 3, Picks: 10},
	}
	if err := RenderCornerTable(&buf, aggs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, needle := range []string{"1 Front Left", "4 Mid Right", "75.0%", "25.0%"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("corner table missing %q:\n%s", needle, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{5000, "5s"},
		{65000, "1m05s"},
		{3900000, "1h05m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.ms); got != tc.want {
			t.Fatalf("%d ms: got %q, want %q", tc.ms, got, tc.want)
		}
	}
}
