package picker

import (
	"math"
	"testing"
)

const epsilon = 1e-12

func allEnabled(n int) []Position {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return NewPositions(mask)
}

func TestRecomputeUniformPartition(t *testing.T) {
	positions := allEnabled(6)
	if err := Recompute(positions, NoLastVisited); err != nil {
		t.Fatal(err)
	}
	base := 1.0 / 6.0
	for i, p := range positions {
		want := float64(i+1) * base
		if i == 5 {
			want = 1.0
		}
		if math.Abs(p.Weight-want) > epsilon {
			t.Fatalf("corner %d: weight %v, want %v", i, p.Weight, want)
		}
	}
	if positions[5].Weight != 1.0 {
		t.Fatalf("final weight must be exactly 1.0, got %v", positions[5].Weight)
	}
}

func TestRecomputeHalvesRepeatSlice(t *testing.T) {
	// 6 corners, last visited = 3: slices {0,1,2} = 11/60 each,
	// slice 3 = 1/12, slices {4,5} = 11/60 each, final cumulative 1.0.
	positions := allEnabled(6)
	if err := Recompute(positions, 3); err != nil {
		t.Fatal(err)
	}
	adj := 11.0 / 60.0
	half := 1.0 / 12.0
	want := []float64{adj, 2 * adj, 3 * adj, 3*adj + half, 4*adj + half, 1.0}
	for i, p := range positions {
		if math.Abs(p.Weight-want[i]) > epsilon {
			t.Fatalf("corner %d: weight %v, want %v", i, p.Weight, want[i])
		}
	}
	if width := positions[3].Weight - positions[2].Weight; math.Abs(width-half) > epsilon {
		t.Fatalf("last-visited slice width %v, want %v", width, half)
	}
}

func TestRecomputePartitionValidity(t *testing.T) {
	// Every mask with at least one enabled corner, every last-visited
	// choice: weights over enabled corners are non-decreasing in [0,1]
	// and the final enabled weight is exactly 1.0.
	for mask := 1; mask < 1<<6; mask++ {
		for last := NoLastVisited; last < 6; last++ {
			bits := make([]bool, 6)
			for i := range bits {
				bits[i] = mask&(1<<i) != 0
			}
			positions := NewPositions(bits)
			if err := Recompute(positions, last); err != nil {
				t.Fatalf("mask %06b last %d: %v", mask, last, err)
			}
			prev := 0.0
			final := 0.0
			for i, p := range positions {
				if !p.Enabled {
					continue
				}
				if p.Weight < prev-epsilon || p.Weight > 1.0+epsilon {
					t.Fatalf("mask %06b last %d corner %d: weight %v out of order", mask, last, i, p.Weight)
				}
				prev = p.Weight
				final = p.Weight
			}
			if final != 1.0 {
				t.Fatalf("mask %06b last %d: final weight %v, want exactly 1.0", mask, last, final)
			}
		}
	}
}

func TestRecomputeRepeatSuppressionWidths(t *testing.T) {
	for enabled := 2; enabled <= 6; enabled++ {
		positions := allEnabled(enabled)
		last := enabled / 2
		if err := Recompute(positions, last); err != nil {
			t.Fatal(err)
		}
		halfBase := 1.0 / (2.0 * float64(enabled))
		other := (1 - halfBase) / float64(enabled-1)
		prev := 0.0
		for i, p := range positions {
			width := p.Weight - prev
			prev = p.Weight
			want := other
			if i == last {
				want = halfBase
			}
			if math.Abs(width-want) > 1e-9 {
				t.Fatalf("E=%d corner %d: slice width %v, want %v", enabled, i, width, want)
			}
		}
	}
}

func TestRecomputeSingleEnabledWithHistory(t *testing.T) {
	positions := NewPositions([]bool{false, false, true, false, false, false})
	if err := Recompute(positions, 2); err != nil {
		t.Fatal(err)
	}
	if positions[2].Weight != 1.0 {
		t.Fatalf("single enabled corner must carry weight 1.0, got %v", positions[2].Weight)
	}
	if idx := Draw(positions, 0.999999); idx != 2 {
		t.Fatalf("expected forced pick of corner 2, got %d", idx)
	}
}

func TestRecomputeNoCornersEnabled(t *testing.T) {
	positions := NewPositions(make([]bool, 6))
	if err := Recompute(positions, NoLastVisited); err != ErrNoCornersEnabled {
		t.Fatalf("expected ErrNoCornersEnabled, got %v", err)
	}
}

func TestDrawIsDeterministic(t *testing.T) {
	positions := allEnabled(6)
	if err := Recompute(positions, 3); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		r    float64
		want int
	}{
		{0.0, 0},
		{11.0/60.0 - 1e-9, 0},
		{11.0/60.0 + 1e-9, 1},
		{33.0/60.0 + 1e-9, 3},
		{38.0/60.0 + 1e-9, 4},
		{0.9999999, 5},
	} {
		fresh := make([]Position, len(positions))
		copy(fresh, positions)
		if got := Draw(fresh, tc.r); got != tc.want {
			t.Fatalf("r=%v: got corner %d, want %d", tc.r, got, tc.want)
		}
	}
}

func TestDrawNeverSelectsDisabled(t *testing.T) {
	positions := NewPositions([]bool{true, false, true, false, true, false})
	if err := Recompute(positions, NoLastVisited); err != nil {
		t.Fatal(err)
	}
	for r := 0.0; r < 1.0; r += 0.001 {
		fresh := make([]Position, len(positions))
		copy(fresh, positions)
		idx := Draw(fresh, r)
		if idx == NoLastVisited {
			t.Fatalf("r=%v: no corner selected", r)
		}
		if !positions[idx].Enabled {
			t.Fatalf("r=%v: disabled corner %d selected", r, idx)
		}
	}
}

func TestDrawMarksLastVisited(t *testing.T) {
	positions := allEnabled(6)
	positions[1].WasLastVisited = true
	if err := Recompute(positions, 1); err != nil {
		t.Fatal(err)
	}
	idx := Draw(positions, 0.5)
	for i, p := range positions {
		if p.WasLastVisited != (i == idx) {
			t.Fatalf("corner %d: WasLastVisited=%v after pick of %d", i, p.WasLastVisited, idx)
		}
	}
}

func TestPickerRepeatFrequency(t *testing.T) {
	// With all six corners enabled a repeat slice is 1/12 wide, so the
	// observed immediate-repeat rate should settle near it.
	p := New(NewSeededSource(42))
	positions := allEnabled(6)
	const n = 100000
	prev := NoLastVisited
	repeats := 0
	for i := 0; i < n; i++ {
		idx, err := p.Pick(positions)
		if err != nil {
			t.Fatal(err)
		}
		if idx == prev {
			repeats++
		}
		prev = idx
	}
	freq := float64(repeats) / float64(n)
	want := 1.0 / 12.0
	if diff := freq - want; diff > 0.01 || diff < -0.01 {
		t.Fatalf("repeat frequency %f not close to %f", freq, want)
	}
}

func TestPickerResetForgetsHistory(t *testing.T) {
	p := New(NewSeededSource(7))
	positions := allEnabled(6)
	if _, err := p.Pick(positions); err != nil {
		t.Fatal(err)
	}
	p.Reset()
	if err := Recompute(positions, p.last); err != nil {
		t.Fatal(err)
	}
	base := 1.0 / 6.0
	if math.Abs(positions[0].Weight-base) > epsilon {
		t.Fatalf("after Reset the partition must be uniform, first weight %v", positions[0].Weight)
	}
}
