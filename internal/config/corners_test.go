package config

import "testing"

func TestParseCornersAll(t *testing.T) {
	for _, input := range []string{"", "all", "ALL", " all "} {
		mask, err := ParseCorners(input)
		if err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
		for i, on := range mask {
			if !on {
				t.Fatalf("input %q: corner %d disabled", input, i+1)
			}
		}
	}
}

func TestParseCornersSubset(t *testing.T) {
	mask, err := ParseCorners("1, 3,6")
	if err != nil {
		t.Fatal(err)
	}
	want := [6]bool{true, false, true, false, false, true}
	if mask != want {
		t.Fatalf("got %v, want %v", mask, want)
	}
}

func TestParseCornersRejectsBadInput(t *testing.T) {
	for _, input := range []string{"0", "7", "x", "1,,y"} {
		if _, err := ParseCorners(input); err == nil {
			t.Fatalf("input %q: expected error", input)
		}
	}
}

func TestFormatCornersRoundTrip(t *testing.T) {
	mask := [6]bool{true, false, true, false, false, true}
	if got := FormatCorners(mask); got != "1,3,6" {
		t.Fatalf("got %q", got)
	}
	all := [6]bool{true, true, true, true, true, true}
	if got := FormatCorners(all); got != "all" {
		t.Fatalf("got %q", got)
	}
}
