package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/shuttle/internal/model"
)

// ParseCorners parses a corner mask such as "1,2,5" or "all". Corner numbers
// are 1-based in user-facing input.
func ParseCorners(s string) ([model.NumCorners]bool, error) {
	var mask [model.NumCorners]bool
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return mask, fmt.Errorf("invalid corner %q", part)
		}
		if n < 1 || n > model.NumCorners {
			return mask, fmt.Errorf("corner %d out of range 1-%d", n, model.NumCorners)
		}
		mask[n-1] = true
	}
	return mask, nil
}

// FormatCorners renders a mask as a comma-separated list of corner numbers.
func FormatCorners(mask [model.NumCorners]bool) string {
	all := true
	parts := make([]string, 0, model.NumCorners)
	for i, on := range mask {
		if !on {
			all = false
			continue
		}
		parts = append(parts, strconv.Itoa(i + 1))
	}
	if all {
		return "all"
	}
	return strings.Join(parts, ",")
}
