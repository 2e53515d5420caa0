// Package model defines shared data structures.
package model

import "time"

// NumCorners is the fixed number of court corners in a drill.
const NumCorners = 6

// CornerNames labels the corners in canonical order.
var CornerNames = [NumCorners]string{
	"Front Left",
	"Front Right",
	"Mid Left",
	"Mid Right",
	"Back Left",
	"Back Right",
}

// DrillConfig defines drill settings. Immutable for the duration of a run.
type DrillConfig struct {
	Sets         int
	BirdsPerSet  int
	RecoverySec  float64
	PreviewSec   float64
	SetBreakSec  float64
	Corners      [NumCorners]bool
	SoundEnabled bool
}

// EnabledCount returns the number of selectable corners.
func (c DrillConfig) EnabledCount() int {
	n := 0
	for _, on := range c.Corners {
		if on {
			n++
		}
	}
	return n
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// DrillStats captures one finished drill run.
type DrillStats struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Sets         int
	BirdsPerSet  int
	RecoverySec  float64
	PreviewSec   float64
	SetBreakSec  float64
	EnabledCount int
	Picks        int
	Completed    bool
	DurationMs   int64
}

// CornerStats stores per-corner pick counts for a drill.
type CornerStats struct {
	Corner int
	Picks  int
}

// CornerAggregate aggregates corner picks across drills.
type CornerAggregate struct {
	Corner int
	Picks  int
}

// DrillAggregate summarizes a drill for reporting.
type DrillAggregate struct {
	DrillID    int64
	EndedAt    time.Time
	Picks      int
	Planned    int
	Completed  bool
	DurationMs int64
}
