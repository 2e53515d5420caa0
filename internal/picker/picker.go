// Package picker selects drill corners by weighted random draw.
package picker

import "errors"

// ErrNoCornersEnabled is returned when every corner is disabled.
var ErrNoCornersEnabled = errors.New("no corners enabled")

// NoLastVisited marks the absence of pick history.
const NoLastVisited = -1

// Position is one court corner in canonical order.
type Position struct {
	// Enabled controls whether the corner may be selected. Fixed for a run.
	Enabled bool
	// Weight is the corner's cumulative upper bound in the probability
	// partition, not its own share. Rebuilt by Recompute before every draw.
	Weight float64
	// WasLastVisited is true for exactly the corner chosen on the
	// previous draw.
	WasLastVisited bool
	// IsActive is true only during the preview window.
	IsActive bool
}

// NewPositions returns positions with the given enabled mask.
func NewPositions(mask []bool) []Position {
	positions := make([]Position, len(mask))
	for i, on := range mask {
		positions[i].Enabled = on
	}
	return positions
}

// Recompute rebuilds the cumulative probability partition over enabled
// positions. With no history every enabled corner gets an even slice. With a
// last-visited corner, that corner's slice shrinks to half the uniform share
// and the remaining mass is spread evenly over the rest, making an immediate
// repeat roughly half as likely. The final enabled weight is forced to
// exactly 1.0 so the draw rule always matches for r close to 1.0.
func Recompute(positions []Position, lastVisited int) error {
	enabled := 0
	lastEnabledIdx := -1
	for i := range positions {
		if positions[i].Enabled {
			enabled++
			lastEnabledIdx = i
		}
	}
	if enabled == 0 {
		return ErrNoCornersEnabled
	}
	base := 1.0 / float64(enabled)

	hasLast := lastVisited >= 0 && lastVisited < len(positions) && positions[lastVisited].Enabled
	if !hasLast || enabled == 1 {
		count := 0
		for i := range positions {
			if !positions[i].Enabled {
				continue
			}
			positions[i].Weight = float64(count+1) * base
			count++
		}
		positions[lastEnabledIdx].Weight = 1.0
		return nil
	}

	halfBase := base / 2
	adjBase := (1 - halfBase) / float64(enabled-1)
	seenLast := false
	count := 0
	for i := range positions {
		if !positions[i].Enabled {
			continue
		}
		if i == lastVisited {
			seenLast = true
		}
		if seenLast {
			positions[i].Weight = float64(count)*adjBase + halfBase
		} else {
			positions[i].Weight = float64(count+1) * adjBase
		}
		count++
	}
	positions[lastEnabledIdx].Weight = 1.0
	return nil
}

// Draw selects the first enabled position in canonical order whose cumulative
// weight covers r, marks it as last visited, and clears the flag everywhere
// else. Returns NoLastVisited if the partition covers nothing, which cannot
// happen after a successful Recompute.
func Draw(positions []Position, r float64) int {
	chosen := NoLastVisited
	for i := range positions {
		if positions[i].Enabled && r <= positions[i].Weight {
			chosen = i
			break
		}
	}
	if chosen == NoLastVisited {
		return chosen
	}
	for i := range positions {
		positions[i].WasLastVisited = i == chosen
	}
	return chosen
}

// Picker couples the partition with a random source and pick history.
type Picker struct {
	rng  RandomSource
	last int
}

// New returns a Picker with no history. A nil rng falls back to the
// crypto-backed default.
func New(rng RandomSource) *Picker {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Picker{rng: rng, last: NoLastVisited}
}

// Reset clears pick history for a new drill run.
func (p *Picker) Reset() {
	p.last = NoLastVisited
}

// Pick recomputes the partition and draws one corner.
func (p *Picker) Pick(positions []Position) (int, error) {
	if err := Recompute(positions, p.last); err != nil {
		return NoLastVisited, err
	}
	idx := Draw(positions, p.rng.Float64())
	if idx != NoLastVisited {
		p.last = idx
	}
	return idx, nil
}
