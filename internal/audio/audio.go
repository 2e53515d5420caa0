// Package audio plays per-corner drill cues.
package audio

import (
	"fmt"
	"io"
)

// Player plays the cue for a corner, addressed by canonical index. The index
// is part of the contract so richer players can announce corner numbers;
// callers treat failures as non-fatal.
type Player interface {
	Play(index int) error
}

// Bell rings the terminal bell for every cue.
type Bell struct {
	w io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play writes the BEL control character.
func (b *Bell) Play(index int) error {
	if b.w == nil {
		return fmt.Errorf("no output writer")
	}
	if _, err := b.w.Write([]byte{'\a'}); err != nil {
		return fmt.Errorf("failed to ring bell for corner %d: %w", index+1, err)
	}
	return nil
}

// Nop discards all cues.
type Nop struct{}

// Play does nothing.
func (Nop) Play(int) error { return nil }
