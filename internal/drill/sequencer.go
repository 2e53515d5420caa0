// Package drill runs the footwork drill state machine.
package drill

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/verte-zerg/shuttle/internal/audio"
	"github.com/verte-zerg/shuttle/internal/model"
	"github.com/verte-zerg/shuttle/internal/picker"
)

// CountdownTicks is the fixed number of 1 Hz ticks before the first set.
const CountdownTicks = 5

// Documented ranges for user-editable timings, in seconds.
const (
	MinRecoverySec = 0.1
	MaxRecoverySec = 1.6
	MinPreviewSec  = 0.1
	MaxPreviewSec  = 5.0
	MinSetBreakSec = 5.0
	MaxSetBreakSec = 120.0
)

// ErrDrillInProgress is returned by Start while a run is active.
var ErrDrillInProgress = errors.New("drill already in progress")

// State is the sequencer's lifecycle phase.
type State int

// Sequencer states.
const (
	Idle State = iota
	Countdown
	SetActive
	InterSetBreak
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Countdown:
		return "countdown"
	case SetActive:
		return "set"
	case InterSetBreak:
		return "break"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// EventKind classifies sequencer events.
type EventKind int

// Sequencer event kinds.
const (
	EventCountdownTick EventKind = iota
	EventSetStarted
	EventPick
	EventPreviewCleared
	EventSetFinished
	EventBreakTick
	EventFinished
	EventStopped
)

// Event is one sequencer notification with a read-only state snapshot.
type Event struct {
	Kind EventKind
	// Corner is the canonical index of the picked corner for EventPick,
	// picker.NoLastVisited otherwise.
	Corner   int
	Snapshot Snapshot
}

// Snapshot is a copy of the sequencer state safe to hand to collaborators.
type Snapshot struct {
	State          State
	Positions      []picker.Position
	CountdownLeft  int
	RemainingSets  int
	RemainingBirds int
	RemainingBreak int
	Picks          int
	InProgress     bool
}

// Notify delivers sequencer events. Called outside the sequencer lock, so
// listeners may call back into the sequencer.
type Notify func(Event)

// Sequencer drives a drill run through countdown, sets, pick cycles and
// inter-set breaks. All state lives behind a single mutex; every timer
// callback checks the in-progress flag under that lock before touching
// anything, which makes Stop race-free.
type Sequencer struct {
	clock  Clock
	pick   *picker.Picker
	player audio.Player
	notify Notify

	mu        sync.Mutex
	cfg       model.DrillConfig
	state     State
	positions []picker.Position

	inProgress     bool
	countdownLeft  int
	remainingSets  int
	remainingBirds int
	remainingBreak int
	picks          int
	cornerPicks    [model.NumCorners]int
	startedAt      time.Time
	endedAt        time.Time

	cancelCountdown Cancel
	cancelCycle     Cancel
	cancelPreview   Cancel
	cancelBreak     Cancel
}

// New constructs an idle sequencer. A nil player disables audio; a nil
// notify discards events.
func New(clock Clock, pk *picker.Picker, player audio.Player, notify Notify) *Sequencer {
	if clock == nil {
		clock = WallClock{}
	}
	if pk == nil {
		pk = picker.New(nil)
	}
	return &Sequencer{
		clock:  clock,
		pick:   pk,
		player: player,
		notify: notify,
		state:  Idle,
	}
}

// ValidateConfig rejects configs the sequencer cannot run: non-positive
// counters or timings, NaN/Inf timings, or an all-disabled corner mask.
func ValidateConfig(cfg model.DrillConfig) error {
	if cfg.Sets < 1 {
		return fmt.Errorf("sets must be >= 1, got %d", cfg.Sets)
	}
	if cfg.BirdsPerSet < 1 {
		return fmt.Errorf("birds per set must be >= 1, got %d", cfg.BirdsPerSet)
	}
	for _, timing := range []struct {
		name  string
		value float64
	}{
		{"recovery", cfg.RecoverySec},
		{"preview", cfg.PreviewSec},
		{"set break", cfg.SetBreakSec},
	} {
		if math.IsNaN(timing.value) || math.IsInf(timing.value, 0) {
			return fmt.Errorf("%s time is not a number", timing.name)
		}
		if timing.value <= 0 {
			return fmt.Errorf("%s time must be positive, got %v", timing.name, timing.value)
		}
	}
	if cfg.EnabledCount() == 0 {
		return picker.ErrNoCornersEnabled
	}
	return nil
}

// ClampTimings returns cfg with timings clamped into the documented ranges.
func ClampTimings(cfg model.DrillConfig) model.DrillConfig {
	cfg.RecoverySec = clamp(cfg.RecoverySec, MinRecoverySec, MaxRecoverySec)
	cfg.PreviewSec = clamp(cfg.PreviewSec, MinPreviewSec, MaxPreviewSec)
	cfg.SetBreakSec = clamp(cfg.SetBreakSec, MinSetBreakSec, MaxSetBreakSec)
	return cfg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Start validates cfg, resets all counters and begins the countdown.
func (s *Sequencer) Start(cfg model.DrillConfig) error {
	s.mu.Lock()
	if s.inProgress {
		s.mu.Unlock()
		return ErrDrillInProgress
	}
	if err := ValidateConfig(cfg); err != nil {
		s.mu.Unlock()
		return err
	}

	s.cfg = cfg
	s.positions = picker.NewPositions(cfg.Corners[:])
	s.pick.Reset()
	s.inProgress = true
	s.state = Countdown
	s.countdownLeft = CountdownTicks
	s.remainingSets = cfg.Sets
	s.remainingBirds = 0
	s.remainingBreak = 0
	s.picks = 0
	s.cornerPicks = [model.NumCorners]int{}
	s.startedAt = time.Now()
	s.endedAt = time.Time{}
	s.cancelCountdown = s.clock.ScheduleRepeating(time.Second, s.countdownTick)
	ev := s.eventLocked(EventCountdownTick, picker.NoLastVisited)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Stop cancels the run cooperatively. Counters keep their last values until
// the next Start; timers already in flight observe the cleared flag and
// become no-ops. Stopping an idle sequencer does nothing.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if !s.inProgress {
		s.mu.Unlock()
		return
	}
	s.haltLocked(Idle)
	ev := s.eventLocked(EventStopped, picker.NoLastVisited)
	s.mu.Unlock()

	s.emit(ev)
}

// Snapshot returns a copy of the current state.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stats summarizes the most recent run for persistence.
func (s *Sequencer) Stats() model.DrillStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	ended := s.endedAt
	if ended.IsZero() {
		ended = time.Now()
	}
	return model.DrillStats{
		StartedAt:    s.startedAt,
		EndedAt:      ended,
		Sets:         s.cfg.Sets,
		BirdsPerSet:  s.cfg.BirdsPerSet,
		RecoverySec:  s.cfg.RecoverySec,
		PreviewSec:   s.cfg.PreviewSec,
		SetBreakSec:  s.cfg.SetBreakSec,
		EnabledCount: s.cfg.EnabledCount(),
		Picks:        s.picks,
		Completed:    s.state == Complete,
		DurationMs:   ended.Sub(s.startedAt).Milliseconds(),
	}
}

// CornerPicks returns per-corner pick counts for the most recent run.
func (s *Sequencer) CornerPicks() []model.CornerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CornerStats, 0, model.NumCorners)
	for corner, picks := range s.cornerPicks {
		out = append(out, model.CornerStats{Corner: corner, Picks: picks})
	}
	return out
}

func (s *Sequencer) countdownTick() {
	s.mu.Lock()
	if !s.inProgress || s.state != Countdown {
		cancelLocked(&s.cancelCountdown)
		s.mu.Unlock()
		return
	}
	s.countdownLeft--
	if s.countdownLeft > 0 {
		ev := s.eventLocked(EventCountdownTick, picker.NoLastVisited)
		s.mu.Unlock()
		s.emit(ev)
		return
	}
	cancelLocked(&s.cancelCountdown)
	s.beginSetLocked()
	ev := s.eventLocked(EventSetStarted, picker.NoLastVisited)
	s.mu.Unlock()

	s.emit(ev)
}

// beginSetLocked enters SetActive: loads the bird counter, consumes one set
// and arms the repeating pick-cycle timer.
func (s *Sequencer) beginSetLocked() {
	s.state = SetActive
	s.remainingSets--
	s.remainingBirds = s.cfg.BirdsPerSet
	interval := secondsToDuration(s.cfg.RecoverySec + s.cfg.PreviewSec)
	s.cancelCycle = s.clock.ScheduleRepeating(interval, s.pickCycle)
}

func (s *Sequencer) pickCycle() {
	s.mu.Lock()
	if !s.inProgress || s.state != SetActive {
		cancelLocked(&s.cancelCycle)
		s.mu.Unlock()
		return
	}
	idx, err := s.pick.Pick(s.positions)
	if err != nil {
		// Unreachable after ValidateConfig; halt rather than spin.
		s.haltLocked(Idle)
		ev := s.eventLocked(EventStopped, picker.NoLastVisited)
		s.mu.Unlock()
		logErrf("pick failed, drill stopped: %v\n", err)
		s.emit(ev)
		return
	}
	s.remainingBirds--
	s.picks++
	s.cornerPicks[idx]++
	s.positions[idx].IsActive = true
	s.cancelPreview = s.clock.ScheduleOnce(secondsToDuration(s.cfg.PreviewSec), s.previewDone)
	sound := s.cfg.SoundEnabled
	ev := s.eventLocked(EventPick, idx)
	s.mu.Unlock()

	if sound && s.player != nil {
		if err := s.player.Play(idx); err != nil {
			logErrf("failed to play cue for corner %d: %v\n", idx+1, err)
		}
	}
	s.emit(ev)
}

// previewDone clears the active corner and, when the set is exhausted,
// moves to the inter-set break or completes the drill.
func (s *Sequencer) previewDone() {
	s.mu.Lock()
	if !s.inProgress {
		s.mu.Unlock()
		return
	}
	for i := range s.positions {
		s.positions[i].IsActive = false
	}
	if s.remainingBirds > 0 {
		ev := s.eventLocked(EventPreviewCleared, picker.NoLastVisited)
		s.mu.Unlock()
		s.emit(ev)
		return
	}
	cancelLocked(&s.cancelCycle)
	var ev Event
	if s.remainingSets > 0 {
		s.state = InterSetBreak
		s.remainingBreak = breakSeconds(s.cfg.SetBreakSec)
		s.cancelBreak = s.clock.ScheduleRepeating(time.Second, s.breakTick)
		ev = s.eventLocked(EventSetFinished, picker.NoLastVisited)
	} else {
		s.haltLocked(Complete)
		ev = s.eventLocked(EventFinished, picker.NoLastVisited)
	}
	s.mu.Unlock()

	s.emit(ev)
}

func (s *Sequencer) breakTick() {
	s.mu.Lock()
	if !s.inProgress || s.state != InterSetBreak {
		cancelLocked(&s.cancelBreak)
		s.mu.Unlock()
		return
	}
	s.remainingBreak--
	if s.remainingBreak > 0 {
		ev := s.eventLocked(EventBreakTick, picker.NoLastVisited)
		s.mu.Unlock()
		s.emit(ev)
		return
	}
	cancelLocked(&s.cancelBreak)
	s.beginSetLocked()
	ev := s.eventLocked(EventSetStarted, picker.NoLastVisited)
	s.mu.Unlock()

	s.emit(ev)
}

// haltLocked clears the in-progress flag, cancels every timer and leaves the
// machine in the given terminal state.
func (s *Sequencer) haltLocked(state State) {
	s.inProgress = false
	s.state = state
	s.endedAt = time.Now()
	cancelLocked(&s.cancelCountdown)
	cancelLocked(&s.cancelCycle)
	cancelLocked(&s.cancelPreview)
	cancelLocked(&s.cancelBreak)
	for i := range s.positions {
		s.positions[i].IsActive = false
	}
}

func (s *Sequencer) snapshotLocked() Snapshot {
	positions := make([]picker.Position, len(s.positions))
	copy(positions, s.positions)
	return Snapshot{
		State:          s.state,
		Positions:      positions,
		CountdownLeft:  s.countdownLeft,
		RemainingSets:  s.remainingSets,
		RemainingBirds: s.remainingBirds,
		RemainingBreak: s.remainingBreak,
		Picks:          s.picks,
		InProgress:     s.inProgress,
	}
}

func (s *Sequencer) eventLocked(kind EventKind, corner int) Event {
	return Event{Kind: kind, Corner: corner, Snapshot: s.snapshotLocked()}
}

func (s *Sequencer) emit(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}

func cancelLocked(c *Cancel) {
	if *c != nil {
		(*c)()
		*c = nil
	}
}

func breakSeconds(sec float64) int {
	n := int(math.Ceil(sec))
	if n < 1 {
		n = 1
	}
	return n
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
