package drill

import (
	"sync"
	"time"
)

// Cancel stops a scheduled timer. Safe to call more than once.
type Cancel func()

// Clock schedules timer callbacks. The sequencer serializes all state
// mutation with its own lock, so implementations only need to deliver each
// callback from a single goroutine at a time.
type Clock interface {
	ScheduleOnce(d time.Duration, fn func()) Cancel
	ScheduleRepeating(d time.Duration, fn func()) Cancel
}

// WallClock schedules callbacks on real time.
type WallClock struct{}

// ScheduleOnce fires fn once after d.
func (WallClock) ScheduleOnce(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	var once sync.Once
	return func() {
		once.Do(func() { t.Stop() })
	}
}

// ScheduleRepeating fires fn every d until canceled.
func (WallClock) ScheduleRepeating(d time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
