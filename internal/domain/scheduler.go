package domain

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled task. Calling it more than once is safe.
// After it returns, the callback will not run again.
type CancelFunc func()

// Scheduler abstracts recurring and one-shot timers so the components that
// poll (progress ticks, chrome auto-hide) can be driven by a virtual clock in
// tests, and could swap in a real progress-event source if one ever existed.
type Scheduler interface {
	// Every runs fn at the given interval until cancelled. Invocations are
	// serialized: a slow fn delays the next run rather than overlapping it.
	Every(interval time.Duration, fn func()) CancelFunc

	// After runs fn once after the given delay unless cancelled first.
	After(delay time.Duration, fn func()) CancelFunc
}

// TickScheduler implements Scheduler on the runtime's timers.
type TickScheduler struct{}

// NewTickScheduler returns the real, wall-clock scheduler.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Every starts a goroutine driving fn off a time.Ticker. The ticker loop
// calls fn inline, so invocations never overlap.
func (s *TickScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	stop := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
	}
}

// After runs fn once after delay.
func (s *TickScheduler) After(delay time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(delay, fn)
	var once sync.Once
	return func() {
		once.Do(func() { t.Stop() })
	}
}
