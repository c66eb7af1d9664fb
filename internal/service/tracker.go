package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

const (
	// writeTimeout bounds a single progress write. A tick that outlives it
	// is dropped; the next tick carries the newer value anyway.
	writeTimeout = 15 * time.Second
)

// Tracker maintains the estimated watch progress for one (profile, movie)
// pair and persists it on a fixed interval.
//
// The estimate is an approximation by construction: the embed player is an
// opaque external surface whose real playhead cannot be read, so each tick
// advances the previous value by a configured step and clamps to 100.
// Accuracy is a known limitation, not a bug to fix by poking at the embed.
//
// All writes go through the store's conflict-keyed upsert, and write
// failures are swallowed (logged only): a missed save must never interrupt
// the viewer.
type Tracker struct {
	continuations *ContinuationService
	sched         domain.Scheduler
	interval      time.Duration
	step          float64
	logger        *slog.Logger

	mu        sync.Mutex
	cancel    domain.CancelFunc
	active    bool
	profileID string
	snapshot  domain.MovieSnapshot
	progress  float64
	completed bool
}

// NewTracker creates a progress tracker. interval and step fall back to the
// 10s / 1.0 defaults when unset.
func NewTracker(continuations *ContinuationService, sched domain.Scheduler, interval time.Duration, step float64, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if step <= 0 {
		step = 1.0
	}
	return &Tracker{
		continuations: continuations,
		sched:         sched,
		interval:      interval,
		step:          step,
		logger:        logger,
	}
}

// Start begins the recurring tick for the pair, seeding the estimate from
// initialProgress. Calling Start on a running tracker cancels the previous
// tick first, so there is never more than one writer per tracker.
func (t *Tracker) Start(profileID string, snapshot domain.MovieSnapshot, initialProgress float64) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	if initialProgress < 0 {
		initialProgress = 0
	}
	if initialProgress > 100 {
		initialProgress = 100
	}

	t.active = true
	t.profileID = profileID
	t.snapshot = snapshot
	t.progress = initialProgress
	t.completed = initialProgress >= 100
	t.mu.Unlock()

	t.cancelSwap(t.sched.Every(t.interval, t.tick))

	t.logger.Info("progress tracking started",
		"profileID", profileID, "movieID", snapshot.ID, "initial", initialProgress)
}

// cancelSwap installs a new cancel handle, cancelling any handle that was
// installed concurrently (double Start race)
func (t *Tracker) cancelSwap(cancel domain.CancelFunc) {
	t.mu.Lock()
	prev := t.cancel
	if !t.active {
		// Stopped between Start's unlock and here; kill the new timer too
		t.mu.Unlock()
		cancel()
		return
	}
	t.cancel = cancel
	t.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// tick advances the estimate one step and persists it
func (t *Tracker) tick() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.progress += t.step
	if t.progress >= 100 {
		t.progress = 100
		t.completed = true
	}
	c := t.record()
	t.mu.Unlock()

	t.persist(c)
}

// MarkFinished forces the estimate to 100, flags completion, and writes
// immediately instead of waiting for the next tick boundary.
func (t *Tracker) MarkFinished() {
	t.mu.Lock()
	t.progress = 100
	t.completed = true
	c := t.record()
	t.mu.Unlock()

	t.persist(c)
}

// Stop cancels the recurring tick. After Stop returns no new write begins;
// a write already dispatched is left to finish and its result discarded.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.active = false
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Progress returns the current estimate for UI observers
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Completed reports whether the title is marked finished
func (t *Tracker) Completed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

// record builds the row for the current state. Caller holds t.mu.
func (t *Tracker) record() domain.Continuation {
	return domain.Continuation{
		ProfileID: t.profileID,
		MovieID:   t.snapshot.ID,
		Progress:  t.progress,
		Completed: t.completed,
		Snapshot:  t.snapshot,
	}
}

// persist writes one row, swallowing failures
func (t *Tracker) persist(c domain.Continuation) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := t.continuations.Upsert(ctx, c); err != nil {
		// Best-effort: log and keep going, the next tick writes a newer value
		t.logger.Warn("progress save failed",
			"error", err, "profileID", c.ProfileID, "movieID", c.MovieID)
	}
}
