package service

import (
	"errors"
	"testing"
	"time"

	"github.com/streamverse/streamverse/internal/adapter"
	"github.com/streamverse/streamverse/internal/domain"
)

func testSnapshot() domain.MovieSnapshot {
	return domain.MovieSnapshot{
		ID:          "603",
		Title:       "The Matrix",
		PosterPath:  "/matrix.jpg",
		ReleaseDate: "1999-03-31",
		Rating:      8.2,
	}
}

func newTestTracker(store *fakeContinuationStore, sched domain.Scheduler, step float64) *Tracker {
	svc := NewContinuationService(store, adapter.NullLogger())
	return NewTracker(svc, sched, 10*time.Second, step, adapter.NullLogger())
}

func TestTrackerProgressIsMonotonicAndClamped(t *testing.T) {
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 97)
	sched.Advance(60 * time.Second) // 6 ticks, clamp territory

	writes := store.writeLog()
	if len(writes) != 6 {
		t.Fatalf("expected 6 writes, got %d", len(writes))
	}
	prev := 97.0
	for i, w := range writes {
		if w.Progress < prev {
			t.Fatalf("write %d regressed: %v -> %v", i, prev, w.Progress)
		}
		if w.Progress > 100 {
			t.Fatalf("write %d exceeds 100: %v", i, w.Progress)
		}
		prev = w.Progress
	}

	last := writes[len(writes)-1]
	if last.Progress != 100 {
		t.Fatalf("expected final progress 100, got %v", last.Progress)
	}
	if !last.Completed {
		t.Fatal("expected completed=true at 100")
	}
}

func TestTrackerStartIsIdempotent(t *testing.T) {
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 0)
	tracker.Start("p1", testSnapshot(), 0)

	if n := sched.activeRecurring(); n != 1 {
		t.Fatalf("expected exactly one active recurring tick, got %d", n)
	}

	sched.Advance(10 * time.Second)
	if n := store.writeCount(); n != 1 {
		t.Fatalf("expected one write per interval, got %d", n)
	}
}

func TestTrackerSeedsFromInitialProgress(t *testing.T) {
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 40)

	if got := tracker.Progress(); got != 40 {
		t.Fatalf("expected estimate seeded to 40, got %v", got)
	}

	sched.Advance(10 * time.Second)
	writes := store.writeLog()
	if len(writes) != 1 {
		t.Fatalf("expected one write, got %d", len(writes))
	}
	if writes[0].Progress != 41 {
		t.Fatalf("expected first tick to write 41, got %v", writes[0].Progress)
	}
}

func TestTrackerMarkFinishedWritesImmediately(t *testing.T) {
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 12)
	tracker.MarkFinished() // no clock advance: must not wait for a tick

	writes := store.writeLog()
	if len(writes) != 1 {
		t.Fatalf("expected an immediate write, got %d writes", len(writes))
	}
	if writes[0].Progress != 100 || !writes[0].Completed {
		t.Fatalf("expected progress=100 completed=true, got %v/%v",
			writes[0].Progress, writes[0].Completed)
	}
}

func TestTrackerStopPreventsFurtherWrites(t *testing.T) {
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 0)
	sched.Advance(10 * time.Second)
	if n := store.writeCount(); n != 1 {
		t.Fatalf("expected one write before stop, got %d", n)
	}

	tracker.Stop()
	sched.Advance(5 * time.Minute) // well past many tick boundaries

	if n := store.writeCount(); n != 1 {
		t.Fatalf("expected no writes after stop, got %d total", n)
	}
}

func TestTrackerSwallowsStoreFailures(t *testing.T) {
	store := newFakeContinuationStore()
	store.upsertErr = errors.New("record store down")
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 0)
	sched.Advance(30 * time.Second)

	// The estimate keeps advancing even though every save failed
	if got := tracker.Progress(); got != 3 {
		t.Fatalf("expected estimate 3 after three failed ticks, got %v", got)
	}

	// And a recovered store picks up the current value on the next tick
	store.mu.Lock()
	store.upsertErr = nil
	store.mu.Unlock()
	sched.Advance(10 * time.Second)

	writes := store.writeLog()
	if len(writes) != 1 {
		t.Fatalf("expected one successful write after recovery, got %d", len(writes))
	}
	if writes[0].Progress != 4 {
		t.Fatalf("expected recovered write at 4, got %v", writes[0].Progress)
	}
}

func TestTrackerRestartWhileStoppedStaysQuiet(t *testing.T) {
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	tracker := newTestTracker(store, sched, 1.0)

	tracker.Start("p1", testSnapshot(), 0)
	tracker.Stop()
	sched.Advance(time.Minute)

	if n := store.writeCount(); n != 0 {
		t.Fatalf("expected no writes after immediate stop, got %d", n)
	}
}
