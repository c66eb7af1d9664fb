package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streamverse/streamverse/internal/adapter"
	"github.com/streamverse/streamverse/internal/domain"
)

func testMovie() domain.Movie {
	return domain.Movie{
		ID:          "603",
		Title:       "The Matrix",
		PosterPath:  "/matrix.jpg",
		ReleaseDate: "1999-03-31",
		Rating:      8.2,
	}
}

type sessionEnv struct {
	store    *fakeContinuationStore
	sched    *manualScheduler
	launcher *fakeLauncher
	session  *Session
}

func newSessionEnv(t *testing.T, profile ProfileContext, fullscreen FullscreenController) *sessionEnv {
	t.Helper()
	store := newFakeContinuationStore()
	sched := newManualScheduler()
	launcher := &fakeLauncher{}
	continuations := NewContinuationService(store, adapter.NullLogger())
	tracker := NewTracker(continuations, sched, 10*time.Second, 1.0, adapter.NullLogger())
	session := NewSession(
		newFakeCatalog(testMovie()),
		continuations,
		tracker,
		launcher,
		fullscreen,
		sched,
		profile,
		adapter.NullLogger(),
	)
	return &sessionEnv{store: store, sched: sched, launcher: launcher, session: session}
}

func viewerProfile() ProfileContext {
	return ProfileContext{Profile: domain.Profile{ID: "p1", AccountID: "a1", Name: "Sam"}}
}

func TestSessionOpenReachesPlayingAndTracks(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), nil)

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := env.session.State(); got != SessionPlaying {
		t.Fatalf("expected playing state, got %s", got)
	}
	if len(env.launcher.launched) != 1 || env.launcher.launched[0] != "603" {
		t.Fatalf("expected embed launch for 603, got %v", env.launcher.launched)
	}

	env.sched.Advance(10 * time.Second)
	if n := env.store.writeCount(); n != 1 {
		t.Fatalf("expected a progress write per tick, got %d", n)
	}
}

func TestSessionSeedsEstimateFromExistingRow(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), nil)
	env.store.seed(domain.Continuation{ProfileID: "p1", MovieID: "603", Progress: 40})

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := env.session.Progress(); got != 40 {
		t.Fatalf("expected estimate seeded from stored 40, got %v", got)
	}

	env.sched.Advance(10 * time.Second)
	writes := env.store.writeLog()
	if len(writes) != 1 || writes[0].Progress != 41 {
		t.Fatalf("expected first tick at 41, got %+v", writes)
	}
}

func TestSessionTitleNotFoundIsTerminal(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), nil)

	err := env.session.Open(context.Background(), "no-such-id")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if got := env.session.State(); got != SessionError {
		t.Fatalf("expected error state, got %s", got)
	}

	// Terminal: nothing launched, nothing ever written
	env.sched.Advance(time.Minute)
	if len(env.launcher.launched) != 0 {
		t.Fatalf("expected no embed launch, got %v", env.launcher.launched)
	}
	if n := env.store.writeCount(); n != 0 {
		t.Fatalf("expected no writes, got %d", n)
	}
}

func TestSessionAnonymousViewerIsNotTracked(t *testing.T) {
	env := newSessionEnv(t, ProfileContext{}, nil)

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := env.session.State(); got != SessionPlaying {
		t.Fatalf("expected playback to work for anonymous viewers, got %s", got)
	}

	env.sched.Advance(5 * time.Minute)
	if n := env.store.writeCount(); n != 0 {
		t.Fatalf("expected no tracking for anonymous viewer, got %d writes", n)
	}
}

func TestSessionCloseStopsWrites(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), nil)

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	env.sched.Advance(20 * time.Second)
	before := env.store.writeCount()
	if before != 2 {
		t.Fatalf("expected two writes before close, got %d", before)
	}

	env.session.Close()
	if got := env.session.State(); got != SessionClosed {
		t.Fatalf("expected closed state, got %s", got)
	}

	env.sched.Advance(5 * time.Minute)
	if n := env.store.writeCount(); n != before {
		t.Fatalf("expected no writes after close, got %d total", n)
	}
}

func TestSessionMarkFinishedPersistsImmediately(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), nil)

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	env.session.MarkFinished()

	writes := env.store.writeLog()
	if len(writes) != 1 {
		t.Fatalf("expected an immediate write, got %d", len(writes))
	}
	if writes[0].Progress != 100 || !writes[0].Completed {
		t.Fatalf("expected 100/completed, got %v/%v", writes[0].Progress, writes[0].Completed)
	}
}

func TestSessionChromeAutoHides(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), nil)

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !env.session.ChromeVisible() {
		t.Fatal("expected chrome visible right after open")
	}

	env.sched.Advance(3 * time.Second)
	if env.session.ChromeVisible() {
		t.Fatal("expected chrome hidden after the idle delay")
	}

	env.session.Activity()
	if !env.session.ChromeVisible() {
		t.Fatal("expected chrome back after activity")
	}

	// Activity keeps resetting the timer
	env.sched.Advance(2 * time.Second)
	env.session.Activity()
	env.sched.Advance(2 * time.Second)
	if !env.session.ChromeVisible() {
		t.Fatal("expected chrome still visible while active")
	}
	env.sched.Advance(1 * time.Second)
	if env.session.ChromeVisible() {
		t.Fatal("expected chrome hidden 3s after last activity")
	}
}

func TestSessionFullscreenWithoutCapabilityIsNoop(t *testing.T) {
	env := newSessionEnv(t, viewerProfile(), NoopFullscreen{})

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	chromeBefore := env.session.ChromeVisible()

	env.session.ToggleFullscreen() // must not panic or error

	if env.session.InFullscreen() {
		t.Fatal("expected fullscreen to stay off without the capability")
	}
	if env.session.ChromeVisible() != chromeBefore {
		t.Fatal("expected chrome state unchanged by a no-op toggle")
	}
	if got := env.session.State(); got != SessionPlaying {
		t.Fatalf("expected state unchanged, got %s", got)
	}
}

func TestSessionFullscreenToggleAndReleaseOnClose(t *testing.T) {
	fs := &fakeFullscreen{}
	env := newSessionEnv(t, viewerProfile(), fs)

	if err := env.session.Open(context.Background(), "603"); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	env.session.ToggleFullscreen()
	if !env.session.InFullscreen() || fs.entered != 1 {
		t.Fatalf("expected fullscreen entered once, got held=%v entered=%d",
			env.session.InFullscreen(), fs.entered)
	}

	env.session.Close()
	if fs.exited != 1 {
		t.Fatalf("expected fullscreen released on close, exited=%d", fs.exited)
	}
	if env.session.InFullscreen() {
		t.Fatal("expected fullscreen dropped after close")
	}
}
