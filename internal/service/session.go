package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

// chromeHideDelay is how long the player chrome stays up after the last
// pointer or key activity
const chromeHideDelay = 3 * time.Second

// SessionState is the lifecycle state of one playback session
type SessionState int

const (
	SessionInitializing SessionState = iota
	SessionLoading
	SessionPlaying
	SessionClosed
	SessionError
)

// String returns the state name for logs
func (s SessionState) String() string {
	switch s {
	case SessionInitializing:
		return "initializing"
	case SessionLoading:
		return "loading"
	case SessionPlaying:
		return "playing"
	case SessionClosed:
		return "closed"
	case SessionError:
		return "error"
	default:
		return "unknown"
	}
}

// ProfileContext is the viewing identity a session is scoped to. It is
// passed in explicitly at construction; nothing in the playback path reads
// an ambient "selected profile" from config or globals. A zero ProfileContext
// means anonymous viewing: playback works, progress tracking does not run.
type ProfileContext struct {
	Profile domain.Profile
}

// Tracked reports whether this identity gets progress tracking
func (p ProfileContext) Tracked() bool {
	return p.Profile.ID != ""
}

// embedLauncher abstracts the external player surface (consumer-defined)
type embedLauncher interface {
	Launch(movieID string) error
}

// FullscreenController abstracts the host surface's fullscreen capability.
// Absence of the capability is an expected state: every operation on an
// unsupported controller is a no-op, never an error.
type FullscreenController interface {
	Supported() bool
	Enter() error
	Exit() error
}

// NoopFullscreen is the controller used when the surface has no fullscreen
// capability
type NoopFullscreen struct{}

func (NoopFullscreen) Supported() bool { return false }
func (NoopFullscreen) Enter() error    { return nil }
func (NoopFullscreen) Exit() error     { return nil }

// Session hosts one playback of one title: it resolves the title and any
// existing continuation, launches the opaque embed surface, owns the
// progress tracker's lifecycle, and manages chrome visibility plus
// fullscreen.
//
// Lifecycle: Initializing -> Loading -> Playing -> Closed, with Error
// terminal from Initializing or Loading. Chrome toggles never change the
// lifecycle state.
type Session struct {
	catalog       domain.CatalogRepository
	continuations *ContinuationService
	tracker       *Tracker
	launcher      embedLauncher
	fullscreen    FullscreenController
	sched         domain.Scheduler
	profile       ProfileContext
	logger        *slog.Logger

	mu            sync.Mutex
	state         SessionState
	movie         *domain.Movie
	existing      *domain.Continuation
	err           error
	chromeVisible bool
	chromeCancel  domain.CancelFunc
	inFullscreen  bool
}

// NewSession creates a playback session host for one profile
func NewSession(
	catalog domain.CatalogRepository,
	continuations *ContinuationService,
	tracker *Tracker,
	launcher embedLauncher,
	fullscreen FullscreenController,
	sched domain.Scheduler,
	profile ProfileContext,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if fullscreen == nil {
		fullscreen = NoopFullscreen{}
	}
	return &Session{
		catalog:       catalog,
		continuations: continuations,
		tracker:       tracker,
		launcher:      launcher,
		fullscreen:    fullscreen,
		sched:         sched,
		profile:       profile,
		logger:        logger,
		state:         SessionInitializing,
		chromeVisible: true,
	}
}

// Open resolves the title and any existing continuation, launches the
// embed, and moves the session to Playing. A failed title lookup puts the
// session in the terminal Error state; the caller surfaces that one (and
// only that one) to the viewer.
func (s *Session) Open(ctx context.Context, movieID string) error {
	s.setState(SessionInitializing)

	movie, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		s.fail(err)
		return err
	}

	// Seed the estimate from the persisted row when one exists. A failure
	// here is not fatal: tracking starts from zero.
	var existing *domain.Continuation
	if s.profile.Tracked() {
		existing, err = s.continuations.FindExisting(ctx, s.profile.Profile.ID, movieID)
		if err != nil {
			s.logger.Warn("continuation lookup failed", "error", err, "movieID", movieID)
			existing = nil
		}
	}

	s.mu.Lock()
	s.movie = movie
	s.existing = existing
	s.state = SessionLoading
	s.mu.Unlock()

	if err := s.launcher.Launch(movieID); err != nil {
		s.fail(err)
		return err
	}

	s.embedReady()
	return nil
}

// embedReady transitions Loading -> Playing and starts tracking. The embed
// gives no real readiness signal, so a successful launch is treated as
// ready (optimistic, same as there being no real "paused" detection).
func (s *Session) embedReady() {
	s.mu.Lock()
	if s.state != SessionLoading {
		s.mu.Unlock()
		return
	}
	s.state = SessionPlaying
	movie := s.movie
	existing := s.existing
	s.mu.Unlock()

	s.logger.Info("playback session playing", "movieID", movie.ID, "tracked", s.profile.Tracked())

	if s.profile.Tracked() {
		initial := 0.0
		if existing != nil {
			initial = existing.Progress
		}
		s.tracker.Start(s.profile.Profile.ID, movie.Snapshot(), initial)
	}

	s.resetChromeTimer()
}

// Close tears the session down from any state: the tracker stops (no
// further writes are scheduled; an in-flight one may still land), the
// chrome timer is cancelled, and fullscreen is released if held.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == SessionClosed {
		s.mu.Unlock()
		return
	}
	s.state = SessionClosed
	chromeCancel := s.chromeCancel
	s.chromeCancel = nil
	wasFullscreen := s.inFullscreen
	s.inFullscreen = false
	s.mu.Unlock()

	if s.tracker != nil {
		s.tracker.Stop()
	}
	if chromeCancel != nil {
		chromeCancel()
	}
	if wasFullscreen && s.fullscreen.Supported() {
		if err := s.fullscreen.Exit(); err != nil {
			s.logger.Warn("failed to release fullscreen", "error", err)
		}
	}

	s.logger.Info("playback session closed")
}

// MarkFinished marks the title fully watched and persists immediately
func (s *Session) MarkFinished() {
	if !s.profile.Tracked() {
		return
	}
	s.mu.Lock()
	playing := s.state == SessionPlaying
	s.mu.Unlock()
	if !playing {
		return
	}
	s.tracker.MarkFinished()
}

// Activity reports pointer or key movement: chrome reappears and the hide
// timer restarts
func (s *Session) Activity() {
	s.mu.Lock()
	if s.state == SessionClosed || s.state == SessionError {
		s.mu.Unlock()
		return
	}
	s.chromeVisible = true
	s.mu.Unlock()

	s.resetChromeTimer()
}

func (s *Session) resetChromeTimer() {
	s.mu.Lock()
	if s.chromeCancel != nil {
		s.chromeCancel()
	}
	s.chromeCancel = s.sched.After(chromeHideDelay, s.hideChrome)
	s.mu.Unlock()
}

func (s *Session) hideChrome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionClosed {
		return
	}
	s.chromeVisible = false
}

// ToggleFullscreen enters or leaves fullscreen. Without the capability this
// is a silent no-op and chrome state is untouched.
func (s *Session) ToggleFullscreen() {
	if !s.fullscreen.Supported() {
		return
	}

	s.mu.Lock()
	target := !s.inFullscreen
	s.mu.Unlock()

	var err error
	if target {
		err = s.fullscreen.Enter()
	} else {
		err = s.fullscreen.Exit()
	}
	if err != nil {
		s.logger.Warn("fullscreen toggle failed", "error", err)
		return
	}

	s.mu.Lock()
	s.inFullscreen = target
	s.mu.Unlock()
}

// State returns the session's lifecycle state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal error, set only in the Error state
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Movie returns the resolved title, nil before Loading
func (s *Session) Movie() *domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movie
}

// Progress returns the current estimate for the progress bar
func (s *Session) Progress() float64 {
	if !s.profile.Tracked() || s.tracker == nil {
		return 0
	}
	return s.tracker.Progress()
}

// ChromeVisible reports whether the control overlay is showing
func (s *Session) ChromeVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chromeVisible
}

// InFullscreen reports whether the session holds fullscreen
func (s *Session) InFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFullscreen
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = SessionError
	s.err = err
	s.mu.Unlock()
	s.logger.Error("playback session failed", "error", err)
}
