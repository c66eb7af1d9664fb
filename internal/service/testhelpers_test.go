package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

// manualScheduler is a virtual-clock domain.Scheduler. Tests advance time
// explicitly; tasks fire synchronously on the advancing goroutine.
type manualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	at        time.Duration
	interval  time.Duration // 0 for one-shot
	fn        func()
	cancelled bool
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{}
}

func (m *manualScheduler) Every(interval time.Duration, fn func()) domain.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{at: m.now + interval, interval: interval, fn: fn}
	m.tasks = append(m.tasks, t)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.cancelled = true
	}
}

func (m *manualScheduler) After(delay time.Duration, fn func()) domain.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{at: m.now + delay, fn: fn}
	m.tasks = append(m.tasks, t)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.cancelled = true
	}
}

// Advance moves the virtual clock forward, firing due tasks in time order
func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	for {
		var next *manualTask
		for _, t := range m.tasks {
			if t.cancelled || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		m.now = next.at
		if next.interval > 0 {
			next.at += next.interval
		} else {
			next.cancelled = true
		}
		fn := next.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// activeRecurring counts live interval tasks (duplicate-writer check)
func (m *manualScheduler) activeRecurring() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled && t.interval > 0 {
			n++
		}
	}
	return n
}

// fakeContinuationStore is an in-memory domain.ContinuationRepository that
// enforces the (profile_id, movie_id) conflict key the way the real record
// store does: repeated upserts converge to one row, last write wins.
type fakeContinuationStore struct {
	mu        sync.Mutex
	rows      map[string]domain.Continuation
	writes    []domain.Continuation // every upsert, in order
	nextID    int
	findErr   error
	upsertErr error
}

func newFakeContinuationStore() *fakeContinuationStore {
	return &fakeContinuationStore{rows: make(map[string]domain.Continuation)}
}

func pairKey(profileID, movieID string) string {
	return profileID + "|" + movieID
}

func (f *fakeContinuationStore) seed(c domain.Continuation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = fmt.Sprintf("row-%d", f.nextID)
	f.rows[pairKey(c.ProfileID, c.MovieID)] = c
}

func (f *fakeContinuationStore) Find(ctx context.Context, profileID, movieID string) (*domain.Continuation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	c, ok := f.rows[pairKey(profileID, movieID)]
	if !ok {
		return nil, domain.ErrContinuationNotFound
	}
	return &c, nil
}

func (f *fakeContinuationStore) List(ctx context.Context, profileID string) ([]domain.Continuation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Continuation
	for _, c := range f.rows {
		if c.ProfileID == profileID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContinuationStore) Upsert(ctx context.Context, c domain.Continuation) (*domain.Continuation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	key := pairKey(c.ProfileID, c.MovieID)
	if existing, ok := f.rows[key]; ok {
		c.ID = existing.ID
	} else {
		f.nextID++
		c.ID = fmt.Sprintf("row-%d", f.nextID)
	}
	f.rows[key] = c
	f.writes = append(f.writes, c)
	return &c, nil
}

func (f *fakeContinuationStore) Delete(ctx context.Context, profileID, movieID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, pairKey(profileID, movieID))
	return nil
}

func (f *fakeContinuationStore) DeleteForProfile(ctx context.Context, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, c := range f.rows {
		if c.ProfileID == profileID {
			delete(f.rows, k)
		}
	}
	return nil
}

func (f *fakeContinuationStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeContinuationStore) writeLog() []domain.Continuation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Continuation, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeContinuationStore) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *fakeContinuationStore) row(profileID, movieID string) (domain.Continuation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[pairKey(profileID, movieID)]
	return c, ok
}

// fakeCatalog is a minimal domain.CatalogRepository for session tests
type fakeCatalog struct {
	movies map[string]domain.Movie
}

func newFakeCatalog(movies ...domain.Movie) *fakeCatalog {
	f := &fakeCatalog{movies: make(map[string]domain.Movie)}
	for _, m := range movies {
		f.movies[m.ID] = m
	}
	return f
}

func (f *fakeCatalog) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &m, nil
}

func (f *fakeCatalog) GetMovieDetails(ctx context.Context, id string) (*domain.MovieDetails, error) {
	m, err := f.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.MovieDetails{Movie: *m}, nil
}

func (f *fakeCatalog) Trending(ctx context.Context, window string, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) Popular(ctx context.Context, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) TopRated(ctx context.Context, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) NowPlaying(ctx context.Context, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) Upcoming(ctx context.Context, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) DiscoverByGenre(ctx context.Context, genreIDs []int, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) DiscoverByYear(ctx context.Context, year, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}
func (f *fakeCatalog) Genres(ctx context.Context) ([]domain.Genre, error) {
	return nil, nil
}
func (f *fakeCatalog) Search(ctx context.Context, query string, page int) (*domain.Page, error) {
	return &domain.Page{}, nil
}

// fakeLauncher records embed launches without opening anything
type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
	err      error
}

func (f *fakeLauncher) Launch(movieID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.launched = append(f.launched, movieID)
	return nil
}

// fakeFullscreen is a capability-present fullscreen controller
type fakeFullscreen struct {
	entered int
	exited  int
}

func (f *fakeFullscreen) Supported() bool { return true }
func (f *fakeFullscreen) Enter() error    { f.entered++; return nil }
func (f *fakeFullscreen) Exit() error     { f.exited++; return nil }
