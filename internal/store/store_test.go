package store

import (
	"testing"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

func testMovies() []domain.Movie {
	return []domain.Movie{
		{ID: "603", Title: "The Matrix", Rating: 8.2},
		{ID: "604", Title: "The Matrix Reloaded", Rating: 7.0},
	}
}

func newTestStore(t *testing.T) *CatalogStore {
	t.Helper()
	s, err := NewCatalogStore(t.TempDir(), 15*time.Minute)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRailRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.GetRail(domain.RailTrending, 0); ok {
		t.Fatal("expected miss on empty store")
	}

	if err := s.SaveRail(domain.RailTrending, 0, testMovies()); err != nil {
		t.Fatal(err)
	}

	movies, ok := s.GetRail(domain.RailTrending, 0)
	if !ok {
		t.Fatal("expected hit after save")
	}
	if len(movies) != 2 || movies[0].ID != "603" {
		t.Fatalf("unexpected cached rail: %+v", movies)
	}
}

func TestGenreRailsAreKeyedByGenre(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRail(domain.RailGenre, 28, testMovies()[:1]); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.GetRail(domain.RailGenre, 35); ok {
		t.Fatal("expected miss for a different genre id")
	}
	if movies, ok := s.GetRail(domain.RailGenre, 28); !ok || len(movies) != 1 {
		t.Fatalf("expected hit for the saved genre, got ok=%v movies=%v", ok, movies)
	}
}

func TestExpiredEntriesReadAsMisses(t *testing.T) {
	s := newTestStore(t)

	base := time.Now()
	s.now = func() time.Time { return base }
	if err := s.SaveRail(domain.RailPopular, 0, testMovies()); err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return base.Add(16 * time.Minute) }
	if _, ok := s.GetRail(domain.RailPopular, 0); ok {
		t.Fatal("expected expired entry to miss")
	}

	// The stale read path still serves it for offline fallback
	if movies, ok := s.GetStaleRail(domain.RailPopular, 0); !ok || len(movies) != 2 {
		t.Fatalf("expected stale fallback to serve data, got ok=%v movies=%v", ok, movies)
	}
}

func TestMovieDetailsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	details := &domain.MovieDetails{
		Movie: domain.Movie{ID: "603", Title: "The Matrix", Runtime: 136},
		Cast:  []domain.CastMember{{Name: "Keanu Reeves", Character: "Neo"}},
	}
	if err := s.SaveMovieDetails(details); err != nil {
		t.Fatal(err)
	}

	got, ok := s.GetMovieDetails("603")
	if !ok {
		t.Fatal("expected hit after save")
	}
	if got.Runtime != 136 || len(got.Cast) != 1 {
		t.Fatalf("unexpected cached details: %+v", got)
	}

	s.InvalidateMovie("603")
	if _, ok := s.GetMovieDetails("603"); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestInvalidateRailsLeavesMovies(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveRail(domain.RailTrending, 0, testMovies()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMovieDetails(&domain.MovieDetails{Movie: domain.Movie{ID: "603"}}); err != nil {
		t.Fatal(err)
	}

	s.InvalidateRails()

	if _, ok := s.GetRail(domain.RailTrending, 0); ok {
		t.Fatal("expected rails wiped")
	}
	if _, ok := s.GetMovieDetails("603"); !ok {
		t.Fatal("expected movie details untouched")
	}
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := NewCatalogStore("", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.SaveGenres([]domain.Genre{{ID: 28, Name: "Action"}}); err != nil {
		t.Fatal(err)
	}
	genres, ok := s.GetGenres()
	if !ok || len(genres) != 1 || genres[0].Name != "Action" {
		t.Fatalf("expected genre round trip in memory mode, got ok=%v %v", ok, genres)
	}
}
