package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/store"
)

// defaultRailGenres are the genre rails shown on the home screen, in order.
// Ids are TMDB's stable genre ids.
var defaultRailGenres = []domain.Genre{
	{ID: 28, Name: "Action"},
	{ID: 35, Name: "Comedy"},
	{ID: 27, Name: "Horror"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Sci-Fi"},
}

// BrowseService assembles the home screen rails and movie details,
// cache-first with a stale-cache fallback when the catalog is unreachable.
type BrowseService struct {
	catalog  domain.CatalogRepository
	cache    *store.CatalogStore
	logger   *slog.Logger
	railSize int
}

// NewBrowseService creates a new browse service
func NewBrowseService(catalog domain.CatalogRepository, cache *store.CatalogStore, railSize int, logger *slog.Logger) *BrowseService {
	if logger == nil {
		logger = slog.Default()
	}
	if railSize <= 0 {
		railSize = 20
	}
	return &BrowseService{
		catalog:  catalog,
		cache:    cache,
		logger:   logger,
		railSize: railSize,
	}
}

// RailGenres returns the genre rails shown on the home screen
func (s *BrowseService) RailGenres() []domain.Genre {
	return defaultRailGenres
}

// Rail returns the movies for one browse rail. Fresh cache wins; on a
// catalog failure any stale cache is served instead of the error.
func (s *BrowseService) Rail(ctx context.Context, kind domain.RailKind, genreID int) ([]domain.Movie, error) {
	if movies, ok := s.cache.GetRail(kind, genreID); ok {
		return movies, nil
	}

	page, err := s.fetchRail(ctx, kind, genreID)
	if err != nil {
		if movies, ok := s.cache.GetStaleRail(kind, genreID); ok {
			s.logger.Warn("serving stale rail", "rail", kind, "error", err)
			return movies, nil
		}
		return nil, err
	}

	movies := page.Movies
	if len(movies) > s.railSize {
		movies = movies[:s.railSize]
	}

	if err := s.cache.SaveRail(kind, genreID, movies); err != nil {
		s.logger.Warn("failed to cache rail", "rail", kind, "error", err)
	}

	return movies, nil
}

func (s *BrowseService) fetchRail(ctx context.Context, kind domain.RailKind, genreID int) (*domain.Page, error) {
	switch kind {
	case domain.RailTrending:
		return s.catalog.Trending(ctx, "day", 1)
	case domain.RailPopular:
		return s.catalog.Popular(ctx, 1)
	case domain.RailTopRated:
		return s.catalog.TopRated(ctx, 1)
	case domain.RailNowPlaying:
		return s.catalog.NowPlaying(ctx, 1)
	case domain.RailUpcoming:
		return s.catalog.Upcoming(ctx, 1)
	case domain.RailThisYear:
		return s.catalog.DiscoverByYear(ctx, time.Now().Year(), 1)
	case domain.RailGenre:
		return s.catalog.DiscoverByGenre(ctx, []int{genreID}, 1)
	default:
		return nil, fmt.Errorf("unknown rail kind: %s", kind)
	}
}

// Featured returns the home screen's banner pick: the top trending title
func (s *BrowseService) Featured(ctx context.Context) (*domain.Movie, error) {
	movies, err := s.Rail(ctx, domain.RailTrending, 0)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, domain.ErrItemNotFound
	}
	m := movies[0]
	return &m, nil
}

// Genres returns the full catalog genre list, cached
func (s *BrowseService) Genres(ctx context.Context) ([]domain.Genre, error) {
	if genres, ok := s.cache.GetGenres(); ok {
		return genres, nil
	}

	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveGenres(genres); err != nil {
		s.logger.Warn("failed to cache genres", "error", err)
	}

	return genres, nil
}

// Details returns a title with its appended sections, cached
func (s *BrowseService) Details(ctx context.Context, movieID string) (*domain.MovieDetails, error) {
	if details, ok := s.cache.GetMovieDetails(movieID); ok {
		return details, nil
	}

	details, err := s.catalog.GetMovieDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveMovieDetails(details); err != nil {
		s.logger.Warn("failed to cache movie details", "movieID", movieID, "error", err)
	}

	return details, nil
}

// Refresh drops the cached rails so the next load refetches everything
func (s *BrowseService) Refresh() {
	s.cache.InvalidateRails()
}
