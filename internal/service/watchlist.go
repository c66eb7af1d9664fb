package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

// WatchlistService manages a profile's saved titles. Adds go through the
// store's conflict key, so saving an already saved title refreshes the row
// instead of duplicating it.
type WatchlistService struct {
	repo   domain.WatchlistRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewWatchlistService creates a new watchlist service
func NewWatchlistService(repo domain.WatchlistRepository, logger *slog.Logger) *WatchlistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchlistService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the profile's watchlist, most recently added first
func (s *WatchlistService) List(ctx context.Context, profileID string) ([]domain.WatchlistEntry, error) {
	return s.repo.GetWatchlist(ctx, profileID)
}

// Add saves a title to the watchlist
func (s *WatchlistService) Add(ctx context.Context, profileID string, movie domain.Movie) error {
	err := s.repo.AddToWatchlist(ctx, domain.WatchlistEntry{
		ProfileID: profileID,
		MovieID:   movie.ID,
		AddedAt:   s.now(),
		Snapshot:  movie.Snapshot(),
	})
	if err != nil {
		return err
	}
	s.logger.Info("watchlist add", "profileID", profileID, "movieID", movie.ID)
	return nil
}

// Remove deletes a title from the watchlist
func (s *WatchlistService) Remove(ctx context.Context, profileID, movieID string) error {
	return s.repo.RemoveFromWatchlist(ctx, profileID, movieID)
}

// Contains reports whether the movie is on the profile's watchlist
func (s *WatchlistService) Contains(ctx context.Context, profileID, movieID string) (bool, error) {
	entries, err := s.repo.GetWatchlist(ctx, profileID)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}
