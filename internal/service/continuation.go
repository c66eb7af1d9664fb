package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

// ContinuationService is the gateway between playback and the
// continue_watching record store. It performs no retries: a failed write is
// reported to the caller, and the tracker decides whether to suppress it
// (it always does; progress saves are best-effort).
type ContinuationService struct {
	repo   domain.ContinuationRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewContinuationService creates a new continuation service
func NewContinuationService(repo domain.ContinuationRepository, logger *slog.Logger) *ContinuationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContinuationService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// FindExisting returns the continuation for a pair, or nil when none exists.
// This read exists to seed a session's initial estimate and hand the UI the
// record id. It is NOT what keeps the pair unique: two sessions may both
// see "none" here and both write; the store's conflict key collapses those
// writes into one row.
func (s *ContinuationService) FindExisting(ctx context.Context, profileID, movieID string) (*domain.Continuation, error) {
	c, err := s.repo.Find(ctx, profileID, movieID)
	if errors.Is(err, domain.ErrContinuationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert writes a continuation row, stamping last_watched
func (s *ContinuationService) Upsert(ctx context.Context, c domain.Continuation) (*domain.Continuation, error) {
	c.LastWatched = s.now()
	if c.Progress >= 100 {
		c.Progress = 100
		c.Completed = true
	}
	return s.repo.Upsert(ctx, c)
}

// List returns a profile's continue-watching entries, most recent first
func (s *ContinuationService) List(ctx context.Context, profileID string) ([]domain.Continuation, error) {
	return s.repo.List(ctx, profileID)
}

// Remove deletes the continuation for a pair. Used by list management
// ("remove from continue watching"), never by the playback flow itself.
func (s *ContinuationService) Remove(ctx context.Context, profileID, movieID string) error {
	return s.repo.Delete(ctx, profileID, movieID)
}

// RemoveAllForProfile deletes every continuation a profile owns, as part of
// profile deletion
func (s *ContinuationService) RemoveAllForProfile(ctx context.Context, profileID string) error {
	return s.repo.DeleteForProfile(ctx, profileID)
}
