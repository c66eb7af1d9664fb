package service

import (
	"context"
	"log/slog"

	"github.com/streamverse/streamverse/internal/domain"
)

// IdentityService wraps the backend's auth surface. Anonymous viewing is a
// normal state here, not an error: callers check CurrentAccount and simply
// skip personalization when it reports ErrNotSignedIn.
type IdentityService struct {
	repo   domain.IdentityRepository
	logger *slog.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(repo domain.IdentityRepository, logger *slog.Logger) *IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityService{repo: repo, logger: logger}
}

// SignIn authenticates with email and password
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.repo.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn("sign-in failed", "email", email, "error", err)
		return nil, err
	}
	s.logger.Info("signed in", "accountID", sess.Account.ID)
	return sess, nil
}

// SignUp registers a new account
func (s *IdentityService) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.repo.SignUp(ctx, email, password)
}

// CurrentAccount returns the signed-in account, or ErrNotSignedIn
func (s *IdentityService) CurrentAccount(ctx context.Context) (*domain.Account, error) {
	return s.repo.CurrentAccount(ctx)
}

// ProfileService manages viewing profiles. Deleting a profile also removes
// its personalization rows (watchlist, continuations) before the profile
// row itself, mirroring the backend's ownership model.
type ProfileService struct {
	profiles      domain.ProfileRepository
	watchlist     domain.WatchlistRepository
	continuations *ContinuationService
	logger        *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profiles domain.ProfileRepository,
	watchlist domain.WatchlistRepository,
	continuations *ContinuationService,
	logger *slog.Logger,
) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		profiles:      profiles,
		watchlist:     watchlist,
		continuations: continuations,
		logger:        logger,
	}
}

// List returns the account's profiles, oldest first
func (s *ProfileService) List(ctx context.Context, accountID string) ([]domain.Profile, error) {
	return s.profiles.GetProfiles(ctx, accountID)
}

// Get returns one profile by id
func (s *ProfileService) Get(ctx context.Context, profileID string) (*domain.Profile, error) {
	return s.profiles.GetProfile(ctx, profileID)
}

// Create adds a profile to the account
func (s *ProfileService) Create(ctx context.Context, accountID, name, avatarID string) (*domain.Profile, error) {
	p, err := s.profiles.CreateProfile(ctx, domain.Profile{
		AccountID: accountID,
		Name:      name,
		AvatarID:  avatarID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile created", "profileID", p.ID, "name", name)
	return p, nil
}

// Rename updates a profile's display fields
func (s *ProfileService) Rename(ctx context.Context, p domain.Profile) error {
	return s.profiles.UpdateProfile(ctx, p)
}

// Delete removes a profile and everything it owns
func (s *ProfileService) Delete(ctx context.Context, profileID string) error {
	// Related rows first, then the profile
	if err := s.watchlist.DeleteWatchlistForProfile(ctx, profileID); err != nil {
		return err
	}
	if err := s.continuations.RemoveAllForProfile(ctx, profileID); err != nil {
		return err
	}
	if err := s.profiles.DeleteProfile(ctx, profileID); err != nil {
		return err
	}
	s.logger.Info("profile deleted", "profileID", profileID)
	return nil
}
