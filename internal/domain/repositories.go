package domain

import (
	"context"
)

// CatalogRepository provides read access to the remote movie catalog.
type CatalogRepository interface {
	// Trending returns trending movies for the given window ("day" or "week")
	Trending(ctx context.Context, window string, page int) (*Page, error)

	// Popular returns the popular listing
	Popular(ctx context.Context, page int) (*Page, error)

	// TopRated returns the top-rated listing
	TopRated(ctx context.Context, page int) (*Page, error)

	// NowPlaying returns titles currently in theaters
	NowPlaying(ctx context.Context, page int) (*Page, error)

	// Upcoming returns upcoming titles
	Upcoming(ctx context.Context, page int) (*Page, error)

	// DiscoverByGenre returns movies in the given genres
	DiscoverByGenre(ctx context.Context, genreIDs []int, page int) (*Page, error)

	// DiscoverByYear returns movies released in the given year
	DiscoverByYear(ctx context.Context, year, page int) (*Page, error)

	// Genres returns the catalog's genre list
	Genres(ctx context.Context) ([]Genre, error)

	// Search performs a title search
	Search(ctx context.Context, query string, page int) (*Page, error)

	// GetMovie returns basic metadata for one title.
	// Returns ErrItemNotFound for unknown ids.
	GetMovie(ctx context.Context, id string) (*Movie, error)

	// GetMovieDetails returns a title with videos, cast, similar and
	// recommended titles appended
	GetMovieDetails(ctx context.Context, id string) (*MovieDetails, error)
}

// IdentityRepository provides account session operations against the
// hosted backend's auth surface.
type IdentityRepository interface {
	// SignIn exchanges email+password for a session token
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account
	SignUp(ctx context.Context, email, password string) (*Session, error)

	// CurrentAccount returns the account for the active token.
	// Returns ErrNotSignedIn when no token is held, ErrAuthFailed when
	// the token is rejected.
	CurrentAccount(ctx context.Context) (*Account, error)
}

// Session is the result of a successful authentication.
type Session struct {
	AccessToken  string
	RefreshToken string
	Account      Account
}

// ProfileRepository manages viewing profiles on the backend.
type ProfileRepository interface {
	GetProfiles(ctx context.Context, accountID string) ([]Profile, error)
	GetProfile(ctx context.Context, profileID string) (*Profile, error)
	CreateProfile(ctx context.Context, p Profile) (*Profile, error)
	UpdateProfile(ctx context.Context, p Profile) error
	DeleteProfile(ctx context.Context, profileID string) error
}

// ContinuationRepository is the record-store surface behind the persistence
// gateway. The store, not the caller, owns row uniqueness: Upsert relies on a
// conflict key over (profile_id, movie_id) so repeated or concurrent writes
// converge to one row.
type ContinuationRepository interface {
	// Find returns the continuation for the pair, or ErrContinuationNotFound
	Find(ctx context.Context, profileID, movieID string) (*Continuation, error)

	// List returns a profile's continuations, most recently watched first
	List(ctx context.Context, profileID string) ([]Continuation, error)

	// Upsert writes the row via the store's conflict key and returns the
	// persisted record (with its store-assigned id)
	Upsert(ctx context.Context, c Continuation) (*Continuation, error)

	// Delete removes the row for the pair. Deleting a missing row is not
	// an error.
	Delete(ctx context.Context, profileID, movieID string) error

	// DeleteForProfile removes every continuation owned by the profile
	DeleteForProfile(ctx context.Context, profileID string) error
}

// WatchlistRepository manages a profile's saved titles.
type WatchlistRepository interface {
	GetWatchlist(ctx context.Context, profileID string) ([]WatchlistEntry, error)
	AddToWatchlist(ctx context.Context, e WatchlistEntry) error
	RemoveFromWatchlist(ctx context.Context, profileID, movieID string) error
	DeleteWatchlistForProfile(ctx context.Context, profileID string) error
}
