package tui

import (
	"github.com/streamverse/streamverse/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ProfilesLoadedMsg signals that the account's profiles have been loaded
type ProfilesLoadedMsg struct {
	Profiles []domain.Profile
}

// ProfileCreatedMsg signals that a new profile was stored
type ProfileCreatedMsg struct {
	Profile domain.Profile
}

// ProfileDeletedMsg signals that a profile and its data were removed
type ProfileDeletedMsg struct {
	ProfileID string
}

// ProfileRenamedMsg signals that a profile's name was updated
type ProfileRenamedMsg struct {
	Profile domain.Profile
}

// RailLoadedMsg signals that one browse rail has been loaded
type RailLoadedMsg struct {
	Rail domain.Rail
}

// ContinuationsLoadedMsg carries the continue-watching rows for the
// active profile
type ContinuationsLoadedMsg struct {
	Continuations []domain.Continuation
}

// GenresLoadedMsg signals that the genre catalog has been loaded
type GenresLoadedMsg struct {
	Genres []domain.Genre
}

// FeaturedLoadedMsg carries the home screen's banner pick
type FeaturedLoadedMsg struct {
	Movie domain.Movie
}

// SearchResultsMsg signals that search results are ready
type SearchResultsMsg struct {
	Results []domain.Movie
	Query   string
}

// DetailsLoadedMsg signals that a title's detail sections are ready
type DetailsLoadedMsg struct {
	Details     *domain.MovieDetails
	OnWatchlist bool
}

// WatchlistLoadedMsg carries the active profile's saved titles
type WatchlistLoadedMsg struct {
	Entries []domain.WatchlistEntry
}

// WatchlistToggledMsg signals that a title was added to or removed from
// the watchlist
type WatchlistToggledMsg struct {
	MovieID string
	Added   bool
}

// SessionOpenedMsg signals that a playback session reached Playing, or
// failed terminally
type SessionOpenedMsg struct {
	Err error
}

// SessionClosedMsg signals that the playback session was torn down
type SessionClosedMsg struct{}

// ContinuationRemovedMsg signals that a continue-watching row was deleted
type ContinuationRemovedMsg struct {
	MovieID string
}

// TickMsg is a general tick message for spinners and the player screen
type TickMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
