package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/streamverse/streamverse/internal/domain"
	"github.com/streamverse/streamverse/internal/service"
)

// Command factories for async operations

// LoadProfilesCmd loads the account's profiles
func LoadProfilesCmd(svc *service.ProfileService, accountID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profiles, err := svc.List(ctx, accountID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading profiles"}
		}
		return ProfilesLoadedMsg{Profiles: profiles}
	}
}

// CreateProfileCmd creates a new profile under the account
func CreateProfileCmd(svc *service.ProfileService, accountID, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profile, err := svc.Create(ctx, accountID, name, "")
		if err != nil {
			return ErrMsg{Err: err, Context: "creating profile"}
		}
		return ProfileCreatedMsg{Profile: *profile}
	}
}

// DeleteProfileCmd removes a profile along with its saved titles and
// watch progress
func DeleteProfileCmd(svc *service.ProfileService, profileID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := svc.Delete(ctx, profileID); err != nil {
			return ErrMsg{Err: err, Context: "deleting profile"}
		}
		return ProfileDeletedMsg{ProfileID: profileID}
	}
}

// RenameProfileCmd updates a profile's display name
func RenameProfileCmd(svc *service.ProfileService, profile domain.Profile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.Rename(ctx, profile); err != nil {
			return ErrMsg{Err: err, Context: "renaming profile"}
		}
		return ProfileRenamedMsg{Profile: profile}
	}
}

// LoadRailCmd loads one browse rail
func LoadRailCmd(svc *service.BrowseService, kind domain.RailKind, title string, genreID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movies, err := svc.Rail(ctx, kind, genreID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading " + title}
		}
		return RailLoadedMsg{Rail: domain.Rail{
			Kind:    kind,
			Title:   title,
			GenreID: genreID,
			Movies:  movies,
		}}
	}
}

// LoadFeaturedCmd loads the home screen's banner pick. A miss is silent,
// the banner is decoration.
func LoadFeaturedCmd(svc *service.BrowseService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movie, err := svc.Featured(ctx)
		if err != nil || movie == nil {
			return nil
		}
		return FeaturedLoadedMsg{Movie: *movie}
	}
}

// LoadGenresCmd loads the catalog's genre list
func LoadGenresCmd(svc *service.BrowseService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		genres, err := svc.Genres(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading genres"}
		}
		return GenresLoadedMsg{Genres: genres}
	}
}

// LoadContinuationsCmd loads the continue-watching rows for a profile
func LoadContinuationsCmd(svc *service.ContinuationService, profileID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		conts, err := svc.List(ctx, profileID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading continue watching"}
		}
		return ContinuationsLoadedMsg{Continuations: conts}
	}
}

// RemoveContinuationCmd deletes one continue-watching row
func RemoveContinuationCmd(svc *service.ContinuationService, profileID, movieID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.Remove(ctx, profileID, movieID); err != nil {
			return ErrMsg{Err: err, Context: "removing from continue watching"}
		}
		return ContinuationRemovedMsg{MovieID: movieID}
	}
}

// SearchCmd performs a title search
func SearchCmd(svc *service.SearchService, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := svc.Search(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Results: results, Query: query}
	}
}

// LoadDetailsCmd loads a title's detail sections and its watchlist state
func LoadDetailsCmd(browseSvc *service.BrowseService, watchSvc *service.WatchlistService, profileID, movieID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		details, err := browseSvc.Details(ctx, movieID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading details"}
		}

		onWatchlist := false
		if profileID != "" {
			// Watchlist state is cosmetic here, failures just leave the
			// badge off
			onWatchlist, _ = watchSvc.Contains(ctx, profileID, movieID)
		}

		return DetailsLoadedMsg{Details: details, OnWatchlist: onWatchlist}
	}
}

// LoadWatchlistCmd loads the profile's saved titles
func LoadWatchlistCmd(svc *service.WatchlistService, profileID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := svc.List(ctx, profileID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading watchlist"}
		}
		return WatchlistLoadedMsg{Entries: entries}
	}
}

// ToggleWatchlistCmd adds or removes a title from the watchlist
func ToggleWatchlistCmd(svc *service.WatchlistService, profileID string, movie domain.Movie, onList bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if onList {
			if err := svc.Remove(ctx, profileID, movie.ID); err != nil {
				return ErrMsg{Err: err, Context: "removing from watchlist"}
			}
			return WatchlistToggledMsg{MovieID: movie.ID, Added: false}
		}

		if err := svc.Add(ctx, profileID, movie); err != nil {
			return ErrMsg{Err: err, Context: "adding to watchlist"}
		}
		return WatchlistToggledMsg{MovieID: movie.ID, Added: true}
	}
}

// OpenSessionCmd opens a playback session for a title. The session's own
// state carries the detail; the message only reports terminal failure.
func OpenSessionCmd(session *service.Session, movieID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := session.Open(ctx, movieID); err != nil {
			return SessionOpenedMsg{Err: err}
		}
		return SessionOpenedMsg{}
	}
}

// CloseSessionCmd tears the playback session down
func CloseSessionCmd(session *service.Session) tea.Cmd {
	return func() tea.Msg {
		session.Close()
		return SessionClosedMsg{}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
