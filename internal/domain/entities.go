package domain

import (
	"fmt"
	"time"
)

// WatchStatus describes how far a profile has gotten with a title.
type WatchStatus int

const (
	WatchStatusUnwatched WatchStatus = iota
	WatchStatusInProgress
	WatchStatusWatched
)

// Movie represents a single catalog title.
type Movie struct {
	ID           string  // TMDB identifier (stringified)
	Title        string  // Display title
	Overview     string  // Plot synopsis
	ReleaseDate  string  // "2006-01-02" from the catalog, may be empty
	Runtime      int     // Runtime in minutes (0 when unknown)
	Rating       float64 // Community rating, 0-10 scale
	VoteCount    int
	Popularity   float64
	PosterPath   string // Relative artwork path, resolved via image base URL
	BackdropPath string
	GenreIDs     []int
	Genres       []Genre // Populated on detail fetches only
	Tagline      string
	Adult        bool
}

// Year returns the release year, or 0 when the release date is unknown.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	var y int
	if _, err := fmt.Sscanf(m.ReleaseDate[:4], "%d", &y); err != nil {
		return 0
	}
	return y
}

// FormattedRuntime returns the runtime in a human-readable format.
func (m Movie) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h := m.Runtime / 60
	mins := m.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Description returns secondary info for list display.
func (m Movie) Description() string {
	if y := m.Year(); y > 0 {
		return fmt.Sprintf("%d", y)
	}
	return m.FormattedRuntime()
}

// Genre is a catalog genre.
type Genre struct {
	ID   int
	Name string
}

// Video is a catalog video attached to a movie (trailer, teaser, clip).
type Video struct {
	ID       string
	Key      string // Site-specific key (YouTube video id)
	Name     string
	Site     string // "YouTube", "Vimeo"
	Type     string // "Trailer", "Teaser", "Clip"
	Official bool
}

// CastMember is one entry of a movie's cast listing.
type CastMember struct {
	ID          int
	Name        string
	Character   string
	ProfilePath string
	Order       int
}

// MovieDetails bundles a movie with its appended detail sections.
type MovieDetails struct {
	Movie
	Videos          []Video
	Cast            []CastMember
	Similar         []Movie
	Recommendations []Movie
}

// Trailer returns the best trailer for the movie, preferring official
// YouTube trailers, or nil when none exists.
func (d MovieDetails) Trailer() *Video {
	var fallback *Video
	for i := range d.Videos {
		v := &d.Videos[i]
		if v.Site != "YouTube" || v.Type != "Trailer" {
			continue
		}
		if v.Official {
			return v
		}
		if fallback == nil {
			fallback = v
		}
	}
	return fallback
}

// Account is the authenticated backend user. Profiles belong to an account.
type Account struct {
	ID    string
	Email string
}

// Profile is a named viewing identity under one account. All personalization
// data (watchlist, continuations) is scoped to a profile, not the account.
type Profile struct {
	ID        string
	AccountID string
	Name      string
	AvatarID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MovieSnapshot is the denormalized display copy stored alongside watchlist
// and continuation rows so lists can render without a catalog fetch.
type MovieSnapshot struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	Rating       float64 `json:"vote_average"`
}

// Snapshot captures the movie's display fields.
func (m Movie) Snapshot() MovieSnapshot {
	return MovieSnapshot{
		ID:           m.ID,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		Rating:       m.Rating,
	}
}

// Continuation is the persisted watch-progress marker for one
// (profile, movie) pair. At most one row exists per pair; the record store
// enforces that via its conflict key, not this type.
type Continuation struct {
	ID          string // Store-assigned row id, empty until first persist
	ProfileID   string
	MovieID     string
	Progress    float64 // Estimated percent watched, [0, 100]
	Completed   bool
	LastWatched time.Time
	Snapshot    MovieSnapshot
}

// WatchStatus derives the display status from the persisted fields.
func (c Continuation) WatchStatus() WatchStatus {
	if c.Completed || c.Progress >= 100 {
		return WatchStatusWatched
	}
	if c.Progress > 0 {
		return WatchStatusInProgress
	}
	return WatchStatusUnwatched
}

// WatchlistEntry is one saved title on a profile's watchlist.
type WatchlistEntry struct {
	ProfileID string
	MovieID   string
	AddedAt   time.Time
	Snapshot  MovieSnapshot
}

// RailKind identifies one browse rail of the home screen.
type RailKind string

const (
	RailContinueWatching RailKind = "continue_watching"
	RailTrending         RailKind = "trending"
	RailPopular          RailKind = "popular"
	RailTopRated         RailKind = "top_rated"
	RailNowPlaying       RailKind = "now_playing"
	RailUpcoming         RailKind = "upcoming"
	RailThisYear         RailKind = "this_year"
	RailGenre            RailKind = "genre" // Parameterized by genre id
)

// Rail is one horizontal row of the browse screen.
type Rail struct {
	Kind    RailKind
	Title   string
	GenreID int // Set for RailGenre rails only
	Movies  []Movie
}

// Page is one page of a paginated catalog listing.
type Page struct {
	Movies       []Movie
	PageNumber   int
	TotalPages   int
	TotalResults int
}
