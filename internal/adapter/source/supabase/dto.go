package supabase

import "github.com/streamverse/streamverse/internal/domain"

// tokenResponse is the auth token grant response
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         *userRow `json:"user,omitempty"`
}

// userRow is an auth user resource
type userRow struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// errorResponse is the backend's error envelope. The auth and rest surfaces
// use different field names for the same thing.
type errorResponse struct {
	Message          string `json:"message,omitempty"`
	Msg              string `json:"msg,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// profileRow is one row of the profiles table
type profileRow struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarID  string `json:"avatar_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// continuationRow is one row of the continue_watching table. The table
// carries a unique constraint over (profile_id, movie_id); upserts name it
// as the conflict key.
type continuationRow struct {
	ID          string               `json:"id,omitempty"`
	ProfileID   string               `json:"profile_id"`
	MovieID     string               `json:"movie_id"`
	Progress    float64              `json:"progress"`
	Completed   bool                 `json:"completed"`
	LastWatched string               `json:"last_watched"`
	MovieData   domain.MovieSnapshot `json:"movie_data"`
}

// watchlistRow is one row of the watchlist table, keyed like
// continue_watching on (profile_id, movie_id)
type watchlistRow struct {
	ProfileID string               `json:"profile_id"`
	MovieID   string               `json:"movie_id"`
	AddedAt   string               `json:"added_at"`
	MovieData domain.MovieSnapshot `json:"movie_data"`
}
