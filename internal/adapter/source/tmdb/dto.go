package tmdb

// ListResponse is the envelope for every paginated TMDB listing
// (trending, popular, search, discover, similar, recommendations).
type ListResponse struct {
	Page         int          `json:"page"`
	Results      []MovieEntry `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// MovieEntry is a movie as it appears in list results. Detail-only fields
// (runtime, genres, tagline) are absent here.
type MovieEntry struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

// MovieDetail is the full movie resource, optionally with appended sections
// when requested via append_to_response.
type MovieDetail struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Overview         string       `json:"overview"`
	Tagline          string       `json:"tagline,omitempty"`
	ReleaseDate      string       `json:"release_date,omitempty"`
	Runtime          int          `json:"runtime,omitempty"`
	PosterPath       string       `json:"poster_path,omitempty"`
	BackdropPath     string       `json:"backdrop_path,omitempty"`
	VoteAverage      float64      `json:"vote_average"`
	VoteCount        int          `json:"vote_count"`
	Popularity       float64      `json:"popularity"`
	Genres           []GenreEntry `json:"genres,omitempty"`
	Adult            bool         `json:"adult"`
	Status           string       `json:"status,omitempty"`
	OriginalLanguage string       `json:"original_language,omitempty"`

	// Appended sections (append_to_response)
	Videos          *VideosResponse  `json:"videos,omitempty"`
	Credits         *CreditsResponse `json:"credits,omitempty"`
	Similar         *ListResponse    `json:"similar,omitempty"`
	Recommendations *ListResponse    `json:"recommendations,omitempty"`

	// TMDB signals "not found" with success=false in the body
	Success *bool `json:"success,omitempty"`
}

// GenreEntry is one genre in the genre list or a detail response
type GenreEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenresResponse wraps the genre list endpoint
type GenresResponse struct {
	Genres []GenreEntry `json:"genres"`
}

// VideosResponse wraps a movie's videos
type VideosResponse struct {
	Results []VideoEntry `json:"results"`
}

// VideoEntry is a trailer, teaser or clip
type VideoEntry struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// CreditsResponse wraps a movie's cast and crew
type CreditsResponse struct {
	Cast []CastEntry `json:"cast"`
}

// CastEntry is one cast member
type CastEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// StatusResponse is TMDB's error envelope
type StatusResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
