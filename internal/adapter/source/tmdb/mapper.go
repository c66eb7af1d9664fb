package tmdb

import (
	"strconv"

	"github.com/streamverse/streamverse/internal/domain"
)

// MapPage converts a TMDB list response to a domain page
func MapPage(list *ListResponse) *domain.Page {
	return &domain.Page{
		Movies:       MapMovies(list.Results),
		PageNumber:   list.Page,
		TotalPages:   list.TotalPages,
		TotalResults: list.TotalResults,
	}
}

// MapMovies converts TMDB list entries to domain movies
func MapMovies(entries []MovieEntry) []domain.Movie {
	movies := make([]domain.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, mapMovie(e))
	}
	return movies
}

func mapMovie(e MovieEntry) domain.Movie {
	return domain.Movie{
		ID:           strconv.Itoa(e.ID),
		Title:        e.Title,
		Overview:     e.Overview,
		ReleaseDate:  e.ReleaseDate,
		Rating:       e.VoteAverage,
		VoteCount:    e.VoteCount,
		Popularity:   e.Popularity,
		PosterPath:   e.PosterPath,
		BackdropPath: e.BackdropPath,
		GenreIDs:     e.GenreIDs,
		Adult:        e.Adult,
	}
}

// MapGenres converts TMDB genre entries to domain genres
func MapGenres(entries []GenreEntry) []domain.Genre {
	genres := make([]domain.Genre, 0, len(entries))
	for _, e := range entries {
		genres = append(genres, domain.Genre{ID: e.ID, Name: e.Name})
	}
	return genres
}

// MapMovieDetail converts a full TMDB movie resource, including any appended
// sections, to domain movie details
func MapMovieDetail(d *MovieDetail) *domain.MovieDetails {
	genres := make([]domain.Genre, 0, len(d.Genres))
	genreIDs := make([]int, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
		genreIDs = append(genreIDs, g.ID)
	}

	details := &domain.MovieDetails{
		Movie: domain.Movie{
			ID:           strconv.Itoa(d.ID),
			Title:        d.Title,
			Overview:     d.Overview,
			Tagline:      d.Tagline,
			ReleaseDate:  d.ReleaseDate,
			Runtime:      d.Runtime,
			Rating:       d.VoteAverage,
			VoteCount:    d.VoteCount,
			Popularity:   d.Popularity,
			PosterPath:   d.PosterPath,
			BackdropPath: d.BackdropPath,
			Genres:       genres,
			GenreIDs:     genreIDs,
			Adult:        d.Adult,
		},
	}

	if d.Videos != nil {
		details.Videos = mapVideos(d.Videos.Results)
	}
	if d.Credits != nil {
		details.Cast = mapCast(d.Credits.Cast)
	}
	if d.Similar != nil {
		details.Similar = MapMovies(d.Similar.Results)
	}
	if d.Recommendations != nil {
		details.Recommendations = MapMovies(d.Recommendations.Results)
	}

	return details
}

func mapVideos(entries []VideoEntry) []domain.Video {
	videos := make([]domain.Video, 0, len(entries))
	for _, v := range entries {
		videos = append(videos, domain.Video{
			ID:       v.ID,
			Key:      v.Key,
			Name:     v.Name,
			Site:     v.Site,
			Type:     v.Type,
			Official: v.Official,
		})
	}
	return videos
}

func mapCast(entries []CastEntry) []domain.CastMember {
	cast := make([]domain.CastMember, 0, len(entries))
	for _, c := range entries {
		cast = append(cast, domain.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: c.ProfilePath,
			Order:       c.Order,
		})
	}
	return cast
}
