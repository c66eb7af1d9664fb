package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streamverse/streamverse/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "https://image.example/t/p", "w500", nil)
}

func TestTrendingParsesListing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/movie/day" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api key on query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 603, "title": "The Matrix", "vote_average": 8.2, "release_date": "1999-03-31", "poster_path": "/matrix.jpg", "genre_ids": [28, 878]}
			],
			"total_pages": 10,
			"total_results": 200
		}`))
	})

	page, err := client.Trending(context.Background(), "day", 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalResults != 200 {
		t.Fatalf("expected total 200, got %d", page.TotalResults)
	}
	if len(page.Movies) != 1 {
		t.Fatalf("expected one movie, got %d", len(page.Movies))
	}
	m := page.Movies[0]
	if m.ID != "603" || m.Title != "The Matrix" || m.Year() != 1999 {
		t.Fatalf("unexpected mapping: %+v", m)
	}
	if len(m.GenreIDs) != 2 {
		t.Fatalf("expected genre ids mapped, got %v", m.GenreIDs)
	}
}

func TestSearchSendsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "matrix" {
			t.Errorf("expected query param, got %q", q.Get("query"))
		}
		if q.Get("include_adult") != "false" {
			t.Errorf("expected include_adult=false, got %q", q.Get("include_adult"))
		}
		w.Write([]byte(`{"page":1,"results":[],"total_pages":0,"total_results":0}`))
	})

	if _, err := client.Search(context.Background(), "matrix", 1); err != nil {
		t.Fatal(err)
	}
}

func TestGetMovieDetailsAppendsSections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "videos,credits,similar,recommendations" {
			t.Errorf("unexpected append_to_response %q", got)
		}
		w.Write([]byte(`{
			"id": 603, "title": "The Matrix", "runtime": 136, "tagline": "Free your mind",
			"genres": [{"id": 878, "name": "Science Fiction"}],
			"videos": {"results": [
				{"id": "v1", "key": "abc", "name": "Teaser", "site": "YouTube", "type": "Trailer", "official": false},
				{"id": "v2", "key": "def", "name": "Official Trailer", "site": "YouTube", "type": "Trailer", "official": true}
			]},
			"credits": {"cast": [{"id": 1, "name": "Keanu Reeves", "character": "Neo", "order": 0}]},
			"similar": {"page": 1, "results": [{"id": 604, "title": "The Matrix Reloaded"}]},
			"recommendations": {"page": 1, "results": []}
		}`))
	})

	details, err := client.GetMovieDetails(context.Background(), "603")
	if err != nil {
		t.Fatal(err)
	}
	if details.Runtime != 136 {
		t.Fatalf("expected runtime mapped, got %d", details.Runtime)
	}
	if len(details.Genres) != 1 || details.Genres[0].Name != "Science Fiction" {
		t.Fatalf("unexpected genres: %+v", details.Genres)
	}
	if len(details.Cast) != 1 || details.Cast[0].Character != "Neo" {
		t.Fatalf("unexpected cast: %+v", details.Cast)
	}
	if len(details.Similar) != 1 || details.Similar[0].ID != "604" {
		t.Fatalf("unexpected similar: %+v", details.Similar)
	}

	trailer := details.Trailer()
	if trailer == nil || trailer.Key != "def" {
		t.Fatalf("expected the official trailer picked, got %+v", trailer)
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "status_code": 34, "status_message": "not found"}`))
	})

	_, err := client.GetMovie(context.Background(), "999999999")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSuccessFalseBodyMapsToSentinel(t *testing.T) {
	// TMDB sometimes answers 200 with success=false in the body
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "status_code": 34, "status_message": "not found"}`))
	})

	_, err := client.GetMovie(context.Background(), "999999999")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestImageURL(t *testing.T) {
	client := NewClient("https://api.example", "k", "https://image.example/t/p", "w500", nil)

	if got := client.ImageURL("/matrix.jpg"); got != "https://image.example/t/p/w500/matrix.jpg" {
		t.Fatalf("unexpected image url %q", got)
	}
	if got := client.ImageURL(""); got != "" {
		t.Fatalf("expected empty url for empty path, got %q", got)
	}
}
