package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "StreamVerse/1.0"
)

// Client implements domain.CatalogRepository against the TMDB API
type Client struct {
	baseURL    string
	apiKey     string
	imageBase  string
	imageSize  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, apiKey, imageBase, imageSize string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		imageBase: strings.TrimRight(imageBase, "/"),
		imageSize: imageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// ImageURL resolves a relative artwork path to a full URL.
// Returns "" for empty paths so callers can fall back to a placeholder.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBase + "/" + c.imageSize + path
}

// doRequest performs an authenticated GET and returns the raw body
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "error", err)
		return nil, domain.ErrBackendOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, domain.ErrItemNotFound
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	default:
		c.logger.Error("tmdb request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// getList fetches and maps one paginated listing endpoint
func (c *Client) getList(ctx context.Context, path string, query url.Values) (*domain.Page, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var list ListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		c.logger.Error("tmdb parse error", "error", err, "path", path)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapPage(&list), nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

// Trending returns trending movies for "day" or "week"
func (c *Client) Trending(ctx context.Context, window string, page int) (*domain.Page, error) {
	if window != "day" && window != "week" {
		window = "day"
	}
	return c.getList(ctx, "/trending/movie/"+window, pageQuery(page))
}

// Popular returns the popular listing
func (c *Client) Popular(ctx context.Context, page int) (*domain.Page, error) {
	return c.getList(ctx, "/movie/popular", pageQuery(page))
}

// TopRated returns the top-rated listing
func (c *Client) TopRated(ctx context.Context, page int) (*domain.Page, error) {
	return c.getList(ctx, "/movie/top_rated", pageQuery(page))
}

// NowPlaying returns titles currently in theaters
func (c *Client) NowPlaying(ctx context.Context, page int) (*domain.Page, error) {
	return c.getList(ctx, "/movie/now_playing", pageQuery(page))
}

// Upcoming returns upcoming titles
func (c *Client) Upcoming(ctx context.Context, page int) (*domain.Page, error) {
	return c.getList(ctx, "/movie/upcoming", pageQuery(page))
}

// DiscoverByGenre returns movies matching the given genres
func (c *Client) DiscoverByGenre(ctx context.Context, genreIDs []int, page int) (*domain.Page, error) {
	ids := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = strconv.Itoa(id)
	}
	q := pageQuery(page)
	q.Set("with_genres", strings.Join(ids, ","))
	q.Set("sort_by", "popularity.desc")
	return c.getList(ctx, "/discover/movie", q)
}

// DiscoverByYear returns movies released in the given year
func (c *Client) DiscoverByYear(ctx context.Context, year, page int) (*domain.Page, error) {
	q := pageQuery(page)
	q.Set("primary_release_year", strconv.Itoa(year))
	return c.getList(ctx, "/discover/movie", q)
}

// Genres returns the catalog genre list
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.doRequest(ctx, "/genre/movie/list", nil)
	if err != nil {
		return nil, err
	}

	var resp GenresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse genres: %w", err)
	}

	return MapGenres(resp.Genres), nil
}

// Search performs a title search
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.Page, error) {
	q := pageQuery(page)
	q.Set("query", query)
	q.Set("include_adult", "false")
	return c.getList(ctx, "/search/movie", q)
}

// GetMovie returns basic metadata for one title
func (c *Client) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	detail, err := c.fetchDetail(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	m := MapMovieDetail(detail)
	return &m.Movie, nil
}

// GetMovieDetails returns a title with videos, credits, similar and
// recommended titles appended in a single request
func (c *Client) GetMovieDetails(ctx context.Context, id string) (*domain.MovieDetails, error) {
	q := url.Values{}
	q.Set("append_to_response", "videos,credits,similar,recommendations")
	detail, err := c.fetchDetail(ctx, id, q)
	if err != nil {
		return nil, err
	}
	return MapMovieDetail(detail), nil
}

func (c *Client) fetchDetail(ctx context.Context, id string, query url.Values) (*MovieDetail, error) {
	if id == "" {
		return nil, domain.ErrItemNotFound
	}

	body, err := c.doRequest(ctx, "/movie/"+url.PathEscape(id), query)
	if err != nil {
		return nil, err
	}

	var detail MovieDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse movie: %w", err)
	}

	// A 200 with success=false still means the title does not exist
	if detail.Success != nil && !*detail.Success {
		return nil, domain.ErrItemNotFound
	}

	return &detail, nil
}
