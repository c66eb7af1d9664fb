package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "StreamVerse/1.0"

	tableProfiles     = "profiles"
	tableWatchlist    = "watchlist"
	tableContinuation = "continue_watching"

	// continuationConflictKey names the unique constraint the store resolves
	// upserts against. This, not any read-before-write in the callers, is
	// what keeps (profile_id, movie_id) down to one row.
	continuationConflictKey = "profile_id,movie_id"
	watchlistConflictKey    = "profile_id,movie_id"
)

// Client implements domain.IdentityRepository, domain.ProfileRepository,
// domain.ContinuationRepository and domain.WatchlistRepository against a
// Supabase-style hosted backend (GoTrue auth + PostgREST tables).
type Client struct {
	baseURL     string
	anonKey     string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new backend client. accessToken may be empty until
// SignIn succeeds.
func NewClient(baseURL, anonKey, accessToken string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		anonKey:     anonKey,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetAccessToken updates the session token used for subsequent requests
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// doRequest performs an authenticated request against the backend.
// prefer sets the Prefer header when non-empty (upsert resolution,
// representation returns).
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload interface{}, prefer string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("apikey", c.anonKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	token := c.accessToken
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed", "error", err)
		return nil, domain.ErrBackendOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		_ = json.Unmarshal(respBody, &errResp)
		msg := errResp.text()
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		c.logger.Error("backend request error", "status", resp.StatusCode, "path", path, "message", msg)
		return nil, fmt.Errorf("backend error: %s", msg)
	}

	return respBody, nil
}

// restPath builds the table path for the REST surface
func restPath(table string) string {
	return "/rest/v1/" + table
}

// === Identity (GoTrue auth surface) ===

// SignIn exchanges email+password for a session token
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	q := url.Values{}
	q.Set("grant_type", "password")

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/v1/token", q, map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}

	return c.parseSession(body)
}

// SignUp registers a new account. Depending on backend settings the response
// may or may not carry a session (email confirmation flows return none).
func (c *Client) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/v1/signup", nil, map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}

	return c.parseSession(body)
}

func (c *Client) parseSession(body []byte) (*domain.Session, error) {
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, domain.ErrAuthFailed
	}

	sess := &domain.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if tok.User != nil {
		sess.Account = domain.Account{ID: tok.User.ID, Email: tok.User.Email}
	}

	c.accessToken = tok.AccessToken
	return sess, nil
}

// CurrentAccount returns the account behind the active token
func (c *Client) CurrentAccount(ctx context.Context) (*domain.Account, error) {
	if c.accessToken == "" {
		return nil, domain.ErrNotSignedIn
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/auth/v1/user", nil, nil, "")
	if err != nil {
		return nil, err
	}

	var user userRow
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	if user.ID == "" {
		return nil, domain.ErrAuthFailed
	}

	return &domain.Account{ID: user.ID, Email: user.Email}, nil
}

// === Profiles ===

// GetProfiles returns an account's profiles, oldest first
func (c *Client) GetProfiles(ctx context.Context, accountID string) ([]domain.Profile, error) {
	q := url.Values{}
	q.Set("user_id", "eq."+accountID)
	q.Set("select", "*")
	q.Set("order", "created_at.asc")

	body, err := c.doRequest(ctx, http.MethodGet, restPath(tableProfiles), q, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	return mapProfiles(rows), nil
}

// GetProfile returns a single profile by id
func (c *Client) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	q := url.Values{}
	q.Set("id", "eq."+profileID)
	q.Set("select", "*")
	q.Set("limit", "1")

	body, err := c.doRequest(ctx, http.MethodGet, restPath(tableProfiles), q, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoActiveProfile
	}

	p := mapProfile(rows[0])
	return &p, nil
}

// CreateProfile creates a profile and returns the stored row
func (c *Client) CreateProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	row := profileRow{
		UserID:    p.AccountID,
		Name:      p.Name,
		AvatarID:  p.AvatarID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := c.doRequest(ctx, http.MethodPost, restPath(tableProfiles), nil, []profileRow{row}, "return=representation")
	if err != nil {
		return nil, err
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse created profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backend returned no profile row")
	}

	created := mapProfile(rows[0])
	return &created, nil
}

// UpdateProfile updates a profile's mutable fields
func (c *Client) UpdateProfile(ctx context.Context, p domain.Profile) error {
	q := url.Values{}
	q.Set("id", "eq."+p.ID)

	_, err := c.doRequest(ctx, http.MethodPatch, restPath(tableProfiles), q, map[string]string{
		"name":       p.Name,
		"avatar_id":  p.AvatarID,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}, "")
	return err
}

// DeleteProfile deletes a profile row. Callers are responsible for removing
// the profile's watchlist and continuation rows first.
func (c *Client) DeleteProfile(ctx context.Context, profileID string) error {
	q := url.Values{}
	q.Set("id", "eq."+profileID)

	_, err := c.doRequest(ctx, http.MethodDelete, restPath(tableProfiles), q, nil, "")
	return err
}

// === Continuations (continue_watching table) ===

// Find returns the continuation for a (profile, movie) pair
func (c *Client) Find(ctx context.Context, profileID, movieID string) (*domain.Continuation, error) {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)
	q.Set("movie_id", "eq."+movieID)
	q.Set("select", "*")
	q.Set("limit", "1")

	body, err := c.doRequest(ctx, http.MethodGet, restPath(tableContinuation), q, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []continuationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse continuation: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrContinuationNotFound
	}

	cont := mapContinuation(rows[0])
	return &cont, nil
}

// List returns a profile's continuations, most recently watched first
func (c *Client) List(ctx context.Context, profileID string) ([]domain.Continuation, error) {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)
	q.Set("select", "*")
	q.Set("order", "last_watched.desc")

	body, err := c.doRequest(ctx, http.MethodGet, restPath(tableContinuation), q, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []continuationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse continuations: %w", err)
	}

	return mapContinuations(rows), nil
}

// Upsert writes a continuation through the store's conflict key, so
// concurrent writers for the same pair converge to a single row
// (last write wins) instead of duplicating it.
func (c *Client) Upsert(ctx context.Context, cont domain.Continuation) (*domain.Continuation, error) {
	q := url.Values{}
	q.Set("on_conflict", continuationConflictKey)

	row := continuationRow{
		ProfileID:   cont.ProfileID,
		MovieID:     cont.MovieID,
		Progress:    cont.Progress,
		Completed:   cont.Completed,
		LastWatched: cont.LastWatched.UTC().Format(time.RFC3339),
		MovieData:   cont.Snapshot,
	}

	body, err := c.doRequest(ctx, http.MethodPost, restPath(tableContinuation), q, []continuationRow{row},
		"resolution=merge-duplicates,return=representation")
	if err != nil {
		return nil, err
	}

	var rows []continuationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse upserted continuation: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("backend returned no continuation row")
	}

	stored := mapContinuation(rows[0])
	return &stored, nil
}

// Delete removes the continuation for a pair
func (c *Client) Delete(ctx context.Context, profileID, movieID string) error {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)
	q.Set("movie_id", "eq."+movieID)

	_, err := c.doRequest(ctx, http.MethodDelete, restPath(tableContinuation), q, nil, "")
	return err
}

// DeleteForProfile removes every continuation owned by the profile
func (c *Client) DeleteForProfile(ctx context.Context, profileID string) error {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)

	_, err := c.doRequest(ctx, http.MethodDelete, restPath(tableContinuation), q, nil, "")
	return err
}

// === Watchlist ===

// GetWatchlist returns a profile's watchlist, most recently added first
func (c *Client) GetWatchlist(ctx context.Context, profileID string) ([]domain.WatchlistEntry, error) {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)
	q.Set("select", "*")
	q.Set("order", "added_at.desc")

	body, err := c.doRequest(ctx, http.MethodGet, restPath(tableWatchlist), q, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []watchlistRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist: %w", err)
	}

	return mapWatchlist(rows), nil
}

// AddToWatchlist saves a title through the table's conflict key; re-adding
// an already saved title refreshes the row instead of duplicating it
func (c *Client) AddToWatchlist(ctx context.Context, e domain.WatchlistEntry) error {
	q := url.Values{}
	q.Set("on_conflict", watchlistConflictKey)

	row := watchlistRow{
		ProfileID: e.ProfileID,
		MovieID:   e.MovieID,
		AddedAt:   e.AddedAt.UTC().Format(time.RFC3339),
		MovieData: e.Snapshot,
	}

	_, err := c.doRequest(ctx, http.MethodPost, restPath(tableWatchlist), q, []watchlistRow{row},
		"resolution=merge-duplicates")
	return err
}

// RemoveFromWatchlist removes a title from a profile's watchlist
func (c *Client) RemoveFromWatchlist(ctx context.Context, profileID, movieID string) error {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)
	q.Set("movie_id", "eq."+movieID)

	_, err := c.doRequest(ctx, http.MethodDelete, restPath(tableWatchlist), q, nil, "")
	return err
}

// DeleteWatchlistForProfile removes a profile's entire watchlist
func (c *Client) DeleteWatchlistForProfile(ctx context.Context, profileID string) error {
	q := url.Values{}
	q.Set("profile_id", "eq."+profileID)

	_, err := c.doRequest(ctx, http.MethodDelete, restPath(tableWatchlist), q, nil, "")
	return err
}
