package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", "session-token", nil)
}

func TestSignInSendsPasswordGrant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("expected grant_type=password, got %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("expected apikey header, got %q", got)
		}

		var creds map[string]string
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &creds); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if creds["email"] != "viewer@example.com" || creds["password"] != "hunter2" {
			t.Errorf("unexpected credentials %v", creds)
		}

		w.Write([]byte(`{
			"access_token": "new-token",
			"refresh_token": "refresh",
			"user": {"id": "acct-1", "email": "viewer@example.com"}
		}`))
	})
	client.SetAccessToken("")

	sess, err := client.SignIn(context.Background(), "viewer@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if sess.AccessToken != "new-token" || sess.Account.ID != "acct-1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	// Subsequent requests should carry the new token
	if client.accessToken != "new-token" {
		t.Fatalf("expected client to adopt the session token, got %q", client.accessToken)
	}
}

func TestSignInRejectionMapsToAuthFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid login credentials"}`))
	})

	_, err := client.SignIn(context.Background(), "viewer@example.com", "wrong")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Invalid login credentials") {
		t.Fatalf("expected backend message surfaced, got %v", err)
	}
}

func TestCurrentAccountRequiresToken(t *testing.T) {
	client := NewClient("https://backend.example", "anon-key", "", nil)

	_, err := client.CurrentAccount(context.Background())
	if !errors.Is(err, domain.ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestFindMissReturnsSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("profile_id") != "eq.p1" || q.Get("movie_id") != "eq.603" {
			t.Errorf("unexpected filters %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Write([]byte(`[]`))
	})

	_, err := client.Find(context.Background(), "p1", "603")
	if !errors.Is(err, domain.ErrContinuationNotFound) {
		t.Fatalf("expected ErrContinuationNotFound, got %v", err)
	}
}

func TestUpsertGoesThroughConflictKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/continue_watching" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("on_conflict"); got != "profile_id,movie_id" {
			t.Errorf("expected on_conflict=profile_id,movie_id, got %q", got)
		}
		prefer := r.Header.Get("Prefer")
		if !strings.Contains(prefer, "resolution=merge-duplicates") {
			t.Errorf("expected merge-duplicates resolution, got %q", prefer)
		}
		if !strings.Contains(prefer, "return=representation") {
			t.Errorf("expected representation return, got %q", prefer)
		}

		var rows []continuationRow
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &rows); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected one row, got %d", len(rows))
		}
		if rows[0].ProfileID != "p1" || rows[0].MovieID != "603" || rows[0].Progress != 42.5 {
			t.Errorf("unexpected row %+v", rows[0])
		}

		rows[0].ID = "row-1"
		resp, _ := json.Marshal(rows)
		w.Write(resp)
	})

	stored, err := client.Upsert(context.Background(), domain.Continuation{
		ProfileID:   "p1",
		MovieID:     "603",
		Progress:    42.5,
		LastWatched: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Snapshot:    domain.MovieSnapshot{ID: "603", Title: "The Matrix"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if stored.ID != "row-1" || stored.Progress != 42.5 {
		t.Fatalf("unexpected stored row %+v", stored)
	}
	if stored.Snapshot.Title != "The Matrix" {
		t.Fatalf("expected snapshot round-tripped, got %+v", stored.Snapshot)
	}
}

func TestListOrdersByLastWatched(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("order"); got != "last_watched.desc" {
			t.Errorf("expected order=last_watched.desc, got %q", got)
		}
		w.Write([]byte(`[
			{"id": "r2", "profile_id": "p1", "movie_id": "604", "progress": 12, "completed": false, "last_watched": "2024-05-02T10:00:00Z", "movie_data": {"id": "604", "title": "The Matrix Reloaded"}},
			{"id": "r1", "profile_id": "p1", "movie_id": "603", "progress": 100, "completed": true, "last_watched": "2024-05-01T10:00:00Z", "movie_data": {"id": "603", "title": "The Matrix"}}
		]`))
	})

	conts, err := client.List(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(conts) != 2 {
		t.Fatalf("expected two rows, got %d", len(conts))
	}
	if conts[0].MovieID != "604" {
		t.Fatalf("expected backend order preserved, got %+v", conts[0])
	}
	if conts[1].WatchStatus() != domain.WatchStatusWatched {
		t.Fatalf("expected completed row to read as watched")
	}
}

func TestUnauthorizedMapsToAuthFailed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "JWT expired"}`))
	})

	_, err := client.List(context.Background(), "p1")
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDeleteForProfileFiltersOnProfile(t *testing.T) {
	var sawDelete bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		sawDelete = true
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("profile_id") != "eq.p1" {
			t.Errorf("expected profile filter, got %v", q)
		}
		if q.Get("movie_id") != "" {
			t.Errorf("profile-wide delete must not filter on movie, got %v", q)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteForProfile(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	if !sawDelete {
		t.Fatal("expected a delete request")
	}
}
