package supabase

import (
	"time"

	"github.com/streamverse/streamverse/internal/domain"
)

// parseTime parses a backend timestamp, tolerating the fractional-second
// variants PostgREST emits. Zero time on failure.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapProfiles(rows []profileRow) []domain.Profile {
	profiles := make([]domain.Profile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, mapProfile(r))
	}
	return profiles
}

func mapProfile(r profileRow) domain.Profile {
	return domain.Profile{
		ID:        r.ID,
		AccountID: r.UserID,
		Name:      r.Name,
		AvatarID:  r.AvatarID,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

func mapContinuations(rows []continuationRow) []domain.Continuation {
	conts := make([]domain.Continuation, 0, len(rows))
	for _, r := range rows {
		conts = append(conts, mapContinuation(r))
	}
	return conts
}

func mapContinuation(r continuationRow) domain.Continuation {
	return domain.Continuation{
		ID:          r.ID,
		ProfileID:   r.ProfileID,
		MovieID:     r.MovieID,
		Progress:    r.Progress,
		Completed:   r.Completed,
		LastWatched: parseTime(r.LastWatched),
		Snapshot:    r.MovieData,
	}
}

func mapWatchlist(rows []watchlistRow) []domain.WatchlistEntry {
	entries := make([]domain.WatchlistEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.WatchlistEntry{
			ProfileID: r.ProfileID,
			MovieID:   r.MovieID,
			AddedAt:   parseTime(r.AddedAt),
			Snapshot:  r.MovieData,
		})
	}
	return entries
}
