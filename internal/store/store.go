package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/streamverse/streamverse/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketRails  = []byte("rails")
	bucketGenres = []byte("genres")
	bucketMovies = []byte("movies")
)

// entry wraps a cached value with its fetch time for TTL checks
type entry struct {
	FetchedAt int64           `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

// CatalogStore caches catalog reads (rails, genre list, movie details) in
// BoltDB with an in-memory promotion layer. The catalog is slow-moving, so
// every read goes through a TTL freshness check instead of server
// timestamps.
type CatalogStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewCatalogStore opens (or creates) the cache database under cacheDir.
// An empty cacheDir yields a memory-only store.
func NewCatalogStore(cacheDir string, ttl time.Duration) (*CatalogStore, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	s := &CatalogStore{
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string][]byte),
	}

	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return s, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "streamverse.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRails, bucketGenres, bucketMovies} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// get loads a cached entry, honoring the TTL. Stale entries read as misses
// but are left in place for offline fallback via getStale.
func (s *CatalogStore) get(bucket []byte, key string, dest interface{}) bool {
	e, ok := s.load(bucket, key)
	if !ok {
		return false
	}
	if s.now().Unix()-e.FetchedAt > int64(s.ttl.Seconds()) {
		return false
	}
	return json.Unmarshal(e.Data, dest) == nil
}

// getStale loads a cached entry regardless of age
func (s *CatalogStore) getStale(bucket []byte, key string, dest interface{}) bool {
	e, ok := s.load(bucket, key)
	if !ok {
		return false
	}
	return json.Unmarshal(e.Data, dest) == nil
}

func (s *CatalogStore) load(bucket []byte, key string) (*entry, bool) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		var e entry
		if json.Unmarshal(data, &e) == nil {
			return &e, true
		}
		return nil, false
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	var e entry
	if json.Unmarshal(data, &e) != nil {
		return nil, false
	}
	return &e, true
}

func (s *CatalogStore) set(bucket []byte, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{FetchedAt: s.now().Unix(), Data: raw})
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *CatalogStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// railKey builds the cache key for a rail (genre rails carry their id)
func railKey(kind domain.RailKind, genreID int) string {
	if kind == domain.RailGenre {
		return fmt.Sprintf("%s:%d", kind, genreID)
	}
	return string(kind)
}

// === Rails ===

func (s *CatalogStore) GetRail(kind domain.RailKind, genreID int) ([]domain.Movie, bool) {
	var movies []domain.Movie
	ok := s.get(bucketRails, railKey(kind, genreID), &movies)
	return movies, ok
}

// GetStaleRail returns a rail regardless of freshness, for offline fallback
func (s *CatalogStore) GetStaleRail(kind domain.RailKind, genreID int) ([]domain.Movie, bool) {
	var movies []domain.Movie
	ok := s.getStale(bucketRails, railKey(kind, genreID), &movies)
	return movies, ok
}

func (s *CatalogStore) SaveRail(kind domain.RailKind, genreID int, movies []domain.Movie) error {
	return s.set(bucketRails, railKey(kind, genreID), movies)
}

// === Genres ===

func (s *CatalogStore) GetGenres() ([]domain.Genre, bool) {
	var genres []domain.Genre
	ok := s.get(bucketGenres, "list", &genres)
	return genres, ok
}

func (s *CatalogStore) SaveGenres(genres []domain.Genre) error {
	return s.set(bucketGenres, "list", genres)
}

// === Movie details ===

func (s *CatalogStore) GetMovieDetails(movieID string) (*domain.MovieDetails, bool) {
	var details domain.MovieDetails
	if !s.get(bucketMovies, movieID, &details) {
		return nil, false
	}
	return &details, true
}

func (s *CatalogStore) SaveMovieDetails(details *domain.MovieDetails) error {
	return s.set(bucketMovies, details.ID, details)
}

func (s *CatalogStore) InvalidateMovie(movieID string) {
	s.delete(bucketMovies, movieID)
}

// InvalidateRails wipes all cached rails (manual refresh)
func (s *CatalogStore) InvalidateRails() {
	s.mu.Lock()
	prefix := string(bucketRails) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRails)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *CatalogStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRails, bucketGenres, bucketMovies} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
