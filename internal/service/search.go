package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/streamverse/streamverse/internal/domain"
)

// SearchService runs catalog searches and re-ranks the results locally so
// close title matches beat the catalog's popularity ordering.
type SearchService struct {
	catalog domain.CatalogRepository
	logger  *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(catalog domain.CatalogRepository, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		catalog: catalog,
		logger:  logger,
	}
}

// Search queries the catalog and fuzzy re-ranks the first page of results
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	s.logger.Debug("searching", "query", query)

	page, err := s.catalog.Search(ctx, query, 1)
	if err != nil {
		return nil, err
	}

	ranked := rankResults(page.Movies, query)
	s.logger.Debug("search complete", "query", query, "results", len(ranked))
	return ranked, nil
}

// rankResults orders fuzzy title matches first (best rank first), then the
// non-matching remainder in catalog order
func rankResults(movies []domain.Movie, query string) []domain.Movie {
	type scored struct {
		movie domain.Movie
		rank  int
	}

	q := strings.ToLower(query)
	var matched []scored
	var rest []domain.Movie

	for _, m := range movies {
		rank := fuzzy.RankMatchNormalizedFold(q, strings.ToLower(m.Title))
		if rank >= 0 {
			matched = append(matched, scored{movie: m, rank: rank})
		} else {
			rest = append(rest, m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].rank < matched[j].rank
	})

	out := make([]domain.Movie, 0, len(movies))
	for _, sc := range matched {
		out = append(out, sc.movie)
	}
	return append(out, rest...)
}
