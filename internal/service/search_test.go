package service

import (
	"testing"

	"github.com/streamverse/streamverse/internal/domain"
)

func TestRankResultsPrefersCloserTitles(t *testing.T) {
	movies := []domain.Movie{
		{ID: "1", Title: "The Matrix Resurrections"},
		{ID: "2", Title: "The Matrix"},
		{ID: "3", Title: "Free Guy"},
	}

	ranked := rankResults(movies, "matrix")
	if len(ranked) != 3 {
		t.Fatalf("expected all results kept, got %d", len(ranked))
	}
	if ranked[0].ID != "2" {
		t.Fatalf("expected exact-ish title first, got %q", ranked[0].Title)
	}
	if ranked[2].ID != "3" {
		t.Fatalf("expected non-matching title last, got %q", ranked[2].Title)
	}
}

func TestRankResultsKeepsCatalogOrderForNonMatches(t *testing.T) {
	movies := []domain.Movie{
		{ID: "1", Title: "Alpha"},
		{ID: "2", Title: "Beta"},
		{ID: "3", Title: "Gamma"},
	}

	ranked := rankResults(movies, "zzzz")
	for i, m := range movies {
		if ranked[i].ID != m.ID {
			t.Fatalf("expected catalog order preserved, got %v at %d", ranked[i].ID, i)
		}
	}
}
