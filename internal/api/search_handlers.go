package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/londonmakers/makers-server/internal/errors"
	"github.com/londonmakers/makers-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the directory",
		Description: "Full-text search across maker listings with filters and facets",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild the search index",
		Description: "Drops the index and reindexes every listing from the store. Admin only.",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindexSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the directory.
type SearchInput struct {
	Query       string `query:"q" maxLength:"200" doc:"Search query"`
	Types       string `query:"types" maxLength:"200" doc:"Comma-separated craft types to filter by"`
	Specialties string `query:"specialties" maxLength:"200" doc:"Comma-separated specialty tags to filter by"`
	City        string `query:"city" maxLength:"100" doc:"Filter by exact city"`
	Featured    bool   `query:"featured" doc:"Only featured listings"`
	Limit       int    `query:"limit" minimum:"1" maximum:"100" doc:"Max results (default 20)"`
	Offset      int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
	Sort        string `query:"sort" enum:"relevance,name,recent" doc:"Sort order (default relevance)"`
	Facets      bool   `query:"facets" doc:"Include facet counts in response"`
}

// SearchHitResult contains a single search result.
type SearchHitResult struct {
	ID           string            `json:"id" doc:"Listing ID"`
	Score        float64           `json:"score" doc:"Search relevance score"`
	BusinessName string            `json:"business_name" doc:"Business name"`
	MakerName    string            `json:"maker_name,omitempty" doc:"Maker's name"`
	Type         string            `json:"type,omitempty" doc:"Craft type"`
	City         string            `json:"city,omitempty" doc:"City"`
	Specialties  []string          `json:"specialties,omitempty" doc:"Specialty tags"`
	Featured     bool              `json:"featured" doc:"Whether the listing is featured"`
	Highlights   map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// SearchFacetsResponse contains facet counts for filtering.
type SearchFacetsResponse struct {
	Types       []FacetCount `json:"types,omitempty" doc:"Craft type facets"`
	Specialties []FacetCount `json:"specialties,omitempty" doc:"Specialty facets"`
	Cities      []FacetCount `json:"cities,omitempty" doc:"City facets"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value" doc:"Facet value"`
	Count int    `json:"count" doc:"Number of matches"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string                `json:"query" doc:"Original search query"`
	Total  int64                 `json:"total" doc:"Total matches"`
	TookMs int64                 `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult     `json:"hits" doc:"Search results"`
	Facets *SearchFacetsResponse `json:"facets,omitempty" doc:"Facet counts for filtering"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// ReindexInput carries the auth header for the reindex operation.
type ReindexInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// ReindexResponse reports the rebuilt index size.
type ReindexResponse struct {
	Documents uint64 `json:"documents" doc:"Number of listings indexed"`
}

// ReindexOutput wraps the reindex response for Huma.
type ReindexOutput struct {
	Body ReindexResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, domainerrors.Validation("Search query is required")
	}

	params := search.DefaultSearchParams()
	params.Query = query
	params.City = strings.TrimSpace(input.City)
	params.FeaturedOnly = input.Featured
	params.IncludeFacets = input.Facets
	params.Types = splitCommaList(input.Types)
	params.Specialties = splitCommaList(input.Specialties)

	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset
	if input.Sort != "" {
		params.SortBy = input.Sort
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", input.Query)
		return nil, err
	}

	s.logger.Debug("Search completed",
		"query", input.Query,
		"total", result.Total,
		"took_ms", result.TookMs,
	)

	resp := SearchResponse{
		Query:  query,
		Total:  int64(result.Total), //nolint:gosec // Safe: directory size won't exceed int64
		TookMs: result.TookMs,
		Hits:   make([]SearchHitResult, 0, len(result.Hits)),
	}

	for i := range result.Hits {
		hit := &result.Hits[i]
		resp.Hits = append(resp.Hits, SearchHitResult{
			ID:           hit.ID,
			Score:        hit.Score,
			BusinessName: hit.BusinessName,
			MakerName:    hit.MakerName,
			Type:         hit.Type,
			City:         hit.City,
			Specialties:  hit.Specialties,
			Featured:     hit.Featured,
			Highlights:   hit.Highlights,
		})
	}

	if input.Facets {
		resp.Facets = &SearchFacetsResponse{
			Types:       mapFacetCounts(result.Facets.Types),
			Specialties: mapFacetCounts(result.Facets.Specialties),
			Cities:      mapFacetCounts(result.Facets.Cities),
		}
	}

	return &SearchOutput{Body: resp}, nil
}

func (s *Server) handleReindexSearch(ctx context.Context, _ *ReindexInput) (*ReindexOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Search.ReindexAll(ctx); err != nil {
		s.logger.Error("Reindex failed", "error", err)
		return nil, err
	}

	count, err := s.services.Search.DocumentCount()
	if err != nil {
		return nil, err
	}

	return &ReindexOutput{Body: ReindexResponse{Documents: count}}, nil
}

// === Helpers ===

func splitCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mapFacetCounts(facets []search.FacetCount) []FacetCount {
	out := make([]FacetCount, 0, len(facets))
	for _, f := range facets {
		out = append(out, FacetCount{Value: f.Value, Count: f.Count})
	}
	return out
}
