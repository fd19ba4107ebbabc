package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // Visitor's search query

	// Filters
	Types        []string // Filter by craft type (empty = all)
	Specialties  []string // Filter by exact specialty tags
	City         string   // Filter by exact city
	FeaturedOnly bool     // Only featured listings

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "name", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool     // Include facet counts in results
	FacetFields   []string // Which fields to facet on
	Highlight     bool     // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"type", "specialties", "city"},
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitempty"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID           string            `json:"id"`
	Score        float64           `json:"score"`
	BusinessName string            `json:"business_name"`
	MakerName    string            `json:"maker_name,omitempty"`
	Type         string            `json:"type,omitempty"`
	City         string            `json:"city,omitempty"`
	Specialties  []string          `json:"specialties,omitempty"`
	Featured     bool              `json:"featured"`
	Highlights   map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types       []FacetCount `json:"types,omitempty"`
	Specialties []FacetCount `json:"specialties,omitempty"`
	Cities      []FacetCount `json:"cities,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		addFacets(searchRequest, params)
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("business_name")
		searchRequest.Highlight.AddField("maker_name")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"id", "business_name", "maker_name", "type", "city", "specialties", "featured",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		// Extract stored fields
		if bn, ok := hit.Fields["business_name"].(string); ok {
			searchHit.BusinessName = bn
		}
		if mn, ok := hit.Fields["maker_name"].(string); ok {
			searchHit.MakerName = mn
		}
		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = t
		}
		if c, ok := hit.Fields["city"].(string); ok {
			searchHit.City = c
		}
		if f, ok := hit.Fields["featured"].(bool); ok {
			searchHit.Featured = f
		}
		// Bleve returns a bare string for single-element arrays
		switch sp := hit.Fields["specialties"].(type) {
		case string:
			searchHit.Specialties = []string{sp}
		case []interface{}:
			for _, v := range sp {
				if str, ok := v.(string); ok {
					searchHit.Specialties = append(searchHit.Specialties, str)
				}
			}
		}

		// Extract highlights
		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query
	// Search strategy: match on business name, maker name, and description,
	// with the business name boosted highest. Fuzzy and prefix variants on
	// the business name give typo tolerance and autocomplete behavior.
	if params.Query != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("business_name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		makerMatch := bleve.NewMatchQuery(params.Query)
		makerMatch.SetField("maker_name")
		makerMatch.SetBoost(2.0)
		textQueries = append(textQueries, makerMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		descMatch.SetBoost(1.0)
		textQueries = append(textQueries, descMatch)

		// Fuzzy matching for typo tolerance on the business name
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("business_name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("business_name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Craft type filter
	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(t)
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	// Specialty filter (exact match, OR across tags)
	if len(params.Specialties) > 0 {
		specialtyQueries := make([]query.Query, len(params.Specialties))
		for i, tag := range params.Specialties {
			sq := bleve.NewTermQuery(tag)
			sq.SetField("specialties")
			specialtyQueries[i] = sq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(specialtyQueries...))
	}

	// City filter
	if params.City != "" {
		cq := bleve.NewTermQuery(params.City)
		cq.SetField("city")
		queries = append(queries, cq)
	}

	// Featured filter
	if params.FeaturedOnly {
		fq := bleve.NewBoolFieldQuery(true)
		fq.SetField("featured")
		queries = append(queries, fq)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "name":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-business_name"})
		} else {
			req.SortBy([]string{"business_name"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// addFacets configures facet requests.
func addFacets(req *bleve.SearchRequest, params SearchParams) {
	for _, field := range params.FacetFields {
		facetReq := bleve.NewFacetRequest(field, 20) // Top 20 values
		req.AddFacet(field, facetReq)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if typeFacet, ok := result.Facets["type"]; ok {
		for _, term := range typeFacet.Terms.Terms() {
			facets.Types = append(facets.Types, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if specialtyFacet, ok := result.Facets["specialties"]; ok {
		for _, term := range specialtyFacet.Terms.Terms() {
			facets.Specialties = append(facets.Specialties, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if cityFacet, ok := result.Facets["city"]; ok {
		for _, term := range cityFacet.Terms.Terms() {
			facets.Cities = append(facets.Cities, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
