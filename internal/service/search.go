package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/londonmakers/makers-server/internal/domain"
	"github.com/londonmakers/makers-server/internal/search"
	"github.com/londonmakers/makers-server/internal/store"
)

// SearchService bridges the directory store and the full-text index.
// It satisfies store.SearchIndexer, so listing writes keep the index in
// sync without the store importing bleve.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a query against the listing index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// SearchArtists runs a query and resolves the hits back to full listing
// summaries from the store. Hits whose listing has since been deleted are
// dropped; the index catches up on the next write or reindex.
func (s *SearchService) SearchArtists(ctx context.Context, params search.SearchParams) ([]domain.ArtistSummary, *search.SearchResult, error) {
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("search: %w", err)
	}

	if len(result.Hits) == 0 {
		return []domain.ArtistSummary{}, result, nil
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}

	artists, err := s.store.GetArtistsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve search hits: %w", err)
	}

	byID := make(map[string]*domain.Artist, len(artists))
	for _, a := range artists {
		byID[a.ID] = a
	}

	// Preserve relevance order from the index.
	summaries := make([]domain.ArtistSummary, 0, len(result.Hits))
	for _, hit := range result.Hits {
		a, ok := byID[hit.ID]
		if !ok {
			s.logger.Debug("search hit missing from store", "artist_id", hit.ID)
			continue
		}
		summaries = append(summaries, a.Summary())
	}

	return summaries, result, nil
}

// IndexArtist adds or updates a listing in the index.
// Implements store.SearchIndexer.
func (s *SearchService) IndexArtist(_ context.Context, artist *domain.Artist) error {
	doc := search.ArtistToDocument(artist)
	if err := s.index.IndexArtist(doc); err != nil {
		return fmt.Errorf("index artist: %w", err)
	}

	s.logger.Debug("indexed listing", "artist_id", artist.ID, "business_name", artist.BusinessName)
	return nil
}

// DeleteArtist removes a listing from the index.
// Implements store.SearchIndexer.
func (s *SearchService) DeleteArtist(_ context.Context, artistID string) error {
	if err := s.index.DeleteArtist(artistID); err != nil {
		return fmt.Errorf("delete from index: %w", err)
	}
	return nil
}

// DocumentCount returns the number of indexed listings.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll drops the index and rebuilds it from the store.
// Heavy; used at startup when the mapping version changes and by the
// admin reindex endpoint.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	docs := make([]*search.ArtistDocument, 0, 256)
	params := store.PaginationParams{Limit: 500}
	for {
		page, err := s.store.ListArtists(ctx, params)
		if err != nil {
			return fmt.Errorf("list artists: %w", err)
		}
		for _, artist := range page.Items {
			docs = append(docs, search.ArtistToDocument(artist))
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}

	if len(docs) > 0 {
		if err := s.index.IndexArtists(docs); err != nil {
			return fmt.Errorf("index artists: %w", err)
		}
	}

	s.logger.Info("full reindex complete", "documents", len(docs))
	return nil
}
