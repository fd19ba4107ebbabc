package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/londonmakers/makers-server/internal/domain"
)

const artistPrefix = "artist:"

var (
	// ErrArtistNotFound is returned when a listing cannot be found.
	ErrArtistNotFound = errors.New("artist not found")
	// ErrBusinessNameTaken is returned when a write would violate the
	// case-insensitive uniqueness of business names.
	ErrBusinessNameTaken = errors.New("business name already in use")
)

// CreateArtist creates a new listing.
// Fails with ErrBusinessNameTaken if another listing already holds the
// business name (compared case-insensitively) - never a silent overwrite.
func (s *Store) CreateArtist(ctx context.Context, artist *domain.Artist) error {
	if err := s.Artists.Create(ctx, artist.ID, artist); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrBusinessNameTaken
		}
		return fmt.Errorf("create artist: %w", err)
	}

	s.indexArtist(ctx, artist)
	return nil
}

// GetArtist retrieves a listing by ID.
func (s *Store) GetArtist(ctx context.Context, id string) (*domain.Artist, error) {
	artist, err := s.Artists.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}

	if artist.IsDeleted() {
		return nil, ErrArtistNotFound
	}

	return artist, nil
}

// GetArtistByBusinessName retrieves a listing by its business name,
// compared case-insensitively.
func (s *Store) GetArtistByBusinessName(ctx context.Context, name string) (*domain.Artist, error) {
	artist, err := s.Artists.GetByIndex(ctx, "business_name", name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("lookup artist by business name: %w", err)
	}

	if artist.IsDeleted() {
		return nil, ErrArtistNotFound
	}

	return artist, nil
}

// GetArtistsByIDs resolves a batch of listing IDs, preserving input order.
// IDs that no longer resolve (deleted listings still referenced by a
// user's bookmarks) are silently skipped.
func (s *Store) GetArtistsByIDs(ctx context.Context, ids []string) ([]*domain.Artist, error) {
	artists := make([]*domain.Artist, 0, len(ids))
	for _, id := range ids {
		artist, err := s.GetArtist(ctx, id)
		if err != nil {
			if errors.Is(err, ErrArtistNotFound) {
				continue
			}
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, nil
}

// UpdateArtist updates an existing listing.
// Renames re-check business name uniqueness inside the same transaction.
func (s *Store) UpdateArtist(ctx context.Context, artist *domain.Artist) error {
	artist.Touch()

	if err := s.Artists.Update(ctx, artist.ID, artist); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return ErrArtistNotFound
		case errors.Is(err, ErrAlreadyExists):
			return ErrBusinessNameTaken
		}
		return fmt.Errorf("update artist: %w", err)
	}

	s.indexArtist(ctx, artist)
	return nil
}

// DeleteArtist removes a listing and its indexes. Idempotent.
// Bookmarks pointing at the deleted listing are left in place; readers
// resolve them through GetArtistsByIDs which skips missing IDs.
func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	if err := s.Artists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteArtist(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove artist from search index", "artist_id", id, "error", err)
		}
	}
	return nil
}

// ListArtists returns a page of listings ordered by key.
// The cursor is the last key of the previous page.
func (s *Store) ListArtists(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Artist], error) {
	params.Validate()

	afterKey, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	result := &PaginatedResult[*domain.Artist]{
		Items: make([]*domain.Artist, 0, params.Limit),
	}

	var lastKey string
	for artist, err := range s.Artists.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list artists: %w", err)
		}
		if artist.IsDeleted() {
			continue
		}

		key := artistPrefix + artist.ID
		if afterKey != "" && key <= afterKey {
			continue
		}

		if len(result.Items) == params.Limit {
			result.HasMore = true
			result.NextCursor = EncodeCursor(lastKey)
			break
		}

		result.Items = append(result.Items, artist)
		lastKey = key
	}

	return result, nil
}

// ListArtistsByOwner returns all listings owned by the given user,
// newest first.
func (s *Store) ListArtistsByOwner(ctx context.Context, ownerID string) ([]*domain.Artist, error) {
	var artists []*domain.Artist
	for artist, err := range s.Artists.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list artists by owner: %w", err)
		}
		if artist.IsDeleted() || artist.OwnerID != ownerID {
			continue
		}
		artists = append(artists, artist)
	}
	sortNewestFirst(artists)
	return artists, nil
}

// ListFeaturedArtists returns up to limit featured listings, newest first.
func (s *Store) ListFeaturedArtists(ctx context.Context, limit int) ([]*domain.Artist, error) {
	return s.listSorted(ctx, limit, func(a *domain.Artist) bool { return a.Featured })
}

// ListRecentArtists returns up to limit listings, newest first.
func (s *Store) ListRecentArtists(ctx context.Context, limit int) ([]*domain.Artist, error) {
	return s.listSorted(ctx, limit, func(*domain.Artist) bool { return true })
}

// listSorted collects matching listings, sorts them newest first, and
// caps the result at limit.
func (s *Store) listSorted(ctx context.Context, limit int, match func(*domain.Artist) bool) ([]*domain.Artist, error) {
	if limit <= 0 {
		return []*domain.Artist{}, nil
	}

	var artists []*domain.Artist
	for artist, err := range s.Artists.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list artists: %w", err)
		}
		if artist.IsDeleted() || !match(artist) {
			continue
		}
		artists = append(artists, artist)
	}

	sortNewestFirst(artists)
	if len(artists) > limit {
		artists = artists[:limit]
	}
	return artists, nil
}

// sortNewestFirst orders listings by CreatedAt descending, breaking ties
// by ID so the order is stable across calls.
func sortNewestFirst(artists []*domain.Artist) {
	slices.SortFunc(artists, func(a, b *domain.Artist) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// indexArtist pushes a listing into the search index, logging failures.
// Search staleness is never worth failing a write over.
func (s *Store) indexArtist(ctx context.Context, artist *domain.Artist) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexArtist(ctx, artist); err != nil && s.logger != nil {
		s.logger.Warn("failed to index artist for search", "artist_id", artist.ID, "error", err)
	}
}
