package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/londonmakers/makers-server/internal/domain"
	domainerrors "github.com/londonmakers/makers-server/internal/errors"
	"github.com/londonmakers/makers-server/internal/id"
	"github.com/londonmakers/makers-server/internal/media/images"
	"github.com/londonmakers/makers-server/internal/normalize"
	"github.com/londonmakers/makers-server/internal/richtext"
	"github.com/londonmakers/makers-server/internal/store"
)

// DefaultHomepageLimit is how many cards the homepage shows when the
// client doesn't ask for a specific count.
const DefaultHomepageLimit = 3

// MaxHomepageLimit caps how many cards a single homepage request may ask for.
const MaxHomepageLimit = 24

// ArtistService manages maker listings: homepage selection, CRUD with
// role-gated writes, and image cleanup on delete.
type ArtistService struct {
	store     *store.Store
	processor *images.Processor
	logger    *slog.Logger
}

// NewArtistService creates a new artist service.
func NewArtistService(store *store.Store, processor *images.Processor, logger *slog.Logger) *ArtistService {
	return &ArtistService{
		store:     store,
		processor: processor,
		logger:    logger,
	}
}

// ArtistRequest carries the writable fields of a listing.
// Used by both create and update; the full document is replaced on update.
type ArtistRequest struct {
	BusinessName   string         `json:"business_name" validate:"required,max=200"`
	Maker          domain.MakerInfo `json:"maker"`
	Type           string         `json:"type" validate:"required,max=100"`
	Description    string         `json:"description" validate:"required"`
	Location       domain.Location `json:"location"`
	Employees      int            `json:"employees" validate:"gte=0"`
	PhysicalStores int            `json:"physical_stores" validate:"gte=0"`
	Socials        domain.Socials `json:"socials"`
	Rates          []domain.Rate  `json:"rates"`
	Specialties    []string       `json:"specialties"`
	Images         []domain.Image `json:"images" validate:"required,min=1"`
}

// validateArtistRequest checks the nested required fields the validator
// tags can't reach cleanly.
func validateArtistRequest(req ArtistRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	switch {
	case req.Maker.Name == "":
		return domainerrors.Validation("maker.name is required")
	case req.Maker.Email == "":
		return domainerrors.Validation("maker.email is required")
	case req.Location.Street == "":
		return domainerrors.Validation("location.street is required")
	case req.Location.City == "":
		return domainerrors.Validation("location.city is required")
	case req.Location.Zip == "":
		return domainerrors.Validation("location.zip is required")
	}

	return nil
}

// GetHomepageArtists returns up to limit listing summaries for the homepage.
//
// Selection order: featured listings newest-first, then the newest
// non-featured recents filling any remaining slots. Duplicates are removed
// by ID with the first occurrence winning, so a featured listing never
// reappears in the recents tail.
//
// This surface fails open: a store error is logged and yields an empty
// slice rather than breaking the homepage.
func (s *ArtistService) GetHomepageArtists(ctx context.Context, limit int) []domain.ArtistSummary {
	if limit <= 0 {
		limit = DefaultHomepageLimit
	}
	if limit > MaxHomepageLimit {
		limit = MaxHomepageLimit
	}

	featured, err := s.store.ListFeaturedArtists(ctx, limit)
	if err != nil {
		s.logger.Error("homepage selection failed", "stage", "featured", "error", err)
		return []domain.ArtistSummary{}
	}

	selected := featured
	if remaining := limit - len(featured); remaining > 0 {
		// Over-fetch recents by the featured count so dedup can't leave
		// the page short while more listings exist.
		recent, err := s.store.ListRecentArtists(ctx, limit+len(featured))
		if err != nil {
			s.logger.Error("homepage selection failed", "stage", "recent", "error", err)
			return []domain.ArtistSummary{}
		}

		seen := make(map[string]bool, len(featured))
		for _, a := range featured {
			seen[a.ID] = true
		}
		for _, a := range recent {
			if len(selected) == limit {
				break
			}
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			selected = append(selected, a)
		}
	}

	if len(selected) > limit {
		selected = selected[:limit]
	}

	return domain.SummarizeArtists(selected)
}

// GetArtist retrieves a single listing. Public.
func (s *ArtistService) GetArtist(ctx context.Context, artistID string) (*domain.Artist, error) {
	artist, err := s.store.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, store.ErrArtistNotFound) {
			return nil, domainerrors.NotFound("artist not found")
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

// ListArtists returns a page of listings. Public.
func (s *ArtistService) ListArtists(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Artist], error) {
	result, err := s.store.ListArtists(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return result, nil
}

// ListOwnArtists returns the listings owned by the given user, newest first.
func (s *ArtistService) ListOwnArtists(ctx context.Context, userID string) ([]*domain.Artist, error) {
	artists, err := s.store.ListArtistsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own artists: %w", err)
	}
	return artists, nil
}

// CreateArtist creates a new listing. Admin only.
// Descriptions submitted as HTML are converted to markdown before storage.
func (s *ArtistService) CreateArtist(ctx context.Context, actor *domain.User, req ArtistRequest) (*domain.Artist, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins may create listings")
	}

	if err := validateArtistRequest(req); err != nil {
		return nil, err
	}

	artistID, err := id.Generate("artist")
	if err != nil {
		return nil, fmt.Errorf("generate artist ID: %w", err)
	}

	artist := &domain.Artist{
		OwnerID: actor.ID,
	}
	artist.ID = artistID
	artist.InitTimestamps()
	applyArtistRequest(artist, req)

	if err := s.store.CreateArtist(ctx, artist); err != nil {
		if errors.Is(err, store.ErrBusinessNameTaken) {
			return nil, domainerrors.Conflict("business name already in use")
		}
		return nil, fmt.Errorf("create artist: %w", err)
	}

	s.logger.Info("listing created",
		"artist_id", artist.ID,
		"business_name", artist.BusinessName,
		"owner_id", actor.ID,
	)

	return artist, nil
}

// UpdateArtist replaces the writable fields of a listing. Owner or admin.
func (s *ArtistService) UpdateArtist(ctx context.Context, actor *domain.User, artistID string, req ArtistRequest) (*domain.Artist, error) {
	artist, err := s.store.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, store.ErrArtistNotFound) {
			return nil, domainerrors.NotFound("artist not found")
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}

	if !actor.CanManage(artist) {
		return nil, domainerrors.Forbidden("you may not modify this listing")
	}

	if err := validateArtistRequest(req); err != nil {
		return nil, err
	}

	applyArtistRequest(artist, req)

	if err := s.store.UpdateArtist(ctx, artist); err != nil {
		if errors.Is(err, store.ErrBusinessNameTaken) {
			return nil, domainerrors.Conflict("business name already in use")
		}
		return nil, fmt.Errorf("update artist: %w", err)
	}

	s.logger.Info("listing updated", "artist_id", artist.ID, "actor_id", actor.ID)

	return artist, nil
}

// SetFeatured toggles the homepage featured flag. Admin only.
func (s *ArtistService) SetFeatured(ctx context.Context, actor *domain.User, artistID string, featured bool) (*domain.Artist, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins may feature listings")
	}

	artist, err := s.store.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, store.ErrArtistNotFound) {
			return nil, domainerrors.NotFound("artist not found")
		}
		return nil, fmt.Errorf("get artist: %w", err)
	}

	artist.Featured = featured
	if err := s.store.UpdateArtist(ctx, artist); err != nil {
		return nil, fmt.Errorf("update artist: %w", err)
	}

	return artist, nil
}

// DeleteArtist removes a listing. Owner or admin.
// Stored images are cleaned up best-effort; bookmarks pointing at the
// listing are left dangling and skipped on read.
func (s *ArtistService) DeleteArtist(ctx context.Context, actor *domain.User, artistID string) error {
	artist, err := s.store.GetArtist(ctx, artistID)
	if err != nil {
		if errors.Is(err, store.ErrArtistNotFound) {
			return domainerrors.NotFound("artist not found")
		}
		return fmt.Errorf("get artist: %w", err)
	}

	if !actor.CanManage(artist) {
		return domainerrors.Forbidden("you may not delete this listing")
	}

	if err := s.store.DeleteArtist(ctx, artistID); err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}

	// Image cleanup after the record is gone; a leaked blob beats a
	// listing that points at deleted images.
	if s.processor != nil {
		for _, img := range artist.Images {
			if img.Key == "" {
				continue
			}
			if err := s.processor.Delete(ctx, img.Key); err != nil {
				s.logger.Warn("failed to delete listing image",
					"artist_id", artistID,
					"key", img.Key,
					"error", err,
				)
			}
		}
	}

	s.logger.Info("listing deleted", "artist_id", artistID, "actor_id", actor.ID)

	return nil
}

// applyArtistRequest copies request fields onto the listing, normalizing
// as it goes.
func applyArtistRequest(artist *domain.Artist, req ArtistRequest) {
	artist.BusinessName = req.BusinessName
	artist.Maker = req.Maker
	artist.Maker.Email = normalize.Email(req.Maker.Email)
	artist.Type = req.Type
	artist.Description = richtext.ToMarkdown(req.Description)
	artist.Location = req.Location
	artist.Employees = req.Employees
	artist.PhysicalStores = req.PhysicalStores
	artist.Socials = req.Socials
	artist.Rates = req.Rates
	artist.Specialties = normalize.Specialties(req.Specialties)
	artist.Images = req.Images
}
