package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/londonmakers/makers-server/internal/domain"
	domainerrors "github.com/londonmakers/makers-server/internal/errors"
	"github.com/londonmakers/makers-server/internal/store"
)

// UserService handles account-level operations: profile reads and the
// saved-listings (bookmark) set.
type UserService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ToggleBookmark flips whether the artist is in the user's saved set and
// returns the new membership.
//
// The direction of the toggle is decided here from the persisted set, never
// taken from the client: a stale client toggling twice lands back where it
// started instead of corrupting the set. A missing user is an error — the
// toggle never creates account records.
func (s *UserService) ToggleBookmark(ctx context.Context, userID, artistID string) (bool, error) {
	if artistID == "" {
		return false, domainerrors.Validation("artist ID is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, domainerrors.NotFound("user not found")
		}
		return false, fmt.Errorf("get user: %w", err)
	}

	// The store mutation re-checks membership inside its own transaction,
	// so this read only picks the direction.
	if user.HasBookmark(artistID) {
		changed, err := s.store.RemoveBookmark(ctx, userID, artistID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return false, domainerrors.NotFound("user not found")
			}
			return false, fmt.Errorf("remove bookmark: %w", err)
		}
		if !changed {
			// A concurrent toggle got there first. The set is still
			// consistent; report what it now holds.
			s.logger.Debug("bookmark removal raced", "user_id", userID, "artist_id", artistID)
		}
		return false, nil
	}

	changed, err := s.store.AddBookmark(ctx, userID, artistID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, domainerrors.NotFound("user not found")
		}
		return false, fmt.Errorf("add bookmark: %w", err)
	}
	if !changed {
		s.logger.Debug("bookmark addition raced", "user_id", userID, "artist_id", artistID)
	}
	return true, nil
}

// ListSavedArtists returns summaries of the user's bookmarked listings in
// insertion order. Bookmarks pointing at deleted listings are skipped.
func (s *UserService) ListSavedArtists(ctx context.Context, userID string) ([]domain.ArtistSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if len(user.Bookmarks) == 0 {
		return []domain.ArtistSummary{}, nil
	}

	artists, err := s.store.GetArtistsByIDs(ctx, user.Bookmarks)
	if err != nil {
		return nil, fmt.Errorf("load bookmarked artists: %w", err)
	}

	if dangling := len(user.Bookmarks) - len(artists); dangling > 0 {
		s.logger.Debug("skipped dangling bookmarks", "user_id", userID, "count", dangling)
	}

	return domain.SummarizeArtists(artists), nil
}

// UpdateProfile changes the user's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName string) (*domain.User, error) {
	if displayName == "" {
		return nil, domainerrors.Validation("display_name is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.DisplayName = displayName
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}
