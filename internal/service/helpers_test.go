package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/londonmakers/makers-server/internal/auth"
	"github.com/londonmakers/makers-server/internal/domain"
	"github.com/londonmakers/makers-server/internal/id"
	"github.com/londonmakers/makers-server/internal/store"
)

const testTokenKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// newTestStore creates a temporary badger-backed store for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// newTestAuthService wires a full auth stack against a temporary store.
func newTestAuthService(t *testing.T, s *store.Store) *AuthService {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	tokenService, err := auth.NewTokenService(testTokenKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, logger)
	return NewAuthService(s, tokenService, sessionService, logger)
}

// createTestUser persists a user directly through the store.
func createTestUser(t *testing.T, s *store.Store, email string, role domain.Role) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword("test-password-123")
	require.NoError(t, err)

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  "Test User",
	}
	user.ID = id.MustGenerate("user")
	user.InitTimestamps()

	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// createTestArtist persists a minimal valid listing directly through the store.
func createTestArtist(t *testing.T, s *store.Store, businessName, ownerID string, featured bool) *domain.Artist {
	t.Helper()

	artist := &domain.Artist{
		OwnerID:      ownerID,
		BusinessName: businessName,
		Maker: domain.MakerInfo{
			Name:  "Maker Name",
			Email: "maker@example.com",
		},
		Type:        "ceramics",
		Description: "Handmade pieces.",
		Location: domain.Location{
			Street: "12 Brick Lane",
			City:   "London",
			Zip:    "E1 6QL",
		},
		Images: []domain.Image{
			{Key: "img-test", URL: "/images/img-test.jpg", BlurHash: "LEHV6nWB2yk8"},
		},
		Featured: featured,
	}
	artist.ID = id.MustGenerate("artist")
	artist.InitTimestamps()

	require.NoError(t, s.CreateArtist(context.Background(), artist))
	return artist
}

// validArtistRequest returns a request that passes all validation.
func validArtistRequest(businessName string) ArtistRequest {
	return ArtistRequest{
		BusinessName: businessName,
		Maker: domain.MakerInfo{
			Name:  "Sana Okafor",
			Email: "Sana@Example.com",
		},
		Type:        "ceramics",
		Description: "Slip-cast stoneware and one-off glazes.",
		Location: domain.Location{
			Street: "4 Columbia Road",
			City:   "London",
			Zip:    "E2 7RG",
		},
		Specialties: []string{"slip-casting", "glazing"},
		Images: []domain.Image{
			{Key: "img-abc", URL: "/images/img-abc.jpg"},
		},
	}
}
