package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londonmakers/makers-server/internal/domain"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	svc, err := NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_KeyValidation(t *testing.T) {
	tests := []struct {
		name   string
		keyHex string
	}{
		{"empty", ""},
		{"too short", "abcd"},
		{"too long", testKeyHex + "00"},
		{"not hex", strings.Repeat("zz", 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenService(tt.keyHex, time.Minute, time.Hour)
			assert.Error(t, err)
		})
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	user := &domain.User{
		Email: "ada@example.com",
		Role:  domain.RoleAdmin,
	}
	user.ID = "user-1"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t)

	user := &domain.User{Email: "ada@example.com"}
	user.ID = "user-1"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	otherKey := strings.Repeat("0", 64)
	other, err := NewTokenService(otherKey, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, -time.Minute, time.Hour)
	require.NoError(t, err)

	user := &domain.User{Email: "ada@example.com"}
	user.ID = "user-1"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	svc := newTestTokenService(t)

	first, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestHashRefreshToken(t *testing.T) {
	// Deterministic, and never stores the raw token.
	hash := HashRefreshToken("some-refresh-token")
	assert.Equal(t, hash, HashRefreshToken("some-refresh-token"))
	assert.NotEqual(t, hash, HashRefreshToken("other-token"))
	assert.NotContains(t, hash, "some-refresh-token")
	assert.Len(t, hash, 64)
}

func TestHashPassword_VerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadOrGenerateKey_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, first, 32)

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
