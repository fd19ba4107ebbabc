package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londonmakers/makers-server/internal/domain"
)

func newTestSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(24 * time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
		Platform:         "Web",
		ClientName:       "London Makers Web",
	}
}

func TestCreateSession_And_Get(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := newTestSession("session-1", "user-1", "tokenhash-1")
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "tokenhash-1", got.RefreshTokenHash)
}

func TestGetSession_Expired(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := newTestSession("session-1", "user-1", "tokenhash-1")
	session.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.CreateSession(ctx, session))

	_, err := s.GetSession(ctx, "session-1")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetSessionByRefreshToken(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newTestSession("session-1", "user-1", "tokenhash-1")))

	got, err := s.GetSessionByRefreshToken(ctx, "tokenhash-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.ID)

	_, err = s.GetSessionByRefreshToken(ctx, "tokenhash-unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateSession_TokenRotation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	session := newTestSession("session-1", "user-1", "tokenhash-old")
	require.NoError(t, s.CreateSession(ctx, session))

	session.RefreshTokenHash = "tokenhash-new"
	session.Touch()
	require.NoError(t, s.UpdateSession(ctx, session))

	// New token resolves, old one no longer does.
	got, err := s.GetSessionByRefreshToken(ctx, "tokenhash-new")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.ID)

	_, err = s.GetSessionByRefreshToken(ctx, "tokenhash-old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newTestSession("session-1", "user-1", "tokenhash-1")))
	require.NoError(t, s.DeleteSession(ctx, "session-1"))

	_, err := s.GetSession(ctx, "session-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.GetSessionByRefreshToken(ctx, "tokenhash-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Idempotent.
	assert.NoError(t, s.DeleteSession(ctx, "session-1"))
}

func TestListUserSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newTestSession("session-1", "user-1", "tokenhash-1")))
	require.NoError(t, s.CreateSession(ctx, newTestSession("session-2", "user-1", "tokenhash-2")))
	require.NoError(t, s.CreateSession(ctx, newTestSession("session-3", "user-2", "tokenhash-3")))

	expired := newTestSession("session-4", "user-1", "tokenhash-4")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.CreateSession(ctx, expired))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newTestSession("session-1", "user-1", "tokenhash-1")))
	require.NoError(t, s.CreateSession(ctx, newTestSession("session-2", "user-1", "tokenhash-2")))
	require.NoError(t, s.CreateSession(ctx, newTestSession("session-3", "user-2", "tokenhash-3")))

	require.NoError(t, s.DeleteAllUserSessions(ctx, "user-1"))

	sessions, err := s.ListUserSessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// Other users keep their sessions.
	sessions, err = s.ListUserSessions(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSession(ctx, newTestSession("session-1", "user-1", "tokenhash-1")))

	expired := newTestSession("session-2", "user-1", "tokenhash-2")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.CreateSession(ctx, expired))

	deleted, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = s.GetSession(ctx, "session-1")
	assert.NoError(t, err)
}
