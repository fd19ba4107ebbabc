package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londonmakers/makers-server/internal/domain"
)

func newTestUser(id, email string) *domain.User {
	user := &domain.User{
		Email:        email,
		PasswordHash: "hashed_password",
		DisplayName:  "Test User",
		Role:         domain.RoleMember,
	}
	user.ID = id
	user.InitTimestamps()
	return user
}

func TestCreateUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "test@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	retrieved, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, user.DisplayName, retrieved.DisplayName)
}

func TestCreateUser_DuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "first@example.com")))

	err := s.CreateUser(ctx, newTestUser("user-1", "second@example.com"))
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "test@example.com")))

	// Same email, different casing.
	err := s.CreateUser(ctx, newTestUser("user-2", "Test@Example.COM"))
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetUser_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetUser(context.Background(), "user-missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "test@example.com")))

	retrieved, err := s.GetUserByEmail(ctx, "TEST@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", retrieved.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "one@example.com")))
	require.NoError(t, s.CreateUser(ctx, newTestUser("user-2", "two@example.com")))

	u2, err := s.GetUser(ctx, "user-2")
	require.NoError(t, err)
	u2.Email = "ONE@example.com"
	assert.ErrorIs(t, s.UpdateUser(ctx, u2), ErrEmailExists)
}

func TestAddBookmark(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "test@example.com")))

	changed, err := s.AddBookmark(ctx, "user-1", "artist-1")
	require.NoError(t, err)
	assert.True(t, changed)

	// Re-adding is a no-op and reports no change.
	changed, err = s.AddBookmark(ctx, "user-1", "artist-1")
	require.NoError(t, err)
	assert.False(t, changed)

	user, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"artist-1"}, user.Bookmarks)
}

func TestRemoveBookmark(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "test@example.com")))

	_, err := s.AddBookmark(ctx, "user-1", "artist-1")
	require.NoError(t, err)

	changed, err := s.RemoveBookmark(ctx, "user-1", "artist-1")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.RemoveBookmark(ctx, "user-1", "artist-1")
	require.NoError(t, err)
	assert.False(t, changed)

	user, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, user.Bookmarks)
}

func TestBookmarks_MissingUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Bookmarking against a nonexistent user fails and creates nothing.
	_, err := s.AddBookmark(ctx, "user-ghost", "artist-1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.RemoveBookmark(ctx, "user-ghost", "artist-1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetUser(ctx, "user-ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBookmarks_ToggleTwiceRestoresState(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "test@example.com")))
	_, err := s.AddBookmark(ctx, "user-1", "artist-keep")
	require.NoError(t, err)

	before, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)

	_, err = s.AddBookmark(ctx, "user-1", "artist-flip")
	require.NoError(t, err)
	_, err = s.RemoveBookmark(ctx, "user-1", "artist-flip")
	require.NoError(t, err)

	after, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, before.Bookmarks, after.Bookmarks)
}

func TestListUsers_SkipsDeleted(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser("user-1", "one@example.com")))
	require.NoError(t, s.CreateUser(ctx, newTestUser("user-2", "two@example.com")))

	u2, err := s.GetUser(ctx, "user-2")
	require.NoError(t, err)
	u2.MarkDeleted()
	require.NoError(t, s.UpdateUser(ctx, u2))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user-1", users[0].ID)
}
