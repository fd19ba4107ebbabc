package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/londonmakers/makers-server/internal/domain"
)

const (
	userPrefix           = "user:"
	sessionPrefix        = "session:"
	sessionByUserPrefix  = "idx:sessions:user:"  // For listing user sessions
	sessionByTokenPrefix = "idx:sessions:token:" // For refresh token lookups
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when attempting to create a user with an email that's already in use.
	ErrEmailExists = errors.New("email already in use")
	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session expired")
)

// CreateUser creates a new user account.
// The email address must be unique (compared case-insensitively).
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	// Check the ID first so an ID collision isn't misreported as a
	// duplicate email.
	exists, err := s.exists([]byte(userPrefix + user.ID))
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Check soft delete
	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateUser updates an existing user.
// Email changes keep the unique index in sync; a change onto an address
// that is already in use fails with ErrEmailExists.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, ErrAlreadyExists):
			return ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// ListUsers returns all non-deleted users (for admin view).
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		if user.IsDeleted() {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// HasUsers reports whether any user record exists, deleted or not.
// Used to gate first-run setup.
func (s *Store) HasUsers(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(userPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		// Skip index keys sharing the prefix is unnecessary: user records
		// live under "user:" and indexes under "user:idx:", both count as
		// an existing account.
		found = it.Valid()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check users: %w", err)
	}

	return found, nil
}

// AddBookmark adds an artist ID to the user's bookmark set.
//
// The membership test and the write happen inside a single read-write
// transaction, so two racing toggles on the same user cannot interleave:
// badger detects the conflict and the loser's transaction fails.
//
// Returns true if the persisted set changed, false if the artist was
// already bookmarked. ErrUserNotFound if the user does not exist.
func (s *Store) AddBookmark(ctx context.Context, userID, artistID string) (bool, error) {
	return s.mutateBookmarks(ctx, userID, func(u *domain.User) bool {
		return u.AddBookmark(artistID)
	})
}

// RemoveBookmark removes an artist ID from the user's bookmark set.
// Returns true if the persisted set changed, false if the artist was not
// bookmarked. ErrUserNotFound if the user does not exist.
func (s *Store) RemoveBookmark(ctx context.Context, userID, artistID string) (bool, error) {
	return s.mutateBookmarks(ctx, userID, func(u *domain.User) bool {
		return u.RemoveBookmark(artistID)
	})
}

// mutateBookmarks loads the user, applies mutate, and writes the user back,
// all inside one transaction. The write is skipped when mutate reports no
// change, keeping no-op toggles cheap and conflict-free.
func (s *Store) mutateBookmarks(ctx context.Context, userID string, mutate func(*domain.User) bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := []byte(userPrefix + userID)
	changed := false

	err := s.db.Update(func(txn *badger.Txn) error {
		changed = false // Reset in case badger retries the closure

		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		var user domain.User
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		}); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}

		if user.IsDeleted() {
			return ErrUserNotFound
		}

		if !mutate(&user) {
			return nil
		}
		changed = true
		user.Touch()

		data, err := json.Marshal(&user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}
