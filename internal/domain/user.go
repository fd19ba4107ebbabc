package domain

import (
	"slices"
	"time"
)

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access, including creating listings.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "user"
)

// User represents an authenticated user account in the system.
//
// Bookmarks is a duplicate-free set of artist IDs, ordered by insertion.
// Mutate it only through the store's atomic bookmark operations so
// concurrent toggles cannot corrupt the set.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsRoot       bool      `json:"is_root"`
	Role         Role      `json:"role"` // admin or user
	DisplayName  string    `json:"display_name"`
	LastLoginAt  time.Time `json:"last_login_at"`
	Bookmarks    []string  `json:"bookmarks,omitempty"` // saved artist IDs
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// CanManage returns true if the user may modify the given listing:
// admins manage everything, owners manage their own.
func (u *User) CanManage(a *Artist) bool {
	return u.IsAdmin() || a.IsOwnedBy(u.ID)
}

// HasBookmark returns true if the artist ID is in the user's bookmark set.
func (u *User) HasBookmark(artistID string) bool {
	return slices.Contains(u.Bookmarks, artistID)
}

// AddBookmark appends the artist ID to the bookmark set.
// Returns false if it was already present (the set is unchanged).
func (u *User) AddBookmark(artistID string) bool {
	if u.HasBookmark(artistID) {
		return false
	}
	u.Bookmarks = append(u.Bookmarks, artistID)
	return true
}

// RemoveBookmark deletes the artist ID from the bookmark set.
// Returns false if it was not present.
func (u *User) RemoveBookmark(artistID string) bool {
	idx := slices.Index(u.Bookmarks, artistID)
	if idx < 0 {
		return false
	}
	u.Bookmarks = slices.Delete(u.Bookmarks, idx, idx+1)
	return true
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
