package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/londonmakers/makers-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Updates the authenticated user's display name",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSavedArtists",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/saved",
		Summary:     "List saved artists",
		Description: "Returns the authenticated user's bookmarked listings in the order they were saved",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSavedArtists)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/sessions",
		Summary:     "List sessions",
		Description: "Returns the authenticated user's active sessions",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me/sessions/{id}",
		Summary:     "Revoke session",
		Description: "Revokes one of the authenticated user's sessions",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSession)
}

// === DTOs ===

// AuthedInput is the common input for endpoints that only need auth.
type AuthedInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" minLength:"1" maxLength:"100" doc:"New display name"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// SavedArtistsResponse contains the user's bookmarked listings.
type SavedArtistsResponse struct {
	Artists []ArtistSummaryResponse `json:"artists" doc:"Saved listings in save order"`
}

// SavedArtistsOutput wraps the saved listings response for Huma.
type SavedArtistsOutput struct {
	Body SavedArtistsResponse
}

// SessionResponse describes one active session.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	DeviceType string    `json:"device_type,omitempty" doc:"Device type"`
	Platform   string    `json:"platform,omitempty" doc:"Platform"`
	DeviceName string    `json:"device_name,omitempty" doc:"Device name"`
	ClientName string    `json:"client_name,omitempty" doc:"Client name"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Last known IP"`
	CreatedAt  time.Time `json:"created_at" doc:"When the session was created"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last activity"`
	ExpiresAt  time.Time `json:"expires_at" doc:"When the refresh token expires"`
}

// SessionsResponse contains the session list.
type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions" doc:"Active sessions"`
}

// SessionsOutput wraps the session list for Huma.
type SessionsOutput struct {
	Body SessionsResponse
}

// DeleteSessionInput identifies the session to revoke.
type DeleteSessionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Session ID"`
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *AuthedInput) (*UserOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, input.Body.DisplayName)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleListSavedArtists(ctx context.Context, _ *AuthedInput) (*SavedArtistsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.services.User.ListSavedArtists(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SavedArtistsOutput{
		Body: SavedArtistsResponse{
			Artists: mapArtistSummaries(saved),
		},
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, _ *AuthedInput) (*SessionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Session.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := SessionsResponse{Sessions: make([]SessionResponse, 0, len(sessions))}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, mapSessionResponse(session))
	}
	return &SessionsOutput{Body: resp}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *DeleteSessionInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Only the session's owner may revoke it.
	sessions, err := s.services.Session.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := false
	for _, session := range sessions {
		if session.ID == input.ID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, huma.Error404NotFound("Session not found")
	}

	if err := s.services.Session.DeleteSession(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Session revoked"}}, nil
}

func mapSessionResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		ID:         session.ID,
		DeviceType: session.DeviceType,
		Platform:   session.Platform,
		DeviceName: session.DeviceName,
		ClientName: session.ClientName,
		IPAddress:  session.IPAddress,
		CreatedAt:  session.CreatedAt,
		LastSeenAt: session.LastSeenAt,
		ExpiresAt:  session.ExpiresAt,
	}
}
