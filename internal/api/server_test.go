package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londonmakers/makers-server/internal/auth"
	"github.com/londonmakers/makers-server/internal/media/images"
	"github.com/londonmakers/makers-server/internal/search"
	"github.com/londonmakers/makers-server/internal/service"
	"github.com/londonmakers/makers-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       string `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testServer bundles the server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer wires a full server against temp-dir storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: tmpDir,
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	storage, err := images.NewLocalStorage(filepath.Join(tmpDir, "images"), "/images")
	require.NoError(t, err)
	processor := images.NewProcessor(storage, logger)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	searchService := service.NewSearchService(index, st, logger)
	st.SetSearchIndexer(searchService)

	services := &Services{
		Auth:    authService,
		Session: sessionService,
		User:    service.NewUserService(st, logger),
		Artist:  service.NewArtistService(st, processor, logger),
		Search:  searchService,
		Images:  processor,
	}

	server := NewServer(st, services, logger)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.API()),
	}
}

// setupAdmin runs initial setup and returns the admin's access token and ID.
func (ts *testServer) setupAdmin(t *testing.T) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@example.com",
		"password":     "correct-horse-battery",
		"display_name": "Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// registerMember creates a member account and returns its access token and ID.
func (ts *testServer) registerMember(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "correct-horse-battery",
		"display_name": "Member",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	login := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
		"device_info": map[string]any{
			"device_type": "web",
			"platform":    "Web",
			"client_name": "test",
		},
	})
	require.Equal(t, http.StatusOK, login.Code, "Login failed: %s", login.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &envelope))

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// artistBody returns a valid create/update request body.
func artistBody(businessName string) map[string]any {
	return map[string]any{
		"business_name": businessName,
		"maker": map[string]any{
			"name":  "Sana Okafor",
			"email": "sana@example.com",
		},
		"type":        "Ceramics",
		"description": "Hand-thrown stoneware from a studio on Columbia Road.",
		"location": map[string]any{
			"street": "12 Columbia Road",
			"city":   "London",
			"zip":    "E2 7RG",
		},
		"images": []map[string]any{
			{"url": "/images/img-test.jpg"},
		},
	}
}

func (ts *testServer) createArtist(t *testing.T, token, businessName string) ArtistResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/artists",
		"Authorization: Bearer "+token,
		artistBody(businessName),
	)
	require.Equal(t, http.StatusOK, resp.Code, "Create failed: %s", resp.Body.String())

	var envelope testEnvelope[ArtistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, APIVersion, envelope.V)
	assert.True(t, envelope.Success)
	// Fresh index has no documents, so search reports degraded.
	assert.Equal(t, "degraded", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "degraded", envelope.Data.Components["search"].Status)
}

func TestSetup_SecondCallRejected(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "second@example.com",
		"password":     "correct-horse-battery",
		"display_name": "Second",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.setupAdmin(t)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "admin@example.com", envelope.Data.Email)
	assert.NotNil(t, envelope.Data.Bookmarks)
}

func TestGetCurrentUser_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestArtistCreate_AdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@example.com")

	resp := ts.api.Post("/api/v1/artists",
		"Authorization: Bearer "+memberToken,
		artistBody("Blocked Pottery"),
	)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestArtistLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, adminID := ts.setupAdmin(t)

	created := ts.createArtist(t, adminToken, "Marsh Pottery")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, adminID, created.OwnerID)

	// Public read, no token.
	get := ts.api.Get("/api/v1/artists/" + created.ID)
	require.Equal(t, http.StatusOK, get.Code)

	var fetched testEnvelope[ArtistResponse]
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &fetched))
	assert.Equal(t, "Marsh Pottery", fetched.Data.BusinessName)

	// Update.
	body := artistBody("Marsh Pottery")
	body["type"] = "Textiles"
	update := ts.api.Put("/api/v1/artists/"+created.ID,
		"Authorization: Bearer "+adminToken,
		body,
	)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	var updated testEnvelope[ArtistResponse]
	require.NoError(t, json.Unmarshal(update.Body.Bytes(), &updated))
	assert.Equal(t, "Textiles", updated.Data.Type)

	// Delete, then reads 404.
	del := ts.api.Delete("/api/v1/artists/"+created.ID, "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, del.Code)

	gone := ts.api.Get("/api/v1/artists/" + created.ID)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestArtistUpdate_MemberForbidden(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@example.com")

	created := ts.createArtist(t, adminToken, "Marsh Pottery")

	resp := ts.api.Put("/api/v1/artists/"+created.ID,
		"Authorization: Bearer "+memberToken,
		artistBody("Marsh Pottery"),
	)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestArtistGet_NotFoundEnvelope(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/artists/artist-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, APIVersion, envelope.V)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Error)
	assert.NotEmpty(t, envelope.Code)
}

func TestHomepage_FeaturedFirst(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)

	plain := ts.createArtist(t, adminToken, "Plain Pottery")
	featured := ts.createArtist(t, adminToken, "Featured Pottery")

	feature := ts.api.Put("/api/v1/artists/"+featured.ID+"/featured",
		"Authorization: Bearer "+adminToken,
		map[string]any{"featured": true},
	)
	require.Equal(t, http.StatusOK, feature.Code, feature.Body.String())

	resp := ts.api.Get("/api/v1/home")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HomepageResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Artists, 2)
	assert.Equal(t, featured.ID, envelope.Data.Artists[0].ID)
	assert.True(t, envelope.Data.Artists[0].Featured)
	assert.Equal(t, plain.ID, envelope.Data.Artists[1].ID)

	// Cards carry timestamps so clients can verify recency ordering.
	for _, card := range envelope.Data.Artists {
		assert.False(t, card.CreatedAt.IsZero(), "card %s missing created_at", card.ID)
		assert.False(t, card.UpdatedAt.IsZero(), "card %s missing updated_at", card.ID)
	}
}

func TestHomepage_LimitOutOfRangeRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/home?limit=999")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSetFeatured_MemberForbidden(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@example.com")

	created := ts.createArtist(t, adminToken, "Marsh Pottery")

	resp := ts.api.Put("/api/v1/artists/"+created.ID+"/featured",
		"Authorization: Bearer "+memberToken,
		map[string]any{"featured": true},
	)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestBookmarkToggle(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	memberToken, _ := ts.registerMember(t, "member@example.com")

	created := ts.createArtist(t, adminToken, "Marsh Pottery")

	// First toggle saves.
	first := ts.api.Post("/api/v1/artists/"+created.ID+"/bookmark",
		"Authorization: Bearer "+memberToken)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	var envelope testEnvelope[BookmarkResponse]
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Saved)
	assert.Equal(t, created.ID, envelope.Data.ArtistID)

	// Saved list reflects it.
	saved := ts.api.Get("/api/v1/users/me/saved", "Authorization: Bearer "+memberToken)
	require.Equal(t, http.StatusOK, saved.Code)

	var savedEnvelope testEnvelope[SavedArtistsResponse]
	require.NoError(t, json.Unmarshal(saved.Body.Bytes(), &savedEnvelope))
	require.Len(t, savedEnvelope.Data.Artists, 1)
	assert.Equal(t, created.ID, savedEnvelope.Data.Artists[0].ID)

	// Second toggle removes.
	second := ts.api.Post("/api/v1/artists/"+created.ID+"/bookmark",
		"Authorization: Bearer "+memberToken)
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Saved)
}

func TestBookmark_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)
	created := ts.createArtist(t, adminToken, "Marsh Pottery")

	resp := ts.api.Post("/api/v1/artists/" + created.ID + "/bookmark")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListArtists_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupAdmin(t)

	for _, name := range []string{"Alpha Pottery", "Beta Weaving", "Gamma Glass"} {
		ts.createArtist(t, adminToken, name)
	}

	resp := ts.api.Get("/api/v1/artists?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)

	var page testEnvelope[ArtistListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Len(t, page.Data.Artists, 2)
	assert.True(t, page.Data.HasMore)
	require.NotEmpty(t, page.Data.NextCursor)

	next := ts.api.Get("/api/v1/artists?limit=2&cursor=" + page.Data.NextCursor)
	require.Equal(t, http.StatusOK, next.Code)

	var rest testEnvelope[ArtistListResponse]
	require.NoError(t, json.Unmarshal(next.Body.Bytes(), &rest))
	assert.Len(t, rest.Data.Artists, 1)
	assert.False(t, rest.Data.HasMore)
}

func TestTokenRefreshFlow(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	login := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
		"device_info": map[string]any{
			"device_type": "web",
			"platform":    "Web",
		},
	})
	require.Equal(t, http.StatusOK, login.Code)

	var loginEnvelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginEnvelope))

	refresh := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": loginEnvelope.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refresh.Code, refresh.Body.String())

	var refreshEnvelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(refresh.Body.Bytes(), &refreshEnvelope))
	assert.NotEqual(t, loginEnvelope.Data.RefreshToken, refreshEnvelope.Data.RefreshToken)
	assert.Equal(t, loginEnvelope.Data.SessionID, refreshEnvelope.Data.SessionID)

	// Rotated-out token no longer works.
	reuse := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": loginEnvelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, reuse.Code)
}
