package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/londonmakers/makers-server/internal/domain"
	"github.com/londonmakers/makers-server/internal/service"
	"github.com/londonmakers/makers-server/internal/store"
)

func (s *Server) registerArtistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHomepage",
		Method:      http.MethodGet,
		Path:        "/api/v1/home",
		Summary:     "Homepage artists",
		Description: "Returns featured listings first, then the most recent listings, deduplicated and capped at the requested limit",
		Tags:        []string{"Artists"},
	}, s.handleGetHomepage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listArtists",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists",
		Summary:     "List artists",
		Description: "Returns a paginated list of maker listings",
		Tags:        []string{"Artists"},
	}, s.handleListArtists)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOwnArtists",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists/mine",
		Summary:     "List own artists",
		Description: "Returns the authenticated user's listings, newest first",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOwnArtists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArtist",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists/{id}",
		Summary:     "Get artist",
		Description: "Returns a single maker listing",
		Tags:        []string{"Artists"},
	}, s.handleGetArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "createArtist",
		Method:      http.MethodPost,
		Path:        "/api/v1/artists",
		Summary:     "Create artist",
		Description: "Creates a new maker listing. Admin only.",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArtist",
		Method:      http.MethodPut,
		Path:        "/api/v1/artists/{id}",
		Summary:     "Update artist",
		Description: "Replaces a listing's editable fields. Owner or admin.",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteArtist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/artists/{id}",
		Summary:     "Delete artist",
		Description: "Removes a listing and its stored images. Owner or admin.",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "setArtistFeatured",
		Method:      http.MethodPut,
		Path:        "/api/v1/artists/{id}/featured",
		Summary:     "Feature artist",
		Description: "Sets whether the listing appears in the homepage featured slots. Admin only.",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetArtistFeatured)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/artists/{id}/bookmark",
		Summary:     "Toggle bookmark",
		Description: "Flips whether the listing is in the caller's saved set. The server decides the direction from its own state.",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleBookmark)
}

// === DTOs ===

// HomepageInput contains homepage query parameters.
type HomepageInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"24" doc:"Max listings to return (default 3)"`
}

// ArtistSummaryResponse is the card-sized listing projection.
type ArtistSummaryResponse struct {
	ID           string         `json:"id" doc:"Listing ID"`
	BusinessName string         `json:"business_name" doc:"Business name"`
	MakerName    string         `json:"maker_name" doc:"Maker's name"`
	Type         string         `json:"type" doc:"Craft type"`
	Images       []domain.Image `json:"images" doc:"Listing photos"`
	Featured     bool           `json:"featured" doc:"Whether the listing is featured"`
	CreatedAt    time.Time      `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time      `json:"updated_at" doc:"Last update timestamp"`
}

// HomepageResponse contains the homepage selection.
type HomepageResponse struct {
	Artists []ArtistSummaryResponse `json:"artists" doc:"Featured-first listing cards"`
}

// HomepageOutput wraps the homepage response for Huma.
type HomepageOutput struct {
	Body HomepageResponse
}

// ListArtistsInput contains pagination parameters.
type ListArtistsInput struct {
	Limit  int    `query:"limit" minimum:"1" maximum:"1000" doc:"Page size (default 100)"`
	Cursor string `query:"cursor" maxLength:"500" doc:"Opaque cursor from the previous page"`
}

// ArtistResponse is the full listing representation.
type ArtistResponse struct {
	ID             string           `json:"id" doc:"Listing ID"`
	OwnerID        string           `json:"owner_id" doc:"Owning user ID"`
	BusinessName   string           `json:"business_name" doc:"Business name"`
	Maker          domain.MakerInfo `json:"maker" doc:"Maker contact details"`
	Type           string           `json:"type" doc:"Craft type"`
	Description    string           `json:"description" doc:"Description (markdown)"`
	Location       domain.Location  `json:"location" doc:"Physical address"`
	Employees      int              `json:"employees,omitempty" doc:"Employee count"`
	PhysicalStores int              `json:"physical_stores,omitempty" doc:"Physical store count"`
	Socials        domain.Socials   `json:"socials" doc:"Social media handles"`
	Rates          []domain.Rate    `json:"rates,omitempty" doc:"Advertised rates"`
	Specialties    []string         `json:"specialties,omitempty" doc:"Specialty tags"`
	Images         []domain.Image   `json:"images" doc:"Listing photos"`
	Featured       bool             `json:"featured" doc:"Whether the listing is featured"`
	CreatedAt      time.Time        `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time        `json:"updated_at" doc:"Last update timestamp"`
}

// ArtistOutput wraps a single listing for Huma.
type ArtistOutput struct {
	Body ArtistResponse
}

// ArtistListResponse is a page of listings.
type ArtistListResponse struct {
	Artists    []ArtistResponse `json:"artists" doc:"Listings in this page"`
	NextCursor string           `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool             `json:"has_more" doc:"Whether more pages exist"`
}

// ArtistListOutput wraps a listing page for Huma.
type ArtistListOutput struct {
	Body ArtistListResponse
}

// GetArtistInput identifies a listing.
type GetArtistInput struct {
	ID string `path:"id" doc:"Listing ID"`
}

// ArtistRequest carries the writable fields of a listing.
type ArtistRequest struct {
	BusinessName   string           `json:"business_name" maxLength:"200" doc:"Business name (unique, case-insensitive)"`
	Maker          domain.MakerInfo `json:"maker" doc:"Maker contact details (name and email required)"`
	Type           string           `json:"type" maxLength:"100" doc:"Craft type"`
	Description    string           `json:"description" doc:"Description; HTML is converted to markdown"`
	Location       domain.Location  `json:"location" doc:"Physical address (street, city, zip required)"`
	Employees      int              `json:"employees,omitempty" minimum:"0" doc:"Employee count"`
	PhysicalStores int              `json:"physical_stores,omitempty" minimum:"0" doc:"Physical store count"`
	Socials        domain.Socials   `json:"socials,omitempty" doc:"Social media handles"`
	Rates          []domain.Rate    `json:"rates,omitempty" doc:"Advertised rates"`
	Specialties    []string         `json:"specialties,omitempty" doc:"Specialty tags"`
	Images         []domain.Image   `json:"images" minItems:"1" doc:"Listing photos (at least one)"`
}

// CreateArtistInput wraps the create request for Huma.
type CreateArtistInput struct {
	Authorization string `header:"Authorization"`
	Body          ArtistRequest
}

// UpdateArtistInput wraps the update request for Huma.
type UpdateArtistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Listing ID"`
	Body          ArtistRequest
}

// DeleteArtistInput identifies the listing to delete.
type DeleteArtistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Listing ID"`
}

// SetFeaturedInput wraps the featured toggle for Huma.
type SetFeaturedInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Listing ID"`
	Body          struct {
		Featured bool `json:"featured" doc:"Whether the listing is featured"`
	}
}

// BookmarkInput identifies the listing to toggle.
type BookmarkInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Listing ID"`
}

// BookmarkResponse reports the saved-set membership after the toggle.
type BookmarkResponse struct {
	ArtistID string `json:"artist_id" doc:"Listing ID"`
	Saved    bool   `json:"saved" doc:"Whether the listing is now in the saved set"`
}

// BookmarkOutput wraps the bookmark response for Huma.
type BookmarkOutput struct {
	Body BookmarkResponse
}

// === Handlers ===

func (s *Server) handleGetHomepage(ctx context.Context, input *HomepageInput) (*HomepageOutput, error) {
	artists := s.services.Artist.GetHomepageArtists(ctx, input.Limit)

	return &HomepageOutput{
		Body: HomepageResponse{
			Artists: mapArtistSummaries(artists),
		},
	}, nil
}

func (s *Server) handleListArtists(ctx context.Context, input *ListArtistsInput) (*ArtistListOutput, error) {
	result, err := s.services.Artist.ListArtists(ctx, store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, err
	}

	resp := ArtistListResponse{
		Artists:    make([]ArtistResponse, 0, len(result.Items)),
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}
	for _, artist := range result.Items {
		resp.Artists = append(resp.Artists, mapArtistResponse(artist))
	}

	return &ArtistListOutput{Body: resp}, nil
}

func (s *Server) handleListOwnArtists(ctx context.Context, _ *AuthedInput) (*ArtistListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	artists, err := s.services.Artist.ListOwnArtists(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ArtistListResponse{Artists: make([]ArtistResponse, 0, len(artists))}
	for _, artist := range artists {
		resp.Artists = append(resp.Artists, mapArtistResponse(artist))
	}

	return &ArtistListOutput{Body: resp}, nil
}

func (s *Server) handleGetArtist(ctx context.Context, input *GetArtistInput) (*ArtistOutput, error) {
	artist, err := s.services.Artist.GetArtist(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ArtistOutput{Body: mapArtistResponse(artist)}, nil
}

func (s *Server) handleCreateArtist(ctx context.Context, input *CreateArtistInput) (*ArtistOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	artist, err := s.services.Artist.CreateArtist(ctx, user, mapArtistRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &ArtistOutput{Body: mapArtistResponse(artist)}, nil
}

func (s *Server) handleUpdateArtist(ctx context.Context, input *UpdateArtistInput) (*ArtistOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	artist, err := s.services.Artist.UpdateArtist(ctx, user, input.ID, mapArtistRequest(input.Body))
	if err != nil {
		return nil, err
	}

	return &ArtistOutput{Body: mapArtistResponse(artist)}, nil
}

func (s *Server) handleDeleteArtist(ctx context.Context, input *DeleteArtistInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Artist.DeleteArtist(ctx, user, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Listing deleted"}}, nil
}

func (s *Server) handleSetArtistFeatured(ctx context.Context, input *SetFeaturedInput) (*ArtistOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	artist, err := s.services.Artist.SetFeatured(ctx, user, input.ID, input.Body.Featured)
	if err != nil {
		return nil, err
	}

	return &ArtistOutput{Body: mapArtistResponse(artist)}, nil
}

func (s *Server) handleToggleBookmark(ctx context.Context, input *BookmarkInput) (*BookmarkOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.services.User.ToggleBookmark(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookmarkOutput{
		Body: BookmarkResponse{
			ArtistID: input.ID,
			Saved:    saved,
		},
	}, nil
}

// === Helpers ===

func mapArtistSummaries(summaries []domain.ArtistSummary) []ArtistSummaryResponse {
	out := make([]ArtistSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, ArtistSummaryResponse{
			ID:           summary.ID,
			BusinessName: summary.BusinessName,
			MakerName:    summary.MakerName,
			Type:         summary.Type,
			Images:       summary.Images,
			Featured:     summary.Featured,
			CreatedAt:    summary.CreatedAt,
			UpdatedAt:    summary.UpdatedAt,
		})
	}
	return out
}

func mapArtistResponse(artist *domain.Artist) ArtistResponse {
	return ArtistResponse{
		ID:             artist.ID,
		OwnerID:        artist.OwnerID,
		BusinessName:   artist.BusinessName,
		Maker:          artist.Maker,
		Type:           artist.Type,
		Description:    artist.Description,
		Location:       artist.Location,
		Employees:      artist.Employees,
		PhysicalStores: artist.PhysicalStores,
		Socials:        artist.Socials,
		Rates:          artist.Rates,
		Specialties:    artist.Specialties,
		Images:         artist.Images,
		Featured:       artist.Featured,
		CreatedAt:      artist.CreatedAt,
		UpdatedAt:      artist.UpdatedAt,
	}
}

func mapArtistRequest(req ArtistRequest) service.ArtistRequest {
	return service.ArtistRequest{
		BusinessName:   req.BusinessName,
		Maker:          req.Maker,
		Type:           req.Type,
		Description:    req.Description,
		Location:       req.Location,
		Employees:      req.Employees,
		PhysicalStores: req.PhysicalStores,
		Socials:        req.Socials,
		Rates:          req.Rates,
		Specialties:    req.Specialties,
		Images:         req.Images,
	}
}
