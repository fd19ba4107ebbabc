package api

import (
	"github.com/londonmakers/makers-server/internal/media/images"
	"github.com/londonmakers/makers-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	User    *service.UserService
	Artist  *service.ArtistService
	Search  *service.SearchService
	Images  *images.Processor
}
