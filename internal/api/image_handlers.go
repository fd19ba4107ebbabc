package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	domainerrors "github.com/londonmakers/makers-server/internal/errors"
	"github.com/londonmakers/makers-server/internal/media/images"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadImage",
		Method:       http.MethodPost,
		Path:         "/api/v1/images",
		Summary:      "Upload image",
		Description:  "Uploads a listing photo. Accepts JPEG, PNG, GIF, or WebP up to 5 MiB. The content type is detected from the bytes, not the request headers.",
		Tags:         []string{"Images"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: images.MaxUploadSize,
	}, s.handleUploadImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteImage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/images/{key}",
		Summary:     "Delete image",
		Description: "Removes a stored image. Admin only.",
		Tags:        []string{"Images"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteImage)

	// Image bytes bypass huma so we can stream with proper cache headers.
	s.router.Get("/images/{key}", s.handleServeImage)
}

// === DTOs ===

// UploadImageInput carries the raw upload bytes.
type UploadImageInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte `contentType:"image/jpeg,image/png,image/gif,image/webp" doc:"Raw image bytes"`
}

// ImageResponse describes a stored image.
type ImageResponse struct {
	Key         string `json:"key" doc:"Storage key to reference in listings"`
	URL         string `json:"url" doc:"URL to fetch the image"`
	BlurHash    string `json:"blur_hash,omitempty" doc:"BlurHash placeholder string"`
	ContentType string `json:"content_type" doc:"Detected content type"`
	Width       int    `json:"width" doc:"Image width in pixels"`
	Height      int    `json:"height" doc:"Image height in pixels"`
}

// ImageOutput wraps the image response for Huma.
type ImageOutput struct {
	Body ImageResponse
}

// DeleteImageInput identifies the image to remove.
type DeleteImageInput struct {
	Authorization string `header:"Authorization"`
	Key           string `path:"key" maxLength:"100" doc:"Image storage key"`
}

// === Handlers ===

func (s *Server) handleUploadImage(ctx context.Context, input *UploadImageInput) (*ImageOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	processed, err := s.services.Images.Process(ctx, input.RawBody)
	if err != nil {
		switch {
		case errors.Is(err, images.ErrImageTooLarge):
			return nil, domainerrors.Validation("Image exceeds the 5 MiB upload limit")
		case errors.Is(err, images.ErrUnsupportedFormat):
			return nil, domainerrors.Validation("Unsupported image format. Use JPEG, PNG, GIF, or WebP")
		case errors.Is(err, images.ErrInvalidImage):
			return nil, domainerrors.Validation("Image data could not be decoded")
		}
		s.logger.Error("Image upload failed", "error", err)
		return nil, err
	}

	return &ImageOutput{
		Body: ImageResponse{
			Key:         processed.Key,
			URL:         processed.URL,
			BlurHash:    processed.BlurHash,
			ContentType: processed.ContentType,
			Width:       processed.Width,
			Height:      processed.Height,
		},
	}, nil
}

func (s *Server) handleDeleteImage(ctx context.Context, input *DeleteImageInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Images.Delete(ctx, input.Key); err != nil {
		s.logger.Error("Image delete failed", "error", err, "key", input.Key)
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Image deleted"}}, nil
}

// handleServeImage streams stored image bytes. Keys are immutable (content
// changes get a new key), so clients can cache aggressively.
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		http.NotFound(w, r)
		return
	}

	data, err := s.services.Images.Get(r.Context(), key)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		if _, err := w.Write(data); err != nil {
			s.logger.Debug("Image write aborted", "error", err, "key", key)
		}
	}
}
