package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"net/http"

	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/londonmakers/makers-server/internal/id"
)

// MaxUploadSize is the largest accepted image upload.
const MaxUploadSize = 5 << 20 // 5 MiB

// Upload validation errors.
var (
	ErrImageTooLarge     = errors.New("image exceeds maximum upload size")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidImage      = errors.New("image data could not be decoded")
)

// extensionByType maps accepted content types to storage key extensions.
var extensionByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProcessedImage is the result of a successful upload.
type ProcessedImage struct {
	Key         string // Storage key, e.g. "img_x7f3k2.jpg"
	URL         string // Client-facing URL
	BlurHash    string // Placeholder hash for progressive loading
	ContentType string
	Width       int
	Height      int
}

// Processor validates, hashes, and stores uploaded listing photos.
type Processor struct {
	backend Backend
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(backend Backend, logger *slog.Logger) *Processor {
	return &Processor{
		backend: backend,
		logger:  logger,
	}
}

// Process validates an uploaded image, computes its BlurHash, and stores it.
// The content type is sniffed from the bytes, not trusted from the client.
func (p *Processor) Process(ctx context.Context, data []byte) (*ProcessedImage, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxUploadSize {
		return nil, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensionByType[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		// BlurHash is a nice-to-have; a failed hash shouldn't reject the upload.
		p.logger.Warn("blurhash computation failed", "error", err)
		hash = ""
	}

	imageID, err := id.Generate("img")
	if err != nil {
		return nil, fmt.Errorf("generate image key: %w", err)
	}
	key := imageID + ext

	if err := p.backend.Save(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	bounds := img.Bounds()
	p.logger.Debug("processed image upload",
		"key", key,
		"content_type", contentType,
		"size", len(data),
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return &ProcessedImage{
		Key:         key,
		URL:         p.backend.URL(key),
		BlurHash:    hash,
		ContentType: contentType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// Get retrieves stored image bytes by key.
func (p *Processor) Get(ctx context.Context, key string) ([]byte, error) {
	return p.backend.Get(ctx, key)
}

// Delete removes a stored image. Missing keys are not an error.
func (p *Processor) Delete(ctx context.Context, key string) error {
	return p.backend.Delete(ctx, key)
}

// URL returns the client-facing URL for a stored key.
func (p *Processor) URL(key string) string {
	return p.backend.URL(key)
}
