package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/londonmakers/makers-server/internal/config"
	"github.com/londonmakers/makers-server/internal/logger"
	"github.com/londonmakers/makers-server/internal/media/images"
)

// ImageBackendHandle wraps the configured image storage backend.
type ImageBackendHandle struct {
	images.Backend
}

// ProvideImageBackend selects the image storage backend from configuration.
// Local storage serves bytes through the API's /images route; the S3 backend
// hands clients public bucket URLs instead.
func ProvideImageBackend(i do.Injector) (*ImageBackendHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Media.Backend {
	case config.MediaBackendS3:
		backend, err := images.NewS3Storage(images.S3Options{
			Endpoint:  cfg.Media.S3Endpoint,
			AccessKey: cfg.Media.S3AccessKey,
			SecretKey: cfg.Media.S3SecretKey,
			Bucket:    cfg.Media.S3Bucket,
			UseSSL:    cfg.Media.S3UseSSL,
			PublicURL: cfg.Media.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 image backend: %w", err)
		}
		log.Info("Image storage initialized",
			"backend", "s3",
			"bucket", cfg.Media.S3Bucket,
			"endpoint", cfg.Media.S3Endpoint,
		)
		return &ImageBackendHandle{Backend: backend}, nil

	default:
		publicURL := "/images"
		if cfg.Server.PublicURL != "" {
			publicURL = cfg.Server.PublicURL + "/images"
		}
		backend, err := images.NewLocalStorage(cfg.Media.StoragePath, publicURL)
		if err != nil {
			return nil, fmt.Errorf("local image backend: %w", err)
		}
		log.Info("Image storage initialized",
			"backend", "local",
			"path", cfg.Media.StoragePath,
		)
		return &ImageBackendHandle{Backend: backend}, nil
	}
}

// ProvideImageProcessor provides the listing photo processor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	backend := do.MustInvoke[*ImageBackendHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(backend.Backend, log.Logger), nil
}
