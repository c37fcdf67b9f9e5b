package imagehost

import (
	"context"
	"fmt"

	"photo-contest-backend/config"

	"github.com/rs/zerolog/log"
)

// Uploader stores a local image file on an image host and returns the URL it
// is served from.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// New builds the uploader selected by cfg.Provider, wrapped in a Downscaler
// when cfg.MaxWidth is set.
func New(ctx context.Context, cfg config.ImageHostConfig) (Uploader, error) {
	var (
		uploader Uploader
		err      error
	)
	switch cfg.Provider {
	case "", "cloudinary":
		uploader, err = NewCloudinaryUploader(cfg.CloudName, cfg.APIKey, cfg.APISecret, cfg.Folder)
	case "s3":
		uploader, err = NewS3Uploader(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown image host provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("provider", cfg.Provider).Uint("max_width", cfg.MaxWidth).Msg("Image host configured")

	if cfg.MaxWidth > 0 {
		return NewDownscaler(uploader, cfg.MaxWidth), nil
	}
	return uploader, nil
}
