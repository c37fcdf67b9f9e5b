package imagehost

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	_ "image/gif"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
)

const jpegQuality = 85

// Downscaler shrinks images wider than maxWidth before handing them to the
// next uploader. Files it cannot decode are passed through unchanged.
type Downscaler struct {
	next     Uploader
	maxWidth uint
}

func NewDownscaler(next Uploader, maxWidth uint) *Downscaler {
	return &Downscaler{next: next, maxWidth: maxWidth}
}

func (d *Downscaler) Upload(ctx context.Context, path string) (string, error) {
	resized, err := d.shrink(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Uploading image at original size")
		return d.next.Upload(ctx, path)
	}
	if resized == "" {
		return d.next.Upload(ctx, path)
	}
	defer os.Remove(resized)
	return d.next.Upload(ctx, resized)
}

// shrink writes a scaled copy of path and returns its location, or "" when
// the image already fits.
func (d *Downscaler) shrink(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if uint(img.Bounds().Dx()) <= d.maxWidth {
		return "", nil
	}

	scaled := resize.Resize(d.maxWidth, 0, img, resize.Lanczos3)

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	out, err := os.CreateTemp("", "resized-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if format == "png" {
		err = png.Encode(out, scaled)
	} else {
		err = jpeg.Encode(out, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to encode resized image: %w", err)
	}
	return out.Name(), nil
}
