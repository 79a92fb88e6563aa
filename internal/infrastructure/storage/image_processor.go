package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

var (
	// ErrPayloadTooLarge is returned when an asset exceeds the size limit.
	ErrPayloadTooLarge = errors.New("asset exceeds maximum size")
	// ErrInvalidImage is returned when a JPEG/PNG payload does not decode.
	ErrInvalidImage = errors.New("invalid image")
)

// ImageProcessor enforces the store's shape constraints on incoming assets.
type ImageProcessor struct {
	MaxBytes     int64
	MaxDimension int // longest side in pixels; 0 disables resizing
}

func NewImageProcessor(maxBytes int64, maxDimension int) *ImageProcessor {
	return &ImageProcessor{MaxBytes: maxBytes, MaxDimension: maxDimension}
}

// Prepare checks the payload size and, for JPEG/PNG images larger than
// MaxDimension, fits them into a MaxDimension square and re-encodes them
// in their original format. Other content types pass through unchanged.
func (p *ImageProcessor) Prepare(data []byte, contentType string) ([]byte, string, error) {
	if p.MaxBytes > 0 && int64(len(data)) > p.MaxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(data), p.MaxBytes)
	}

	if contentType != "image/jpeg" && contentType != "image/png" {
		return data, contentType, nil
	}
	if p.MaxDimension <= 0 {
		return data, contentType, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	switch contentType {
	case "image/png":
		err = png.Encode(buf, resized)
	default:
		err = jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, "", fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), contentType, nil
}
