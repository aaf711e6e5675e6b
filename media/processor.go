package media

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ThumbnailJpegQuality   = 90
	WebJpegQuality         = 85
	VariantFileExtension   = ".jpg"
)

// Processor handles media transformations like thumbnailing and web-size
// resizing. it relies on a Store implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// fitWithin computes dimensions so the longest side matches maxSize, never
// upscaling.
func fitWithin(width, height, maxSize int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	if width <= maxSize && height <= maxSize {
		return width, height
	}
	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = int(math.Round(float64(height) * (float64(maxSize) / float64(width))))
	} else {
		newHeight = maxSize
		newWidth = int(math.Round(float64(width) * (float64(maxSize) / float64(height))))
	}
	return maxInt(1, newWidth), maxInt(1, newHeight)
}

// generateVariant resizes and saves a JPEG variant of the original, returning
// the relative path within the store.
func (p *Processor) generateVariant(originalImg image.Image, assetType AssetType, quality, maxSize int) (string, error) {
	bounds := originalImg.Bounds()
	newWidth, newHeight := fitWithin(bounds.Dx(), bounds.Dy(), maxSize)
	if newWidth == 0 || newHeight == 0 {
		return "", fmt.Errorf("invalid original image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	resized := imaging.Resize(originalImg, newWidth, newHeight, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		defer writer.Close()
		err := imaging.Encode(writer, resized, imaging.JPEG, imaging.JPEGQuality(quality))
		if err != nil {
			logrus.Errorf("processor: failed to encode %s variant: %v", assetType, err)
			writer.CloseWithError(fmt.Errorf("%s encoding failed: %w", assetType, err))
		}
	}()

	variantUUID, err := uuid.NewRandom()
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to generate UUID for %s variant: %w", assetType, err)
	}
	targetFilename := variantUUID.String() + VariantFileExtension

	savedRelPath, err := p.store.Save(assetType, "", targetFilename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to save %s variant via store: %w", assetType, err)
	}

	return savedRelPath, nil
}

// GenerateThumbnail creates a thumbnail where the longest side matches
// maxSize. returns relative path to the saved thumb or error.
func (p *Processor) GenerateThumbnail(originalImg image.Image, maxSize int) (string, error) {
	return p.generateVariant(originalImg, AssetTypeThumbnail, ThumbnailJpegQuality, maxSize)
}

// GenerateWebSize creates the gallery display variant.
func (p *Processor) GenerateWebSize(originalImg image.Image, maxSize int) (string, error) {
	return p.generateVariant(originalImg, AssetTypeWeb, WebJpegQuality, maxSize)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
