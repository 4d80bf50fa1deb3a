// Package lookup declares the external collaborators the pipeline consults
// besides the generation model. Implementations live in subpackages.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/vbonduro/foodlens/internal/domain"
)

// PlaceholderPhotoURL is shown when no stock photo could be found.
const PlaceholderPhotoURL = "https://via.placeholder.com/400x300?text=No+Image+Found"

var (
	// ErrEmptyImage is returned before any network call for a zero-length payload.
	ErrEmptyImage = errors.New("image payload is empty")
	// ErrNoText means OCR succeeded but found nothing to read.
	ErrNoText = errors.New("no text was extracted from the image")
	// ErrMissingAPIKey is returned by lookups whose key was not configured.
	ErrMissingAPIKey = errors.New("lookup api key is not configured")
)

// OCRError carries the message from an OCR service that reported a
// processing failure.
type OCRError struct {
	Message string
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("ocr error: %s", e.Message)
}

// PhotoFinder returns at most one photo URL for query. No match is "" with
// a nil error.
type PhotoFinder interface {
	FindPhoto(ctx context.Context, query string) (string, error)
}

// NutrientLookup returns macro-nutrients for a free-text food. A food the
// service does not know yields nil, nil.
type NutrientLookup interface {
	Lookup(ctx context.Context, food string) (*domain.Nutrients, error)
}

// OCR reads printed text from an image.
type OCR interface {
	ExtractText(ctx context.Context, filename string, data []byte) (string, error)
}

// Classifier labels a food photo from a closed vocabulary.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (string, float32, error)
}
