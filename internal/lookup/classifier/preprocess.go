package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/vbonduro/foodlens/internal/lookup"
)

// InputSize is the square edge length the model expects.
const InputSize = 224

// MaxPixels caps width*height of a photo accepted by Decode.
const MaxPixels = 40_000_000

var ErrImageTooLarge = errors.New("image dimensions are too large")

// Decode reads a JPEG, PNG, GIF or WebP photo. The header is checked
// against MaxPixels before any pixel data is decoded.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, lookup.ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Preprocess resizes img to InputSize x InputSize and returns RGB values
// scaled to [0,1] in NHWC order (batch of one).
func Preprocess(img image.Image) []float32 {
	dst := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([]float32, 0, InputSize*InputSize*3)
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			i := dst.PixOffset(x, y)
			out = append(out,
				float32(dst.Pix[i])/255,
				float32(dst.Pix[i+1])/255,
				float32(dst.Pix[i+2])/255,
			)
		}
	}
	return out
}

// Argmax returns the index and value of the largest score. It returns -1 for
// an empty slice.
func Argmax(scores []float32) (int, float32) {
	best := -1
	var max float32
	for i, s := range scores {
		if best == -1 || s > max {
			best, max = i, s
		}
	}
	return best, max
}
