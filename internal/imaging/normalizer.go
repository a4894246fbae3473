package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
)

// NormalizedImage is a decoded image re-encoded to a bounded resolution and
// compression level, ready to be sent to the generation service.
type NormalizedImage struct {
	Bytes    []byte
	MimeType string
	Width    int
	Height   int
}

// Normalizer downsizes and re-encodes uploaded images so the outbound call
// stays small and bounded in cost regardless of input resolution.
type Normalizer struct {
	edgeBound int
	quality   int
}

// NewNormalizer creates a Normalizer with the given edge bound and JPEG
// quality target.
func NewNormalizer(edgeBound, quality int) *Normalizer {
	return &Normalizer{edgeBound: edgeBound, quality: quality}
}

// Normalize decodes the raw bytes, scales so neither dimension exceeds the
// edge bound (never upscaling), and re-encodes as JPEG. Undecodable input is
// rejected; raw bytes are never passed through on decode failure.
//
// Output is deterministic: same input and same bounds always yield the same
// bytes (stdlib JPEG encoder, no metadata, no timestamps).
func (n *Normalizer) Normalize(raw []byte) (*NormalizedImage, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.NewUnsupportedImageError(err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, errors.NewUnsupportedImageError(nil)
	}

	scale := 1.0
	if longest := max(width, height); longest > n.edgeBound {
		scale = float64(n.edgeBound) / float64(longest)
	}

	dst := src
	if scale < 1.0 {
		outW := max(1, int(float64(width)*scale))
		outH := max(1, int(float64(height)*scale))
		scaled := image.NewRGBA(image.Rect(0, 0, outW, outH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		dst = scaled
	}

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: n.quality}); err != nil {
		return nil, errors.NewUnsupportedImageError(err)
	}

	out := dst.Bounds()
	return &NormalizedImage{
		Bytes:    buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    out.Dx(),
		Height:   out.Dy(),
	}, nil
}
