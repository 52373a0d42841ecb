package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// minRecognitionSize is the smallest dimension, in pixels, below which a
// payload is upscaled before recognition. Tesseract degrades sharply on
// low-resolution crops.
const minRecognitionSize = 300

// Decode decodes a raw image payload. PNG, JPEG, GIF, TIFF and BMP are
// supported.
func Decode(payload []byte) (image.Image, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// DecodeBase64 decodes a base64 image payload into raw bytes. A data-URL
// prefix ("data:image/png;base64,...") is tolerated and stripped.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	payload, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return payload, nil
}

// Preprocess normalizes an image for recognition: grayscale conversion plus
// a 2x Lanczos upscale when either dimension falls below minRecognitionSize.
func Preprocess(img image.Image) image.Image {
	gray := effect.Grayscale(img)

	b := gray.Bounds()
	if b.Dx() < minRecognitionSize || b.Dy() < minRecognitionSize {
		return imaging.Resize(gray, b.Dx()*2, b.Dy()*2, imaging.Lanczos)
	}
	return gray
}

// EncodePNG renders an image to PNG bytes for handoff to the engine layer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
