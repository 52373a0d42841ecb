package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// InvokeFunc runs one recognition pass over an encoded image with the given
// Tesseract language set and returns the raw word-level tokens.
type InvokeFunc func(image []byte, languages []string) ([]Token, error)

// Engine is a validated Tesseract language combination. It holds no client
// state; each Recognize call creates and closes its own gosseract client.
type Engine struct {
	languages []string
	invoke    InvokeFunc
}

// Languages returns the engine's language set in cache-key order.
func (e *Engine) Languages() []string {
	out := make([]string, len(e.languages))
	copy(out, e.languages)
	return out
}

// Recognize invokes exactly one engine pass and returns its raw tokens.
// No confidence or size filtering is applied here.
func (e *Engine) Recognize(image []byte) ([]Token, error) {
	return e.invoke(image, e.languages)
}

// tesseractInvoke is the production InvokeFunc backed by gosseract.
func tesseractInvoke(image []byte, languages []string) ([]Token, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages %v: %w", languages, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	tokens := make([]Token, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		tokens = append(tokens, Token{
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
		})
	}
	return tokens, nil
}

// installedLanguages queries the Tesseract installation for available
// language data.
func installedLanguages() ([]string, error) {
	return gosseract.GetAvailableLanguages()
}
