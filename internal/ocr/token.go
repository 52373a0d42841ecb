package ocr

// Token is a single recognized text fragment as produced by one engine pass.
// Geometry is in pixels of the source image, confidence is in [0,1].
type Token struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Area returns the token's bounding-box area in square pixels.
func (t Token) Area() int {
	return t.Width * t.Height
}

// MeanConfidence returns the arithmetic mean confidence of a token list,
// or 0 for an empty list.
func MeanConfidence(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range tokens {
		sum += t.Confidence
	}
	return sum / float64(len(tokens))
}
