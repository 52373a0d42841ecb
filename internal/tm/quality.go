package tm

import "github.com/lucasb-eyer/go-colorful"

// Quality is the human-readable bucket for a similarity score, with a color
// tag and hex value for UI consumption.
type Quality struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Hex   string  `json:"hex"`
	Score float64 `json:"score"`
}

// tagColors maps color tags to the rendered palette.
var tagColors = map[string]colorful.Color{
	"green":  {R: 0.16, G: 0.65, B: 0.27},
	"blue":   {R: 0.05, G: 0.43, B: 0.86},
	"yellow": {R: 0.95, G: 0.77, B: 0.06},
	"orange": {R: 0.96, G: 0.52, B: 0.07},
	"red":    {R: 0.86, G: 0.21, B: 0.18},
	"gray":   {R: 0.55, G: 0.57, B: 0.59},
}

// QualityFor buckets a similarity score into a match-quality label.
func QualityFor(score float64) Quality {
	var label, color string
	switch {
	case score >= 0.95:
		label, color = "Perfect Match", "green"
	case score >= 0.85:
		label, color = "Excellent", "blue"
	case score >= 0.75:
		label, color = "Good", "yellow"
	case score >= 0.60:
		label, color = "Fair", "orange"
	case score >= 0.40:
		label, color = "Partial", "red"
	case score >= 0.20:
		label, color = "Weak", "gray"
	default:
		label, color = "No Match", "gray"
	}
	return Quality{Label: label, Color: color, Hex: tagColors[color].Hex(), Score: score}
}
