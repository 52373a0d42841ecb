package detection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
)

// Config holds the grouping and filtering parameters. Pixel caps bound gaps
// absolutely; multipliers and thresholds are relative to token dimensions.
// All values must be non-negative.
type Config struct {
	// Hard rejection caps. A pair whose edge-to-edge gap exceeds
	// min(avgDim * multiplier, pixels) never groups.
	MaxHorizontalGapPixels     float64 `json:"max_horizontal_gap_pixels"`
	MaxVerticalGapPixels       float64 `json:"max_vertical_gap_pixels"`
	MaxHorizontalGapMultiplier float64 `json:"max_horizontal_gap_multiplier"`
	MaxVerticalGapMultiplier   float64 `json:"max_vertical_gap_multiplier"`

	// Same-line pattern: near-equal vertical centers, bounded horizontal gap.
	SameLineVerticalThreshold       float64 `json:"same_line_vertical_threshold"`
	SameLineHorizontalGapMultiplier float64 `json:"same_line_horizontal_gap_multiplier"`

	// Vertical-stack pattern: near-equal horizontal centers, bounded vertical gap.
	VerticalStackHorizontalThreshold float64 `json:"vertical_stack_horizontal_threshold"`
	VerticalStackGapMultiplier       float64 `json:"vertical_stack_gap_multiplier"`

	// Nearby pattern: both centers close, both gaps small.
	NearbyVerticalThreshold   float64 `json:"nearby_vertical_threshold"`
	NearbyHorizontalThreshold float64 `json:"nearby_horizontal_threshold"`
	NearbyGapMultiplier       float64 `json:"nearby_gap_multiplier"`

	// Filter minimums. A token above ConfidenceBoost bypasses the area and
	// length checks.
	MinTokenArea    float64 `json:"min_token_area"`
	MinTokenTextLen int     `json:"min_token_text_len"`
	ConfidenceBoost float64 `json:"confidence_boost"`
}

// DefaultConfig returns the tuned defaults for comic-panel layouts.
func DefaultConfig() Config {
	return Config{
		MaxHorizontalGapPixels:           25,
		MaxVerticalGapPixels:             15,
		MaxHorizontalGapMultiplier:       0.8,
		MaxVerticalGapMultiplier:         0.6,
		SameLineVerticalThreshold:        0.2,
		SameLineHorizontalGapMultiplier:  0.8,
		VerticalStackHorizontalThreshold: 0.3,
		VerticalStackGapMultiplier:       0.5,
		NearbyVerticalThreshold:          0.4,
		NearbyHorizontalThreshold:        0.6,
		NearbyGapMultiplier:              0.4,
		MinTokenArea:                     20,
		MinTokenTextLen:                  1,
		ConfidenceBoost:                  0.8,
	}
}

// Validate rejects configurations with negative values.
func (c Config) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"max_horizontal_gap_pixels", c.MaxHorizontalGapPixels},
		{"max_vertical_gap_pixels", c.MaxVerticalGapPixels},
		{"max_horizontal_gap_multiplier", c.MaxHorizontalGapMultiplier},
		{"max_vertical_gap_multiplier", c.MaxVerticalGapMultiplier},
		{"same_line_vertical_threshold", c.SameLineVerticalThreshold},
		{"same_line_horizontal_gap_multiplier", c.SameLineHorizontalGapMultiplier},
		{"vertical_stack_horizontal_threshold", c.VerticalStackHorizontalThreshold},
		{"vertical_stack_gap_multiplier", c.VerticalStackGapMultiplier},
		{"nearby_vertical_threshold", c.NearbyVerticalThreshold},
		{"nearby_horizontal_threshold", c.NearbyHorizontalThreshold},
		{"nearby_gap_multiplier", c.NearbyGapMultiplier},
		{"min_token_area", c.MinTokenArea},
		{"min_token_text_len", float64(c.MinTokenTextLen)},
		{"confidence_boost", c.ConfidenceBoost},
	}
	for _, ck := range checks {
		if ck.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", ck.name, ck.value)
		}
	}
	return nil
}

// Patch is a partial configuration update. Nil fields keep their current
// value. Unknown keys are rejected at parse time.
type Patch struct {
	MaxHorizontalGapPixels           *float64 `json:"max_horizontal_gap_pixels,omitempty"`
	MaxVerticalGapPixels             *float64 `json:"max_vertical_gap_pixels,omitempty"`
	MaxHorizontalGapMultiplier       *float64 `json:"max_horizontal_gap_multiplier,omitempty"`
	MaxVerticalGapMultiplier         *float64 `json:"max_vertical_gap_multiplier,omitempty"`
	SameLineVerticalThreshold        *float64 `json:"same_line_vertical_threshold,omitempty"`
	SameLineHorizontalGapMultiplier  *float64 `json:"same_line_horizontal_gap_multiplier,omitempty"`
	VerticalStackHorizontalThreshold *float64 `json:"vertical_stack_horizontal_threshold,omitempty"`
	VerticalStackGapMultiplier       *float64 `json:"vertical_stack_gap_multiplier,omitempty"`
	NearbyVerticalThreshold          *float64 `json:"nearby_vertical_threshold,omitempty"`
	NearbyHorizontalThreshold        *float64 `json:"nearby_horizontal_threshold,omitempty"`
	NearbyGapMultiplier              *float64 `json:"nearby_gap_multiplier,omitempty"`
	MinTokenArea                     *float64 `json:"min_token_area,omitempty"`
	MinTokenTextLen                  *int     `json:"min_token_text_len,omitempty"`
	ConfidenceBoost                  *float64 `json:"confidence_boost,omitempty"`
}

// ParsePatch decodes a JSON partial update, rejecting unknown keys.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Patch{}, fmt.Errorf("invalid grouping config patch: %w", err)
	}
	return p, nil
}

// Apply overlays the patch onto the config and validates the result.
func (c Config) Apply(p Patch) (Config, error) {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&c.MaxHorizontalGapPixels, p.MaxHorizontalGapPixels)
	setF(&c.MaxVerticalGapPixels, p.MaxVerticalGapPixels)
	setF(&c.MaxHorizontalGapMultiplier, p.MaxHorizontalGapMultiplier)
	setF(&c.MaxVerticalGapMultiplier, p.MaxVerticalGapMultiplier)
	setF(&c.SameLineVerticalThreshold, p.SameLineVerticalThreshold)
	setF(&c.SameLineHorizontalGapMultiplier, p.SameLineHorizontalGapMultiplier)
	setF(&c.VerticalStackHorizontalThreshold, p.VerticalStackHorizontalThreshold)
	setF(&c.VerticalStackGapMultiplier, p.VerticalStackGapMultiplier)
	setF(&c.NearbyVerticalThreshold, p.NearbyVerticalThreshold)
	setF(&c.NearbyHorizontalThreshold, p.NearbyHorizontalThreshold)
	setF(&c.NearbyGapMultiplier, p.NearbyGapMultiplier)
	setF(&c.MinTokenArea, p.MinTokenArea)
	if p.MinTokenTextLen != nil {
		c.MinTokenTextLen = *p.MinTokenTextLen
	}
	setF(&c.ConfidenceBoost, p.ConfidenceBoost)

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Store holds the process-wide grouping configuration. Reads return an
// immutable snapshot through an atomic pointer; writers are serialized so an
// in-flight grouping call always observes one consistent configuration.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Config]
}

// NewStore returns a Store seeded with DefaultConfig.
func NewStore() *Store {
	s := &Store{}
	cfg := DefaultConfig()
	s.current.Store(&cfg)
	return s
}

// Get returns the current configuration snapshot.
func (s *Store) Get() Config {
	return *s.current.Load()
}

// Update applies a partial update atomically and returns the new snapshot.
func (s *Store) Update(p Patch) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.current.Load().Apply(p)
	if err != nil {
		return Config{}, err
	}
	s.current.Store(&next)
	return next, nil
}

// Reset restores the defaults and returns them.
func (s *Store) Reset() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := DefaultConfig()
	s.current.Store(&cfg)
	return cfg
}
