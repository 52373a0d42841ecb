// Package pipeline is the facade over the recognition core: it owns the
// engine registry, the process-wide grouping configuration, and a bounded
// worker pool, and exposes the structured entry points the host surfaces.
// Every entry point resolves to a result object with a success flag; no
// fault propagates to the caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/inkstone/panelscan/internal/detection"
	"github.com/inkstone/panelscan/internal/imaging"
	"github.com/inkstone/panelscan/internal/ocr"
	"github.com/inkstone/panelscan/internal/script"
	"github.com/inkstone/panelscan/internal/tm"
)

// DefaultPoolSize bounds concurrent engine invocations when the caller does
// not size the pool explicitly.
const DefaultPoolSize = 4

// Options configures a Service.
type Options struct {
	// Registry is required; construct it with ocr.NewRegistry.
	Registry *ocr.Registry

	// PoolSize bounds concurrent recognition work. Defaults to DefaultPoolSize.
	PoolSize int

	// Corpus enables series-scoped translation-memory lookups. Optional;
	// without it corpora must arrive inline with each request.
	Corpus tm.CorpusProvider

	// Logger defaults to a no-op logger.
	Logger *zap.SugaredLogger
}

// Service runs the recognition pipeline. Safe for concurrent use.
type Service struct {
	registry *ocr.Registry
	grouping *detection.Store
	pool     *ants.Pool
	corpus   tm.CorpusProvider
	log      *zap.SugaredLogger
}

// New builds a Service around an initialized engine registry.
func New(opts Options) (*Service, error) {
	if opts.Registry == nil {
		return nil, errors.New("pipeline: registry is required")
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	pool, err := ants.NewPool(opts.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("pipeline: failed to create worker pool: %w", err)
	}
	return &Service{
		registry: opts.Registry,
		grouping: detection.NewStore(),
		pool:     pool,
		corpus:   opts.Corpus,
		log:      opts.Logger,
	}, nil
}

// Close releases the worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// poolRunner adapts the ants pool to the ocr.Runner interface.
type poolRunner struct {
	pool *ants.Pool
}

func (p poolRunner) Submit(task func()) error {
	return p.pool.Submit(task)
}

// DetectResult is the structured outcome of DetectRegions.
type DetectResult struct {
	Success          bool               `json:"success"`
	Regions          []detection.Region `json:"regions"`
	DetectedScript   string             `json:"detected_script"`
	ScriptConfidence float64            `json:"script_confidence"`
	Error            string             `json:"error,omitempty"`
}

// RecognizeResult is the structured outcome of RecognizeText.
type RecognizeResult struct {
	Success          bool    `json:"success"`
	Text             string  `json:"text"`
	Confidence       float64 `json:"confidence"`
	DetectedScript   string  `json:"detected_script"`
	ScriptConfidence float64 `json:"script_confidence"`
	Error            string  `json:"error,omitempty"`
}

// DetectRegions runs the full pipeline over one image payload: ensemble
// recognition, script-aware filtering, spatial grouping, region assembly,
// and script detection over the assembled text.
func (s *Service) DetectRegions(payload []byte, scriptHint string) DetectResult {
	tokens, res := s.recognize(payload, scriptHint)
	if res != nil {
		return *res
	}

	regions, ok := s.assembleRegions(tokens)
	if !ok {
		return DetectResult{
			Success:        false,
			Regions:        []detection.Region{},
			DetectedScript: script.Unknown,
			Error:          "region assembly failed",
		}
	}

	detected := script.Detect(joinRegionText(regions))
	return DetectResult{
		Success:          true,
		Regions:          regions,
		DetectedScript:   detected.Script,
		ScriptConfidence: detected.Confidence,
	}
}

// RecognizeText extracts filtered text without grouping, for simple
// extraction use cases.
func (s *Service) RecognizeText(payload []byte) RecognizeResult {
	tokens, res := s.recognize(payload, "")
	if res != nil {
		return RecognizeResult{
			Success:        false,
			DetectedScript: res.DetectedScript,
			Error:          res.Error,
		}
	}

	cfg := s.grouping.Get()
	filtered := detection.FilterTokens(tokens, cfg)
	text := detection.JoinTokens(detection.SortTokens(filtered))
	detected := script.Detect(text)

	return RecognizeResult{
		Success:          true,
		Text:             text,
		Confidence:       ocr.MeanConfidence(filtered),
		DetectedScript:   detected.Script,
		ScriptConfidence: detected.Confidence,
	}
}

// recognize decodes, preprocesses, and runs the ensemble. A non-nil
// DetectResult reports a decode or whole-ensemble failure.
func (s *Service) recognize(payload []byte, scriptHint string) ([]ocr.Token, *DetectResult) {
	img, err := imaging.Decode(payload)
	if err != nil {
		s.log.Warnw("image decode failed", "error", err)
		return nil, &DetectResult{
			Success:        false,
			Regions:        []detection.Region{},
			DetectedScript: script.Unknown,
			Error:          err.Error(),
		}
	}

	prepared, err := imaging.EncodePNG(imaging.Preprocess(img))
	if err != nil {
		s.log.Warnw("image preprocessing failed", "error", err)
		return nil, &DetectResult{
			Success:        false,
			Regions:        []detection.Region{},
			DetectedScript: script.Unknown,
			Error:          err.Error(),
		}
	}

	var hints []string
	if scriptHint != "" {
		hints = []string{scriptHint}
	}
	tokens, err := s.registry.RecognizeBest(prepared, hints, poolRunner{pool: s.pool})
	if err != nil {
		s.log.Warnw("recognition failed on every engine", "error", err)
		return nil, &DetectResult{
			Success:        false,
			Regions:        []detection.Region{},
			DetectedScript: script.Unknown,
			Error:          err.Error(),
		}
	}
	return tokens, nil
}

// assembleRegions runs the pure in-memory grouping stages. These are not
// expected to fail; an unexpected panic is treated as "no regions detected"
// rather than propagated.
func (s *Service) assembleRegions(tokens []ocr.Token) (regions []detection.Region, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("grouping panicked", "panic", r)
			regions, ok = nil, false
		}
	}()

	cfg := s.grouping.Get()
	filtered := detection.FilterTokens(tokens, cfg)
	groups := detection.GroupTokens(filtered, cfg)
	return detection.AssembleRegions(groups), true
}

// joinRegionText concatenates region texts for script detection.
func joinRegionText(regions []detection.Region) string {
	var b []byte
	for i, r := range regions {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, r.Text...)
	}
	return string(b)
}

// GroupingConfig returns the current grouping configuration snapshot.
func (s *Service) GroupingConfig() detection.Config {
	return s.grouping.Get()
}

// UpdateGroupingConfig applies a validated partial update and returns the
// new configuration.
func (s *Service) UpdateGroupingConfig(p detection.Patch) (detection.Config, error) {
	cfg, err := s.grouping.Update(p)
	if err != nil {
		return detection.Config{}, err
	}
	s.log.Infow("grouping config updated")
	return cfg, nil
}

// ResetGroupingConfig restores the default configuration.
func (s *Service) ResetGroupingConfig() detection.Config {
	return s.grouping.Reset()
}

// ScoreAgainstMemory ranks a text against a translation-memory snapshot.
// Non-positive topK or threshold select the package defaults.
func (s *Service) ScoreAgainstMemory(text string, corpus []tm.Entry, topK int, threshold float64) tm.MatchResult {
	return tm.MatchCorpus(text, corpus, threshold, topK)
}

// ScoreAgainstSeries fetches the stored corpus for a series through the
// configured provider and ranks the text against it.
func (s *Service) ScoreAgainstSeries(ctx context.Context, seriesID, text string, topK int, threshold float64) (tm.MatchResult, error) {
	if s.corpus == nil {
		return tm.MatchResult{}, errors.New("no corpus provider configured")
	}
	corpus, err := s.corpus.FetchCorpus(ctx, seriesID)
	if err != nil {
		return tm.MatchResult{}, fmt.Errorf("failed to fetch corpus for series %s: %w", seriesID, err)
	}
	return tm.MatchCorpus(text, corpus, threshold, topK), nil
}

// MarkEntryUsed signals that a translation-memory entry was reused so the
// provider can bump its usage counter.
func (s *Service) MarkEntryUsed(ctx context.Context, entryID string) error {
	if s.corpus == nil {
		return errors.New("no corpus provider configured")
	}
	if err := s.corpus.IncrementUsage(ctx, entryID); err != nil {
		return fmt.Errorf("failed to increment usage for entry %s: %w", entryID, err)
	}
	return nil
}
