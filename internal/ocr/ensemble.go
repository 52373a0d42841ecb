package ocr

import (
	"errors"
	"sync"
)

// ErrAllEnginesFailed indicates that every engine attempted by RecognizeBest
// raised an error. Callers account for the failure; the token list is empty
// rather than the error propagating per engine.
var ErrAllEnginesFailed = errors.New("all recognition engines failed")

// Runner executes recognition work, typically on a bounded worker pool.
// A nil Runner runs engines sequentially on the calling goroutine.
type Runner interface {
	Submit(task func()) error
}

// engineResult holds one engine's outcome during ensemble evaluation.
type engineResult struct {
	tokens []Token
	err    error
}

// RecognizeBest runs the default engine, each known script-group engine, and
// any hinted script set over the same image, then returns the token list with
// the highest mean confidence. Ties are broken by evaluation order with the
// default engine first. Engines that fail to construct or raise during
// recognition are excluded; if every attempt fails the returned error is
// ErrAllEnginesFailed and the token list is empty.
func (r *Registry) RecognizeBest(image []byte, hints []string, run Runner) ([]Token, error) {
	engines := r.ensembleEngines(hints)
	results := make([]engineResult, len(engines))

	var wg sync.WaitGroup
	for i, eng := range engines {
		wg.Add(1)
		task := func(i int, eng *Engine) func() {
			return func() {
				defer wg.Done()
				tokens, err := eng.Recognize(image)
				results[i] = engineResult{tokens: tokens, err: err}
			}
		}(i, eng)
		if run == nil {
			task()
			continue
		}
		if err := run.Submit(task); err != nil {
			// Pool saturated or closed: degrade to inline execution.
			task()
		}
	}
	wg.Wait()

	var (
		best     []Token
		bestMean float64
		anyOK    bool
	)
	for _, res := range results {
		if res.err != nil {
			continue
		}
		mean := MeanConfidence(res.tokens)
		if !anyOK || mean > bestMean {
			best = res.tokens
			bestMean = mean
			anyOK = true
		}
	}
	if !anyOK {
		return []Token{}, ErrAllEnginesFailed
	}
	if best == nil {
		best = []Token{}
	}
	return best, nil
}

// ensembleEngines assembles the evaluation list: default engine first, then
// each known script group, then the hinted set. Duplicates (by cache key) and
// unavailable combinations are dropped.
func (r *Registry) ensembleEngines(hints []string) []*Engine {
	engines := []*Engine{r.def}
	seen := map[string]bool{cacheKey(r.def.languages): true}

	candidates := KnownScriptGroups()
	if len(hints) > 0 {
		candidates = append(candidates, hints)
	}
	for _, scripts := range candidates {
		key := cacheKey(scripts)
		if seen[key] {
			continue
		}
		seen[key] = true
		eng, err := r.Engine(scripts)
		if err != nil {
			continue
		}
		engines = append(engines, eng)
	}
	return engines
}
