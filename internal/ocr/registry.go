package ocr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrEngineInit indicates that no configured language combination could
// initialize a recognition engine. This is fatal: the host has no usable
// Tesseract installation for any entry in the priority list.
var ErrEngineInit = errors.New("no recognition engine could be initialized")

// englishLanguage is implicitly appended to every specialized script set.
const englishLanguage = "eng"

// DefaultPriority is the fallback order used to initialize the default
// engine. Broadest multi-script combination first, plain English last.
func DefaultPriority() [][]string {
	return [][]string{
		{"kor", "jpn", "chi_sim", "vie", "eng"},
		{"kor", "eng"},
		{"eng"},
	}
}

// KnownScriptGroups lists the specialized script sets the ensemble evaluates
// in addition to the default engine.
func KnownScriptGroups() [][]string {
	return [][]string{
		{"kor"},
		{"jpn"},
		{"chi_sim"},
		{"vie"},
	}
}

// RegistryOptions configures a Registry. Zero values select production
// behavior: the gosseract invoker, the installed-language inventory, and
// DefaultPriority.
type RegistryOptions struct {
	// Priority is the ordered list of language combinations tried for the
	// default engine.
	Priority [][]string

	// Invoke overrides the recognition backend. Tests use this to avoid a
	// Tesseract dependency.
	Invoke InvokeFunc

	// Available overrides the installed-language inventory lookup.
	Available func() ([]string, error)
}

// Registry owns the default engine and a lazily built cache of specialized
// engines keyed by sorted script set. It is safe for concurrent use:
// construction of a new cache entry is serialized by a write lock, reads of
// an already-cached engine only take the read lock.
type Registry struct {
	mu        sync.RWMutex
	engines   map[string]*Engine
	def       *Engine
	invoke    InvokeFunc
	installed map[string]bool
}

// NewRegistry initializes the default engine by walking the priority list.
// Combinations whose language data is not installed are skipped; if no
// combination can be satisfied the error wraps ErrEngineInit.
func NewRegistry(opts RegistryOptions) (*Registry, error) {
	if opts.Invoke == nil {
		opts.Invoke = tesseractInvoke
	}
	if opts.Available == nil {
		opts.Available = installedLanguages
	}
	if len(opts.Priority) == 0 {
		opts.Priority = DefaultPriority()
	}

	langs, err := opts.Available()
	if err != nil {
		return nil, fmt.Errorf("%w: language inventory unavailable: %v", ErrEngineInit, err)
	}
	installed := make(map[string]bool, len(langs))
	for _, l := range langs {
		installed[l] = true
	}

	r := &Registry{
		engines:   make(map[string]*Engine),
		invoke:    opts.Invoke,
		installed: installed,
	}

	for _, combo := range opts.Priority {
		if !r.supported(combo) {
			continue
		}
		key := cacheKey(combo)
		r.def = &Engine{languages: strings.Split(key, "+"), invoke: r.invoke}
		r.engines[key] = r.def
		break
	}
	if r.def == nil {
		return nil, fmt.Errorf("%w: tried %d combinations", ErrEngineInit, len(opts.Priority))
	}
	return r, nil
}

// Default returns the engine initialized from the priority list.
func (r *Registry) Default() *Engine {
	return r.def
}

// Engine returns the cached engine for the given script set, constructing it
// on first use. English is implicitly appended when absent and the set is
// sorted, so {"jpn"}, {"jpn","eng"} and {"eng","jpn"} share one entry.
func (r *Registry) Engine(scripts []string) (*Engine, error) {
	key := cacheKey(scripts)

	r.mu.RLock()
	eng, ok := r.engines[key]
	r.mu.RUnlock()
	if ok {
		return eng, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if eng, ok := r.engines[key]; ok {
		return eng, nil
	}

	languages := strings.Split(key, "+")
	if !r.supported(languages) {
		return nil, fmt.Errorf("language data not installed for %q", key)
	}
	eng = &Engine{languages: languages, invoke: r.invoke}
	r.engines[key] = eng
	return eng, nil
}

// supported reports whether every language in the combination is installed.
func (r *Registry) supported(languages []string) bool {
	if len(languages) == 0 {
		return false
	}
	for _, l := range languages {
		if !r.installed[l] {
			return false
		}
	}
	return true
}

// cacheKey normalizes a script set: English appended when absent,
// deduplicated, sorted, joined with "+".
func cacheKey(scripts []string) string {
	seen := make(map[string]bool, len(scripts)+1)
	out := make([]string, 0, len(scripts)+1)
	for _, s := range scripts {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if !seen[englishLanguage] {
		out = append(out, englishLanguage)
	}
	sort.Strings(out)
	return strings.Join(out, "+")
}
