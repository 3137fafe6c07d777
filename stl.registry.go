package stl

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry holds the translate and builtin parse tiers. Names are stored
// lower-cased. Registration uses first-come-wins semantics within a tier;
// lookups take a read lock only, so a registry filled at start-up can be
// shared by concurrent renders.
type Registry struct {
	translate map[string]TranslateFunc
	parse     map[string]ParseFunc
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		translate: make(map[string]TranslateFunc),
		parse:     make(map[string]ParseFunc),
		logger:    logger,
	}
}

// DefaultRegistry creates a registry with the built-in handlers registered.
func DefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	RegisterBuiltins(r)
	return r
}

// RegisterTranslate adds a translate-tier handler.
func (r *Registry) RegisterTranslate(name string, fn TranslateFunc) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return NewEmptyTagNameError()
	}
	if fn == nil {
		return NewNilHandlerError(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.translate[key]; exists {
		r.logger.Warn(LogMsgHandlerCollision, zap.String(LogFieldTag, key), zap.Stringer(LogFieldTier, HandlerKindTranslate))
		return NewHandlerExistsError(key, HandlerKindTranslate)
	}
	r.translate[key] = fn
	r.logger.Debug(LogMsgHandlerRegistered, zap.String(LogFieldTag, key), zap.Stringer(LogFieldTier, HandlerKindTranslate))
	return nil
}

// RegisterParse adds a builtin parse-tier handler.
func (r *Registry) RegisterParse(name string, fn ParseFunc) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return NewEmptyTagNameError()
	}
	if fn == nil {
		return NewNilHandlerError(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parse[key]; exists {
		r.logger.Warn(LogMsgHandlerCollision, zap.String(LogFieldTag, key), zap.Stringer(LogFieldTier, HandlerKindParse))
		return NewHandlerExistsError(key, HandlerKindParse)
	}
	r.parse[key] = fn
	r.logger.Debug(LogMsgHandlerRegistered, zap.String(LogFieldTag, key), zap.Stringer(LogFieldTier, HandlerKindParse))
	return nil
}

// MustRegisterTranslate adds a translate handler and panics if registration fails.
func (r *Registry) MustRegisterTranslate(name string, fn TranslateFunc) {
	if err := r.RegisterTranslate(name, fn); err != nil {
		panic(err)
	}
}

// MustRegisterParse adds a parse handler and panics if registration fails.
// Use this for built-in handlers that must always be available.
func (r *Registry) MustRegisterParse(name string, fn ParseFunc) {
	if err := r.RegisterParse(name, fn); err != nil {
		panic(err)
	}
}

// Lookup resolves a lower-cased tag name against the translate tier, then
// the builtin parse tier.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.translate[name]; ok {
		return Handler{Kind: HandlerKindTranslate, Name: name, Translate: fn}, true
	}
	if fn, ok := r.parse[name]; ok {
		return Handler{Kind: HandlerKindParse, Name: name, Parse: fn}, true
	}
	return Handler{}, false
}

// Has checks if any tier of the registry handles the tag name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(strings.ToLower(name))
	return ok
}

// TranslateNames returns the translate-tier tag names in sorted order.
func (r *Registry) TranslateNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.translate)
}

// ParseNames returns the builtin parse-tier tag names in sorted order.
func (r *Registry) ParseNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.parse)
}

// Count returns the number of registered handlers across both tiers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.translate) + len(r.parse)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
