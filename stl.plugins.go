package stl

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// PluginProvider supplies the plugin parse tier. It is queried on every
// dispatch, so plugins may be installed or removed at runtime.
type PluginProvider interface {
	RegisteredParsers() map[string]PluginParseFunc
}

// PluginProviderFunc adapts a function to PluginProvider.
type PluginProviderFunc func() map[string]PluginParseFunc

// RegisteredParsers calls f.
func (f PluginProviderFunc) RegisteredParsers() map[string]PluginParseFunc {
	return f()
}

type pluginParser struct {
	pluginID string
	fn       PluginParseFunc
}

// PluginRegistry is a PluginProvider that tracks which plugin contributed
// each tag so a plugin's parsers can be removed together.
type PluginRegistry struct {
	parsers map[string]pluginParser
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewPluginRegistry creates an empty plugin registry.
func NewPluginRegistry(logger *zap.Logger) *PluginRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PluginRegistry{
		parsers: make(map[string]pluginParser),
		logger:  logger,
	}
}

// Install registers a parser for tagName on behalf of pluginID.
// A tag already provided by another plugin is not replaced (first-come-wins);
// reinstalling from the same plugin replaces its parser.
func (r *PluginRegistry) Install(pluginID, tagName string, fn PluginParseFunc) error {
	if pluginID == "" {
		return NewEmptyPluginIDError()
	}
	key := strings.ToLower(strings.TrimSpace(tagName))
	if key == "" {
		return NewEmptyTagNameError()
	}
	if fn == nil {
		return NewNilHandlerError(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.parsers[key]; exists && existing.pluginID != pluginID {
		r.logger.Warn(LogMsgPluginCollision,
			zap.String(LogFieldTag, key),
			zap.String(LogFieldPluginID, pluginID),
			zap.String(LogFieldExisting, existing.pluginID),
		)
		return NewPluginConflictError(key, pluginID, existing.pluginID)
	}

	r.parsers[key] = pluginParser{pluginID: pluginID, fn: fn}
	r.logger.Debug(LogMsgPluginInstalled, zap.String(LogFieldTag, key), zap.String(LogFieldPluginID, pluginID))
	return nil
}

// Uninstall removes every parser installed by pluginID and returns how many
// were removed.
func (r *PluginRegistry) Uninstall(pluginID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, p := range r.parsers {
		if p.pluginID == pluginID {
			delete(r.parsers, key)
			removed++
		}
	}
	r.logger.Debug(LogMsgPluginUninstalled, zap.String(LogFieldPluginID, pluginID), zap.Int(LogFieldRemoved, removed))
	return removed
}

// RegisteredParsers returns a snapshot of the installed parsers.
func (r *PluginRegistry) RegisteredParsers() map[string]PluginParseFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]PluginParseFunc, len(r.parsers))
	for key, p := range r.parsers {
		out[key] = p.fn
	}
	return out
}

// Names returns the installed tag names in sorted order.
func (r *PluginRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for key := range r.parsers {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// PluginOf returns the id of the plugin that provides tagName.
func (r *PluginRegistry) PluginOf(tagName string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[strings.ToLower(tagName)]
	return p.pluginID, ok
}
