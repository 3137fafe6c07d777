package stl

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	logger        *zap.Logger
	registry      *Registry
	plugins       PluginProvider
	tokenizer     Tokenizer
	dynamic       DynamicHandler
	finisher      Finisher
	formatter     ErrorFormatter
	cache         *ParsedContentCache
	maxDepth      int
	elementPrefix string
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth:      DefaultMaxDepth,
		elementPrefix: DefaultElementPrefix,
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithRegistry sets the translate and builtin parse registry.
// Default: DefaultRegistry (built-in handlers)
func WithRegistry(registry *Registry) Option {
	return func(c *engineConfig) {
		c.registry = registry
	}
}

// WithPluginProvider sets the provider queried for the plugin tier.
// Default: an empty PluginRegistry
func WithPluginProvider(provider PluginProvider) Option {
	return func(c *engineConfig) {
		c.plugins = provider
	}
}

// WithTokenizer replaces the tokenizer used to discover occurrences.
// Default: HTMLTokenizer for the configured element prefix
func WithTokenizer(tokenizer Tokenizer) Option {
	return func(c *engineConfig) {
		c.tokenizer = tokenizer
	}
}

// WithElementPrefix sets the element prefix of the default tokenizer.
// Ignored when WithTokenizer is used.
// Default: "stl:"
func WithElementPrefix(prefix string) Option {
	return func(c *engineConfig) {
		c.elementPrefix = prefix
	}
}

// WithDynamicHandler sets the handler for isDynamic="true" occurrences.
// Default: PlaceholderDynamicHandler
func WithDynamicHandler(handler DynamicHandler) Option {
	return func(c *engineConfig) {
		c.dynamic = handler
	}
}

// WithFinisher sets the finishing transform for top-level output.
// Default: BackHTMLFinisher
func WithFinisher(finisher Finisher) Option {
	return func(c *engineConfig) {
		c.finisher = finisher
	}
}

// WithErrorFormatter sets how handler failures are rendered inline.
// Default: MarkerErrorFormatter
func WithErrorFormatter(formatter ErrorFormatter) Option {
	return func(c *engineConfig) {
		c.formatter = formatter
	}
}

// WithMaxDepth sets the maximum element nesting depth.
// Use 0 for unlimited depth.
// Default: 32
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithCache enables parsed content caching.
// Default: nil (no caching)
func WithCache(cache *ParsedContentCache) Option {
	return func(c *engineConfig) {
		c.cache = cache
	}
}
