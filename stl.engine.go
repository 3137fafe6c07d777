package stl

import (
	"go.uber.org/zap"
)

// Engine renders STL occurrences embedded in page templates.
// An Engine is safe for concurrent renders of independent documents once
// its handlers are registered.
type Engine struct {
	registry  *Registry
	plugins   PluginProvider
	tokenizer Tokenizer
	dynamic   DynamicHandler
	finisher  Finisher
	formatter ErrorFormatter
	cache     *ParsedContentCache
	maxDepth  int
	logger    *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.maxDepth < 0 {
		return nil, NewConfigError(ErrMsgInvalidMaxDepth, "", nil)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		registry:  config.registry,
		plugins:   config.plugins,
		tokenizer: config.tokenizer,
		dynamic:   config.dynamic,
		finisher:  config.finisher,
		formatter: config.formatter,
		cache:     config.cache,
		maxDepth:  config.maxDepth,
		logger:    logger,
	}

	if e.registry == nil {
		e.registry = DefaultRegistry(logger)
	}
	if e.plugins == nil {
		e.plugins = NewPluginRegistry(logger)
	}
	if e.tokenizer == nil {
		e.tokenizer = NewHTMLTokenizer(config.elementPrefix, logger)
	}
	if e.dynamic == nil {
		e.dynamic = PlaceholderDynamicHandler{}
	}
	if e.finisher == nil {
		e.finisher = BackHTMLFinisher{}
	}
	if e.formatter == nil {
		e.formatter = MarkerErrorFormatter{}
	}

	logger.Debug(LogMsgEngineCreated,
		zap.Int(LogFieldMaxDepth, e.maxDepth),
		zap.Bool(LogFieldCache, e.cache != nil),
	)
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Registry returns the translate and builtin parse registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Plugins returns the plugin provider.
func (e *Engine) Plugins() PluginProvider {
	return e.plugins
}

// Cache returns the parsed content cache, or nil when caching is off.
func (e *Engine) Cache() *ParsedContentCache {
	return e.cache
}

// MaxDepth returns the configured maximum nesting depth.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// ensureContexts substitutes empty page and render contexts for nil ones.
func ensureContexts(page *PageInfo, info *ContextInfo) (*PageInfo, *ContextInfo) {
	if page == nil {
		page = NewPageInfo(PageIdentity{}, nil)
	}
	if info == nil {
		info = NewContextInfo()
	}
	return page, info
}
