package stl

import (
	"time"

	"github.com/itsatony/go-stl/internal"
)

// Element prefix recognised by the default tokenizer
const (
	DefaultElementPrefix = internal.DefaultElementPrefix
)

// Built-in parse tag names - stored and looked up lower-cased
const (
	TagNameValue     = "stl:value"
	TagNameContainer = "stl:container"
	TagNameA         = "stl:a"
	TagNameDynamic   = "stl:dynamic"
)

// Built-in translate tag names - paged listings deferred to page assembly
const (
	TagNamePageContents    = "stl:pagecontents"
	TagNamePageChannels    = "stl:pagechannels"
	TagNamePageSQLContents = "stl:pagesqlcontents"
	TagNamePageItems       = "stl:pageitems"
)

// Attribute name constants
const (
	AttrIsDynamic = internal.AttrIsDynamic
	AttrType      = "type"
	AttrDefault   = "default"
	AttrHref      = "href"
	AttrFormat    = "format"
)

// Attribute values
const (
	FormatRaw = "raw"
)

// Anchor markup emitted by stl:a
const (
	AnchorOpenFmt   = `<a href="%s"`
	AnchorAttrFmt   = ` %s="%s"`
	AnchorOpenClose = ">"
	AnchorClose     = "</a>"
)

// HandlerKind identifies the registry tier a handler belongs to
type HandlerKind int

const (
	// HandlerKindTranslate handlers receive the raw occurrence text
	HandlerKindTranslate HandlerKind = iota
	// HandlerKindParse handlers receive the page and a scoped context
	HandlerKindParse
	// HandlerKindPlugin handlers receive a plugin parse context
	HandlerKindPlugin
)

// Handler kind string values
const (
	HandlerKindNameTranslate = "translate"
	HandlerKindNameParse     = "parse"
	HandlerKindNamePlugin    = "plugin"
	HandlerKindNameDynamic   = "dynamic"
)

// String returns the string representation of the handler kind
func (k HandlerKind) String() string {
	switch k {
	case HandlerKindTranslate:
		return HandlerKindNameTranslate
	case HandlerKindParse:
		return HandlerKindNameParse
	case HandlerKindPlugin:
		return HandlerKindNamePlugin
	default:
		return HandlerKindNameParse
	}
}

// Default configuration values
const (
	DefaultMaxDepth = 32
	DefaultLogLevel = "info"
)

// Cache configuration defaults
const (
	DefaultCacheTTL           = 5 * time.Minute
	DefaultCacheMaxEntries    = 1000
	DefaultCacheMaxResultSize = 1 << 20 // 1MB
)

// Placeholder formats for deferred and page-level content
const (
	DeferredPrefix      = "<!--stl.deferred:"
	DeferredSuffix      = "-->"
	BackHTMLPrefix      = "<!--stl.back:"
	BackHTMLSuffix      = "-->"
	DynamicElementIDFmt = "stl_dynamic_%d"
	DynamicPlaceholder  = `<span id="%s" data-stl-dynamic="%s"></span>`
	DynamicLoaderScript = `<script>stlDynamic(%q);</script>`
)

// Error marker format. All substituted values are HTML-escaped.
const (
	ErrorMarkerFormat = `<span class="stl-error" data-stl-tag="%s">%s: %s: %s</span>`
)

// Page data path separator
const (
	PathSeparator = "."
)

// Cache key construction
const (
	CacheKeySeparator = ":"
	CacheKeyPageFmt   = "%d:%d:%d:%d"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyTag            = "tag"
	MetaKeyRaw            = "raw"
	MetaKeyHandlerKind    = "handler_kind"
	MetaKeyCurrentDepth   = "current_depth"
	MetaKeyMaxDepth       = "max_depth"
	MetaKeyPath           = "path"
	MetaKeyPluginID       = "plugin_id"
	MetaKeyExistingPlugin = "existing_plugin_id"
	MetaKeyPlaceholder    = "placeholder"
	MetaKeyConfigPath     = "config_path"
	MetaKeyPanic          = "panic"
)

// Log message constants
const (
	LogMsgEngineCreated     = "engine created"
	LogMsgRenderStart       = "starting render pass"
	LogMsgRenderEnd         = "render pass complete"
	LogMsgTokenizeFailed    = "tokenizer failed, document left unchanged"
	LogMsgOccurrenceSkipped = "occurrence no longer at its recorded position"
	LogMsgElementDispatched = "element dispatched"
	LogMsgElementUnresolved = "element unresolved"
	LogMsgElementMalformed  = "element fragment malformed"
	LogMsgHandlerFailed     = "handler failed, error marker emitted"
	LogMsgPipelineFailed    = "occurrence pipeline failed, occurrence left unchanged"
	LogMsgMaxDepthExceeded  = "maximum nesting depth exceeded"
	LogMsgCacheHit          = "parsed content cache hit"
	LogMsgCacheMiss         = "parsed content cache miss"
	LogMsgRegistryCreated   = "registry created"
	LogMsgHandlerRegistered = "handler registered"
	LogMsgHandlerCollision  = "handler registration collision - first-come-wins"
	LogMsgPluginInstalled   = "plugin parser installed"
	LogMsgPluginUninstalled = "plugin parsers uninstalled"
	LogMsgPluginCollision   = "plugin parser collision - first-come-wins"
)

// Log field names
const (
	LogFieldTag         = "tag"
	LogFieldTier        = "tier"
	LogFieldRaw         = "raw"
	LogFieldDepth       = "depth"
	LogFieldMaxDepth    = "max_depth"
	LogFieldSource      = "source_length"
	LogFieldOccurrences = "occurrence_count"
	LogFieldReplaced    = "replaced_count"
	LogFieldRemoved     = "removed_count"
	LogFieldInner       = "inner_element"
	LogFieldPluginID    = "plugin_id"
	LogFieldExisting    = "existing_plugin_id"
	LogFieldOffset      = "offset"
	LogFieldCache       = "cache_enabled"
)

// Display limits for log excerpts
const (
	MaxLogExcerptLength = 120
	LogExcerptSuffix    = "..."
)
