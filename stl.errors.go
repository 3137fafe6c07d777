package stl

import (
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Element errors
	ErrMsgMalformedFragment = "element fragment is malformed"

	// Dispatch errors
	ErrMsgHandlerFailed    = "handler execution failed"
	ErrMsgHandlerPanicked  = "handler panicked"
	ErrMsgPipelineFailed   = "occurrence processing failed"
	ErrMsgDynamicFailed    = "dynamic handler failed"
	ErrMsgTranslateFailed  = "translate handler failed"
	ErrMsgMaxDepthExceeded = "maximum nesting depth exceeded"

	// Registry errors
	ErrMsgEmptyTagName   = "tag name cannot be empty"
	ErrMsgNilHandler     = "handler cannot be nil"
	ErrMsgHandlerExists  = "handler already registered for tag"
	ErrMsgEmptyPluginID  = "plugin id cannot be empty"
	ErrMsgPluginConflict = "tag already provided by another plugin"

	// Page data errors
	ErrMsgValueNotFound = "page value not found"
	ErrMsgMissingAttr   = "required attribute missing"

	// Deferred content errors
	ErrMsgInvalidPlaceholder = "invalid deferred placeholder"

	// Configuration errors
	ErrMsgConfigReadFailed  = "failed to read config file"
	ErrMsgConfigParseFailed = "failed to parse config"
	ErrMsgInvalidLogLevel   = "invalid log level"
	ErrMsgInvalidMaxDepth   = "max depth cannot be negative"

	ErrMsgInvalidCacheTTL     = "cache ttl cannot be negative"
	ErrMsgInvalidCacheEntries = "cache max entries cannot be negative"
	ErrMsgInvalidCacheSize    = "cache max result size cannot be negative"
)

// Error format strings
const (
	ErrFmtPanic = "panic: %v"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "STL_PARSE"
	ErrCodeHandler  = "STL_HANDLER"
	ErrCodePipeline = "STL_PIPELINE"
	ErrCodeRegistry = "STL_REGISTRY"
	ErrCodeConfig   = "STL_CONFIG"
	ErrCodeDeferred = "STL_DEFERRED"
)

// NewMalformedFragmentError creates an error for an occurrence that does not
// parse into a single named element.
func NewMalformedFragmentError(raw string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeParse, ErrMsgMalformedFragment).
		WithMetadata(MetaKeyRaw, excerpt(raw))
}

// NewHandlerError creates an error for a failing builtin or plugin handler.
func NewHandlerError(tagName string, kind HandlerKind, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeHandler, ErrMsgHandlerFailed).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyHandlerKind, kind.String())
}

// NewHandlerPanicError creates an error for a handler that panicked.
func NewHandlerPanicError(tagName string, recovered any) error {
	return cuserr.WrapStdError(fmt.Errorf(ErrFmtPanic, recovered), ErrCodeHandler, ErrMsgHandlerPanicked).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyPanic, fmt.Sprintf("%v", recovered))
}

// NewPipelineError creates an error for a failure outside the handler
// boundary; the occurrence is left unchanged.
func NewPipelineError(raw string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodePipeline, ErrMsgPipelineFailed).
		WithMetadata(MetaKeyRaw, excerpt(raw))
}

// NewDynamicHandlerError creates an error for a failing dynamic handler.
func NewDynamicHandlerError(tagName string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodePipeline, ErrMsgDynamicFailed).
		WithMetadata(MetaKeyTag, tagName)
}

// NewTranslateError creates an error for a failing translate handler.
func NewTranslateError(tagName string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodePipeline, ErrMsgTranslateFailed).
		WithMetadata(MetaKeyTag, tagName)
}

// NewMaxDepthError creates an error for exceeding the nesting limit
func NewMaxDepthError(depth, maxDepth int) error {
	return cuserr.NewValidationError(ErrCodePipeline, ErrMsgMaxDepthExceeded).
		WithMetadata(MetaKeyCurrentDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
}

// NewEmptyTagNameError creates an error for registering an unnamed handler
func NewEmptyTagNameError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyTagName)
}

// NewNilHandlerError creates an error for registering a nil handler
func NewNilHandlerError(tagName string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgNilHandler).
		WithMetadata(MetaKeyTag, tagName)
}

// NewHandlerExistsError creates a registration collision error
func NewHandlerExistsError(tagName string, kind HandlerKind) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgHandlerExists).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyHandlerKind, kind.String())
}

// NewEmptyPluginIDError creates an error for installing without a plugin id
func NewEmptyPluginIDError() error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgEmptyPluginID)
}

// NewPluginConflictError creates an error for two plugins claiming one tag
func NewPluginConflictError(tagName, pluginID, existingID string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgPluginConflict).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyPluginID, pluginID).
		WithMetadata(MetaKeyExistingPlugin, existingID)
}

// NewValueNotFoundError creates an error for a missing page data path
func NewValueNotFoundError(path string) error {
	return cuserr.NewNotFoundError(MetaKeyPath, ErrMsgValueNotFound).
		WithMetadata(MetaKeyPath, path)
}

// NewMissingAttributeError creates a missing required attribute error
func NewMissingAttributeError(tagName, attrName string) error {
	return cuserr.NewValidationError(ErrCodeHandler, ErrMsgMissingAttr).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyPath, attrName)
}

// NewInvalidPlaceholderError creates an error for an undecodable placeholder
func NewInvalidPlaceholderError(placeholder string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeDeferred, ErrMsgInvalidPlaceholder)
	} else {
		err = cuserr.NewValidationError(ErrCodeDeferred, ErrMsgInvalidPlaceholder)
	}
	return err.WithMetadata(MetaKeyPlaceholder, excerpt(placeholder))
}

// NewConfigError creates a configuration loading error
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyConfigPath, path)
}

// excerpt shortens raw occurrence text for metadata and logs.
func excerpt(s string) string {
	if len(s) > MaxLogExcerptLength {
		return s[:MaxLogExcerptLength-len(LogExcerptSuffix)] + LogExcerptSuffix
	}
	return s
}
