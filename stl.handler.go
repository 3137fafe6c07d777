package stl

import (
	"context"
	"strings"
)

// TranslateFunc handles translate-tier tags. It receives the raw, unparsed
// occurrence text and does its own parsing or encoding.
type TranslateFunc func(raw string) (string, error)

// ParseFunc handles builtin parse-tier tags. info is a scoped clone carrying
// the occurrence's attributes, inner markup and children.
type ParseFunc func(ctx context.Context, page *PageInfo, info *ContextInfo) (string, error)

// PluginParseFunc handles plugin-provided tags.
type PluginParseFunc func(ctx context.Context, pc *PluginParseContext) (string, error)

// Handler is the resolved handler for one tag name. Exactly one of the
// function fields is set, selected by Kind.
type Handler struct {
	Kind      HandlerKind
	Name      string
	Translate TranslateFunc
	Parse     ParseFunc
	Plugin    PluginParseFunc
}

// PluginParseContext bundles what a plugin handler sees of one occurrence.
type PluginParseContext struct {
	Attributes map[string]string
	InnerXML   string
	Page       *PageInfo
	Info       *ContextInfo // The ambient context, not a scoped clone

	scope *ContextInfo
}

// Attr retrieves an attribute, matching the name case-insensitively.
func (pc *PluginParseContext) Attr(name string) (string, bool) {
	if v, ok := pc.Attributes[name]; ok {
		return v, true
	}
	for k, v := range pc.Attributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// AttrDefault retrieves an attribute with a fallback.
func (pc *PluginParseContext) AttrDefault(name, defaultVal string) string {
	if v, ok := pc.Attr(name); ok && v != "" {
		return v
	}
	return defaultVal
}

// RenderInner renders the occurrence's inner markup as an inner element.
func (pc *PluginParseContext) RenderInner(ctx context.Context) string {
	if pc.scope == nil {
		return pc.InnerXML
	}
	return pc.scope.RenderInner(ctx, pc.Page)
}

// DynamicHandler renders occurrences flagged isDynamic="true". Its output is
// used verbatim in place of the normal handler's.
type DynamicHandler interface {
	RenderDynamic(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (string, error)
}

// DynamicHandlerFunc adapts a function to DynamicHandler.
type DynamicHandlerFunc func(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (string, error)

// RenderDynamic calls f.
func (f DynamicHandlerFunc) RenderDynamic(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (string, error) {
	return f(ctx, raw, page, info)
}

// Finisher post-processes successful output of top-level occurrences.
type Finisher interface {
	Finish(content string, page *PageInfo) string
}

// FinisherFunc adapts a function to Finisher.
type FinisherFunc func(content string, page *PageInfo) string

// Finish calls f.
func (f FinisherFunc) Finish(content string, page *PageInfo) string {
	return f(content, page)
}

// ErrorFormatter turns a handler failure into inline output. The result
// must be safe to embed in the document.
type ErrorFormatter interface {
	FormatError(tagName, raw string, err error) string
}

// ErrorFormatterFunc adapts a function to ErrorFormatter.
type ErrorFormatterFunc func(tagName, raw string, err error) string

// FormatError calls f.
func (f ErrorFormatterFunc) FormatError(tagName, raw string, err error) string {
	return f(tagName, raw, err)
}
