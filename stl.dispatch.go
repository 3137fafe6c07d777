package stl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itsatony/go-stl/internal"
	"go.uber.org/zap"
)

// Element is the parsed descriptor of one occurrence.
type Element = internal.Element

// BuildElement parses a raw occurrence into its descriptor: lower-cased tag
// name, attributes without the reserved isDynamic flag, the dynamic flag,
// trimmed inner markup and child nodes.
func BuildElement(raw string, isInnerElement bool) (*Element, error) {
	el, err := internal.BuildElement(raw, isInnerElement)
	if err != nil {
		if errors.Is(err, internal.ErrNoElement) {
			return nil, err
		}
		return nil, NewMalformedFragmentError(raw, err)
	}
	return el, nil
}

// IsNoElement reports whether err means the fragment has no named element.
func IsNoElement(err error) bool {
	return errors.Is(err, internal.ErrNoElement)
}

// ParseElement resolves one raw occurrence and returns its rendered output.
// ok is false when the tag is unresolved or processing failed; callers then
// keep the raw text.
func (e *Engine) ParseElement(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (string, bool) {
	page, info = ensureContexts(page, info)

	content, ok, err := e.parseElement(ctx, raw, page, info)
	if err != nil {
		e.logger.Warn(LogMsgPipelineFailed, zap.String(LogFieldRaw, excerpt(raw)), zap.Error(err))
		return "", false
	}
	return content, ok
}

// parseElement is the per-occurrence pipeline: depth guard, cache, descriptor
// build, resolution, dispatch and finishing. A returned error means the
// occurrence must be left unchanged.
func (e *Engine) parseElement(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (content string, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			content, ok = "", false
			err = NewPipelineError(raw, fmt.Errorf(ErrFmtPanic, r))
		}
	}()

	if e.maxDepth > 0 && info.depth >= e.maxDepth {
		e.logger.Warn(LogMsgMaxDepthExceeded,
			zap.String(LogFieldRaw, excerpt(raw)),
			zap.Error(NewMaxDepthError(info.depth, e.maxDepth)),
		)
		return "", false, nil
	}

	// Anonymous pages share one identity key, so their output is not reusable
	useCache := e.cache != nil && !page.IsAnonymous()
	if useCache {
		if cached, hit := e.cache.Get(raw, page, info); hit {
			e.logger.Debug(LogMsgCacheHit, zap.String(LogFieldRaw, excerpt(raw)))
			return e.finish(cached, page, info), true, nil
		}
		e.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldRaw, excerpt(raw)))
	}

	el, err := internal.BuildElement(raw, info.IsInnerElement)
	if err != nil {
		if errors.Is(err, internal.ErrNoElement) {
			e.logger.Debug(LogMsgElementUnresolved, zap.String(LogFieldRaw, excerpt(raw)))
			return "", false, nil
		}
		e.logger.Debug(LogMsgElementMalformed, zap.String(LogFieldRaw, excerpt(raw)), zap.Error(err))
		return "", false, NewMalformedFragmentError(raw, err)
	}

	output, cacheable, resolved, err := e.dispatch(ctx, el, page, info)
	if err != nil || !resolved {
		return "", false, err
	}

	// Back HTML placeholders refer to state of this PageInfo only
	if cacheable && useCache && !strings.Contains(output, BackHTMLPrefix) {
		e.cache.Set(raw, page, info, output)
	}
	return e.finish(output, page, info), true, nil
}

// finish applies the finishing transform to top-level output only; inner
// output is finished by the enclosing element.
func (e *Engine) finish(content string, page *PageInfo, info *ContextInfo) string {
	if info.IsInnerElement {
		return content
	}
	return e.finisher.Finish(content, page)
}

// resolve looks a lower-cased tag name up in tier order: translate, builtin
// parse, plugin parse.
func (e *Engine) resolve(name string) (Handler, bool) {
	if h, ok := e.registry.Lookup(name); ok {
		return h, true
	}
	if e.plugins == nil {
		return Handler{}, false
	}
	if fn, ok := e.plugins.RegisteredParsers()[name]; ok && fn != nil {
		return Handler{Kind: HandlerKindPlugin, Name: name, Plugin: fn}, true
	}
	return Handler{}, false
}

// dispatch runs the resolved handler for el. resolved is false when no tier
// handles the name. cacheable is true only for successful non-dynamic parse
// and plugin output.
func (e *Engine) dispatch(ctx context.Context, el *Element, page *PageInfo, info *ContextInfo) (output string, cacheable, resolved bool, err error) {
	h, ok := e.resolve(el.Name)
	if !ok {
		e.logger.Debug(LogMsgElementUnresolved, zap.String(LogFieldTag, el.Name))
		return "", false, false, nil
	}

	if h.Kind == HandlerKindTranslate {
		e.logger.Debug(LogMsgElementDispatched, zap.String(LogFieldTag, el.Name), zap.Stringer(LogFieldTier, h.Kind))
		out, err := h.Translate(el.Raw)
		if err != nil {
			return "", false, true, NewTranslateError(el.Name, err)
		}
		return out, false, true, nil
	}

	if el.IsDynamic {
		e.logger.Debug(LogMsgElementDispatched, zap.String(LogFieldTag, el.Name), zap.String(LogFieldTier, HandlerKindNameDynamic))
		out, err := e.renderDynamic(ctx, el.Raw, page, info)
		if err != nil {
			return "", false, true, NewDynamicHandlerError(el.Name, err)
		}
		return out, false, true, nil
	}

	e.logger.Debug(LogMsgElementDispatched,
		zap.String(LogFieldTag, el.Name),
		zap.Stringer(LogFieldTier, h.Kind),
		zap.Int(LogFieldDepth, info.depth),
	)
	out, failed := e.invoke(ctx, h, el, page, info)
	return out, !failed, true, nil
}

// invoke calls a builtin or plugin handler inside the handler failure
// boundary: an error or panic becomes an inline error marker.
func (e *Engine) invoke(ctx context.Context, h Handler, el *Element, page *PageInfo, info *ContextInfo) (output string, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn(LogMsgHandlerFailed, zap.String(LogFieldTag, el.Name), zap.Error(NewHandlerPanicError(el.Name, r)))
			output, failed = e.formatter.FormatError(el.Name, el.Raw, fmt.Errorf(ErrFmtPanic, r)), true
		}
	}()

	scope := info.Clone(el.Raw, el.Attributes, el.InnerXML, el.Children).withRenderer(e)

	var err error
	switch h.Kind {
	case HandlerKindParse:
		output, err = h.Parse(ctx, page, scope)
	case HandlerKindPlugin:
		pc := &PluginParseContext{
			Attributes: scope.Attributes(),
			InnerXML:   el.InnerXML,
			Page:       page,
			Info:       info,
			scope:      scope,
		}
		output, err = h.Plugin(ctx, pc)
	}

	if err != nil {
		e.logger.Warn(LogMsgHandlerFailed, zap.String(LogFieldTag, el.Name), zap.Error(NewHandlerError(el.Name, h.Kind, err)))
		return e.formatter.FormatError(el.Name, el.Raw, err), true
	}
	return output, false
}

func (e *Engine) renderDynamic(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (string, error) {
	return e.dynamic.RenderDynamic(ctx, raw, page, info)
}
