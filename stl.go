// Package stl renders STL elements embedded in page templates.
//
// An STL element is a tag with the stl: prefix placed anywhere in an HTML
// template:
//
//	<h1><stl:value type="site.title" default="Untitled"/></h1>
//
// Rendering finds each occurrence, builds a descriptor (name, attributes,
// inner markup, children), resolves the name to a handler and substitutes
// the handler's output for the occurrence text. Everything that is not a
// resolvable occurrence passes through unchanged.
//
// # Basic Usage
//
//	engine := stl.MustNew()
//	page := stl.NewPageInfo(stl.PageIdentity{SiteID: 1}, map[string]any{
//	    "site": map[string]any{"title": "Docs"},
//	})
//	out := engine.Render(ctx, `<h1><stl:value type="site.title"/></h1>`, page, nil)
//	// out: "<h1>Docs</h1>"
//
// # Resolution Order
//
// A lower-cased tag name is resolved against three tiers, first match wins:
//
//  1. Translate handlers receive the raw occurrence text.
//  2. Builtin parse handlers receive the page and a scoped context.
//  3. Plugin parse handlers, looked up through a PluginProvider on every
//     dispatch, receive a PluginParseContext.
//
// An occurrence carrying isDynamic="true" that resolves to tier 2 or 3 is
// handed to the DynamicHandler instead of its normal handler.
//
// # Failures
//
// A builtin or plugin handler that returns an error or panics is replaced
// by an inline error marker built by the ErrorFormatter. Any other failure
// for an occurrence (malformed markup, a failing translate or dynamic
// handler) leaves that occurrence verbatim. Render itself never fails.
//
// # Custom Handlers
//
//	registry := stl.DefaultRegistry(logger)
//	registry.MustRegisterParse("stl:greet", func(ctx context.Context, page *stl.PageInfo, info *stl.ContextInfo) (string, error) {
//	    return "Hello, " + info.AttrDefault("name", "World") + "!", nil
//	})
//	engine := stl.MustNew(stl.WithRegistry(registry))
//
// Handlers that render nested elements call ContextInfo.RenderInner; nested
// output is not finished until the top-level element completes.
package stl
