package stl

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// RegisterBuiltins registers the built-in handlers on r:
//   - stl:value renders a page data value
//   - stl:container renders its inner markup
//   - stl:a wraps its rendered inner markup in a link
//   - stl:dynamic always takes the dynamic path
//   - paged listing tags are deferred to page assembly
func RegisterBuiltins(r *Registry) {
	r.MustRegisterParse(TagNameValue, parseValue)
	r.MustRegisterParse(TagNameContainer, parseContainer)
	r.MustRegisterParse(TagNameA, parseAnchor)
	r.MustRegisterParse(TagNameDynamic, parseDynamic)

	for _, name := range []string{
		TagNamePageContents,
		TagNamePageChannels,
		TagNamePageSQLContents,
		TagNamePageItems,
	} {
		r.MustRegisterTranslate(name, EncodeDeferred)
	}
}

// parseValue renders the page value at the dot path in attribute type.
// The value is HTML-escaped unless format="raw".
func parseValue(_ context.Context, page *PageInfo, info *ContextInfo) (string, error) {
	path, ok := info.Attr(AttrType)
	if !ok || path == "" {
		return "", NewMissingAttributeError(TagNameValue, AttrType)
	}

	value := ""
	if _, found := page.Get(path); found {
		value = page.GetString(path)
	} else if def, hasDefault := info.Attr(AttrDefault); hasDefault {
		value = def
	} else {
		return "", NewValueNotFoundError(path)
	}

	if strings.EqualFold(info.AttrDefault(AttrFormat, ""), FormatRaw) {
		return value, nil
	}
	return html.EscapeString(value), nil
}

func parseContainer(ctx context.Context, page *PageInfo, info *ContextInfo) (string, error) {
	return info.RenderInner(ctx, page), nil
}

// parseAnchor renders <a href="..."> around the rendered inner markup. Other
// attributes are copied in name order.
func parseAnchor(ctx context.Context, page *PageInfo, info *ContextInfo) (string, error) {
	href, ok := info.Attr(AttrHref)
	if !ok {
		return "", NewMissingAttributeError(TagNameA, AttrHref)
	}

	attrs := info.Attributes()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(AnchorOpenFmt, html.EscapeString(href)))
	for _, name := range sortedKeys(attrs) {
		if strings.EqualFold(name, AttrHref) {
			continue
		}
		sb.WriteString(fmt.Sprintf(AnchorAttrFmt, html.EscapeString(name), html.EscapeString(attrs[name])))
	}
	sb.WriteString(AnchorOpenClose)
	sb.WriteString(info.RenderInner(ctx, page))
	sb.WriteString(AnchorClose)
	return sb.String(), nil
}

func parseDynamic(ctx context.Context, page *PageInfo, info *ContextInfo) (string, error) {
	return info.RenderDynamic(ctx, page)
}
