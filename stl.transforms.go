package stl

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var deferredEncoding = base64.RawURLEncoding

// EncodeDeferred hides a raw occurrence inside an HTML comment placeholder so
// a later page-assembly pass can restore it. Used as the translate handler
// for paged listing tags.
func EncodeDeferred(raw string) (string, error) {
	return DeferredPrefix + deferredEncoding.EncodeToString([]byte(raw)) + DeferredSuffix, nil
}

// DecodeDeferred restores the raw occurrence from a placeholder produced by
// EncodeDeferred.
func DecodeDeferred(placeholder string) (string, error) {
	if !strings.HasPrefix(placeholder, DeferredPrefix) || !strings.HasSuffix(placeholder, DeferredSuffix) {
		return "", NewInvalidPlaceholderError(placeholder, nil)
	}
	payload := placeholder[len(DeferredPrefix) : len(placeholder)-len(DeferredSuffix)]
	decoded, err := deferredEncoding.DecodeString(payload)
	if err != nil {
		return "", NewInvalidPlaceholderError(placeholder, err)
	}
	return string(decoded), nil
}

// ExpandDeferred replaces every deferred placeholder in document with
// expand(raw). Placeholders that fail to decode are left in place and the
// first decode error is returned with the expanded document.
func ExpandDeferred(document string, expand func(raw string) string) (string, error) {
	var sb strings.Builder
	var firstErr error
	rest := document

	for {
		start := strings.Index(rest, DeferredPrefix)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(DeferredPrefix):], DeferredSuffix)
		if end < 0 {
			break
		}
		end += start + len(DeferredPrefix) + len(DeferredSuffix)

		sb.WriteString(rest[:start])
		placeholder := rest[start:end]
		raw, err := DecodeDeferred(placeholder)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			sb.WriteString(placeholder)
		} else {
			sb.WriteString(expand(raw))
		}
		rest = rest[end:]
	}

	sb.WriteString(rest)
	return sb.String(), firstErr
}

// PlaceholderDynamicHandler is the default dynamic handler. It emits an empty
// element carrying the encoded occurrence, and queues a loader script as
// page-level HTML so it is written once the top-level element is finished.
type PlaceholderDynamicHandler struct{}

// RenderDynamic implements DynamicHandler.
func (PlaceholderDynamicHandler) RenderDynamic(_ context.Context, raw string, page *PageInfo, _ *ContextInfo) (string, error) {
	id := fmt.Sprintf(DynamicElementIDFmt, page.NextUniqueID())
	placeholder := fmt.Sprintf(DynamicPlaceholder, id, deferredEncoding.EncodeToString([]byte(raw)))
	return placeholder + page.AddBackHTML(fmt.Sprintf(DynamicLoaderScript, id)), nil
}

// BackHTMLFinisher is the default finishing transform: it replaces page-level
// HTML placeholders queued with PageInfo.AddBackHTML. Unknown placeholders
// are left untouched.
type BackHTMLFinisher struct{}

// Finish implements Finisher.
func (BackHTMLFinisher) Finish(content string, page *PageInfo) string {
	if page == nil || !strings.Contains(content, BackHTMLPrefix) {
		return content
	}

	var sb strings.Builder
	rest := content
	for {
		start := strings.Index(rest, BackHTMLPrefix)
		if start < 0 {
			break
		}
		keyStart := start + len(BackHTMLPrefix)
		keyLen := strings.Index(rest[keyStart:], BackHTMLSuffix)
		if keyLen < 0 {
			break
		}
		end := keyStart + keyLen + len(BackHTMLSuffix)

		sb.WriteString(rest[:start])
		if backHTML, ok := page.BackHTML(rest[keyStart : keyStart+keyLen]); ok {
			sb.WriteString(backHTML)
		} else {
			sb.WriteString(rest[start:end])
		}
		rest = rest[end:]
	}

	sb.WriteString(rest)
	return sb.String()
}

// MarkerErrorFormatter is the default error formatter. It renders a visible
// span naming the tag, the raw occurrence and the error, all HTML-escaped so
// the marker cannot introduce new tag syntax.
type MarkerErrorFormatter struct{}

// FormatError implements ErrorFormatter.
func (MarkerErrorFormatter) FormatError(tagName, raw string, err error) string {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	name := html.EscapeString(tagName)
	return fmt.Sprintf(ErrorMarkerFormat, name, name, html.EscapeString(raw), html.EscapeString(detail))
}
