package stl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/itsatony/go-stl/internal"
)

// Node is a structural child of an element occurrence.
type Node = internal.Node

// PageIdentity identifies the page being rendered.
type PageIdentity struct {
	SiteID       int
	ChannelID    int
	ContentID    int
	TemplateID   int
	TemplateType string
}

// PageInfo carries page-level state shared by every element of one page
// render: its identity, page data, a unique id counter and the queue of
// page-level ("back") HTML emitted once the top-level element is finished.
type PageInfo struct {
	identity PageIdentity
	data     map[string]any
	mu       sync.RWMutex
	uniqueID atomic.Int64
	backMu   sync.Mutex
	backHTML map[string]string
}

// NewPageInfo creates page state with the given identity and data.
// If data is nil, an empty map is used.
func NewPageInfo(identity PageIdentity, data map[string]any) *PageInfo {
	if data == nil {
		data = make(map[string]any)
	}
	return &PageInfo{
		identity: identity,
		data:     data,
		backHTML: make(map[string]string),
	}
}

// Identity returns the page identity.
func (p *PageInfo) Identity() PageIdentity {
	return p.identity
}

// IsAnonymous reports whether the page has a zero identity.
func (p *PageInfo) IsAnonymous() bool {
	return p.identity == PageIdentity{}
}

// CacheKey returns the identity portion of parsed-content cache keys.
func (p *PageInfo) CacheKey() string {
	id := p.identity
	return fmt.Sprintf(CacheKeyPageFmt, id.SiteID, id.ChannelID, id.ContentID, id.TemplateID)
}

// Get retrieves a page value by dot-notation path (e.g., "site.title").
func (p *PageInfo) Get(path string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if path == "" {
		return nil, false
	}

	var current any = p.data
	for _, part := range strings.Split(path, PathSeparator) {
		if part == "" {
			continue
		}
		switch v := current.(type) {
		case map[string]any:
			val, ok := v[part]
			if !ok {
				return nil, false
			}
			current = val
		case map[string]string:
			val, ok := v[part]
			if !ok {
				return nil, false
			}
			current = val
		default:
			return nil, false
		}
	}
	return current, true
}

// GetString retrieves a page value formatted as a string.
// Returns empty string if not found.
func (p *PageInfo) GetString(path string) string {
	val, ok := p.Get(path)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

// Set sets a top-level page value.
func (p *PageInfo) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.data[key] = value
}

// NextUniqueID returns a page-unique, monotonically increasing id.
func (p *PageInfo) NextUniqueID() int64 {
	return p.uniqueID.Add(1)
}

// AddBackHTML queues page-level HTML and returns the placeholder that the
// finishing transform replaces with it.
func (p *PageInfo) AddBackHTML(html string) string {
	key := fmt.Sprintf("%d", p.NextUniqueID())
	p.backMu.Lock()
	p.backHTML[key] = html
	p.backMu.Unlock()
	return BackHTMLPrefix + key + BackHTMLSuffix
}

// BackHTML returns the page-level HTML queued under key.
func (p *PageInfo) BackHTML(key string) (string, bool) {
	p.backMu.Lock()
	defer p.backMu.Unlock()

	html, ok := p.backHTML[key]
	return html, ok
}

// renderer is implemented by the engine; contexts use it for nested renders.
type renderer interface {
	Render(ctx context.Context, document string, page *PageInfo, info *ContextInfo) string
	renderDynamic(ctx context.Context, raw string, page *PageInfo, info *ContextInfo) (string, error)
}

// ContextInfo is the ambient render state seen by handlers. Dispatch never
// mutates it; each occurrence is handed a scoped clone carrying that
// occurrence's attributes, inner markup and children.
type ContextInfo struct {
	IsInnerElement bool

	raw        string
	attributes map[string]string
	innerXML   string
	children   []*Node
	parent     *ContextInfo
	depth      int
	renderer   renderer
}

// NewContextInfo creates a top-level render context.
func NewContextInfo() *ContextInfo {
	return &ContextInfo{attributes: make(map[string]string)}
}

// Clone returns a scoped copy carrying one occurrence's descriptor data.
// The receiver is not modified.
func (c *ContextInfo) Clone(raw string, attributes map[string]string, innerXML string, children []*Node) *ContextInfo {
	attrs := make(map[string]string, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}
	return &ContextInfo{
		IsInnerElement: c.IsInnerElement,
		raw:            raw,
		attributes:     attrs,
		innerXML:       innerXML,
		children:       children,
		parent:         c,
		depth:          c.depth + 1,
		renderer:       c.renderer,
	}
}

// WithInnerElement returns a copy with the inner-element flag set.
func (c *ContextInfo) WithInnerElement(inner bool) *ContextInfo {
	clone := *c
	clone.IsInnerElement = inner
	return &clone
}

// withRenderer returns a copy bound to the given renderer.
func (c *ContextInfo) withRenderer(r renderer) *ContextInfo {
	clone := *c
	clone.renderer = r
	return &clone
}

// Raw returns the occurrence text this context was cloned for.
func (c *ContextInfo) Raw() string {
	return c.raw
}

// InnerXML returns the trimmed inner markup of the current occurrence.
func (c *ContextInfo) InnerXML() string {
	return c.innerXML
}

// Children returns the structural child nodes of the current occurrence.
func (c *ContextInfo) Children() []*Node {
	return c.children
}

// Parent returns the context this one was cloned from, or nil at top level.
func (c *ContextInfo) Parent() *ContextInfo {
	return c.parent
}

// Depth returns how many scoped clones separate this context from the top.
func (c *ContextInfo) Depth() int {
	return c.depth
}

// Attributes returns a copy of the current occurrence's attributes.
func (c *ContextInfo) Attributes() map[string]string {
	attrs := make(map[string]string, len(c.attributes))
	for k, v := range c.attributes {
		attrs[k] = v
	}
	return attrs
}

// Attr retrieves an attribute of the current occurrence, matching the name
// case-insensitively.
func (c *ContextInfo) Attr(name string) (string, bool) {
	if v, ok := c.attributes[name]; ok {
		return v, true
	}
	for k, v := range c.attributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// AttrDefault retrieves an attribute with a fallback.
func (c *ContextInfo) AttrDefault(name, defaultVal string) string {
	if v, ok := c.Attr(name); ok && v != "" {
		return v
	}
	return defaultVal
}

// RenderInner renders the current occurrence's inner markup as an inner
// element: nested occurrences are resolved, but the finishing transform is
// left to the enclosing top-level element. Without a bound renderer the
// inner markup is returned unchanged.
func (c *ContextInfo) RenderInner(ctx context.Context, page *PageInfo) string {
	return c.RenderContent(ctx, c.innerXML, page)
}

// RenderContent renders arbitrary markup in this context's inner scope.
func (c *ContextInfo) RenderContent(ctx context.Context, content string, page *PageInfo) string {
	if c.renderer == nil {
		return content
	}
	return c.renderer.Render(ctx, content, page, c.WithInnerElement(true))
}

// RenderDynamic hands the current occurrence to the engine's dynamic handler,
// with the enclosing context as its ambient context. Without a bound
// renderer the raw occurrence is returned unchanged.
func (c *ContextInfo) RenderDynamic(ctx context.Context, page *PageInfo) (string, error) {
	if c.renderer == nil {
		return c.raw, nil
	}
	ambient := c.parent
	if ambient == nil {
		ambient = c
	}
	return c.renderer.renderDynamic(ctx, c.raw, page, ambient)
}
