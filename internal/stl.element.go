package internal

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoElement is returned when a fragment does not start with a named element.
// Callers treat it as "no match" rather than a failure.
var ErrNoElement = errors.New(ErrMsgNoElement)

// Attribute is a single element attribute as written in the fragment.
type Attribute struct {
	Name  string
	Value string
}

// Node is a structural child of an element: a nested element, text,
// comment, processing instruction or directive.
type Node struct {
	Type       NodeType
	Name       string // Qualified name for elements, target for processing instructions
	Attributes []Attribute
	Data       string // Text, comment, instruction or directive content
	InnerXML   string // Raw content between start and end tag (elements only)
	Children   []*Node
}

// String returns a string representation for debugging
func (n *Node) String() string {
	if n.Type == NodeTypeElement {
		return fmt.Sprintf("Node{%s <%s> attrs=%d children=%d}", n.Type, n.Name, len(n.Attributes), len(n.Children))
	}
	return fmt.Sprintf("Node{%s %q}", n.Type, truncate(n.Data))
}

// Attr returns the value of the named attribute, matched case-insensitively.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return StringValueEmpty, false
}

// Element is the descriptor of one tag occurrence.
type Element struct {
	Name         string            // Lower-cased qualified tag name, the lookup key
	Attributes   map[string]string // Attributes without the reserved isDynamic flag
	IsDynamic    bool
	InnerXML     string // Trimmed raw content between start and end tag
	Children     []*Node
	Raw          string // The occurrence text the descriptor was built from
	InnerElement bool   // Occurrence came from an enclosing element's evaluation
}

// Attr returns the value of the named attribute, matched case-insensitively.
func (e *Element) Attr(name string) (string, bool) {
	if v, ok := e.Attributes[name]; ok {
		return v, true
	}
	for k, v := range e.Attributes {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return StringValueEmpty, false
}

// ElementError reports a fragment that could not be parsed.
type ElementError struct {
	Message string
	Raw     string
	Cause   error
}

// Error implements the error interface.
func (e *ElementError) Error() string {
	result := fmt.Sprintf(ErrFmtWithRaw, e.Message, truncate(e.Raw))
	if e.Cause != nil {
		result = fmt.Sprintf(ErrFmtWithCause, result, e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *ElementError) Unwrap() error {
	return e.Cause
}

// BuildElement parses one raw occurrence into an element descriptor.
// Attribute extraction is single-pass; building the same occurrence twice
// yields identical descriptors.
func BuildElement(raw string, isInnerElement bool) (*Element, error) {
	root, err := parseFragment(raw)
	if err != nil {
		return nil, err
	}

	node := firstChild(root)
	if node == nil || node.Type != NodeTypeElement || node.Name == StringValueEmpty {
		return nil, ErrNoElement
	}

	el := &Element{
		Name:         strings.ToLower(node.Name),
		Attributes:   make(map[string]string, len(node.Attributes)),
		InnerXML:     strings.TrimSpace(node.InnerXML),
		Children:     node.Children,
		Raw:          raw,
		InnerElement: isInnerElement,
	}

	for _, attr := range node.Attributes {
		if strings.EqualFold(attr.Name, AttrIsDynamic) {
			el.IsDynamic = ParseFlag(attr.Value)
			continue
		}
		if attr.Name == StringValueEmpty {
			continue
		}
		value := attr.Value
		if strings.TrimSpace(value) == StringValueEmpty {
			value = StringValueEmpty
		}
		el.Attributes[attr.Name] = value
	}

	return el, nil
}

// ParseFlag parses a boolean attribute value. Only true/false tokens are
// accepted (case-insensitive, surrounding whitespace ignored); anything
// else is false.
func ParseFlag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), BoolTokenTrue)
}

type openElement struct {
	node         *Node
	contentStart int64
}

// parseFragment decodes the wrapped occurrence into a node tree rooted at the
// synthetic wrapper element. RawToken keeps namespace prefixes as written,
// so end tags are matched here instead of by the decoder.
func parseFragment(raw string) (*Node, error) {
	wrapped := WrapRootOpen + raw + WrapRootClose

	d := xml.NewDecoder(strings.NewReader(wrapped))
	d.Strict = true
	d.Entity = xml.HTMLEntity

	var root *Node
	var stack []openElement
	prev := d.InputOffset()

	appendChild := func(n *Node) error {
		if len(stack) == 0 {
			if n.Type == NodeTypeText && strings.TrimSpace(n.Data) == StringValueEmpty {
				return nil
			}
			return &ElementError{Message: ErrMsgUnbalancedXML, Raw: raw}
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		return nil
	}

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ElementError{Message: ErrMsgMalformedXML, Raw: raw, Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Type:       NodeTypeElement,
				Name:       qualifiedName(t.Name),
				Attributes: convertAttributes(t.Attr),
			}
			if root == nil {
				root = n
			} else if err := appendChild(n); err != nil {
				return nil, err
			}
			stack = append(stack, openElement{node: n, contentStart: d.InputOffset()})

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ElementError{Message: ErrMsgUnbalancedXML, Raw: raw}
			}
			top := stack[len(stack)-1]
			if name := qualifiedName(t.Name); name != top.node.Name {
				return nil, &ElementError{
					Message: ErrMsgMalformedXML,
					Raw:     raw,
					Cause:   fmt.Errorf(ErrFmtMismatch, ErrMsgMismatchedEndTag, top.node.Name, name),
				}
			}
			top.node.InnerXML = wrapped[top.contentStart:prev]
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if err := appendChild(&Node{Type: NodeTypeText, Data: string(t)}); err != nil {
				return nil, err
			}

		case xml.Comment:
			if err := appendChild(&Node{Type: NodeTypeComment, Data: string(t)}); err != nil {
				return nil, err
			}

		case xml.ProcInst:
			if err := appendChild(&Node{Type: NodeTypeProcInst, Name: t.Target, Data: string(t.Inst)}); err != nil {
				return nil, err
			}

		case xml.Directive:
			if err := appendChild(&Node{Type: NodeTypeDirective, Data: string(t)}); err != nil {
				return nil, err
			}
		}

		prev = d.InputOffset()
	}

	if len(stack) != 0 || root == nil {
		return nil, &ElementError{Message: ErrMsgUnbalancedXML, Raw: raw}
	}
	return root, nil
}

// firstChild skips whitespace-only text the way a whitespace-insensitive
// XML document load would.
func firstChild(root *Node) *Node {
	for _, c := range root.Children {
		if c.Type == NodeTypeText && strings.TrimSpace(c.Data) == StringValueEmpty {
			continue
		}
		return c
	}
	return nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == StringValueEmpty {
		return n.Local
	}
	return n.Space + NameSeparator + n.Local
}

func convertAttributes(attrs []xml.Attr) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, Attribute{Name: qualifiedName(a.Name), Value: a.Value})
	}
	return out
}

func truncate(s string) string {
	if len(s) > MaxStringDisplayLength {
		return s[:TruncatedStringLength] + TruncationSuffix
	}
	return s
}
