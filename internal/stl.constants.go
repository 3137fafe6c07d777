package internal

// NodeType identifies element child node types
type NodeType int

// Node type constants
const (
	NodeTypeElement NodeType = iota
	NodeTypeText
	NodeTypeComment
	NodeTypeProcInst
	NodeTypeDirective
)

// Node type string names for debugging
const (
	NodeTypeNameElement   = "ELEMENT"
	NodeTypeNameText      = "TEXT"
	NodeTypeNameComment   = "COMMENT"
	NodeTypeNameProcInst  = "PROCINST"
	NodeTypeNameDirective = "DIRECTIVE"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeElement:
		return NodeTypeNameElement
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypeComment:
		return NodeTypeNameComment
	case NodeTypeProcInst:
		return NodeTypeNameProcInst
	case NodeTypeDirective:
		return NodeTypeNameDirective
	default:
		return NodeTypeNameText
	}
}

// Fragment wrapping constants. The occurrence is wrapped in a synthetic root
// so a self-closing tag and a block tag both parse as a single-root document.
const (
	WrapRootName  = "stlroot"
	WrapRootOpen  = "<" + WrapRootName + ">"
	WrapRootClose = "</" + WrapRootName + ">"
)

// Reserved attribute names
const (
	AttrIsDynamic = "isDynamic"
)

// Boolean token accepted for reserved flags
const (
	BoolTokenTrue = "true"
)

// Name formatting
const (
	NameSeparator = ":"
)

// Default element prefix recognised by the tokenizer
const (
	DefaultElementPrefix = "stl:"
)

// Log message constants
const (
	LogMsgScanStart   = "starting element scan"
	LogMsgScanEnd     = "element scan complete"
	LogMsgUnclosedTag = "start tag without matching end tag"
)

// Log field names
const (
	LogFieldSource      = "source_length"
	LogFieldOccurrences = "occurrence_count"
	LogFieldTag         = "tag"
	LogFieldOffset      = "offset"
	LogFieldPrefix      = "prefix"
)

// Display limits for String() helpers
const (
	MaxStringDisplayLength = 50
	TruncatedStringLength  = 47
	TruncationSuffix       = "..."
)

// Error message constants
const (
	ErrMsgNoElement        = "fragment has no named element"
	ErrMsgMalformedXML     = "malformed element fragment"
	ErrMsgUnbalancedXML    = "unbalanced element fragment"
	ErrMsgMismatchedEndTag = "mismatched end tag"
	ErrMsgScanFailed       = "element scan failed"
)

// Error format strings
const (
	ErrFmtWithRaw   = "%s: %s"
	ErrFmtWithCause = "%s: %v"
	ErrFmtMismatch  = "%s: expected </%s>, got </%s>"
)

// Empty string value helper
const (
	StringValueEmpty = ""
)
