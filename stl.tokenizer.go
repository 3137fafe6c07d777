package stl

import (
	"github.com/itsatony/go-stl/internal"
	"go.uber.org/zap"
)

// Occurrence is one complete tag fragment located in a document, with the
// byte range it occupies.
type Occurrence = internal.Occurrence

// Tokenizer discovers tag occurrences in a document. Occurrences must be
// returned in document order and must not overlap.
type Tokenizer interface {
	Discover(document string, isInnerElement bool) ([]Occurrence, error)
}

// TokenizerFunc adapts a function to Tokenizer.
type TokenizerFunc func(document string, isInnerElement bool) ([]Occurrence, error)

// Discover calls f.
func (f TokenizerFunc) Discover(document string, isInnerElement bool) ([]Occurrence, error) {
	return f(document, isInnerElement)
}

// HTMLTokenizer finds elements with a given name prefix using an HTML token
// stream. Same-name elements are balanced, so an occurrence spans from its
// start tag to its matching end tag and nested elements stay inside it.
type HTMLTokenizer struct {
	scanner *internal.Scanner
}

// NewHTMLTokenizer creates a tokenizer for elements whose lower-cased name
// starts with prefix. An empty prefix matches every element.
func NewHTMLTokenizer(prefix string, logger *zap.Logger) *HTMLTokenizer {
	return &HTMLTokenizer{scanner: internal.NewScanner(prefix, logger)}
}

// Discover implements Tokenizer. The inner-element flag does not change how
// elements are found.
func (t *HTMLTokenizer) Discover(document string, _ bool) ([]Occurrence, error) {
	return t.scanner.Scan(document)
}

// Prefix returns the element prefix this tokenizer matches.
func (t *HTMLTokenizer) Prefix() string {
	return t.scanner.Prefix()
}
