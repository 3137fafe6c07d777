package internal

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Occurrence is one complete tag fragment located in a document.
// Start and End are byte offsets into the scanned document.
type Occurrence struct {
	Raw   string
	Start int
	End   int
}

// String returns a string representation for debugging
func (o Occurrence) String() string {
	return fmt.Sprintf("Occurrence{%q @ %d-%d}", truncate(o.Raw), o.Start, o.End)
}

// scannedTag is a start, end or self-closing tag matching the scanner prefix.
type scannedTag struct {
	kind  html.TokenType
	name  string
	start int
	end   int
}

// Scanner discovers element occurrences in HTML-ish documents.
type Scanner struct {
	prefix string
	logger *zap.Logger
}

// NewScanner creates a scanner for elements whose name starts with prefix.
// An empty prefix matches every element.
func NewScanner(prefix string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		prefix: strings.ToLower(prefix),
		logger: logger,
	}
}

// Prefix returns the lower-cased element prefix.
func (s *Scanner) Prefix() string {
	return s.prefix
}

// Scan returns the top-level occurrences of the document in document order.
// Elements nested inside an occurrence belong to that occurrence and are not
// reported separately. A start tag without a matching end tag is reported on
// its own.
func (s *Scanner) Scan(document string) ([]Occurrence, error) {
	s.logger.Debug(LogMsgScanStart, zap.Int(LogFieldSource, len(document)), zap.String(LogFieldPrefix, s.prefix))

	tags, err := s.collectTags(document)
	if err != nil {
		return nil, err
	}

	var occurrences []Occurrence
	for i := 0; i < len(tags); i++ {
		tag := tags[i]
		switch tag.kind {
		case html.SelfClosingTagToken:
			occurrences = append(occurrences, newOccurrence(document, tag.start, tag.end))

		case html.StartTagToken:
			j := matchEndTag(tags, i)
			if j < 0 {
				s.logger.Debug(LogMsgUnclosedTag, zap.String(LogFieldTag, tag.name), zap.Int(LogFieldOffset, tag.start))
				occurrences = append(occurrences, newOccurrence(document, tag.start, tag.end))
				continue
			}
			occurrences = append(occurrences, newOccurrence(document, tag.start, tags[j].end))
			i = j
		}
	}

	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldOccurrences, len(occurrences)))
	return occurrences, nil
}

// collectTags walks the html token stream and records matching tags with
// their byte ranges. Raw text mode is disabled after every start tag so tags
// inside title, textarea or script bodies are still seen.
func (s *Scanner) collectTags(document string) ([]scannedTag, error) {
	z := html.NewTokenizer(strings.NewReader(document))
	var tags []scannedTag
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, &ElementError{Message: ErrMsgScanFailed, Cause: err}
			}
			return tags, nil
		}

		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if s.matches(string(name)) {
				tags = append(tags, scannedTag{kind: tt, name: string(name), start: start, end: offset})
			}
		}

		if tt == html.StartTagToken {
			z.NextIsNotRawText()
		}
	}
}

func (s *Scanner) matches(name string) bool {
	return name != StringValueEmpty && strings.HasPrefix(name, s.prefix)
}

// matchEndTag finds the end tag closing tags[i], balancing nested tags of the
// same name. Returns -1 when there is none.
func matchEndTag(tags []scannedTag, i int) int {
	depth := 0
	for j := i + 1; j < len(tags); j++ {
		if tags[j].name != tags[i].name {
			continue
		}
		switch tags[j].kind {
		case html.StartTagToken:
			depth++
		case html.EndTagToken:
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return -1
}

func newOccurrence(document string, start, end int) Occurrence {
	return Occurrence{Raw: document[start:end], Start: start, End: end}
}
