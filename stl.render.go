package stl

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Render replaces every resolvable occurrence in document with its rendered
// output and returns the result. Unresolved and failed occurrences are kept
// verbatim. Render never fails: a tokenizer failure leaves the document
// unchanged and is logged.
//
// Nil page or info are replaced by empty contexts.
func (e *Engine) Render(ctx context.Context, document string, page *PageInfo, info *ContextInfo) string {
	page, info = ensureContexts(page, info)

	e.logger.Debug(LogMsgRenderStart,
		zap.Int(LogFieldSource, len(document)),
		zap.Bool(LogFieldInner, info.IsInnerElement),
		zap.Int(LogFieldDepth, info.depth),
	)

	occurrences, err := e.discover(document, info.IsInnerElement)
	if err != nil {
		e.logger.Warn(LogMsgTokenizeFailed, zap.Error(err))
		return document
	}
	if len(occurrences) == 0 {
		return document
	}

	var out strings.Builder
	out.Grow(len(document))

	cursor, replaced := 0, 0
	for _, occ := range occurrences {
		if !occurrenceAt(document, occ, cursor) {
			e.logger.Debug(LogMsgOccurrenceSkipped,
				zap.String(LogFieldRaw, excerpt(occ.Raw)),
				zap.Int(LogFieldOffset, occ.Start),
			)
			continue
		}

		content, ok := e.replaceOccurrence(ctx, occ, page, info)
		if !ok {
			continue
		}
		out.WriteString(document[cursor:occ.Start])
		out.WriteString(content)
		cursor = occ.End
		replaced++
	}
	out.WriteString(document[cursor:])

	e.logger.Debug(LogMsgRenderEnd,
		zap.Int(LogFieldOccurrences, len(occurrences)),
		zap.Int(LogFieldReplaced, replaced),
	)
	return out.String()
}

// discover runs the tokenizer, converting a panic into an error.
func (e *Engine) discover(document string, isInnerElement bool) (occurrences []Occurrence, err error) {
	defer func() {
		if r := recover(); r != nil {
			occurrences = nil
			err = NewPipelineError(document, fmt.Errorf(ErrFmtPanic, r))
		}
	}()
	return e.tokenizer.Discover(document, isInnerElement)
}

// occurrenceAt reports whether occ still lies, unconsumed, at its recorded
// position in document.
func occurrenceAt(document string, occ Occurrence, cursor int) bool {
	if occ.Start < cursor || occ.Start > occ.End || occ.End > len(document) {
		return false
	}
	return document[occ.Start:occ.End] == occ.Raw
}

// replaceOccurrence is the pipeline failure boundary for one occurrence.
func (e *Engine) replaceOccurrence(ctx context.Context, occ Occurrence, page *PageInfo, info *ContextInfo) (string, bool) {
	content, ok, err := e.parseElement(ctx, occ.Raw, page, info)
	if err != nil {
		e.logger.Warn(LogMsgPipelineFailed,
			zap.String(LogFieldRaw, excerpt(occ.Raw)),
			zap.Int(LogFieldOffset, occ.Start),
			zap.Error(err),
		)
		return "", false
	}
	return content, ok
}
