package stl

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Render_PassThrough(t *testing.T) {
	engine := MustNew(WithRegistry(NewRegistry(nil)))
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "plain text", input: "Hello, world!"},
		{name: "html", input: `<div class="a"><p>x &amp; y</p></div>`},
		{name: "unresolved tags", input: `<p><stl:unknown a="1"/> and <stl:other>x</stl:other></p>`},
		{name: "malformed tag", input: `<stl:unknown title="a & b"/> tail`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := engine.Render(ctx, tt.input, nil, nil)
			assert.Equal(t, tt.input, once)
			assert.Equal(t, once, engine.Render(ctx, once, nil, nil))
		})
	}
}

func TestEngine_Render_Substitution(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.RegisterParse("stl:upper", func(_ context.Context, _ *PageInfo, info *ContextInfo) (string, error) {
		return "[" + info.AttrDefault("v", "?") + "]", nil
	}))
	engine := MustNew(WithRegistry(registry))

	out := engine.Render(context.Background(), `a <stl:upper v="1"/> b <stl:nope/> c <STL:UPPER v="2"></STL:UPPER> d`, nil, nil)
	assert.Equal(t, `a [1] b <stl:nope/> c [2] d`, out)
}

func TestEngine_Render_DuplicateOccurrenceText(t *testing.T) {
	registry := NewRegistry(nil)
	var n atomic.Int32
	require.NoError(t, registry.RegisterParse("stl:n", func(context.Context, *PageInfo, *ContextInfo) (string, error) {
		return strconv.Itoa(int(n.Add(1))), nil
	}))
	engine := MustNew(WithRegistry(registry))

	out := engine.Render(context.Background(), `<stl:n/> <stl:n/> <stl:n/>`, nil, nil)
	assert.Equal(t, "1 2 3", out)
}

func TestEngine_Render_OutputContainingLaterOccurrenceText(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.RegisterParse("stl:echo", func(context.Context, *PageInfo, *ContextInfo) (string, error) {
		return `<stl:b/>`, nil
	}))
	require.NoError(t, registry.RegisterParse("stl:b", constParse("B")))
	engine := MustNew(WithRegistry(registry))

	// Output of the first occurrence is not re-scanned in the same pass
	out := engine.Render(context.Background(), `<stl:echo/> <stl:b/>`, nil, nil)
	assert.Equal(t, `<stl:b/> B`, out)
}

func TestEngine_Render_FaultIsolation(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.RegisterParse("stl:ok", constParse("OK")))
	require.NoError(t, registry.RegisterParse("stl:bad", func(context.Context, *PageInfo, *ContextInfo) (string, error) {
		return "", errors.New("boom")
	}))
	engine, logs := newObservedEngine(t, WithRegistry(registry))

	out := engine.Render(context.Background(), `<stl:ok/>|<stl:bad/>|<stl:ok title="a & b"/>|<stl:ok/>`, nil, nil)

	assert.Contains(t, out, `class="stl-error"`)
	assert.Contains(t, out, `|<stl:ok title="a & b"/>|`)
	assert.True(t, strings.HasPrefix(out, "OK|"))
	assert.True(t, strings.HasSuffix(out, "|OK"))
	assert.Equal(t, 1, logs.FilterMessage(LogMsgHandlerFailed).Len())
	assert.Equal(t, 1, logs.FilterMessage(LogMsgPipelineFailed).Len())
}

func TestEngine_Render_TokenizerFailure(t *testing.T) {
	ctx := context.Background()
	doc := `<stl:value type="x"/>`

	t.Run("error", func(t *testing.T) {
		tokenizer := TokenizerFunc(func(string, bool) ([]Occurrence, error) {
			return nil, errors.New("cannot tokenize")
		})
		engine, logs := newObservedEngine(t, WithTokenizer(tokenizer))

		assert.Equal(t, doc, engine.Render(ctx, doc, nil, nil))
		assert.Equal(t, 1, logs.FilterMessage(LogMsgTokenizeFailed).Len())
	})

	t.Run("panic", func(t *testing.T) {
		tokenizer := TokenizerFunc(func(string, bool) ([]Occurrence, error) {
			panic("tokenizer exploded")
		})
		engine := MustNew(WithTokenizer(tokenizer))

		assert.Equal(t, doc, engine.Render(ctx, doc, nil, nil))
	})
}

func TestEngine_Render_SkipsStaleOccurrences(t *testing.T) {
	doc := `ab <stl:x/> cd`
	tokenizer := TokenizerFunc(func(string, bool) ([]Occurrence, error) {
		return []Occurrence{
			{Raw: `<stl:x/>`, Start: 3, End: 11},
			{Raw: `<stl:x/>`, Start: 5, End: 13},  // overlaps the first
			{Raw: `<stl:y/>`, Start: 11, End: 14}, // text differs
			{Raw: `cd`, Start: 12, End: 40},       // out of range
		}, nil
	})
	registry := NewRegistry(nil)
	require.NoError(t, registry.RegisterParse("stl:x", constParse("X")))
	engine, logs := newObservedEngine(t, WithRegistry(registry), WithTokenizer(tokenizer))

	assert.Equal(t, `ab X cd`, engine.Render(context.Background(), doc, nil, nil))
	assert.Equal(t, 3, logs.FilterMessage(LogMsgOccurrenceSkipped).Len())
}

func TestEngine_Render_ElementPrefix(t *testing.T) {
	registry := NewRegistry(nil)
	require.NoError(t, registry.RegisterParse("cms:title", constParse("T")))
	require.NoError(t, registry.RegisterParse("stl:title", constParse("S")))
	engine := MustNew(WithRegistry(registry), WithElementPrefix("cms:"))

	out := engine.Render(context.Background(), `<cms:title/> <stl:title/>`, nil, nil)
	assert.Equal(t, `T <stl:title/>`, out)
}

func TestOccurrenceAt(t *testing.T) {
	doc := "0123<x/>89"
	occ := Occurrence{Raw: "<x/>", Start: 4, End: 8}

	assert.True(t, occurrenceAt(doc, occ, 0))
	assert.True(t, occurrenceAt(doc, occ, 4))
	assert.False(t, occurrenceAt(doc, occ, 5))
	assert.False(t, occurrenceAt(doc, Occurrence{Raw: "<x/>", Start: 5, End: 9}, 0))
	assert.False(t, occurrenceAt(doc, Occurrence{Raw: "<x/>", Start: 8, End: 4}, 0))
}
