package stl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_RoundTrip(t *testing.T) {
	raw := `<stl:pageContents pageNum="10"><stl:value type="title"/></stl:pageContents>`

	placeholder, err := EncodeDeferred(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(placeholder, DeferredPrefix))
	assert.True(t, strings.HasSuffix(placeholder, DeferredSuffix))
	assert.NotContains(t, placeholder, "<stl:")

	decoded, err := DecodeDeferred(placeholder)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeDeferred_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		placeholder string
	}{
		{name: "no prefix", placeholder: "plain text"},
		{name: "no suffix", placeholder: DeferredPrefix + "abc"},
		{name: "bad payload", placeholder: DeferredPrefix + "!!!" + DeferredSuffix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDeferred(tt.placeholder)
			require.Error(t, err)

			var customErr *cuserr.CustomError
			require.True(t, errors.As(err, &customErr))
			_, ok := customErr.GetMetadata(MetaKeyPlaceholder)
			assert.True(t, ok)
		})
	}
}

func TestExpandDeferred(t *testing.T) {
	first, err := EncodeDeferred("<one/>")
	require.NoError(t, err)
	second, err := EncodeDeferred("<two/>")
	require.NoError(t, err)

	doc := "a " + first + " b " + second + " c"
	out, err := ExpandDeferred(doc, strings.ToUpper)
	require.NoError(t, err)
	assert.Equal(t, "a <ONE/> b <TWO/> c", out)
}

func TestExpandDeferred_KeepsInvalidPlaceholders(t *testing.T) {
	valid, err := EncodeDeferred("<ok/>")
	require.NoError(t, err)
	invalid := DeferredPrefix + "***" + DeferredSuffix

	out, err := ExpandDeferred(invalid+valid, func(raw string) string { return "[" + raw + "]" })
	require.Error(t, err)
	assert.Equal(t, invalid+"[<ok/>]", out)
}

func TestPlaceholderDynamicHandler(t *testing.T) {
	page := NewPageInfo(PageIdentity{}, nil)
	raw := `<stl:value type="x" isDynamic="true"/>`

	out, err := PlaceholderDynamicHandler{}.RenderDynamic(context.Background(), raw, page, NewContextInfo())
	require.NoError(t, err)

	assert.Contains(t, out, `id="stl_dynamic_1"`)
	assert.Contains(t, out, `data-stl-dynamic="`+deferredEncoding.EncodeToString([]byte(raw))+`"`)
	assert.Contains(t, out, BackHTMLPrefix)

	finished := BackHTMLFinisher{}.Finish(out, page)
	assert.NotContains(t, finished, BackHTMLPrefix)
	assert.Contains(t, finished, `<script>stlDynamic("stl_dynamic_1");</script>`)
}

func TestBackHTMLFinisher(t *testing.T) {
	page := NewPageInfo(PageIdentity{}, nil)
	placeholder := page.AddBackHTML("<b>back</b>")
	unknown := BackHTMLPrefix + "999" + BackHTMLSuffix

	assert.Equal(t, "x <b>back</b> y "+unknown, BackHTMLFinisher{}.Finish("x "+placeholder+" y "+unknown, page))
	assert.Equal(t, "plain", BackHTMLFinisher{}.Finish("plain", page))
	assert.Equal(t, placeholder, BackHTMLFinisher{}.Finish(placeholder, nil))
}

func TestMarkerErrorFormatter(t *testing.T) {
	out := MarkerErrorFormatter{}.FormatError("stl:value", `<stl:value type="x"/>`, errors.New("bad <thing>"))

	assert.True(t, strings.HasPrefix(out, `<span class="stl-error" data-stl-tag="stl:value">`))
	assert.Contains(t, out, "&lt;stl:value type=&#34;x&#34;/&gt;")
	assert.Contains(t, out, "bad &lt;thing&gt;")
	assert.NotContains(t, out, "<stl:value")
	assert.NotContains(t, out, "<thing>")
}
