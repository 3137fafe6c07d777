package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildElement_SelfClosing(t *testing.T) {
	el, err := BuildElement(`<stl:value type="site.title"/>`, false)
	require.NoError(t, err)

	assert.Equal(t, "stl:value", el.Name)
	assert.Equal(t, map[string]string{"type": "site.title"}, el.Attributes)
	assert.False(t, el.IsDynamic)
	assert.Empty(t, el.InnerXML)
	assert.Empty(t, el.Children)
	assert.Equal(t, `<stl:value type="site.title"/>`, el.Raw)
	assert.False(t, el.InnerElement)
}

func TestBuildElement_NameLowerCased(t *testing.T) {
	el, err := BuildElement(`<STL:Value Type="x"></STL:Value>`, true)
	require.NoError(t, err)

	assert.Equal(t, "stl:value", el.Name)
	assert.True(t, el.InnerElement)

	v, ok := el.Attr("type")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestBuildElement_AttributeExtraction(t *testing.T) {
	el, err := BuildElement(`<tag a="1" ISDYNAMIC="true" b="  "/>`, false)
	require.NoError(t, err)

	assert.Equal(t, "tag", el.Name)
	assert.Equal(t, map[string]string{"a": "1", "b": ""}, el.Attributes)
	assert.True(t, el.IsDynamic)
}

func TestBuildElement_DynamicFlagValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "lower true", value: "true", expected: true},
		{name: "upper true", value: "TRUE", expected: true},
		{name: "padded true", value: " true ", expected: true},
		{name: "false", value: "false", expected: false},
		{name: "unparsable", value: "yes", expected: false},
		{name: "numeric", value: "1", expected: false},
		{name: "empty", value: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := BuildElement(`<stl:value isDynamic="`+tt.value+`"/>`, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, el.IsDynamic)
			assert.NotContains(t, el.Attributes, AttrIsDynamic)
		})
	}
}

func TestBuildElement_InnerXMLAndChildren(t *testing.T) {
	el, err := BuildElement(`<stl:container> <b class="x">bold</b><!-- note --> </stl:container>`, false)
	require.NoError(t, err)

	assert.Equal(t, `<b class="x">bold</b><!-- note -->`, el.InnerXML)
	require.Len(t, el.Children, 4)

	assert.Equal(t, NodeTypeText, el.Children[0].Type)

	b := el.Children[1]
	assert.Equal(t, NodeTypeElement, b.Type)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, "bold", b.InnerXML)
	class, ok := b.Attr("CLASS")
	assert.True(t, ok)
	assert.Equal(t, "x", class)
	require.Len(t, b.Children, 1)
	assert.Equal(t, "bold", b.Children[0].Data)

	assert.Equal(t, NodeTypeComment, el.Children[2].Type)
	assert.Equal(t, " note ", el.Children[2].Data)
}

func TestBuildElement_NestedPrefixedElement(t *testing.T) {
	el, err := BuildElement(`<stl:a href="/"><stl:value type="site.title"/></stl:a>`, false)
	require.NoError(t, err)

	assert.Equal(t, "stl:a", el.Name)
	assert.Equal(t, `<stl:value type="site.title"/>`, el.InnerXML)
	require.Len(t, el.Children, 1)
	assert.Equal(t, "stl:value", el.Children[0].Name)
}

func TestBuildElement_HTMLEntities(t *testing.T) {
	el, err := BuildElement(`<stl:value default="a &amp; b" title="&copy;"/>`, false)
	require.NoError(t, err)

	assert.Equal(t, "a & b", el.Attributes["default"])
	assert.Equal(t, "©", el.Attributes["title"])
}

func TestBuildElement_NoElement(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "text only", raw: "just text"},
		{name: "comment only", raw: "<!-- nothing -->"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := BuildElement(tt.raw, false)
			assert.Nil(t, el)
			assert.True(t, errors.Is(err, ErrNoElement))
		})
	}
}

func TestBuildElement_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unclosed start tag", raw: `<stl:value type="x">`},
		{name: "mismatched end tag", raw: `<stl:a></stl:b>`},
		{name: "unquoted attribute", raw: `<stl:value type=x/>`},
		{name: "bare ampersand", raw: `<stl:value default="a & b"/>`},
		{name: "stray end tag", raw: `</stl:value>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, err := BuildElement(tt.raw, false)
			assert.Nil(t, el)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNoElement))

			var elErr *ElementError
			require.True(t, errors.As(err, &elErr))
			assert.Equal(t, tt.raw, elErr.Raw)
		})
	}
}

func TestBuildElement_Idempotent(t *testing.T) {
	raw := `<stl:container a="1"><stl:value type="x"/> text</stl:container>`

	first, err := BuildElement(raw, false)
	require.NoError(t, err)
	second, err := BuildElement(raw, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestElementError_Error(t *testing.T) {
	cause := errors.New("boom")
	err := &ElementError{Message: ErrMsgMalformedXML, Raw: "<x>", Cause: cause}

	assert.Contains(t, err.Error(), ErrMsgMalformedXML)
	assert.Contains(t, err.Error(), "<x>")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestParseFlag(t *testing.T) {
	assert.True(t, ParseFlag("True"))
	assert.False(t, ParseFlag("False"))
	assert.False(t, ParseFlag("on"))
}

func TestNode_String(t *testing.T) {
	el := &Node{Type: NodeTypeElement, Name: "b"}
	assert.Contains(t, el.String(), "<b>")

	text := &Node{Type: NodeTypeText, Data: "hello"}
	assert.Contains(t, text.String(), "hello")
	assert.Contains(t, text.String(), NodeTypeNameText)
}
