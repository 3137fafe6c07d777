package stl

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadata(t *testing.T, err error, key string) string {
	t.Helper()
	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	value, ok := customErr.GetMetadata(key)
	require.True(t, ok, "missing metadata %q", key)
	return value
}

func TestNewMalformedFragmentError(t *testing.T) {
	cause := errors.New("xml syntax error")
	err := NewMalformedFragmentError(`<stl:x a=1/>`, cause)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMalformedFragment)
	assert.Equal(t, `<stl:x a=1/>`, metadata(t, err, MetaKeyRaw))
	assert.True(t, errors.Is(err, cause))
}

func TestNewHandlerError(t *testing.T) {
	cause := errors.New("boom")
	err := NewHandlerError("stl:value", HandlerKindPlugin, cause)

	assert.Contains(t, err.Error(), ErrMsgHandlerFailed)
	assert.Equal(t, "stl:value", metadata(t, err, MetaKeyTag))
	assert.Equal(t, HandlerKindNamePlugin, metadata(t, err, MetaKeyHandlerKind))
	assert.True(t, errors.Is(err, cause))
}

func TestNewHandlerPanicError(t *testing.T) {
	err := NewHandlerPanicError("stl:value", "kaput")

	assert.Contains(t, err.Error(), ErrMsgHandlerPanicked)
	assert.Equal(t, "kaput", metadata(t, err, MetaKeyPanic))
}

func TestNewPipelineError_TruncatesRaw(t *testing.T) {
	raw := "<stl:x>" + strings.Repeat("a", 500) + "</stl:x>"
	err := NewPipelineError(raw, errors.New("x"))

	got := metadata(t, err, MetaKeyRaw)
	assert.Len(t, got, MaxLogExcerptLength)
	assert.True(t, strings.HasSuffix(got, LogExcerptSuffix))
}

func TestNewMaxDepthError(t *testing.T) {
	err := NewMaxDepthError(32, 32)

	assert.Contains(t, err.Error(), ErrMsgMaxDepthExceeded)
	assert.Equal(t, "32", metadata(t, err, MetaKeyCurrentDepth))
	assert.Equal(t, "32", metadata(t, err, MetaKeyMaxDepth))
}

func TestRegistryErrors(t *testing.T) {
	assert.Contains(t, NewEmptyTagNameError().Error(), ErrMsgEmptyTagName)
	assert.Contains(t, NewEmptyPluginIDError().Error(), ErrMsgEmptyPluginID)
	assert.Equal(t, "stl:x", metadata(t, NewNilHandlerError("stl:x"), MetaKeyTag))
	assert.Equal(t, HandlerKindNameTranslate, metadata(t, NewHandlerExistsError("stl:x", HandlerKindTranslate), MetaKeyHandlerKind))

	err := NewPluginConflictError("stl:x", "new", "old")
	assert.Equal(t, "new", metadata(t, err, MetaKeyPluginID))
	assert.Equal(t, "old", metadata(t, err, MetaKeyExistingPlugin))
}

func TestNewValueNotFoundError(t *testing.T) {
	err := NewValueNotFoundError("site.title")

	assert.Contains(t, err.Error(), ErrMsgValueNotFound)
	assert.Equal(t, "site.title", metadata(t, err, MetaKeyPath))
}

func TestNewConfigError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewConfigError(ErrMsgConfigReadFailed, "/etc/stl.yaml", cause)

	assert.Contains(t, err.Error(), ErrMsgConfigReadFailed)
	assert.Equal(t, "/etc/stl.yaml", metadata(t, err, MetaKeyConfigPath))
	assert.True(t, errors.Is(err, cause))

	err = NewConfigError(ErrMsgInvalidMaxDepth, "", nil)
	assert.Contains(t, err.Error(), ErrMsgInvalidMaxDepth)
}
