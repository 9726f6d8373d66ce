package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	err := New(ErrCodeUnknownItem, "missing")
	assert.Equal(t, ErrCodeUnknownItem, err.Code)
	assert.Equal(t, "UNKNOWN_ITEM: missing", err.Error())

	cause := fmt.Errorf("connection refused")
	wrapped := Wrap(cause, ErrCodeNetwork, "put failed")
	assert.Same(t, cause, wrapped.Unwrap())
	assert.Contains(t, wrapped.Error(), "connection refused")

	assert.True(t, Is(wrapped, ErrCodeNetwork))
	assert.False(t, Is(wrapped, ErrCodeNoActiveGroup))
	assert.False(t, Is(nil, ErrCodeNetwork))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	inner := NoActiveGroup()
	outer := fmt.Errorf("toggle: %w", inner)

	assert.Equal(t, ErrCodeNoActiveGroup, GetCode(outer))
	assert.True(t, Is(outer, ErrCodeNoActiveGroup))
	assert.Equal(t, ErrorCode(""), GetCode(fmt.Errorf("plain")))
}

func TestConstructors(t *testing.T) {
	err := UnknownItem("wind", 7)
	require.Equal(t, ErrCodeUnknownItem, err.Code)
	assert.Equal(t, "wind", err.Details["category"])
	assert.Equal(t, 7, err.Details["id"])

	err = Network("update group", fmt.Errorf("timeout"))
	assert.Equal(t, ErrCodeNetwork, err.Code)
	assert.Equal(t, "update group", err.Details["op"])

	err = MalformedRemoteData("parc_eoliens", "{}")
	assert.Equal(t, "parc_eoliens", err.Details["field"])

	assert.Equal(t, ErrCodeNotImplemented, NotImplemented("simulation").Code)
	assert.Equal(t, ErrCodeRunBlocked, RunBlocked().Code)
	assert.Contains(t, ConfigNotFound("/tmp/x.toml").ToJSON(), "/tmp/x.toml")
}
