package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessageChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: RequestError, Engine: "qwant", Op: "fetching results", Err: cause}

	assert.Equal(t, "qwant: fetching results: request error: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	inner := &Error{Kind: EmptyResultSet, Engine: "qwant", Op: "scraping results"}
	wrapped := fmt.Errorf("aggregator: %w", inner)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, EmptyResultSet, kind)

	assert.True(t, IsKind(wrapped, EmptyResultSet))
	assert.False(t, IsKind(wrapped, RequestError))
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := KindOf(errors.New("not an engine error"))
	assert.False(t, ok)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "empty result set", EmptyResultSet.String())
	assert.Equal(t, "request error", RequestError.String())
	assert.Equal(t, "unexpected error", UnexpectedError.String())
}
