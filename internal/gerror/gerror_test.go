package gerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDomain Quark = "test-error-quark"

func TestError_Is(t *testing.T) {
	t.Parallel()

	err := New(testDomain, 3, "no such thing: %s", "x")
	assert.Equal(t, "no such thing: x", err.Error())

	wrapped := fmt.Errorf("(op) %w", err)

	assert.ErrorIs(t, wrapped, &Error{Domain: testDomain, Code: 3})
	assert.NotErrorIs(t, wrapped, &Error{Domain: testDomain, Code: 4})
	assert.NotErrorIs(t, wrapped, &Error{Domain: "other", Code: 3})

	found, ok := Find(wrapped)
	require.True(t, ok)
	assert.Same(t, err, found)

	_, ok = Find(errors.New("plain"))
	assert.False(t, ok)
}

func TestSet_Take(t *testing.T) {
	t.Parallel()

	var slot *Error

	Set(nil, New(testDomain, 1, "dropped"))
	Set(&slot, nil)
	assert.Nil(t, slot)

	err := New(testDomain, 1, "first")
	Set(&slot, err)
	assert.Same(t, err, slot)

	defer func() {
		r := recover()
		require.True(t, gtype.IsContractViolation(r))

		taken := Take(&slot)
		assert.Same(t, err, taken)
		assert.Nil(t, slot)
		assert.Nil(t, Take(nil))
	}()

	Set(&slot, New(testDomain, 2, "second"))
}

func TestAsError_NoTypedNil(t *testing.T) {
	t.Parallel()

	var gerr *Error
	assert.NoError(t, AsError(gerr))

	cp := New(testDomain, 5, "copy me").Copy()
	require.Error(t, AsError(cp))
	assert.True(t, cp.Matches(testDomain, 5))
	assert.Nil(t, gerr.Copy())
}
