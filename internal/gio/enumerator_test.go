package gio

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals
var nameSeq atomic.Int64

// uniqueName returns a type name not registered before in this process.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, nameSeq.Add(1))
}

func registerEnumeratorType(t *testing.T, classInit func(c *FileEnumeratorClass)) gtype.Type {
	t.Helper()

	typ, err := gtype.Register(TypeFileEnumerator(), gtype.TypeInfo{
		Name: uniqueName("TestEnumerator"),
		ClassInit: func(class gtype.Class) {
			classInit(FileEnumeratorClassOf(class))
		},
	})
	require.NoError(t, err)

	return typ
}

func namedInfo(name string) *gtype.Object {
	info := NewFileInfo()
	info.SetAttribute(AttrStandardName, name)

	return info.Steal()
}

func TestFileEnumerator_ClosedAndPending(t *testing.T) {
	t.Parallel()

	var reentrant error
	var e *FileEnumerator

	typ := registerEnumeratorType(t, func(c *FileEnumeratorClass) {
		c.NextFile = func(*gtype.Object, *Cancellable, **gerror.Error) *gtype.Object {
			_, reentrant = e.NextFile(nil)

			return namedInfo("entry")
		}
		c.CloseFn = func(*gtype.Object, *Cancellable, **gerror.Error) bool { return true }
	})

	e, err := NewFileEnumerator(typ, nil)
	require.NoError(t, err)
	defer e.Unref()

	info, err := e.NextFile(nil)
	require.NoError(t, err)
	assert.Equal(t, "entry", info.Name())
	info.Unref()

	assert.True(t, IsIOError(reentrant, IOErrorPending))
	assert.False(t, e.HasPending())

	ok, err := e.Close(nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, e.IsClosed())

	ok, err = e.Close(nil)
	require.NoError(t, err)
	assert.True(t, ok, "closing twice succeeds")

	_, err = e.NextFile(nil)
	assert.True(t, IsIOError(err, IOErrorClosed))
}

func TestFileEnumerator_CloseOnDispose(t *testing.T) {
	t.Parallel()

	var closes atomic.Int32

	typ := registerEnumeratorType(t, func(c *FileEnumeratorClass) {
		c.NextFile = func(*gtype.Object, *Cancellable, **gerror.Error) *gtype.Object { return nil }
		c.CloseFn = func(*gtype.Object, *Cancellable, **gerror.Error) bool {
			closes.Add(1)

			return true
		}
	})

	container := NewFileForPath("/tmp")
	defer container.Unref()

	open, err := NewFileEnumerator(typ, container)
	require.NoError(t, err)
	assert.Equal(t, int32(2), container.Object().RefCount(), "enumerator holds the container")

	open.Unref()
	assert.Equal(t, int32(1), closes.Load())
	assert.Equal(t, int32(1), container.Object().RefCount())

	closed, err := NewFileEnumerator(typ, nil)
	require.NoError(t, err)
	_, err = closed.Close(nil)
	require.NoError(t, err)

	closed.Unref()
	assert.Equal(t, int32(2), closes.Load(), "no second close on dispose")
}

func TestFileEnumerator_CloseFailureStillCloses(t *testing.T) {
	t.Parallel()

	typ := registerEnumeratorType(t, func(c *FileEnumeratorClass) {
		c.NextFile = func(*gtype.Object, *Cancellable, **gerror.Error) *gtype.Object { return nil }
		c.CloseFn = func(_ *gtype.Object, _ *Cancellable, errOut **gerror.Error) bool {
			gerror.Set(errOut, NewIOError(IOErrorBusy, "busy"))

			return false
		}
	})

	e, err := NewFileEnumerator(typ, nil)
	require.NoError(t, err)
	defer e.Unref()

	ok, err := e.Close(nil)
	assert.False(t, ok)
	assert.True(t, IsIOError(err, IOErrorBusy))
	assert.True(t, e.IsClosed())
}

func TestFileEnumerator_ErrorChannelViolations(t *testing.T) {
	t.Parallel()

	typ := registerEnumeratorType(t, func(c *FileEnumeratorClass) {
		c.NextFile = func(_ *gtype.Object, _ *Cancellable, errOut **gerror.Error) *gtype.Object {
			gerror.Set(errOut, NewIOError(IOErrorFailed, "both"))

			return namedInfo("x")
		}
		c.CloseFn = func(*gtype.Object, *Cancellable, **gerror.Error) bool { return false }
	})

	e, err := NewFileEnumerator(typ, nil)
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = e.NextFile(nil) })
	assert.Panics(t, func() { _, _ = e.Close(nil) })
	assert.True(t, e.IsClosed())

	e.Unref()
}

func TestFileEnumerator_MissingSlotIsContractViolation(t *testing.T) {
	t.Parallel()

	typ := registerEnumeratorType(t, func(*FileEnumeratorClass) {})

	e, err := NewFileEnumerator(typ, nil)
	require.NoError(t, err)
	defer e.Unref()

	defer func() {
		r := recover()
		require.True(t, gtype.IsContractViolation(r), "unexpected %v", r)
	}()

	_, _ = e.NextFile(nil)
}

func TestFileEnumerator_RejectsOtherTypes(t *testing.T) {
	t.Parallel()

	_, err := NewFileEnumerator(TypeLocalFile(), nil)
	require.ErrorIs(t, err, ErrNotFileEnumerator)
}

func TestLocalFileEnumerator_WithoutContainer(t *testing.T) {
	t.Parallel()

	e, err := NewFileEnumerator(TypeLocalFileEnumerator(), nil)
	require.NoError(t, err)
	defer e.Unref()

	info, err := e.NextFile(nil)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestFileEnumerator_Iterate(t *testing.T) {
	t.Parallel()

	var served atomic.Int32

	typ := registerEnumeratorType(t, func(c *FileEnumeratorClass) {
		c.NextFile = func(*gtype.Object, *Cancellable, **gerror.Error) *gtype.Object {
			if served.Add(1) > 1 {
				return nil
			}

			return namedInfo("child")
		}
		c.CloseFn = func(*gtype.Object, *Cancellable, **gerror.Error) bool { return true }
	})

	container := NewFileForPath("/srv")
	defer container.Unref()

	e, err := NewFileEnumerator(typ, container)
	require.NoError(t, err)
	defer e.Unref()

	info, child, err := e.Iterate(nil)
	require.NoError(t, err)
	assert.Equal(t, "child", info.Name())
	assert.Equal(t, "/srv/child", child.Path())
	info.Unref()
	child.Unref()

	info, child, err = e.Iterate(nil)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.Nil(t, child)
}
