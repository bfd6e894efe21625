package gtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterImpl struct {
	Subclass

	initialized bool
}

func (c *counterImpl) InitInstance() {
	c.initialized = true
}

func TestNew_Fail_Abstract(t *testing.T) {
	t.Parallel()

	shape := registerShape(t)

	_, err := New(shape)
	require.ErrorIs(t, err, ErrAbstractType)

	assert.Panics(t, func() { MustNew(shape) })
}

func TestNew_InstanceInitOrder(t *testing.T) {
	t.Parallel()

	var order []string

	base, err := Register(ObjectType(), TypeInfo{
		Name:         uniqueName("Base"),
		InstanceInit: func(obj *Object) { order = append(order, "base") },
	})
	require.NoError(t, err)

	derived, err := Register(base, TypeInfo{
		Name: uniqueName("Derived"),
		InstanceInit: func(obj *Object) {
			order = append(order, "derived")
			obj.SetPrivate(obj.Type(), "derived-data")
		},
	})
	require.NoError(t, err)

	obj, err := New(derived)
	require.NoError(t, err)
	defer obj.Unref()

	assert.Equal(t, []string{"base", "derived"}, order)
	assert.Equal(t, "derived-data", obj.Private(derived))
	assert.Nil(t, obj.Private(base))
	assert.Equal(t, "derived-data", PrivateOf[string](obj, derived))
}

func TestObject_RefCounting(t *testing.T) {
	t.Parallel()

	var disposed, finalized int

	typ, err := Register(ObjectType(), TypeInfo{
		Name: uniqueName("Counted"),
		ClassInit: func(class Class) {
			oc := class.AsObjectClass()
			oc.Dispose = func(*Object) { disposed++ }
			oc.Finalize = func(*Object) { finalized++ }
		},
	})
	require.NoError(t, err)

	obj := MustNew(typ)
	assert.Equal(t, int64(1), typ.InstanceCount())
	assert.Equal(t, int32(1), obj.RefCount())

	obj.Ref()
	obj.Unref()
	assert.Zero(t, disposed)

	obj.Unref()
	assert.Equal(t, 1, disposed)
	assert.Equal(t, 1, finalized)
	assert.Zero(t, typ.InstanceCount())

	assert.Panics(t, func() { obj.Unref() }, "underflow is a contract violation")
	assert.Panics(t, func() { obj.Ref() }, "resurrection is a contract violation")
}

func TestObject_Private_Violation(t *testing.T) {
	t.Parallel()

	a, err := Register(ObjectType(), TypeInfo{Name: uniqueName("A")})
	require.NoError(t, err)
	b, err := Register(ObjectType(), TypeInfo{Name: uniqueName("B")})
	require.NoError(t, err)

	obj := MustNew(a)
	defer obj.Unref()

	defer func() {
		r := recover()
		require.True(t, IsContractViolation(r))
	}()

	obj.Private(b)
}

func TestRegisterSubclass_BindsImpl(t *testing.T) {
	t.Parallel()

	typ, err := RegisterSubclass[counterImpl](ObjectType(), uniqueName("Counter"), nil)
	require.NoError(t, err)

	obj := MustNew(typ)
	defer obj.Unref()

	imp := ImplOf[*counterImpl](obj, typ)
	assert.Same(t, obj, imp.Obj())
	assert.Equal(t, typ, imp.Type())
	assert.True(t, imp.initialized)
	assert.Same(t, ObjectType().Class(), imp.ParentClass())
}

func TestHandle_Transfer(t *testing.T) {
	t.Parallel()

	typ, err := Register(ObjectType(), TypeInfo{Name: uniqueName("Handled")})
	require.NoError(t, err)

	obj := MustNew(typ)

	borrowed := HandleFrom(obj, TransferNone)
	assert.Equal(t, int32(2), obj.RefCount())

	full := borrowed.ToFull()
	assert.Equal(t, int32(3), full.RefCount())

	adopted := HandleFrom(full, TransferFull)
	assert.Equal(t, int32(3), obj.RefCount())

	raw := adopted.Steal()
	assert.False(t, adopted.IsValid())
	raw.Unref()

	borrowed.Unref()
	borrowed.Unref()
	assert.False(t, borrowed.IsValid())
	assert.Equal(t, int32(1), obj.RefCount())

	obj.Unref()
	assert.Zero(t, typ.InstanceCount())
}

func TestStringsFrom(t *testing.T) {
	t.Parallel()

	src := []string{"file", "mem"}

	cp := StringsFrom(src, TransferNone)
	cp[0] = "changed"
	assert.Equal(t, "file", src[0])

	assert.Nil(t, StringsFrom(nil, TransferContainer))

	owned := StringsFrom(src, TransferFull)
	owned[1] = "moved"
	assert.Equal(t, "moved", src[1])
}
