package gtype

import (
	"fmt"
	"sync/atomic"
)

// Object is a reference-counted instance of a registered type. Every layer
// of the instance's type lineage owns one private data slot, addressed by
// the depth of the layer's type.
type Object struct {
	typ  Type
	refs atomic.Int32
	priv []any
}

// New creates an instance of t with a reference count of one, which the
// caller owns. Instance initializers run from the fundamental type down to
// t, followed by the class' Constructed slot.
func New(t Type) (*Object, error) {
	if t == Invalid {
		return nil, fmt.Errorf("(gtype) %w", ErrInvalidParent)
	}

	if t.IsAbstract() {
		return nil, fmt.Errorf("(gtype) %s: %w", t, ErrAbstractType)
	}

	class := t.Class()
	lineage := t.Ancestors()

	obj := &Object{
		typ:  t,
		priv: make([]any, len(lineage)),
	}
	obj.refs.Store(1)

	for _, layer := range lineage {
		if init := layer.node().info.InstanceInit; init != nil {
			init(obj)
		}
	}

	t.node().instances.Add(1)

	if constructed := class.AsObjectClass().Constructed; constructed != nil {
		constructed(obj)
	}

	return obj, nil
}

// MustNew is like [New] but treats failure as a contract violation.
func MustNew(t Type) *Object {
	obj, err := New(t)
	if err != nil {
		Violatef("gtype.New", "%v", err)
	}

	return obj
}

// Type returns the most derived type of the instance.
func (o *Object) Type() Type {
	return o.typ
}

// Class returns the class structure of the instance's most derived type.
func (o *Object) Class() Class {
	return o.typ.Class()
}

// IsA reports whether the instance is of type t or a type derived from it.
func (o *Object) IsA(t Type) bool {
	return o != nil && o.typ.IsA(t)
}

// RefCount returns the current reference count, for diagnostics.
func (o *Object) RefCount() int32 {
	return o.refs.Load()
}

// Ref acquires a new reference and returns the instance.
func (o *Object) Ref() *Object {
	if o.refs.Add(1) <= 1 {
		Violatef("gtype.Ref", "reference acquired on finalized %s instance", o.typ)
	}

	return o
}

// Unref releases a reference. Releasing the last reference disposes and
// finalizes the instance.
func (o *Object) Unref() {
	refs := o.refs.Add(-1)

	switch {
	case refs > 0:
		return
	case refs < 0:
		Violatef("gtype.Unref", "reference count underflow on %s instance", o.typ)
	}

	class := o.Class().AsObjectClass()
	if class.Dispose != nil {
		class.Dispose(o)
	}
	if class.Finalize != nil {
		class.Finalize(o)
	}

	o.typ.node().instances.Add(-1)
}

// Private returns the private data stored by the layer of type t. The
// instance not deriving from t is a contract violation.
func (o *Object) Private(t Type) any {
	if !o.IsA(t) {
		Violatef("gtype.Private", "%s instance is not a %s", o.typ, t)
	}

	return o.priv[t.Depth()]
}

// SetPrivate stores the private data of the layer of type t. It is meant to
// be called from the layer's instance initializer.
func (o *Object) SetPrivate(t Type, data any) {
	if !o.IsA(t) {
		Violatef("gtype.SetPrivate", "%s instance is not a %s", o.typ, t)
	}

	o.priv[t.Depth()] = data
}

// PrivateOf returns the private data of the layer of type t, cast to P.
func PrivateOf[P any](o *Object, t Type) P {
	p, ok := o.Private(t).(P)
	if !ok {
		Violatef("gtype.Private", "malformed %s layer of %s instance", t, o.typ)
	}

	return p
}
