package gtype

// Class is a class structure. Every class structure embeds the class
// structure of its parent type (ultimately [ObjectClass]) and must define its
// own Copy method, so that deriving a type never loses the slots of the more
// derived layout.
type Class interface {
	// Type returns the type the class structure belongs to.
	Type() Type

	// Copy returns a shallow copy of the complete class structure.
	Copy() Class

	// AsObjectClass returns the embedded [ObjectClass].
	AsObjectClass() *ObjectClass

	setType(t Type)
}

// ClassBase holds the type identity of a class structure.
type ClassBase struct {
	typ Type
}

// Type returns the type the class structure belongs to.
func (c *ClassBase) Type() Type {
	return c.typ
}

func (c *ClassBase) setType(t Type) {
	c.typ = t
}

// ObjectClass is the class structure of [ObjectType], the fundamental type
// every other type derives from.
type ObjectClass struct {
	ClassBase

	// Constructed is called once a new instance is fully initialized.
	Constructed func(obj *Object)

	// Dispose is called when the last reference is dropped, before
	// Finalize. It releases references held by the instance.
	Dispose func(obj *Object)

	// Finalize is called last, after Dispose.
	Finalize func(obj *Object)
}

// Copy returns a copy of the class structure.
func (c *ObjectClass) Copy() Class {
	cp := *c

	return &cp
}

// AsObjectClass returns the class structure itself.
func (c *ObjectClass) AsObjectClass() *ObjectClass {
	return c
}

//nolint:gochecknoglobals
var objectType Type

func init() {
	t, err := Register(Invalid, TypeInfo{
		Name:     "GObject",
		Abstract: false,
		NewClass: func(Class) Class {
			return &ObjectClass{
				Constructed: func(*Object) {},
				Dispose:     func(*Object) {},
				Finalize:    func(*Object) {},
			}
		},
	})
	if err != nil {
		panic(err)
	}

	objectType = t
}

// ObjectType returns the fundamental object [Type].
func ObjectType() Type {
	return objectType
}

// ClassOf returns the class structure of the type t, cast to the class
// structure C of one of its ancestors. A class that does not have the layout
// of C is a contract violation.
func ClassOf[C any](t Type) C {
	return CastClass[C](t.Class())
}

// CastClass casts a class structure to the layout C of one of its ancestor
// types, C being an interface implemented through embedding (for example an
// accessor method promoted from the ancestor's class structure).
func CastClass[C any](class Class) C {
	c, ok := class.(C)
	if !ok {
		Violatef("gtype", "class of %s does not have the requested layout", class.Type())
	}

	return c
}
