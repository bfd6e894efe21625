package gtype

// Impl is implemented by the Go value backing one layer of an instance of a
// Go-defined subclass. Implementations embed [Subclass] to satisfy it.
type Impl interface {
	// Obj returns the instance the implementation belongs to.
	Obj() *Object

	// Type returns the subclass type the implementation was registered as.
	Type() Type

	// ParentClass returns the class structure of the parent of Type.
	ParentClass() Class

	bindSubclass(obj *Object, t Type)
}

// InstanceIniter can be implemented by an [Impl] to initialize its state
// once it is bound to its instance.
type InstanceIniter interface {
	InitInstance()
}

// Subclass binds an implementation value to its instance and layer type.
type Subclass struct {
	obj *Object
	typ Type
}

// Obj returns the instance, borrowed.
func (s *Subclass) Obj() *Object {
	return s.obj
}

// Type returns the layer type of the implementation.
func (s *Subclass) Type() Type {
	return s.typ
}

// ParentClass resolves the class structure of the layer's parent type. The
// lookup goes through the registry on every call, so types inserted between
// layers are always honored.
func (s *Subclass) ParentClass() Class {
	return s.typ.Parent().Class()
}

func (s *Subclass) bindSubclass(obj *Object, t Type) {
	s.obj = obj
	s.typ = t
}

// RegisterSubclass registers the Go type T as a new subclass of parent. Each
// instance of the subclass gets a fresh *T in its layer slot, bound to the
// instance. classInit receives the class structure copied from the parent
// and is responsible for installing the subclass' slots.
func RegisterSubclass[T any, PT interface {
	*T
	Impl
}](parent Type, name string, classInit func(class Class),
) (Type, error) {
	var t Type
	var err error

	t, err = Register(parent, TypeInfo{
		Name:      name,
		ClassInit: classInit,
		InstanceInit: func(obj *Object) {
			imp := PT(new(T))
			imp.bindSubclass(obj, t)
			obj.SetPrivate(t, imp)

			if initer, ok := any(imp).(InstanceIniter); ok {
				initer.InitInstance()
			}
		},
	})
	if err != nil {
		return Invalid, err
	}

	return t, nil
}

// ImplOf recovers, without taking a reference, the implementation stored in
// the layer t of an instance.
func ImplOf[PT Impl](obj *Object, t Type) PT {
	return PrivateOf[PT](obj, t)
}
