package subclass

import (
	"github.com/desertwitch/gogio/internal/gtype"
)

// ObjectImpl is the set of virtual methods every subclass can override.
type ObjectImpl interface {
	gtype.Impl

	// Constructed is called once the new instance is fully initialized.
	Constructed()

	// Dispose is called when the last reference is released. It must
	// chain to the parent so that the ancestors release their resources.
	Dispose()
}

// ObjectImplBase provides the parent-delegating default of every method of
// [ObjectImpl]. It is embedded by the other base structs of this package.
type ObjectImplBase struct {
	gtype.Subclass
}

// Constructed chains to the parent class.
func (b *ObjectImplBase) Constructed() {
	b.ParentConstructed()
}

// Dispose chains to the parent class.
func (b *ObjectImplBase) Dispose() {
	b.ParentDispose()
}

// ParentConstructed calls the constructed slot of the parent class.
func (b *ObjectImplBase) ParentConstructed() {
	slot := b.ParentClass().AsObjectClass().Constructed
	if slot == nil {
		missingParent("constructed")
	}

	slot(b.Obj())
}

// ParentDispose calls the dispose slot of the parent class.
func (b *ObjectImplBase) ParentDispose() {
	slot := b.ParentClass().AsObjectClass().Dispose
	if slot == nil {
		missingParent("dispose")
	}

	slot(b.Obj())
}

// installObject installs the trampolines of [ObjectImpl].
func installObject[PT ObjectImpl](class gtype.Class) {
	t := class.Type()
	c := class.AsObjectClass()

	c.Constructed = func(obj *gtype.Object) {
		defer recoverToViolation("constructed")

		gtype.ImplOf[PT](obj, t).Constructed()
	}

	c.Dispose = func(obj *gtype.Object) {
		defer recoverToViolation("dispose")

		gtype.ImplOf[PT](obj, t).Dispose()
	}
}
