package subclass

import (
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gtype"
)

// FileMonitorImpl is the set of virtual methods of a file monitor.
type FileMonitorImpl interface {
	ObjectImpl

	// Cancel stops the monitoring backend. It is called at most once per
	// instance.
	Cancel() bool
}

// FileMonitorImplBase is embedded by Go file monitor subclasses.
type FileMonitorImplBase struct {
	ObjectImplBase
}

// Cancel chains to the parent class.
func (b *FileMonitorImplBase) Cancel() bool {
	return b.ParentCancel()
}

// ParentCancel calls the cancel slot of the parent class.
func (b *FileMonitorImplBase) ParentCancel() bool {
	slot := gio.FileMonitorClassOf(b.ParentClass()).Cancel
	if slot == nil {
		missingParent("cancel")
	}

	return slot(b.Obj())
}

// Monitor returns a new reference to the instance for emitting events from
// the implementation. The caller releases it with Unref.
func (b *FileMonitorImplBase) Monitor() *gio.FileMonitor {
	return gio.FileMonitorFromObject(b.Obj(), gtype.TransferNone)
}

// RegisterFileMonitor registers T as a subclass of parent, which must
// derive from the file monitor type.
func RegisterFileMonitor[T any, PT interface {
	*T
	FileMonitorImpl
}](parent gtype.Type, name string,
) (gtype.Type, error) {
	if err := checkParent(parent, gio.TypeFileMonitor(), name); err != nil {
		return gtype.Invalid, err
	}

	return gtype.RegisterSubclass[T, PT](parent, name, installFileMonitor[PT])
}

func installFileMonitor[PT FileMonitorImpl](class gtype.Class) {
	installObject[PT](class)

	t := class.Type()
	c := gio.FileMonitorClassOf(class)

	c.Cancel = func(self *gtype.Object) bool {
		defer recoverToViolation("cancel")

		return gtype.ImplOf[PT](self, t).Cancel()
	}
}
