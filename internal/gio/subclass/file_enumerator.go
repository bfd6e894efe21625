package subclass

import (
	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gtype"
)

// FileEnumeratorImpl is the set of virtual methods of a file enumerator.
type FileEnumeratorImpl interface {
	ObjectImpl

	// NextFile returns the next entry, owned by the caller, or (nil, nil)
	// at the end of the sequence. A value and an error are exclusive.
	NextFile(c *gio.Cancellable) (*gio.FileInfo, error)

	// Close releases the enumerator's resources. It returns true without an
	// error, or false with one.
	Close(c *gio.Cancellable) (bool, error)
}

// FileEnumeratorImplBase is embedded by Go file enumerator subclasses.
type FileEnumeratorImplBase struct {
	ObjectImplBase
}

// NextFile chains to the parent class.
func (b *FileEnumeratorImplBase) NextFile(c *gio.Cancellable) (*gio.FileInfo, error) {
	return b.ParentNextFile(c)
}

// Close chains to the parent class.
func (b *FileEnumeratorImplBase) Close(c *gio.Cancellable) (bool, error) {
	return b.ParentClose(c)
}

// ParentNextFile calls the next_file slot of the parent class.
func (b *FileEnumeratorImplBase) ParentNextFile(c *gio.Cancellable) (*gio.FileInfo, error) {
	slot := gio.FileEnumeratorClassOf(b.ParentClass()).NextFile
	if slot == nil {
		missingParent("next_file")
	}

	var gerr *gerror.Error
	res, err := objectFromParent("next_file", slot(b.Obj(), c, &gerr), gerr)
	if err != nil {
		return nil, err
	}

	return gio.FileInfoFromObject(res, gtype.TransferFull), nil
}

// ParentClose calls the close_fn slot of the parent class.
func (b *FileEnumeratorImplBase) ParentClose(c *gio.Cancellable) (bool, error) {
	slot := gio.FileEnumeratorClassOf(b.ParentClass()).CloseFn
	if slot == nil {
		missingParent("close_fn")
	}

	var gerr *gerror.Error
	ok := slot(b.Obj(), c, &gerr)
	if ok && gerr != nil {
		gtype.Violatef("close_fn", "parent returned success and set an error (%q)", gerr.Message)
	}

	return ok, gerror.AsError(gerr)
}

// RegisterFileEnumerator registers T as a subclass of parent, which must
// derive from the file enumerator type. Instances are created with
// [gio.NewFileEnumerator].
func RegisterFileEnumerator[T any, PT interface {
	*T
	FileEnumeratorImpl
}](parent gtype.Type, name string,
) (gtype.Type, error) {
	if err := checkParent(parent, gio.TypeFileEnumerator(), name); err != nil {
		return gtype.Invalid, err
	}

	return gtype.RegisterSubclass[T, PT](parent, name, installFileEnumerator[PT])
}

func installFileEnumerator[PT FileEnumeratorImpl](class gtype.Class) {
	installObject[PT](class)

	t := class.Type()
	c := gio.FileEnumeratorClassOf(class)

	c.NextFile = func(self *gtype.Object, cancellable *gio.Cancellable, errOut **gerror.Error) (res *gtype.Object) {
		defer recoverToError("next_file", errOut, func() { res = nil })

		info, err := gtype.ImplOf[PT](self, t).NextFile(cancellable)

		switch {
		case info != nil && err != nil:
			info.Unref()
			gtype.Violatef("next_file", "override returned a value and an error (%v)", err)
		case err != nil:
			setError(errOut, err)

			return nil
		case info == nil:
			return nil
		}

		return info.Steal()
	}

	c.CloseFn = func(self *gtype.Object, cancellable *gio.Cancellable, errOut **gerror.Error) (ok bool) {
		defer recoverToError("close_fn", errOut, func() { ok = false })

		ok, err := gtype.ImplOf[PT](self, t).Close(cancellable)

		return boolToNative("close_fn", ok, err, errOut)
	}
}

// boolToNative converts the result of an override returning a success flag.
// A failure without an error is reported as a generic failure.
func boolToNative(op string, ok bool, err error, errOut **gerror.Error) bool {
	switch {
	case ok && err != nil:
		gtype.Violatef(op, "override returned success and an error (%v)", err)
	case err != nil:
		setError(errOut, err)
	case !ok:
		gerror.Set(errOut, gio.NewIOError(gio.IOErrorFailed, "%s failed without an error", op))
	}

	return ok
}
