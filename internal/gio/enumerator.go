package gio

import (
	"iter"
	"sync/atomic"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
)

// FileEnumeratorClass is the class structure of the abstract file enumerator
// type. The abstract type installs neither slot.
type FileEnumeratorClass struct {
	gtype.ObjectClass

	// NextFile returns the next entry through a full transfer, or nil
	// without an error at the end of the sequence.
	NextFile func(self *gtype.Object, c *Cancellable, errOut **gerror.Error) *gtype.Object

	// CloseFn releases the resources of the enumerator.
	CloseFn func(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool
}

// Copy returns a copy of the class structure.
func (c *FileEnumeratorClass) Copy() gtype.Class {
	cp := *c

	return &cp
}

// AsFileEnumeratorClass returns the class structure itself.
func (c *FileEnumeratorClass) AsFileEnumeratorClass() *FileEnumeratorClass {
	return c
}

type fileEnumeratorClassLayout interface {
	AsFileEnumeratorClass() *FileEnumeratorClass
}

// FileEnumeratorClassOf casts a class structure to [FileEnumeratorClass].
func FileEnumeratorClassOf(class gtype.Class) *FileEnumeratorClass {
	return gtype.CastClass[fileEnumeratorClassLayout](class).AsFileEnumeratorClass()
}

type fileEnumeratorPriv struct {
	container *File
	closed    atomic.Bool
	pending   atomic.Bool
}

func fileEnumeratorInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(fileEnumeratorType, &fileEnumeratorPriv{})
}

// fileEnumeratorDispose closes an enumerator that was not closed explicitly
// and releases its container.
func fileEnumeratorDispose(obj *gtype.Object) {
	p := gtype.PrivateOf[*fileEnumeratorPriv](obj, fileEnumeratorType)

	if !p.closed.Load() {
		if closeFn := FileEnumeratorClassOf(obj.Class()).CloseFn; closeFn != nil {
			var gerr *gerror.Error
			_ = closeFn(obj, nil, &gerr)
		}
		p.closed.Store(true)
	}

	if p.container != nil {
		p.container.Unref()
	}

	chainDispose(fileEnumeratorType, obj)
}

// FileEnumerator iterates over the children of a container file.
type FileEnumerator struct {
	gtype.Handle
}

// NewFileEnumerator creates an enumerator of type t (the type must derive
// from the abstract file enumerator type) over the container. The container
// is borrowed, the enumerator keeps its own reference.
func NewFileEnumerator(t gtype.Type, container *File) (*FileEnumerator, error) {
	if !t.IsA(fileEnumeratorType) {
		return nil, ErrNotFileEnumerator
	}

	obj, err := gtype.New(t)
	if err != nil {
		return nil, err
	}

	if container != nil {
		p := gtype.PrivateOf[*fileEnumeratorPriv](obj, fileEnumeratorType)
		p.container = FileFromObject(container.Object(), gtype.TransferNone)
	}

	return &FileEnumerator{Handle: gtype.HandleFrom(obj, gtype.TransferFull)}, nil
}

// FileEnumeratorFromObject wraps a raw instance received through a position
// with the given transfer tag.
func FileEnumeratorFromObject(obj *gtype.Object, transfer gtype.Transfer) *FileEnumerator {
	if obj == nil {
		return nil
	}

	if !obj.IsA(fileEnumeratorType) {
		gtype.Violatef("gio.FileEnumerator", "%s instance is not a %s", obj.Type(), fileEnumeratorType)
	}

	return &FileEnumerator{Handle: gtype.HandleFrom(obj, transfer)}
}

func (e *FileEnumerator) priv() *fileEnumeratorPriv {
	return gtype.PrivateOf[*fileEnumeratorPriv](e.Object(), fileEnumeratorType)
}

func (e *FileEnumerator) class() *FileEnumeratorClass {
	return FileEnumeratorClassOf(e.Object().Class())
}

// Container returns the enumerated directory, borrowed from the enumerator.
func (e *FileEnumerator) Container() *File {
	return e.priv().container
}

// IsClosed reports whether the enumerator was closed.
func (e *FileEnumerator) IsClosed() bool {
	return e.priv().closed.Load()
}

// HasPending reports whether an operation is in flight.
func (e *FileEnumerator) HasPending() bool {
	return e.priv().pending.Load()
}

// NextFile returns information about the next child, or (nil, nil) once all
// children were returned.
func (e *FileEnumerator) NextFile(c *Cancellable) (*FileInfo, error) {
	p := e.priv()

	if p.closed.Load() {
		return nil, NewIOError(IOErrorClosed, "Enumerator is closed")
	}

	if !p.pending.CompareAndSwap(false, true) {
		return nil, NewIOError(IOErrorPending, "File enumerator has outstanding operation")
	}
	defer p.pending.Store(false)

	if err := c.ErrorIfCancelled(); err != nil {
		return nil, err
	}

	slot := e.class().NextFile
	if slot == nil {
		gtype.Violatef("g_file_enumerator_next_file", "%s does not implement next_file", e.Object().Type())
	}

	var gerr *gerror.Error
	res, err := objectResult("g_file_enumerator_next_file", slot(e.Object(), c, &gerr), gerr, true)
	if err != nil {
		return nil, err
	}

	return FileInfoFromObject(res, gtype.TransferFull), nil
}

// Close releases the enumerator's resources. Closing a closed enumerator
// succeeds without calling into the class again. The enumerator counts as
// closed afterwards even if closing failed.
func (e *FileEnumerator) Close(c *Cancellable) (bool, error) {
	p := e.priv()

	if p.closed.Load() {
		return true, nil
	}

	if !p.pending.CompareAndSwap(false, true) {
		return false, NewIOError(IOErrorPending, "File enumerator has outstanding operation")
	}
	defer p.pending.Store(false)

	slot := e.class().CloseFn
	if slot == nil {
		gtype.Violatef("g_file_enumerator_close", "%s does not implement close_fn", e.Object().Type())
	}

	var gerr *gerror.Error
	ok := slot(e.Object(), c, &gerr)
	p.closed.Store(true)

	if err := boolResult("g_file_enumerator_close", ok, gerr); err != nil {
		return false, err
	}

	return true, nil
}

// Child returns the child of the container described by info.
func (e *FileEnumerator) Child(info *FileInfo) *File {
	container := e.Container()
	if container == nil {
		gtype.Violatef("g_file_enumerator_get_child", "enumerator has no container")
	}

	return container.Child(info.Name())
}

// Iterate returns the next entry together with its child file, both owned
// by the caller. Both are nil at the end of the sequence.
func (e *FileEnumerator) Iterate(c *Cancellable) (*FileInfo, *File, error) {
	info, err := e.NextFile(c)
	if err != nil || info == nil {
		return nil, nil, err
	}

	return info, e.Child(info), nil
}

// All returns an iterator over the remaining entries. Iteration stops after
// the first error, which is yielded with a nil entry. Entries are owned by
// the loop body.
func (e *FileEnumerator) All(c *Cancellable) iter.Seq2[*FileInfo, error] {
	return func(yield func(*FileInfo, error) bool) {
		for {
			info, err := e.NextFile(c)
			if err != nil {
				yield(nil, err)

				return
			}

			if info == nil || !yield(info, nil) {
				return
			}
		}
	}
}
