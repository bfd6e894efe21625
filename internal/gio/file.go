package gio

import (
	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
)

// FileClass is the class structure of the abstract file type. Slots left nil
// make the corresponding operation fail with [IOErrorNotSupported].
type FileClass struct {
	gtype.ObjectClass

	Dup                 func(self *gtype.Object) *gtype.Object
	Hash                func(self *gtype.Object) uint32
	Equal               func(self, other *gtype.Object) bool
	IsNative            func(self *gtype.Object) bool
	GetURIScheme        func(self *gtype.Object) string
	GetBasename         func(self *gtype.Object) string
	GetPath             func(self *gtype.Object) string
	GetURI              func(self *gtype.Object) string
	GetParseName        func(self *gtype.Object) string
	GetParent           func(self *gtype.Object) *gtype.Object
	ResolveRelativePath func(self *gtype.Object, relative string) *gtype.Object

	QueryInfo         func(self *gtype.Object, attributes string, flags FileQueryInfoFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object
	EnumerateChildren func(self *gtype.Object, attributes string, flags FileQueryInfoFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object
	Monitor           func(self *gtype.Object, flags FileMonitorFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object
	Delete            func(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool
	MakeDirectory     func(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool
	Trash             func(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool
}

// Copy returns a copy of the class structure.
func (c *FileClass) Copy() gtype.Class {
	cp := *c

	return &cp
}

// AsFileClass returns the class structure itself.
func (c *FileClass) AsFileClass() *FileClass {
	return c
}

type fileClassLayout interface {
	AsFileClass() *FileClass
}

// FileClassOf casts a class structure to [FileClass].
func FileClassOf(class gtype.Class) *FileClass {
	return gtype.CastClass[fileClassLayout](class).AsFileClass()
}

// File is a handle to a file location. Creating a File never touches the
// underlying storage.
type File struct {
	gtype.Handle
}

// FileFromObject wraps a raw instance received through a position with the
// given transfer tag.
func FileFromObject(obj *gtype.Object, transfer gtype.Transfer) *File {
	if obj == nil {
		return nil
	}

	if !obj.IsA(fileType) {
		gtype.Violatef("gio.File", "%s instance is not a %s", obj.Type(), fileType)
	}

	return &File{Handle: gtype.HandleFrom(obj, transfer)}
}

// NewFileForPath returns a local file for the path, resolved by the default
// vfs.
func NewFileForPath(path string) *File {
	return Default().FileForPath(path)
}

// NewFileForURI returns a file for the URI, resolved by the default vfs.
func NewFileForURI(uri string) *File {
	return Default().FileForURI(uri)
}

// NewFileForParseName returns a file for a user provided name (path or
// URI), resolved by the default vfs.
func NewFileForParseName(name string) *File {
	return Default().ParseName(name)
}

func (f *File) class() *FileClass {
	return FileClassOf(f.Object().Class())
}

// Dup returns a new handle to an identical location.
func (f *File) Dup() *File {
	return FileFromObject(requireObject("g_file_dup", f.class().Dup(f.Object())), gtype.TransferFull)
}

// Hash returns a hash of the location, equal for equal files.
func (f *File) Hash() uint32 {
	return f.class().Hash(f.Object())
}

// Equal reports whether both handles refer to the same location. Files of
// different types are never equal.
func (f *File) Equal(other *File) bool {
	if other == nil || f.Object().Type() != other.Object().Type() {
		return false
	}

	return f.class().Equal(f.Object(), other.Object())
}

// IsNative reports whether the file is accessible through the local
// filesystem.
func (f *File) IsNative() bool {
	return f.class().IsNative(f.Object())
}

// URIScheme returns the scheme of the file's URI.
func (f *File) URIScheme() string {
	return f.class().GetURIScheme(f.Object())
}

// HasURIScheme reports whether the file's URI has the given scheme.
func (f *File) HasURIScheme(scheme string) bool {
	return f.URIScheme() == scheme
}

// Basename returns the last path element of the file.
func (f *File) Basename() string {
	return f.class().GetBasename(f.Object())
}

// Path returns the local path of the file, or "" for non-native files.
func (f *File) Path() string {
	return f.class().GetPath(f.Object())
}

// URI returns the URI of the file.
func (f *File) URI() string {
	return f.class().GetURI(f.Object())
}

// ParseName returns the name of the file suitable for showing to and
// parsing back from a user.
func (f *File) ParseName() string {
	return f.class().GetParseName(f.Object())
}

// Parent returns the parent location, or nil for a root.
func (f *File) Parent() *File {
	return FileFromObject(f.class().GetParent(f.Object()), gtype.TransferFull)
}

// ResolveRelativePath resolves a path relative to the file. An absolute
// path is resolved on its own.
func (f *File) ResolveRelativePath(relative string) *File {
	obj := f.class().ResolveRelativePath(f.Object(), relative)

	return FileFromObject(requireObject("g_file_resolve_relative_path", obj), gtype.TransferFull)
}

// Child returns the child location of the given name.
func (f *File) Child(name string) *File {
	return f.ResolveRelativePath(name)
}

// QueryInfo queries the attributes selected by the attribute list.
func (f *File) QueryInfo(attributes string, flags FileQueryInfoFlags, c *Cancellable) (*FileInfo, error) {
	slot := f.class().QueryInfo
	if slot == nil {
		return nil, errNotSupported()
	}

	if err := c.ErrorIfCancelled(); err != nil {
		return nil, err
	}

	var gerr *gerror.Error
	res, err := objectResult("g_file_query_info", slot(f.Object(), attributes, flags, c, &gerr), gerr, false)
	if err != nil {
		return nil, err
	}

	return FileInfoFromObject(res, gtype.TransferFull), nil
}

// QueryExists reports whether the file exists, without following a final
// symbolic link.
func (f *File) QueryExists(c *Cancellable) bool {
	info, err := f.QueryInfo(AttrStandardType, FileQueryInfoNofollowSymlinks, c)
	if err != nil {
		return false
	}
	info.Unref()

	return true
}

// QueryFileType returns the type of the file, or [FileTypeUnknown] if it
// cannot be queried.
func (f *File) QueryFileType(flags FileQueryInfoFlags, c *Cancellable) FileType {
	info, err := f.QueryInfo(AttrStandardType, flags, c)
	if err != nil {
		return FileTypeUnknown
	}
	defer info.Unref()

	return info.FileType()
}

// EnumerateChildren opens an enumerator over the children of a directory.
func (f *File) EnumerateChildren(attributes string, flags FileQueryInfoFlags, c *Cancellable) (*FileEnumerator, error) {
	slot := f.class().EnumerateChildren
	if slot == nil {
		return nil, errNotSupported()
	}

	if err := c.ErrorIfCancelled(); err != nil {
		return nil, err
	}

	var gerr *gerror.Error
	res, err := objectResult("g_file_enumerate_children", slot(f.Object(), attributes, flags, c, &gerr), gerr, false)
	if err != nil {
		return nil, err
	}

	return FileEnumeratorFromObject(res, gtype.TransferFull), nil
}

// Monitor starts monitoring the file (or directory) for changes.
func (f *File) Monitor(flags FileMonitorFlags, c *Cancellable) (*FileMonitor, error) {
	slot := f.class().Monitor
	if slot == nil {
		return nil, errNotSupported()
	}

	if err := c.ErrorIfCancelled(); err != nil {
		return nil, err
	}

	var gerr *gerror.Error
	res, err := objectResult("g_file_monitor", slot(f.Object(), flags, c, &gerr), gerr, false)
	if err != nil {
		return nil, err
	}

	return FileMonitorFromObject(res, gtype.TransferFull), nil
}

func (f *File) boolOp(op string, slot func(*gtype.Object, *Cancellable, **gerror.Error) bool, c *Cancellable) error {
	if slot == nil {
		return errNotSupported()
	}

	if err := c.ErrorIfCancelled(); err != nil {
		return err
	}

	var gerr *gerror.Error

	return boolResult(op, slot(f.Object(), c, &gerr), gerr)
}

// Delete deletes the file, or the directory if it is empty.
func (f *File) Delete(c *Cancellable) error {
	return f.boolOp("g_file_delete", f.class().Delete, c)
}

// MakeDirectory creates the directory. The parent must exist.
func (f *File) MakeDirectory(c *Cancellable) error {
	return f.boolOp("g_file_make_directory", f.class().MakeDirectory, c)
}

// Trash moves the file to the trash.
func (f *File) Trash(c *Cancellable) error {
	return f.boolOp("g_file_trash", f.class().Trash, c)
}
