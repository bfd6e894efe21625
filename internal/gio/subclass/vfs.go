package subclass

import (
	"sync"

	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gtype"
)

// VfsImpl is the set of virtual methods of a vfs.
type VfsImpl interface {
	ObjectImpl

	// IsActive reports whether the vfs can be used.
	IsActive() bool

	// FileForPath returns a file for a local path, owned by the caller.
	FileForPath(path string) *gio.File

	// FileForURI returns a file for a URI, owned by the caller.
	FileForURI(uri string) *gio.File

	// SupportedURISchemes returns the schemes the vfs resolves. The vfs
	// keeps the returned slice, callers get their own copy.
	SupportedURISchemes() []string

	// ParseName returns a file for a user provided name, owned by the
	// caller.
	ParseName(parseName string) *gio.File

	vfsBase() *VfsImplBase
}

// VfsImplBase is embedded by Go vfs subclasses.
type VfsImplBase struct {
	ObjectImplBase

	mu      sync.Mutex
	schemes []string
}

func (b *VfsImplBase) vfsBase() *VfsImplBase {
	return b
}

// keepSchemes stores the schemes returned through the slot, which stay
// owned by the instance.
func (b *VfsImplBase) keepSchemes(schemes []string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.schemes = schemes

	return b.schemes
}

// IsActive chains to the parent class.
func (b *VfsImplBase) IsActive() bool {
	return b.ParentIsActive()
}

// FileForPath chains to the parent class.
func (b *VfsImplBase) FileForPath(path string) *gio.File {
	return b.ParentFileForPath(path)
}

// FileForURI chains to the parent class.
func (b *VfsImplBase) FileForURI(uri string) *gio.File {
	return b.ParentFileForURI(uri)
}

// SupportedURISchemes chains to the parent class.
func (b *VfsImplBase) SupportedURISchemes() []string {
	return b.ParentSupportedURISchemes()
}

// ParseName chains to the parent class.
func (b *VfsImplBase) ParseName(parseName string) *gio.File {
	return b.ParentParseName(parseName)
}

func (b *VfsImplBase) parentClass() *gio.VfsClass {
	return gio.VfsClassOf(b.ParentClass())
}

// ParentIsActive calls the is_active slot of the parent class.
func (b *VfsImplBase) ParentIsActive() bool {
	slot := b.parentClass().IsActive
	if slot == nil {
		missingParent("is_active")
	}

	return slot(b.Obj())
}

// ParentFileForPath calls the get_file_for_path slot of the parent class.
func (b *VfsImplBase) ParentFileForPath(path string) *gio.File {
	slot := b.parentClass().GetFileForPath
	if slot == nil {
		missingParent("get_file_for_path")
	}

	return gio.FileFromObject(slot(b.Obj(), path), gtype.TransferFull)
}

// ParentFileForURI calls the get_file_for_uri slot of the parent class.
func (b *VfsImplBase) ParentFileForURI(uri string) *gio.File {
	slot := b.parentClass().GetFileForURI
	if slot == nil {
		missingParent("get_file_for_uri")
	}

	return gio.FileFromObject(slot(b.Obj(), uri), gtype.TransferFull)
}

// ParentSupportedURISchemes calls the get_supported_uri_schemes slot of the
// parent class and returns a copy of its result.
func (b *VfsImplBase) ParentSupportedURISchemes() []string {
	slot := b.parentClass().GetSupportedURISchemes
	if slot == nil {
		missingParent("get_supported_uri_schemes")
	}

	return gtype.StringsFrom(slot(b.Obj()), gtype.TransferNone)
}

// ParentParseName calls the parse_name slot of the parent class.
func (b *VfsImplBase) ParentParseName(parseName string) *gio.File {
	slot := b.parentClass().ParseName
	if slot == nil {
		missingParent("parse_name")
	}

	return gio.FileFromObject(slot(b.Obj(), parseName), gtype.TransferFull)
}

// RegisterVfs registers T as a subclass of parent, which must derive from
// the vfs type. Instances are created with [gio.NewVfs].
func RegisterVfs[T any, PT interface {
	*T
	VfsImpl
}](parent gtype.Type, name string,
) (gtype.Type, error) {
	if err := checkParent(parent, gio.TypeVfs(), name); err != nil {
		return gtype.Invalid, err
	}

	return gtype.RegisterSubclass[T, PT](parent, name, installVfs[PT])
}

// fileToNative hands the caller's reference of a file over to a position
// with full transfer.
func fileToNative(f *gio.File) *gtype.Object {
	if f == nil {
		return nil
	}

	return f.Steal()
}

func installVfs[PT VfsImpl](class gtype.Class) {
	installObject[PT](class)

	t := class.Type()
	c := gio.VfsClassOf(class)

	c.IsActive = func(self *gtype.Object) bool {
		defer recoverToViolation("is_active")

		return gtype.ImplOf[PT](self, t).IsActive()
	}

	c.GetFileForPath = func(self *gtype.Object, path string) *gtype.Object {
		defer recoverToViolation("get_file_for_path")

		return fileToNative(gtype.ImplOf[PT](self, t).FileForPath(path))
	}

	c.GetFileForURI = func(self *gtype.Object, uri string) *gtype.Object {
		defer recoverToViolation("get_file_for_uri")

		return fileToNative(gtype.ImplOf[PT](self, t).FileForURI(uri))
	}

	c.GetSupportedURISchemes = func(self *gtype.Object) []string {
		defer recoverToViolation("get_supported_uri_schemes")

		imp := gtype.ImplOf[PT](self, t)

		return imp.vfsBase().keepSchemes(imp.SupportedURISchemes())
	}

	c.ParseName = func(self *gtype.Object, parseName string) *gtype.Object {
		defer recoverToViolation("parse_name")

		return fileToNative(gtype.ImplOf[PT](self, t).ParseName(parseName))
	}
}
