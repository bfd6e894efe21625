package gio

import (
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/desertwitch/gogio/internal/gtype"
)

// VfsClass is the class structure of the abstract virtual filesystem type.
// The abstract type installs none of the slots.
type VfsClass struct {
	gtype.ObjectClass

	// IsActive reports whether the vfs can be used.
	IsActive func(self *gtype.Object) bool

	// GetFileForPath returns a file for a local path through a full transfer.
	GetFileForPath func(self *gtype.Object, path string) *gtype.Object

	// GetFileForURI returns a file for a URI through a full transfer.
	GetFileForURI func(self *gtype.Object, uri string) *gtype.Object

	// GetSupportedURISchemes returns the schemes the vfs resolves. The slice
	// stays owned by the vfs, callers must not modify it.
	GetSupportedURISchemes func(self *gtype.Object) []string

	// ParseName returns a file for a user provided name through a full
	// transfer.
	ParseName func(self *gtype.Object, parseName string) *gtype.Object
}

// Copy returns a copy of the class structure.
func (c *VfsClass) Copy() gtype.Class {
	cp := *c

	return &cp
}

// AsVfsClass returns the class structure itself.
func (c *VfsClass) AsVfsClass() *VfsClass {
	return c
}

type vfsClassLayout interface {
	AsVfsClass() *VfsClass
}

// VfsClassOf casts a class structure to [VfsClass].
func VfsClassOf(class gtype.Class) *VfsClass {
	return gtype.CastClass[vfsClassLayout](class).AsVfsClass()
}

// VfsFileLookupFunc resolves an identifier (a URI or a parse name) of a
// registered scheme. It returns a file owned by the caller, or nil to let
// the vfs class resolve the identifier.
type VfsFileLookupFunc func(vfs *Vfs, identifier string) *File

type uriSchemeHooks struct {
	uriFunc       VfsFileLookupFunc
	parseNameFunc VfsFileLookupFunc
}

type vfsPriv struct {
	sync.RWMutex
	schemes map[string]uriSchemeHooks
}

func vfsInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(vfsType, &vfsPriv{
		schemes: make(map[string]uriSchemeHooks),
	})
}

// Vfs resolves paths, URIs and parse names into files.
type Vfs struct {
	gtype.Handle
}

// NewVfs creates a vfs of type t, which must derive from the abstract vfs
// type.
func NewVfs(t gtype.Type) (*Vfs, error) {
	if !t.IsA(vfsType) {
		return nil, ErrNotVfs
	}

	obj, err := gtype.New(t)
	if err != nil {
		return nil, err
	}

	return &Vfs{Handle: gtype.HandleFrom(obj, gtype.TransferFull)}, nil
}

// VfsFromObject wraps a raw instance received through a position with the
// given transfer tag.
func VfsFromObject(obj *gtype.Object, transfer gtype.Transfer) *Vfs {
	if obj == nil {
		return nil
	}

	if !obj.IsA(vfsType) {
		gtype.Violatef("gio.Vfs", "%s instance is not a %s", obj.Type(), vfsType)
	}

	return &Vfs{Handle: gtype.HandleFrom(obj, transfer)}
}

//nolint:gochecknoglobals
var localVfs = sync.OnceValue(func() *Vfs {
	v, err := NewVfs(localVfsType)
	if err != nil {
		panic(err)
	}

	return v
})

// Local returns the process-wide local vfs. The handle is shared and must
// not be released.
func Local() *Vfs {
	return localVfs()
}

// Default returns the vfs used by the file constructors of this package.
func Default() *Vfs {
	return Local()
}

func (v *Vfs) class() *VfsClass {
	return VfsClassOf(v.Object().Class())
}

func (v *Vfs) priv() *vfsPriv {
	return gtype.PrivateOf[*vfsPriv](v.Object(), vfsType)
}

func missingVfsSlot(op string, v *Vfs, slot string) {
	gtype.Violatef(op, "%s does not implement %s", v.Object().Type(), slot)
}

// IsActive reports whether the vfs can be used.
func (v *Vfs) IsActive() bool {
	slot := v.class().IsActive
	if slot == nil {
		missingVfsSlot("g_vfs_is_active", v, "is_active")
	}

	return slot(v.Object())
}

// FileForPath returns a file for a local path.
func (v *Vfs) FileForPath(path string) *File {
	slot := v.class().GetFileForPath
	if slot == nil {
		missingVfsSlot("g_vfs_get_file_for_path", v, "get_file_for_path")
	}

	return FileFromObject(requireObject("g_vfs_get_file_for_path", slot(v.Object(), path)), gtype.TransferFull)
}

// FileForURI returns a file for a URI. Registered schemes are resolved by
// their hooks before the class is asked.
func (v *Vfs) FileForURI(uri string) *File {
	if scheme := uriScheme(uri); scheme != "" {
		if hooks, ok := v.hooksFor(scheme); ok && hooks.uriFunc != nil {
			if f := hooks.uriFunc(v, uri); f != nil {
				return f
			}
		}
	}

	slot := v.class().GetFileForURI
	if slot == nil {
		missingVfsSlot("g_vfs_get_file_for_uri", v, "get_file_for_uri")
	}

	return FileFromObject(requireObject("g_vfs_get_file_for_uri", slot(v.Object(), uri)), gtype.TransferFull)
}

// SupportedURISchemes returns the schemes resolved by the class, followed by
// the registered schemes. The returned slice is owned by the caller.
func (v *Vfs) SupportedURISchemes() []string {
	slot := v.class().GetSupportedURISchemes
	if slot == nil {
		missingVfsSlot("g_vfs_get_supported_uri_schemes", v, "get_supported_uri_schemes")
	}

	schemes := gtype.StringsFrom(slot(v.Object()), gtype.TransferNone)

	p := v.priv()
	p.RLock()
	registered := make([]string, 0, len(p.schemes))
	for scheme := range p.schemes {
		if !slices.Contains(schemes, scheme) {
			registered = append(registered, scheme)
		}
	}
	p.RUnlock()

	slices.Sort(registered)

	return append(schemes, registered...)
}

// ParseName returns a file for a user provided name, as returned by
// [File.ParseName].
func (v *Vfs) ParseName(parseName string) *File {
	if scheme := uriScheme(parseName); scheme != "" {
		if hooks, ok := v.hooksFor(scheme); ok && hooks.parseNameFunc != nil {
			if f := hooks.parseNameFunc(v, parseName); f != nil {
				return f
			}
		}
	}

	slot := v.class().ParseName
	if slot == nil {
		missingVfsSlot("g_vfs_parse_name", v, "parse_name")
	}

	return FileFromObject(requireObject("g_vfs_parse_name", slot(v.Object(), parseName)), gtype.TransferFull)
}

// RegisterURIScheme registers lookup hooks for a scheme. It returns false if
// the scheme is already handled by the class or by earlier registration.
func (v *Vfs) RegisterURIScheme(scheme string, uriFunc, parseNameFunc VfsFileLookupFunc) bool {
	if scheme == "" {
		return false
	}

	if slot := v.class().GetSupportedURISchemes; slot != nil && slices.Contains(slot(v.Object()), scheme) {
		return false
	}

	p := v.priv()
	p.Lock()
	defer p.Unlock()

	if _, exists := p.schemes[scheme]; exists {
		return false
	}

	p.schemes[scheme] = uriSchemeHooks{
		uriFunc:       uriFunc,
		parseNameFunc: parseNameFunc,
	}

	return true
}

// UnregisterURIScheme removes the hooks of a scheme. It returns false if the
// scheme was not registered.
func (v *Vfs) UnregisterURIScheme(scheme string) bool {
	p := v.priv()
	p.Lock()
	defer p.Unlock()

	if _, exists := p.schemes[scheme]; !exists {
		return false
	}

	delete(p.schemes, scheme)

	return true
}

func (v *Vfs) hooksFor(scheme string) (uriSchemeHooks, bool) {
	p := v.priv()
	p.RLock()
	defer p.RUnlock()

	hooks, ok := p.schemes[scheme]

	return hooks, ok
}

// uriScheme returns the lower-cased scheme of a URI, or "" if the string
// does not start with a valid scheme.
func uriScheme(uri string) string {
	scheme, _, found := strings.Cut(uri, ":")
	if !found || scheme == "" {
		return ""
	}

	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}

	return strings.ToLower(scheme)
}

// uriPath returns the unescaped path of a hierarchical URI.
func uriPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Opaque != "" {
		return "", false
	}

	return u.Path, true
}
