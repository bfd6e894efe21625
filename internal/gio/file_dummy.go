package gio

import (
	"net/url"
	"path"
	"strings"

	"github.com/desertwitch/gogio/internal/gtype"
)

// dummyFilePriv describes a location no vfs knows how to access. Only the
// name operations work on it, everything else is not supported.
type dummyFilePriv struct {
	uri     string
	decoded *url.URL
}

func dummyFileInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(dummyFileType, &dummyFilePriv{})
}

func dummyFileClassInit(class gtype.Class) {
	c := FileClassOf(class)

	c.Dup = func(self *gtype.Object) *gtype.Object { return newDummyFile(dummyFilePrivOf(self).uri) }
	c.Hash = func(self *gtype.Object) uint32 { return hashString(dummyFilePrivOf(self).uri) }
	c.Equal = func(self, other *gtype.Object) bool { return dummyFilePrivOf(self).uri == dummyFilePrivOf(other).uri }
	c.IsNative = func(*gtype.Object) bool { return false }
	c.GetURIScheme = func(self *gtype.Object) string { return uriScheme(dummyFilePrivOf(self).uri) }
	c.GetBasename = dummyFileGetBasename
	c.GetPath = func(*gtype.Object) string { return "" }
	c.GetURI = func(self *gtype.Object) string { return dummyFilePrivOf(self).uri }
	c.GetParseName = func(self *gtype.Object) string { return dummyFilePrivOf(self).uri }
	c.GetParent = dummyFileGetParent
	c.ResolveRelativePath = dummyFileResolveRelativePath
}

// newDummyFile returns a new dummy file for the URI, owned by the caller.
func newDummyFile(uri string) *gtype.Object {
	obj := gtype.MustNew(dummyFileType)

	p := dummyFilePrivOf(obj)
	p.uri = uri

	if u, err := url.Parse(uri); err == nil && u.Scheme != "" && u.Opaque == "" && u.Path != "" {
		p.decoded = u
	}

	return obj
}

func dummyFilePrivOf(obj *gtype.Object) *dummyFilePriv {
	return gtype.PrivateOf[*dummyFilePriv](obj, dummyFileType)
}

func dummyFileGetBasename(self *gtype.Object) string {
	p := dummyFilePrivOf(self)

	if p.decoded == nil {
		return p.uri
	}

	return path.Base(p.decoded.Path)
}

func dummyFileGetParent(self *gtype.Object) *gtype.Object {
	p := dummyFilePrivOf(self)

	if p.decoded == nil || p.decoded.Path == "/" {
		return nil
	}

	parent := *p.decoded
	parent.Path = path.Dir(p.decoded.Path)
	parent.RawPath = ""
	parent.RawQuery = ""
	parent.Fragment = ""

	return newDummyFile(parent.String())
}

func dummyFileResolveRelativePath(self *gtype.Object, relative string) *gtype.Object {
	p := dummyFilePrivOf(self)

	if p.decoded == nil {
		return newDummyFile(strings.TrimSuffix(p.uri, "/") + "/" + url.PathEscape(relative))
	}

	child := *p.decoded
	if path.IsAbs(relative) {
		child.Path = path.Clean(relative)
	} else {
		child.Path = path.Join(p.decoded.Path, relative)
	}
	child.RawPath = ""
	child.RawQuery = ""
	child.Fragment = ""

	return newDummyFile(child.String())
}
