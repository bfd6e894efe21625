package gio

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/go-git/go-billy/v5"
)

// memoryFilePriv locates a file inside a billy filesystem served under a
// custom URI scheme, for example an in-memory tree or a chrooted directory.
type memoryFilePriv struct {
	fs     billy.Filesystem
	scheme string
	path   string
}

func memoryFileInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(memoryFileType, &memoryFilePriv{})
}

func memoryFileClassInit(class gtype.Class) {
	c := FileClassOf(class)

	c.Dup = func(self *gtype.Object) *gtype.Object {
		p := memoryFilePrivOf(self)

		return newMemoryFile(p.fs, p.scheme, p.path)
	}
	c.Hash = func(self *gtype.Object) uint32 { return hashString(memoryFileGetURI(self)) }
	c.Equal = memoryFileEqual
	c.IsNative = func(*gtype.Object) bool { return false }
	c.GetURIScheme = func(self *gtype.Object) string { return memoryFilePrivOf(self).scheme }
	c.GetBasename = func(self *gtype.Object) string { return path.Base(memoryFilePrivOf(self).path) }
	c.GetPath = func(*gtype.Object) string { return "" }
	c.GetURI = memoryFileGetURI
	c.GetParseName = memoryFileGetURI
	c.GetParent = memoryFileGetParent
	c.ResolveRelativePath = memoryFileResolveRelativePath
	c.QueryInfo = memoryFileQueryInfo
	c.EnumerateChildren = memoryFileEnumerateChildren
	c.Monitor = memoryFileMonitor
	c.Delete = memoryFileDelete
	c.MakeDirectory = memoryFileMakeDirectory
	c.Trash = func(_ *gtype.Object, _ *Cancellable, errOut **gerror.Error) bool {
		gerror.Set(errOut, NewIOError(IOErrorNotSupported, "Trash not supported"))

		return false
	}
}

// NewMemoryFile returns a file at the path of a billy filesystem, identified
// by URIs of the given scheme.
func NewMemoryFile(filesystem billy.Filesystem, scheme, name string) *File {
	return FileFromObject(newMemoryFile(filesystem, scheme, name), gtype.TransferFull)
}

func newMemoryFile(filesystem billy.Filesystem, scheme, name string) *gtype.Object {
	obj := gtype.MustNew(memoryFileType)

	p := memoryFilePrivOf(obj)
	p.fs = filesystem
	p.scheme = strings.ToLower(scheme)
	p.path = path.Clean("/" + name)

	return obj
}

func memoryFilePrivOf(obj *gtype.Object) *memoryFilePriv {
	return gtype.PrivateOf[*memoryFilePriv](obj, memoryFileType)
}

// RegisterMemoryScheme makes the vfs resolve URIs and parse names of the
// scheme into files of the billy filesystem. It returns false if the scheme
// is already handled.
func RegisterMemoryScheme(v *Vfs, scheme string, filesystem billy.Filesystem) bool {
	lookup := func(_ *Vfs, identifier string) *File {
		if uriScheme(identifier) != strings.ToLower(scheme) {
			return nil
		}

		name, ok := uriPath(identifier)
		if !ok {
			return nil
		}

		return NewMemoryFile(filesystem, scheme, name)
	}

	return v.RegisterURIScheme(strings.ToLower(scheme), lookup, lookup)
}

func memoryFileEqual(self, other *gtype.Object) bool {
	a, b := memoryFilePrivOf(self), memoryFilePrivOf(other)

	return a.fs == b.fs && a.scheme == b.scheme && a.path == b.path
}

func memoryFileGetURI(self *gtype.Object) string {
	p := memoryFilePrivOf(self)
	u := url.URL{Scheme: p.scheme, Path: p.path}

	return u.String()
}

func memoryFileGetParent(self *gtype.Object) *gtype.Object {
	p := memoryFilePrivOf(self)

	if p.path == "/" {
		return nil
	}

	return newMemoryFile(p.fs, p.scheme, path.Dir(p.path))
}

func memoryFileResolveRelativePath(self *gtype.Object, relative string) *gtype.Object {
	p := memoryFilePrivOf(self)

	if path.IsAbs(relative) {
		return newMemoryFile(p.fs, p.scheme, relative)
	}

	return newMemoryFile(p.fs, p.scheme, path.Join(p.path, relative))
}

// memoryFileInfo describes an entry of a billy filesystem.
func memoryFileInfo(fi os.FileInfo, matcher *AttributeMatcher) *FileInfo {
	info := NewFileInfo()
	name := fi.Name()
	if name == "" {
		name = "/"
	}

	fileType := FileTypeRegular
	switch {
	case fi.IsDir():
		fileType = FileTypeDirectory
	case fi.Mode()&fs.ModeSymlink != 0:
		fileType = FileTypeSymbolicLink
	case !fi.Mode().IsRegular():
		fileType = FileTypeSpecial
	}

	info.SetAttribute(AttrStandardName, name)
	info.SetAttribute(AttrStandardDisplayName, name)
	info.SetAttribute(AttrStandardType, uint32(fileType))
	info.SetAttribute(AttrStandardSize, fi.Size())
	info.SetAttribute(AttrStandardIsHidden, strings.HasPrefix(name, "."))
	info.SetAttribute(AttrStandardIsSymlink, fileType == FileTypeSymbolicLink)
	info.SetAttribute(AttrUnixMode, uint32(fi.Mode().Perm()))
	info.setModificationTime(fi.ModTime())

	matcher.filter(info)

	return info
}

func memoryFileQueryInfo(self *gtype.Object, attributes string, flags FileQueryInfoFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object {
	p := memoryFilePrivOf(self)

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	stat := p.fs.Stat
	if flags&FileQueryInfoNofollowSymlinks != 0 {
		stat = p.fs.Lstat
	}

	fi, err := stat(p.path)
	if err != nil {
		gerror.Set(errOut, memoryError(err, "Error when getting information for file %s", memoryFileGetURI(self)))

		return nil
	}

	info := memoryFileInfo(fi, NewAttributeMatcher(attributes))
	if p.path == "/" {
		info.SetAttribute(AttrStandardName, "/")
	}

	return info.Steal()
}

func memoryFileEnumerateChildren(self *gtype.Object, attributes string, _ FileQueryInfoFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object {
	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	container := FileFromObject(self, gtype.TransferNone)
	defer container.Unref()

	e, gerr := newMemoryFileEnumerator(container, attributes)
	if gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	return e.Steal()
}

func memoryFileMonitor(self *gtype.Object, _ FileMonitorFlags, _ *Cancellable, errOut **gerror.Error) *gtype.Object {
	file := FileFromObject(self, gtype.TransferNone)
	defer file.Unref()

	m, err := NewPollFileMonitor(pollFileMonitorType, file, DefaultPollInterval)
	if err != nil {
		gerror.Set(errOut, ErrorFrom(err))

		return nil
	}

	return m.Steal()
}

func memoryFileDelete(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool {
	p := memoryFilePrivOf(self)

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return false
	}

	fi, err := p.fs.Lstat(p.path)
	if err != nil {
		gerror.Set(errOut, memoryError(err, "Error removing file %s", memoryFileGetURI(self)))

		return false
	}

	if fi.IsDir() {
		children, err := p.fs.ReadDir(p.path)
		if err == nil && len(children) > 0 {
			gerror.Set(errOut, NewIOError(IOErrorNotEmpty, "Error removing file %s: directory not empty", memoryFileGetURI(self)))

			return false
		}
	}

	if err := p.fs.Remove(p.path); err != nil {
		gerror.Set(errOut, memoryError(err, "Error removing file %s", memoryFileGetURI(self)))

		return false
	}

	return true
}

func memoryFileMakeDirectory(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool {
	p := memoryFilePrivOf(self)

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return false
	}

	if _, err := p.fs.Lstat(p.path); err == nil {
		gerror.Set(errOut, NewIOError(IOErrorExists, "Error creating directory %s: file exists", memoryFileGetURI(self)))

		return false
	}

	parent, err := p.fs.Stat(path.Dir(p.path))
	switch {
	case err != nil:
		gerror.Set(errOut, memoryError(err, "Error creating directory %s", memoryFileGetURI(self)))

		return false
	case !parent.IsDir():
		gerror.Set(errOut, NewIOError(IOErrorNotDirectory, "Error creating directory %s: not a directory", memoryFileGetURI(self)))

		return false
	}

	if err := p.fs.MkdirAll(p.path, 0o777); err != nil {
		gerror.Set(errOut, memoryError(err, "Error creating directory %s", memoryFileGetURI(self)))

		return false
	}

	return true
}

// memoryError maps a billy error into the IO error domain, prefixing the
// message.
func memoryError(err error, format string, args ...any) *gerror.Error {
	gerr := ErrorFrom(err)

	msg := err.Error()
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		msg = pathErr.Err.Error()
	}

	args = append(args, msg)

	return NewIOError(IOErrorEnum(gerr.Code), format+": %s", args...)
}
