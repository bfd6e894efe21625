package gio

import (
	"encoding/binary"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/zeebo/blake3"
	"golang.org/x/sys/unix"
)

type localFilePriv struct {
	path      string
	providers sysProviders
}

func localFileInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(localFileType, &localFilePriv{})
}

func localFileClassInit(class gtype.Class) {
	c := FileClassOf(class)

	c.Dup = localFileDup
	c.Hash = localFileHash
	c.Equal = localFileEqual
	c.IsNative = func(*gtype.Object) bool { return true }
	c.GetURIScheme = func(*gtype.Object) string { return "file" }
	c.GetBasename = localFileGetBasename
	c.GetPath = localFileGetPath
	c.GetURI = localFileGetURI
	c.GetParseName = localFileGetPath
	c.GetParent = localFileGetParent
	c.ResolveRelativePath = localFileResolveRelativePath
	c.QueryInfo = localFileQueryInfo
	c.EnumerateChildren = localFileEnumerateChildren
	c.Monitor = localFileMonitor
	c.Delete = localFileDelete
	c.MakeDirectory = localFileMakeDirectory
	c.Trash = localFileTrash
}

// newLocalFile returns a new local file, owned by the caller. Relative
// paths are made absolute against the working directory.
func newLocalFile(path string, providers sysProviders) *gtype.Object {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	} else {
		path = filepath.Clean(path)
	}

	obj := gtype.MustNew(localFileType)

	p := localFilePrivOf(obj)
	p.path = path
	p.providers = providers

	return obj
}

func localFilePrivOf(obj *gtype.Object) *localFilePriv {
	return gtype.PrivateOf[*localFilePriv](obj, localFileType)
}

func localFileDup(self *gtype.Object) *gtype.Object {
	p := localFilePrivOf(self)

	return newLocalFile(p.path, p.providers)
}

// hashString derives the hash of a file from its identifying string.
func hashString(s string) uint32 {
	sum := blake3.Sum256([]byte(s))

	return binary.LittleEndian.Uint32(sum[:4])
}

func localFileHash(self *gtype.Object) uint32 {
	return hashString(localFilePrivOf(self).path)
}

func localFileEqual(self, other *gtype.Object) bool {
	return localFilePrivOf(self).path == localFilePrivOf(other).path
}

func localFileGetBasename(self *gtype.Object) string {
	return filepath.Base(localFilePrivOf(self).path)
}

func localFileGetPath(self *gtype.Object) string {
	return localFilePrivOf(self).path
}

func localFileGetURI(self *gtype.Object) string {
	u := url.URL{Scheme: "file", Path: localFilePrivOf(self).path}

	return u.String()
}

func localFileGetParent(self *gtype.Object) *gtype.Object {
	p := localFilePrivOf(self)

	if p.path == "/" {
		return nil
	}

	return newLocalFile(filepath.Dir(p.path), p.providers)
}

func localFileResolveRelativePath(self *gtype.Object, relative string) *gtype.Object {
	p := localFilePrivOf(self)

	if filepath.IsAbs(relative) {
		return newLocalFile(relative, p.providers)
	}

	return newLocalFile(filepath.Join(p.path, relative), p.providers)
}

func localFileQueryInfo(self *gtype.Object, attributes string, flags FileQueryInfoFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object {
	p := localFilePrivOf(self)

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	info, gerr := localFileInfo(p.path, NewAttributeMatcher(attributes), flags, p.providers)
	if gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	return info.Steal()
}

func localFileEnumerateChildren(self *gtype.Object, attributes string, flags FileQueryInfoFlags, c *Cancellable, errOut **gerror.Error) *gtype.Object {
	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	e, gerr := newLocalFileEnumerator(FileFromObject(self, gtype.TransferNone), attributes, flags)
	if gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	return e.Steal()
}

func localFileMonitor(self *gtype.Object, _ FileMonitorFlags, _ *Cancellable, errOut **gerror.Error) *gtype.Object {
	file := FileFromObject(self, gtype.TransferNone)
	defer file.Unref()

	m, err := NewPollFileMonitor(pollFileMonitorType, file, DefaultPollInterval)
	if err != nil {
		gerror.Set(errOut, ErrorFrom(err))

		return nil
	}

	return m.Steal()
}

func localFileDelete(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool {
	p := localFilePrivOf(self)

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return false
	}

	if err := p.providers.os.Remove(p.path); err != nil {
		gerror.Set(errOut, NewIOError(IOErrorEnum(ErrorFrom(err).Code), "Error removing file %s: %s", p.path, errnoMessage(err)))

		return false
	}

	return true
}

func localFileMakeDirectory(self *gtype.Object, c *Cancellable, errOut **gerror.Error) bool {
	p := localFilePrivOf(self)

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return false
	}

	if err := p.providers.unix.Mkdir(p.path, 0o777); err != nil {
		gerror.Set(errOut, NewIOError(IOErrorEnum(ErrorFrom(err).Code), "Error creating directory %s: %s", p.path, errnoMessage(err)))

		return false
	}

	return true
}

func localFileTrash(self *gtype.Object, _ *Cancellable, errOut **gerror.Error) bool {
	gerror.Set(errOut, NewIOError(IOErrorNotSupported, "Trashing on system internal mounts is not supported: %s",
		localFilePrivOf(self).path))

	return false
}

// errnoMessage returns the description of the system error behind err.
func errnoMessage(err error) string {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}

	return err.Error()
}

// localFileInfo stats a local path and fills the attributes selected by the
// matcher. Symbolic links are followed unless flags say otherwise; a broken
// link is described by the link itself.
func localFileInfo(path string, matcher *AttributeMatcher, flags FileQueryInfoFlags, providers sysProviders) (*FileInfo, *gerror.Error) {
	var lst unix.Stat_t
	if err := providers.unix.Lstat(path, &lst); err != nil {
		gerr := ErrorFrom(err)

		return nil, NewIOError(IOErrorEnum(gerr.Code), "Error when getting information for file %s: %s", path, errnoMessage(err))
	}

	st := lst
	isLink := lst.Mode&unix.S_IFMT == unix.S_IFLNK

	if isLink && flags&FileQueryInfoNofollowSymlinks == 0 {
		var target unix.Stat_t
		if err := providers.unix.Stat(path, &target); err == nil {
			st = target
		}
	}

	info := NewFileInfo()
	name := filepath.Base(path)

	info.SetAttribute(AttrStandardName, name)
	info.SetAttribute(AttrStandardDisplayName, name)
	info.SetAttribute(AttrStandardType, uint32(fileTypeFromMode(st.Mode)))
	info.SetAttribute(AttrStandardSize, st.Size)
	info.SetAttribute(AttrStandardIsHidden, strings.HasPrefix(name, "."))
	info.SetAttribute(AttrStandardIsSymlink, isLink)

	if isLink && matcher.Matches(AttrStandardSymlinkTarget) {
		if target, err := providers.os.Readlink(path); err == nil {
			info.SetAttribute(AttrStandardSymlinkTarget, target)
		}
	}

	info.setModificationTime(time.Unix(st.Mtim.Unix()))
	info.SetAttribute(AttrTimeAccess, uint64(st.Atim.Sec)) //nolint:gosec
	info.SetAttribute(AttrUnixInode, st.Ino)
	info.SetAttribute(AttrUnixMode, st.Mode)
	info.SetAttribute(AttrUnixNlink, uint32(st.Nlink)) //nolint:gosec
	info.SetAttribute(AttrUnixUID, st.Uid)
	info.SetAttribute(AttrUnixGID, st.Gid)

	matcher.filter(info)

	return info, nil
}

func fileTypeFromMode(mode uint32) FileType {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return FileTypeRegular
	case unix.S_IFDIR:
		return FileTypeDirectory
	case unix.S_IFLNK:
		return FileTypeSymbolicLink
	case unix.S_IFCHR, unix.S_IFBLK, unix.S_IFIFO, unix.S_IFSOCK:
		return FileTypeSpecial
	default:
		return FileTypeUnknown
	}
}
