package gio

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertwitch/gogio/internal/gtype"
)

// Attribute keys understood by the native file classes.
const (
	AttrStandardName          = "standard::name"
	AttrStandardDisplayName   = "standard::display-name"
	AttrStandardType          = "standard::type"
	AttrStandardSize          = "standard::size"
	AttrStandardIsHidden      = "standard::is-hidden"
	AttrStandardIsSymlink     = "standard::is-symlink"
	AttrStandardSymlinkTarget = "standard::symlink-target"
	AttrTimeModified          = "time::modified"
	AttrTimeModifiedUsec      = "time::modified-usec"
	AttrTimeAccess            = "time::access"
	AttrUnixInode             = "unix::inode"
	AttrUnixMode              = "unix::mode"
	AttrUnixNlink             = "unix::nlink"
	AttrUnixUID               = "unix::uid"
	AttrUnixGID               = "unix::gid"
)

// FileType is the type of a file.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeSymbolicLink
	FileTypeSpecial
	FileTypeShortcut
	FileTypeMountable
)

func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "regular"
	case FileTypeDirectory:
		return "directory"
	case FileTypeSymbolicLink:
		return "symlink"
	case FileTypeSpecial:
		return "special"
	case FileTypeShortcut:
		return "shortcut"
	case FileTypeMountable:
		return "mountable"
	default:
		return "unknown"
	}
}

// FileQueryInfoFlags modify how file information is queried.
type FileQueryInfoFlags int

const (
	FileQueryInfoNone             FileQueryInfoFlags = 0
	FileQueryInfoNofollowSymlinks FileQueryInfoFlags = 1 << 0
)

type fileInfoPriv struct {
	sync.RWMutex
	attrs map[string]any
}

// FileInfo is a set of file attributes, keyed by "namespace::name".
type FileInfo struct {
	gtype.Handle
}

// NewFileInfo returns a new, empty [FileInfo].
func NewFileInfo() *FileInfo {
	return &FileInfo{Handle: gtype.HandleFrom(gtype.MustNew(fileInfoType), gtype.TransferFull)}
}

// FileInfoFromObject wraps a raw instance received through a position with
// the given transfer tag.
func FileInfoFromObject(obj *gtype.Object, transfer gtype.Transfer) *FileInfo {
	if obj == nil {
		return nil
	}

	if !obj.IsA(fileInfoType) {
		gtype.Violatef("gio.FileInfo", "%s instance is not a %s", obj.Type(), fileInfoType)
	}

	return &FileInfo{Handle: gtype.HandleFrom(obj, transfer)}
}

func (i *FileInfo) priv() *fileInfoPriv {
	return gtype.PrivateOf[*fileInfoPriv](i.Object(), fileInfoType)
}

// Dup returns an independent copy of the attribute set.
func (i *FileInfo) Dup() *FileInfo {
	dup := NewFileInfo()

	p := i.priv()
	p.RLock()
	defer p.RUnlock()

	dup.priv().attrs = maps.Clone(p.attrs)

	return dup
}

// HasAttribute reports whether the attribute is set.
func (i *FileInfo) HasAttribute(key string) bool {
	p := i.priv()
	p.RLock()
	defer p.RUnlock()

	_, ok := p.attrs[key]

	return ok
}

// Attribute returns the raw value of an attribute.
func (i *FileInfo) Attribute(key string) (any, bool) {
	p := i.priv()
	p.RLock()
	defer p.RUnlock()

	v, ok := p.attrs[key]

	return v, ok
}

// ListAttributes returns the sorted keys of all attributes set, optionally
// limited to one namespace.
func (i *FileInfo) ListAttributes(namespace string) []string {
	p := i.priv()
	p.RLock()
	defer p.RUnlock()

	keys := make([]string, 0, len(p.attrs))
	for key := range p.attrs {
		if namespace == "" || strings.HasPrefix(key, namespace+"::") {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	return keys
}

// SetAttribute sets an attribute to a raw value.
func (i *FileInfo) SetAttribute(key string, value any) {
	p := i.priv()
	p.Lock()
	defer p.Unlock()

	p.attrs[key] = value
}

// RemoveAttribute unsets an attribute.
func (i *FileInfo) RemoveAttribute(key string) {
	p := i.priv()
	p.Lock()
	defer p.Unlock()

	delete(p.attrs, key)
}

func attributeAs[V any](i *FileInfo, key string) V {
	v, _ := i.Attribute(key)
	typed, _ := v.(V)

	return typed
}

// AttributeString returns a string attribute, or "" if unset.
func (i *FileInfo) AttributeString(key string) string {
	return attributeAs[string](i, key)
}

// AttributeBool returns a boolean attribute, or false if unset.
func (i *FileInfo) AttributeBool(key string) bool {
	return attributeAs[bool](i, key)
}

// AttributeUint32 returns a uint32 attribute, or 0 if unset.
func (i *FileInfo) AttributeUint32(key string) uint32 {
	return attributeAs[uint32](i, key)
}

// AttributeUint64 returns a uint64 attribute, or 0 if unset.
func (i *FileInfo) AttributeUint64(key string) uint64 {
	return attributeAs[uint64](i, key)
}

// AttributeInt64 returns an int64 attribute, or 0 if unset.
func (i *FileInfo) AttributeInt64(key string) int64 {
	return attributeAs[int64](i, key)
}

// Name returns the on-disk name of the file.
func (i *FileInfo) Name() string { return i.AttributeString(AttrStandardName) }

// DisplayName returns the name of the file for display.
func (i *FileInfo) DisplayName() string { return i.AttributeString(AttrStandardDisplayName) }

// FileType returns the type of the file.
func (i *FileInfo) FileType() FileType { return FileType(i.AttributeUint32(AttrStandardType)) }

// Size returns the size of the file in bytes.
func (i *FileInfo) Size() int64 { return i.AttributeInt64(AttrStandardSize) }

// IsHidden reports whether the file is hidden.
func (i *FileInfo) IsHidden() bool { return i.AttributeBool(AttrStandardIsHidden) }

// IsSymlink reports whether the file is a symbolic link.
func (i *FileInfo) IsSymlink() bool { return i.AttributeBool(AttrStandardIsSymlink) }

// SymlinkTarget returns the target of a symbolic link.
func (i *FileInfo) SymlinkTarget() string { return i.AttributeString(AttrStandardSymlinkTarget) }

// ModificationTime returns the modification time, or the zero time if unset.
func (i *FileInfo) ModificationTime() time.Time {
	if !i.HasAttribute(AttrTimeModified) {
		return time.Time{}
	}

	sec := i.AttributeUint64(AttrTimeModified)
	usec := i.AttributeUint32(AttrTimeModifiedUsec)

	return time.Unix(int64(sec), int64(usec)*int64(time.Microsecond)) //nolint:gosec
}

// setModificationTime sets both modification time attributes.
func (i *FileInfo) setModificationTime(t time.Time) {
	i.SetAttribute(AttrTimeModified, uint64(t.Unix()))                          //nolint:gosec
	i.SetAttribute(AttrTimeModifiedUsec, uint32(t.Nanosecond()/int(time.Microsecond))) //nolint:gosec
}

// AttributeMatcher selects attributes from a comma-separated list of
// "namespace::name" keys, "namespace::*" wildcards or "*".
type AttributeMatcher struct {
	all        bool
	namespaces map[string]struct{}
	keys       map[string]struct{}
}

// NewAttributeMatcher parses an attribute list. An empty list matches
// nothing.
func NewAttributeMatcher(attributes string) *AttributeMatcher {
	m := &AttributeMatcher{
		namespaces: make(map[string]struct{}),
		keys:       make(map[string]struct{}),
	}

	for _, part := range strings.Split(attributes, ",") {
		part = strings.TrimSpace(part)

		switch {
		case part == "":
			continue
		case part == "*":
			m.all = true
		case strings.HasSuffix(part, "::*"):
			m.namespaces[strings.TrimSuffix(part, "::*")] = struct{}{}
		default:
			m.keys[part] = struct{}{}
		}
	}

	return m
}

// Matches reports whether the attribute key is selected.
func (m *AttributeMatcher) Matches(key string) bool {
	if m.all {
		return true
	}

	if _, ok := m.keys[key]; ok {
		return true
	}

	namespace, _, found := strings.Cut(key, "::")
	if !found {
		return false
	}

	_, ok := m.namespaces[namespace]

	return ok
}

// MatchesNamespace reports whether any attribute of the namespace may be
// selected.
func (m *AttributeMatcher) MatchesNamespace(namespace string) bool {
	if m.all {
		return true
	}

	if _, ok := m.namespaces[namespace]; ok {
		return true
	}

	for key := range m.keys {
		if strings.HasPrefix(key, namespace+"::") {
			return true
		}
	}

	return false
}

// filter removes all attributes the matcher does not select.
func (m *AttributeMatcher) filter(info *FileInfo) {
	if m.all {
		return
	}

	p := info.priv()
	p.Lock()
	defer p.Unlock()

	maps.DeleteFunc(p.attrs, func(key string, _ any) bool {
		return !m.Matches(key)
	})
}
