package gio

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
)

// DefaultEnumerateAttributes are queried by enumerators opened without an
// explicit attribute list.
const DefaultEnumerateAttributes = "standard::*"

type localFileEnumeratorPriv struct {
	sync.Mutex
	opened    bool
	path      string
	entries   []os.DirEntry
	next      int
	matcher   *AttributeMatcher
	flags     FileQueryInfoFlags
	providers sysProviders
}

func localFileEnumeratorInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(localFileEnumeratorType, &localFileEnumeratorPriv{
		matcher:   NewAttributeMatcher(DefaultEnumerateAttributes),
		providers: defaultProviders(),
	})
}

func localFileEnumeratorClassInit(class gtype.Class) {
	c := FileEnumeratorClassOf(class)

	c.NextFile = localFileEnumeratorNextFile
	c.CloseFn = localFileEnumeratorClose
}

func localFileEnumeratorPrivOf(obj *gtype.Object) *localFileEnumeratorPriv {
	return gtype.PrivateOf[*localFileEnumeratorPriv](obj, localFileEnumeratorType)
}

// newLocalFileEnumerator opens the directory of a local file. The directory
// is read eagerly so that a missing or non-directory container fails here.
func newLocalFileEnumerator(container *File, attributes string, flags FileQueryInfoFlags) (*FileEnumerator, *gerror.Error) {
	defer container.Unref()

	e, err := NewFileEnumerator(localFileEnumeratorType, container)
	if err != nil {
		return nil, ErrorFrom(err)
	}

	fp := localFilePrivOf(container.Object())

	p := localFileEnumeratorPrivOf(e.Object())
	p.path = fp.path
	p.matcher = NewAttributeMatcher(attributes)
	p.flags = flags
	p.providers = fp.providers

	if gerr := p.open(); gerr != nil {
		e.Unref()

		return nil, gerr
	}

	return e, nil
}

// open reads the directory. Enumerators created through [NewFileEnumerator]
// open their container lazily on the first call.
func (p *localFileEnumeratorPriv) open() *gerror.Error {
	p.opened = true

	entries, err := p.providers.os.ReadDir(p.path)
	if err != nil {
		gerr := ErrorFrom(err)

		return NewIOError(IOErrorEnum(gerr.Code), "Error opening directory %s: %s", p.path, errnoMessage(err))
	}

	p.entries = entries

	return nil
}

func localFileEnumeratorNextFile(self *gtype.Object, c *Cancellable, errOut **gerror.Error) *gtype.Object {
	p := localFileEnumeratorPrivOf(self)

	p.Lock()
	defer p.Unlock()

	if !p.opened {
		dir := gtype.PrivateOf[*fileEnumeratorPriv](self, fileEnumeratorType).container
		if dir == nil || !dir.Object().IsA(localFileType) {
			p.opened = true

			return nil
		}

		fp := localFilePrivOf(dir.Object())
		p.path = fp.path
		p.providers = fp.providers

		if gerr := p.open(); gerr != nil {
			gerror.Set(errOut, gerr)

			return nil
		}
	}

	for p.next < len(p.entries) {
		if gerr := c.ErrorIfCancelled(); gerr != nil {
			gerror.Set(errOut, gerr)

			return nil
		}

		entry := p.entries[p.next]
		p.next++

		info, gerr := localFileInfo(filepath.Join(p.path, entry.Name()), p.matcher, p.flags, p.providers)
		if gerr != nil {
			// Entries removed since the directory was read are skipped.
			if gerr.Matches(IOErrorQuark, int(IOErrorNotFound)) {
				continue
			}

			gerror.Set(errOut, gerr)

			return nil
		}

		return info.Steal()
	}

	return nil
}

func localFileEnumeratorClose(self *gtype.Object, _ *Cancellable, _ **gerror.Error) bool {
	p := localFileEnumeratorPrivOf(self)

	p.Lock()
	defer p.Unlock()

	p.entries = nil
	p.next = 0

	return true
}
