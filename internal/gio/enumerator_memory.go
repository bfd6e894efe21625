package gio

import (
	"os"
	"sync"

	"github.com/desertwitch/gogio/internal/gerror"
	"github.com/desertwitch/gogio/internal/gtype"
)

type memoryFileEnumeratorPriv struct {
	sync.Mutex
	entries []os.FileInfo
	next    int
	matcher *AttributeMatcher
}

func memoryFileEnumeratorInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(memoryFileEnumeratorType, &memoryFileEnumeratorPriv{})
}

func memoryFileEnumeratorClassInit(class gtype.Class) {
	c := FileEnumeratorClassOf(class)

	c.NextFile = memoryFileEnumeratorNextFile
	c.CloseFn = memoryFileEnumeratorClose
}

func memoryFileEnumeratorPrivOf(obj *gtype.Object) *memoryFileEnumeratorPriv {
	return gtype.PrivateOf[*memoryFileEnumeratorPriv](obj, memoryFileEnumeratorType)
}

// newMemoryFileEnumerator snapshots the entries of a directory of a billy
// filesystem.
func newMemoryFileEnumerator(container *File, attributes string) (*FileEnumerator, *gerror.Error) {
	fp := memoryFilePrivOf(container.Object())

	fi, err := fp.fs.Stat(fp.path)
	if err != nil {
		return nil, memoryError(err, "Error opening directory %s", container.URI())
	}

	if !fi.IsDir() {
		return nil, NewIOError(IOErrorNotDirectory, "Error opening directory %s: not a directory", container.URI())
	}

	entries, err := fp.fs.ReadDir(fp.path)
	if err != nil {
		return nil, memoryError(err, "Error opening directory %s", container.URI())
	}

	e, err := NewFileEnumerator(memoryFileEnumeratorType, container)
	if err != nil {
		return nil, ErrorFrom(err)
	}

	p := memoryFileEnumeratorPrivOf(e.Object())
	p.entries = entries
	p.matcher = NewAttributeMatcher(attributes)

	return e, nil
}

func memoryFileEnumeratorNextFile(self *gtype.Object, c *Cancellable, errOut **gerror.Error) *gtype.Object {
	p := memoryFileEnumeratorPrivOf(self)

	p.Lock()
	defer p.Unlock()

	if gerr := c.ErrorIfCancelled(); gerr != nil {
		gerror.Set(errOut, gerr)

		return nil
	}

	if p.next >= len(p.entries) {
		return nil
	}

	fi := p.entries[p.next]
	p.next++

	return memoryFileInfo(fi, p.matcher).Steal()
}

func memoryFileEnumeratorClose(self *gtype.Object, _ *Cancellable, _ **gerror.Error) bool {
	p := memoryFileEnumeratorPrivOf(self)

	p.Lock()
	defer p.Unlock()

	p.entries = nil
	p.next = 0

	return true
}
