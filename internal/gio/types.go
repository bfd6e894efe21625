// Package gio implements the native file classes: files, file information,
// enumerators over directories, file monitors and the virtual filesystem
// that resolves paths and URIs into files. Every class is a registered
// [gtype.Type] whose class structure can be extended by Go subclasses.
package gio

import (
	"github.com/desertwitch/gogio/internal/gtype"
)

//nolint:gochecknoglobals
var (
	fileType                 gtype.Type
	fileInfoType             gtype.Type
	localFileType            gtype.Type
	dummyFileType            gtype.Type
	memoryFileType           gtype.Type
	fileEnumeratorType       gtype.Type
	localFileEnumeratorType  gtype.Type
	memoryFileEnumeratorType gtype.Type
	fileMonitorType          gtype.Type
	pollFileMonitorType      gtype.Type
	vfsType                  gtype.Type
	localVfsType             gtype.Type
)

func mustRegister(parent gtype.Type, info gtype.TypeInfo) gtype.Type {
	t, err := gtype.Register(parent, info)
	if err != nil {
		panic(err)
	}

	return t
}

// chainDispose runs the dispose slot of the parent of the layer t.
func chainDispose(t gtype.Type, obj *gtype.Object) {
	if dispose := t.Parent().Class().AsObjectClass().Dispose; dispose != nil {
		dispose(obj)
	}
}

//nolint:funlen
func init() {
	object := gtype.ObjectType()

	fileType = mustRegister(object, gtype.TypeInfo{
		Name:     "GFile",
		Abstract: true,
		NewClass: func(parent gtype.Class) gtype.Class {
			return &FileClass{ObjectClass: *parent.AsObjectClass()}
		},
	})

	fileInfoType = mustRegister(object, gtype.TypeInfo{
		Name: "GFileInfo",
		InstanceInit: func(obj *gtype.Object) {
			obj.SetPrivate(fileInfoType, &fileInfoPriv{attrs: make(map[string]any)})
		},
	})

	localFileType = mustRegister(fileType, gtype.TypeInfo{
		Name:         "GLocalFile",
		ClassInit:    localFileClassInit,
		InstanceInit: localFileInstanceInit,
	})

	dummyFileType = mustRegister(fileType, gtype.TypeInfo{
		Name:         "GDummyFile",
		ClassInit:    dummyFileClassInit,
		InstanceInit: dummyFileInstanceInit,
	})

	memoryFileType = mustRegister(fileType, gtype.TypeInfo{
		Name:         "GMemoryFile",
		ClassInit:    memoryFileClassInit,
		InstanceInit: memoryFileInstanceInit,
	})

	fileEnumeratorType = mustRegister(object, gtype.TypeInfo{
		Name:     "GFileEnumerator",
		Abstract: true,
		NewClass: func(parent gtype.Class) gtype.Class {
			return &FileEnumeratorClass{ObjectClass: *parent.AsObjectClass()}
		},
		ClassInit: func(class gtype.Class) {
			class.AsObjectClass().Dispose = fileEnumeratorDispose
		},
		InstanceInit: fileEnumeratorInstanceInit,
	})

	localFileEnumeratorType = mustRegister(fileEnumeratorType, gtype.TypeInfo{
		Name:         "GLocalFileEnumerator",
		ClassInit:    localFileEnumeratorClassInit,
		InstanceInit: localFileEnumeratorInstanceInit,
	})

	memoryFileEnumeratorType = mustRegister(fileEnumeratorType, gtype.TypeInfo{
		Name:         "GMemoryFileEnumerator",
		ClassInit:    memoryFileEnumeratorClassInit,
		InstanceInit: memoryFileEnumeratorInstanceInit,
	})

	fileMonitorType = mustRegister(object, gtype.TypeInfo{
		Name:     "GFileMonitor",
		Abstract: true,
		NewClass: func(parent gtype.Class) gtype.Class {
			return &FileMonitorClass{ObjectClass: *parent.AsObjectClass()}
		},
		ClassInit: func(class gtype.Class) {
			FileMonitorClassOf(class).Cancel = fileMonitorRealCancel
			class.AsObjectClass().Dispose = fileMonitorDispose
		},
		InstanceInit: fileMonitorInstanceInit,
	})

	pollFileMonitorType = mustRegister(fileMonitorType, gtype.TypeInfo{
		Name:         "GPollFileMonitor",
		ClassInit:    pollFileMonitorClassInit,
		InstanceInit: pollFileMonitorInstanceInit,
	})

	vfsType = mustRegister(object, gtype.TypeInfo{
		Name:     "GVfs",
		Abstract: true,
		NewClass: func(parent gtype.Class) gtype.Class {
			return &VfsClass{ObjectClass: *parent.AsObjectClass()}
		},
		InstanceInit: vfsInstanceInit,
	})

	localVfsType = mustRegister(vfsType, gtype.TypeInfo{
		Name:         "GLocalVfs",
		ClassInit:    localVfsClassInit,
		InstanceInit: localVfsInstanceInit,
	})
}

// TypeFile returns the abstract file type.
func TypeFile() gtype.Type { return fileType }

// TypeFileInfo returns the file information type.
func TypeFileInfo() gtype.Type { return fileInfoType }

// TypeLocalFile returns the type of files of the local filesystem.
func TypeLocalFile() gtype.Type { return localFileType }

// TypeDummyFile returns the type of files no vfs can access.
func TypeDummyFile() gtype.Type { return dummyFileType }

// TypeMemoryFile returns the type of files of billy filesystems.
func TypeMemoryFile() gtype.Type { return memoryFileType }

// TypeFileEnumerator returns the abstract file enumerator type.
func TypeFileEnumerator() gtype.Type { return fileEnumeratorType }

// TypeLocalFileEnumerator returns the enumerator type of local directories.
func TypeLocalFileEnumerator() gtype.Type { return localFileEnumeratorType }

// TypeMemoryFileEnumerator returns the enumerator type of billy directories.
func TypeMemoryFileEnumerator() gtype.Type { return memoryFileEnumeratorType }

// TypeFileMonitor returns the abstract file monitor type.
func TypeFileMonitor() gtype.Type { return fileMonitorType }

// TypePollFileMonitor returns the polling file monitor type.
func TypePollFileMonitor() gtype.Type { return pollFileMonitorType }

// TypeVfs returns the abstract vfs type.
func TypeVfs() gtype.Type { return vfsType }

// TypeLocalVfs returns the local vfs type.
func TypeLocalVfs() gtype.Type { return localVfsType }
