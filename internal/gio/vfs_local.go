package gio

import (
	"path/filepath"
	"strings"

	"github.com/desertwitch/gogio/internal/gtype"
)

type localVfsPriv struct {
	providers sysProviders
	schemes   []string
}

func localVfsInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(localVfsType, &localVfsPriv{
		providers: defaultProviders(),
		schemes:   []string{"file"},
	})
}

func localVfsClassInit(class gtype.Class) {
	c := VfsClassOf(class)

	c.IsActive = localVfsIsActive
	c.GetFileForPath = localVfsGetFileForPath
	c.GetFileForURI = localVfsGetFileForURI
	c.GetSupportedURISchemes = localVfsGetSupportedURISchemes
	c.ParseName = localVfsParseName
}

// newLocalVfsWith returns a local vfs whose files use the given providers.
func newLocalVfsWith(providers sysProviders) *Vfs {
	v, err := NewVfs(localVfsType)
	if err != nil {
		panic(err)
	}

	localVfsPrivOf(v.Object()).providers = providers

	return v
}

func localVfsPrivOf(obj *gtype.Object) *localVfsPriv {
	return gtype.PrivateOf[*localVfsPriv](obj, localVfsType)
}

func localVfsIsActive(*gtype.Object) bool {
	return true
}

func localVfsGetFileForPath(self *gtype.Object, path string) *gtype.Object {
	if path == "" {
		return newDummyFile(path)
	}

	return newLocalFile(path, localVfsPrivOf(self).providers)
}

func localVfsGetFileForURI(self *gtype.Object, uri string) *gtype.Object {
	if uriScheme(uri) != "file" {
		return newDummyFile(uri)
	}

	path, ok := localPathFromURI(uri)
	if !ok {
		return newDummyFile(uri)
	}

	return newLocalFile(path, localVfsPrivOf(self).providers)
}

func localVfsGetSupportedURISchemes(self *gtype.Object) []string {
	return localVfsPrivOf(self).schemes
}

// localVfsParseName resolves absolute paths and "~" prefixed names as local
// files, everything else as a URI.
func localVfsParseName(self *gtype.Object, parseName string) *gtype.Object {
	providers := localVfsPrivOf(self).providers

	switch {
	case filepath.IsAbs(parseName):
		return newLocalFile(parseName, providers)
	case parseName == "~" || strings.HasPrefix(parseName, "~/"):
		home, err := providers.os.UserHomeDir()
		if err != nil || home == "" {
			home = "/"
		}

		return newLocalFile(filepath.Join(home, strings.TrimPrefix(parseName, "~")), providers)
	default:
		return localVfsGetFileForURI(self, parseName)
	}
}

// localPathFromURI returns the local path of a "file" URI. Only URIs without
// a host (or "localhost") and with an absolute path are local.
func localPathFromURI(uri string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(uri), "file://") {
		return "", false
	}

	rest := uri[len("file://"):]

	host, rawPath, found := strings.Cut(rest, "/")
	if !found || (host != "" && !strings.EqualFold(host, "localhost")) {
		return "", false
	}

	path, ok := uriPath("file:///" + rawPath)
	if !ok || !filepath.IsAbs(path) {
		return "", false
	}

	return path, true
}
