package gio

import (
	"errors"
	"testing"

	"github.com/desertwitch/gogio/internal/gio/mocks"
	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalVfs_IsActive(t *testing.T) {
	t.Parallel()

	assert.True(t, Local().IsActive())
	assert.Same(t, Local(), Default())
}

func TestLocalVfs_FileForPath(t *testing.T) {
	t.Parallel()

	f := Local().FileForPath("/tmp/../tmp/dir//file.txt")
	defer f.Unref()

	assert.True(t, f.Object().IsA(TypeLocalFile()))
	assert.Equal(t, "/tmp/dir/file.txt", f.Path())
	assert.Equal(t, "file:///tmp/dir/file.txt", f.URI())
	assert.Equal(t, "file.txt", f.Basename())
	assert.True(t, f.IsNative())
	assert.True(t, f.HasURIScheme("file"))
}

func TestLocalVfs_FileForPath_Empty(t *testing.T) {
	t.Parallel()

	f := Local().FileForPath("")
	defer f.Unref()

	assert.True(t, f.Object().IsA(TypeDummyFile()))
	assert.False(t, f.IsNative())
}

func TestLocalVfs_FileForURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri      string
		local    bool
		path     string
		basename string
	}{
		{"file:///etc/hosts", true, "/etc/hosts", "hosts"},
		{"file://localhost/etc/hosts", true, "/etc/hosts", "hosts"},
		{"FILE:///a%20b", true, "/a b", "a b"},
		{"file://remote/etc/hosts", false, "", "hosts"},
		{"sftp://host/home/user/x.txt", false, "", "x.txt"},
		{"not a uri", false, "", "not a uri"},
	}

	for _, tt := range tests {
		f := Local().FileForURI(tt.uri)

		assert.Equal(t, tt.local, f.Object().IsA(TypeLocalFile()), tt.uri)
		assert.Equal(t, tt.path, f.Path(), tt.uri)
		assert.Equal(t, tt.basename, f.Basename(), tt.uri)

		f.Unref()
	}
}

func TestLocalVfs_ParseName(t *testing.T) {
	t.Parallel()

	osMock := mocks.NewOsProvider(t)
	unixMock := mocks.NewUnixProvider(t)

	osMock.On("UserHomeDir").Return("/home/gopher", nil)

	v := newLocalVfsWith(sysProviders{os: osMock, unix: unixMock})
	defer v.Unref()

	home := v.ParseName("~/docs")
	defer home.Unref()
	assert.Equal(t, "/home/gopher/docs", home.Path())

	abs := v.ParseName("/var/log")
	defer abs.Unref()
	assert.Equal(t, "/var/log", abs.Path())

	uri := v.ParseName("file:///var/log")
	defer uri.Unref()
	assert.True(t, abs.Equal(uri))

	other := v.ParseName("smb://server/share")
	defer other.Unref()
	assert.Equal(t, "smb://server/share", other.ParseName())
}

func TestLocalVfs_ParseName_HomeUnavailable(t *testing.T) {
	t.Parallel()

	osMock := mocks.NewOsProvider(t)
	osMock.On("UserHomeDir").Return("", errors.New("no home"))

	v := newLocalVfsWith(sysProviders{os: osMock, unix: mocks.NewUnixProvider(t)})
	defer v.Unref()

	f := v.ParseName("~")
	defer f.Unref()

	assert.Equal(t, "/", f.Path())
}

func TestVfs_SupportedURISchemes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	v, err := NewVfs(TypeLocalVfs())
	require.NoError(t, err)
	defer v.Unref()

	schemes := v.SupportedURISchemes()
	require.Equal(t, []string{"file"}, schemes)

	schemes[0] = "mutated"

	assert.Equal(t, []string{"file"}, v.SupportedURISchemes())
}

func TestVfs_RegisterURIScheme(t *testing.T) {
	t.Parallel()

	v, err := NewVfs(TypeLocalVfs())
	require.NoError(t, err)
	defer v.Unref()

	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/data", 0o755))

	assert.False(t, v.RegisterURIScheme("file", nil, nil), "class schemes cannot be registered")
	require.True(t, RegisterMemoryScheme(v, "mem", fs))
	assert.False(t, RegisterMemoryScheme(v, "mem", fs), "double registration")

	assert.Equal(t, []string{"file", "mem"}, v.SupportedURISchemes())

	f := v.FileForURI("mem:///data")
	assert.True(t, f.Object().IsA(TypeMemoryFile()))
	assert.Equal(t, "mem:///data", f.URI())
	assert.Equal(t, FileTypeDirectory, f.QueryFileType(FileQueryInfoNone, nil))
	f.Unref()

	parsed := v.ParseName("mem:///data")
	assert.True(t, parsed.Object().IsA(TypeMemoryFile()))
	parsed.Unref()

	require.True(t, v.UnregisterURIScheme("mem"))
	assert.False(t, v.UnregisterURIScheme("mem"))

	dummy := v.FileForURI("mem:///data")
	defer dummy.Unref()
	assert.True(t, dummy.Object().IsA(TypeDummyFile()))
}

func TestNewVfs_RejectsOtherTypes(t *testing.T) {
	t.Parallel()

	_, err := NewVfs(TypeLocalFile())
	require.ErrorIs(t, err, ErrNotVfs)

	_, err = NewVfs(TypeVfs())
	require.Error(t, err, "abstract type")
}

func TestVfsFromObject_RejectsOtherInstances(t *testing.T) {
	t.Parallel()

	obj := newDummyFile("x:y")
	defer obj.Unref()

	assert.Panics(t, func() { VfsFromObject(obj, gtype.TransferNone) })
	assert.Equal(t, int32(1), obj.RefCount())
}

func TestURIScheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file", uriScheme("file:///x"))
	assert.Equal(t, "svn+ssh", uriScheme("SVN+SSH://host"))
	assert.Empty(t, uriScheme("/abs/path"))
	assert.Empty(t, uriScheme("1abc:rest"))
	assert.Empty(t, uriScheme(":nothing"))
}
