package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertwitch/gogio/internal/configuration"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// syncBuffer is a [bytes.Buffer] safe for the polling goroutine of watch.
type syncBuffer struct {
	sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.Lock()
	defer b.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.Lock()
	defer b.Unlock()

	return b.buf.String()
}

func newTestApp(t *testing.T, schemes map[string]string) (*App, *syncBuffer) {
	t.Helper()

	settings := configuration.DefaultSettings()
	settings.PollInterval = 10 * time.Millisecond
	settings.RateLimit = 0
	settings.Schemes = schemes

	v, err := newVfs(settings)
	require.NoError(t, err)
	t.Cleanup(v.Unref)

	out := &syncBuffer{}

	return NewApp(v, settings, NewSlogManager(), slog.LevelError, out, &bytes.Buffer{}), out
}

func writeTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	return dir
}

func TestApp_Run_Dispatch(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, nil)

	require.ErrorIs(t, app.Run(t.Context(), nil), ErrNoCommand)
	require.ErrorIs(t, app.Run(t.Context(), []string{"cp"}), ErrUnknownCommand)
	require.ErrorIs(t, app.Run(t.Context(), []string{"ls"}), ErrUsage)
	require.ErrorIs(t, app.Run(t.Context(), []string{"ls", "-x", "/"}), ErrUsage)
	require.ErrorIs(t, app.Run(t.Context(), []string{"info", "/a", "/b"}), ErrUsage)
}

func TestApp_List(t *testing.T) {
	t.Parallel()

	dir := writeTree(t)

	t.Run("hides dot-files", func(t *testing.T) {
		t.Parallel()

		app, out := newTestApp(t, nil)
		require.NoError(t, app.Run(t.Context(), []string{"ls", dir}))
		assert.Equal(t, "file.txt\nsub\n", out.String())
	})

	t.Run("shows dot-files with -a", func(t *testing.T) {
		t.Parallel()

		app, out := newTestApp(t, nil)
		require.NoError(t, app.Run(t.Context(), []string{"ls", "-a", dir}))
		assert.Equal(t, ".hidden\nfile.txt\nsub\n", out.String())
	})

	t.Run("long format", func(t *testing.T) {
		t.Parallel()

		app, out := newTestApp(t, nil)
		require.NoError(t, app.Run(t.Context(), []string{"ls", "-l", dir}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)

		assert.True(t, strings.HasPrefix(lines[0], "-rw-------"), lines[0])
		assert.Contains(t, lines[0], "5 B")
		assert.True(t, strings.HasSuffix(lines[0], " file.txt"), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "d"), lines[1])
	})

	t.Run("scheme served from a directory", func(t *testing.T) {
		t.Parallel()

		app, out := newTestApp(t, map[string]string{"data": dir})
		require.NoError(t, app.Run(t.Context(), []string{"ls", "-a", "data:///"}))
		assert.Equal(t, ".hidden\nfile.txt\nsub\n", out.String())
	})

	t.Run("not a directory", func(t *testing.T) {
		t.Parallel()

		app, _ := newTestApp(t, nil)
		err := app.Run(t.Context(), []string{"ls", filepath.Join(dir, "file.txt")})
		assert.True(t, gio.IsIOError(err, gio.IOErrorNotDirectory), "got %v", err)
	})
}

func TestApp_Info(t *testing.T) {
	t.Parallel()

	dir := writeTree(t)
	file := filepath.Join(dir, "file.txt")

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		app, out := newTestApp(t, nil)
		require.NoError(t, app.Run(t.Context(), []string{"info", file}))

		assert.Contains(t, out.String(), "uri: file://"+file+"\n")
		assert.Contains(t, out.String(), "  standard::name: file.txt\n")
		assert.Contains(t, out.String(), "  standard::size: 5\n")
		assert.NotContains(t, out.String(), "unix::inode")
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		app, out := newTestApp(t, map[string]string{"data": dir})
		require.NoError(t, app.Run(t.Context(), []string{"info", "-format", "yaml", "data:///file.txt"}))

		var doc struct {
			URI        string         `yaml:"uri"`
			Attributes map[string]any `yaml:"attributes"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(out.String()), &doc))

		assert.Equal(t, "data:///file.txt", doc.URI)
		assert.Equal(t, "file.txt", doc.Attributes[gio.AttrStandardName])
		assert.Equal(t, 5, doc.Attributes[gio.AttrStandardSize])
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		app, _ := newTestApp(t, nil)
		require.ErrorIs(t, app.Run(t.Context(), []string{"info", "-format", "xml", file}), ErrUnknownFormat)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		app, _ := newTestApp(t, nil)
		err := app.Run(t.Context(), []string{"info", filepath.Join(dir, "missing")})
		assert.True(t, gio.IsIOError(err, gio.IOErrorNotFound), "got %v", err)
	})
}

func TestApp_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app, out := newTestApp(t, map[string]string{"data": dir})

	require.NoError(t, app.Run(t.Context(), []string{"resolve", "/tmp/../tmp/x"}))
	assert.Contains(t, out.String(), "type: GLocalFile\n")
	assert.Contains(t, out.String(), "path: /tmp/x\n")
	assert.Contains(t, out.String(), "uri: file:///tmp/x\n")
	assert.Contains(t, out.String(), "native: true\n")
	assert.Contains(t, out.String(), "supported-schemes: file,data\n")

	types, err := registeredTypes()
	require.NoError(t, err)
	assert.Positive(t, gtype.ImplOf[*tracingVfs](app.vfs.Object(), types.vfs).lookups.Load())

	app, out = newTestApp(t, nil)
	require.NoError(t, app.Run(t.Context(), []string{"resolve", "sftp://host/dir"}))
	assert.Contains(t, out.String(), "type: GDummyFile\n")
	assert.Contains(t, out.String(), "path: -\n")
	assert.Contains(t, out.String(), "scheme: sftp\n")
	assert.Contains(t, out.String(), "native: false\n")
}

func TestApp_MakeDirectoryAndDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "made")

	app, _ := newTestApp(t, map[string]string{"data": dir})

	require.NoError(t, app.Run(t.Context(), []string{"mkdir", target}))
	assert.DirExists(t, target)

	err := app.Run(t.Context(), []string{"mkdir", target})
	assert.True(t, gio.IsIOError(err, gio.IOErrorExists), "got %v", err)

	require.NoError(t, app.Run(t.Context(), []string{"rm", target}))
	assert.NoDirExists(t, target)

	require.NoError(t, app.Run(t.Context(), []string{"mkdir", "data:///through-scheme"}))
	assert.DirExists(t, filepath.Join(dir, "through-scheme"))

	require.NoError(t, app.Run(t.Context(), []string{"rm", "data:///through-scheme"}))
	assert.NoDirExists(t, filepath.Join(dir, "through-scheme"))

	err = app.Run(t.Context(), []string{"rm", target})
	assert.True(t, gio.IsIOError(err, gio.IOErrorNotFound), "got %v", err)
}

func TestApp_Trash(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, nil)

	err := app.Run(t.Context(), []string{"trash", t.TempDir()})
	assert.True(t, gio.IsIOError(err, gio.IOErrorNotSupported), "got %v", err)
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	app, out := newTestApp(t, nil)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, []string{"watch", dir})
	}()

	// Files created before the first snapshot are not reported, so keep
	// creating until one is.
	var created int
	assert.Eventually(t, func() bool {
		if strings.Contains(out.String(), "created\t"+dir) {
			return true
		}

		created++
		name := filepath.Join(dir, fmt.Sprintf("new-%d.txt", created))

		return os.WriteFile(name, []byte("x"), 0o600) != nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancellation")
	}
}

func TestNewVfs_SchemeTaken(t *testing.T) {
	t.Parallel()

	settings := configuration.DefaultSettings()
	settings.Schemes = map[string]string{"file": t.TempDir()}

	_, err := newVfs(settings)
	require.ErrorIs(t, err, ErrSchemeTaken)
}
