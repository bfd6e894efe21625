package gio

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	name  string
	event FileMonitorEvent
}

type eventRecorder struct {
	sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) handler(file, _ *File, event FileMonitorEvent) {
	r.Lock()
	defer r.Unlock()

	r.events = append(r.events, recordedEvent{name: file.Basename(), event: event})
}

func (r *eventRecorder) has(name string, event FileMonitorEvent) bool {
	r.Lock()
	defer r.Unlock()

	for _, e := range r.events {
		if e.name == name && e.event == event {
			return true
		}
	}

	return false
}

func (r *eventRecorder) len() int {
	r.Lock()
	defer r.Unlock()

	return len(r.events)
}

func registerMonitorType(t *testing.T, cancels *atomic.Int32) gtype.Type {
	t.Helper()

	typ, err := gtype.Register(TypeFileMonitor(), gtype.TypeInfo{
		Name: uniqueName("TestMonitor"),
		ClassInit: func(class gtype.Class) {
			FileMonitorClassOf(class).Cancel = func(*gtype.Object) bool {
				cancels.Add(1)

				return true
			}
		},
	})
	require.NoError(t, err)

	return typ
}

func TestFileMonitor_ConnectEmitDisconnect(t *testing.T) {
	t.Parallel()

	var cancels atomic.Int32

	m, err := NewFileMonitor(registerMonitorType(t, &cancels))
	require.NoError(t, err)
	defer m.Unref()

	file := NewFileForPath("/watched")
	defer file.Unref()

	rec := &eventRecorder{}
	id := m.Connect(rec.handler)

	m.EmitEvent(file, nil, FileMonitorEventCreated)
	assert.True(t, rec.has("watched", FileMonitorEventCreated))

	m.Disconnect(id)
	m.EmitEvent(file, nil, FileMonitorEventDeleted)
	assert.Equal(t, 1, rec.len())
}

func TestFileMonitor_RateLimit(t *testing.T) {
	t.Parallel()

	var cancels atomic.Int32

	m, err := NewFileMonitor(registerMonitorType(t, &cancels))
	require.NoError(t, err)
	defer m.Unref()

	assert.Equal(t, DefaultRateLimit, m.RateLimit())

	file := NewFileForPath("/limited")
	defer file.Unref()

	rec := &eventRecorder{}
	m.Connect(rec.handler)

	m.SetRateLimit(time.Hour)
	m.EmitEvent(file, nil, FileMonitorEventChanged)
	m.EmitEvent(file, nil, FileMonitorEventChanged)
	m.EmitEvent(file, nil, FileMonitorEventAttributeChanged)
	assert.Equal(t, 2, rec.len(), "second change dropped")

	m.SetRateLimit(0)
	m.EmitEvent(file, nil, FileMonitorEventChanged)
	assert.Equal(t, 3, rec.len())
}

func TestFileMonitor_CancelOnce(t *testing.T) {
	t.Parallel()

	var cancels atomic.Int32

	m, err := NewFileMonitor(registerMonitorType(t, &cancels))
	require.NoError(t, err)

	rec := &eventRecorder{}
	m.Connect(rec.handler)

	assert.False(t, m.IsCancelled())
	assert.True(t, m.Cancel())
	assert.True(t, m.Cancel())
	assert.True(t, m.IsCancelled())
	assert.Equal(t, int32(1), cancels.Load())

	file := NewFileForPath("/x")
	defer file.Unref()

	m.EmitEvent(file, nil, FileMonitorEventCreated)
	assert.Zero(t, rec.len(), "no events after cancel")

	m.Unref()
	assert.Equal(t, int32(1), cancels.Load(), "dispose does not cancel twice")
}

func TestFileMonitor_CancelOnDispose(t *testing.T) {
	t.Parallel()

	var cancels atomic.Int32

	m, err := NewFileMonitor(registerMonitorType(t, &cancels))
	require.NoError(t, err)

	m.Unref()
	assert.Equal(t, int32(1), cancels.Load())
}

func TestFileMonitor_RejectsOtherTypes(t *testing.T) {
	t.Parallel()

	_, err := NewFileMonitor(TypeLocalVfs())
	require.ErrorIs(t, err, ErrNotFileMonitor)

	file := NewFileForPath("/")
	defer file.Unref()

	_, err = NewPollFileMonitor(TypeFileMonitor(), file, time.Millisecond)
	require.ErrorIs(t, err, ErrNotPollFileMonitor)
}

func TestPollFileMonitor_DirectoryEvents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "existing")
	require.NoError(t, os.WriteFile(existing, []byte("a"), 0o600))

	file := NewFileForPath(dir)
	defer file.Unref()

	m, err := NewPollFileMonitor(TypePollFileMonitor(), file, 10*time.Millisecond)
	require.NoError(t, err)
	m.SetRateLimit(0)

	rec := &eventRecorder{}
	m.Connect(rec.handler)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "created"), nil, 0o600))
	assert.Eventually(t, func() bool {
		return rec.has("created", FileMonitorEventCreated)
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(existing, []byte("longer content"), 0o600))
	assert.Eventually(t, func() bool {
		return rec.has("existing", FileMonitorEventChanged)
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(existing))
	assert.Eventually(t, func() bool {
		return rec.has("existing", FileMonitorEventDeleted)
	}, 5*time.Second, 10*time.Millisecond)

	done := m.PollDone()
	m.Unref()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling goroutine did not stop")
	}
}

func TestLocalFile_Monitor(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file")

	file := NewFileForPath(path)
	defer file.Unref()

	m, err := file.Monitor(FileMonitorNone, nil)
	require.NoError(t, err)
	defer m.Unref()

	assert.True(t, m.Object().IsA(TypePollFileMonitor()))
	assert.NotNil(t, m.PollDone())

	m.Cancel()

	select {
	case <-m.PollDone():
	case <-time.After(5 * time.Second):
		t.Fatal("polling goroutine did not stop")
	}
}
