package gio

import (
	"context"
	"time"

	"github.com/desertwitch/gogio/internal/gtype"
)

// DefaultPollInterval is the interval at which monitors created by
// [File.Monitor] poll their file.
const DefaultPollInterval = time.Second

type pollFileMonitorPriv struct {
	file     *File
	interval time.Duration
	stop     context.CancelFunc
	done     chan struct{}
}

type pollSnapshot struct {
	exists   bool
	modified time.Time
	size     int64
	children map[string]pollEntry
}

type pollEntry struct {
	modified time.Time
	size     int64
}

func pollFileMonitorInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(pollFileMonitorType, &pollFileMonitorPriv{})
}

func pollFileMonitorClassInit(class gtype.Class) {
	c := FileMonitorClassOf(class)

	c.Cancel = pollFileMonitorCancel
	c.Dispose = pollFileMonitorDispose
}

func pollFileMonitorPrivOf(obj *gtype.Object) *pollFileMonitorPriv {
	return gtype.PrivateOf[*pollFileMonitorPriv](obj, pollFileMonitorType)
}

// NewPollFileMonitor creates a monitor of type t, which must derive from the
// polling monitor type, and starts polling the file. The file is borrowed.
// Events are delivered on the polling goroutine.
func NewPollFileMonitor(t gtype.Type, file *File, interval time.Duration) (*FileMonitor, error) {
	if !t.IsA(pollFileMonitorType) {
		return nil, ErrNotPollFileMonitor
	}

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	m, err := NewFileMonitor(t)
	if err != nil {
		return nil, err
	}

	ctx, stop := context.WithCancel(context.Background())

	p := pollFileMonitorPrivOf(m.Object())
	p.file = FileFromObject(file.Object(), gtype.TransferNone)
	p.interval = interval
	p.stop = stop
	p.done = make(chan struct{})

	initial := takeSnapshot(p.file)
	watched := FileFromObject(file.Object(), gtype.TransferNone)

	go pollLoop(ctx, m.Object(), watched, interval, initial, p.done)

	return m, nil
}

// PollDone returns a channel closed once the polling goroutine of a polling
// monitor exited, or nil for other monitors.
func (m *FileMonitor) PollDone() <-chan struct{} {
	if !m.Object().IsA(pollFileMonitorType) {
		return nil
	}

	return pollFileMonitorPrivOf(m.Object()).done
}

// pollFileMonitorCancel stops the polling goroutine without waiting for it,
// it may be called from an event handler.
func pollFileMonitorCancel(self *gtype.Object) bool {
	if stop := pollFileMonitorPrivOf(self).stop; stop != nil {
		stop()
	}

	return true
}

func pollFileMonitorDispose(obj *gtype.Object) {
	chainDispose(pollFileMonitorType, obj)

	p := pollFileMonitorPrivOf(obj)
	if p.file != nil {
		p.file.Unref()
		p.file = nil
	}
}

func pollLoop(ctx context.Context, obj *gtype.Object, file *File, interval time.Duration, prev pollSnapshot, done chan struct{}) {
	defer close(done)
	defer file.Unref()

	// The loop holds no reference, so the monitor can be released while it
	// polls. Once the monitor is cancelled its events are dropped.
	m := FileMonitor{Handle: gtype.HandleFrom(obj, gtype.TransferFull)}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		next := takeSnapshot(file)
		emitDiff(ctx, &m, file, prev, next)
		prev = next
	}
}

func takeSnapshot(file *File) pollSnapshot {
	var snap pollSnapshot

	info, err := file.QueryInfo(DefaultEnumerateAttributes+","+AttrTimeModified+","+AttrTimeModifiedUsec, FileQueryInfoNone, nil)
	if err != nil {
		return snap
	}
	defer info.Unref()

	snap.exists = true
	snap.modified = info.ModificationTime()
	snap.size = info.Size()

	if info.FileType() != FileTypeDirectory {
		return snap
	}

	e, err := file.EnumerateChildren(DefaultEnumerateAttributes+","+AttrTimeModified+","+AttrTimeModifiedUsec, FileQueryInfoNone, nil)
	if err != nil {
		return snap
	}
	defer e.Unref()

	snap.children = make(map[string]pollEntry)

	for child, err := range e.All(nil) {
		if err != nil {
			break
		}
		snap.children[child.Name()] = pollEntry{modified: child.ModificationTime(), size: child.Size()}
		child.Unref()
	}

	_, _ = e.Close(nil)

	return snap
}

func emitDiff(ctx context.Context, m *FileMonitor, file *File, prev, next pollSnapshot) {
	emit := func(target *File, event FileMonitorEvent) {
		if ctx.Err() == nil {
			m.EmitEvent(target, nil, event)
		}
	}

	switch {
	case !prev.exists && next.exists:
		emit(file, FileMonitorEventCreated)
	case prev.exists && !next.exists:
		emit(file, FileMonitorEventDeleted)
	case prev.exists && (!prev.modified.Equal(next.modified) || prev.size != next.size):
		if prev.children == nil || next.children == nil {
			emit(file, FileMonitorEventChanged)
			emit(file, FileMonitorEventChangesDoneHint)
		}
	}

	for name, entry := range next.children {
		old, existed := prev.children[name]

		switch {
		case !existed:
			child := file.Child(name)
			emit(child, FileMonitorEventCreated)
			child.Unref()
		case !old.modified.Equal(entry.modified) || old.size != entry.size:
			child := file.Child(name)
			emit(child, FileMonitorEventChanged)
			emit(child, FileMonitorEventChangesDoneHint)
			child.Unref()
		}
	}

	for name := range prev.children {
		if _, exists := next.children[name]; !exists {
			child := file.Child(name)
			emit(child, FileMonitorEventDeleted)
			child.Unref()
		}
	}
}
