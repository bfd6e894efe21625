package gio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/desertwitch/gogio/internal/gtype"
)

// FileMonitorFlags modify how a file is monitored.
type FileMonitorFlags int

const (
	FileMonitorNone        FileMonitorFlags = 0
	FileMonitorWatchMounts FileMonitorFlags = 1 << 0
	FileMonitorSendMoved   FileMonitorFlags = 1 << 1
	FileMonitorWatchMoves  FileMonitorFlags = 1 << 3
)

// FileMonitorEvent is the kind of change reported by a [FileMonitor].
type FileMonitorEvent int

const (
	FileMonitorEventChanged FileMonitorEvent = iota
	FileMonitorEventChangesDoneHint
	FileMonitorEventDeleted
	FileMonitorEventCreated
	FileMonitorEventAttributeChanged
	FileMonitorEventPreUnmount
	FileMonitorEventUnmounted
	FileMonitorEventMoved
	FileMonitorEventRenamed
	FileMonitorEventMovedIn
	FileMonitorEventMovedOut
)

func (e FileMonitorEvent) String() string {
	switch e {
	case FileMonitorEventChanged:
		return "changed"
	case FileMonitorEventChangesDoneHint:
		return "changes-done-hint"
	case FileMonitorEventDeleted:
		return "deleted"
	case FileMonitorEventCreated:
		return "created"
	case FileMonitorEventAttributeChanged:
		return "attribute-changed"
	case FileMonitorEventPreUnmount:
		return "pre-unmount"
	case FileMonitorEventUnmounted:
		return "unmounted"
	case FileMonitorEventMoved:
		return "moved"
	case FileMonitorEventRenamed:
		return "renamed"
	case FileMonitorEventMovedIn:
		return "moved-in"
	case FileMonitorEventMovedOut:
		return "moved-out"
	default:
		return "unknown"
	}
}

// DefaultRateLimit is the minimum interval between two changed events for
// the same file.
const DefaultRateLimit = 800 * time.Millisecond

// FileMonitorClass is the class structure of the abstract file monitor type.
type FileMonitorClass struct {
	gtype.ObjectClass

	// Cancel stops the monitoring backend. It is called at most once.
	Cancel func(self *gtype.Object) bool
}

// Copy returns a copy of the class structure.
func (c *FileMonitorClass) Copy() gtype.Class {
	cp := *c

	return &cp
}

// AsFileMonitorClass returns the class structure itself.
func (c *FileMonitorClass) AsFileMonitorClass() *FileMonitorClass {
	return c
}

type fileMonitorClassLayout interface {
	AsFileMonitorClass() *FileMonitorClass
}

// FileMonitorClassOf casts a class structure to [FileMonitorClass].
func FileMonitorClassOf(class gtype.Class) *FileMonitorClass {
	return gtype.CastClass[fileMonitorClassLayout](class).AsFileMonitorClass()
}

// ChangedHandler receives the events of a [FileMonitor]. The files are
// borrowed for the duration of the call; other is nil unless the event
// involves two locations.
type ChangedHandler func(file, other *File, event FileMonitorEvent)

// HandlerID identifies a connected [ChangedHandler].
type HandlerID uint64

type fileMonitorPriv struct {
	sync.Mutex
	cancelled atomic.Bool
	rateLimit time.Duration
	handlers  map[HandlerID]ChangedHandler
	nextID    HandlerID
	lastEmit  map[string]time.Time
}

func fileMonitorInstanceInit(obj *gtype.Object) {
	obj.SetPrivate(fileMonitorType, &fileMonitorPriv{
		rateLimit: DefaultRateLimit,
		handlers:  make(map[HandlerID]ChangedHandler),
		lastEmit:  make(map[string]time.Time),
	})
}

// fileMonitorRealCancel is the base implementation of the cancel slot.
func fileMonitorRealCancel(*gtype.Object) bool {
	return true
}

func fileMonitorDispose(obj *gtype.Object) {
	m := FileMonitor{Handle: gtype.HandleFrom(obj, gtype.TransferFull)}
	m.Cancel()

	p := m.priv()
	p.Lock()
	clear(p.handlers)
	p.Unlock()

	chainDispose(fileMonitorType, obj)
}

// FileMonitor reports changes to a file or directory.
type FileMonitor struct {
	gtype.Handle
}

// NewFileMonitor creates a monitor of type t, which must derive from the
// abstract file monitor type.
func NewFileMonitor(t gtype.Type) (*FileMonitor, error) {
	if !t.IsA(fileMonitorType) {
		return nil, ErrNotFileMonitor
	}

	obj, err := gtype.New(t)
	if err != nil {
		return nil, err
	}

	return &FileMonitor{Handle: gtype.HandleFrom(obj, gtype.TransferFull)}, nil
}

// FileMonitorFromObject wraps a raw instance received through a position
// with the given transfer tag.
func FileMonitorFromObject(obj *gtype.Object, transfer gtype.Transfer) *FileMonitor {
	if obj == nil {
		return nil
	}

	if !obj.IsA(fileMonitorType) {
		gtype.Violatef("gio.FileMonitor", "%s instance is not a %s", obj.Type(), fileMonitorType)
	}

	return &FileMonitor{Handle: gtype.HandleFrom(obj, transfer)}
}

func (m *FileMonitor) priv() *fileMonitorPriv {
	return gtype.PrivateOf[*fileMonitorPriv](m.Object(), fileMonitorType)
}

// Cancel stops the monitor. Only the first call reaches the class, later
// calls are no-ops. It always returns true.
func (m *FileMonitor) Cancel() bool {
	p := m.priv()

	if !p.cancelled.CompareAndSwap(false, true) {
		return true
	}

	if slot := FileMonitorClassOf(m.Object().Class()).Cancel; slot != nil {
		slot(m.Object())
	}

	return true
}

// IsCancelled reports whether the monitor was cancelled.
func (m *FileMonitor) IsCancelled() bool {
	return m.priv().cancelled.Load()
}

// SetRateLimit sets the minimum interval between two changed events for the
// same file. A limit of zero disables rate limiting.
func (m *FileMonitor) SetRateLimit(limit time.Duration) {
	p := m.priv()
	p.Lock()
	defer p.Unlock()

	p.rateLimit = limit
}

// RateLimit returns the current rate limit.
func (m *FileMonitor) RateLimit() time.Duration {
	p := m.priv()
	p.Lock()
	defer p.Unlock()

	return p.rateLimit
}

// Connect registers a handler for the monitor's events.
func (m *FileMonitor) Connect(handler ChangedHandler) HandlerID {
	p := m.priv()
	p.Lock()
	defer p.Unlock()

	p.nextID++
	p.handlers[p.nextID] = handler

	return p.nextID
}

// Disconnect removes a handler.
func (m *FileMonitor) Disconnect(id HandlerID) {
	p := m.priv()
	p.Lock()
	defer p.Unlock()

	delete(p.handlers, id)
}

// EmitEvent delivers an event to all handlers, unless the monitor was
// cancelled. Changed events for the same file arriving faster than the rate
// limit are dropped. It is meant to be called by monitor implementations.
func (m *FileMonitor) EmitEvent(child, other *File, event FileMonitorEvent) {
	p := m.priv()

	if p.cancelled.Load() {
		return
	}

	p.Lock()

	if event == FileMonitorEventChanged && p.rateLimit > 0 && child != nil {
		key := child.URI()
		now := time.Now()

		if last, ok := p.lastEmit[key]; ok && now.Sub(last) < p.rateLimit {
			p.Unlock()

			return
		}
		p.lastEmit[key] = now
	}

	handlers := make([]ChangedHandler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}

	p.Unlock()

	for _, h := range handlers {
		h(child, other, event)
	}
}
