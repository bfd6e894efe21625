package main

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gtype"
	"github.com/dustin/go-humanize"
)

const (
	// observerInterval is the interval at which an [objectObserver] samples.
	observerInterval = 100 * time.Millisecond
)

// objectObserver tracks the peak memory usage and the peak number of live
// native objects over the lifetime of a command.
type objectObserver struct {
	sync.Mutex
	types    []gtype.Type
	maxAlloc uint64
	maxLive  map[gtype.Type]int64
	stopChan chan struct{}
	doneChan chan struct{}
}

func newObjectObserver(ctx context.Context) *objectObserver {
	obs := &objectObserver{
		types: []gtype.Type{
			gio.TypeFileInfo(),
			gio.TypeLocalFile(),
			gio.TypeDummyFile(),
			gio.TypeMemoryFile(),
			gio.TypeLocalFileEnumerator(),
			gio.TypeMemoryFileEnumerator(),
		},
		maxLive:  make(map[gtype.Type]int64),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	go obs.monitor(ctx)

	return obs
}

func (o *objectObserver) sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	o.Lock()
	defer o.Unlock()

	o.maxAlloc = max(o.maxAlloc, m.Alloc)

	for _, t := range o.types {
		o.maxLive[t] = max(o.maxLive[t], t.InstanceCount())
	}
}

func (o *objectObserver) monitor(ctx context.Context) {
	defer close(o.doneChan)

	ticker := time.NewTicker(observerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.sample()
		}
	}
}

// Stop ends the sampling and logs the peaks, together with the objects
// still alive, at debug level.
func (o *objectObserver) Stop() {
	close(o.stopChan)
	<-o.doneChan

	o.sample()

	o.Lock()
	defer o.Unlock()

	attrs := []any{"maxAlloc", humanize.IBytes(o.maxAlloc)}
	for _, t := range o.types {
		attrs = append(attrs, slog.Group(t.Name(),
			"peak", o.maxLive[t],
			"live", t.InstanceCount(),
		))
	}

	slog.Debug("Resource usage peaked at:", attrs...)
}
