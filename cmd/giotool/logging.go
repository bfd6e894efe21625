package main

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"
)

const (
	terminalHandler = "terminal"
	uiHandler       = "ui"
)

// handlerRegistry is shared by a [SlogManager] and every handler derived
// from it, so routes changed on the root apply to all loggers.
type handlerRegistry struct {
	sync.RWMutex
	handlers map[string]slog.Handler
}

// SlogManager is a [slog.Handler] fanning records out to a set of named
// handlers that can be swapped at runtime, e.g. from the terminal to the
// watch view and back.
type SlogManager struct {
	registry *handlerRegistry

	// derive replays the attributes and groups added through WithAttrs
	// and WithGroup onto a registered handler.
	derive []func(slog.Handler) slog.Handler
}

func NewSlogManager() *SlogManager {
	return &SlogManager{
		registry: &handlerRegistry{handlers: make(map[string]slog.Handler)},
	}
}

func (m *SlogManager) snapshot() []slog.Handler {
	m.registry.RLock()
	defer m.registry.RUnlock()

	handlers := make([]slog.Handler, 0, len(m.registry.handlers))
	for h := range maps.Values(m.registry.handlers) {
		for _, fn := range m.derive {
			h = fn(h)
		}
		handlers = append(handlers, h)
	}

	return handlers
}

func (m *SlogManager) Enabled(ctx context.Context, level slog.Level) bool {
	m.registry.RLock()
	defer m.registry.RUnlock()

	for _, h := range m.registry.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (m *SlogManager) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range m.snapshot() {
		if !h.Enabled(ctx, r.Level) {
			continue
		}

		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *SlogManager) with(fn func(slog.Handler) slog.Handler) *SlogManager {
	derive := make([]func(slog.Handler) slog.Handler, len(m.derive), len(m.derive)+1)
	copy(derive, m.derive)

	return &SlogManager{
		registry: m.registry,
		derive:   append(derive, fn),
	}
}

func (m *SlogManager) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *SlogManager) WithGroup(name string) slog.Handler {
	return m.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *SlogManager) AddHandler(name string, handler slog.Handler) {
	m.registry.Lock()
	defer m.registry.Unlock()

	m.registry.handlers[name] = handler
}

func (m *SlogManager) RemoveHandler(name string) {
	m.registry.Lock()
	defer m.registry.Unlock()

	delete(m.registry.handlers, name)
}
