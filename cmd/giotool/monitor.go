package main

import (
	"fmt"
	"log/slog"

	"github.com/desertwitch/gogio/internal/configuration"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gio/subclass"
)

// loggingMonitor is a polling monitor that logs its lifecycle.
type loggingMonitor struct {
	subclass.FileMonitorImplBase
}

func (m *loggingMonitor) Cancel() bool {
	slog.Debug("Stopping the monitor.", "type", m.Obj().Type())

	return m.ParentCancel()
}

func (m *loggingMonitor) Dispose() {
	m.ParentDispose()

	slog.Debug("Monitor released.", "type", m.Obj().Type())
}

// newMonitor starts watching file with the configured interval and rate
// limit.
func newMonitor(file *gio.File, settings *configuration.Settings) (*gio.FileMonitor, error) {
	types, err := registeredTypes()
	if err != nil {
		return nil, err
	}

	m, err := gio.NewPollFileMonitor(types.monitor, file, settings.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("(monitor) %w", err)
	}

	m.SetRateLimit(settings.RateLimit)

	slog.Debug("Watching location.",
		"uri", file.URI(),
		"interval", settings.PollInterval,
		"rateLimit", settings.RateLimit,
	)

	return m, nil
}
