package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/ui"
	"github.com/lmittmann/tint"
)

// eventFor describes an event of the watched location. The size is queried
// for files that still exist.
func eventFor(file, other *gio.File, event gio.FileMonitorEvent) ui.EventMsg {
	ev := ui.EventMsg{
		Time:  time.Now(),
		Event: event,
		Path:  displayName(file),
		Size:  -1,
	}

	if other != nil {
		ev.Other = displayName(other)
	}

	if event != gio.FileMonitorEventDeleted {
		if info, err := file.QueryInfo(gio.AttrStandardSize+","+gio.AttrStandardType, gio.FileQueryInfoNone, nil); err == nil {
			if info.FileType() == gio.FileTypeRegular {
				ev.Size = info.Size()
			}
			info.Unref()
		}
	}

	return ev
}

func cmdWatch(ctx context.Context, app *App, set *flag.FlagSet, args []string) error {
	withUI := set.Bool("ui", false, "show the events in a terminal view")

	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := newMonitor(file, app.settings)
	if err != nil {
		return err
	}
	defer m.Unref()

	var view atomic.Pointer[ui.Handler]

	// Events arrive on the polling goroutine only, writes to out need no
	// further synchronization.
	m.Connect(func(f, other *gio.File, event gio.FileMonitorEvent) {
		ev := eventFor(f, other, event)

		if h := view.Load(); h != nil {
			h.SendEvent(ev)

			return
		}

		if ev.Other != "" {
			fmt.Fprintf(app.out, "%s\t%s\t%s\n", ev.Event, ev.Path, ev.Other)
		} else {
			fmt.Fprintf(app.out, "%s\t%s\n", ev.Event, ev.Path)
		}
	})

	slog.Info("Watching for changes, press Ctrl+C to stop.", "location", displayName(file))

	if *withUI {
		handler := ui.NewHandler(ctx, cancel, displayName(file))
		view.Store(handler)

		app.launchUI(handler)

		view.Store(nil)
	}

	<-ctx.Done()
	m.Cancel()

	slog.Info("Stopped watching.", "location", displayName(file))

	return nil
}

// launchUI runs the terminal view, routing the logs into it while it is
// shown. Quitting the view falls back to the terminal.
func (app *App) launchUI(handler *ui.Handler) {
	app.logManager.AddHandler(uiHandler, tint.NewHandler(handler.LogWriter, &tint.Options{
		Level:      app.logLevel,
		TimeFormat: time.Kitchen,
	}))
	app.logManager.RemoveHandler(terminalHandler)

	err := handler.Launch()

	app.logManager.AddHandler(terminalHandler, newTerminalHandler(app.errOut, app.logLevel))
	app.logManager.RemoveHandler(uiHandler)

	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("UI failure: falling back to terminal.", "err", err)
	}
}
