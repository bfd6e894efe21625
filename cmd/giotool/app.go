package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/desertwitch/gogio/internal/configuration"
	"github.com/desertwitch/gogio/internal/gio"
)

type command struct {
	usage string
	run   func(ctx context.Context, app *App, fs *flag.FlagSet, args []string) error
}

//nolint:gochecknoglobals
var commands = map[string]command{
	"ls":      {"ls [-a] [-l] LOCATION", cmdList},
	"info":    {"info [-format text|yaml] [-nofollow] LOCATION", cmdInfo},
	"resolve": {"resolve LOCATION", cmdResolve},
	"watch":   {"watch [-ui] LOCATION", cmdWatch},
	"mkdir":   {"mkdir LOCATION", cmdMakeDirectory},
	"rm":      {"rm LOCATION", cmdDelete},
	"trash":   {"trash LOCATION", cmdTrash},
}

// App runs the commands of the tool against a vfs.
type App struct {
	vfs        *gio.Vfs
	settings   *configuration.Settings
	logManager *SlogManager
	logLevel   slog.Leveler

	out    io.Writer
	errOut io.Writer
}

func NewApp(vfs *gio.Vfs,
	settings *configuration.Settings,
	logManager *SlogManager,
	logLevel slog.Leveler,
	out io.Writer,
	errOut io.Writer,
) *App {
	return &App{
		vfs:        vfs,
		settings:   settings,
		logManager: logManager,
		logLevel:   logLevel,
		out:        out,
		errOut:     errOut,
	}
}

// Run dispatches the command named by the first argument.
func (app *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		app.usage()

		return fmt.Errorf("(app) %w", ErrNoCommand)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		app.usage()

		return fmt.Errorf("(app) %q: %w", args[0], ErrUnknownCommand)
	}

	if err := cmd.run(ctx, app, app.flagSet(args[0], cmd.usage), args[1:]); err != nil {
		return fmt.Errorf("(app-%s) %w", args[0], err)
	}

	return nil
}

func (app *App) usage() {
	fmt.Fprintln(app.errOut, "Usage: giotool [flags] COMMAND [ARGS]")
	fmt.Fprintln(app.errOut, "Commands:")

	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(app.errOut, "  %s\n", commands[name].usage)
	}
}

// flagSet returns a flag set for a command, writing its errors to errOut.
func (app *App) flagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.errOut)
	fs.Usage = func() {
		fmt.Fprintf(app.errOut, "Usage: giotool %s\n", usage)
		fs.PrintDefaults()
	}

	return fs
}

// parseLocation parses the flags of a command taking exactly one location
// and returns the file it names.
func (app *App) parseLocation(fs *flag.FlagSet, args []string) (*gio.File, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if fs.NArg() != 1 {
		fs.Usage()

		return nil, ErrUsage
	}

	return app.resolve(fs.Arg(0)), nil
}

// resolve turns a command line location into a file. URIs and names
// starting with a tilde are parse names, anything else is a path.
func (app *App) resolve(location string) *gio.File {
	if strings.HasPrefix(location, "~") || strings.Contains(location, "://") {
		return app.vfs.ParseName(location)
	}

	return app.vfs.FileForPath(location)
}

// displayName returns the path of native files and the URI of others.
func displayName(f *gio.File) string {
	if p := f.Path(); p != "" {
		return p
	}

	return f.URI()
}
