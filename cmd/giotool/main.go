package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/desertwitch/gogio/internal/configuration"
	"github.com/lmittmann/tint"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	configFile = flag.String("config", "", "read settings from this env-style file")
	logLevel   = flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	version    = flag.Bool("version", false, "print the version and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func newTerminalHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

// loadSettings reads the configuration and applies the command line
// overrides.
func loadSettings(level *slog.LevelVar) (*configuration.Settings, error) {
	configHandler := configuration.NewHandler(configuration.NewGodotenvProvider())

	var files []string
	if *configFile != "" {
		files = append(files, *configFile)
	}

	settings, err := configHandler.LoadSettings(files...)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if *logLevel != "" {
		if err := settings.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
			return nil, fmt.Errorf("(main) -log-level %q: %w", *logLevel, configuration.ErrInvalidSetting)
		}
	}

	level.Set(settings.LogLevel)

	return settings, nil
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Parse()

	if *version {
		fmt.Fprintln(os.Stdout, "giotool", Version)

		return
	}

	level := new(slog.LevelVar)

	logManager := NewSlogManager()
	logManager.AddHandler(terminalHandler, newTerminalHandler(os.Stderr, level))
	slog.SetDefault(slog.New(logManager))

	setupSignalHandlers(cancel)

	settings, err := loadSettings(level)
	if err != nil {
		slog.Error("Failed to load the configuration.", "err", err)
		ExitCode = 1

		return
	}

	cpuProfiler := newCPUProfiler(ctx, *cpuprofile)
	defer cpuProfiler.Stop()

	allocProfiler := newAllocProfiler(ctx, *memprofile)
	defer allocProfiler.Stop()

	observer := newObjectObserver(ctx)
	defer observer.Stop()

	vfs, err := newVfs(settings)
	if err != nil {
		slog.Error("Failed to establish the vfs.", "err", err)
		ExitCode = 1

		return
	}
	defer vfs.Unref()

	app := NewApp(vfs, settings, logManager, level, os.Stdout, os.Stderr)

	if err := app.Run(ctx, flag.Args()); err != nil {
		slog.Error("Command failed.", "err", err)
		ExitCode = 1
	}
}
