package main

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync/atomic"

	"github.com/desertwitch/gogio/internal/configuration"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gio/subclass"
	"github.com/go-git/go-billy/v5/osfs"
)

// tracingVfs resolves locations like the local vfs and logs every lookup.
type tracingVfs struct {
	subclass.VfsImplBase

	lookups atomic.Int64
}

func (v *tracingVfs) FileForPath(path string) *gio.File {
	return v.trace("get_file_for_path", path, v.ParentFileForPath(path))
}

func (v *tracingVfs) FileForURI(uri string) *gio.File {
	return v.trace("get_file_for_uri", uri, v.ParentFileForURI(uri))
}

func (v *tracingVfs) ParseName(parseName string) *gio.File {
	return v.trace("parse_name", parseName, v.ParentParseName(parseName))
}

func (v *tracingVfs) trace(op, input string, f *gio.File) *gio.File {
	v.lookups.Add(1)

	slog.Debug("Resolved location.",
		"op", op,
		"input", input,
		"type", f.Object().Type(),
		"uri", f.URI(),
	)

	return f
}

// newVfs creates the tracing vfs and serves the configured schemes from
// their directories.
func newVfs(settings *configuration.Settings) (*gio.Vfs, error) {
	types, err := registeredTypes()
	if err != nil {
		return nil, err
	}

	v, err := gio.NewVfs(types.vfs)
	if err != nil {
		return nil, fmt.Errorf("(vfs) %w", err)
	}

	for _, scheme := range slices.Sorted(maps.Keys(settings.Schemes)) {
		dir := settings.Schemes[scheme]

		if !gio.RegisterMemoryScheme(v, scheme, osfs.New(dir)) {
			v.Unref()

			return nil, fmt.Errorf("(vfs) %q: %w", scheme, ErrSchemeTaken)
		}

		slog.Debug("Serving URI scheme.", "scheme", scheme, "dir", dir)
	}

	return v, nil
}
