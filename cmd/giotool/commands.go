package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/desertwitch/gogio/internal/gio"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

type listEntry struct {
	name     string
	fileType gio.FileType
	mode     fs.FileMode
	hasMode  bool
	size     int64
	modified string
}

func newListEntry(info *gio.FileInfo) listEntry {
	entry := listEntry{
		name:     info.Name(),
		fileType: info.FileType(),
		size:     info.Size(),
		modified: "-",
	}

	if info.HasAttribute(gio.AttrUnixMode) {
		entry.mode = fs.FileMode(info.AttributeUint32(gio.AttrUnixMode) & 0o777) //nolint:mnd
		entry.hasMode = true
	}

	if info.HasAttribute(gio.AttrTimeModified) {
		entry.modified = humanize.Time(info.ModificationTime())
	}

	return entry
}

func (e listEntry) typeChar() string {
	switch e.fileType {
	case gio.FileTypeDirectory:
		return "d"
	case gio.FileTypeSymbolicLink:
		return "l"
	case gio.FileTypeSpecial:
		return "s"
	default:
		return "-"
	}
}

func (e listEntry) long() string {
	mode := "?????????"
	if e.hasMode {
		mode = e.mode.String()[1:]
	}

	return fmt.Sprintf("%s%s %10s  %-16s %s", e.typeChar(), mode, humanize.IBytes(uint64(max(e.size, 0))), e.modified, e.name)
}

func cmdList(ctx context.Context, app *App, set *flag.FlagSet, args []string) error {
	all := set.Bool("a", false, "show hidden entries")
	long := set.Bool("l", false, "show type, mode, size and modification time")

	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	c := gio.NewCancellable(ctx)

	e, err := newFilterEnumerator(file, app.settings.Attributes, *all, c)
	if err != nil {
		return err
	}
	defer e.Unref()

	var entries []listEntry
	for info, err := range e.All(c) {
		if err != nil {
			return fmt.Errorf("(ls) %w", err)
		}

		entries = append(entries, newListEntry(info))
		info.Unref()
	}

	if _, err := e.Close(c); err != nil {
		return fmt.Errorf("(ls) %w", err)
	}

	slices.SortFunc(entries, func(a, b listEntry) int {
		return strings.Compare(a.name, b.name)
	})

	for _, entry := range entries {
		if *long {
			fmt.Fprintln(app.out, entry.long())
		} else {
			fmt.Fprintln(app.out, entry.name)
		}
	}

	return nil
}

// infoDocument is the structured form of the info command's output.
type infoDocument struct {
	URI        string         `yaml:"uri"`
	Attributes map[string]any `yaml:"attributes"`
}

func cmdInfo(ctx context.Context, app *App, set *flag.FlagSet, args []string) error {
	format := set.String("format", "text", "output format (text or yaml)")
	nofollow := set.Bool("nofollow", false, "do not follow symbolic links")

	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	flags := gio.FileQueryInfoNone
	if *nofollow {
		flags = gio.FileQueryInfoNofollowSymlinks
	}

	info, err := file.QueryInfo(app.settings.Attributes, flags, gio.NewCancellable(ctx))
	if err != nil {
		return fmt.Errorf("(info) %w", err)
	}
	defer info.Unref()

	keys := info.ListAttributes("")

	switch *format {
	case "text":
		fmt.Fprintf(app.out, "uri: %s\n", file.URI())

		for _, key := range keys {
			value, _ := info.Attribute(key)
			fmt.Fprintf(app.out, "  %s: %v\n", key, value)
		}

	case "yaml":
		doc := infoDocument{
			URI:        file.URI(),
			Attributes: make(map[string]any, len(keys)),
		}

		for _, key := range keys {
			doc.Attributes[key], _ = info.Attribute(key)
		}

		enc := yaml.NewEncoder(app.out)
		enc.SetIndent(2) //nolint:mnd

		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("(info) %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("(info) %w", err)
		}

	default:
		return fmt.Errorf("(info) %q: %w", *format, ErrUnknownFormat)
	}

	return nil
}

func cmdResolve(_ context.Context, app *App, set *flag.FlagSet, args []string) error {
	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	path := file.Path()
	if path == "" {
		path = "-"
	}

	fmt.Fprintf(app.out, "type: %s\n", file.Object().Type())
	fmt.Fprintf(app.out, "path: %s\n", path)
	fmt.Fprintf(app.out, "uri: %s\n", file.URI())
	fmt.Fprintf(app.out, "parse-name: %s\n", file.ParseName())
	fmt.Fprintf(app.out, "scheme: %s\n", file.URIScheme())
	fmt.Fprintf(app.out, "native: %t\n", file.IsNative())
	fmt.Fprintf(app.out, "hash: %08x\n", file.Hash())
	fmt.Fprintf(app.out, "supported-schemes: %s\n", strings.Join(app.vfs.SupportedURISchemes(), ","))

	return nil
}

func cmdMakeDirectory(ctx context.Context, app *App, set *flag.FlagSet, args []string) error {
	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	if err := file.MakeDirectory(gio.NewCancellable(ctx)); err != nil {
		return fmt.Errorf("(mkdir) %w", err)
	}

	slog.Info("Created directory.", "location", displayName(file))

	return nil
}

func cmdDelete(ctx context.Context, app *App, set *flag.FlagSet, args []string) error {
	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	if err := file.Delete(gio.NewCancellable(ctx)); err != nil {
		return fmt.Errorf("(rm) %w", err)
	}

	slog.Info("Deleted location.", "location", displayName(file))

	return nil
}

func cmdTrash(ctx context.Context, app *App, set *flag.FlagSet, args []string) error {
	file, err := app.parseLocation(set, args)
	if err != nil {
		return err
	}
	defer file.Unref()

	if err := file.Trash(gio.NewCancellable(ctx)); err != nil {
		return fmt.Errorf("(trash) %w", err)
	}

	slog.Info("Moved location to the trash.", "location", displayName(file))

	return nil
}
