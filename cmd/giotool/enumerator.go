package main

import (
	"fmt"
	"strings"

	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gio/subclass"
	"github.com/desertwitch/gogio/internal/gtype"
)

// filterEnumerator hides dot-files from the entries of an inner enumerator.
type filterEnumerator struct {
	subclass.FileEnumeratorImplBase

	inner      *gio.FileEnumerator
	showHidden bool
	skipped    int
}

func isHidden(info *gio.FileInfo) bool {
	return info.IsHidden() || strings.HasPrefix(info.Name(), ".")
}

func (e *filterEnumerator) NextFile(c *gio.Cancellable) (*gio.FileInfo, error) {
	if e.inner == nil {
		return nil, nil
	}

	for {
		info, err := e.inner.NextFile(c)
		if err != nil {
			return nil, err
		}

		if info == nil || e.showHidden || !isHidden(info) {
			return info, nil
		}

		e.skipped++
		info.Unref()
	}
}

func (e *filterEnumerator) Close(c *gio.Cancellable) (bool, error) {
	if e.inner == nil {
		return true, nil
	}

	return e.inner.Close(c)
}

func (e *filterEnumerator) Dispose() {
	// The parent closes the enumerator through Close, which needs inner.
	e.ParentDispose()

	if e.inner != nil {
		e.inner.Unref()
		e.inner = nil
	}
}

// newFilterEnumerator enumerates the children of file, hiding dot-files
// unless showHidden is set.
func newFilterEnumerator(file *gio.File, attributes string, showHidden bool, c *gio.Cancellable) (*gio.FileEnumerator, error) {
	types, err := registeredTypes()
	if err != nil {
		return nil, err
	}

	inner, err := file.EnumerateChildren(attributes, gio.FileQueryInfoNone, c)
	if err != nil {
		return nil, fmt.Errorf("(enumerate) %w", err)
	}

	e, err := gio.NewFileEnumerator(types.enumerator, file)
	if err != nil {
		inner.Unref()

		return nil, fmt.Errorf("(enumerate) %w", err)
	}

	imp := gtype.ImplOf[*filterEnumerator](e.Object(), types.enumerator)
	imp.inner = inner
	imp.showHidden = showHidden

	return e, nil
}
