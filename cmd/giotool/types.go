package main

import (
	"fmt"
	"sync"

	"github.com/desertwitch/gogio/internal/gio"
	"github.com/desertwitch/gogio/internal/gio/subclass"
	"github.com/desertwitch/gogio/internal/gtype"
)

type giotoolTypes struct {
	vfs        gtype.Type
	enumerator gtype.Type
	monitor    gtype.Type
}

//nolint:gochecknoglobals
var registeredTypes = sync.OnceValues(func() (giotoolTypes, error) {
	var types giotoolTypes
	var err error

	if types.vfs, err = subclass.RegisterVfs[tracingVfs](gio.TypeLocalVfs(), "GiotoolTracingVfs"); err != nil {
		return types, fmt.Errorf("(types) %w", err)
	}

	if types.enumerator, err = subclass.RegisterFileEnumerator[filterEnumerator](gio.TypeFileEnumerator(), "GiotoolFilterEnumerator"); err != nil {
		return types, fmt.Errorf("(types) %w", err)
	}

	if types.monitor, err = subclass.RegisterFileMonitor[loggingMonitor](gio.TypePollFileMonitor(), "GiotoolLoggingMonitor"); err != nil {
		return types, fmt.Errorf("(types) %w", err)
	}

	return types, nil
})
