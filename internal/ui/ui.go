// Package ui implements the terminal view of the watch command using [tea].
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	program *tea.Program

	LogWriter *TeaLogWriter

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler] showing the
// events of the watched location.
func NewHandler(ctx context.Context, cancel context.CancelFunc, location string, opts ...tea.ProgramOption) *Handler {
	handler := &Handler{}

	model := NewTeaModel(handler, location, cancel)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	handler.program = tea.NewProgram(model, opts...)
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// SendEvent hands a monitor event to the user interface. It is safe to call
// from the monitor's goroutine.
func (uiHandler *Handler) SendEvent(ev EventMsg) {
	uiHandler.program.Send(ev)
}

// Launch starts the command-line user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}
