package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(ctx context.Context, cancel context.CancelFunc, in, out *bytes.Buffer) *Handler {
	handler := &Handler{}

	model := NewTeaModel(handler, "/srv/watched", cancel)
	handler.program = tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// waitReady sends the initial window size and waits for the model to
// render, it returns false if the program failed first.
func waitReady(handler *Handler) bool {
	handler.program.Send(tea.WindowSizeMsg{Width: 160, Height: 60})

	for {
		time.Sleep(time.Millisecond)

		if handler.Ready.Load() {
			return true
		}

		if handler.Failed.Load() {
			return false
		}
	}
}

// TestTeaUI is an integration test for the watch view.
func TestTeaUI(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var in bytes.Buffer

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	handler := newTestHandler(ctx, cancel, &in, &buf)

	go func() {
		if !waitReady(handler) {
			return
		}

		handler.SendEvent(EventMsg{
			Time:  time.Now(),
			Event: gio.FileMonitorEventCreated,
			Path:  "/srv/watched/report.txt",
			Size:  2048,
		})
		handler.program.Send(LogMsg("log1"))
		_, _ = handler.LogWriter.Write([]byte("log2"))

		for range 150 {
			_, _ = handler.LogWriter.Write([]byte("fast logs\n"))
		}

		handler.program.Send(tea.WindowSizeMsg{Width: 160, Height: 80})

		time.Sleep(500 * time.Millisecond)
		handler.program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	}()

	require.NoError(t, handler.Launch())
	require.NotZero(t, buf.Len(), "UI generated no output at all")

	out := buf.String()

	assert.Contains(t, out, "Watching /srv/watched")
	assert.Contains(t, out, "report.txt")
	assert.Contains(t, out, "log1")
	assert.Contains(t, out, "log2")
}

// TestTeaUI_Ctrl_C verifies that a Ctrl+C keypress cancels the upstream
// context for signalling application teardown.
func TestTeaUI_Ctrl_C(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var in bytes.Buffer

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	handler := newTestHandler(ctx, cancel, &in, &buf)

	go func() {
		if waitReady(handler) {
			handler.program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		}
	}()

	err := handler.Launch()
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "expected %v, got %v", context.Canceled, err)
	assert.NotZero(t, buf.Len())
}

func TestTeaModel_Update_Events(t *testing.T) {
	t.Parallel()

	handler := &Handler{}
	m := NewTeaModel(handler, "/srv", func() {})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(TeaModel) //nolint:forcetypeassert
	assert.True(t, handler.Ready.Load())

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	for _, ev := range []gio.FileMonitorEvent{gio.FileMonitorEventCreated, gio.FileMonitorEventChanged, gio.FileMonitorEventChanged} {
		next, _ = m.Update(EventMsg{Time: at, Event: ev, Path: "/srv/a", Size: -1})
		m = next.(TeaModel) //nolint:forcetypeassert
	}

	assert.Equal(t, 3, m.total)
	assert.Equal(t, 2, m.counts[gio.FileMonitorEventChanged])
	assert.Len(t, m.events, 3)
	assert.Contains(t, m.summary(), "changed=2, created=1")
	assert.Contains(t, m.View(), "Watching /srv")
}

func TestTeaModel_Update_LogsBounded(t *testing.T) {
	t.Parallel()

	m := NewTeaModel(&Handler{}, "/srv", func() {})

	for range maxLogLines + 20 {
		next, _ := m.Update(LogMsg("line\n"))
		m = next.(TeaModel) //nolint:forcetypeassert
	}

	assert.Len(t, m.logs, maxLogLines)
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)

	testCases := []struct {
		name string
		ev   EventMsg
		want string
	}{
		{
			"Success_WithSize",
			EventMsg{Time: at, Event: gio.FileMonitorEventChanged, Path: "/a", Size: 1536},
			"03:04:05  changed            /a (1.5 KiB)",
		},
		{
			"Success_UnknownSize",
			EventMsg{Time: at, Event: gio.FileMonitorEventDeleted, Path: "/a", Size: -1},
			"03:04:05  deleted            /a",
		},
		{
			"Success_Moved",
			EventMsg{Time: at, Event: gio.FileMonitorEventMoved, Path: "/a", Other: "/b", Size: -1},
			"03:04:05  moved              /a -> /b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, formatEvent(tc.ev))
		})
	}
}
