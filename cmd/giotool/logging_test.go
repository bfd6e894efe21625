package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func textHandler(buf *bytes.Buffer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	})
}

func TestSlogManager_FanOut(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer

	m := NewSlogManager()
	m.AddHandler("first", textHandler(&first, slog.LevelInfo))
	m.AddHandler("second", textHandler(&second, slog.LevelWarn))

	logger := slog.New(m)
	logger.Info("Informational.")
	logger.Warn("Warning.", "key", "value")

	assert.Equal(t, "level=INFO msg=Informational.\nlevel=WARN msg=Warning. key=value\n", first.String())
	assert.Equal(t, "level=WARN msg=Warning. key=value\n", second.String())
}

func TestSlogManager_Enabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	m := NewSlogManager()
	assert.False(t, m.Enabled(t.Context(), slog.LevelError))

	m.AddHandler("warn", textHandler(&buf, slog.LevelWarn))
	assert.False(t, m.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, m.Enabled(t.Context(), slog.LevelWarn))
}

func TestSlogManager_DerivedLoggersFollowRoutes(t *testing.T) {
	t.Parallel()

	var terminal, view bytes.Buffer

	m := NewSlogManager()
	m.AddHandler(terminalHandler, textHandler(&terminal, slog.LevelInfo))

	logger := slog.New(m).WithGroup("watch").With("location", "/srv")
	logger.Info("Before.")

	m.AddHandler(uiHandler, textHandler(&view, slog.LevelInfo))
	m.RemoveHandler(terminalHandler)

	logger.Info("During.", "n", 1)

	assert.Equal(t, "level=INFO msg=Before. watch.location=/srv\n", terminal.String())
	assert.Equal(t, "level=INFO msg=During. watch.location=/srv watch.n=1\n", view.String())
}
