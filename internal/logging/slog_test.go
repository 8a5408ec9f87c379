package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewSlogLogger(l), &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()

	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		l, buf := newBufLogger(t)
		switch level {
		case "DEBUG":
			l.Debug(ctx, "msg", "k", "v")
		case "INFO":
			l.Info(ctx, "msg", "k", "v")
		case "WARN":
			l.Warn(ctx, "msg", "k", "v")
		case "ERROR":
			l.Error(ctx, "msg", "k", "v")
		}
		rec := lastRecord(t, buf)
		require.Equal(t, level, rec["level"])
		require.Equal(t, "msg", rec["msg"])
		require.Equal(t, "v", rec["k"])
	}
}

func TestSlogLogger_With(t *testing.T) {
	l, buf := newBufLogger(t)
	child := l.With("module", "transfer")
	child.Info(context.Background(), "hello")

	rec := lastRecord(t, buf)
	require.Equal(t, "transfer", rec["module"])
}
